// Copyright 2026 BlueBoxy Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"fmt"

	"github.com/blueboxy/remotecall/cmd/internal/models"
)

// ServiceConfig holds all parameters of a CLI run.
type ServiceConfig struct {
	App     *models.App
	Client  *models.Client
	Policy  *models.Policy
	Cache   *models.Cache
	Message *models.Message
}

// NewServiceConfig returns a ServiceConfig built from flags. If a
// configuration file is set in app, it is loaded instead.
func NewServiceConfig(
	app *models.App,
	client *models.Client,
	policy *models.Policy,
	cache *models.Cache,
	message *models.Message,
) (*ServiceConfig, error) {
	if app.ConfigFilePath != "" {
		serviceConfig, err := decodeServiceConfig(app.ConfigFilePath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", app.ConfigFilePath, err)
		}

		return serviceConfig, nil
	}

	return &ServiceConfig{
		App:     app,
		Client:  client,
		Policy:  policy,
		Cache:   cache,
		Message: message,
	}, nil
}

// Validate checks the parts of the configuration every command needs.
func (c *ServiceConfig) Validate() error {
	if err := c.Client.Validate(); err != nil {
		return fmt.Errorf("invalid client config: %w", err)
	}

	if err := c.Policy.Validate(); err != nil {
		return fmt.Errorf("invalid retry config: %w", err)
	}

	if err := c.Cache.Validate(); err != nil {
		return fmt.Errorf("invalid cache config: %w", err)
	}

	return nil
}
