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
	"os"

	"github.com/blueboxy/remotecall/cmd/internal/config/dto"
	"gopkg.in/yaml.v3"
)

// decodeFromFile decode yaml to params.
func decodeFromFile(filename string, params any) error {
	if filename == "" {
		return fmt.Errorf("config path is empty")
	}

	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("failed to open config file %s: %w", filename, err)
	}
	defer file.Close()

	yamlDec := yaml.NewDecoder(file)
	yamlDec.KnownFields(true)

	if err := yamlDec.Decode(params); err != nil {
		return fmt.Errorf("failed to decode config file %s: %w", filename, err)
	}

	return nil
}

// decodeServiceConfig reads a configuration file and decodes it into ServiceConfig.
func decodeServiceConfig(filename string) (*ServiceConfig, error) {
	var cfg dto.Config
	if err := decodeFromFile(filename, &cfg); err != nil {
		return nil, err
	}

	return &ServiceConfig{
		App:     cfg.App.ToModelApp(),
		Client:  cfg.Client.ToModelClient(),
		Policy:  cfg.Retry.ToModelPolicy(),
		Cache:   cfg.Cache.ToModelCache(),
		Message: cfg.Message.ToModelMessage(),
	}, nil
}
