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

package models

import "fmt"

// Client configures the HTTP client used for remote calls.
type Client struct {
	BaseURL string `yaml:"base-url,omitempty"`
	Token   string `yaml:"token,omitempty"`
	// Timeout of a single attempt in milliseconds, 0 means no timeout.
	Timeout           int64   `yaml:"timeout,omitempty"`
	RequestsPerSecond float64 `yaml:"requests-per-second,omitempty"`
	Burst             int     `yaml:"burst,omitempty"`
	Parallel          int     `yaml:"parallel,omitempty"`
}

func (c *Client) Validate() error {
	if c == nil {
		return nil
	}

	if c.BaseURL == "" {
		return fmt.Errorf("base-url is required")
	}

	if c.Timeout < 0 {
		return fmt.Errorf("timeout must be non-negative")
	}

	if c.RequestsPerSecond < 0 {
		return fmt.Errorf("requests-per-second must be non-negative")
	}

	if c.Parallel < 0 {
		return fmt.Errorf("parallel must be non-negative")
	}

	return nil
}
