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

// Message holds the parameters of a message generation request.
type Message struct {
	UserID          string `yaml:"user-id,omitempty"`
	Category        string `yaml:"category,omitempty"`
	TimeOfDay       string `yaml:"time-of-day,omitempty"`
	PartnerName     string `yaml:"partner-name,omitempty"`
	PersonalityType string `yaml:"personality-type,omitempty"`
	Count           int    `yaml:"count,omitempty"`
	// Refresh skips the cache and replaces the cached messages.
	Refresh bool `yaml:"refresh,omitempty"`
}

func (m *Message) Validate() error {
	if m == nil {
		return nil
	}

	if m.UserID == "" {
		return fmt.Errorf("user-id is required")
	}

	if m.Category == "" {
		return fmt.Errorf("category is required")
	}

	if m.Count < 0 {
		return fmt.Errorf("count must be non-negative")
	}

	return nil
}
