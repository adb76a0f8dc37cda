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

import (
	"fmt"
	"strings"
)

const (
	PresetDefault    = "default"
	PresetAggressive = "aggressive"
)

// Policy describes the retry policy used for remote calls.
// Zero values of the numeric fields fall back to the preset.
type Policy struct {
	Preset      string  `yaml:"preset,omitempty"`
	MaxAttempts int     `yaml:"max-attempts,omitempty"`
	BaseDelay   int64   `yaml:"base-delay,omitempty"`
	MaxDelay    int64   `yaml:"max-delay,omitempty"`
	Multiplier  float64 `yaml:"multiplier,omitempty"`
	Jitter      float64 `yaml:"jitter,omitempty"`
	// RetryOn is a comma separated list of error kinds that are retried.
	RetryOn string `yaml:"retry-on,omitempty"`
}

func (p *Policy) Validate() error {
	if p == nil {
		return nil
	}

	switch strings.ToLower(p.Preset) {
	case "", PresetDefault, PresetAggressive:
	default:
		return fmt.Errorf("unknown retry preset %q, expected %s or %s", p.Preset, PresetDefault, PresetAggressive)
	}

	if p.MaxAttempts < 0 {
		return fmt.Errorf("max-attempts must be non-negative")
	}

	if p.BaseDelay < 0 {
		return fmt.Errorf("base-delay must be non-negative")
	}

	if p.MaxDelay < 0 {
		return fmt.Errorf("max-delay must be non-negative")
	}

	if p.Multiplier != 0 && p.Multiplier <= 1 {
		return fmt.Errorf("multiplier must be greater than 1")
	}

	if p.Jitter < 0 || p.Jitter >= 1 {
		return fmt.Errorf("jitter must be in [0, 1)")
	}

	return nil
}
