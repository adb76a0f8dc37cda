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

package flags

import (
	"github.com/blueboxy/remotecall/cmd/internal/models"
	"github.com/spf13/pflag"
)

type Policy struct {
	models.Policy
}

func NewPolicy() *Policy {
	return &Policy{}
}

func (f *Policy) NewFlagSet() *pflag.FlagSet {
	flagSet := &pflag.FlagSet{}

	flagSet.StringVar(&f.Preset, "retry-preset",
		models.PresetDefault,
		"Retry policy preset. Presets are:\n"+
			"default: 3 attempts, 1s base delay, multiplier 2, 30s max delay.\n"+
			"aggressive: 5 attempts, 200ms base delay, multiplier 1.5, 5s max delay.\n"+
			"The flags below override single values of the preset.")
	flagSet.IntVar(&f.MaxAttempts, "max-attempts",
		0,
		"Total number of attempts, including the first one.")
	flagSet.Int64Var(&f.BaseDelay, "base-delay",
		0,
		"Delay in milliseconds before the second attempt.")
	flagSet.Int64Var(&f.MaxDelay, "max-delay",
		0,
		"Maximum delay in milliseconds between attempts.\n"+
			"A server asking to wait longer than this stops the retries.")
	flagSet.Float64Var(&f.Multiplier, "multiplier",
		0,
		"Growth factor of the delay between attempts. Must be greater than 1.")
	flagSet.Float64Var(&f.Jitter, "jitter",
		0,
		"Fraction of every delay that is randomized, in [0, 1).")
	flagSet.StringVar(&f.RetryOn, "retry-on",
		"",
		"Error kinds that are retried. Accepts comma-separated values with no spaces:\n"+
			"'connectivity,rate_limited,server_error,unknown'\n"+
			"If empty, the preset kinds are retried.")

	return flagSet
}

func (f *Policy) GetPolicy() *models.Policy {
	return &f.Policy
}
