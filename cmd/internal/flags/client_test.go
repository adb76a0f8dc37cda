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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClient_NewFlagSet(t *testing.T) {
	t.Parallel()

	client := NewClient()

	flagSet := client.NewFlagSet()

	args := []string{
		"-u", "https://api.example.com",
		"--token", "secret",
		"--timeout", "2500",
		"--rps", "12.5",
		"--burst", "3",
		"-p", "8",
	}

	err := flagSet.Parse(args)
	assert.NoError(t, err)

	result := client.GetClient()

	assert.Equal(t, "https://api.example.com", result.BaseURL)
	assert.Equal(t, "secret", result.Token)
	assert.Equal(t, int64(2500), result.Timeout)
	assert.InDelta(t, 12.5, result.RequestsPerSecond, 0)
	assert.Equal(t, 3, result.Burst)
	assert.Equal(t, 8, result.Parallel)
}

func TestClient_NewFlagSet_DefaultValues(t *testing.T) {
	t.Parallel()

	client := NewClient()

	flagSet := client.NewFlagSet()

	err := flagSet.Parse([]string{})
	assert.NoError(t, err)

	result := client.GetClient()

	assert.Empty(t, result.BaseURL)
	assert.Empty(t, result.Token)
	assert.Zero(t, result.Timeout)
	assert.Zero(t, result.RequestsPerSecond)
	assert.Equal(t, 1, result.Burst)
	assert.Equal(t, defaultParallel, result.Parallel)
}
