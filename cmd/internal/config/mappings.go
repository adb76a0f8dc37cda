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
	"strings"
	"time"

	"github.com/blueboxy/remotecall/cmd/internal/models"
	bModels "github.com/blueboxy/remotecall/models"
)

// NewRetryPolicy maps policy parameters onto a retry policy. Values that are
// not set are taken from the preset.
func NewRetryPolicy(p *models.Policy) (*bModels.RetryPolicy, error) {
	preset := bModels.NewDefaultRetryPolicy()
	if p == nil {
		return preset, nil
	}

	if strings.EqualFold(p.Preset, models.PresetAggressive) {
		preset = bModels.NewAggressiveRetryPolicy()
	}

	maxAttempts := uint(preset.MaxAttempts())
	if p.MaxAttempts > 0 {
		maxAttempts = uint(p.MaxAttempts)
	}

	baseDelay := preset.BaseDelay()
	if p.BaseDelay > 0 {
		baseDelay = time.Duration(p.BaseDelay) * time.Millisecond
	}

	maxDelay := preset.MaxDelay()
	if p.MaxDelay > 0 {
		maxDelay = time.Duration(p.MaxDelay) * time.Millisecond
	}

	multiplier := preset.Multiplier()
	if p.Multiplier != 0 {
		multiplier = p.Multiplier
	}

	opts := make([]bModels.RetryPolicyOpt, 0, 2)

	if p.Jitter > 0 {
		opts = append(opts, bModels.WithJitter(p.Jitter))
	}

	if kinds := SplitByComma(p.RetryOn); len(kinds) > 0 {
		retryable := make([]bModels.ErrorKind, 0, len(kinds))

		for _, k := range kinds {
			kind, err := bModels.ParseErrorKind(k)
			if err != nil {
				return nil, fmt.Errorf("failed to parse retry-on: %w", err)
			}

			retryable = append(retryable, kind)
		}

		opts = append(opts, bModels.WithRetryableKinds(retryable...))
	}

	policy, err := bModels.NewRetryPolicy(maxAttempts, baseDelay, maxDelay, multiplier, opts...)
	if err != nil {
		return nil, fmt.Errorf("invalid retry policy: %w", err)
	}

	return policy, nil
}

// CacheTTL returns the cache time to live, zero when caching is disabled.
func CacheTTL(c *models.Cache) time.Duration {
	if c == nil || c.Mode == models.CacheModeNone {
		return 0
	}

	return time.Duration(c.TTL) * time.Second
}

// AttemptTimeout returns the per attempt timeout, zero when not set.
func AttemptTimeout(c *models.Client) time.Duration {
	if c == nil {
		return 0
	}

	return time.Duration(c.Timeout) * time.Millisecond
}

func SplitByComma(s string) []string {
	if s == "" {
		return nil
	}

	return strings.Split(s, ",")
}
