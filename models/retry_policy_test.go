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
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const (
	testBaseDelay   = 100 * time.Millisecond
	testMaxDelay    = 1000 * time.Millisecond
	testMultiplier  = 2.0
	testMaxAttempts = 3
)

var nonRetryableKinds = []ErrorKind{
	KindUnauthorized,
	KindForbidden,
	KindNotFound,
	KindDecoding,
	KindCancelled,
}

func newTestPolicy(t *testing.T, opts ...RetryPolicyOpt) *RetryPolicy {
	t.Helper()

	policy, err := NewRetryPolicy(testMaxAttempts, testBaseDelay, testMaxDelay, testMultiplier, opts...)
	require.NoError(t, err)

	return policy
}

func TestNewRetryPolicy(t *testing.T) {
	t.Parallel()

	t.Run("Creates policy with given values", func(t *testing.T) {
		t.Parallel()

		policy := newTestPolicy(t)

		require.NotNil(t, policy)
		require.Equal(t, testMaxAttempts, policy.MaxAttempts())
		require.Equal(t, testBaseDelay, policy.BaseDelay())
		require.Equal(t, testMaxDelay, policy.MaxDelay())
		require.Equal(t, testMultiplier, policy.Multiplier())
		require.Zero(t, policy.JitterFraction())
		require.ElementsMatch(t, DefaultRetryableKinds, policy.RetryableKinds())
	})

	t.Run("Creates policy with single attempt", func(t *testing.T) {
		t.Parallel()

		policy, err := NewRetryPolicy(1, 0, 0, 1.5)

		require.NoError(t, err)
		require.Equal(t, 1, policy.MaxAttempts())
		require.Empty(t, policy.Schedule())
	})

	t.Run("Rejects zero max attempts", func(t *testing.T) {
		t.Parallel()

		policy, err := NewRetryPolicy(0, testBaseDelay, testMaxDelay, testMultiplier)

		require.Error(t, err)
		require.Nil(t, policy)
		require.Contains(t, err.Error(), "max attempts must be greater than or equal to 1")
	})

	t.Run("Retryable kinds are copied", func(t *testing.T) {
		t.Parallel()

		kinds := []ErrorKind{KindServerError}
		policy := newTestPolicy(t, WithRetryableKinds(kinds...))
		kinds[0] = KindNotFound

		require.Equal(t, []ErrorKind{KindServerError}, policy.RetryableKinds())

		got := policy.RetryableKinds()
		got[0] = KindDecoding
		require.Equal(t, []ErrorKind{KindServerError}, policy.RetryableKinds())
	})

	t.Run("Must panics on invalid values", func(t *testing.T) {
		t.Parallel()

		require.Panics(t, func() {
			MustRetryPolicy(0, testBaseDelay, testMaxDelay, testMultiplier)
		})
	})
}

func TestNamedRetryPolicies(t *testing.T) {
	t.Parallel()

	t.Run("Default policy", func(t *testing.T) {
		t.Parallel()

		policy := NewDefaultRetryPolicy()

		require.Equal(t, DefaultMaxAttempts, policy.MaxAttempts())
		require.Equal(t, DefaultBaseDelay, policy.BaseDelay())
		require.Equal(t, DefaultMultiplier, policy.Multiplier())
		require.Equal(t, DefaultMaxDelay, policy.MaxDelay())
	})

	t.Run("Aggressive policy", func(t *testing.T) {
		t.Parallel()

		policy := NewAggressiveRetryPolicy()
		def := NewDefaultRetryPolicy()

		require.Equal(t, AggressiveMaxAttempts, policy.MaxAttempts())
		require.Greater(t, policy.MaxAttempts(), def.MaxAttempts())
		require.Less(t, policy.BaseDelay(), def.BaseDelay())
		require.Less(t, policy.MaxDelay(), def.MaxDelay())
	})
}

func TestRetryPolicy_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		maxAttempts uint
		baseDelay   time.Duration
		maxDelay    time.Duration
		multiplier  float64
		opts        []RetryPolicyOpt
		wantErr     string
	}{
		{
			name:        "valid policy",
			maxAttempts: testMaxAttempts,
			baseDelay:   testBaseDelay,
			maxDelay:    testMaxDelay,
			multiplier:  testMultiplier,
		},
		{
			name:        "negative base delay",
			maxAttempts: testMaxAttempts,
			baseDelay:   -time.Second,
			maxDelay:    testMaxDelay,
			multiplier:  testMultiplier,
			wantErr:     "base delay must be non-negative",
		},
		{
			name:        "multiplier equal to 1",
			maxAttempts: testMaxAttempts,
			baseDelay:   testBaseDelay,
			maxDelay:    testMaxDelay,
			multiplier:  1,
			wantErr:     "multiplier must be greater than 1",
		},
		{
			name:        "negative multiplier",
			maxAttempts: testMaxAttempts,
			baseDelay:   testBaseDelay,
			maxDelay:    testMaxDelay,
			multiplier:  -1.5,
			wantErr:     "multiplier must be greater than 1",
		},
		{
			name:        "cap below base delay",
			maxAttempts: testMaxAttempts,
			baseDelay:   testMaxDelay,
			maxDelay:    testBaseDelay,
			multiplier:  testMultiplier,
			wantErr:     "max delay must be greater than or equal to base delay",
		},
		{
			name:        "jitter out of range",
			maxAttempts: testMaxAttempts,
			baseDelay:   testBaseDelay,
			maxDelay:    testMaxDelay,
			multiplier:  testMultiplier,
			opts:        []RetryPolicyOpt{WithJitter(1)},
			wantErr:     "jitter fraction must be in [0, 1)",
		},
		{
			name:        "jitter without random source",
			maxAttempts: testMaxAttempts,
			baseDelay:   testBaseDelay,
			maxDelay:    testMaxDelay,
			multiplier:  testMultiplier,
			opts:        []RetryPolicyOpt{WithJitter(0.2), WithRandFloat(nil)},
			wantErr:     "jitter requires a random source",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := NewRetryPolicy(tt.maxAttempts, tt.baseDelay, tt.maxDelay, tt.multiplier, tt.opts...)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}

			require.Error(t, err)
			require.Contains(t, err.Error(), tt.wantErr)
		})
	}

	t.Run("Nil policy passes validation", func(t *testing.T) {
		t.Parallel()

		var policy *RetryPolicy

		require.NoError(t, policy.Validate())
	})
}

func TestRetryPolicy_ShouldRetry(t *testing.T) {
	t.Parallel()

	t.Run("Never retries once attempts are exhausted", func(t *testing.T) {
		t.Parallel()

		policy := newTestPolicy(t)
		allKinds := append(slicesOf(DefaultRetryableKinds), nonRetryableKinds...)

		for _, kind := range allKinds {
			for attempt := testMaxAttempts; attempt <= testMaxAttempts+3; attempt++ {
				err := NewRemoteError(kind, "boom", nil)
				require.False(t, policy.ShouldRetry(err, attempt), "kind %s attempt %d", kind, attempt)
			}
		}
	})

	t.Run("Never retries non-retryable kinds", func(t *testing.T) {
		t.Parallel()

		policy := newTestPolicy(t)

		for _, kind := range nonRetryableKinds {
			for attempt := 1; attempt <= testMaxAttempts; attempt++ {
				err := NewRemoteError(kind, "boom", nil)
				require.False(t, policy.ShouldRetry(err, attempt), "kind %s attempt %d", kind, attempt)
			}
		}
	})

	t.Run("Retries retryable kinds before exhaustion", func(t *testing.T) {
		t.Parallel()

		policy := newTestPolicy(t)

		for _, kind := range DefaultRetryableKinds {
			for attempt := 1; attempt < testMaxAttempts; attempt++ {
				err := NewRemoteError(kind, "boom", nil)
				require.True(t, policy.ShouldRetry(err, attempt), "kind %s attempt %d", kind, attempt)
			}
		}
	})

	t.Run("Unknown can be excluded", func(t *testing.T) {
		t.Parallel()

		policy := newTestPolicy(t, WithRetryableKinds(KindConnectivity, KindServerError))

		require.False(t, policy.ShouldRetry(errors.New("plain error"), 1))
		require.True(t, policy.ShouldRetry(NewRemoteError(KindServerError, "", nil), 1))
	})

	t.Run("Cancelled is never retried even when listed", func(t *testing.T) {
		t.Parallel()

		policy := newTestPolicy(t, WithRetryableKinds(KindCancelled))

		require.False(t, policy.ShouldRetry(NewRemoteError(KindCancelled, "", nil), 1))
	})

	t.Run("Nil error is not retried", func(t *testing.T) {
		t.Parallel()

		require.False(t, newTestPolicy(t).ShouldRetry(nil, 1))
	})
}

func TestRetryPolicy_DelayBeforeNextAttempt(t *testing.T) {
	t.Parallel()

	t.Run("Exponential growth", func(t *testing.T) {
		t.Parallel()

		policy := newTestPolicy(t)

		require.Equal(t, 100*time.Millisecond, policy.DelayBeforeNextAttempt(1))
		require.Equal(t, 200*time.Millisecond, policy.DelayBeforeNextAttempt(2))
		require.Equal(t, 400*time.Millisecond, policy.DelayBeforeNextAttempt(3))
		require.Equal(t, 800*time.Millisecond, policy.DelayBeforeNextAttempt(4))
		require.Equal(t, testMaxDelay, policy.DelayBeforeNextAttempt(5))
	})

	t.Run("Monotonic and capped", func(t *testing.T) {
		t.Parallel()

		policies := []*RetryPolicy{
			newTestPolicy(t),
			NewDefaultRetryPolicy(),
			NewAggressiveRetryPolicy(),
			MustRetryPolicy(10, time.Nanosecond, time.Hour, 1.01),
			MustRetryPolicy(10, 0, 0, 3),
		}

		for _, policy := range policies {
			prev := time.Duration(0)
			for n := 1; n <= 200; n++ {
				d := policy.DelayBeforeNextAttempt(n)
				require.GreaterOrEqual(t, d, prev, "policy %s attempt %d", policy, n)
				require.LessOrEqual(t, d, policy.MaxDelay(), "policy %s attempt %d", policy, n)
				prev = d
			}
		}
	})

	t.Run("Jitter stays within fraction", func(t *testing.T) {
		t.Parallel()

		samples := []float64{0, 0.5, 0.999999}
		i := 0
		policy := newTestPolicy(t,
			WithJitter(0.5),
			WithRandFloat(func() float64 {
				v := samples[i%len(samples)]
				i++
				return v
			}),
		)

		require.Equal(t, 100*time.Millisecond, policy.DelayBeforeNextAttempt(2))
		require.Equal(t, 200*time.Millisecond, policy.DelayBeforeNextAttempt(2))

		d := policy.DelayBeforeNextAttempt(2)
		require.InDelta(t, float64(300*time.Millisecond), float64(d), float64(time.Millisecond))
	})
}

func TestRetryPolicy_NextDelay(t *testing.T) {
	t.Parallel()

	policy := newTestPolicy(t)

	t.Run("Computed delay without server hint", func(t *testing.T) {
		t.Parallel()

		d, ok := policy.NextDelay(NewRemoteError(KindServerError, "", nil), 2)
		require.True(t, ok)
		require.Equal(t, 200*time.Millisecond, d)
	})

	t.Run("Server hint wins", func(t *testing.T) {
		t.Parallel()

		err := &RemoteError{Kind: KindRateLimited, RetryAfter: 750 * time.Millisecond}
		d, ok := policy.NextDelay(fmt.Errorf("wrapped: %w", err), 1)
		require.True(t, ok)
		require.Equal(t, 750*time.Millisecond, d)
	})

	t.Run("Server hint above cap stops retrying", func(t *testing.T) {
		t.Parallel()

		err := &RemoteError{Kind: KindRateLimited, RetryAfter: time.Minute}
		_, ok := policy.NextDelay(err, 1)
		require.False(t, ok)
	})
}

func slicesOf(kinds []ErrorKind) []ErrorKind {
	return append([]ErrorKind(nil), kinds...)
}
