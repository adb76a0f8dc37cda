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
	"math"
	"math/rand/v2"
	"slices"
	"time"
)

// Default policy values: moderate attempts, moderate backoff.
const (
	DefaultMaxAttempts = 3
	DefaultBaseDelay   = 1 * time.Second
	DefaultMultiplier  = 2.0
	DefaultMaxDelay    = 30 * time.Second
)

// Aggressive policy values: more attempts, shorter initial delay, tighter cap.
const (
	AggressiveMaxAttempts = 5
	AggressiveBaseDelay   = 200 * time.Millisecond
	AggressiveMultiplier  = 1.5
	AggressiveMaxDelay    = 5 * time.Second
)

// DefaultRetryableKinds are retried unless a policy says otherwise.
// KindUnknown is included: an unclassified failure is assumed transient.
var DefaultRetryableKinds = []ErrorKind{
	KindConnectivity,
	KindRateLimited,
	KindServerError,
	KindUnknown,
}

// RetryPolicy defines when a failed remote call is attempted again and how
// long to wait before doing so. A policy is immutable once created.
type RetryPolicy struct {
	// maxAttempts is the total number of attempts, including the first one.
	maxAttempts uint
	// baseDelay is the delay before the second attempt.
	baseDelay time.Duration
	// multiplier grows the delay between subsequent attempts.
	// The delay is calculated as: baseDelay * (multiplier ^ (attempt - 1))
	multiplier float64
	// maxDelay caps the computed delay.
	maxDelay time.Duration
	// jitter is the fraction of the delay that is randomized, 0 disables it.
	jitter float64
	// retryable kinds.
	retryable []ErrorKind
	// randFloat returns a uniform sample in [0, 1).
	randFloat func() float64
}

// RetryPolicyOpt is a functional option that allows configuring the [RetryPolicy].
type RetryPolicyOpt func(*RetryPolicy)

// WithJitter randomizes every computed delay by +/- fraction of its value.
func WithJitter(fraction float64) RetryPolicyOpt {
	return func(p *RetryPolicy) {
		p.jitter = fraction
	}
}

// WithRetryableKinds replaces the set of error kinds that are retried.
func WithRetryableKinds(kinds ...ErrorKind) RetryPolicyOpt {
	return func(p *RetryPolicy) {
		p.retryable = slices.Clone(kinds)
	}
}

// WithRandFloat sets the uniform random source used for jitter.
func WithRandFloat(randFloat func() float64) RetryPolicyOpt {
	return func(p *RetryPolicy) {
		p.randFloat = randFloat
	}
}

// NewRetryPolicy returns a validated retry policy.
//   - maxAttempts is the total number of attempts and must be at least 1.
//   - baseDelay is the wait before the second attempt.
//   - maxDelay caps any computed wait.
//   - multiplier must be greater than 1.
func NewRetryPolicy(
	maxAttempts uint,
	baseDelay, maxDelay time.Duration,
	multiplier float64,
	opts ...RetryPolicyOpt,
) (*RetryPolicy, error) {
	p := &RetryPolicy{
		maxAttempts: maxAttempts,
		baseDelay:   baseDelay,
		maxDelay:    maxDelay,
		multiplier:  multiplier,
		retryable:   slices.Clone(DefaultRetryableKinds),
		randFloat:   rand.Float64,
	}

	for _, opt := range opts {
		opt(p)
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}

	return p, nil
}

// MustRetryPolicy is like NewRetryPolicy but panics on an invalid configuration.
// It is meant for package-level policy definitions.
func MustRetryPolicy(
	maxAttempts uint,
	baseDelay, maxDelay time.Duration,
	multiplier float64,
	opts ...RetryPolicyOpt,
) *RetryPolicy {
	p, err := NewRetryPolicy(maxAttempts, baseDelay, maxDelay, multiplier, opts...)
	if err != nil {
		panic(fmt.Sprintf("invalid retry policy: %v", err))
	}

	return p
}

// NewDefaultRetryPolicy returns a new RetryPolicy with default values.
func NewDefaultRetryPolicy() *RetryPolicy {
	return MustRetryPolicy(DefaultMaxAttempts, DefaultBaseDelay, DefaultMaxDelay, DefaultMultiplier)
}

// NewAggressiveRetryPolicy returns a RetryPolicy that retries more often and sooner.
func NewAggressiveRetryPolicy() *RetryPolicy {
	return MustRetryPolicy(AggressiveMaxAttempts, AggressiveBaseDelay, AggressiveMaxDelay, AggressiveMultiplier)
}

// Validate checks retry policy values.
func (p *RetryPolicy) Validate() error {
	if p == nil {
		return nil
	}

	if p.maxAttempts < 1 {
		return errors.New("max attempts must be greater than or equal to 1")
	}

	if p.baseDelay < 0 {
		return errors.New("base delay must be non-negative")
	}

	if p.multiplier <= 1 || math.IsNaN(p.multiplier) || math.IsInf(p.multiplier, 0) {
		return errors.New("multiplier must be greater than 1")
	}

	if p.maxDelay < p.baseDelay {
		return errors.New("max delay must be greater than or equal to base delay")
	}

	if p.jitter < 0 || p.jitter >= 1 {
		return errors.New("jitter fraction must be in [0, 1)")
	}

	if p.jitter > 0 && p.randFloat == nil {
		return errors.New("jitter requires a random source")
	}

	return nil
}

// MaxAttempts returns the total number of attempts, including the first one.
func (p *RetryPolicy) MaxAttempts() int {
	return int(p.maxAttempts)
}

// BaseDelay returns the wait before the second attempt.
func (p *RetryPolicy) BaseDelay() time.Duration {
	return p.baseDelay
}

// Multiplier returns the backoff growth factor.
func (p *RetryPolicy) Multiplier() float64 {
	return p.multiplier
}

// MaxDelay returns the delay cap.
func (p *RetryPolicy) MaxDelay() time.Duration {
	return p.maxDelay
}

// JitterFraction returns the jitter fraction, 0 when jitter is disabled.
func (p *RetryPolicy) JitterFraction() float64 {
	return p.jitter
}

// RetryableKinds returns a copy of the retryable error kinds.
func (p *RetryPolicy) RetryableKinds() []ErrorKind {
	return slices.Clone(p.retryable)
}

// IsRetryable reports whether kind is in the retryable set.
// Cancellation is never retryable.
func (p *RetryPolicy) IsRetryable(kind ErrorKind) bool {
	if kind == KindCancelled {
		return false
	}

	return slices.Contains(p.retryable, kind)
}

// ShouldRetry reports whether another attempt should follow the given
// 1-based attempt that failed with err.
func (p *RetryPolicy) ShouldRetry(err error, attempt int) bool {
	if err == nil || attempt >= p.MaxAttempts() {
		return false
	}

	return p.IsRetryable(Classify(err).Kind)
}

// DelayBeforeNextAttempt returns the wait after the given 1-based attempt.
func (p *RetryPolicy) DelayBeforeNextAttempt(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}

	d := float64(p.baseDelay) * math.Pow(p.multiplier, float64(attempt-1))
	if d >= float64(p.maxDelay) || math.IsInf(d, 0) || math.IsNaN(d) {
		d = float64(p.maxDelay)
	}

	if p.jitter > 0 {
		d *= 1 + p.jitter*(2*p.randFloat()-1)
	}

	return time.Duration(d)
}

// NextDelay returns the wait after the given attempt failed with err.
// A server-suggested delay on a rate limited failure replaces the computed
// one. If the server asks for more than the delay cap, ok is false and the
// call should not be retried.
func (p *RetryPolicy) NextDelay(err error, attempt int) (delay time.Duration, ok bool) {
	re := Classify(err)
	if re != nil && re.Kind == KindRateLimited && re.RetryAfter > 0 {
		if re.RetryAfter > p.maxDelay {
			return 0, false
		}

		return re.RetryAfter, true
	}

	return p.DelayBeforeNextAttempt(attempt), true
}

// Schedule returns the delays that follow each failed attempt, in order.
// It has MaxAttempts-1 elements.
func (p *RetryPolicy) Schedule() []time.Duration {
	out := make([]time.Duration, 0, p.MaxAttempts()-1)
	for attempt := 1; attempt < p.MaxAttempts(); attempt++ {
		out = append(out, p.DelayBeforeNextAttempt(attempt))
	}

	return out
}

// String implements fmt.Stringer, used when logging a policy.
func (p *RetryPolicy) String() string {
	if p == nil {
		return "<nil>"
	}

	return fmt.Sprintf("attempts=%d base=%s multiplier=%g max=%s jitter=%g retryable=%v",
		p.maxAttempts, p.baseDelay, p.multiplier, p.maxDelay, p.jitter, p.retryable)
}
