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

package remotecall

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/blueboxy/remotecall/internal/logging"
	"github.com/blueboxy/remotecall/models"
)

// Operation performs one remote call. It must honor ctx cancellation; any
// per-attempt timeout is its own responsibility.
type Operation[T any] func(ctx context.Context) (T, error)

type executeConfig struct {
	skipCacheRead bool
}

// ExecuteOpt is a functional option that allows configuring a single [Execute] call.
type ExecuteOpt func(*executeConfig)

// SkipCacheRead forces a fresh call while still storing a successful result
// when ttl > 0. A failed call leaves the existing entry untouched.
func SkipCacheRead() ExecuteOpt {
	return func(c *executeConfig) {
		c.skipCacheRead = true
	}
}

// Execute runs op for key with retries according to policy.
//
// If ttl > 0 and a valid cached result exists for key, it is returned without
// invoking op. Otherwise op is invoked until it succeeds or policy stops the
// retries. A success is cached for ttl; a ttl of zero disables caching for
// this call. A failure never touches the cache.
//
// Attempts are strictly sequential. Cancelling ctx while op runs or while
// waiting between attempts stops the call with a cancelled failure.
func Execute[T any](
	ctx context.Context,
	e *Executor,
	key string,
	op Operation[T],
	policy *models.RetryPolicy,
	ttl time.Duration,
	opts ...ExecuteOpt,
) models.Result[T] {
	switch {
	case key == "":
		return models.Failure[T](models.NewRemoteError(models.KindUnknown, "", models.ErrEmptyKey))
	case policy == nil:
		return models.Failure[T](models.NewRemoteError(models.KindUnknown, "", models.ErrNilPolicy))
	case op == nil:
		return models.Failure[T](models.NewRemoteError(models.KindUnknown, "", models.ErrNilOperation))
	}

	var cfg executeConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	logger := logging.WithOperation(e.logger, key, policy.MaxAttempts())

	if ttl > 0 && !cfg.skipCacheRead {
		if value, ok := cachedValue[T](e, key, logger); ok {
			e.metrics.CacheHit()
			logger.Debug("served from cache")

			result := models.Success(value)
			result.Cached = true

			return result
		}
	}

	e.metrics.CacheMiss()

	var lastErr *models.RemoteError

	for attempt := 1; ; attempt++ {
		release, err := e.acquire(ctx)
		if err != nil {
			return cancelled[T](ctx, e, err, lastErr, attempt-1, logger)
		}

		e.metrics.Attempt()
		value, err := op(ctx)
		release()

		if err == nil {
			if ttl > 0 {
				storeValue(e, key, value, ttl, logger)
			}

			e.metrics.Success()

			result := models.Success(value)
			result.Attempts = attempt

			return result
		}

		if ctx.Err() != nil {
			return cancelled[T](ctx, e, ctx.Err(), models.Classify(err), attempt, logger)
		}

		lastErr = models.Classify(err)

		delay, retry := nextDelay(policy, lastErr, attempt)
		if !retry {
			return failed[T](e, lastErr, attempt, logger)
		}

		e.metrics.Retry()

		logger.Debug("retrying remote call",
			slog.Int("attempt", attempt),
			slog.String("kind", lastErr.Kind.String()),
			slog.Duration("delay", delay),
			slog.Any("error", lastErr),
		)

		if e.notify != nil {
			e.notify(key, models.Attempt{Number: attempt, Err: lastErr, Delay: delay})
		}

		if err := e.wait(ctx, delay); err != nil {
			return cancelled[T](ctx, e, err, lastErr, attempt, logger)
		}
	}
}

// nextDelay decides whether the failed attempt is followed by another one.
func nextDelay(policy *models.RetryPolicy, re *models.RemoteError, attempt int) (time.Duration, bool) {
	if !policy.ShouldRetry(re, attempt) {
		return 0, false
	}

	return policy.NextDelay(re, attempt)
}

// acquire waits for the executor limiters before an attempt. The returned
// function releases the concurrency slot.
func (e *Executor) acquire(ctx context.Context) (func(), error) {
	if err := e.pacer.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	if e.limiter == nil {
		return func() {}, nil
	}

	if err := e.limiter.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("concurrency limiter: %w", err)
	}

	return func() { e.limiter.Release(1) }, nil
}

// wait suspends for d on the executor clock, or until ctx is done.
func (e *Executor) wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := e.clock.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.Chan():
		return nil
	}
}

// cachedValue returns the decoded cached value for key if it is still valid.
func cachedValue[T any](e *Executor, key string, logger *slog.Logger) (T, bool) {
	var value T

	entry, ok := e.store.Get(key)
	if !ok || !entry.Valid(e.clock.Now()) {
		return value, false
	}

	if err := e.codec.Unmarshal(entry.Value, &value); err != nil {
		logger.Warn("ignoring undecodable cache entry", slog.Any("error", err))

		var zero T

		return zero, false
	}

	return value, true
}

// storeValue caches value for key. Failures are logged and do not affect
// the result of the call.
func storeValue[T any](e *Executor, key string, value T, ttl time.Duration, logger *slog.Logger) {
	data, err := e.codec.Marshal(value)
	if err != nil {
		logger.Error("failed to encode result for cache", slog.Any("error", err))
		return
	}

	if err := e.store.Set(models.NewCacheEntry(key, data, e.clock.Now(), ttl)); err != nil {
		logger.Error("failed to store result in cache", slog.Any("error", err))
	}
}

func failed[T any](e *Executor, re *models.RemoteError, attempts int, logger *slog.Logger) models.Result[T] {
	e.metrics.Failure()

	logger.Warn("remote call failed",
		slog.Int("attempts", attempts),
		slog.String("kind", re.Kind.String()),
		slog.Any("error", re),
	)

	result := models.Failure[T](re)
	result.Attempts = attempts

	return result
}

// cancelled builds the failure of a call stopped by its context. cause is
// the error that interrupted the call.
func cancelled[T any](
	ctx context.Context,
	e *Executor,
	cause error,
	lastErr *models.RemoteError,
	attempts int,
	logger *slog.Logger,
) models.Result[T] {
	if ctx.Err() != nil {
		cause = ctx.Err()
	}

	msg := "remote call cancelled"
	if lastErr != nil {
		msg = fmt.Sprintf("remote call cancelled, last error: %v", lastErr)
	}

	re := models.NewRemoteError(models.KindCancelled, msg, cause)

	e.metrics.Failure()
	logger.Debug("remote call cancelled", slog.Int("attempts", attempts), slog.Any("cause", cause))

	result := models.Failure[T](re)
	result.Attempts = attempts

	return result
}
