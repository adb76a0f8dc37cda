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

	"github.com/blueboxy/remotecall/internal/logging"
	"github.com/blueboxy/remotecall/internal/metrics"
	"github.com/blueboxy/remotecall/internal/ratelimit"
	"github.com/blueboxy/remotecall/io/cache/memory"
	"github.com/blueboxy/remotecall/models"
	"github.com/google/uuid"
	"github.com/juju/clock"
	"golang.org/x/sync/semaphore"
)

// RetryNotifyFunc is called before the executor waits for the next attempt.
type RetryNotifyFunc func(key string, attempt models.Attempt)

// Executor runs remote calls with retries and a time-bounded result cache.
// It owns its cache store; construct one per keyspace at the composition
// root and pass it to the code that needs it.
// Example usage:
//
//	executor, err := remotecall.NewExecutor(
//		remotecall.WithLogger(logger),
//		remotecall.WithRateLimit(10, 1),
//	)
//	if err != nil {
//		// handle error
//	}
//
//	key := remotecall.Key("messages.generate", req)
//	result := remotecall.Execute(ctx, executor, key,
//		func(ctx context.Context) ([]Message, error) {
//			return api.Generate(ctx, req)
//		},
//		models.NewDefaultRetryPolicy(),
//		10*time.Minute,
//	)
//	if !result.Ok() {
//		// result.Err().Kind tells whether to offer a retry
//	}
type Executor struct {
	id     string
	logger *slog.Logger
	clock  clock.Clock
	store  CacheStore
	codec  Codec

	// limiter bounds the number of operations in flight across all calls.
	limiter *semaphore.Weighted
	// pacer limits the rate of attempts across all calls.
	pacer *ratelimit.Limiter

	notify  RetryNotifyFunc
	metrics *metrics.Collector

	reportCtx context.Context
	report    bool
}

// ExecutorOpt is a functional option that allows configuring the [Executor].
type ExecutorOpt func(*Executor)

// WithID sets the ID for the [Executor].
// This ID is used for logging purposes.
func WithID(id string) ExecutorOpt {
	return func(e *Executor) {
		e.id = id
	}
}

// WithLogger sets the logger for the [Executor].
func WithLogger(logger *slog.Logger) ExecutorOpt {
	return func(e *Executor) {
		e.logger = logger
	}
}

// WithClock sets the clock used for cache validity and retry delays.
func WithClock(c clock.Clock) ExecutorOpt {
	return func(e *Executor) {
		e.clock = c
	}
}

// WithStore sets the cache store. By default an in-memory store is used.
func WithStore(store CacheStore) ExecutorOpt {
	return func(e *Executor) {
		e.store = store
	}
}

// WithCodec sets the codec used to encode cached values. JSON by default.
func WithCodec(codec Codec) ExecutorOpt {
	return func(e *Executor) {
		e.codec = codec
	}
}

// WithConcurrencyLimiter sets a semaphore that is used to limit the number
// of operations in flight.
func WithConcurrencyLimiter(sem *semaphore.Weighted) ExecutorOpt {
	return func(e *Executor) {
		e.limiter = sem
	}
}

// WithRateLimit limits attempts to rps per second with the given burst.
// A non-positive rps disables limiting.
func WithRateLimit(rps float64, burst int) ExecutorOpt {
	return func(e *Executor) {
		e.pacer = ratelimit.NewLimiter(rps, burst)
	}
}

// WithRetryNotify sets a function called before every wait between attempts.
func WithRetryNotify(fn RetryNotifyFunc) ExecutorOpt {
	return func(e *Executor) {
		e.notify = fn
	}
}

// WithMetricsReport enables logging of the attempt rate at debug level
// until ctx is done.
func WithMetricsReport(ctx context.Context) ExecutorOpt {
	return func(e *Executor) {
		e.reportCtx = ctx
		e.report = true
	}
}

// NewExecutor creates a new executor.
//
// options:
//   - [WithID] to set an identifier for the executor.
//   - [WithLogger] to set a logger that this executor will log to.
//   - [WithClock] to replace the wall clock.
//   - [WithStore] to replace the in-memory cache store.
//   - [WithConcurrencyLimiter] to set a semaphore that is used to limit number of
//     operations in flight.
//   - [WithRateLimit] to pace attempts.
func NewExecutor(opts ...ExecutorOpt) (*Executor, error) {
	e := &Executor{
		id:        uuid.NewString(),
		logger:    slog.Default(),
		clock:     clock.WallClock,
		codec:     JSONCodec{},
		reportCtx: context.Background(),
	}

	for _, opt := range opts {
		opt(e)
	}

	e.logger = e.logger.WithGroup("remotecall")
	e.logger = logging.WithExecutor(e.logger, e.id)

	if e.store == nil {
		store, err := memory.NewStore(memory.WithLogger(e.logger))
		if err != nil {
			return nil, fmt.Errorf("failed to create cache store: %w", err)
		}

		e.store = store
	}

	if e.clock == nil {
		return nil, fmt.Errorf("clock is nil")
	}

	if e.codec == nil {
		return nil, fmt.Errorf("codec is nil")
	}

	e.metrics = metrics.NewCollector(e.reportCtx, e.logger, e.report)

	e.logger.Debug("executor created")

	return e, nil
}

// ID returns the executor identifier.
func (e *Executor) ID() string {
	return e.id
}

// Invalidate removes the cached result for key, if any.
func (e *Executor) Invalidate(key string) error {
	if err := e.store.Delete(key); err != nil {
		return fmt.Errorf("failed to invalidate %q: %w", key, err)
	}

	return nil
}

// Clear removes all cached results.
func (e *Executor) Clear() error {
	if err := e.store.Clear(); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}

	return nil
}

// PruneExpired removes cached results that are no longer valid.
func (e *Executor) PruneExpired() (int, error) {
	removed, err := e.store.Prune(e.clock.Now())
	if err != nil {
		return removed, fmt.Errorf("failed to prune cache: %w", err)
	}

	if removed > 0 {
		e.logger.Debug("pruned expired cache entries", slog.Int("count", removed))
	}

	return removed, nil
}

// CacheStats returns the cache occupancy. It is meant for diagnostics only.
func (e *Executor) CacheStats() models.CacheStats {
	return e.store.Stats()
}

// Stats returns the executor counters.
func (e *Executor) Stats() *models.ExecutorStats {
	return e.metrics.Snapshot()
}
