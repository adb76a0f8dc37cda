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

package metrics

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/blueboxy/remotecall/models"
)

// MetricAttemptsPerSecond is the name of the reported attempt rate.
const MetricAttemptsPerSecond = "aps"

// reportInterval is how often the attempt rate is calculated.
const reportInterval = time.Second

// Collector counts executor events. All methods are safe for concurrent use
// and on a nil Collector.
type Collector struct {
	hits      atomic.Uint64
	misses    atomic.Uint64
	attempts  atomic.Uint64
	retries   atomic.Uint64
	successes atomic.Uint64
	failures  atomic.Uint64

	// window counts attempts since the last report.
	window atomic.Uint64
	// lastTime tracks the last time the metrics were reported.
	lastTime time.Time
	// lastResult tracks the last calculated attempts per second value.
	lastResult atomic.Uint64

	logger *slog.Logger
}

// NewCollector returns a new Collector. If report is true, the attempt rate
// is calculated every second and logged at debug level until ctx is done.
func NewCollector(ctx context.Context, logger *slog.Logger, report bool) *Collector {
	mc := &Collector{
		lastTime: time.Now(),
		logger:   logger,
	}

	logger.Debug("metrics",
		slog.String("name", MetricAttemptsPerSecond),
		slog.Bool("report", report),
	)

	if report {
		go mc.report(ctx)
	}

	return mc
}

// report periodically calculates and logs attempts per second.
func (mc *Collector) report(ctx context.Context) {
	ticker := time.NewTicker(reportInterval)
	defer ticker.Stop()

	for {
		select {
		case t := <-ticker.C:
			mc.tick(t)
		case <-ctx.Done():
			return
		}
	}
}

func (mc *Collector) tick(t time.Time) {
	count := mc.window.Swap(0)

	elapsed := t.Sub(mc.lastTime).Seconds()
	if elapsed <= 0 {
		return
	}

	result := float64(count) / elapsed

	mc.lastResult.Store(uint64(result))
	mc.logger.Debug("remote calls", slog.Float64(MetricAttemptsPerSecond, result))
	mc.lastTime = t
}

// CacheHit records a call served from the cache.
func (mc *Collector) CacheHit() {
	if mc != nil {
		mc.hits.Add(1)
	}
}

// CacheMiss records a call that had to reach the remote side.
func (mc *Collector) CacheMiss() {
	if mc != nil {
		mc.misses.Add(1)
	}
}

// Attempt records an invocation of an operation.
func (mc *Collector) Attempt() {
	if mc != nil {
		mc.attempts.Add(1)
		mc.window.Add(1)
	}
}

// Retry records a decision to try again.
func (mc *Collector) Retry() {
	if mc != nil {
		mc.retries.Add(1)
	}
}

// Success records a successful call.
func (mc *Collector) Success() {
	if mc != nil {
		mc.successes.Add(1)
	}
}

// Failure records a failed call.
func (mc *Collector) Failure() {
	if mc != nil {
		mc.failures.Add(1)
	}
}

// GetLastResult returns the last calculated attempts per second value.
func (mc *Collector) GetLastResult() uint64 {
	if mc == nil {
		return 0
	}

	return mc.lastResult.Load()
}

// Snapshot returns the current counter values.
func (mc *Collector) Snapshot() *models.ExecutorStats {
	if mc == nil {
		return &models.ExecutorStats{}
	}

	return models.NewExecutorStats(
		mc.hits.Load(),
		mc.misses.Load(),
		mc.attempts.Load(),
		mc.retries.Load(),
		mc.successes.Load(),
		mc.failures.Load(),
		mc.lastResult.Load(),
	)
}
