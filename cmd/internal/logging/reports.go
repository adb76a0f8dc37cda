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

package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	bModels "github.com/blueboxy/remotecall/models"
)

const (
	headerRunReport    = "Run report"
	headerPolicyReport = "Retry policy"
)

// ReportRun prints the executor and cache statistics of a run.
// if isJSON is true, it prints the report in JSON format, but logger must be passed
func ReportRun(stats *bModels.ExecutorStats, cache bModels.CacheStats, took time.Duration, isJSON bool, logger *slog.Logger) {
	if isJSON {
		logRunReport(stats, cache, took, logger)
		return
	}

	printRunReport(os.Stdout, stats, cache, took)
}

func printRunReport(w io.Writer, stats *bModels.ExecutorStats, cache bModels.CacheStats, took time.Duration) {
	fmt.Fprintln(w, headerRunReport)
	fmt.Fprintln(w, strings.Repeat("-", len(headerRunReport)))

	printMetric(w, "Duration", took)

	fmt.Fprintln(w)

	printMetric(w, "Cache Hits", stats.CacheHits)
	printMetric(w, "Cache Misses", stats.CacheMisses)
	printMetric(w, "Hit Ratio", fmt.Sprintf("%.2f", stats.HitRatio()))

	fmt.Fprintln(w)

	printMetric(w, "Attempts", stats.Attempts)
	printMetric(w, "Retries", stats.Retries)
	printMetric(w, "Successes", stats.Successes)
	printMetric(w, "Failures", stats.Failures)

	fmt.Fprintln(w)

	printMetric(w, "Cached Entries", cache.Entries)
	printMetric(w, "Cached Bytes", cache.ApproxSize)
}

func logRunReport(stats *bModels.ExecutorStats, cache bModels.CacheStats, took time.Duration, logger *slog.Logger) {
	logger.Info("run report",
		slog.Duration("duration", took),
		slog.Uint64("cache_hits", stats.CacheHits),
		slog.Uint64("cache_misses", stats.CacheMisses),
		slog.Uint64("attempts", stats.Attempts),
		slog.Uint64("retries", stats.Retries),
		slog.Uint64("successes", stats.Successes),
		slog.Uint64("failures", stats.Failures),
		slog.Int("cached_entries", cache.Entries),
		slog.Int64("cached_bytes", cache.ApproxSize),
	)
}

// ReportPolicy prints a retry policy and the delays it waits between attempts.
func ReportPolicy(policy *bModels.RetryPolicy, isJSON bool, logger *slog.Logger) {
	if isJSON {
		logger.Info("retry policy",
			slog.Int("max_attempts", policy.MaxAttempts()),
			slog.Duration("base_delay", policy.BaseDelay()),
			slog.Float64("multiplier", policy.Multiplier()),
			slog.Duration("max_delay", policy.MaxDelay()),
			slog.Float64("jitter", policy.JitterFraction()),
			slog.Any("retryable", policy.RetryableKinds()),
			slog.Any("schedule", policy.Schedule()),
		)

		return
	}

	printPolicyReport(os.Stdout, policy)
}

func printPolicyReport(w io.Writer, policy *bModels.RetryPolicy) {
	fmt.Fprintln(w, headerPolicyReport)
	fmt.Fprintln(w, strings.Repeat("-", len(headerPolicyReport)))

	printMetric(w, "Max Attempts", policy.MaxAttempts())
	printMetric(w, "Base Delay", policy.BaseDelay())
	printMetric(w, "Multiplier", policy.Multiplier())
	printMetric(w, "Max Delay", policy.MaxDelay())
	printMetric(w, "Jitter", policy.JitterFraction())
	printMetric(w, "Retryable", policy.RetryableKinds())

	fmt.Fprintln(w)

	for i, d := range policy.Schedule() {
		printMetric(w, fmt.Sprintf("After Attempt %d", i+1), d)
	}
}

func printMetric(w io.Writer, key string, value any) {
	fmt.Fprintf(w, "%s%v\n", indent(key), value)
}

func indent(key string) string {
	return fmt.Sprintf("%s:%s", key, strings.Repeat(" ", max(21-len(key), 1)))
}
