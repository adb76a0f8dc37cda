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

// CacheStats describes cache occupancy. It is meant for diagnostics only and
// may be approximate.
type CacheStats struct {
	// Entries is the number of stored entries, expired ones included.
	Entries int
	// ApproxSize is the approximate number of bytes held by the entries.
	ApproxSize int64
}

// ExecutorStats contains executor counters.
type ExecutorStats struct {
	CacheHits   uint64
	CacheMisses uint64
	Attempts    uint64
	Retries     uint64
	Successes   uint64
	Failures    uint64
	// AttemptsPerSecond is the last reported attempt rate, zero when
	// periodic reporting is disabled.
	AttemptsPerSecond uint64
}

// NewExecutorStats returns a new ExecutorStats with the provided values.
func NewExecutorStats(hits, misses, attempts, retries, successes, failures, aps uint64) *ExecutorStats {
	return &ExecutorStats{
		CacheHits:         hits,
		CacheMisses:       misses,
		Attempts:          attempts,
		Retries:           retries,
		Successes:         successes,
		Failures:          failures,
		AttemptsPerSecond: aps,
	}
}

// HitRatio returns the share of calls served from the cache.
func (s *ExecutorStats) HitRatio() float64 {
	if s == nil {
		return 0
	}

	total := s.CacheHits + s.CacheMisses
	if total == 0 {
		return 0
	}

	return float64(s.CacheHits) / float64(total)
}

// SumExecutorStats returns a new ExecutorStats object that is the sum of stats.
func SumExecutorStats(stats ...*ExecutorStats) *ExecutorStats {
	if len(stats) == 0 {
		return nil
	}

	result := &ExecutorStats{}
	for _, one := range stats {
		if one == nil {
			continue
		}

		result.CacheHits += one.CacheHits
		result.CacheMisses += one.CacheMisses
		result.Attempts += one.Attempts
		result.Retries += one.Retries
		result.Successes += one.Successes
		result.Failures += one.Failures
		result.AttemptsPerSecond += one.AttemptsPerSecond
	}

	return result
}
