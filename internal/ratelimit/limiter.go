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

package ratelimit

import (
	"context"

	"golang.org/x/time/rate"
)

// Limiter wrapper around standard rate.Limiter that paces operation attempts.
type Limiter struct {
	*rate.Limiter
}

// NewLimiter returns a limiter allowing rps attempts per second with the
// given burst. It returns nil when rps is not positive, which disables limiting.
func NewLimiter(rps float64, burst int) *Limiter {
	if rps <= 0 {
		return nil
	}

	if burst < 1 {
		burst = 1
	}

	return &Limiter{
		rate.NewLimiter(rate.Limit(rps), burst),
	}
}

// Wait blocks until the limiter permits one attempt or ctx is done.
// A nil limiter never blocks.
func (l *Limiter) Wait(ctx context.Context) error {
	if l == nil {
		return nil
	}

	return l.Limiter.Wait(ctx)
}
