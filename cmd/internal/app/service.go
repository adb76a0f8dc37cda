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

package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/blueboxy/remotecall"
	"github.com/blueboxy/remotecall/cmd/internal/config"
	"github.com/blueboxy/remotecall/cmd/internal/logging"
	"github.com/blueboxy/remotecall/cmd/internal/models"
	"github.com/blueboxy/remotecall/io/cache/local"
	"github.com/blueboxy/remotecall/io/cache/memory"
	"github.com/blueboxy/remotecall/io/httpclient"
	bModels "github.com/blueboxy/remotecall/models"
	"golang.org/x/sync/semaphore"
)

// Service runs remote calls configured from the command line.
type Service struct {
	executor *remotecall.Executor
	client   *httpclient.Client
	policy   *bModels.RetryPolicy

	ttl      time.Duration
	timeout  time.Duration
	parallel int
	isJSON   bool

	start  time.Time
	logger *slog.Logger
}

// NewService wires the executor, its cache store and the HTTP client.
func NewService(ctx context.Context, cfg *config.ServiceConfig, logger *slog.Logger) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	policy, err := config.NewRetryPolicy(cfg.Policy)
	if err != nil {
		return nil, err
	}

	store, err := newStore(cfg.Cache, logger)
	if err != nil {
		return nil, err
	}

	parallel := cfg.Client.Parallel
	if parallel < 1 {
		parallel = 1
	}

	executor, err := remotecall.NewExecutor(
		remotecall.WithLogger(logger),
		remotecall.WithStore(store),
		remotecall.WithConcurrencyLimiter(semaphore.NewWeighted(int64(parallel))),
		remotecall.WithRateLimit(cfg.Client.RequestsPerSecond, cfg.Client.Burst),
		remotecall.WithMetricsReport(ctx),
		remotecall.WithRetryNotify(func(key string, a bModels.Attempt) {
			logger.Info("attempt failed, retrying",
				slog.String("key", key),
				slog.Int("attempt", a.Number),
				slog.Duration("delay", a.Delay),
				slog.Any("error", a.Err),
			)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create executor: %w", err)
	}

	client, err := httpclient.New(cfg.Client.BaseURL,
		httpclient.WithToken(cfg.Client.Token),
		httpclient.WithLogger(logger),
		httpclient.WithHTTPClient(&http.Client{}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create http client: %w", err)
	}

	s := &Service{
		executor: executor,
		client:   client,
		policy:   policy,
		ttl:      config.CacheTTL(cfg.Cache),
		timeout:  config.AttemptTimeout(cfg.Client),
		parallel: parallel,
		isJSON:   cfg.App.LogJSON,
		start:    time.Now(),
		logger:   logger,
	}

	if cfg.Cache.Prune {
		if _, err := executor.PruneExpired(); err != nil {
			logger.Warn("failed to prune cache", slog.Any("error", err))
		}
	}

	return s, nil
}

func newStore(c *models.Cache, logger *slog.Logger) (remotecall.CacheStore, error) {
	switch c.Mode {
	case models.CacheModeLocal:
		store, err := local.NewStore(c.Directory, local.WithLogger(logger))
		if err != nil {
			return nil, fmt.Errorf("failed to open local cache: %w", err)
		}

		return store, nil
	default:
		opts := []memory.Opt{memory.WithLogger(logger)}
		if c.CompressionThreshold > 0 {
			opts = append(opts, memory.WithCompressionThreshold(c.CompressionThreshold))
		}

		store, err := memory.NewStore(opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create memory cache: %w", err)
		}

		return store, nil
	}
}

// withTimeout wraps op with the per attempt timeout, if one is set.
func withTimeout[T any](timeout time.Duration, op remotecall.Operation[T]) remotecall.Operation[T] {
	if timeout <= 0 {
		return op
	}

	return func(ctx context.Context) (T, error) {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		return op(ctx)
	}
}

// Report prints the run statistics.
func (s *Service) Report() {
	logging.ReportRun(s.executor.Stats(), s.executor.CacheStats(), time.Since(s.start), s.isJSON, s.logger)
}
