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
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/blueboxy/remotecall"
	"github.com/blueboxy/remotecall/io/httpclient"
	bModels "github.com/blueboxy/remotecall/models"
	"golang.org/x/sync/errgroup"
)

// FetchResult is the outcome of fetching a single path.
type FetchResult struct {
	Path   string
	Result bModels.Result[[]byte]
}

// Fetch performs a GET request for every path, at most parallel at a time.
// Results are returned in the order of paths. A failed path does not stop
// the others; an error is returned if any of them failed.
func (s *Service) Fetch(ctx context.Context, paths []string) ([]FetchResult, error) {
	results := make([]FetchResult, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.parallel)

	for i, path := range paths {
		g.Go(func() error {
			results[i] = FetchResult{Path: path, Result: s.fetch(ctx, path)}
			return nil
		})
	}

	// Workers never return errors.
	_ = g.Wait()

	var errs []error

	for _, r := range results {
		if !r.Result.Ok() {
			errs = append(errs, fmt.Errorf("%s: %w", r.Path, r.Result.Err()))
		}
	}

	return results, errors.Join(errs...)
}

func (s *Service) fetch(ctx context.Context, path string) bModels.Result[[]byte] {
	key := remotecall.Key(http.MethodGet, path)

	op := withTimeout(s.timeout, func(ctx context.Context) ([]byte, error) {
		return s.client.Do(ctx, httpclient.Endpoint{Method: http.MethodGet, Path: path})
	})

	result := remotecall.Execute(ctx, s.executor, key, op, s.policy, s.ttl)
	if result.Ok() {
		s.logger.Debug("fetched",
			slog.String("path", path),
			slog.Int("bytes", len(result.Value())),
			slog.Bool("cached", result.Cached),
		)
	}

	return result
}
