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

import "log/slog"

// WithExecutor scopes logger to an executor instance.
func WithExecutor(logger *slog.Logger, id string) *slog.Logger {
	group := slog.Group("executor", "id", id)
	return logger.With(group)
}

// StoreType names a cache store implementation.
type StoreType string

const (
	StoreTypeUnknown StoreType = "unknown"
	StoreTypeMemory  StoreType = "memory"
	StoreTypeLocal   StoreType = "local"
)

// WithStore scopes logger to a cache store.
func WithStore(logger *slog.Logger, storeType StoreType) *slog.Logger {
	group := slog.Group("store", "type", storeType)
	return logger.With(group)
}

// WithOperation scopes logger to one execution of a remote call.
func WithOperation(logger *slog.Logger, key string, attempts int) *slog.Logger {
	group := slog.Group("operation", "key", key, "max_attempts", attempts)
	return logger.With(group)
}

// WithEndpoint scopes logger to an HTTP endpoint.
func WithEndpoint(logger *slog.Logger, method, path string) *slog.Logger {
	group := slog.Group("endpoint", "method", method, "path", path)
	return logger.With(group)
}
