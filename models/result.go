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

// Result is the outcome of a remote call: either a value or a classified failure.
type Result[T any] struct {
	value T
	err   *RemoteError

	// Attempts is the number of times the operation was invoked.
	Attempts int
	// Cached is true when the value was served from the cache.
	Cached bool
}

// Success returns a successful result.
func Success[T any](value T) Result[T] {
	return Result[T]{value: value}
}

// Failure returns a failed result. A nil err is classified as unknown.
func Failure[T any](err error) Result[T] {
	re := Classify(err)
	if re == nil {
		re = NewRemoteError(KindUnknown, "failure without error", nil)
	}

	return Result[T]{err: re}
}

// Ok reports whether the call succeeded.
func (r Result[T]) Ok() bool {
	return r.err == nil
}

// Value returns the success value, or the zero value on failure.
func (r Result[T]) Value() T {
	return r.value
}

// Err returns the classified failure, nil on success.
func (r Result[T]) Err() *RemoteError {
	return r.err
}

// Kind returns the failure kind, or an empty kind on success.
func (r Result[T]) Kind() ErrorKind {
	if r.err == nil {
		return ""
	}

	return r.err.Kind
}

// Get returns the value and the failure as a plain error.
func (r Result[T]) Get() (T, error) {
	if r.err != nil {
		return r.value, r.err
	}

	return r.value, nil
}
