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

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"syscall"
	"time"
)

// ErrorKind classifies a remote call failure.
type ErrorKind string

const (
	// KindConnectivity means there was no network path to the remote side.
	KindConnectivity ErrorKind = "connectivity"
	// KindUnauthorized means the credentials were missing or rejected.
	KindUnauthorized ErrorKind = "unauthorized"
	// KindForbidden means the credentials lack permission for the resource.
	KindForbidden ErrorKind = "forbidden"
	// KindNotFound means the requested resource does not exist.
	KindNotFound ErrorKind = "not_found"
	// KindRateLimited means the server asked the caller to back off.
	KindRateLimited ErrorKind = "rate_limited"
	// KindServerError is a transient server-side fault.
	KindServerError ErrorKind = "server_error"
	// KindDecoding means the response did not have the expected shape.
	KindDecoding ErrorKind = "decoding"
	// KindCancelled is a caller-initiated cancellation.
	KindCancelled ErrorKind = "cancelled"
	// KindUnknown is an unclassified failure.
	KindUnknown ErrorKind = "unknown"
)

// String returns the string representation of the kind.
func (k ErrorKind) String() string {
	if k == "" {
		return string(KindUnknown)
	}

	return string(k)
}

// ParseErrorKind parses a kind name, as used in configuration files.
func ParseErrorKind(s string) (ErrorKind, error) {
	switch kind := ErrorKind(strings.ToLower(strings.TrimSpace(s))); kind {
	case KindConnectivity, KindUnauthorized, KindForbidden, KindNotFound,
		KindRateLimited, KindServerError, KindDecoding, KindCancelled, KindUnknown:
		return kind, nil
	default:
		return "", fmt.Errorf("unknown error kind %q", s)
	}
}

var (
	// ErrEmptyKey is returned when a call is made without a cache key.
	ErrEmptyKey = errors.New("cache key is empty")
	// ErrNilPolicy is returned when a call is made without a retry policy.
	ErrNilPolicy = errors.New("retry policy is nil")
	// ErrNilOperation is returned when a call is made without an operation.
	ErrNilOperation = errors.New("operation is nil")
)

// RemoteError is a classified failure of a remote call. Every terminal
// failure returned by the executor is a *RemoteError.
type RemoteError struct {
	// Kind is the classification used for retry decisions.
	Kind ErrorKind
	// Message is a human-readable description of the failure.
	Message string
	// StatusCode is the HTTP status code, if the failure came from a response.
	StatusCode int
	// RetryAfter is the server-suggested delay, zero if none was given.
	RetryAfter time.Duration
	// Err is the underlying error.
	Err error
}

// NewRemoteError returns a new RemoteError of the given kind.
func NewRemoteError(kind ErrorKind, message string, err error) *RemoteError {
	return &RemoteError{
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// Error implements the error interface.
func (e *RemoteError) Error() string {
	msg := strings.TrimSpace(e.Message)
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}

	if msg == "" {
		msg = "remote call failed"
	}

	if e.StatusCode > 0 {
		return fmt.Sprintf("%s (status %d): %s", e.Kind, e.StatusCode, msg)
	}

	return fmt.Sprintf("%s: %s", e.Kind, msg)
}

// Unwrap returns the underlying error.
func (e *RemoteError) Unwrap() error {
	return e.Err
}

// Is reports whether target is a RemoteError of the same kind.
func (e *RemoteError) Is(target error) bool {
	t, ok := target.(*RemoteError)
	if !ok {
		return false
	}

	return t.Kind == e.Kind && t.Message == "" && t.Err == nil
}

// kinded is implemented by errors that know their own classification.
type kinded interface {
	Kind() ErrorKind
}

// retryAfterer is implemented by errors that carry a server-suggested delay.
type retryAfterer interface {
	RetryAfter() time.Duration
}

// Classify maps err onto the error taxonomy. A *RemoteError found in the
// chain is returned as is. Errors that implement Kind() ErrorKind keep their
// own classification. Returns nil for a nil error.
func Classify(err error) *RemoteError {
	if err == nil {
		return nil
	}

	var re *RemoteError
	if errors.As(err, &re) {
		return re
	}

	var k kinded
	if errors.As(err, &k) {
		out := NewRemoteError(k.Kind(), err.Error(), err)

		var ra retryAfterer
		if errors.As(err, &ra) {
			out.RetryAfter = ra.RetryAfter()
		}

		return out
	}

	return NewRemoteError(classifyKind(err), err.Error(), err)
}

func classifyKind(err error) ErrorKind {
	var (
		syntaxErr  *json.SyntaxError
		typeErr    *json.UnmarshalTypeError
		netErr     net.Error
		dnsErr     *net.DNSError
		opErr      *net.OpError
		errnoValue syscall.Errno
	)

	switch {
	case errors.Is(err, context.Canceled):
		return KindCancelled
	case errors.Is(err, context.DeadlineExceeded):
		// A per-attempt timeout inside the operation. Caller cancellation is
		// detected by the executor from its own context.
		return KindConnectivity
	case errors.As(err, &syntaxErr), errors.As(err, &typeErr):
		return KindDecoding
	case errors.As(err, &dnsErr), errors.As(err, &opErr):
		return KindConnectivity
	case errors.As(err, &errnoValue):
		// syscall.Errno satisfies net.Error, so it is checked first.
		switch errnoValue {
		case syscall.ECONNREFUSED, syscall.ECONNRESET, syscall.ECONNABORTED,
			syscall.ENETUNREACH, syscall.EHOSTUNREACH, syscall.EPIPE:
			return KindConnectivity
		}

		return KindUnknown
	case errors.As(err, &netErr):
		return KindConnectivity
	case errors.Is(err, io.ErrUnexpectedEOF):
		return KindConnectivity
	}

	return KindUnknown
}

// IsKind reports whether err classifies as kind.
func IsKind(err error, kind ErrorKind) bool {
	re := Classify(err)

	return re != nil && re.Kind == kind
}
