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
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type selfClassified struct {
	kind       ErrorKind
	retryAfter time.Duration
}

func (e selfClassified) Error() string             { return "self classified" }
func (e selfClassified) Kind() ErrorKind           { return e.kind }
func (e selfClassified) RetryAfter() time.Duration { return e.retryAfter }

func TestClassify(t *testing.T) {
	t.Parallel()

	var syntaxErr *json.SyntaxError
	badJSON := json.Unmarshal([]byte("{"), &struct{}{})
	require.ErrorAs(t, badJSON, &syntaxErr)

	typeErr := json.Unmarshal([]byte(`{"a":"x"}`), &struct{ A int }{})

	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{name: "context canceled", err: context.Canceled, want: KindCancelled},
		{name: "wrapped context canceled", err: fmt.Errorf("call: %w", context.Canceled), want: KindCancelled},
		{name: "deadline exceeded", err: context.DeadlineExceeded, want: KindConnectivity},
		{name: "json syntax", err: badJSON, want: KindDecoding},
		{name: "json type", err: typeErr, want: KindDecoding},
		{name: "dns error", err: &net.DNSError{Err: "no such host", Name: "example.invalid"}, want: KindConnectivity},
		{name: "op error", err: &net.OpError{Op: "dial", Err: errors.New("refused")}, want: KindConnectivity},
		{name: "connection refused", err: fmt.Errorf("dial: %w", syscall.ECONNREFUSED), want: KindConnectivity},
		{name: "unexpected eof", err: io.ErrUnexpectedEOF, want: KindConnectivity},
		{name: "self classified", err: selfClassified{kind: KindForbidden}, want: KindForbidden},
		{name: "plain error", err: errors.New("something odd"), want: KindUnknown},
		{name: "unrelated errno", err: syscall.ENOENT, want: KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			re := Classify(tt.err)
			require.NotNil(t, re)
			assert.Equal(t, tt.want, re.Kind)
			assert.ErrorIs(t, re, tt.err)
		})
	}

	t.Run("nil error", func(t *testing.T) {
		t.Parallel()

		require.Nil(t, Classify(nil))
	})

	t.Run("remote error passes through", func(t *testing.T) {
		t.Parallel()

		orig := &RemoteError{Kind: KindNotFound, StatusCode: 404, Message: "missing"}
		re := Classify(fmt.Errorf("outer: %w", orig))

		require.Same(t, orig, re)
	})

	t.Run("self classified keeps retry after", func(t *testing.T) {
		t.Parallel()

		re := Classify(selfClassified{kind: KindRateLimited, retryAfter: 3 * time.Second})

		require.Equal(t, KindRateLimited, re.Kind)
		require.Equal(t, 3*time.Second, re.RetryAfter)
	})
}

func TestRemoteError(t *testing.T) {
	t.Parallel()

	t.Run("message includes kind and status", func(t *testing.T) {
		t.Parallel()

		err := &RemoteError{Kind: KindServerError, StatusCode: 503, Message: "unavailable"}
		require.Equal(t, "server_error (status 503): unavailable", err.Error())
	})

	t.Run("falls back to underlying message", func(t *testing.T) {
		t.Parallel()

		err := NewRemoteError(KindConnectivity, "", errors.New("dial tcp: refused"))
		require.Equal(t, "connectivity: dial tcp: refused", err.Error())
	})

	t.Run("matches kind sentinel", func(t *testing.T) {
		t.Parallel()

		err := fmt.Errorf("call: %w", NewRemoteError(KindUnauthorized, "bad token", nil))

		require.ErrorIs(t, err, &RemoteError{Kind: KindUnauthorized})
		require.NotErrorIs(t, err, &RemoteError{Kind: KindForbidden})
		require.True(t, IsKind(err, KindUnauthorized))
	})
}

func TestParseErrorKind(t *testing.T) {
	t.Parallel()

	kind, err := ParseErrorKind(" Server_Error ")
	require.NoError(t, err)
	require.Equal(t, KindServerError, kind)

	_, err = ParseErrorKind("teapot")
	require.Error(t, err)

	require.Equal(t, "unknown", ErrorKind("").String())
}
