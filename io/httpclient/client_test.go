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

package httpclient

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/blueboxy/remotecall/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type greeting struct {
	Text string `json:"text"`
}

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Opt) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	opts = append([]Opt{WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))}, opts...)

	c, err := New(srv.URL, opts...)
	require.NoError(t, err)

	return c
}

func TestNew_InvalidURL(t *testing.T) {
	t.Parallel()

	_, err := New("ftp://example.com")
	require.Error(t, err)

	_, err = New("://bad")
	require.Error(t, err)
}

func TestClient_DoJSON(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/greetings", r.URL.Path)
		assert.Equal(t, "en", r.URL.Query().Get("lang"))
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NotEmpty(t, r.Header.Get(HeaderRequestID))

		var in greeting
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "hi", in.Text)

		_ = json.NewEncoder(w).Encode(greeting{Text: "hello"})
	}, WithToken("secret"))

	out, err := DoJSON[greeting](context.Background(), c, Endpoint{
		Method: http.MethodPost,
		Path:   "/api/greetings",
		Query:  map[string][]string{"lang": {"en"}},
		Body:   greeting{Text: "hi"},
	})
	require.NoError(t, err)
	assert.Equal(t, "hello", out.Text)
}

func TestClient_StatusClassification(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status int
		want   models.ErrorKind
	}{
		{http.StatusUnauthorized, models.KindUnauthorized},
		{http.StatusForbidden, models.KindForbidden},
		{http.StatusNotFound, models.KindNotFound},
		{http.StatusTooManyRequests, models.KindRateLimited},
		{http.StatusRequestTimeout, models.KindServerError},
		{http.StatusInternalServerError, models.KindServerError},
		{http.StatusServiceUnavailable, models.KindServerError},
		{http.StatusBadRequest, models.KindUnknown},
		{http.StatusConflict, models.KindUnknown},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			t.Parallel()

			c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`{"error":"nope"}`))
			})

			_, err := c.Do(context.Background(), Endpoint{Path: "/x"})
			require.Error(t, err)

			re := models.Classify(err)
			assert.Equal(t, tt.want, re.Kind)
			assert.Equal(t, tt.status, re.StatusCode)
			assert.Equal(t, "nope", re.Message)
		})
	}
}

func TestClient_RetryAfter(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Retry-After", "7")
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := c.Do(context.Background(), Endpoint{Path: "/x"})
	re := models.Classify(err)
	require.NotNil(t, re)
	assert.Equal(t, models.KindRateLimited, re.Kind)
	assert.Equal(t, 7*time.Second, re.RetryAfter)
	assert.Equal(t, http.StatusText(http.StatusTooManyRequests), re.Message)
}

func TestParseRetryAfter(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		value string
		want  time.Duration
	}{
		{"empty", "", 0},
		{"seconds", "120", 2 * time.Minute},
		{"negative", "-3", 0},
		{"http date", now.Add(30 * time.Second).Format(http.TimeFormat), 30 * time.Second},
		{"past date", now.Add(-time.Minute).Format(http.TimeFormat), 0},
		{"garbage", "soon", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ParseRetryAfter(tt.value, now))
		})
	}
}

func TestClient_DecodingError(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"text": 42}`))
	})

	_, err := DoJSON[greeting](context.Background(), c, Endpoint{Path: "/x"})
	require.Error(t, err)
	assert.True(t, models.IsKind(err, models.KindDecoding))
}

func TestClient_Connectivity(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := New(url)
	require.NoError(t, err)

	_, err = c.Do(context.Background(), Endpoint{Path: "/x"})
	require.Error(t, err)
	assert.True(t, models.IsKind(err, models.KindConnectivity))
}

func TestClient_Cancelled(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	t.Cleanup(func() { close(release) })

	c := newTestClient(t, func(_ http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})

	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := c.Do(ctx, Endpoint{Path: "/slow"})
	require.Error(t, err)
	assert.True(t, models.IsKind(err, models.KindCancelled))
}

func TestKindFromStatus(t *testing.T) {
	t.Parallel()

	assert.Equal(t, models.KindServerError, KindFromStatus(599))
	assert.Equal(t, models.KindUnknown, KindFromStatus(418))
}

func TestClient_AttemptTimeoutIsConnectivity(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	t.Cleanup(func() { close(release) })

	c := newTestClient(t, func(_ http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := c.Do(ctx, Endpoint{Path: "/slow"})
	require.Error(t, err)
	assert.True(t, models.IsKind(err, models.KindConnectivity))
}
