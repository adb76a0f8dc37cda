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
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/blueboxy/remotecall/internal/logging"
	"github.com/blueboxy/remotecall/models"
	"github.com/google/uuid"
)

const (
	// HeaderRequestID carries a unique id for every request.
	HeaderRequestID = "X-Request-ID"
	// maxBodySize limits the response body that is read into memory.
	maxBodySize = 8 << 20
	// maxErrorBody is the part of an error response kept in the error message.
	maxErrorBody = 512
)

// Endpoint describes a single request relative to the client base URL.
type Endpoint struct {
	Method  string
	Path    string
	Query   url.Values
	Headers http.Header
	// Body is encoded as JSON when it is not nil. A []byte body is sent as is.
	Body any
}

// Client performs requests against one base URL and maps failures onto
// the remote error taxonomy.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	token   string
	logger  *slog.Logger
	now     func() time.Time
}

// Opt is a functional option that allows configuring the [Client].
type Opt func(*Client)

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(c *http.Client) Opt {
	return func(cl *Client) {
		cl.http = c
	}
}

// WithToken sets a bearer token sent with every request.
func WithToken(token string) Opt {
	return func(cl *Client) {
		cl.token = token
	}
}

// WithLogger sets the logger for the [Client].
func WithLogger(logger *slog.Logger) Opt {
	return func(cl *Client) {
		cl.logger = logger
	}
}

// WithNow sets the time source used to resolve HTTP-date Retry-After values.
func WithNow(now func() time.Time) Opt {
	return func(cl *Client) {
		cl.now = now
	}
}

// New returns a client for baseURL.
func New(baseURL string, opts ...Opt) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(strings.TrimSpace(baseURL), "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base url %q: %w", baseURL, err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported base url scheme %q", u.Scheme)
	}

	c := &Client{
		baseURL: u,
		http:    &http.Client{},
		logger:  slog.Default(),
		now:     time.Now,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Do performs the request and returns the response body. Any failure is
// returned as a *models.RemoteError.
func (c *Client) Do(ctx context.Context, ep Endpoint) ([]byte, error) {
	method := ep.Method
	if method == "" {
		method = http.MethodGet
	}

	logger := logging.WithEndpoint(c.logger, method, ep.Path)

	req, err := c.newRequest(ctx, method, ep)
	if err != nil {
		return nil, models.NewRemoteError(models.KindUnknown, "failed to build request", err)
	}

	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			return nil, models.NewRemoteError(models.KindCancelled, "request cancelled", ctx.Err())
		}

		re := models.Classify(err)
		if re.Kind == models.KindUnknown {
			// Every transport failure means the server was not reached.
			re.Kind = models.KindConnectivity
		}

		logger.Debug("request failed", slog.Any("error", err))

		return nil, re
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			return nil, models.NewRemoteError(models.KindCancelled, "request cancelled", ctx.Err())
		}

		return nil, models.NewRemoteError(models.KindConnectivity, "failed to read response body", err)
	}

	logger.Debug("request done",
		slog.Int("status", resp.StatusCode),
		slog.Duration("took", time.Since(start)),
		slog.String("request_id", req.Header.Get(HeaderRequestID)),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, c.statusError(resp, body)
	}

	return body, nil
}

// DoJSON performs the request and decodes the JSON response body into T.
func DoJSON[T any](ctx context.Context, c *Client, ep Endpoint) (T, error) {
	var out T

	body, err := c.Do(ctx, ep)
	if err != nil {
		return out, err
	}

	if err := json.Unmarshal(body, &out); err != nil {
		var zero T
		return zero, models.NewRemoteError(models.KindDecoding, "failed to decode response", err)
	}

	return out, nil
}

func (c *Client) newRequest(ctx context.Context, method string, ep Endpoint) (*http.Request, error) {
	u := c.baseURL.JoinPath(ep.Path)
	if len(ep.Query) > 0 {
		u.RawQuery = ep.Query.Encode()
	}

	var (
		body        io.Reader
		contentType string
	)

	switch b := ep.Body.(type) {
	case nil:
	case []byte:
		body = bytes.NewReader(b)
	default:
		data, err := json.Marshal(b)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}

		body = bytes.NewReader(data)
		contentType = "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, err
	}

	for name, values := range ep.Headers {
		for _, v := range values {
			req.Header.Add(name, v)
		}
	}

	req.Header.Set("Accept", "application/json")

	if contentType != "" && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", contentType)
	}

	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	if req.Header.Get(HeaderRequestID) == "" {
		req.Header.Set(HeaderRequestID, uuid.NewString())
	}

	return req, nil
}

func (c *Client) statusError(resp *http.Response, body []byte) *models.RemoteError {
	re := &models.RemoteError{
		Kind:       KindFromStatus(resp.StatusCode),
		StatusCode: resp.StatusCode,
		Message:    errorMessage(resp.StatusCode, body),
	}

	if re.Kind == models.KindRateLimited {
		re.RetryAfter = ParseRetryAfter(resp.Header.Get("Retry-After"), c.now())
	}

	return re
}

// KindFromStatus maps a non-2xx HTTP status code onto an error kind.
func KindFromStatus(status int) models.ErrorKind {
	switch {
	case status == http.StatusUnauthorized:
		return models.KindUnauthorized
	case status == http.StatusForbidden:
		return models.KindForbidden
	case status == http.StatusNotFound:
		return models.KindNotFound
	case status == http.StatusTooManyRequests:
		return models.KindRateLimited
	case status == http.StatusRequestTimeout, status >= 500 && status <= 599:
		return models.KindServerError
	default:
		return models.KindUnknown
	}
}

// ParseRetryAfter parses a Retry-After header given either in seconds or as
// an HTTP date. It returns zero when the header is empty or invalid.
func ParseRetryAfter(value string, now time.Time) time.Duration {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}

	if secs, err := strconv.Atoi(value); err == nil {
		if secs < 0 {
			return 0
		}

		return time.Duration(secs) * time.Second
	}

	when, err := http.ParseTime(value)
	if err != nil {
		return 0
	}

	if d := when.Sub(now); d > 0 {
		return d
	}

	return 0
}

// errorMessage extracts a message from a JSON error body of the form
// {"error": "..."} or {"message": "..."}, falling back to the raw body.
func errorMessage(status int, body []byte) string {
	var payload struct {
		Error   json.RawMessage `json:"error"`
		Message string          `json:"message"`
	}

	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}

		var s string
		if err := json.Unmarshal(payload.Error, &s); err == nil && s != "" {
			return s
		}

		var nested struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(payload.Error, &nested); err == nil && nested.Message != "" {
			return nested.Message
		}
	}

	text := strings.TrimSpace(string(body))
	if len(text) > maxErrorBody {
		text = text[:maxErrorBody]
	}

	if text == "" {
		return http.StatusText(status)
	}

	return text
}
