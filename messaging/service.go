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

// Package messaging generates personalized messages through the remote API,
// with retries and a short-lived result cache.
package messaging

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/blueboxy/remotecall"
	"github.com/blueboxy/remotecall/io/httpclient"
	"github.com/blueboxy/remotecall/models"
)

const (
	// GeneratePath is the API path used to generate messages.
	GeneratePath = "/api/messages/generate"
	// DefaultTTL is how long generated messages are served from the cache.
	DefaultTTL = 5 * time.Minute
	// DefaultCount is the number of messages requested when none is set.
	DefaultCount = 3

	operationGenerate = "messages.generate"
)

// Request describes the messages to generate.
type Request struct {
	UserID          string `json:"userId" yaml:"user-id"`
	Category        string `json:"category" yaml:"category"`
	TimeOfDay       string `json:"timeOfDay,omitempty" yaml:"time-of-day"`
	PartnerName     string `json:"partnerName,omitempty" yaml:"partner-name"`
	PersonalityType string `json:"personalityType,omitempty" yaml:"personality-type"`
	Count           int    `json:"count" yaml:"count"`
}

// Validate checks the request values.
func (r *Request) Validate() error {
	if r.UserID == "" {
		return fmt.Errorf("user id is required")
	}

	if r.Category == "" {
		return fmt.Errorf("category is required")
	}

	if r.Count < 0 {
		return fmt.Errorf("count must be non-negative, got %d", r.Count)
	}

	return nil
}

// Message is a single generated message.
type Message struct {
	ID                 string  `json:"id"`
	Content            string  `json:"content"`
	Category           string  `json:"category"`
	PersonalityMatch   string  `json:"personalityMatch,omitempty"`
	Tone               string  `json:"tone,omitempty"`
	EstimatedImpact    string  `json:"estimatedImpact,omitempty"`
	RelevanceScore     float64 `json:"relevanceScore,omitempty"`
	GeneratedAtUnixSec int64   `json:"generatedAt,omitempty"`
}

type generateResponse struct {
	Success  bool      `json:"success"`
	Messages []Message `json:"messages"`
	Error    string    `json:"error,omitempty"`
}

// Service generates messages through an [remotecall.Executor].
type Service struct {
	client   *httpclient.Client
	executor *remotecall.Executor
	logger   *slog.Logger

	ttl     time.Duration
	policy  *models.RetryPolicy
	refresh *models.RetryPolicy
}

// Opt is a functional option that allows configuring the [Service].
type Opt func(*Service)

// WithTTL sets how long generated messages are cached. Zero disables caching.
func WithTTL(ttl time.Duration) Opt {
	return func(s *Service) {
		s.ttl = ttl
	}
}

// WithPolicy sets the retry policy used by Generate.
func WithPolicy(policy *models.RetryPolicy) Opt {
	return func(s *Service) {
		s.policy = policy
	}
}

// WithRefreshPolicy sets the retry policy used by Refresh.
func WithRefreshPolicy(policy *models.RetryPolicy) Opt {
	return func(s *Service) {
		s.refresh = policy
	}
}

// WithLogger sets the logger for the [Service].
func WithLogger(logger *slog.Logger) Opt {
	return func(s *Service) {
		s.logger = logger
	}
}

// NewService returns a message service. Generate uses the default retry
// policy and Refresh the aggressive one unless configured otherwise.
func NewService(client *httpclient.Client, executor *remotecall.Executor, opts ...Opt) (*Service, error) {
	if client == nil {
		return nil, fmt.Errorf("http client is nil")
	}

	if executor == nil {
		return nil, fmt.Errorf("executor is nil")
	}

	s := &Service{
		client:   client,
		executor: executor,
		logger:   slog.Default(),
		ttl:      DefaultTTL,
		policy:   models.NewDefaultRetryPolicy(),
		refresh:  models.NewAggressiveRetryPolicy(),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.ttl < 0 {
		return nil, fmt.Errorf("ttl must be non-negative, got %s", s.ttl)
	}

	if s.policy == nil || s.refresh == nil {
		return nil, fmt.Errorf("retry policy is nil")
	}

	s.logger = s.logger.WithGroup("messaging")

	return s, nil
}

// Generate returns messages for req, served from the cache when possible.
func (s *Service) Generate(ctx context.Context, req Request) models.Result[[]Message] {
	return s.generate(ctx, req, s.policy)
}

// Refresh always calls the API and replaces the cached messages on success.
func (s *Service) Refresh(ctx context.Context, req Request) models.Result[[]Message] {
	return s.generate(ctx, req, s.refresh, remotecall.SkipCacheRead())
}

// Invalidate drops the cached messages for req.
func (s *Service) Invalidate(req Request) error {
	return s.executor.Invalidate(CacheKey(normalize(req)))
}

// CacheKey returns the cache key used for req.
func CacheKey(req Request) string {
	return remotecall.Key(operationGenerate, req)
}

func (s *Service) generate(
	ctx context.Context,
	req Request,
	policy *models.RetryPolicy,
	opts ...remotecall.ExecuteOpt,
) models.Result[[]Message] {
	req = normalize(req)

	if err := req.Validate(); err != nil {
		return models.Failure[[]Message](models.NewRemoteError(models.KindUnknown, "invalid request", err))
	}

	op := func(ctx context.Context) ([]Message, error) {
		return s.call(ctx, req)
	}

	result := remotecall.Execute(ctx, s.executor, CacheKey(req), op, policy, s.ttl, opts...)
	if result.Ok() {
		s.logger.Debug("messages ready",
			slog.String("category", req.Category),
			slog.Int("count", len(result.Value())),
			slog.Bool("cached", result.Cached),
		)
	}

	return result
}

func (s *Service) call(ctx context.Context, req Request) ([]Message, error) {
	resp, err := httpclient.DoJSON[generateResponse](ctx, s.client, httpclient.Endpoint{
		Method: http.MethodPost,
		Path:   GeneratePath,
		Body:   req,
	})
	if err != nil {
		return nil, err
	}

	if !resp.Success {
		msg := resp.Error
		if msg == "" {
			msg = "message generation was not successful"
		}

		return nil, models.NewRemoteError(models.KindServerError, msg, nil)
	}

	return resp.Messages, nil
}

func normalize(req Request) Request {
	if req.Count == 0 {
		req.Count = DefaultCount
	}

	return req
}
