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

package remotecall

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/blueboxy/remotecall/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewExecutor(t *testing.T) {
	t.Parallel()

	e, err := NewExecutor(WithLogger(discardLogger()))
	require.NoError(t, err)
	assert.NotEmpty(t, e.ID())
	assert.Equal(t, models.CacheStats{}, e.CacheStats())

	named, err := NewExecutor(WithID("messages"), WithLogger(discardLogger()))
	require.NoError(t, err)
	assert.Equal(t, "messages", named.ID())

	_, err = NewExecutor(WithClock(nil))
	require.Error(t, err)

	_, err = NewExecutor(WithCodec(nil))
	require.Error(t, err)
}

func TestExecutor_InvalidateAndClear(t *testing.T) {
	t.Parallel()

	e, _ := newTestExecutor(t)
	op := &countingOp{results: []opResult{{value: "v"}}}

	for _, key := range []string{"a", "b", "c"} {
		result := Execute(context.Background(), e, key, op.run, testPolicy(t, 1), testTTL)
		require.True(t, result.Ok())
	}

	require.Equal(t, 3, e.CacheStats().Entries)

	require.NoError(t, e.Invalidate("a"))
	require.NoError(t, e.Invalidate("a"))
	require.NoError(t, e.Invalidate("missing"))
	assert.Equal(t, 2, e.CacheStats().Entries)

	result := Execute(context.Background(), e, "a", op.run, testPolicy(t, 1), testTTL)
	assert.False(t, result.Cached)

	require.NoError(t, e.Clear())
	require.NoError(t, e.Clear())
	assert.Equal(t, models.CacheStats{}, e.CacheStats())

	result = Execute(context.Background(), e, "b", op.run, testPolicy(t, 1), testTTL)
	assert.False(t, result.Cached)
	assert.EqualValues(t, 5, op.calls.Load())
}

func TestExecutor_PruneExpired(t *testing.T) {
	t.Parallel()

	e, clk := newTestExecutor(t)
	op := &countingOp{results: []opResult{{value: "v"}}}

	Execute(context.Background(), e, "short", op.run, testPolicy(t, 1), time.Minute)
	Execute(context.Background(), e, "long", op.run, testPolicy(t, 1), time.Hour)

	removed, err := e.PruneExpired()
	require.NoError(t, err)
	assert.Equal(t, 0, removed)

	clk.Advance(2 * time.Minute)

	removed, err = e.PruneExpired()
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, e.CacheStats().Entries)
}

func TestExecutor_StoreErrors(t *testing.T) {
	t.Parallel()

	store := &mockStore{}
	store.On("Delete", "k").Return(errors.New("locked"))
	store.On("Clear").Return(errors.New("locked"))
	store.On("Prune", testStart).Return(2, errors.New("partial"))

	e, _ := newTestExecutor(t, WithStore(store))

	require.ErrorContains(t, e.Invalidate("k"), "locked")
	require.ErrorContains(t, e.Clear(), "locked")

	removed, err := e.PruneExpired()
	require.ErrorContains(t, err, "partial")
	assert.Equal(t, 2, removed)

	store.AssertExpectations(t)
}

func TestKey(t *testing.T) {
	t.Parallel()

	type request struct {
		Topic string `json:"topic"`
		Count int    `json:"count"`
	}

	assert.Equal(t, "ping", Key("ping"))

	a := Key("messages.generate", request{Topic: "birthday", Count: 3})
	b := Key("messages.generate", request{Topic: "birthday", Count: 3})
	c := Key("messages.generate", request{Topic: "birthday", Count: 4})
	d := Key("messages.refresh", request{Topic: "birthday", Count: 3})

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.NotEqual(t, a, d)
	assert.Contains(t, a, "messages.generate:")

	// Unencodable params still produce a stable key.
	ch := make(chan int)
	assert.Equal(t, Key("op", ch), Key("op", ch))
}
