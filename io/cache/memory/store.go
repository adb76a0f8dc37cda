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

// Package memory provides an in-memory cache store. Values larger than the
// configured threshold are kept zstd-compressed.
package memory

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/blueboxy/remotecall/internal/logging"
	"github.com/blueboxy/remotecall/models"
	"github.com/klauspost/compress/zstd"
)

// DefaultCompressionThreshold is the value size above which values are compressed.
const DefaultCompressionThreshold = 4 * 1024

// item is the stored form of an entry.
type item struct {
	entry      models.CacheEntry
	compressed bool
}

func (i *item) size() int64 {
	return int64(len(i.entry.Key) + len(i.entry.Value))
}

// Store is a concurrency-safe in-memory cache store. Each key is managed
// independently; the last Set for a key wins.
type Store struct {
	mu      sync.RWMutex
	entries map[string]*item
	size    int64

	// threshold is the value size above which values are compressed, 0 disables compression.
	threshold int
	encoder   *zstd.Encoder
	decoder   *zstd.Decoder

	logger *slog.Logger
}

// Opt is a functional option that allows configuring the [Store].
type Opt func(*Store)

// WithCompressionThreshold sets the value size above which values are
// compressed. 0 disables compression.
func WithCompressionThreshold(threshold int) Opt {
	return func(s *Store) {
		s.threshold = threshold
	}
}

// WithLogger sets the logger for the [Store].
func WithLogger(logger *slog.Logger) Opt {
	return func(s *Store) {
		s.logger = logger
	}
}

// NewStore returns a new empty Store.
func NewStore(opts ...Opt) (*Store, error) {
	s := &Store{
		entries:   make(map[string]*item),
		threshold: DefaultCompressionThreshold,
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.logger = logging.WithStore(s.logger, logging.StoreTypeMemory)

	if s.threshold > 0 {
		enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedFastest))
		if err != nil {
			return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
		}

		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
		}

		s.encoder = enc
		s.decoder = dec
	}

	return s, nil
}

// Get returns a copy of the entry stored for key, expired or not.
func (s *Store) Get(key string) (*models.CacheEntry, bool) {
	s.mu.RLock()
	it, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok {
		return nil, false
	}

	entry := it.entry

	if it.compressed {
		value, err := s.decoder.DecodeAll(it.entry.Value, nil)
		if err != nil {
			s.logger.Error("failed to decompress cache entry",
				slog.String("key", key),
				slog.Any("error", err),
			)

			s.deleteItem(key, it)

			return nil, false
		}

		entry.Value = value
	} else {
		entry.Value = slices.Clone(entry.Value)
	}

	return &entry, true
}

// Set stores a copy of entry, replacing any previous entry for the same key.
func (s *Store) Set(entry *models.CacheEntry) error {
	if entry == nil {
		return fmt.Errorf("cache entry is nil")
	}

	it := &item{entry: *entry}

	if s.threshold > 0 && len(entry.Value) > s.threshold {
		compressed := s.encoder.EncodeAll(entry.Value, nil)
		if len(compressed) < len(entry.Value) {
			it.entry.Value = compressed
			it.compressed = true
		}
	}

	if !it.compressed {
		it.entry.Value = slices.Clone(entry.Value)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.entries[entry.Key]; ok {
		s.size -= prev.size()
	}

	s.entries[entry.Key] = it
	s.size += it.size()

	return nil
}

// Delete removes the entry for key. Deleting a missing key is not an error.
func (s *Store) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if it, ok := s.entries[key]; ok {
		s.size -= it.size()
		delete(s.entries, key)
	}

	return nil
}

// deleteItem removes key only if it still maps to it.
func (s *Store) deleteItem(key string, it *item) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cur, ok := s.entries[key]; ok && cur == it {
		s.size -= it.size()
		delete(s.entries, key)
	}
}

// Clear removes all entries.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	clear(s.entries)
	s.size = 0

	return nil
}

// Prune removes entries that are no longer valid at now and returns their number.
func (s *Store) Prune(now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed int

	for key, it := range s.entries {
		if !it.entry.Valid(now) {
			s.size -= it.size()
			delete(s.entries, key)
			removed++
		}
	}

	return removed, nil
}

// Stats returns the number of entries and their approximate size.
func (s *Store) Stats() models.CacheStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return models.CacheStats{
		Entries:    len(s.entries),
		ApproxSize: s.size,
	}
}
