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

import "time"

// CacheEntry is one cached result of a remote call.
// Entries are replaced as a whole and never partially updated.
type CacheEntry struct {
	// Key identifies the logical request.
	Key string
	// Value is the encoded result, opaque to the store.
	Value []byte
	// WrittenAt is when the entry was stored.
	WrittenAt time.Time
	// TTL is how long the entry stays valid after WrittenAt.
	TTL time.Duration
}

// NewCacheEntry returns a new CacheEntry written at now.
func NewCacheEntry(key string, value []byte, now time.Time, ttl time.Duration) *CacheEntry {
	return &CacheEntry{
		Key:       key,
		Value:     value,
		WrittenAt: now,
		TTL:       ttl,
	}
}

// Valid reports whether the entry is still fresh at now: (now - writtenAt) < ttl.
func (e *CacheEntry) Valid(now time.Time) bool {
	if e == nil {
		return false
	}

	return now.Sub(e.WrittenAt) < e.TTL
}

// ExpiresAt returns the instant the entry stops being valid.
func (e *CacheEntry) ExpiresAt() time.Time {
	return e.WrittenAt.Add(e.TTL)
}

// Size returns the approximate memory footprint of the entry in bytes.
func (e *CacheEntry) Size() int64 {
	if e == nil {
		return 0
	}

	return int64(len(e.Key) + len(e.Value))
}
