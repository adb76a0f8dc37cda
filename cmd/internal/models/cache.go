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

import "fmt"

const (
	CacheModeMemory = "memory"
	CacheModeLocal  = "local"
	CacheModeNone   = "none"
)

// Cache configures where remote call results are cached.
type Cache struct {
	Mode      string `yaml:"mode,omitempty"`
	Directory string `yaml:"directory,omitempty"`
	// TTL in seconds.
	TTL int64 `yaml:"ttl,omitempty"`
	// Values larger than this number of bytes are compressed.
	CompressionThreshold int  `yaml:"compression-threshold,omitempty"`
	Prune                bool `yaml:"prune,omitempty"`
}

func (c *Cache) Validate() error {
	if c == nil {
		return nil
	}

	switch c.Mode {
	case CacheModeMemory, CacheModeNone:
	case CacheModeLocal:
		if c.Directory == "" {
			return fmt.Errorf("cache directory is required for %s cache", CacheModeLocal)
		}
	default:
		return fmt.Errorf("unknown cache mode %q", c.Mode)
	}

	if c.TTL < 0 {
		return fmt.Errorf("ttl must be non-negative")
	}

	if c.CompressionThreshold < 0 {
		return fmt.Errorf("compression-threshold must be non-negative")
	}

	return nil
}
