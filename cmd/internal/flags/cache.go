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

package flags

import (
	"github.com/blueboxy/remotecall/cmd/internal/models"
	"github.com/spf13/pflag"
)

const defaultCacheTTL = 300

type Cache struct {
	models.Cache
}

func NewCache() *Cache {
	return &Cache{}
}

func (f *Cache) NewFlagSet() *pflag.FlagSet {
	flagSet := &pflag.FlagSet{}

	flagSet.StringVar(&f.Mode, "cache",
		models.CacheModeMemory,
		"Where results are cached. Modes are:\n"+
			"memory: in process, lost on exit.\n"+
			"local: files in --cache-dir, kept between runs.\n"+
			"none: caching is disabled.")
	flagSet.StringVar(&f.Directory, "cache-dir",
		"",
		"Directory for the local cache.")
	flagSet.Int64Var(&f.TTL, "ttl",
		defaultCacheTTL,
		"How long a result is served from the cache, in seconds. 0 disables caching.")
	flagSet.IntVar(&f.CompressionThreshold, "compression-threshold",
		0,
		"Cached values larger than this number of bytes are compressed with zstd.\n"+
			"If 0, the store default is used.")
	flagSet.BoolVar(&f.Prune, "prune",
		false,
		"Remove expired entries from the cache before running.")

	return flagSet
}

func (f *Cache) GetCache() *models.Cache {
	return &f.Cache
}
