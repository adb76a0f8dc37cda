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
	"time"

	"github.com/blueboxy/remotecall/models"
)

// CacheStore keeps cached results of remote calls. Implementations must be
// safe for concurrent use; multi-key atomicity is not required.
//
// Get returns entries whether or not they are still valid; validity is
// decided by the caller. Delete and Clear are idempotent.
type CacheStore interface {
	Get(key string) (*models.CacheEntry, bool)
	Set(entry *models.CacheEntry) error
	Delete(key string) error
	Clear() error
	Prune(now time.Time) (int, error)
	Stats() models.CacheStats
}
