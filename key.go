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
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// Key builds a cache key from an operation name and the parameters of the
// request. Equal parameters always give the same key. Maps are encoded with
// sorted keys, so their iteration order does not matter.
func Key(operation string, params ...any) string {
	if len(params) == 0 {
		return operation
	}

	h := xxhash.New()
	enc := json.NewEncoder(h)

	for _, p := range params {
		if err := enc.Encode(p); err != nil {
			_, _ = fmt.Fprintf(h, "%#v\n", p)
		}
	}

	return operation + ":" + strconv.FormatUint(h.Sum64(), 16)
}
