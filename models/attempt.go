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

// Attempt describes one try of a remote call.
type Attempt struct {
	// Number is 1-based.
	Number int
	// Err is the failure of this attempt, nil on success.
	Err *RemoteError
	// Delay is the wait before the next attempt, zero if there is none.
	Delay time.Duration
}
