// Copyright 2026 Google Inc. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package internal

import "time"

// Clock is used to query the current local time.
type Clock interface {
	Now() time.Time
}

// SystemClock returns the current system time.
type SystemClock struct{}

// Now returns the current system time by calling time.Now().
func (s *SystemClock) Now() time.Time {
	return time.Now()
}

// MockClock can be used to mock current time during tests.
type MockClock struct {
	Timestamp time.Time
}

// Now returns the timestamp set in the MockClock.
func (m *MockClock) Now() time.Time {
	return m.Timestamp
}
