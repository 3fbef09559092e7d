// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package defaults

import (
	"testing"
	"time"
)

func TestTimeoutConstants(t *testing.T) {
	tests := []struct {
		name     string
		timeout  time.Duration
		minValue time.Duration
		maxValue time.Duration
	}{
		{"SyncPullTimeout", SyncPullTimeout, 1 * time.Minute, 15 * time.Minute},
		{"SyncPushTimeout", SyncPushTimeout, 10 * time.Second, 5 * time.Minute},
		{"SyncPushInterval", SyncPushInterval, 1 * time.Second, 5 * time.Minute},
		{"GenerateTimeout", GenerateTimeout, 1 * time.Minute, 1 * time.Hour},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.timeout < tt.minValue {
				t.Errorf("%s = %v, want >= %v", tt.name, tt.timeout, tt.minValue)
			}
			if tt.timeout > tt.maxValue {
				t.Errorf("%s = %v, want <= %v", tt.name, tt.timeout, tt.maxValue)
			}
		})
	}
}

func TestPushFasterThanTimeout(t *testing.T) {
	if SyncPushTimeout > SyncPullTimeout {
		t.Errorf("SyncPushTimeout (%v) should not exceed SyncPullTimeout (%v)",
			SyncPushTimeout, SyncPullTimeout)
	}
}
