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

import "time"

// Database synchronization timeouts.
const (
	// SyncPullTimeout bounds a full pull of the shared database.
	// The first pull clones the whole repository, so it is generous.
	SyncPullTimeout = 5 * time.Minute

	// SyncPushTimeout bounds a single push of learned textures.
	SyncPushTimeout = 1 * time.Minute

	// SyncPushInterval is the minimum spacing between pushes triggered by
	// newly learned textures. Answers arriving faster are pushed on flush.
	SyncPushInterval = 30 * time.Second
)

// Generation limits.
const (
	// GenerateTimeout bounds a single non-interactive generate run.
	// Interactive runs are unbounded because they wait on the user.
	GenerateTimeout = 10 * time.Minute
)
