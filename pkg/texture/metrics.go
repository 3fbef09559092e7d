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

package texture

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	packLoadDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "rig_texture_pack_load_duration_seconds",
			Help:    "Duration of reading the texture data of a pack in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5},
		},
	)

	lookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rig_texture_lookups_total",
			Help: "Total number of resolved texture lookups, by layer",
		},
		[]string{"layer"},
	)
	missesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rig_texture_misses_total",
			Help: "Total number of identities left without a texture",
		},
	)
	promptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rig_texture_prompts_total",
			Help: "Total number of interactive texture prompts, by answer",
		},
		[]string{"answer"},
	)
)
