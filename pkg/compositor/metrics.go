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

package compositor

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	imagesWritten = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rig_compositor_images_written_total",
			Help: "Total number of page images written",
		},
	)

	issuesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rig_compositor_issues_total",
			Help: "Total number of non-fatal generation issues by code",
		},
		[]string{"code"},
	)

	recipesDrawn = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rig_compositor_recipes_drawn_total",
			Help: "Total number of recipes drawn by kind",
		},
		[]string{"kind"},
	)

	renderDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "rig_compositor_render_duration_seconds",
			Help:    "Time spent rendering one page image",
			Buckets: prometheus.DefBuckets,
		},
	)
)
