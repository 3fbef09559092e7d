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

package recipe

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	recipeLoadDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "rig_recipe_load_duration_seconds",
			Help:    "Duration of loading the recipes of a behavior pack in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5},
		},
	)

	recipesLoaded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rig_recipes_loaded_total",
			Help: "Total number of recipes loaded, by kind",
		},
		[]string{"kind"},
	)
	recipesInvalid = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rig_recipes_invalid_total",
			Help: "Total number of recipe files skipped as invalid",
		},
	)
)
