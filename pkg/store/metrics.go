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

package store

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	learnedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rig_store_answers_saved_total",
			Help: "Total number of learned texture answers saved, by target",
		},
		[]string{"target"},
	)
	pushTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rig_store_pushes_total",
			Help: "Total number of database pushes, by result",
		},
		[]string{"result"},
	)
	pullTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rig_store_pulls_total",
			Help: "Total number of database pulls, by result",
		},
		[]string{"result"},
	)
)
