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

// Package template loads book and page templates.
//
// A page template describes one output image: a background, an optional
// canvas size and an ordered list of foreground items drawn in paint order.
// Foreground items are discriminated by their item_type field:
//
//	{"item_type": "text", "offset": [10, 10], "font": "mc.ttf", "text": "$last_recipe.name"}
//	{"item_type": "recipe_shaped", "offset": [0, 40], "background": "grid.png",
//	 "recipe_pattern": "example:.*", "items": {"0,0": {"offset": [0, 0], "size": [16, 16]}}}
//
// A book template lists pages, either inline or as references to page
// templates with their own var scope:
//
//	{"pages": [{"page": "cover", "scope": {"chapter": "Tools"}}]}
//
// Recipe patterns match the whole recipe identifier. Templates may contain
// comments and trailing commas.
package template
