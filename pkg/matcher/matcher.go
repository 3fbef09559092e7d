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

// Package matcher decides which foreground item of a page draws a recipe.
package matcher

import (
	"regexp"

	"github.com/rigtool/recipe-image-generator/pkg/recipe"
	"github.com/rigtool/recipe-image-generator/pkg/template"
)

// Accepts reports whether a recipe item can draw r, and with which layout.
// The item must have a layout for the recipe kind, its pattern must match
// the recipe identifier in full, and so must the page pattern when set.
func Accepts(item template.RecipeItem, r *recipe.Recipe, pagePattern *regexp.Regexp) (*template.RecipeDef, bool) {
	if item == nil || r == nil {
		return nil, false
	}
	def, ok := item.Definition(r.Kind)
	if !ok {
		return nil, false
	}
	if p := item.Pattern(); p != nil && !p.MatchString(r.ID) {
		return nil, false
	}
	if pagePattern != nil && !pagePattern.MatchString(r.ID) {
		return nil, false
	}
	return def, true
}

// Match returns the first recipe item, in paint order, that accepts r.
// It returns nil when no item accepts the recipe. Nil entries in items
// are skipped, so callers can blank out items already filled.
func Match(items []template.ForegroundItem, r *recipe.Recipe, pagePattern *regexp.Regexp) (template.RecipeItem, *template.RecipeDef) {
	for _, item := range items {
		ri, ok := item.(template.RecipeItem)
		if !ok {
			continue
		}
		if def, ok := Accepts(ri, r, pagePattern); ok {
			return ri, def
		}
	}
	return nil, nil
}
