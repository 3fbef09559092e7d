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
	"regexp"
	"slices"

	"github.com/rigtool/recipe-image-generator/pkg/matcher"
	"github.com/rigtool/recipe-image-generator/pkg/recipe"
	"github.com/rigtool/recipe-image-generator/pkg/template"
)

// assignment is a recipe placed on a recipe item.
type assignment struct {
	recipe *recipe.Recipe
	def    *template.RecipeDef
}

// instance is one planned image of a page. Slots holds the assignment of
// every foreground item, nil for items that draw no recipe.
type instance struct {
	slots []*assignment
	count int
}

// recipes returns the assigned recipes in paint order.
func (in instance) recipes() []*recipe.Recipe {
	out := make([]*recipe.Recipe, 0, in.count)
	for _, a := range in.slots {
		if a != nil {
			out = append(out, a.recipe)
		}
	}
	return out
}

// last returns the last recipe drawn on the image, or nil.
func (in instance) last() *recipe.Recipe {
	for i := len(in.slots) - 1; i >= 0; i-- {
		if in.slots[i] != nil {
			return in.slots[i].recipe
		}
	}
	return nil
}

// plan places pending recipes, in order, on the first free recipe item of
// the page that accepts each one. It returns the instance and the recipes
// still pending; pending itself is not modified.
func plan(page *template.Page, pattern *regexp.Regexp, pending []*recipe.Recipe) (instance, []*recipe.Recipe) {
	in := instance{slots: make([]*assignment, len(page.Foreground))}
	free := make([]template.ForegroundItem, len(page.Foreground))
	capacity := 0
	for i, item := range page.Foreground {
		if _, ok := item.(template.RecipeItem); ok {
			free[i] = item
			capacity++
		}
	}

	var rest []*recipe.Recipe
	for n, r := range pending {
		if in.count == capacity {
			rest = append(rest, pending[n:]...)
			break
		}
		item, def := matcher.Match(free, r, pattern)
		if item == nil {
			rest = append(rest, r)
			continue
		}
		i := slices.IndexFunc(free, func(f template.ForegroundItem) bool {
			return f == template.ForegroundItem(item)
		})
		free[i] = nil
		in.slots[i] = &assignment{recipe: r, def: def}
		in.count++
	}
	return in, rest
}

// scopeRecipes returns, for every foreground item, the recipe its
// $last_recipe tokens refer to: the recipe of the nearest recipe item
// before it, or the first recipe of the image before any recipe item.
// A recipe item left empty clears the scope for the items after it.
func scopeRecipes(page *template.Page, in instance) []*recipe.Recipe {
	out := make([]*recipe.Recipe, len(page.Foreground))
	var cur *recipe.Recipe
	if rs := in.recipes(); len(rs) > 0 {
		cur = rs[0]
	}
	for i, item := range page.Foreground {
		if _, ok := item.(template.RecipeItem); ok {
			cur = nil
			if a := in.slots[i]; a != nil {
				cur = a.recipe
			}
		}
		out[i] = cur
	}
	return out
}
