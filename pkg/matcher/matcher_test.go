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

package matcher

import (
	"regexp"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rigtool/recipe-image-generator/pkg/recipe"
	"github.com/rigtool/recipe-image-generator/pkg/template"
)

const page = `{
	"size": [100, 100],
	"foreground": [
		{"item_type": "text", "offset": [0, 0], "font": "f.ttf", "text": "title"},
		{"item_type": "recipe_furnace", "offset": [0, 0], "size": [10, 10], "recipe_pattern": "example:.*",
		 "items": {"input": {"offset": [0, 0], "size": [1, 1]}}},
		{"item_type": "recipe_shaped", "offset": [0, 10], "size": [10, 10], "recipe_pattern": "example:(torch|lamp)",
		 "items": {"result": {"offset": [0, 0], "size": [1, 1]}}},
		{"item_type": "recipe_any", "offset": [0, 20], "recipe_pattern": ".*",
		 "recipe_shaped": {"offset": [0, 0], "size": [10, 10], "items": {}},
		 "recipe_brewing": {"offset": [3, 3], "size": [10, 10], "items": {}}}
	]
}`

func items(t *testing.T) []template.ForegroundItem {
	t.Helper()
	book, err := template.Parse("page", []byte(page))
	require.NoError(t, err)
	return book.Pages[0].Page.Foreground
}

func TestMatch(t *testing.T) {
	fg := items(t)

	tests := []struct {
		name        string
		recipe      *recipe.Recipe
		pagePattern *regexp.Regexp
		want        template.ForegroundItem
	}{
		{"furnace by pattern", &recipe.Recipe{ID: "example:glass", Kind: recipe.KindFurnace}, nil, fg[1]},
		{"furnace falls through to nothing", &recipe.Recipe{ID: "other:glass", Kind: recipe.KindFurnace}, nil, nil},
		{"shaped first match", &recipe.Recipe{ID: "example:torch", Kind: recipe.KindShaped}, nil, fg[2]},
		{"shapeless uses shaped layout", &recipe.Recipe{ID: "example:lamp", Kind: recipe.KindShapeless}, nil, fg[2]},
		{"pattern is anchored", &recipe.Recipe{ID: "example:torches", Kind: recipe.KindShaped}, nil, fg[3]},
		{"any with nested brewing", &recipe.Recipe{ID: "x:potion", Kind: recipe.KindBrewing}, nil, fg[3]},
		{"page pattern rejects", &recipe.Recipe{ID: "example:torch", Kind: recipe.KindShaped}, regexp.MustCompile(`^(?:minecraft:.*)$`), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, def := Match(fg, tt.recipe, tt.pagePattern)
			if tt.want == nil {
				assert.Nil(t, got)
				assert.Nil(t, def)
				return
			}
			require.NotNil(t, got)
			assert.Same(t, tt.want, got)
			assert.NotNil(t, def)
		})
	}
}

func TestMatchAnyWithoutNestedKind(t *testing.T) {
	fg := items(t)
	got, def := Match(fg[3:], &recipe.Recipe{ID: "x:glass", Kind: recipe.KindFurnace}, nil)
	assert.Nil(t, got)
	assert.Nil(t, def)
}

func TestMatchAnyReturnsNestedDefinition(t *testing.T) {
	fg := items(t)
	_, def := Match(fg, &recipe.Recipe{ID: "x:potion", Kind: recipe.KindBrewing}, nil)
	require.NotNil(t, def)
	assert.Equal(t, template.Vec2{X: 3, Y: 23}, def.Offset)
}

func TestMatchSkipsFilledItems(t *testing.T) {
	fg := items(t)
	free := slices.Clone(fg)
	torch := &recipe.Recipe{ID: "example:torch", Kind: recipe.KindShaped}

	got, _ := Match(free, torch, nil)
	assert.Same(t, fg[2], got)

	free[2] = nil
	got, def := Match(free, torch, nil)
	assert.Same(t, fg[3], got, "next item accepting the recipe")
	require.NotNil(t, def)

	free[3] = nil
	got, def = Match(free, torch, nil)
	assert.Nil(t, got)
	assert.Nil(t, def)
}
