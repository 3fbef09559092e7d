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

package template

import (
	"regexp"

	"github.com/rigtool/recipe-image-generator/pkg/recipe"
)

// ItemType discriminates foreground items.
type ItemType string

const (
	TypeImage         ItemType = "image"
	TypeText          ItemType = "text"
	TypeRecipeShaped  ItemType = "recipe_shaped"
	TypeRecipeFurnace ItemType = "recipe_furnace"
	TypeRecipeBrewing ItemType = "recipe_brewing"
	TypeRecipeAny     ItemType = "recipe_any"
)

// Vec2 is an [x, y] pair in template pixels, before scaling.
type Vec2 struct {
	X, Y float64
}

// Add returns the component-wise sum.
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

// Color is an RGBA color.
type Color [4]uint8

// TextValue is a template string or a list of template strings.
type TextValue struct {
	Lines  []string
	IsList bool
}

// Book is an ordered list of page references. A template file that
// defines a single page loads as a book with one reference.
type Book struct {
	Name  string
	Path  string
	Pages []PageRef
}

// PageRef places a page in a book.
type PageRef struct {
	// Name is the referenced template name, empty for inline pages.
	Name string
	// Page is nil when the referenced template failed to load.
	Page *Page
	// Err holds the load failure of a referenced page.
	Err error
	// Scope is the var scope of the page.
	Scope map[string]string
	// RecipePattern further restricts which recipes the page accepts.
	RecipePattern *regexp.Regexp
}

// Page describes one output image.
type Page struct {
	Background     string
	Size           *Vec2
	Scale          float64
	OutputFileName string
	Foreground     []ForegroundItem
}

// ForegroundItem is one drawable element of a page. The concrete types are
// *ImageItem, *TextItem, *RecipeShapedItem, *RecipeFurnaceItem,
// *RecipeBrewingItem and *RecipeAnyItem.
type ForegroundItem interface {
	Type() ItemType
	isForegroundItem()
}

// RecipeItem is a foreground item that draws a recipe.
type RecipeItem interface {
	ForegroundItem
	// Pattern matches the identifiers of accepted recipes in full.
	Pattern() *regexp.Regexp
	// Definition returns the layout used for a recipe kind, if accepted.
	Definition(kind recipe.Kind) (*RecipeDef, bool)
}

// ImageItem draws an image from the images directories.
type ImageItem struct {
	Offset Vec2
	// Size, when set, fits the image into a box centered in it.
	Size  *Vec2
	Image TextValue
	Scale float64
}

// TextItem draws text.
type TextItem struct {
	Offset     Vec2
	Text       TextValue
	Font       string
	FontSize   float64
	Color      Color
	Alignment  string
	Anchor     string
	Spacing    float64
	AntiAlias  bool
	LineLength int
}

// Slot places one recipe item inside a recipe layout.
type Slot struct {
	Offset Vec2
	Size   Vec2
}

// RecipeDef is the layout of a recipe: a background and the slot boxes,
// positioned at Offset on the page.
type RecipeDef struct {
	Offset     Vec2
	Size       *Vec2
	Background string
	Scale      float64
	Items      map[string]Slot
}

type recipeBase struct {
	RecipeDef
	pattern *regexp.Regexp
}

func (r *recipeBase) Pattern() *regexp.Regexp { return r.pattern }

// RecipeShapedItem draws shaped and shapeless crafting recipes.
type RecipeShapedItem struct{ recipeBase }

// RecipeFurnaceItem draws furnace recipes.
type RecipeFurnaceItem struct{ recipeBase }

// RecipeBrewingItem draws brewing recipes.
type RecipeBrewingItem struct{ recipeBase }

// RecipeAnyItem draws any recipe kind it has a nested layout for.
type RecipeAnyItem struct {
	Offset  *Vec2
	Shaped  *RecipeDef
	Furnace *RecipeDef
	Brewing *RecipeDef
	pattern *regexp.Regexp
}

func (*ImageItem) Type() ItemType         { return TypeImage }
func (*TextItem) Type() ItemType          { return TypeText }
func (*RecipeShapedItem) Type() ItemType  { return TypeRecipeShaped }
func (*RecipeFurnaceItem) Type() ItemType { return TypeRecipeFurnace }
func (*RecipeBrewingItem) Type() ItemType { return TypeRecipeBrewing }
func (*RecipeAnyItem) Type() ItemType     { return TypeRecipeAny }

func (*ImageItem) isForegroundItem()         {}
func (*TextItem) isForegroundItem()          {}
func (*RecipeShapedItem) isForegroundItem()  {}
func (*RecipeFurnaceItem) isForegroundItem() {}
func (*RecipeBrewingItem) isForegroundItem() {}
func (*RecipeAnyItem) isForegroundItem()     {}

// Definition accepts shaped and shapeless recipes.
func (r *RecipeShapedItem) Definition(kind recipe.Kind) (*RecipeDef, bool) {
	if kind == recipe.KindShaped || kind == recipe.KindShapeless {
		return &r.RecipeDef, true
	}
	return nil, false
}

// Definition accepts furnace recipes.
func (r *RecipeFurnaceItem) Definition(kind recipe.Kind) (*RecipeDef, bool) {
	if kind == recipe.KindFurnace {
		return &r.RecipeDef, true
	}
	return nil, false
}

// Definition accepts brewing recipes.
func (r *RecipeBrewingItem) Definition(kind recipe.Kind) (*RecipeDef, bool) {
	if kind == recipe.KindBrewing {
		return &r.RecipeDef, true
	}
	return nil, false
}

// Pattern matches the identifiers of accepted recipes in full.
func (r *RecipeAnyItem) Pattern() *regexp.Regexp { return r.pattern }

// Definition returns the nested layout for the recipe kind. A kind without
// a nested layout is not accepted.
func (r *RecipeAnyItem) Definition(kind recipe.Kind) (*RecipeDef, bool) {
	var def *RecipeDef
	switch kind {
	case recipe.KindShaped, recipe.KindShapeless:
		def = r.Shaped
	case recipe.KindFurnace:
		def = r.Furnace
	case recipe.KindBrewing:
		def = r.Brewing
	}
	if def == nil {
		return nil, false
	}
	if r.Offset != nil {
		shifted := *def
		shifted.Offset = def.Offset.Add(*r.Offset)
		return &shifted, true
	}
	return def, true
}

// FullMatch compiles a pattern that must match the whole input.
func FullMatch(pattern string) (*regexp.Regexp, error) {
	return regexp.Compile(`^(?:` + pattern + `)$`)
}
