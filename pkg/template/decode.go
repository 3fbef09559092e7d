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
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/rigtool/recipe-image-generator/pkg/defaults"
)

// UnmarshalJSON reads an [x, y] array.
func (v *Vec2) UnmarshalJSON(b []byte) error {
	var xy []float64
	if err := json.Unmarshal(b, &xy); err != nil {
		return fmt.Errorf("vector must be an array of two numbers: %w", err)
	}
	if len(xy) != 2 {
		return fmt.Errorf("vector must have 2 elements, got %d", len(xy))
	}
	v.X, v.Y = xy[0], xy[1]
	return nil
}

// MarshalJSON writes an [x, y] array.
func (v Vec2) MarshalJSON() ([]byte, error) {
	return json.Marshal([]float64{v.X, v.Y})
}

// UnmarshalJSON reads an [r, g, b] or [r, g, b, a] array.
func (c *Color) UnmarshalJSON(b []byte) error {
	var rgba []int
	if err := json.Unmarshal(b, &rgba); err != nil {
		return fmt.Errorf("color must be an array of integers: %w", err)
	}
	if len(rgba) != 3 && len(rgba) != 4 {
		return fmt.Errorf("color must have 3 or 4 elements, got %d", len(rgba))
	}
	out := Color{0, 0, 0, 255}
	for i, v := range rgba {
		if v < 0 || v > 255 {
			return fmt.Errorf("color component %d out of range: %d", i, v)
		}
		out[i] = uint8(v)
	}
	*c = out
	return nil
}

// UnmarshalJSON accepts a string or a list of strings.
func (t *TextValue) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*t = TextValue{Lines: []string{s}}
		return nil
	}
	var list []string
	if err := json.Unmarshal(b, &list); err != nil {
		return fmt.Errorf("text must be a string or a list of strings")
	}
	*t = TextValue{Lines: list, IsList: true}
	return nil
}

// String joins the lines with newlines, unresolved.
func (t TextValue) String() string {
	return strings.Join(t.Lines, "\n")
}

type rawPage struct {
	Background     string            `json:"background"`
	Size           *Vec2             `json:"size"`
	Scale          *float64          `json:"scale"`
	OutputFileName string            `json:"output_file_name"`
	Foreground     []json.RawMessage `json:"foreground"`
}

type rawPageRef struct {
	Page          *string        `json:"page"`
	Scope         map[string]any `json:"scope"`
	RecipePattern *string        `json:"recipe_pattern"`
}

type rawItemType struct {
	ItemType ItemType `json:"item_type"`
}

type rawImage struct {
	Offset *Vec2      `json:"offset"`
	Size   *Vec2      `json:"size"`
	Image  *TextValue `json:"image"`
	Scale  *float64   `json:"scale"`
}

type rawText struct {
	Offset     *Vec2      `json:"offset"`
	Text       *TextValue `json:"text"`
	Font       string     `json:"font"`
	Scale      *float64   `json:"scale"`
	Color      *Color     `json:"color"`
	Alignment  string     `json:"alignment"`
	Anchor     string     `json:"anchor"`
	Spacing    *float64   `json:"spacing"`
	AntiAlias  bool       `json:"anti_alias"`
	LineLength int        `json:"line_length"`
}

type rawSlot struct {
	Offset *Vec2 `json:"offset"`
	Size   *Vec2 `json:"size"`
}

type rawRecipeDef struct {
	Offset     *Vec2              `json:"offset"`
	Size       *Vec2              `json:"size"`
	Background string             `json:"background"`
	Scale      *float64           `json:"scale"`
	Items      map[string]rawSlot `json:"items"`
}

type rawRecipe struct {
	rawRecipeDef
	RecipePattern *string `json:"recipe_pattern"`
}

type rawRecipeAny struct {
	Offset        *Vec2         `json:"offset"`
	RecipePattern *string       `json:"recipe_pattern"`
	Shaped        *rawRecipeDef `json:"recipe_shaped"`
	Furnace       *rawRecipeDef `json:"recipe_furnace"`
	Brewing       *rawRecipeDef `json:"recipe_brewing"`
}

func decodePage(raw rawPage) (*Page, error) {
	if raw.Background == "" && raw.Size == nil {
		return nil, fmt.Errorf("page needs a background or a size")
	}
	p := &Page{
		Background:     raw.Background,
		Size:           raw.Size,
		Scale:          orDefault(raw.Scale, 1),
		OutputFileName: raw.OutputFileName,
	}
	if p.OutputFileName == "" {
		p.OutputFileName = defaults.OutputNamePattern
	}
	if p.Scale <= 0 {
		return nil, fmt.Errorf("page scale must be positive, got %v", p.Scale)
	}
	for i, b := range raw.Foreground {
		item, err := decodeItem(b)
		if err != nil {
			return nil, fmt.Errorf("foreground[%d]: %w", i, err)
		}
		p.Foreground = append(p.Foreground, item)
	}
	return p, nil
}

func decodeItem(b json.RawMessage) (ForegroundItem, error) {
	var t rawItemType
	if err := json.Unmarshal(b, &t); err != nil {
		return nil, err
	}
	switch t.ItemType {
	case TypeImage:
		return decodeImage(b)
	case TypeText:
		return decodeText(b)
	case TypeRecipeShaped, TypeRecipeFurnace, TypeRecipeBrewing:
		var raw rawRecipe
		if err := json.Unmarshal(b, &raw); err != nil {
			return nil, err
		}
		base, err := decodeRecipeBase(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", t.ItemType, err)
		}
		switch t.ItemType {
		case TypeRecipeShaped:
			return &RecipeShapedItem{base}, nil
		case TypeRecipeFurnace:
			return &RecipeFurnaceItem{base}, nil
		default:
			return &RecipeBrewingItem{base}, nil
		}
	case TypeRecipeAny:
		return decodeRecipeAny(b)
	case "":
		return nil, fmt.Errorf("missing item_type")
	default:
		return nil, fmt.Errorf("unknown item_type %q", t.ItemType)
	}
}

func decodeImage(b json.RawMessage) (*ImageItem, error) {
	var raw rawImage
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, err
	}
	if raw.Offset == nil {
		return nil, fmt.Errorf("image: missing offset")
	}
	if raw.Image == nil {
		return nil, fmt.Errorf("image: missing image")
	}
	return &ImageItem{
		Offset: *raw.Offset,
		Size:   raw.Size,
		Image:  *raw.Image,
		Scale:  orDefault(raw.Scale, 1),
	}, nil
}

func decodeText(b json.RawMessage) (*TextItem, error) {
	var raw rawText
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, err
	}
	if raw.Offset == nil {
		return nil, fmt.Errorf("text: missing offset")
	}
	if raw.Text == nil {
		return nil, fmt.Errorf("text: missing text")
	}
	if raw.Font == "" {
		return nil, fmt.Errorf("text: missing font")
	}
	item := &TextItem{
		Offset:     *raw.Offset,
		Text:       *raw.Text,
		Font:       raw.Font,
		FontSize:   orDefault(raw.Scale, defaults.TextSize),
		Color:      defaults.TextColor,
		Alignment:  raw.Alignment,
		Anchor:     raw.Anchor,
		Spacing:    orDefault(raw.Spacing, defaults.TextSpacing),
		AntiAlias:  raw.AntiAlias,
		LineLength: raw.LineLength,
	}
	if raw.Color != nil {
		item.Color = *raw.Color
	}
	if item.Alignment == "" {
		item.Alignment = defaults.TextAlignment
	}
	if item.Anchor == "" {
		item.Anchor = defaults.TextAnchor
	}
	switch item.Alignment {
	case "left", "center", "right":
	default:
		return nil, fmt.Errorf("text: alignment must be left, center or right, got %q", item.Alignment)
	}
	if !validAnchor(item.Anchor) {
		return nil, fmt.Errorf("text: invalid anchor %q", item.Anchor)
	}
	if item.LineLength < 0 {
		return nil, fmt.Errorf("text: line_length must not be negative")
	}
	return item, nil
}

// validAnchor accepts two-letter anchors: horizontal l/m/r followed by
// vertical a/t/m/s/b/d.
func validAnchor(a string) bool {
	return len(a) == 2 &&
		strings.ContainsRune("lmr", rune(a[0])) &&
		strings.ContainsRune("atmsbd", rune(a[1]))
}

func decodeRecipeDef(raw rawRecipeDef) (RecipeDef, error) {
	if raw.Offset == nil {
		return RecipeDef{}, fmt.Errorf("missing offset")
	}
	if raw.Items == nil {
		return RecipeDef{}, fmt.Errorf("missing items")
	}
	def := RecipeDef{
		Offset:     *raw.Offset,
		Size:       raw.Size,
		Background: raw.Background,
		Scale:      orDefault(raw.Scale, 1),
		Items:      make(map[string]Slot, len(raw.Items)),
	}
	if def.Background == "" && def.Size == nil {
		return RecipeDef{}, fmt.Errorf("needs a background or a size")
	}
	for key, s := range raw.Items {
		if s.Offset == nil || s.Size == nil {
			return RecipeDef{}, fmt.Errorf("slot %q needs offset and size", key)
		}
		def.Items[key] = Slot{Offset: *s.Offset, Size: *s.Size}
	}
	return def, nil
}

func decodeRecipeBase(raw rawRecipe) (recipeBase, error) {
	def, err := decodeRecipeDef(raw.rawRecipeDef)
	if err != nil {
		return recipeBase{}, err
	}
	re, err := compilePattern(raw.RecipePattern)
	if err != nil {
		return recipeBase{}, err
	}
	return recipeBase{RecipeDef: def, pattern: re}, nil
}

func decodeRecipeAny(b json.RawMessage) (*RecipeAnyItem, error) {
	var raw rawRecipeAny
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, err
	}
	re, err := compilePattern(raw.RecipePattern)
	if err != nil {
		return nil, fmt.Errorf("recipe_any: %w", err)
	}
	item := &RecipeAnyItem{Offset: raw.Offset, pattern: re}
	nested := []struct {
		name string
		raw  *rawRecipeDef
		dst  **RecipeDef
	}{
		{"recipe_shaped", raw.Shaped, &item.Shaped},
		{"recipe_furnace", raw.Furnace, &item.Furnace},
		{"recipe_brewing", raw.Brewing, &item.Brewing},
	}
	for _, n := range nested {
		if n.raw == nil {
			continue
		}
		def, err := decodeRecipeDef(*n.raw)
		if err != nil {
			return nil, fmt.Errorf("recipe_any.%s: %w", n.name, err)
		}
		*n.dst = &def
	}
	if item.Shaped == nil && item.Furnace == nil && item.Brewing == nil {
		return nil, fmt.Errorf("recipe_any: no nested recipe definition")
	}
	return item, nil
}

// compilePattern compiles recipe_pattern; an absent pattern accepts every
// identifier.
func compilePattern(p *string) (*regexp.Regexp, error) {
	src := ".*"
	if p != nil {
		src = *p
	}
	re, err := FullMatch(src)
	if err != nil {
		return nil, fmt.Errorf("invalid recipe_pattern %q: %w", src, err)
	}
	return re, nil
}

func decodeScope(raw map[string]any) (map[string]string, error) {
	scope := make(map[string]string, len(raw))
	for k, v := range raw {
		switch val := v.(type) {
		case string:
			scope[k] = val
		case []any:
			lines := make([]string, 0, len(val))
			for _, l := range val {
				s, ok := l.(string)
				if !ok {
					return nil, fmt.Errorf("scope %q: list elements must be strings", k)
				}
				lines = append(lines, s)
			}
			scope[k] = strings.Join(lines, "\n")
		case float64, bool:
			scope[k] = fmt.Sprint(val)
		default:
			return nil, fmt.Errorf("scope %q: unsupported value %T", k, v)
		}
	}
	return scope, nil
}

func orDefault(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}
