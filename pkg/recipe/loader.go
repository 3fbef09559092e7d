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
	stderrors "errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/tidwall/gjson"

	"github.com/rigtool/recipe-image-generator/pkg/serializer"
)

const maxGridSlots = 9

var (
	actorQueryRe = regexp.MustCompile(`^(?:query|q)\.get_actor_info_id\('([a-zA-Z0-9_]+:[a-zA-Z0-9_]+)'\)$`)
	spawnEggRe   = regexp.MustCompile(`^((?:[a-zA-Z0-9_]+:)?[a-zA-Z0-9_]+)_spawn_egg$`)
	itemDataRe   = regexp.MustCompile(`^((?:[a-zA-Z0-9_]+:)?[a-zA-Z0-9_]+):([1-9][0-9]*)$`)
)

// recipe file root keys, in detection order
var fileKinds = []struct {
	key  string
	kind Kind
}{
	{"minecraft:recipe_shaped", KindShaped},
	{"minecraft:recipe_shapeless", KindShapeless},
	{"minecraft:recipe_furnace", KindFurnace},
	{"minecraft:recipe_brewing_mix", KindBrewing},
}

// LoadDir loads every *.json recipe below dir in lexical path order.
// Files that fail to load are returned as errors and skipped; a missing
// directory yields no recipes.
func LoadDir(dir string) ([]*Recipe, []error) {
	start := time.Now()

	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".json") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil && !stderrors.Is(err, fs.ErrNotExist) {
		return nil, []error{fmt.Errorf("failed to walk %s: %w", dir, err)}
	}
	sort.Strings(paths)

	var (
		recipes []*Recipe
		errs    []error
	)
	for _, p := range paths {
		r, err := LoadFile(p)
		if err != nil {
			recipesInvalid.Inc()
			errs = append(errs, err)
			continue
		}
		recipesLoaded.WithLabelValues(string(r.Kind)).Inc()
		recipes = append(recipes, r)
	}

	recipeLoadDuration.Observe(time.Since(start).Seconds())
	slog.Debug("recipes loaded", "dir", dir, "count", len(recipes), "invalid", len(errs))
	return recipes, errs
}

// LoadFile loads a single recipe file.
func LoadFile(path string) (*Recipe, error) {
	raw, err := serializer.ReadJSONC(path)
	if err != nil {
		return nil, &InvalidRecipeError{Path: path, Reason: err.Error()}
	}
	r, err := Parse(raw)
	if err != nil {
		if ire, ok := err.(*InvalidRecipeError); ok {
			ire.Path = path
		}
		return nil, err
	}
	r.Source = path
	return r, nil
}

// Parse decodes a recipe document.
func Parse(raw []byte) (*Recipe, error) {
	if !gjson.ValidBytes(raw) {
		return nil, invalid("malformed JSON")
	}
	doc := gjson.ParseBytes(raw)

	for _, fk := range fileKinds {
		body := doc.Get(gjson.Escape(fk.key))
		if !body.Exists() {
			continue
		}

		id := body.Get("description.identifier")
		if id.Type != gjson.String {
			return nil, invalid("recipe identifier is not a string")
		}
		r := &Recipe{
			ID:    id.String(),
			Kind:  fk.kind,
			Slots: make(map[string]ItemRef),
		}

		var err error
		switch fk.kind {
		case KindShaped:
			err = parseShaped(body, r)
		case KindShapeless:
			err = parseShapeless(body, r)
		case KindFurnace:
			err = parseSlots(body, r, SlotInput, SlotOutput)
		case KindBrewing:
			err = parseSlots(body, r, SlotInput, SlotReagent, SlotOutput)
		}
		if err != nil {
			return nil, err
		}
		return r, nil
	}

	return nil, invalid("unknown recipe type (supported: minecraft:recipe_shaped, " +
		"minecraft:recipe_shapeless, minecraft:recipe_furnace, minecraft:recipe_brewing_mix)")
}

func parseShaped(body gjson.Result, r *Recipe) error {
	pattern := body.Get("pattern")
	if !pattern.IsArray() {
		return invalid("pattern is not a list")
	}
	rows := pattern.Array()
	if len(rows) > 3 {
		return invalid("pattern is not 3x3")
	}

	keys := body.Get("key")
	if !keys.IsObject() {
		return invalid("'key' property is not an object")
	}
	refs := make(map[string]ItemRef)
	var keyErr error
	keys.ForEach(func(k, v gjson.Result) bool {
		ref, err := parseItem(v)
		if err != nil {
			keyErr = err
			return false
		}
		refs[k.String()] = ref
		return true
	})
	if keyErr != nil {
		return keyErr
	}

	for row, line := range rows {
		if line.Type != gjson.String {
			return invalid("pattern row is not a string")
		}
		s := line.String()
		if utf8.RuneCountInString(s) > 3 {
			return invalid("pattern is not 3x3")
		}
		col := 0
		for _, c := range s {
			if c != ' ' {
				ref, ok := refs[string(c)]
				if !ok {
					return invalid(fmt.Sprintf("pattern %q uses an undefined key %q", s, c))
				}
				r.Slots[SlotKey(col, row)] = ref
			}
			col++
		}
	}

	return parseResult(body, r)
}

func parseShapeless(body gjson.Result, r *Recipe) error {
	ingredients := body.Get("ingredients")
	if !ingredients.IsArray() {
		return invalid("'ingredients' property is not a list")
	}

	var grid []ItemRef
	for _, ing := range ingredients.Array() {
		if ing.Type != gjson.String && !ing.IsObject() {
			return invalid("'ingredients' must be a list of strings or objects")
		}
		ref, err := parseItem(ing)
		if err != nil {
			return err
		}
		count := int64(1)
		if c := ing.Get("count"); ing.IsObject() && c.Exists() {
			count = c.Int()
		}
		if count < 1 {
			return invalid(fmt.Sprintf("ingredient count must be at least 1, got %s",
				ing.Get("count").Raw))
		}
		if int64(len(grid))+count > maxGridSlots {
			return invalid("shapeless recipes can have at most 9 ingredients, " +
				"counting every unit of 'count'")
		}
		for range count {
			grid = append(grid, ItemRef{Identity: ref.Identity})
		}
	}
	for i, ref := range grid {
		r.Slots[SlotKey(i%3, i/3)] = ref
	}

	return parseResult(body, r)
}

func parseResult(body gjson.Result, r *Recipe) error {
	result := body.Get("result")
	if !result.Exists() {
		return invalid("crafting recipe does not define the result item")
	}
	if result.IsArray() {
		items := result.Array()
		if len(items) == 0 {
			return invalid("crafting recipe does not define the result item")
		}
		if len(items) > 1 {
			slog.Warn("recipe defines multiple results, only the first one is used",
				"recipe", r.ID)
		}
		result = items[0]
	}
	ref, err := parseItem(result)
	if err != nil {
		return err
	}
	r.Slots[SlotResult] = ref
	return nil
}

func parseSlots(body gjson.Result, r *Recipe, slots ...string) error {
	for _, slot := range slots {
		v := body.Get(slot)
		if !v.Exists() {
			return invalid(fmt.Sprintf("'%s' property is missing", slot))
		}
		ref, err := parseItem(v)
		if err != nil {
			return err
		}
		r.Slots[slot] = ref
	}
	return nil
}

// parseItem reads an item reference in string or object form.
func parseItem(v gjson.Result) (ItemRef, error) {
	var (
		item    string
		data    gjson.Result
		hasData bool
	)
	switch {
	case v.Type == gjson.String:
		item = v.String()
	case v.IsObject():
		name := v.Get("item")
		if name.Type != gjson.String {
			return ItemRef{}, invalid("item reference property 'item' is not a string")
		}
		item = name.String()
		data = v.Get("data")
		hasData = data.Exists()
	default:
		return ItemRef{}, invalid("item reference is not an object or a string")
	}

	ref := ItemRef{}
	if c := v.Get("count"); v.IsObject() && c.Exists() {
		ref.Count = int(c.Int())
	}

	if m := spawnEggRe.FindStringSubmatch(item); m != nil {
		ref.Identity = SpawnEgg(m[1])
		return ref, nil
	}

	if m := itemDataRe.FindStringSubmatch(item); m != nil {
		if hasData {
			return ItemRef{}, invalid("item reference is ambiguous, the data value " +
				"is given both in the item name and the data property")
		}
		n, _ := strconv.Atoi(m[2])
		ref.Identity = NewIdentity(WithNamespace(m[1]), n)
		return ref, nil
	}

	item = WithNamespace(item)
	if !hasData {
		ref.Identity = NewIdentity(item, 0)
		return ref, nil
	}

	switch data.Type {
	case gjson.Number:
		ref.Identity = NewIdentity(item, int(data.Int()))
		return ref, nil
	case gjson.String:
		if m := actorQueryRe.FindStringSubmatch(data.String()); m != nil {
			if item != SpawnEggItem {
				return ItemRef{}, invalid(fmt.Sprintf(
					"actor id queries are only supported for %s, not %s", SpawnEggItem, item))
			}
			ref.Identity = SpawnEgg(m[1])
			return ref, nil
		}
		if n, err := strconv.Atoi(strings.TrimSpace(data.String())); err == nil {
			ref.Identity = NewIdentity(item, n)
			return ref, nil
		}
	}
	return ItemRef{}, invalid("item reference property 'data' is not a number or an actor id query")
}

func invalid(reason string) error {
	return &InvalidRecipeError{Reason: reason}
}
