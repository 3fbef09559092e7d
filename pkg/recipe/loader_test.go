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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rigtool/recipe-image-generator/pkg/errors"
)

const shapedDoc = `{
	"format_version": "1.12",
	// torch recipe
	"minecraft:recipe_shaped": {
		"description": {"identifier": "example:torch"},
		"pattern": ["c", "s"],
		"key": {
			"c": {"item": "minecraft:coal"},
			"s": "stick"
		},
		"result": {"item": "torch", "count": 4},
	}
}`

func TestParseShaped(t *testing.T) {
	r, err := Parse([]byte(shapedDoc))
	require.Error(t, err, "comments must be stripped before parsing")
	assert.Nil(t, r)

	path := writeFile(t, t.TempDir(), "torch.json", shapedDoc)
	r, err = LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "example:torch", r.ID)
	assert.Equal(t, KindShaped, r.Kind)
	assert.Equal(t, path, r.Source)
	assert.Equal(t, NewIdentity("minecraft:coal", 0), r.Slots[SlotKey(0, 0)].Identity)
	assert.Equal(t, NewIdentity("minecraft:stick", 0), r.Slots[SlotKey(0, 1)].Identity)
	assert.Equal(t, NewIdentity("minecraft:torch", 0), r.Slots[SlotResult].Identity)
	assert.Equal(t, 4, r.Slots[SlotResult].Count)
	assert.Len(t, r.Slots, 3)
	assert.True(t, r.IsCrafting())
}

func TestParseShapedGridPositions(t *testing.T) {
	r, err := Parse([]byte(`{"minecraft:recipe_shaped": {
		"description": {"identifier": "x:stairs"},
		"pattern": ["#  ", "## ", "###"],
		"key": {"#": "planks:2"},
		"result": "oak_stairs"
	}}`))
	require.NoError(t, err)

	want := []string{"0,0", "0,1", "1,1", "0,2", "1,2", "2,2"}
	for _, k := range want {
		ref, ok := r.Slot(k)
		require.True(t, ok, "slot %s", k)
		assert.Equal(t, NewIdentity("minecraft:planks", 2), ref.Identity)
	}
	_, ok := r.Slot("2,0")
	assert.False(t, ok)
}

func TestParseShapeless(t *testing.T) {
	r, err := Parse([]byte(`{"minecraft:recipe_shapeless": {
		"description": {"identifier": "x:dye"},
		"ingredients": [
			"bone_meal",
			{"item": "minecraft:dye", "data": 1, "count": 2}
		],
		"result": [{"item": "dye", "data": "9"}, {"item": "extra"}]
	}}`))
	require.NoError(t, err)

	assert.Equal(t, KindShapeless, r.Kind)
	assert.Equal(t, NewIdentity("minecraft:bone_meal", 0), r.Slots["0,0"].Identity)
	assert.Equal(t, NewIdentity("minecraft:dye", 1), r.Slots["1,0"].Identity)
	assert.Equal(t, NewIdentity("minecraft:dye", 1), r.Slots["2,0"].Identity)
	assert.Equal(t, NewIdentity("minecraft:dye", 9), r.Slots[SlotResult].Identity)
	_, ok := r.Slot("0,1")
	assert.False(t, ok)
}

func TestParseShapelessCounts(t *testing.T) {
	tests := []struct {
		name        string
		ingredients string
		wantSlots   int
		wantErr     bool
	}{
		{"exactly nine", `[{"item": "stone", "count": 8}, "dirt"]`, 9, false},
		{"too many", `[{"item": "stone", "count": 10}]`, 0, true},
		{"running total too many", `[{"item": "stone", "count": 5}, {"item": "dirt", "count": 5}]`, 0, true},
		{"huge count", `[{"item": "stone", "count": 9223372036854775807}]`, 0, true},
		{"zero count", `[{"item": "stone", "count": 0}]`, 0, true},
		{"negative count", `[{"item": "stone", "count": -3}]`, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := Parse([]byte(`{"minecraft:recipe_shapeless": {
				"description": {"identifier": "x:many"},
				"ingredients": ` + tt.ingredients + `,
				"result": "stone"
			}}`))
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidRecipe))
				return
			}
			require.NoError(t, err)
			assert.Len(t, r.Slots, tt.wantSlots+1, "grid slots plus the result")
		})
	}
}

func TestParseFurnaceAndBrewing(t *testing.T) {
	furnace, err := Parse([]byte(`{"minecraft:recipe_furnace": {
		"description": {"identifier": "x:glass"},
		"input": "sand", "output": "glass"
	}}`))
	require.NoError(t, err)
	assert.Equal(t, KindFurnace, furnace.Kind)
	assert.Equal(t, "minecraft:sand", furnace.Slots[SlotInput].Item)
	assert.Equal(t, "minecraft:glass", furnace.Slots[SlotOutput].Item)

	brewing, err := Parse([]byte(`{"minecraft:recipe_brewing_mix": {
		"description": {"identifier": "x:potion"},
		"input": "minecraft:potion_type:water",
		"reagent": "nether_wart",
		"output": "minecraft:potion_type:awkward"
	}}`))
	require.NoError(t, err)
	assert.Equal(t, KindBrewing, brewing.Kind)
	assert.Len(t, brewing.Slots, 3)
	assert.Equal(t, "minecraft:nether_wart", brewing.Slots[SlotReagent].Item)
}

func TestParseItemForms(t *testing.T) {
	tests := []struct {
		name string
		item string
		want Identity
	}{
		{"bare name", `"stick"`, NewIdentity("minecraft:stick", 0)},
		{"namespaced", `"example:gem"`, NewIdentity("example:gem", 0)},
		{"name with data", `"wool:14"`, NewIdentity("minecraft:wool", 14)},
		{"object with data", `{"item": "wool", "data": 3}`, NewIdentity("minecraft:wool", 3)},
		{"object with string data", `{"item": "wool", "data": "5"}`, NewIdentity("minecraft:wool", 5)},
		{"spawn egg suffix", `"pig_spawn_egg"`, SpawnEgg("minecraft:pig")},
		{"namespaced spawn egg", `{"item": "example:ghost_spawn_egg"}`, SpawnEgg("example:ghost")},
		{"actor query", `{"item": "spawn_egg", "data": "query.get_actor_info_id('minecraft:cow')"}`, SpawnEgg("minecraft:cow")},
		{"short actor query", `{"item": "minecraft:spawn_egg", "data": "q.get_actor_info_id('minecraft:cow')"}`, SpawnEgg("minecraft:cow")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := Parse([]byte(`{"minecraft:recipe_furnace": {
				"description": {"identifier": "x:t"},
				"input": ` + tt.item + `, "output": "stone"}}`))
			require.NoError(t, err)
			assert.Equal(t, tt.want, r.Slots[SlotInput].Identity)
		})
	}
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"malformed", `{`},
		{"unknown type", `{"minecraft:recipe_smithing": {}}`},
		{"missing identifier", `{"minecraft:recipe_furnace": {"input": "a", "output": "b"}}`},
		{"missing output", `{"minecraft:recipe_furnace": {"description": {"identifier": "x:y"}, "input": "a"}}`},
		{"pattern too tall", `{"minecraft:recipe_shaped": {"description": {"identifier": "x:y"},
			"pattern": ["a","a","a","a"], "key": {"a": "stone"}, "result": "stone"}}`},
		{"pattern too wide", `{"minecraft:recipe_shaped": {"description": {"identifier": "x:y"},
			"pattern": ["aaaa"], "key": {"a": "stone"}, "result": "stone"}}`},
		{"undefined key", `{"minecraft:recipe_shaped": {"description": {"identifier": "x:y"},
			"pattern": ["ab"], "key": {"a": "stone"}, "result": "stone"}}`},
		{"empty result list", `{"minecraft:recipe_shaped": {"description": {"identifier": "x:y"},
			"pattern": ["a"], "key": {"a": "stone"}, "result": []}}`},
		{"ambiguous data", `{"minecraft:recipe_furnace": {"description": {"identifier": "x:y"},
			"input": {"item": "wool:2", "data": 3}, "output": "b"}}`},
		{"actor query on non egg", `{"minecraft:recipe_furnace": {"description": {"identifier": "x:y"},
			"input": {"item": "stone", "data": "q.get_actor_info_id('minecraft:cow')"}, "output": "b"}}`},
		{"bad data", `{"minecraft:recipe_furnace": {"description": {"identifier": "x:y"},
			"input": {"item": "stone", "data": "many"}, "output": "b"}}`},
		{"item not a string", `{"minecraft:recipe_furnace": {"description": {"identifier": "x:y"},
			"input": {"item": 5}, "output": "b"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			require.Error(t, err)
			var ire *InvalidRecipeError
			assert.True(t, stderrors.As(err, &ire))
		})
	}
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b/torch.json", shapedDoc)
	writeFile(t, dir, "a/glass.json", `{"minecraft:recipe_furnace": {
		"description": {"identifier": "x:glass"}, "input": "sand", "output": "glass"}}`)
	writeFile(t, dir, "c/bad.json", `{"minecraft:recipe_smithing": {}}`)
	writeFile(t, dir, "notes.txt", "ignored")

	recipes, errs := LoadDir(dir)
	require.Len(t, recipes, 2)
	assert.Equal(t, "x:glass", recipes[0].ID)
	assert.Equal(t, "example:torch", recipes[1].ID)

	require.Len(t, errs, 1)
	var ire *InvalidRecipeError
	require.True(t, stderrors.As(errs[0], &ire))
	assert.Contains(t, ire.Path, "bad.json")
}

func TestLoadDirMissing(t *testing.T) {
	recipes, errs := LoadDir(filepath.Join(t.TempDir(), "nope"))
	assert.Empty(t, recipes)
	assert.Empty(t, errs)
}

func TestIdentityHelpers(t *testing.T) {
	assert.Equal(t, "minecraft:stick", NewIdentity("minecraft:stick", 0).String())
	assert.Equal(t, "minecraft:wool:3", NewIdentity("minecraft:wool", 3).String())
	assert.True(t, SpawnEgg("pig").IsSpawnEgg())
	assert.Equal(t, "minecraft:pig", SpawnEgg("pig").Variant)

	ns, name := SplitID("example:torch")
	assert.Equal(t, "example", ns)
	assert.Equal(t, "torch", name)
	ns, name = SplitID("torch")
	assert.Equal(t, "minecraft", ns)
	assert.Equal(t, "torch", name)
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}
