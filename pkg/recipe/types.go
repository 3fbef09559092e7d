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
	"fmt"
	"strconv"
	"strings"

	"github.com/rigtool/recipe-image-generator/pkg/defaults"
	"github.com/rigtool/recipe-image-generator/pkg/errors"
)

// Kind is the type of a recipe.
type Kind string

const (
	KindShaped    Kind = "shaped"
	KindShapeless Kind = "shapeless"
	KindFurnace   Kind = "furnace"
	KindBrewing   Kind = "brewing"
)

// Slot keys used by furnace and brewing recipes, and by crafting results.
const (
	SlotInput   = "input"
	SlotOutput  = "output"
	SlotReagent = "reagent"
	SlotResult  = "result"
)

// SpawnEggItem is the item every spawn egg resolves to. The spawned
// actor becomes the variant.
const SpawnEggItem = "minecraft:spawn_egg"

// SlotKey returns the crafting grid key for a column and row, both zero based.
func SlotKey(col, row int) string {
	return strconv.Itoa(col) + "," + strconv.Itoa(row)
}

// Identity identifies an item for texture lookups.
type Identity struct {
	// Item is a namespaced item name, e.g. "minecraft:stick".
	Item string `json:"item" yaml:"item"`
	// Variant is the data value ("0" for none) or, for spawn eggs, the
	// namespaced actor identifier.
	Variant string `json:"variant" yaml:"variant"`
}

// NewIdentity returns the identity of an item with a numeric data value.
func NewIdentity(item string, data int) Identity {
	return Identity{Item: item, Variant: strconv.Itoa(data)}
}

// SpawnEgg returns the identity of the spawn egg of an actor.
func SpawnEgg(actor string) Identity {
	return Identity{Item: SpawnEggItem, Variant: WithNamespace(actor)}
}

// IsSpawnEgg reports whether the identity refers to a spawn egg.
func (id Identity) IsSpawnEgg() bool {
	return id.Item == SpawnEggItem
}

func (id Identity) String() string {
	if id.Variant == "" || id.Variant == "0" {
		return id.Item
	}
	return id.Item + ":" + id.Variant
}

// WithNamespace prefixes name with the default namespace when it has none.
func WithNamespace(name string) string {
	if strings.Contains(name, ":") {
		return name
	}
	return defaults.DefaultNamespace + ":" + name
}

// SplitID splits a namespaced identifier. Identifiers without a namespace
// belong to the default one.
func SplitID(id string) (namespace, name string) {
	if ns, n, ok := strings.Cut(id, ":"); ok {
		return ns, n
	}
	return defaults.DefaultNamespace, id
}

// ItemRef is an item placed in a recipe slot.
type ItemRef struct {
	Identity
	Count int `json:"count,omitempty" yaml:"count,omitempty"`
}

// Recipe is an immutable recipe loaded from a behavior pack.
type Recipe struct {
	ID     string             `json:"id" yaml:"id"`
	Kind   Kind               `json:"kind" yaml:"kind"`
	Slots  map[string]ItemRef `json:"slots" yaml:"slots"`
	Source string             `json:"source,omitempty" yaml:"source,omitempty"`
}

// Slot returns the item in a slot.
func (r *Recipe) Slot(key string) (ItemRef, bool) {
	ref, ok := r.Slots[key]
	return ref, ok
}

// IsCrafting reports whether the recipe uses the crafting grid.
func (r *Recipe) IsCrafting() bool {
	return r.Kind == KindShaped || r.Kind == KindShapeless
}

func (r *Recipe) String() string {
	return fmt.Sprintf("%s (%s)", r.ID, r.Kind)
}

// InvalidRecipeError is returned for recipe files that cannot be used.
type InvalidRecipeError struct {
	Path   string
	Reason string
}

func (e *InvalidRecipeError) Error() string {
	if e.Path == "" {
		return "invalid recipe: " + e.Reason
	}
	return fmt.Sprintf("invalid recipe %s: %s", e.Path, e.Reason)
}

// Code implements errors.Coder.
func (e *InvalidRecipeError) Code() errors.ErrorCode {
	return errors.ErrCodeInvalidRecipe
}
