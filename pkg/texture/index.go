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

package texture

import (
	"strconv"
	"sync"

	"github.com/rigtool/recipe-image-generator/pkg/recipe"
	"github.com/rigtool/recipe-image-generator/pkg/store"
)

// Map maps a name to variant to symbolic texture path.
type Map = store.Entries

// Layer is the source of an index entry.
type Layer int

const (
	// LayerDefault holds the textures of the database resource pack.
	LayerDefault Layer = iota
	// LayerCustom holds the textures of the project resource and behavior packs.
	LayerCustom
	// LayerLearned holds answers given to earlier prompts.
	LayerLearned
)

func (l Layer) String() string {
	switch l {
	case LayerDefault:
		return "default"
	case LayerCustom:
		return "custom"
	case LayerLearned:
		return "learned"
	default:
		return "unknown"
	}
}

// Entry is the result of an index lookup.
type Entry struct {
	Path  string
	Layer Layer
}

// Index maps item identities to symbolic texture paths. Custom pack
// entries beat default pack entries; learned entries answer after the pack
// entry, which matters when the pack file does not exist.
type Index struct {
	mu      sync.RWMutex
	def     *Pack
	custom  *Pack
	learned Map
}

// NewIndex builds an index over the given layers. Nil layers are empty.
func NewIndex(def, custom *Pack, learned Map) *Index {
	if def == nil {
		def = EmptyPack()
	}
	if custom == nil {
		custom = EmptyPack()
	}
	l := Map{}
	l.Merge(learned)
	return &Index{def: def, custom: custom, learned: l}
}

// Lookup returns the first symbolic path of an identity.
func (x *Index) Lookup(id recipe.Identity) (Entry, bool) {
	c := x.Candidates(id)
	if len(c) == 0 {
		return Entry{}, false
	}
	return c[0], true
}

// Candidates returns the symbolic paths of an identity in the order they
// should be tried: the pack entry, then the learned answer.
func (x *Index) Candidates(id recipe.Identity) []Entry {
	x.mu.RLock()
	defer x.mu.RUnlock()

	var out []Entry
	if e, ok := x.lookupPacks(id); ok {
		out = append(out, e)
	}
	if p, ok := x.learned.Get(id.Item, id.Variant); ok {
		out = append(out, Entry{Path: p, Layer: LayerLearned})
	}
	return out
}

func (x *Index) lookupPacks(id recipe.Identity) (Entry, bool) {
	name, variant := x.iconOf(id)
	if name == "" {
		return Entry{}, false
	}
	if p, ok := x.custom.Textures.Get(name, variant); ok {
		return Entry{Path: p, Layer: LayerCustom}, true
	}
	if p, ok := x.def.Textures.Get(name, variant); ok {
		return Entry{Path: p, Layer: LayerDefault}, true
	}
	return Entry{}, false
}

// iconOf returns the item_texture.json name and variant of an identity.
func (x *Index) iconOf(id recipe.Identity) (string, string) {
	if id.IsSpawnEgg() {
		egg, ok := x.custom.SpawnEggs[id.Variant]
		if !ok {
			egg, ok = x.def.SpawnEggs[id.Variant]
		}
		if !ok {
			return "", ""
		}
		return egg.Texture, strconv.Itoa(egg.Index)
	}
	if icon, ok := x.custom.Icons[id.Item]; ok {
		return icon, id.Variant
	}
	return x.def.Icons[id.Item], id.Variant
}

// Learn records a learned answer. Pack entries still come first in
// Candidates.
func (x *Index) Learn(id recipe.Identity, path string) {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.learned.Set(id.Item, id.Variant, path)
}
