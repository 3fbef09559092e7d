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

package store

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/rigtool/recipe-image-generator/pkg/serializer"
)

// Entries maps item name to variant to symbolic texture path.
type Entries map[string]map[string]string

// Get returns the path stored for an item variant.
func (e Entries) Get(item, variant string) (string, bool) {
	p, ok := e[item][variant]
	return p, ok
}

// Set stores the path of an item variant.
func (e Entries) Set(item, variant, path string) {
	if e[item] == nil {
		e[item] = map[string]string{}
	}
	e[item][variant] = path
}

// Merge copies every entry of o into e, overwriting existing ones.
func (e Entries) Merge(o Entries) {
	for item, variants := range o {
		for v, p := range variants {
			e.Set(item, v, p)
		}
	}
}

// Clone returns a deep copy.
func (e Entries) Clone() Entries {
	out := make(Entries, len(e))
	out.Merge(e)
	return out
}

// DataMap is a data_map.json file holding learned texture paths.
type DataMap struct {
	mu      sync.RWMutex
	path    string
	entries Entries
}

// LoadDataMap reads a data map. A missing file yields an empty map that is
// created on the first Save.
func LoadDataMap(path string) (*DataMap, error) {
	d := &DataMap{path: path, entries: Entries{}}
	raw, err := serializer.ReadJSONC(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return d, nil
		}
		return nil, err
	}
	if err := json.Unmarshal(raw, &d.entries); err != nil {
		return nil, fmt.Errorf("failed to parse data map %q: %w", path, err)
	}
	if d.entries == nil {
		d.entries = Entries{}
	}
	return d, nil
}

// Path returns the file the map is stored in.
func (d *DataMap) Path() string {
	return d.path
}

// Entries returns a copy of the stored entries.
func (d *DataMap) Entries() Entries {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.entries.Clone()
}

// Set stores a path in memory; call Save to persist it.
func (d *DataMap) Set(item, variant, path string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.entries.Set(item, variant, path)
}

// Save writes the map to its file.
func (d *DataMap) Save() error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.path == "" {
		return fmt.Errorf("data map has no path")
	}
	if err := os.MkdirAll(filepath.Dir(d.path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory of %s: %w", d.path, err)
	}
	return serializer.WriteJSONFile(d.path, d.entries)
}
