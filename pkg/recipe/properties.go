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
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rigtool/recipe-image-generator/pkg/serializer"
)

// PropertyValue is a string or a list of strings.
type PropertyValue struct {
	Values []string
	IsList bool
}

// String returns the value, joining lists with newlines.
func (v PropertyValue) String() string {
	return strings.Join(v.Values, "\n")
}

// Empty reports whether the value renders as an empty string.
func (v PropertyValue) Empty() bool {
	return len(v.Values) == 0 || v.String() == ""
}

// Text returns a single string property value.
func Text(s string) PropertyValue {
	return PropertyValue{Values: []string{s}}
}

// Lines returns a list property value.
func Lines(lines ...string) PropertyValue {
	return PropertyValue{Values: lines, IsList: true}
}

// UnmarshalJSON accepts strings and lists of strings. Other scalars are
// kept in their JSON text form.
func (v *PropertyValue) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*v = Text(s)
	case len(b) > 0 && b[0] == '[':
		var raw []json.RawMessage
		if err := json.Unmarshal(b, &raw); err != nil {
			return err
		}
		lines := make([]string, 0, len(raw))
		for _, item := range raw {
			var s string
			if err := json.Unmarshal(item, &s); err != nil {
				s = string(bytes.TrimSpace(item))
			}
			lines = append(lines, s)
		}
		*v = Lines(lines...)
	case bytes.Equal(b, []byte("null")):
		*v = PropertyValue{}
	default:
		*v = Text(string(b))
	}
	return nil
}

// MarshalJSON writes lists as arrays and everything else as a string.
func (v PropertyValue) MarshalJSON() ([]byte, error) {
	if v.IsList {
		if v.Values == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.Values)
	}
	return json.Marshal(v.String())
}

// Fields are the named properties of one recipe.
type Fields map[string]PropertyValue

// Properties maps recipe identifiers to their fields.
type Properties map[string]Fields

// Lookup returns the fields of a recipe, or nil.
func (p Properties) Lookup(id string) Fields {
	if p == nil {
		return nil
	}
	return p[id]
}

// LoadProperties reads a recipe properties file. A missing file yields
// empty properties.
func LoadProperties(path string) (Properties, error) {
	props, err := serializer.FromFile[Properties](path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return Properties{}, nil
		}
		return nil, fmt.Errorf("failed to load recipe properties: %w", err)
	}
	if *props == nil {
		return Properties{}, nil
	}
	return *props, nil
}

// Default property fields added for every recipe by UpdateProperties.
var defaultFields = []string{"description", "name"}

// UpdateProperties adds an entry with empty "description" and "name" lists
// for every recipe missing from the file at path, keeping existing values.
// It returns the number of recipes added.
func UpdateProperties(path string, recipes []*Recipe) (int, error) {
	props, err := LoadProperties(path)
	if err != nil {
		return 0, err
	}

	added := 0
	for _, r := range recipes {
		fields, ok := props[r.ID]
		if !ok {
			fields = Fields{}
			props[r.ID] = fields
			added++
		}
		for _, f := range defaultFields {
			if _, ok := fields[f]; !ok {
				fields[f] = Lines()
			}
		}
	}

	if err := serializer.WriteJSONFile(path, props); err != nil {
		return 0, fmt.Errorf("failed to write recipe properties: %w", err)
	}
	return added, nil
}

// DumpMarkdown renders the non-empty properties of every recipe as a
// markdown listing, recipes and fields in sorted order.
func DumpMarkdown(props Properties) string {
	lines := []string{
		"This file is a listing of the variables from the",
		"recipe_properties.json file. It is not meant to be",
		"modified.",
	}

	ids := make([]string, 0, len(props))
	for id := range props {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		fields := props[id]
		names := make([]string, 0, len(fields))
		for name := range fields {
			names = append(names, name)
		}
		sort.Strings(names)

		section := []string{"# " + id}
		valid := false
		for _, name := range names {
			section = append(section, "## "+name)
			v := fields[name]
			if len(v.Values) > 0 {
				section = append(section, v.Values...)
				valid = true
			}
		}
		section = append(section, "")
		if valid {
			lines = append(lines, section...)
		}
	}
	return strings.Join(lines, "\n")
}

// WriteMarkdown writes DumpMarkdown output to path.
func WriteMarkdown(path string, props Properties) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(DumpMarkdown(props)), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
