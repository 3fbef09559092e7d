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
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rigtool/recipe-image-generator/pkg/defaults"
	"github.com/rigtool/recipe-image-generator/pkg/store"
)

// Symbolic path prefixes.
const (
	PrefixRP          = defaults.ResourcePackDir + "/"
	PrefixBlockImages = defaults.BlockImagesDir + "/"
)

// extensions tried, in order, when resolving a path without one
var extensions = []string{".png", ".tga"}

// Root is a directory symbolic paths with Prefix resolve against. Answers
// chosen below Dir are stored in Target.
type Root struct {
	Prefix string
	Dir    string
	Target store.Target
}

// Roots is an ordered list of roots; earlier roots win.
type Roots []Root

// DefaultRoots returns the roots of a project: its resource pack, the
// database resource pack, the project block images and the database block
// images.
func DefaultRoots(resourcePack, projectDir, databaseDir string) Roots {
	return Roots{
		{Prefix: PrefixRP, Dir: resourcePack, Target: store.Project},
		{Prefix: PrefixRP, Dir: filepath.Join(databaseDir, defaults.ResourcePackDir), Target: store.Database},
		{Prefix: PrefixBlockImages, Dir: filepath.Join(projectDir, defaults.BlockImagesDir), Target: store.Project},
		{Prefix: PrefixBlockImages, Dir: filepath.Join(databaseDir, defaults.BlockImagesDir), Target: store.Database},
	}
}

// Resolve returns the file a symbolic path points at. Paths without a known
// prefix are used as they are. When the file has no .png or .tga extension,
// both are tried.
func (r Roots) Resolve(symbolic string) (string, error) {
	var candidates []string
	for _, root := range r {
		if rest, ok := strings.CutPrefix(symbolic, root.Prefix); ok && root.Dir != "" {
			candidates = append(candidates, filepath.Join(root.Dir, filepath.FromSlash(rest)))
		}
	}
	if len(candidates) == 0 {
		candidates = []string{filepath.FromSlash(symbolic)}
	}

	for _, c := range candidates {
		if p, ok := withExtension(c); ok {
			return p, nil
		}
	}
	return "", fmt.Errorf("%s not found in %s: %w", symbolic, strings.Join(candidates, ", "), fs.ErrNotExist)
}

func withExtension(base string) (string, bool) {
	ext := strings.ToLower(filepath.Ext(base))
	for _, e := range extensions {
		if ext == e {
			if isFile(base) {
				return base, true
			}
			base = strings.TrimSuffix(base, filepath.Ext(base))
			break
		}
	}
	for _, e := range extensions {
		if isFile(base + e) {
			return base + e, true
		}
	}
	return "", false
}

func isFile(p string) bool {
	info, err := os.Stat(p)
	return err == nil && !info.IsDir()
}

// Symbolize converts a file path to a symbolic path relative to the first
// root containing it, without extension, and returns the data map the
// answer belongs to.
func (r Roots) Symbolize(path string) (string, store.Target, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", 0, err
	}
	for _, root := range r {
		if root.Dir == "" {
			continue
		}
		dir, err := filepath.Abs(root.Dir)
		if err != nil {
			continue
		}
		rel, err := filepath.Rel(dir, abs)
		if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			continue
		}
		rel = strings.TrimSuffix(rel, filepath.Ext(rel))
		return root.Prefix + filepath.ToSlash(rel), root.Target, nil
	}
	return "", 0, fmt.Errorf("%s is not inside a resource pack or block-images directory", path)
}
