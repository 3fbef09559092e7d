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
	"context"
	stderrors "errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"golang.org/x/sync/errgroup"

	"github.com/rigtool/recipe-image-generator/pkg/recipe"
	"github.com/rigtool/recipe-image-generator/pkg/serializer"
	"github.com/rigtool/recipe-image-generator/pkg/version"
)

// SpawnEggTexture names the item texture of a spawn egg.
type SpawnEggTexture struct {
	Texture string
	Index   int
}

// Pack is the texture data read from a resource pack and, optionally, its
// behavior pack.
type Pack struct {
	// Textures maps icon names from item_texture.json to variant to
	// symbolic path. The list index of a texture is its variant.
	Textures Map
	// Icons maps item identifiers to icon names.
	Icons map[string]string
	// SpawnEggs maps actor identifiers to their spawn egg texture.
	SpawnEggs map[string]SpawnEggTexture
}

// EmptyPack returns a pack without data.
func EmptyPack() *Pack {
	return &Pack{Textures: Map{}, Icons: map[string]string{}, SpawnEggs: map[string]SpawnEggTexture{}}
}

// LoadPack reads the texture data of a resource pack directory and a
// behavior pack directory. Either may be empty. Missing files are ignored and
// malformed files are skipped with a warning. The files are parsed in
// parallel; icons from behavior pack items win over resource pack items.
func LoadPack(ctx context.Context, rp, bp string) (*Pack, error) {
	start := time.Now()
	defer func() {
		packLoadDuration.Observe(time.Since(start).Seconds())
	}()

	var (
		textures Map
		rpIcons  map[string]string
		bpIcons  map[string]string
		eggs     map[string]SpawnEggTexture
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if rp == "" {
			return nil
		}
		var err error
		textures, err = loadItemTextures(rp)
		return err
	})
	g.Go(func() error {
		if rp == "" {
			return nil
		}
		var err error
		rpIcons, err = loadIcons(ctx, filepath.Join(rp, "items"), rpIcon)
		return err
	})
	g.Go(func() error {
		if bp == "" {
			return nil
		}
		var err error
		bpIcons, err = loadIcons(ctx, filepath.Join(bp, "items"), bpIcon)
		return err
	})
	g.Go(func() error {
		if rp == "" {
			return nil
		}
		var err error
		eggs, err = loadSpawnEggs(ctx, filepath.Join(rp, "entity"))
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	p := EmptyPack()
	p.Textures.Merge(textures)
	for k, v := range rpIcons {
		p.Icons[k] = v
	}
	for k, v := range bpIcons {
		p.Icons[k] = v
	}
	for k, v := range eggs {
		p.SpawnEggs[k] = v
	}

	slog.Debug("pack loaded",
		slog.String("resource_pack", rp),
		slog.String("behavior_pack", bp),
		slog.Int("textures", len(p.Textures)),
		slog.Int("icons", len(p.Icons)),
		slog.Int("spawn_eggs", len(p.SpawnEggs)))
	return p, nil
}

func loadItemTextures(rp string) (Map, error) {
	path := filepath.Join(rp, "textures", "item_texture.json")
	out := Map{}
	doc, ok, err := readJSON(path)
	if err != nil || !ok {
		return out, err
	}

	data := doc.Get("texture_data")
	if !data.IsObject() {
		slog.Warn("texture_data is not an object, skipped", "path", path)
		return out, nil
	}
	data.ForEach(func(name, entry gjson.Result) bool {
		textures := entry.Get("textures")
		switch {
		case textures.Type == gjson.String:
			out.Set(name.String(), "0", PrefixRP+textures.String())
		case textures.IsArray():
			for i, t := range textures.Array() {
				if t.Type == gjson.String {
					out.Set(name.String(), strconv.Itoa(i), PrefixRP+t.String())
				}
			}
		default:
			slog.Warn("texture is not a string or a list of strings, skipped",
				"texture", name.String(), "path", path)
		}
		return true
	})
	return out, nil
}

// iconReader extracts the item identifier and icon name from an item file.
type iconReader func(item gjson.Result, doc gjson.Result) (id, icon string, ok bool)

func rpIcon(item, _ gjson.Result) (string, string, bool) {
	id := item.Get("description.identifier").String()
	icon := item.Get("components").Get(gjson.Escape("minecraft:icon"))
	if id == "" || icon.Type != gjson.String {
		return "", "", false
	}
	return id, icon.String(), true
}

func bpIcon(item, doc gjson.Result) (string, string, bool) {
	id := item.Get("description.identifier").String()
	if id == "" {
		return "", "", false
	}
	fv := doc.Get("format_version")
	if !fv.Exists() {
		fv = item.Get("format_version")
	}
	if !version.AtLeast(fv.String(), version.ItemIconComponent) {
		return "", "", false
	}
	icon := item.Get("components").Get(gjson.Escape("minecraft:icon"))
	for _, path := range []string{"texture", "textures.default"} {
		if t := icon.Get(path); t.Type == gjson.String {
			return id, t.String(), true
		}
	}
	if icon.Type == gjson.String {
		return id, icon.String(), true
	}
	return "", "", false
}

func loadIcons(ctx context.Context, dir string, read iconReader) (map[string]string, error) {
	out := map[string]string{}
	err := walkJSON(ctx, dir, func(path string, doc gjson.Result) {
		item := doc.Get(gjson.Escape("minecraft:item"))
		if !item.Exists() {
			return
		}
		if id, icon, ok := read(item, doc); ok {
			out[recipe.WithNamespace(id)] = icon
		}
	})
	return out, err
}

func loadSpawnEggs(ctx context.Context, dir string) (map[string]SpawnEggTexture, error) {
	out := map[string]SpawnEggTexture{}
	err := walkJSON(ctx, dir, func(path string, doc gjson.Result) {
		desc := doc.Get(gjson.Escape("minecraft:client_entity") + ".description")
		id := desc.Get("identifier").String()
		tex := desc.Get("spawn_egg.texture")
		if id == "" || tex.Type != gjson.String {
			return
		}
		out[recipe.WithNamespace(id)] = SpawnEggTexture{
			Texture: tex.String(),
			Index:   int(desc.Get("spawn_egg.texture_index").Int()),
		}
	})
	return out, err
}

// walkJSON calls fn for every valid JSON file below dir in lexical order.
func walkJSON(ctx context.Context, dir string, fn func(path string, doc gjson.Result)) error {
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
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to walk %s: %w", dir, err)
	}
	sort.Strings(paths)

	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return err
		}
		doc, ok, err := readJSON(p)
		if err != nil {
			slog.Warn("unreadable file skipped", "path", p, "error", err)
			continue
		}
		if !ok {
			continue
		}
		fn(p, doc)
	}
	return nil
}

// readJSON reads a JSONC file. A missing file returns ok == false; a
// malformed one is logged and also returns ok == false.
func readJSON(path string) (gjson.Result, bool, error) {
	raw, err := serializer.ReadJSONC(path)
	if err != nil {
		switch {
		case stderrors.Is(err, fs.ErrNotExist):
			return gjson.Result{}, false, nil
		case stderrors.Is(err, serializer.ErrMalformedJSONC):
			slog.Warn("malformed JSON skipped", "path", path, "error", err)
			return gjson.Result{}, false, nil
		}
		return gjson.Result{}, false, err
	}
	return gjson.ParseBytes(raw), true, nil
}
