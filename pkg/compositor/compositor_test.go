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

package compositor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rigtool/recipe-image-generator/pkg/errors"
	"github.com/rigtool/recipe-image-generator/pkg/header"
	"github.com/rigtool/recipe-image-generator/pkg/recipe"
	"github.com/rigtool/recipe-image-generator/pkg/template"
)

type fakeCanvas struct {
	size   Size
	ops    []any
	saved  string
	closed bool
}

func (c *fakeCanvas) DrawImage(op ImageOp) error {
	c.ops = append(c.ops, op)
	return nil
}

func (c *fakeCanvas) DrawText(op TextOp) error {
	c.ops = append(c.ops, op)
	return nil
}

func (c *fakeCanvas) Save(path string) error {
	c.saved = path
	return nil
}

func (c *fakeCanvas) Close() error {
	c.closed = true
	return nil
}

type fakePainter struct {
	sizes    map[string]Size
	canvases []*fakeCanvas
}

func (p *fakePainter) NewCanvas(size Size) (Canvas, error) {
	c := &fakeCanvas{size: size}
	p.canvases = append(p.canvases, c)
	return c, nil
}

func (p *fakePainter) Measure(path string) (Size, error) {
	if s, ok := p.sizes[filepath.Base(path)]; ok {
		return s, nil
	}
	return Size{}, errors.New(errors.ErrCodeNotFound, "no such image "+path)
}

type fakeTextures map[recipe.Identity]string

func (f fakeTextures) Resolve(_ context.Context, id recipe.Identity, recipeID string) (string, error) {
	if p, ok := f[id]; ok {
		return p, nil
	}
	return "", errors.New(errors.ErrCodeUnresolvedTexture, "no texture for "+id.String()+" in "+recipeID)
}

type fixture struct {
	cfg     Config
	painter *fakePainter
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	root := t.TempDir()
	images := filepath.Join(root, "images")
	fonts := filepath.Join(root, "fonts")
	for _, p := range []string{
		filepath.Join(images, "page.png"),
		filepath.Join(images, "grid.png"),
		filepath.Join(images, "logo.png"),
		filepath.Join(fonts, "mc.ttf"),
	} {
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, nil, 0o600))
	}
	return &fixture{
		cfg: Config{
			Template:  "book",
			ImageDirs: []string{filepath.Join(root, "project-images"), images},
			FontDirs:  []string{fonts},
			OutputDir: filepath.Join(root, "out"),
		},
		painter: &fakePainter{sizes: map[string]Size{
			"page.png": {W: 100, H: 50},
			"grid.png": {W: 80, H: 40},
			"logo.png": {W: 4, H: 2},
		}},
	}
}

func parsePage(t *testing.T, doc string) *template.Page {
	t.Helper()
	b, err := template.Parse("page", []byte(doc))
	require.NoError(t, err)
	return b.Pages[0].Page
}

func bookOf(pages ...template.PageRef) *template.Book {
	return &template.Book{Name: "book", Pages: pages}
}

func shaped(id string, stick bool) *recipe.Recipe {
	r := &recipe.Recipe{ID: id, Kind: recipe.KindShaped, Slots: map[string]recipe.ItemRef{
		recipe.SlotResult: {Identity: recipe.NewIdentity(id+"_item", 0)},
	}}
	if stick {
		r.Slots[recipe.SlotKey(0, 0)] = recipe.ItemRef{Identity: recipe.NewIdentity("minecraft:stick", 0)}
	}
	return r
}

func furnace(id string) *recipe.Recipe {
	return &recipe.Recipe{ID: id, Kind: recipe.KindFurnace, Slots: map[string]recipe.ItemRef{
		recipe.SlotInput: {Identity: recipe.NewIdentity("minecraft:iron_ore", 0)},
	}}
}

const craftingPage = `{
	"background": "page.png",
	"foreground": [
		{"item_type": "text", "offset": [2, 3], "font": "mc.ttf", "text": "$last_recipe.name #$counter.page:1"},
		{"item_type": "recipe_shaped", "offset": [10, 20], "background": "grid.png", "scale": 2,
		 "items": {"0,0": {"offset": [1, 1], "size": [16, 16]}, "result": {"offset": [60, 20], "size": [16, 16]}}}
	]
}`

func TestGenerateCraftingBook(t *testing.T) {
	f := newFixture(t)
	props := recipe.Properties{
		"example:one": {"name": recipe.Text("One")},
		"example:two": {"name": recipe.Text("Two")},
	}
	textures := fakeTextures{
		recipe.NewIdentity("minecraft:stick", 0):  "/tex/stick.png",
		recipe.NewIdentity("example:one_item", 0): "/tex/one.png",
	}
	gen := NewGenerator(f.cfg, f.painter, textures, props)

	page := parsePage(t, craftingPage)
	recipes := []*recipe.Recipe{shaped("example:one", true), furnace("example:smelt"), shaped("example:two", false)}

	report, err := gen.Generate(context.Background(), bookOf(template.PageRef{Page: page}), recipes)
	require.NoError(t, err)

	require.Len(t, f.painter.canvases, 2)
	require.Len(t, report.Images, 2)
	assert.Equal(t, []string{"example:one"}, report.Images[0].Recipes)
	assert.Equal(t, []string{"example:two"}, report.Images[1].Recipes)
	assert.Equal(t, []string{"example:smelt"}, report.Unused)
	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, header.KindGenerateReport, report.Kind)
	assert.Equal(t, "book", report.Metadata["template"])

	first := f.painter.canvases[0]
	assert.Equal(t, Size{W: 100, H: 50}, first.size)
	assert.Equal(t, filepath.Join(f.cfg.OutputDir, "0001_book.png"), first.saved)
	assert.True(t, first.closed)
	require.Len(t, first.ops, 5)

	bg := first.ops[0].(ImageOp)
	assert.Equal(t, Size{W: 100, H: 50}, bg.Box)
	assert.Equal(t, FitContain, bg.Fit)

	text := first.ops[1].(TextOp)
	assert.Equal(t, []string{"One #1"}, text.Lines)
	assert.Equal(t, Point{X: 2, Y: 3}, text.At)
	assert.Equal(t, 12.0, text.Size)
	assert.Equal(t, "la", text.Anchor)

	grid := first.ops[2].(ImageOp)
	assert.Equal(t, Point{X: 10, Y: 20}, grid.At)
	assert.Equal(t, Size{W: 160, H: 80}, grid.Box)

	slot := first.ops[3].(ImageOp)
	assert.Equal(t, "/tex/stick.png", slot.Path)
	assert.Equal(t, Point{X: 12, Y: 22}, slot.At)
	assert.Equal(t, Size{W: 32, H: 32}, slot.Box)
	assert.Equal(t, AlignBottom, slot.Align)

	result := first.ops[4].(ImageOp)
	assert.Equal(t, "/tex/one.png", result.Path)
	assert.Equal(t, Point{X: 130, Y: 60}, result.At)

	second := f.painter.canvases[1]
	assert.Equal(t, filepath.Join(f.cfg.OutputDir, "0002_book.png"), second.saved)
	assert.Equal(t, []string{"Two #2"}, second.ops[1].(TextOp).Lines)
	// the result texture of example:two is missing and is skipped
	assert.Len(t, second.ops, 3)
	assert.Equal(t, 1, report.Count(errors.ErrCodeUnresolvedTexture))
}

func TestGenerateFirstInstanceIsForced(t *testing.T) {
	f := newFixture(t)
	gen := NewGenerator(f.cfg, f.painter, fakeTextures{}, nil)

	page := parsePage(t, craftingPage)
	report, err := gen.Generate(context.Background(), bookOf(template.PageRef{Page: page}),
		[]*recipe.Recipe{furnace("example:smelt")})
	require.NoError(t, err)

	require.Len(t, f.painter.canvases, 1)
	require.Len(t, report.Images, 1)
	assert.Empty(t, report.Images[0].Recipes)

	ops := f.painter.canvases[0].ops
	require.Len(t, ops, 2)
	assert.Equal(t, []string{" #1"}, ops[1].(TextOp).Lines)
}

func TestGenerateRecipesConsumedAcrossBook(t *testing.T) {
	f := newFixture(t)
	gen := NewGenerator(f.cfg, f.painter, fakeTextures{}, nil)

	page := parsePage(t, craftingPage)
	recipes := []*recipe.Recipe{shaped("example:one", false), shaped("example:two", false)}
	book := bookOf(
		template.PageRef{Name: "first", Page: page, RecipePattern: mustFull(t, "example:one")},
		template.PageRef{Name: "second", Page: page},
	)

	report, err := gen.Generate(context.Background(), book, recipes)
	require.NoError(t, err)
	require.Len(t, report.Images, 2)
	assert.Equal(t, "first", report.Images[0].Page)
	assert.Equal(t, []string{"example:one"}, report.Images[0].Recipes)
	assert.Equal(t, "second", report.Images[1].Page)
	assert.Equal(t, []string{"example:two"}, report.Images[1].Recipes)
	assert.Empty(t, report.Unused)
}

func mustFull(t *testing.T, p string) *regexp.Regexp {
	t.Helper()
	re, err := template.FullMatch(p)
	require.NoError(t, err)
	return re
}

func TestGenerateSkipsBrokenPage(t *testing.T) {
	f := newFixture(t)
	gen := NewGenerator(f.cfg, f.painter, fakeTextures{}, nil)

	page := parsePage(t, `{"size": [10, 10], "foreground": []}`)
	book := bookOf(
		template.PageRef{Name: "broken", Err: &template.ParseError{Name: "broken", Err: assert.AnError}},
		template.PageRef{Name: "fine", Page: page, Scope: map[string]string{}},
	)

	report, err := gen.Generate(context.Background(), book, nil)
	require.NoError(t, err)
	require.Len(t, report.Images, 1)
	assert.Equal(t, "fine", report.Images[0].Page)
	assert.Equal(t, 1, report.Count(errors.ErrCodeTemplateParse))
}

func TestGenerateFieldIssues(t *testing.T) {
	f := newFixture(t)
	gen := NewGenerator(f.cfg, f.painter, fakeTextures{}, nil)

	page := parsePage(t, `{
		"size": [20, 10],
		"scale": 2,
		"output_file_name": "$var.chapter-$last_recipe_name",
		"foreground": [
			{"item_type": "text", "offset": [0, 0], "font": "mc.ttf", "text": "$foo.bar"},
			{"item_type": "text", "offset": [1, 1], "font": "mc.ttf", "text": "[$var.missing]", "scale": 5, "spacing": 2},
			{"item_type": "text", "offset": [0, 0], "font": "nope.ttf", "text": "x"},
			{"item_type": "image", "offset": [0, 0], "image": "absent.png"},
			{"item_type": "text", "offset": [0, 0], "font": "mc.ttf", "text": "$counter.c:1 $counter.c:5"}
		]
	}`)
	ref := template.PageRef{Name: "p", Page: page, Scope: map[string]string{"chapter": "intro"}}

	report, err := gen.Generate(context.Background(), bookOf(ref), nil)
	require.NoError(t, err)

	require.Len(t, f.painter.canvases, 1)
	cv := f.painter.canvases[0]
	assert.Equal(t, Size{W: 40, H: 20}, cv.size)
	assert.Equal(t, filepath.Join(f.cfg.OutputDir, "0001_intro-unknown.png"), cv.saved)

	require.Len(t, cv.ops, 2)
	missing := cv.ops[0].(TextOp)
	assert.Equal(t, []string{"[]"}, missing.Lines)
	assert.Equal(t, Point{X: 2, Y: 2}, missing.At)
	assert.Equal(t, 10.0, missing.Size)
	assert.Equal(t, 4.0, missing.Spacing)
	assert.Equal(t, []string{"1 2"}, cv.ops[1].(TextOp).Lines)

	assert.Equal(t, 1, report.Count(errors.ErrCodeUnknownScope))
	assert.Equal(t, 2, report.Count(errors.ErrCodeUnknownVariable))
	assert.Equal(t, 2, report.Count(errors.ErrCodeNotFound))
	assert.Equal(t, 1, report.Count(errors.ErrCodeCounterConflict))
}

func TestGenerateDrawOrder(t *testing.T) {
	f := newFixture(t)
	gen := NewGenerator(f.cfg, f.painter, fakeTextures{}, nil)

	page := parsePage(t, `{
		"size": [10, 10],
		"foreground": [
			{"item_type": "text", "offset": [1, 1], "font": "mc.ttf", "text": "under"},
			{"item_type": "image", "offset": [1, 1], "image": "logo.png", "scale": 2},
			{"item_type": "image", "offset": [0, 0], "image": "logo.png", "size": [8, 8]}
		]
	}`)
	_, err := gen.Generate(context.Background(), bookOf(template.PageRef{Page: page}), nil)
	require.NoError(t, err)

	ops := f.painter.canvases[0].ops
	require.Len(t, ops, 3)
	assert.IsType(t, TextOp{}, ops[0])

	natural := ops[1].(ImageOp)
	assert.Equal(t, Size{W: 8, H: 4}, natural.Box)
	assert.Equal(t, FitStretch, natural.Fit)

	boxed := ops[2].(ImageOp)
	assert.Equal(t, Size{W: 8, H: 8}, boxed.Box)
	assert.Equal(t, FitContain, boxed.Fit)
	assert.Equal(t, AlignMiddle, boxed.Align)
}

func TestGenerateCancelled(t *testing.T) {
	f := newFixture(t)
	gen := NewGenerator(f.cfg, f.painter, fakeTextures{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	page := parsePage(t, `{"size": [10, 10], "foreground": []}`)
	report, err := gen.Generate(ctx, bookOf(template.PageRef{Page: page}), nil)
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, report.Images)
}

func TestPlanAndScopes(t *testing.T) {
	page := parsePage(t, `{
		"size": [10, 10],
		"foreground": [
			{"item_type": "text", "offset": [0, 0], "font": "f", "text": "a"},
			{"item_type": "recipe_furnace", "offset": [0, 0], "size": [1, 1], "items": {}},
			{"item_type": "text", "offset": [0, 0], "font": "f", "text": "b"},
			{"item_type": "recipe_shaped", "offset": [0, 0], "size": [1, 1], "items": {}},
			{"item_type": "text", "offset": [0, 0], "font": "f", "text": "c"},
			{"item_type": "recipe_shaped", "offset": [0, 0], "size": [1, 1], "items": {}},
			{"item_type": "text", "offset": [0, 0], "font": "f", "text": "d"}
		]
	}`)
	one, two := shaped("example:one", false), shaped("example:two", false)
	pending := []*recipe.Recipe{one, two}

	in, rest := plan(page, nil, pending)
	assert.Equal(t, 2, in.count)
	assert.Empty(t, rest)
	assert.Len(t, pending, 2)
	assert.Equal(t, []*recipe.Recipe{one, two}, in.recipes())
	assert.Same(t, two, in.last())

	scopes := scopeRecipes(page, in)
	assert.Same(t, one, scopes[0])
	assert.Nil(t, scopes[1])
	assert.Nil(t, scopes[2])
	assert.Same(t, one, scopes[4])
	assert.Same(t, two, scopes[6])

	empty, rest := plan(page, nil, nil)
	assert.Zero(t, empty.count)
	assert.Empty(t, rest)
	assert.Nil(t, empty.last())

	glass := &recipe.Recipe{ID: "example:glass", Kind: recipe.KindFurnace}
	potion := &recipe.Recipe{ID: "example:potion", Kind: recipe.KindBrewing}
	three := shaped("example:three", false)
	full, rest := plan(page, nil, []*recipe.Recipe{potion, one, glass, two, three})
	assert.Equal(t, 3, full.count)
	assert.Same(t, glass, full.slots[1].recipe)
	assert.Same(t, one, full.slots[3].recipe)
	assert.Same(t, two, full.slots[5].recipe)
	assert.Equal(t, []*recipe.Recipe{potion, three}, rest, "unplaced recipes keep their order")
}

func TestFindFile(t *testing.T) {
	a, b := t.TempDir(), t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(b, "x.png"), nil, 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(a, "y.png"), nil, 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(b, "y.png"), nil, 0o600))

	p, err := findFile([]string{a, b}, "x.png")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(b, "x.png"), p)

	p, err = findFile([]string{a, b}, "y.png")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(a, "y.png"), p)

	abs := filepath.Join(b, "x.png")
	p, err = findFile(nil, abs)
	require.NoError(t, err)
	assert.Equal(t, abs, p)

	_, err = findFile([]string{a, b}, "z.png")
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeNotFound, errors.CodeOf(err))
}

func TestFileSafe(t *testing.T) {
	assert.Equal(t, "a_b_c", fileSafe(" a/b\\c "))
	assert.Equal(t, "ns_name", fileSafe("ns:name"))
	assert.Equal(t, "unknown", fileSafe(".."))
	assert.Equal(t, "unknown", fileSafe(""))
}

func TestReportTable(t *testing.T) {
	r := &Report{
		Images: []Image{{Number: 1, Path: "out/0001_a.png", Recipes: []string{"x:a", "x:b"}}},
		Unused: []string{"x:c"},
		Issues: []Issue{{Code: errors.ErrCodeNotFound, Page: "p", Recipe: "x:a", Message: "gone"}},
	}
	assert.Equal(t, []string{"KIND", "SUBJECT", "DETAIL"}, r.TableHeader())
	assert.Equal(t, [][]string{
		{"image", "out/0001_a.png", "x:a, x:b"},
		{"unused", "1 recipes", "x:c"},
		{"NOT_FOUND", "p x:a", "gone"},
	}, r.TableRows())
}

func TestReportAdd(t *testing.T) {
	before := testutil.ToFloat64(issuesTotal.WithLabelValues(string(errors.ErrCodeNotFound)))

	r := &Report{RunID: "run"}
	r.Add("page", "x:a", errors.New(errors.ErrCodeNotFound, "gone"))
	r.Add("page", "", fmt.Errorf("plain"))

	require.Len(t, r.Issues, 2)
	assert.Equal(t, Issue{Code: errors.ErrCodeNotFound, Page: "page", Recipe: "x:a", Message: "[NOT_FOUND] gone"}, r.Issues[0])
	assert.Equal(t, 1, r.Count(errors.ErrCodeNotFound))
	assert.Equal(t, 1, r.Count(errors.ErrCodeInternal))
	assert.Equal(t, before+1, testutil.ToFloat64(issuesTotal.WithLabelValues(string(errors.ErrCodeNotFound))))
}
