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
	stderrors "errors"
	"fmt"
	"image/color"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rigtool/recipe-image-generator/pkg/counter"
	"github.com/rigtool/recipe-image-generator/pkg/defaults"
	"github.com/rigtool/recipe-image-generator/pkg/errors"
	"github.com/rigtool/recipe-image-generator/pkg/header"
	"github.com/rigtool/recipe-image-generator/pkg/recipe"
	"github.com/rigtool/recipe-image-generator/pkg/template"
	"github.com/rigtool/recipe-image-generator/pkg/variable"
)

// Textures resolves item identities to texture files.
type Textures interface {
	Resolve(ctx context.Context, id recipe.Identity, recipeID string) (string, error)
}

// warner is implemented by texture resolvers that collect non-fatal
// problems, such as failed pushes of learned answers.
type warner interface {
	Warnings() []error
}

// Config locates the files a generation run reads and writes.
type Config struct {
	// Template is the name the run was started with, used by $template_name.
	Template string
	// ImageDirs are searched in order for backgrounds and image items.
	ImageDirs []string
	// FontDirs are searched in order for text fonts.
	FontDirs []string
	// OutputDir receives the numbered PNG files.
	OutputDir string
	// Scale multiplies every page scale. Zero means 1.
	Scale float64
	// Version is recorded in the report metadata.
	Version string
}

// Generator renders books of recipe pages.
type Generator struct {
	cfg        Config
	painter    Painter
	textures   Textures
	properties recipe.Properties
}

// NewGenerator returns a generator drawing with painter.
func NewGenerator(cfg Config, painter Painter, textures Textures, props recipe.Properties) *Generator {
	if cfg.Scale <= 0 {
		cfg.Scale = 1
	}
	return &Generator{cfg: cfg, painter: painter, textures: textures, properties: props}
}

// run is the state of one Generate call.
type run struct {
	report   *Report
	counters *counter.Store
	number   int
}

// Generate renders every page of the book in order. Recipes are consumed
// in order: each one is drawn at most once per book. The first image of a
// page is always rendered; further images of the same page are rendered
// while the page keeps taking recipes.
//
// Problems with single pages, items or textures are recorded in the report
// and never stop the run. The returned error is only set when ctx ends.
func (g *Generator) Generate(ctx context.Context, book *template.Book, recipes []*recipe.Recipe) (*Report, error) {
	r := &run{
		report: &Report{
			RunID:    uuid.NewString(),
			Template: g.cfg.Template,
			Started:  time.Now(),
		},
		counters: counter.NewStore(),
	}
	r.report.Init(header.KindGenerateReport, g.cfg.Version)
	r.report.Set("template", g.cfg.Template)
	defer func() { r.report.Duration = time.Since(r.report.Started) }()

	slog.Info("generating book",
		"run", r.report.RunID,
		"template", g.cfg.Template,
		"pages", len(book.Pages),
		"recipes", len(recipes))

	pending := recipes
	for _, ref := range book.Pages {
		if err := ctx.Err(); err != nil {
			return r.report, err
		}
		name := pageName(book, ref)
		if ref.Page == nil {
			err := ref.Err
			if err == nil {
				err = errors.New(errors.ErrCodeTemplateParse, "page has no template")
			}
			r.report.Add(name, "", err)
			continue
		}

		for first := true; ; first = false {
			in, rest := plan(ref.Page, ref.RecipePattern, pending)
			if !first && in.count == 0 {
				break
			}
			pending = rest
			if err := g.render(ctx, r, name, ref, in); err != nil {
				return r.report, err
			}
		}
	}

	for _, p := range pending {
		r.report.Unused = append(r.report.Unused, p.ID)
	}
	slog.Info("book generated",
		"run", r.report.RunID,
		"images", len(r.report.Images),
		"unused", len(r.report.Unused),
		"issues", len(r.report.Issues))
	return r.report, nil
}

func pageName(book *template.Book, ref template.PageRef) string {
	if ref.Name != "" {
		return ref.Name
	}
	return book.Name
}

// render draws and writes one image. It only fails when ctx ends.
func (g *Generator) render(ctx context.Context, r *run, name string, ref template.PageRef, in instance) error {
	start := time.Now()
	page := ref.Page
	scale := g.cfg.Scale * page.Scale

	var background string
	if page.Background != "" {
		p, err := findFile(g.cfg.ImageDirs, page.Background)
		if err != nil {
			r.report.Add(name, "", err)
		} else {
			background = p
		}
	}

	var size Size
	switch {
	case page.Size != nil:
		size = scaleSize(*page.Size, scale)
	case background != "":
		natural, err := g.painter.Measure(background)
		if err != nil {
			r.report.Add(name, "", err)
			return nil
		}
		size = Size{W: int(float64(natural.W) * scale), H: int(float64(natural.H) * scale)}
	default:
		r.report.Add(name, "", errors.New(errors.ErrCodeNotFound,
			"page has no size and its background is missing"))
		return nil
	}

	cv, err := g.painter.NewCanvas(size)
	if err != nil {
		r.report.Add(name, "", err)
		return nil
	}
	defer cv.Close()

	if background != "" {
		g.draw(r, name, "", cv.DrawImage(ImageOp{
			Path: background,
			Box:  size,
			Fit:  FitContain,
		}))
	}

	scopes := scopeRecipes(page, in)
	for i, item := range page.Foreground {
		vc := g.scope(r, ref, scopes[i])
		switch it := item.(type) {
		case *template.ImageItem:
			g.drawImage(r, name, cv, it, vc, scale, scopes[i])
		case *template.TextItem:
			g.drawText(r, name, cv, it, vc, scale, scopes[i])
		default:
			a := in.slots[i]
			if a == nil {
				continue
			}
			if err := g.drawRecipe(ctx, r, name, cv, a, scale); err != nil {
				return err
			}
		}
	}

	last := in.last()
	out := variable.OutputName{Pattern: page.OutputFileName, Template: g.cfg.Template}
	if last != nil {
		out.LastRecipe = last.ID
	}
	res, err := variable.ResolveOutputName(out, g.scope(r, ref, last))
	if err != nil {
		r.report.Add(name, recipeID(last), err)
		res.Text = g.cfg.Template
	}
	g.unknown(r, name, recipeID(last), res.Unknown)

	r.number++
	path := filepath.Join(g.cfg.OutputDir, variable.FileName(r.number, fileSafe(res.Text)))
	if err := cv.Save(path); err != nil {
		r.report.Add(name, recipeID(last), err)
		return nil
	}

	ids := make([]string, 0, in.count)
	for _, rc := range in.recipes() {
		ids = append(ids, rc.ID)
	}
	r.report.Images = append(r.report.Images, Image{Number: r.number, Path: path, Page: name, Recipes: ids})
	imagesWritten.Inc()
	renderDuration.Observe(time.Since(start).Seconds())
	slog.Debug("image written", "run", r.report.RunID, "path", path, "recipes", len(ids))

	g.drain(r, name)
	return nil
}

func (g *Generator) scope(r *run, ref template.PageRef, rc *recipe.Recipe) variable.Context {
	vc := variable.Context{Var: ref.Scope, Counters: r.counters}
	if rc != nil {
		vc.LastRecipe = g.properties.Lookup(rc.ID)
	}
	return vc
}

func (g *Generator) drawImage(r *run, page string, cv Canvas, it *template.ImageItem, vc variable.Context, scale float64, rc *recipe.Recipe) {
	sub, ok := g.resolve(r, page, it.Image, vc, rc)
	if !ok || strings.TrimSpace(sub) == "" {
		return
	}
	path, err := findFile(g.cfg.ImageDirs, strings.TrimSpace(sub))
	if err != nil {
		r.report.Add(page, recipeID(rc), err)
		return
	}

	op := ImageOp{Path: path, At: scalePoint(it.Offset, scale)}
	f := it.Scale * scale
	if it.Size != nil {
		op.Box = scaleSize(*it.Size, f)
		op.Fit = FitContain
	} else {
		natural, err := g.painter.Measure(path)
		if err != nil {
			r.report.Add(page, recipeID(rc), err)
			return
		}
		op.Box = Size{W: int(float64(natural.W) * f), H: int(float64(natural.H) * f)}
	}
	g.draw(r, page, recipeID(rc), cv.DrawImage(op))
}

func (g *Generator) drawText(r *run, page string, cv Canvas, it *template.TextItem, vc variable.Context, scale float64, rc *recipe.Recipe) {
	font, err := findFile(g.cfg.FontDirs, it.Font)
	if err != nil {
		r.report.Add(page, recipeID(rc), err)
		return
	}
	s, ok := g.resolve(r, page, it.Text, vc, rc)
	if !ok {
		return
	}
	if it.LineLength > 0 {
		s = Wrap(s, it.LineLength)
	}
	g.draw(r, page, recipeID(rc), cv.DrawText(TextOp{
		Lines:     strings.Split(s, "\n"),
		At:        scalePoint(it.Offset, scale),
		Font:      font,
		Size:      math.Trunc(it.FontSize * scale),
		Color:     color.NRGBA{R: it.Color[0], G: it.Color[1], B: it.Color[2], A: it.Color[3]},
		Alignment: it.Alignment,
		Anchor:    it.Anchor,
		Spacing:   it.Spacing * scale,
		AntiAlias: it.AntiAlias,
	}))
}

// drawRecipe draws the layout background and then the texture of every
// slot the layout defines and the recipe fills, fitted to the bottom of the
// slot box.
func (g *Generator) drawRecipe(ctx context.Context, r *run, page string, cv Canvas, a *assignment, scale float64) error {
	def := a.def
	f := def.Scale * scale
	at := scalePoint(def.Offset, scale)
	recipesDrawn.WithLabelValues(string(a.recipe.Kind)).Inc()

	if def.Background != "" {
		bg, err := findFile(g.cfg.ImageDirs, def.Background)
		if err != nil {
			r.report.Add(page, a.recipe.ID, err)
		} else {
			box, err := g.layoutSize(def, bg, f)
			if err != nil {
				r.report.Add(page, a.recipe.ID, err)
			} else {
				g.draw(r, page, a.recipe.ID, cv.DrawImage(ImageOp{Path: bg, At: at, Box: box, Fit: FitContain}))
			}
		}
	}

	keys := make([]string, 0, len(def.Items))
	for k := range def.Items {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		ref, ok := a.recipe.Slot(k)
		if !ok {
			continue
		}
		tex, err := g.textures.Resolve(ctx, ref.Identity, a.recipe.ID)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			r.report.Add(page, a.recipe.ID, err)
			continue
		}
		slot := def.Items[k]
		off := scalePoint(slot.Offset, f)
		g.draw(r, page, a.recipe.ID, cv.DrawImage(ImageOp{
			Path:  tex,
			At:    Point{X: at.X + off.X, Y: at.Y + off.Y},
			Box:   scaleSize(slot.Size, f),
			Fit:   FitContain,
			Align: AlignBottom,
		}))
	}
	return nil
}

func (g *Generator) layoutSize(def *template.RecipeDef, background string, f float64) (Size, error) {
	if def.Size != nil {
		return scaleSize(*def.Size, f), nil
	}
	natural, err := g.painter.Measure(background)
	if err != nil {
		return Size{}, err
	}
	return Size{W: int(float64(natural.W) * f), H: int(float64(natural.H) * f)}, nil
}

// resolve expands the variables of a template string. Unknown scopes skip
// the field; unknown names are reported and render empty.
func (g *Generator) resolve(r *run, page string, v template.TextValue, vc variable.Context, rc *recipe.Recipe) (string, bool) {
	var (
		res variable.Result
		err error
	)
	if v.IsList {
		res, err = variable.ResolveList(v.Lines, vc)
	} else {
		res, err = variable.Resolve(strings.Join(v.Lines, ""), vc)
	}
	if err != nil {
		r.report.Add(page, recipeID(rc), err)
		return "", false
	}
	g.unknown(r, page, recipeID(rc), res.Unknown)
	return res.Text, true
}

func (g *Generator) unknown(r *run, page, recipeID string, unknown []*variable.UnknownVariableError) {
	for _, u := range unknown {
		r.report.Add(page, recipeID, u)
	}
}

func (g *Generator) draw(r *run, page, recipeID string, err error) {
	if err != nil {
		r.report.Add(page, recipeID, err)
	}
}

// drain moves the warnings collected by the counters and the texture
// resolver into the report.
func (g *Generator) drain(r *run, page string) {
	for _, c := range r.counters.Conflicts() {
		r.report.Add(page, "", errors.New(errors.ErrCodeCounterConflict, c.String()))
	}
	if w, ok := g.textures.(warner); ok {
		for _, err := range w.Warnings() {
			r.report.Add(page, "", err)
		}
	}
}

func recipeID(rc *recipe.Recipe) string {
	if rc == nil {
		return ""
	}
	return rc.ID
}

// findFile returns the first existing dir/sub. Absolute paths are used as
// they are.
func findFile(dirs []string, sub string) (string, error) {
	if filepath.IsAbs(sub) {
		if _, err := os.Stat(sub); err != nil {
			return "", errors.Wrap(errors.ErrCodeNotFound, "file not found: "+sub, err)
		}
		return sub, nil
	}
	searched := make([]string, 0, len(dirs))
	for _, d := range dirs {
		p := filepath.Join(d, filepath.FromSlash(sub))
		searched = append(searched, p)
		if _, err := os.Stat(p); err == nil {
			return p, nil
		} else if !stderrors.Is(err, os.ErrNotExist) {
			return "", errors.Wrap(errors.ErrCodeInternal, "failed to stat "+p, err)
		}
	}
	return "", errors.NewWithContext(errors.ErrCodeNotFound,
		fmt.Sprintf("unable to locate %s (searched %s)", sub, strings.Join(searched, ", ")),
		map[string]any{"searched": searched})
}

func scalePoint(v template.Vec2, f float64) Point {
	return Point{X: int(v.X * f), Y: int(v.Y * f)}
}

func scaleSize(v template.Vec2, f float64) Size {
	return Size{W: int(v.X * f), H: int(v.Y * f)}
}

// fileSafe keeps an output name inside the output directory.
func fileSafe(name string) string {
	name = strings.NewReplacer("/", "_", "\\", "_", ":", "_").Replace(strings.TrimSpace(name))
	if name == "" || name == "." || name == ".." {
		return defaults.UnknownName
	}
	return name
}
