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

package canvas

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/ftrvxmtrx/tga"
	"github.com/gogpu/gg/text"

	"github.com/rigtool/recipe-image-generator/pkg/compositor"
	"github.com/rigtool/recipe-image-generator/pkg/errors"
)

// alphaThreshold is the coverage above which a pixel of non anti-aliased
// text is painted.
const alphaThreshold = 128

type faceKey struct {
	path string
	size float64
}

// Painter draws pages in memory. Decoded images and parsed fonts are cached
// for the life of the painter.
type Painter struct {
	mu      sync.Mutex
	images  map[string]image.Image
	sources map[string]*text.FontSource
	faces   map[faceKey]text.Face
}

// NewPainter returns an empty painter.
func NewPainter() *Painter {
	return &Painter{
		images:  make(map[string]image.Image),
		sources: make(map[string]*text.FontSource),
		faces:   make(map[faceKey]text.Face),
	}
}

// NewCanvas returns a transparent canvas of the given size.
func (p *Painter) NewCanvas(size compositor.Size) (compositor.Canvas, error) {
	if size.W <= 0 || size.H <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("invalid canvas size %dx%d", size.W, size.H))
	}
	return &Canvas{p: p, img: image.NewNRGBA(image.Rect(0, 0, size.W, size.H))}, nil
}

// Measure returns the natural size of an image file.
func (p *Painter) Measure(path string) (compositor.Size, error) {
	img, err := p.image(path)
	if err != nil {
		return compositor.Size{}, err
	}
	b := img.Bounds()
	return compositor.Size{W: b.Dx(), H: b.Dy()}, nil
}

// Close releases the parsed fonts.
func (p *Painter) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for path, src := range p.sources {
		if err := src.Close(); err != nil {
			return fmt.Errorf("failed to close font %s: %w", path, err)
		}
	}
	clear(p.sources)
	clear(p.faces)
	return nil
}

func (p *Painter) image(path string) (image.Image, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if img, ok := p.images[path]; ok {
		return img, nil
	}
	img, err := Open(path)
	if err != nil {
		return nil, err
	}
	p.images[path] = img
	return img, nil
}

func (p *Painter) face(path string, size float64) (text.Face, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	key := faceKey{path: path, size: size}
	if f, ok := p.faces[key]; ok {
		return f, nil
	}
	src, ok := p.sources[path]
	if !ok {
		var err error
		src, err = text.NewFontSourceFromFile(path)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeNotFound, "failed to load font "+path, err)
		}
		p.sources[path] = src
	}
	f := src.Face(size)
	p.faces[key] = f
	return f, nil
}

// Open decodes an image file. TGA files are read by extension, everything
// else goes through the registered image formats.
func Open(path string) (image.Image, error) {
	if strings.EqualFold(filepath.Ext(path), ".tga") {
		f, err := os.Open(path)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeNotFound, "failed to open image "+path, err)
		}
		defer f.Close()
		img, err := tga.Decode(f)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidRequest, "failed to decode image "+path, err)
		}
		return img, nil
	}
	img, err := imaging.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeNotFound, "failed to open image "+path, err)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidRequest, "failed to decode image "+path, err)
	}
	return img, nil
}

// Canvas is a single page image.
type Canvas struct {
	p   *Painter
	img *image.NRGBA
}

// DrawImage scales the image with nearest neighbour sampling and composites
// it over the canvas.
func (c *Canvas) DrawImage(op compositor.ImageOp) error {
	src, err := c.p.image(op.Path)
	if err != nil {
		return err
	}
	b := src.Bounds()
	at, size := Place(compositor.Size{W: b.Dx(), H: b.Dy()}, op)
	if size.W <= 0 || size.H <= 0 {
		return nil
	}
	scaled := src
	if size.W != b.Dx() || size.H != b.Dy() {
		scaled = imaging.Resize(src, size.W, size.H, imaging.NearestNeighbor)
	}
	c.blit(scaled, at)
	return nil
}

// DrawText draws a block of lines anchored at op.At. Horizontal anchors are
// l, m and r; vertical anchors are a, t, m, s, b and d.
func (c *Canvas) DrawText(op compositor.TextOp) error {
	if len(op.Lines) == 0 || op.Size <= 0 {
		return nil
	}
	face, err := c.p.face(op.Font, op.Size)
	if err != nil {
		return err
	}

	lay := layoutText(op, face.Metrics(), func(s string) float64 {
		w, _ := text.Measure(s, face)
		return w
	})

	if op.AntiAlias {
		for _, l := range lay {
			text.Draw(c.img, l.text, face, l.x, l.y, op.Color)
		}
		return nil
	}

	mask := image.NewNRGBA(c.img.Bounds())
	for _, l := range lay {
		text.Draw(mask, l.text, face, l.x, l.y, color.NRGBA{A: 255})
	}
	threshold(mask, op.Color)
	c.blit(mask, compositor.Point{})
	return nil
}

func (c *Canvas) blit(img image.Image, at compositor.Point) {
	c.img = imaging.Overlay(c.img, img, image.Pt(at.X, at.Y), 1.0)
}

// Image returns the current canvas pixels.
func (c *Canvas) Image() image.Image {
	return c.img
}

// Save writes the canvas as PNG, creating the parent directory.
func (c *Canvas) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, "failed to create output directory", err)
	}
	if err := imaging.Save(c.img, path); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, "failed to write "+path, err)
	}
	return nil
}

// Close drops the page pixels.
func (c *Canvas) Close() error {
	c.img = nil
	return nil
}

type placedLine struct {
	text string
	x, y float64
}

// layoutText returns the baseline origin of every line.
func layoutText(op compositor.TextOp, m text.Metrics, measure func(string) float64) []placedLine {
	step := m.Ascent + m.Descent + op.Spacing
	height := float64(len(op.Lines)-1)*step + m.Ascent + m.Descent

	widths := make([]float64, len(op.Lines))
	var width float64
	for i, l := range op.Lines {
		widths[i] = measure(l)
		width = math.Max(width, widths[i])
	}

	anchor := op.Anchor
	if len(anchor) != 2 {
		anchor = "la"
	}
	left := float64(op.At.X)
	switch anchor[0] {
	case 'm':
		left -= width / 2
	case 'r':
		left -= width
	}
	top := float64(op.At.Y)
	switch anchor[1] {
	case 'm':
		top -= height / 2
	case 's':
		top -= m.Ascent
	case 'b', 'd':
		top -= height
	}

	out := make([]placedLine, len(op.Lines))
	for i, l := range op.Lines {
		x := left
		switch op.Alignment {
		case "center":
			x += (width - widths[i]) / 2
		case "right":
			x += width - widths[i]
		}
		out[i] = placedLine{text: l, x: x, y: top + m.Ascent + float64(i)*step}
	}
	return out
}

// threshold turns glyph coverage into fully painted or empty pixels of col.
func threshold(img *image.NRGBA, col color.NRGBA) {
	for i := 0; i+3 < len(img.Pix); i += 4 {
		if img.Pix[i+3] >= alphaThreshold {
			img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = col.R, col.G, col.B, col.A
			continue
		}
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = 0, 0, 0, 0
	}
}
