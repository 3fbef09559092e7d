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
	"image/color"
)

// Size is a pixel size.
type Size struct {
	W, H int
}

// Point is a pixel position.
type Point struct {
	X, Y int
}

// Fit selects how an image fills its box.
type Fit int

const (
	// FitStretch scales the image to the box.
	FitStretch Fit = iota
	// FitContain scales the image to the largest size fitting the box
	// with the aspect ratio kept; the rest of the box stays transparent.
	FitContain
)

// Align places a contained image vertically in its box. Images are always
// centered horizontally.
type Align int

const (
	AlignMiddle Align = iota
	AlignBottom
)

// ImageOp draws an image file into a box.
type ImageOp struct {
	Path  string
	At    Point
	Box   Size
	Fit   Fit
	Align Align
}

// TextOp draws lines of text. At is the anchor point of the text block.
type TextOp struct {
	Lines     []string
	At        Point
	Font      string
	Size      float64
	Color     color.NRGBA
	Alignment string
	Anchor    string
	// Spacing is the extra space between lines in pixels.
	Spacing   float64
	AntiAlias bool
}

// Canvas is one output image being drawn.
type Canvas interface {
	DrawImage(op ImageOp) error
	DrawText(op TextOp) error
	Save(path string) error
	Close() error
}

// Painter creates canvases and reads image sizes.
type Painter interface {
	NewCanvas(size Size) (Canvas, error)
	Measure(path string) (Size, error)
}
