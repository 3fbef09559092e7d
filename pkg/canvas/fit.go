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
	"math"

	"github.com/rigtool/recipe-image-generator/pkg/compositor"
)

// Place returns where an image of size src is drawn inside op's box and
// at which size.
func Place(src compositor.Size, op compositor.ImageOp) (compositor.Point, compositor.Size) {
	if op.Fit == compositor.FitStretch || src.W <= 0 || src.H <= 0 {
		return op.At, op.Box
	}
	s := math.Min(float64(op.Box.W)/float64(src.W), float64(op.Box.H)/float64(src.H))
	size := compositor.Size{
		W: clamp(int(math.Round(float64(src.W)*s)), 1, op.Box.W),
		H: clamp(int(math.Round(float64(src.H)*s)), 1, op.Box.H),
	}
	at := compositor.Point{X: op.At.X + (op.Box.W-size.W)/2}
	switch op.Align {
	case compositor.AlignBottom:
		at.Y = op.At.Y + op.Box.H - size.H
	default:
		at.Y = op.At.Y + (op.Box.H-size.H)/2
	}
	return at, size
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	return max(lo, min(v, hi))
}
