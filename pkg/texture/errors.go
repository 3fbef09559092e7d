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
	stderrors "errors"
	"fmt"

	"github.com/rigtool/recipe-image-generator/pkg/errors"
	"github.com/rigtool/recipe-image-generator/pkg/recipe"
)

var (
	// ErrCancelled is returned by a Chooser when the user dismissed the
	// prompt. The identity stays unresolved for the rest of the run.
	ErrCancelled = stderrors.New("texture prompt cancelled")
	// ErrSkipAll is returned by a Chooser when the user asked to stop
	// prompting. The resolver is non-interactive for the rest of the run.
	ErrSkipAll = stderrors.New("texture prompts skipped")
)

// UnresolvedTextureError reports an identity without a usable texture. The
// draw that needed it is omitted.
type UnresolvedTextureError struct {
	Identity recipe.Identity
	Recipe   string
	Reason   string
}

func (e *UnresolvedTextureError) Error() string {
	if e.Recipe == "" {
		return fmt.Sprintf("no texture for %s: %s", e.Identity, e.Reason)
	}
	return fmt.Sprintf("no texture for %s in recipe %s: %s", e.Identity, e.Recipe, e.Reason)
}

// Code implements errors.Coder.
func (e *UnresolvedTextureError) Code() errors.ErrorCode {
	return errors.ErrCodeUnresolvedTexture
}
