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

package variable

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/rigtool/recipe-image-generator/pkg/defaults"
	"github.com/rigtool/recipe-image-generator/pkg/recipe"
)

var outputToken = regexp.MustCompile(
	`\$(?:\{(last_recipe_namespace|last_recipe_name|template_name)\}|(last_recipe_namespace|last_recipe_name|template_name))`)

// OutputName holds the values available to an output file name pattern in
// addition to the regular scopes.
type OutputName struct {
	// Pattern is the page's output_file_name; empty selects the default.
	Pattern string
	// Template is the name of the template the run was started with.
	Template string
	// LastRecipe is the identifier of the last recipe drawn on the image,
	// empty when the image has none.
	LastRecipe string
}

// ResolveOutputName expands $last_recipe_name, $last_recipe_namespace and
// $template_name, then resolves the regular scopes. Recipe tokens without a
// recipe become "unknown" and are reported in the result.
func ResolveOutputName(o OutputName, vc Context) (Result, error) {
	pattern := o.Pattern
	if pattern == "" {
		pattern = defaults.OutputNamePattern
	}

	var missing []*UnknownVariableError
	expanded := outputToken.ReplaceAllStringFunc(pattern, func(tok string) string {
		name := strings.Trim(tok, "${}")
		if name == "template_name" {
			return o.Template
		}
		if o.LastRecipe == "" {
			missing = append(missing, &UnknownVariableError{Token: tok, Scope: ScopeLastRecipe, Name: name})
			return defaults.UnknownName
		}
		ns, n := recipe.SplitID(o.LastRecipe)
		if name == "last_recipe_namespace" {
			return ns
		}
		return n
	})

	res, err := Resolve(expanded, vc)
	if err != nil {
		return Result{}, err
	}
	res.Text = strings.TrimSpace(res.Text)
	res.Unknown = append(missing, res.Unknown...)
	return res, nil
}

// FileName returns the numbered PNG file name of an image.
func FileName(number int, name string) string {
	return fmt.Sprintf("%04d_%s.png", number, name)
}
