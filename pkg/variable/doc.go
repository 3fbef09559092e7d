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

// Package variable expands the variable tokens of template strings.
//
// # Syntax
//
//	$last_recipe.name     property of the recipe the field belongs to
//	$var.name             value from the page's scope in the book template
//	$counter.name         next value of a counter
//	$counter.name:5       ... starting at 5 on first use
//	$counter.name:5:2     ... then stepping by 1+2 on each later use
//	$counter.name:+2      ... offset only, "+2" and "2" step the same
//
// Every token also has a braced form, ${var.name}, which allows text to
// follow the name directly. A "$" that does not begin a token is literal.
//
// Output file names additionally accept $last_recipe_name,
// $last_recipe_namespace and $template_name.
package variable
