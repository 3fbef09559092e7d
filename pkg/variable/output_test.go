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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveOutputName(t *testing.T) {
	tests := []struct {
		name        string
		out         OutputName
		want        string
		wantUnknown int
	}{
		{
			name: "default pattern",
			out:  OutputName{Template: "book"},
			want: "book",
		},
		{
			name: "recipe name and namespace",
			out:  OutputName{Pattern: "$last_recipe_namespace-${last_recipe_name}", LastRecipe: "example:torch"},
			want: "example-torch",
		},
		{
			name: "namespace alone",
			out:  OutputName{Pattern: "$last_recipe_namespace", LastRecipe: "example:torch"},
			want: "example",
		},
		{
			name: "braced namespace before name",
			out:  OutputName{Pattern: "${last_recipe_namespace}${last_recipe_name}", LastRecipe: "example:torch"},
			want: "exampletorch",
		},
		{
			name: "default namespace",
			out:  OutputName{Pattern: "$last_recipe_namespace/$last_recipe_name", LastRecipe: "torch"},
			want: "minecraft/torch",
		},
		{
			name:        "no recipe",
			out:         OutputName{Pattern: "${template_name}_$last_recipe_name", Template: "page"},
			want:        "page_unknown",
			wantUnknown: 1,
		},
		{
			name: "regular scopes after expansion",
			out:  OutputName{Pattern: " ${template_name}_${var.chapter}_$counter.img ", Template: "book"},
			want: "book_Tools_0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := ResolveOutputName(tt.out, testContext())
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.Text)
			assert.Len(t, res.Unknown, tt.wantUnknown)
		})
	}
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "0001_book.png", FileName(1, "book"))
	assert.Equal(t, "12345_x.png", FileName(12345, "x"))
}
