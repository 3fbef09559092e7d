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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrap(t *testing.T) {
	tests := []struct {
		name string
		in   string
		n    int
		want string
	}{
		{"disabled", "a b c", 0, "a b c"},
		{"fits", "short", 10, "short"},
		{"greedy", "the quick brown fox", 9, "the quick\nbrown fox"},
		{"keeps newlines", "ab cd\nef", 2, "ab\ncd\nef"},
		{"keeps blank lines", "a\n\nb", 5, "a\n\nb"},
		{"collapses spaces", "a    b", 5, "a b"},
		{"breaks long words", "abcdefg h", 3, "abc\ndef\ng h"},
		{"wide runes count twice", "日本語 ab", 4, "日本\n語\nab"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Wrap(tt.in, tt.n))
		})
	}
}
