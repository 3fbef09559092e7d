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
	"strings"

	"golang.org/x/text/width"
)

// Wrap breaks every line of s into lines of at most n display columns.
// Explicit newlines are kept, words are split on whitespace and words longer
// than n are broken. Wide (East Asian) runes count as two columns.
func Wrap(s string, n int) string {
	if n <= 0 {
		return s
	}
	var out []string
	for _, line := range strings.Split(s, "\n") {
		out = append(out, wrapLine(line, n)...)
	}
	return strings.Join(out, "\n")
}

func wrapLine(line string, n int) []string {
	words := strings.Fields(line)
	if len(words) == 0 {
		return []string{""}
	}

	var (
		lines []string
		cur   strings.Builder
		used  int
	)
	flush := func() {
		if cur.Len() > 0 {
			lines = append(lines, cur.String())
			cur.Reset()
			used = 0
		}
	}
	for _, w := range words {
		ww := columns(w)
		switch {
		case used > 0 && used+1+ww <= n:
			cur.WriteByte(' ')
			cur.WriteString(w)
			used += 1 + ww
		case ww <= n:
			flush()
			cur.WriteString(w)
			used = ww
		default:
			flush()
			for _, r := range w {
				rw := runeColumns(r)
				if used+rw > n && used > 0 {
					flush()
				}
				cur.WriteRune(r)
				used += rw
			}
		}
	}
	flush()
	return lines
}

func columns(s string) int {
	n := 0
	for _, r := range s {
		n += runeColumns(r)
	}
	return n
}

func runeColumns(r rune) int {
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return 2
	default:
		return 1
	}
}
