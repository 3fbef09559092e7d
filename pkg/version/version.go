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

// Package version parses and compares the dotted format_version strings
// found in resource and behavior pack files ("1.16.100", "1.20.80").
package version

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Error types for version parsing failures
var (
	ErrEmptyVersion      = errors.New("version string is empty")
	ErrNonNumeric        = errors.New("version component is not numeric")
	ErrNegativeComponent = errors.New("version component cannot be negative")
)

// ItemIconComponent is the first format version whose behavior pack item
// definitions carry their icon inside "components".
var ItemIconComponent = Version{1, 16, 100}

// Version is a dotted numeric version of any length. Missing trailing
// components compare as zero, so "1.16" equals "1.16.0".
type Version []int

// Parse parses a format version. A leading "v" is accepted.
func Parse(s string) (Version, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "v")
	if s == "" {
		return nil, ErrEmptyVersion
	}

	parts := strings.Split(s, ".")
	v := make(Version, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("%w: %q in %q", ErrNonNumeric, p, s)
		}
		if n < 0 {
			return nil, fmt.Errorf("%w: %q", ErrNegativeComponent, s)
		}
		v = append(v, n)
	}
	return v, nil
}

// MustParse is like Parse but panics on error. Intended for constants.
func MustParse(s string) Version {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

// String returns the dotted form.
func (v Version) String() string {
	parts := make([]string, len(v))
	for i, n := range v {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ".")
}

// Compare returns -1, 0 or 1 depending on whether v is older than, equal to,
// or newer than other.
func (v Version) Compare(other Version) int {
	n := max(len(v), len(other))
	for i := range n {
		a, b := v.at(i), other.at(i)
		switch {
		case a < b:
			return -1
		case a > b:
			return 1
		}
	}
	return 0
}

// EqualsOrNewer reports whether v >= other.
func (v Version) EqualsOrNewer(other Version) bool {
	return v.Compare(other) >= 0
}

func (v Version) at(i int) int {
	if i < len(v) {
		return v[i]
	}
	return 0
}

// AtLeast parses s and reports whether it is >= min. Unparseable input
// reports false.
func AtLeast(s string, min Version) bool {
	v, err := Parse(s)
	if err != nil {
		return false
	}
	return v.EqualsOrNewer(min)
}
