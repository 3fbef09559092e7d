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
	"regexp"
	"strconv"
	"strings"

	"github.com/rigtool/recipe-image-generator/pkg/counter"
	"github.com/rigtool/recipe-image-generator/pkg/errors"
	"github.com/rigtool/recipe-image-generator/pkg/recipe"
)

// Scope names.
const (
	ScopeLastRecipe = "last_recipe"
	ScopeVar        = "var"
	ScopeCounter    = "counter"
)

const namePattern = `[A-Za-z_][A-Za-z0-9_]*`

var (
	counterBraced = regexp.MustCompile(`^\$\{counter\.(` + namePattern + `)(?::(\d+))?(?::([+-]?\d+))?\}`)
	counterPlain  = regexp.MustCompile(`^\$counter\.(` + namePattern + `)(?::(\d+))?(?::([+-]?\d+))?`)
	namedBraced   = regexp.MustCompile(`^\$\{(` + namePattern + `)\.(` + namePattern + `)\}`)
	namedPlain    = regexp.MustCompile(`^\$(` + namePattern + `)\.(` + namePattern + `)`)
)

// Context holds the three variable scopes available to a template string.
type Context struct {
	// LastRecipe holds the properties of the recipe the field refers to.
	// Nil means no recipe, which renders every $last_recipe token empty.
	LastRecipe recipe.Fields
	// Var is the scope of the current book page.
	Var map[string]string
	// Counters is shared by every field of a generation run.
	Counters *counter.Store
}

// Result is a resolved string and the variables that resolved to nothing.
type Result struct {
	Text    string
	Unknown []*UnknownVariableError
}

// Resolve replaces every token in s. Tokens are read left to right, so
// repeated counter tokens advance the counter once per occurrence in order.
// A "$" that does not start a token is kept as text.
//
// An unknown scope aborts resolution with an *UnknownScopeError, a counter
// whose numbers overflow with an *InvalidCounterError. Unknown
// names in the last_recipe and var scopes render empty and are listed in
// the result.
func Resolve(s string, vc Context) (Result, error) {
	if !strings.Contains(s, "$") {
		return Result{Text: s}, nil
	}

	var (
		b   strings.Builder
		res Result
	)
	for i := 0; i < len(s); {
		j := strings.IndexByte(s[i:], '$')
		if j < 0 {
			b.WriteString(s[i:])
			break
		}
		b.WriteString(s[i : i+j])
		i += j

		m := counterBraced.FindStringSubmatch(s[i:])
		if m == nil {
			m = counterPlain.FindStringSubmatch(s[i:])
		}
		if m != nil {
			v, err := nextCounter(m, vc)
			if err != nil {
				return Result{}, err
			}
			b.WriteString(v)
			i += len(m[0])
			continue
		}

		m = namedBraced.FindStringSubmatch(s[i:])
		if m == nil {
			m = namedPlain.FindStringSubmatch(s[i:])
		}
		if m == nil {
			b.WriteByte('$')
			i++
			continue
		}

		value, unknown, err := lookup(m[0], m[1], m[2], vc)
		if err != nil {
			return Result{}, err
		}
		if unknown != nil {
			res.Unknown = append(res.Unknown, unknown)
		}
		b.WriteString(value)
		i += len(m[0])
	}

	res.Text = b.String()
	return res, nil
}

// ResolveList resolves every element independently, in order, and joins
// the results with newlines.
func ResolveList(lines []string, vc Context) (Result, error) {
	var (
		out = make([]string, 0, len(lines))
		res Result
	)
	for _, line := range lines {
		r, err := Resolve(line, vc)
		if err != nil {
			return Result{}, err
		}
		out = append(out, r.Text)
		res.Unknown = append(res.Unknown, r.Unknown...)
	}
	res.Text = strings.Join(out, "\n")
	return res, nil
}

// nextCounter advances the counter named by a counter token match.
func nextCounter(m []string, vc Context) (string, error) {
	if vc.Counters == nil {
		return "", errors.New(errors.ErrCodeInternal, "counter "+m[0]+" resolved without a counter store")
	}
	var start *int
	if m[2] != "" {
		n, err := strconv.Atoi(m[2])
		if err != nil {
			return "", &InvalidCounterError{Token: m[0], Err: err}
		}
		start = &n
	}
	offset := 0
	if m[3] != "" {
		var err error
		if offset, err = strconv.Atoi(m[3]); err != nil {
			return "", &InvalidCounterError{Token: m[0], Err: err}
		}
	}
	return strconv.Itoa(vc.Counters.Next(m[1], start, offset)), nil
}

func lookup(token, scope, name string, vc Context) (string, *UnknownVariableError, error) {
	switch scope {
	case ScopeLastRecipe:
		if v, ok := vc.LastRecipe[name]; ok {
			return v.String(), nil, nil
		}
		return "", &UnknownVariableError{Token: token, Scope: scope, Name: name}, nil

	case ScopeVar:
		if v, ok := vc.Var[name]; ok {
			return v, nil, nil
		}
		return "", &UnknownVariableError{Token: token, Scope: scope, Name: name}, nil

	default:
		return "", nil, &UnknownScopeError{Token: token, Scope: scope}
	}
}
