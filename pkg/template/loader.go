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

package template

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/rigtool/recipe-image-generator/pkg/errors"
	"github.com/rigtool/recipe-image-generator/pkg/serializer"
)

// Extension of template files.
const Extension = ".json"

// ParseError reports a template that cannot be used.
type ParseError struct {
	Name string
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("template %q: %v", e.Name, e.Err)
	}
	return fmt.Sprintf("template %q (%s): %v", e.Name, e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Code implements errors.Coder.
func (e *ParseError) Code() errors.ErrorCode {
	if stderrors.Is(e.Err, fs.ErrNotExist) {
		return errors.ErrCodeNotFound
	}
	return errors.ErrCodeTemplateParse
}

// Loader finds templates by name in an ordered list of directories. The
// first directory holding the file wins.
type Loader struct {
	Roots []string
}

// NewLoader returns a loader searching the given directories in order.
func NewLoader(roots ...string) *Loader {
	return &Loader{Roots: roots}
}

// Find returns the path of the named template.
func (l *Loader) Find(name string) (string, error) {
	file := name
	if !strings.HasSuffix(file, Extension) {
		file += Extension
	}
	for _, root := range l.Roots {
		p := filepath.Join(root, filepath.FromSlash(file))
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p, nil
		}
	}
	return "", fmt.Errorf("%s not found in %s: %w", file, strings.Join(l.Roots, ", "), fs.ErrNotExist)
}

// Load reads the named template as a book. A page template becomes a book
// with one page. A referenced page that fails to load is kept in the book
// with its error set, so the other pages can still be generated.
func (l *Loader) Load(name string) (*Book, error) {
	name = strings.TrimSuffix(name, Extension)
	path, err := l.Find(name)
	if err != nil {
		return nil, &ParseError{Name: name, Err: err}
	}
	raw, err := serializer.ReadJSONC(path)
	if err != nil {
		return nil, &ParseError{Name: name, Path: path, Err: err}
	}

	book, err := l.parseBook(name, raw)
	if err != nil {
		return nil, &ParseError{Name: name, Path: path, Err: err}
	}
	book.Path = path

	slog.Debug("template loaded",
		slog.String("name", name),
		slog.String("path", path),
		slog.Int("pages", len(book.Pages)))
	return book, nil
}

// LoadPage reads the named template, which must be a page.
func (l *Loader) LoadPage(name string) (*Page, error) {
	name = strings.TrimSuffix(name, Extension)
	path, err := l.Find(name)
	if err != nil {
		return nil, &ParseError{Name: name, Err: err}
	}
	raw, err := serializer.ReadJSONC(path)
	if err != nil {
		return nil, &ParseError{Name: name, Path: path, Err: err}
	}
	page, err := parsePage(raw)
	if err != nil {
		return nil, &ParseError{Name: name, Path: path, Err: err}
	}
	return page, nil
}

// Parse decodes a template document without resolving page references.
func Parse(name string, raw []byte) (*Book, error) {
	plain, err := serializer.StandardizeJSONC(raw)
	if err != nil {
		return nil, &ParseError{Name: name, Err: err}
	}
	return (&Loader{}).parseBook(name, plain)
}

func (l *Loader) parseBook(name string, raw []byte) (*Book, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("template must be a JSON object: %w", err)
	}

	book := &Book{Name: name}
	pages, isBook := doc["pages"]
	if !isBook {
		page, err := parsePage(raw)
		if err != nil {
			return nil, err
		}
		book.Pages = []PageRef{{Page: page, Scope: map[string]string{}}}
		return book, nil
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(pages, &entries); err != nil {
		return nil, fmt.Errorf("pages must be a list: %w", err)
	}
	for i, entry := range entries {
		ref, err := l.parseRef(entry)
		if err != nil {
			return nil, fmt.Errorf("pages[%d]: %w", i, err)
		}
		book.Pages = append(book.Pages, ref)
	}
	return book, nil
}

func (l *Loader) parseRef(entry json.RawMessage) (PageRef, error) {
	var raw rawPageRef
	if err := json.Unmarshal(entry, &raw); err != nil {
		return PageRef{}, fmt.Errorf("page entry must be an object: %w", err)
	}
	if raw.Page == nil {
		page, err := parsePage(entry)
		if err != nil {
			return PageRef{}, err
		}
		return PageRef{Page: page, Scope: map[string]string{}}, nil
	}

	scope, err := decodeScope(raw.Scope)
	if err != nil {
		return PageRef{}, err
	}
	ref := PageRef{Name: *raw.Page, Scope: scope}
	if raw.RecipePattern != nil {
		re, err := FullMatch(*raw.RecipePattern)
		if err != nil {
			return PageRef{}, fmt.Errorf("invalid recipe_pattern %q: %w", *raw.RecipePattern, err)
		}
		ref.RecipePattern = re
	}
	if len(l.Roots) > 0 {
		ref.Page, ref.Err = l.LoadPage(ref.Name)
		if ref.Err != nil {
			slog.Warn("skipping page",
				slog.String("page", ref.Name),
				slog.String("error", ref.Err.Error()))
		}
	}
	return ref, nil
}

func parsePage(raw []byte) (*Page, error) {
	var rp rawPage
	if err := json.Unmarshal(raw, &rp); err != nil {
		return nil, err
	}
	return decodePage(rp)
}

// List returns the names of the templates found in the loader's
// directories, without extension, sorted and deduplicated.
func (l *Loader) List() ([]string, error) {
	var names []string
	for _, root := range l.Roots {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if stderrors.Is(err, fs.ErrNotExist) {
					return fs.SkipAll
				}
				return err
			}
			if d.IsDir() || filepath.Ext(path) != Extension {
				return nil
			}
			rel, err := filepath.Rel(root, path)
			if err != nil {
				return err
			}
			names = append(names, strings.TrimSuffix(filepath.ToSlash(rel), Extension))
			return nil
		})
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, "failed to list templates in "+root, err)
		}
	}
	slices.Sort(names)
	return slices.Compact(names), nil
}
