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
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/rigtool/recipe-image-generator/pkg/errors"
	"github.com/rigtool/recipe-image-generator/pkg/header"
)

// Issue is a non-fatal problem met during generation.
type Issue struct {
	Code    errors.ErrorCode `json:"code" yaml:"code"`
	Page    string           `json:"page,omitempty" yaml:"page,omitempty"`
	Recipe  string           `json:"recipe,omitempty" yaml:"recipe,omitempty"`
	Message string           `json:"message" yaml:"message"`
}

// Image is one written page image.
type Image struct {
	Number  int      `json:"number" yaml:"number"`
	Path    string   `json:"path" yaml:"path"`
	Page    string   `json:"page" yaml:"page"`
	Recipes []string `json:"recipes,omitempty" yaml:"recipes,omitempty"`
}

// Report summarizes a generation run.
type Report struct {
	header.Header `json:",inline" yaml:",inline"`

	RunID    string        `json:"runId" yaml:"runId"`
	Template string        `json:"template" yaml:"template"`
	Started  time.Time     `json:"started" yaml:"started"`
	Duration time.Duration `json:"duration" yaml:"duration"`
	Images   []Image       `json:"images" yaml:"images"`
	// Unused lists the recipes no page drew.
	Unused []string `json:"unused,omitempty" yaml:"unused,omitempty"`
	Issues []Issue  `json:"issues,omitempty" yaml:"issues,omitempty"`
}

// Add records err as an issue. Issues are logged as warnings when added.
func (r *Report) Add(page, recipeID string, err error) {
	code := errors.CodeOf(err)
	r.Issues = append(r.Issues, Issue{
		Code:    code,
		Page:    page,
		Recipe:  recipeID,
		Message: err.Error(),
	})
	issuesTotal.WithLabelValues(string(code)).Inc()
	slog.Warn("generation issue",
		"run", r.RunID,
		"code", code,
		"page", page,
		"recipe", recipeID,
		"error", err)
}

// Count returns the number of issues with the given code.
func (r *Report) Count(code errors.ErrorCode) int {
	n := 0
	for _, i := range r.Issues {
		if i.Code == code {
			n++
		}
	}
	return n
}

// TableHeader implements serializer.Tabular.
func (r *Report) TableHeader() []string {
	return []string{"KIND", "SUBJECT", "DETAIL"}
}

// TableRows implements serializer.Tabular.
func (r *Report) TableRows() [][]string {
	rows := make([][]string, 0, len(r.Images)+len(r.Issues)+1)
	for _, img := range r.Images {
		rows = append(rows, []string{"image", img.Path, strings.Join(img.Recipes, ", ")})
	}
	if len(r.Unused) > 0 {
		rows = append(rows, []string{"unused", fmt.Sprintf("%d recipes", len(r.Unused)), strings.Join(r.Unused, ", ")})
	}
	for _, i := range r.Issues {
		subject := i.Page
		if i.Recipe != "" {
			subject += " " + i.Recipe
		}
		rows = append(rows, []string{string(i.Code), strings.TrimSpace(subject), i.Message})
	}
	return rows
}
