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
	"context"
	stderrors "errors"
	"log/slog"

	"github.com/rigtool/recipe-image-generator/pkg/recipe"
	"github.com/rigtool/recipe-image-generator/pkg/store"
)

// maxAttempts bounds the prompts for one identity when answers fall
// outside every root.
const maxAttempts = 2

// Request describes the texture a Chooser is asked for.
type Request struct {
	Identity recipe.Identity
	// Recipe is the identifier of the recipe being drawn.
	Recipe string
	// Attempt starts at 1.
	Attempt int
	// Roots are the directories an answer must lie in.
	Roots Roots
}

// Chooser asks a human for the texture of an identity. It returns the
// chosen file, ErrCancelled or ErrSkipAll.
type Chooser interface {
	PromptForPath(ctx context.Context, req Request) (string, error)
}

// Learner persists answers.
type Learner interface {
	Put(ctx context.Context, target store.Target, item, variant, path string) error
}

// Resolver turns item identities into texture files, asking the Chooser
// for identities the index cannot resolve.
type Resolver struct {
	index       *Index
	roots       Roots
	chooser     Chooser
	learner     Learner
	interactive bool
	given       map[recipe.Identity]struct{}
	warnings    []error
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithChooser enables interactive resolution.
func WithChooser(c Chooser) ResolverOption {
	return func(r *Resolver) {
		r.chooser = c
		r.interactive = c != nil
	}
}

// WithLearner stores answers in l.
func WithLearner(l Learner) ResolverOption {
	return func(r *Resolver) { r.learner = l }
}

// NewResolver returns a resolver over an index and its roots.
func NewResolver(index *Index, roots Roots, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		index: index,
		roots: roots,
		given: map[recipe.Identity]struct{}{},
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Interactive reports whether unresolved identities are still prompted for.
func (r *Resolver) Interactive() bool {
	return r.interactive
}

// Warnings returns and clears the non-fatal problems met while resolving,
// such as failed pushes of learned answers.
func (r *Resolver) Warnings() []error {
	w := r.warnings
	r.warnings = nil
	return w
}

// Resolve returns the texture file of an identity or an
// *UnresolvedTextureError. Each identity is prompted for at most once per
// run.
func (r *Resolver) Resolve(ctx context.Context, id recipe.Identity, recipeID string) (string, error) {
	reason := "not in any texture index"
	for i, e := range r.index.Candidates(id) {
		p, err := r.roots.Resolve(e.Path)
		if err == nil {
			lookupsTotal.WithLabelValues(e.Layer.String()).Inc()
			return p, nil
		}
		if i == 0 {
			reason = err.Error()
		}
	}

	if !r.interactive {
		return "", r.miss(id, recipeID, reason)
	}
	if _, asked := r.given[id]; asked {
		return "", r.miss(id, recipeID, "prompt already dismissed")
	}
	r.given[id] = struct{}{}
	return r.prompt(ctx, id, recipeID)
}

func (r *Resolver) prompt(ctx context.Context, id recipe.Identity, recipeID string) (string, error) {
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		chosen, err := r.chooser.PromptForPath(ctx, Request{
			Identity: id,
			Recipe:   recipeID,
			Attempt:  attempt,
			Roots:    r.roots,
		})
		switch {
		case stderrors.Is(err, ErrSkipAll):
			promptsTotal.WithLabelValues("skip_all").Inc()
			slog.Info("interactive texture resolution disabled for this run")
			r.interactive = false
			return "", r.miss(id, recipeID, "prompts skipped")
		case stderrors.Is(err, ErrCancelled):
			promptsTotal.WithLabelValues("cancelled").Inc()
			return "", r.miss(id, recipeID, "prompt cancelled")
		case err != nil:
			promptsTotal.WithLabelValues("error").Inc()
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			return "", r.miss(id, recipeID, err.Error())
		}

		symbolic, target, err := r.roots.Symbolize(chosen)
		if err != nil {
			promptsTotal.WithLabelValues("rejected").Inc()
			slog.Warn("texture answer rejected", "identity", id.String(), "error", err)
			r.warnings = append(r.warnings, err)
			continue
		}
		promptsTotal.WithLabelValues("chosen").Inc()

		r.index.Learn(id, symbolic)
		if r.learner != nil {
			if err := r.learner.Put(ctx, target, id.Item, id.Variant, symbolic); err != nil {
				slog.Warn("failed to store texture answer", "identity", id.String(), "error", err)
				r.warnings = append(r.warnings, err)
			}
		}

		if p, err := r.roots.Resolve(symbolic); err == nil {
			lookupsTotal.WithLabelValues(LayerLearned.String()).Inc()
			return p, nil
		}
		return chosen, nil
	}
	return "", r.miss(id, recipeID, "answer outside every texture root")
}

func (r *Resolver) miss(id recipe.Identity, recipeID, reason string) error {
	missesTotal.Inc()
	return &UnresolvedTextureError{Identity: id, Recipe: recipeID, Reason: reason}
}
