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

package oci

import (
	"fmt"
	"strings"

	"github.com/distribution/reference"

	apperrors "github.com/rigtool/recipe-image-generator/pkg/errors"
)

// URIScheme is the URI scheme of database URLs stored in a registry
// (e.g., "oci://ghcr.io/org/recipe-database:main").
const URIScheme = "oci://"

// Reference is a parsed OCI database URL.
type Reference struct {
	// Registry is the OCI registry host (e.g., "ghcr.io", "localhost:5000").
	Registry string
	// Repository is the repository path (e.g., "org/recipe-database").
	Repository string
	// Tag is the tag, empty when the URL has none; callers apply the
	// database branch as default.
	Tag string
}

// IsReference reports whether target uses the oci:// scheme.
func IsReference(target string) bool {
	return strings.HasPrefix(target, URIScheme)
}

// ParseReference parses an oci://registry/repository[:tag] URL.
func ParseReference(target string) (*Reference, error) {
	if !IsReference(target) {
		return nil, apperrors.New(apperrors.ErrCodeInvalidRequest,
			fmt.Sprintf("%q is not an %s reference", target, URIScheme))
	}

	ref, err := reference.ParseNormalizedNamed(strings.TrimPrefix(target, URIScheme))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidRequest, "invalid OCI reference", err)
	}

	var tag string
	if tagged, ok := ref.(reference.Tagged); ok {
		tag = tagged.Tag()
	}

	return &Reference{
		Registry:   reference.Domain(ref),
		Repository: reference.Path(ref),
		Tag:        tag,
	}, nil
}

// String returns the full reference string, "oci://registry/repository:tag"
// or without tag if empty.
func (r *Reference) String() string {
	return URIScheme + r.ImageReference()
}

// ImageReference returns the Docker-style image reference (without oci:// scheme).
func (r *Reference) ImageReference() string {
	if r.Tag == "" {
		return fmt.Sprintf("%s/%s", r.Registry, r.Repository)
	}
	return fmt.Sprintf("%s/%s:%s", r.Registry, r.Repository, r.Tag)
}

// WithTag returns a copy of the reference with the specified tag.
func (r *Reference) WithTag(tag string) *Reference {
	return &Reference{
		Registry:   r.Registry,
		Repository: r.Repository,
		Tag:        tag,
	}
}

// validate checks that the reference can be used for a transfer.
func (r *Reference) validate() error {
	if r == nil {
		return apperrors.New(apperrors.ErrCodeInvalidRequest, "OCI reference is required")
	}
	if r.Tag == "" {
		return apperrors.New(apperrors.ErrCodeInvalidRequest, "tag is required for OCI transfer")
	}
	if _, err := reference.ParseNormalizedNamed(r.ImageReference()); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInvalidRequest,
			fmt.Sprintf("invalid image reference '%s'", r.ImageReference()), err)
	}
	return nil
}
