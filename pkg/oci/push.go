/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package oci

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	ociv1 "github.com/opencontainers/image-spec/specs-go/v1"
	oras "oras.land/oras-go/v2"
	"oras.land/oras-go/v2/content/file"
	"oras.land/oras-go/v2/registry/remote"
	"oras.land/oras-go/v2/registry/remote/auth"
	"oras.land/oras-go/v2/registry/remote/credentials"
)

// ArtifactType is the media type of database artifacts.
const ArtifactType = "application/vnd.rigtool.recipe-database"

// layerName is the name the database directory is stored under inside the
// artifact; pulling unpacks it below the target directory with this name.
const layerName = "database"

// TransferOptions configures a push or pull.
type TransferOptions struct {
	// Dir is the database directory pushed from or pulled into.
	Dir string
	// Reference is the registry location of the artifact.
	Reference *Reference
	// PlainHTTP uses HTTP instead of HTTPS for the registry connection.
	PlainHTTP bool
	// InsecureTLS skips TLS certificate verification.
	InsecureTLS bool
	// Annotations are added to the pushed manifest.
	Annotations map[string]string
}

// Result contains the result of a successful transfer.
type Result struct {
	// Digest is the SHA256 digest of the manifest.
	Digest string
	// Reference is the full image reference (registry/repository:tag).
	Reference string
}

// Push packs the database directory as a single layer and pushes it to
// the registry.
func Push(ctx context.Context, opts TransferOptions) (*Result, error) {
	if err := opts.Reference.validate(); err != nil {
		return nil, err
	}

	// Convert to absolute path to avoid ORAS working directory issues
	absDir, err := filepath.Abs(opts.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path for database dir: %w", err)
	}

	fs, err := file.New(absDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create file store: %w", err)
	}
	defer func() { _ = fs.Close() }()

	// Make tars deterministic so unchanged databases keep their digest
	fs.TarReproducible = true

	layerDesc, err := fs.Add(ctx, layerName, ociv1.MediaTypeImageLayerGzip, absDir)
	if err != nil {
		return nil, fmt.Errorf("failed to add database directory to store: %w", err)
	}

	manifestDesc, err := oras.PackManifest(ctx, fs, oras.PackManifestVersion1_1, ArtifactType,
		oras.PackManifestOptions{
			Layers:              []ociv1.Descriptor{layerDesc},
			ManifestAnnotations: opts.Annotations,
		})
	if err != nil {
		return nil, fmt.Errorf("failed to pack manifest: %w", err)
	}

	tag := opts.Reference.Tag
	if tagErr := fs.Tag(ctx, manifestDesc, tag); tagErr != nil {
		return nil, fmt.Errorf("failed to tag manifest in local store: %w", tagErr)
	}

	repo, err := newRepository(opts)
	if err != nil {
		return nil, err
	}

	desc, err := oras.Copy(ctx, fs, tag, repo, tag, oras.DefaultCopyOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to push database to registry: %w", err)
	}

	slog.Debug("database pushed",
		"reference", opts.Reference.ImageReference(),
		"digest", desc.Digest.String())

	return &Result{
		Digest:    desc.Digest.String(),
		Reference: opts.Reference.ImageReference(),
	}, nil
}

func newRepository(opts TransferOptions) (*remote.Repository, error) {
	host := stripProtocol(opts.Reference.Registry)
	repo, err := remote.NewRepository(fmt.Sprintf("%s/%s", host, opts.Reference.Repository))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize remote repository: %w", err)
	}
	repo.PlainHTTP = opts.PlainHTTP
	repo.Client = createAuthClient(opts.PlainHTTP, opts.InsecureTLS)
	return repo, nil
}

// stripProtocol removes http:// or https:// prefix from a registry URL.
func stripProtocol(registry string) string {
	registry = strings.TrimPrefix(registry, "https://")
	registry = strings.TrimPrefix(registry, "http://")
	return registry
}

// createAuthClient creates an HTTP client with optional TLS configuration
// and Docker credential support.
func createAuthClient(plainHTTP, insecureTLS bool) *auth.Client {
	credStore, _ := credentials.NewStoreFromDocker(credentials.StoreOptions{})

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if !plainHTTP && insecureTLS {
		if transport.TLSClientConfig == nil {
			transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec
		} else {
			transport.TLSClientConfig.InsecureSkipVerify = true //nolint:gosec
		}
	}

	return &auth.Client{
		Client:     &http.Client{Transport: transport},
		Cache:      auth.NewCache(),
		Credential: credentials.Credential(credStore),
	}
}
