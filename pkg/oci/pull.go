/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package oci

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	oras "oras.land/oras-go/v2"
	"oras.land/oras-go/v2/content/file"
)

// Pull fetches the database artifact and replaces the content of the
// database directory with it. The directory is only replaced once the
// artifact was unpacked completely.
func Pull(ctx context.Context, opts TransferOptions) (*Result, error) {
	if err := opts.Reference.validate(); err != nil {
		return nil, err
	}

	absDir, err := filepath.Abs(opts.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path for database dir: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(absDir), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create parent of database dir: %w", err)
	}

	staging, err := os.MkdirTemp(filepath.Dir(absDir), ".pull-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create staging directory: %w", err)
	}
	defer os.RemoveAll(staging)

	fs, err := file.New(staging)
	if err != nil {
		return nil, fmt.Errorf("failed to create file store: %w", err)
	}
	defer func() { _ = fs.Close() }()

	repo, err := newRepository(opts)
	if err != nil {
		return nil, err
	}

	tag := opts.Reference.Tag
	desc, err := oras.Copy(ctx, repo, tag, fs, tag, oras.DefaultCopyOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to pull database from registry: %w", err)
	}

	unpacked := filepath.Join(staging, layerName)
	if _, err := os.Stat(unpacked); err != nil {
		return nil, fmt.Errorf("artifact %s has no %s layer: %w",
			opts.Reference.ImageReference(), layerName, err)
	}
	if err := replaceDir(unpacked, absDir); err != nil {
		return nil, err
	}

	slog.Debug("database pulled",
		"reference", opts.Reference.ImageReference(),
		"digest", desc.Digest.String(),
		"dir", absDir)

	return &Result{
		Digest:    desc.Digest.String(),
		Reference: opts.Reference.ImageReference(),
	}, nil
}

// replaceDir moves src to dst, keeping the old dst until the move succeeded.
func replaceDir(src, dst string) error {
	backup := dst + ".old"
	if err := os.RemoveAll(backup); err != nil {
		return fmt.Errorf("failed to clear %s: %w", backup, err)
	}
	hadOld := true
	if err := os.Rename(dst, backup); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to move %s aside: %w", dst, err)
		}
		hadOld = false
	}
	if err := os.Rename(src, dst); err != nil {
		if hadOld {
			_ = os.Rename(backup, dst)
		}
		return fmt.Errorf("failed to move pulled database into place: %w", err)
	}
	return os.RemoveAll(backup)
}
