/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"log/slog"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/rigtool/recipe-image-generator/pkg/defaults"
	"github.com/rigtool/recipe-image-generator/pkg/store"
)

func syncCmd() *cli.Command {
	return &cli.Command{
		Name:                  "sync",
		EnableShellCompletion: true,
		Usage:                 "Synchronize the shared texture database",
		Description: `Pull the shared database from its remote or push local changes to it.

The remote is a git repository, or an OCI registry when the URL starts
with oci://. The branch doubles as the tag of OCI artifacts.`,
		Flags: databaseFlags(),
		Commands: []*cli.Command{
			{
				Name:  "pull",
				Usage: "Replace the local database with the remote one",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return runSync(ctx, cmd, "pull", defaults.SyncPullTimeout, store.Syncer.Pull)
				},
			},
			{
				Name:  "push",
				Usage: "Publish local database changes",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return runSync(ctx, cmd, "push", defaults.SyncPushTimeout, store.Syncer.Push)
				},
			},
		},
	}
}

func runSync(ctx context.Context, cmd *cli.Command, op string, timeout time.Duration,
	fn func(store.Syncer, context.Context) error) error {
	_, settings, _, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	if err := settings.ValidateRemote(); err != nil {
		return err
	}

	syncer, err := store.NewSyncer(settings.DatabaseURL, settings.Branch, settings.Database)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	if err := fn(syncer, ctx); err != nil {
		return err
	}
	slog.Info("database synchronized",
		"op", op,
		"url", settings.DatabaseURL,
		"dir", settings.Database,
		"duration", time.Since(start))
	return nil
}
