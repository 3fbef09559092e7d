/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/rigtool/recipe-image-generator/pkg/logging"
)

const (
	name           = "rig"
	versionDefault = "dev"
)

var (
	// overridden during build with ldflags
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

// newRootCmd returns the rig command with all subcommands attached.
func newRootCmd() *cli.Command {
	return &cli.Command{
		Name:                  name,
		EnableShellCompletion: true,
		Usage:                 "rig - recipe image generator",
		Version:               fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		Description: `Renders recipe images for Minecraft Bedrock add-ons.

Templates describe pages with a background, images, text and recipe
grids. Every recipe of the behavior pack is drawn onto the pages of a
template; textures are looked up in the resource packs and a shared
database that learns new answers while you work.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "info",
				Usage:   "log level (debug, info, warn, error)",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
			&cli.StringFlag{
				Name:    "log-format",
				Value:   logging.FormatJSON,
				Usage:   "log format (json, text)",
				Sources: cli.EnvVars("LOG_FORMAT"),
			},
			&cli.StringFlag{
				Name:    "settings",
				Usage:   "settings file (default is <user config dir>/recipe-image-generator/settings.yaml)",
				Sources: cli.EnvVars("RIG_SETTINGS"),
			},
		},
		Before: initLogger,
		Commands: []*cli.Command{
			generateCmd(),
			syncCmd(),
			propertiesCmd(),
			templatesCmd(),
		},
	}
}

// Execute runs the root command with the process arguments and exits
// non-zero on failure. This is called by main.main().
func Execute() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle SIGINT/SIGTERM for graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nReceived interrupt signal, shutting down gracefully...")
		cancel()
	}()

	if err := newRootCmd().Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// initLogger configures slog after flags are parsed so overrides like
// --log-level take effect before any command executes.
func initLogger(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	logLevel := cmd.String("log-level")
	logging.SetDefaultLoggerWithFormat(name, version, logLevel, cmd.String("log-format"))
	slog.Debug("starting",
		"name", name,
		"version", version,
		"commit", commit,
		"date", date,
		"logLevel", logLevel)
	return ctx, nil
}
