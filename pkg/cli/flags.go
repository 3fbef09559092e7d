/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/rigtool/recipe-image-generator/pkg/config"
	"github.com/rigtool/recipe-image-generator/pkg/defaults"
	"github.com/rigtool/recipe-image-generator/pkg/serializer"
)

// outputFlag returns the --output flag of commands that write documents.
func outputFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "output file path (default: stdout)",
	}
}

// formatFlag returns the --format flag; table is the default.
func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"t"},
		Value:   string(serializer.FormatTable),
		Usage:   fmt.Sprintf("output format (%s)", strings.Join(serializer.SupportedFormats(), ", ")),
	}
}

// parseOutputFormat returns the validated --format value.
func parseOutputFormat(cmd *cli.Command) (serializer.Format, error) {
	f := serializer.Format(cmd.String("format"))
	if f.IsUnknown() {
		return "", fmt.Errorf("unknown output format: %q", f)
	}
	return f, nil
}

// databaseFlags locate the shared database and its remote.
func databaseFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "database-url",
			Usage:   "remote of the shared database (git URL or oci://registry/repo[:tag])",
			Sources: cli.EnvVars("RIG_DATABASE_URL"),
		},
		&cli.StringFlag{
			Name:    "branch",
			Usage:   fmt.Sprintf("database branch or tag (default: %s)", defaults.DatabaseBranch),
			Sources: cli.EnvVars("RIG_BRANCH"),
		},
		&cli.StringFlag{
			Name:    "database",
			Usage:   "local database directory (default: <user cache dir>/recipe-image-generator/database)",
			Sources: cli.EnvVars("RIG_DATABASE"),
		},
	}
}

// projectFlags locate the project and its packs.
func projectFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "project",
			Aliases: []string{"p"},
			Usage:   "project directory holding templates, images, fonts and output",
			Sources: cli.EnvVars("RIG_PROJECT"),
		},
		&cli.StringFlag{
			Name:    "resource-pack",
			Usage:   "resource pack directory of the add-on",
			Sources: cli.EnvVars("RIG_RESOURCE_PACK"),
		},
		&cli.StringFlag{
			Name:    "behavior-pack",
			Usage:   "behavior pack directory of the add-on",
			Sources: cli.EnvVars("RIG_BEHAVIOR_PACK"),
		},
	}
}

// settingsFromFlags returns the settings given on the command line. Flags
// the command does not define stay empty.
func settingsFromFlags(cmd *cli.Command) config.Settings {
	str := func(name string) string {
		if !cmd.IsSet(name) {
			return ""
		}
		return cmd.String(name)
	}
	s := config.Settings{
		ResourcePack: str("resource-pack"),
		BehaviorPack: str("behavior-pack"),
		Project:      str("project"),
		Template:     str("template"),
		DatabaseURL:  str("database-url"),
		Branch:       str("branch"),
		Database:     str("database"),
	}
	if cmd.IsSet("scale") {
		s.Scale = cmd.Float("scale")
	}
	return s
}

// loadSettings merges the command line over the settings file. It returns
// the merged settings before defaults are applied, which is what gets
// remembered, and the normalized settings used for the run.
func loadSettings(cmd *cli.Command) (remembered, settings config.Settings, path string, err error) {
	path = cmd.String("settings")
	if path == "" {
		if path, err = config.DefaultPath(); err != nil {
			return remembered, settings, "", err
		}
	}

	file, err := config.Load(path)
	if err != nil {
		return remembered, settings, path, err
	}

	remembered = file.Merge(settingsFromFlags(cmd))
	settings = remembered
	if settings.Branch == "" {
		slog.Warn("no database branch configured, using default", "branch", defaults.DatabaseBranch)
	}
	if err := settings.Normalize(); err != nil {
		return remembered, settings, path, err
	}

	slog.Debug("settings loaded",
		"path", path,
		"project", settings.Project,
		"database", settings.Database,
		"branch", settings.Branch)

	return remembered, settings, path, nil
}
