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
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v3"

	"github.com/rigtool/recipe-image-generator/pkg/canvas"
	"github.com/rigtool/recipe-image-generator/pkg/compositor"
	"github.com/rigtool/recipe-image-generator/pkg/config"
	"github.com/rigtool/recipe-image-generator/pkg/defaults"
	"github.com/rigtool/recipe-image-generator/pkg/prompt"
	"github.com/rigtool/recipe-image-generator/pkg/recipe"
	"github.com/rigtool/recipe-image-generator/pkg/serializer"
	"github.com/rigtool/recipe-image-generator/pkg/store"
	"github.com/rigtool/recipe-image-generator/pkg/template"
	"github.com/rigtool/recipe-image-generator/pkg/texture"
)

func generateCmd() *cli.Command {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:    "template",
			Usage:   "name of the template to render, relative to the templates directory",
			Sources: cli.EnvVars("RIG_TEMPLATE"),
		},
		&cli.FloatFlag{
			Name:    "scale",
			Usage:   "scale applied to every page (default: 1)",
			Sources: cli.EnvVars("RIG_SCALE"),
		},
		&cli.BoolFlag{
			Name:  "interactive",
			Value: true,
			Usage: "ask for unresolved textures when stdin is a terminal",
		},
		&cli.BoolFlag{
			Name:  "skip-pull",
			Usage: "use the local database without pulling it first",
		},
		&cli.StringFlag{
			Name:    "metrics-file",
			Usage:   "write run metrics in Prometheus text format to this file",
			Sources: cli.EnvVars("RIG_METRICS_FILE"),
		},
		outputFlag(),
		formatFlag(),
	}
	flags = append(flags, projectFlags()...)
	flags = append(flags, databaseFlags()...)

	return &cli.Command{
		Name:                  "generate",
		EnableShellCompletion: true,
		Usage:                 "Render the recipe images of a template",
		Description: `Render every recipe of the behavior pack onto the pages of a template.

Before rendering, the shared database is pulled from its remote. Textures
are looked up in the project resource pack, the database resource pack and
the learned answers; unresolved textures are asked for interactively when
stdin is a terminal. New answers are pushed back to the database.

Project, packs, template and scale are remembered in the settings file,
so later runs only need the flags that change.

The run report can be output in JSON, YAML, or table format.

# Examples

  rig generate --project ./book --behavior-pack ./BP --resource-pack ./RP \
    --template crafting --database-url https://example.com/rig-db.git

  rig generate --skip-pull --interactive=false --format json -o report.json`,
		Flags: flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			outFormat, err := parseOutputFormat(cmd)
			if err != nil {
				return err
			}

			remembered, settings, path, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			if err := settings.ValidateGenerate(); err != nil {
				return err
			}

			interactive := cmd.Bool("interactive") && prompt.IsTerminal(os.Stdin)
			if !interactive {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, defaults.GenerateTimeout)
				defer cancel()
			}

			report, err := runGenerate(ctx, settings, generateOptions{
				interactive: interactive,
				skipPull:    cmd.Bool("skip-pull"),
			})
			if err != nil {
				return err
			}

			if err := remembered.Save(path); err != nil {
				slog.Warn("failed to save settings", "path", path, "error", err)
			}

			if metrics := cmd.String("metrics-file"); metrics != "" {
				if err := prometheus.WriteToTextfile(metrics, prometheus.DefaultGatherer); err != nil {
					slog.Warn("failed to write metrics", "path", metrics, "error", err)
				}
			}

			ser := serializer.NewFileWriterOrStdout(outFormat, cmd.String("output"))
			defer func() {
				if err := ser.Close(); err != nil {
					slog.Warn("failed to close serializer", "error", err)
				}
			}()

			return ser.Serialize(ctx, report)
		},
	}
}

type generateOptions struct {
	interactive bool
	skipPull    bool
	// chooser overrides the terminal prompt of interactive runs.
	chooser texture.Chooser
}

// runGenerate performs a full generate run. Fatal errors are returned;
// everything else ends up as an issue in the report.
func runGenerate(ctx context.Context, settings config.Settings, opts generateOptions) (*compositor.Report, error) {
	layout := config.Layout{Project: settings.Project, Database: settings.Database}
	var issues []error

	syncer, err := store.NewSyncer(settings.DatabaseURL, settings.Branch, settings.Database)
	if err != nil {
		return nil, err
	}
	if !opts.skipPull {
		if err := pull(ctx, syncer); err != nil {
			issues = append(issues, err)
		}
	}

	st, err := store.Open(settings.Project, settings.Database, store.WithSyncer(syncer))
	if err != nil {
		return nil, err
	}

	def, err := texture.LoadPack(ctx, layout.ResourcePack(), "")
	if err != nil {
		return nil, fmt.Errorf("failed to load database resource pack: %w", err)
	}
	custom, err := texture.LoadPack(ctx, settings.ResourcePack, settings.BehaviorPack)
	if err != nil {
		return nil, fmt.Errorf("failed to load add-on packs: %w", err)
	}

	var resolverOpts []texture.ResolverOption
	resolverOpts = append(resolverOpts, texture.WithLearner(st))
	if opts.interactive {
		chooser := opts.chooser
		if chooser == nil {
			chooser = prompt.NewTerminal(os.Stdin, os.Stderr)
		}
		resolverOpts = append(resolverOpts, texture.WithChooser(chooser))
	}
	resolver := texture.NewResolver(
		texture.NewIndex(def, custom, st.Learned()),
		texture.DefaultRoots(settings.ResourcePack, settings.Project, settings.Database),
		resolverOpts...)

	props, err := recipe.LoadProperties(layout.Properties())
	if err != nil {
		return nil, err
	}
	recipes, loadErrs := recipe.LoadDir(filepath.Join(settings.BehaviorPack, "recipes"))
	issues = append(issues, loadErrs...)

	book, err := template.NewLoader(layout.Templates()...).Load(settings.Template)
	if err != nil {
		return nil, err
	}

	painter := canvas.NewPainter()
	defer func() {
		if err := painter.Close(); err != nil {
			slog.Warn("failed to close fonts", "error", err)
		}
	}()

	gen := compositor.NewGenerator(compositor.Config{
		Template:  settings.Template,
		ImageDirs: layout.Images(),
		FontDirs:  layout.Fonts(),
		OutputDir: layout.Output(),
		Scale:     settings.Scale,
		Version:   version,
	}, painter, resolver, props)

	report, genErr := gen.Generate(ctx, book, recipes)

	// Answers learned before a cancellation are still worth keeping.
	flushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), defaults.SyncPushTimeout)
	defer cancel()
	if err := st.Flush(flushCtx); err != nil {
		issues = append(issues, err)
	}

	if report != nil {
		for _, err := range issues {
			report.Add("", "", err)
		}
	}
	if genErr != nil {
		return report, genErr
	}

	slog.Info("generation finished",
		"run", report.RunID,
		"images", len(report.Images),
		"unused", len(report.Unused),
		"issues", len(report.Issues),
		"duration", report.Duration)

	return report, nil
}

// pull refreshes the local database. Failures leave the local copy usable.
func pull(ctx context.Context, syncer store.Syncer) error {
	ctx, cancel := context.WithTimeout(ctx, defaults.SyncPullTimeout)
	defer cancel()
	if err := syncer.Pull(ctx); err != nil {
		return err
	}
	slog.Info("database pulled")
	return nil
}
