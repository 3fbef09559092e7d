/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/rigtool/recipe-image-generator/pkg/config"
	"github.com/rigtool/recipe-image-generator/pkg/errors"
	"github.com/rigtool/recipe-image-generator/pkg/recipe"
)

func propertiesCmd() *cli.Command {
	return &cli.Command{
		Name:                  "properties",
		EnableShellCompletion: true,
		Usage:                 "Maintain the recipe properties of a project",
		Description: `Recipe properties are per-recipe text values, such as a name or a
description, that templates reference with $recipe.<field>. They live in
recipe_properties.json in the project directory.`,
		Flags: projectFlags(),
		Commands: []*cli.Command{
			{
				Name:  "update",
				Usage: "Add empty name and description entries for new recipes",
				Action: func(_ context.Context, cmd *cli.Command) error {
					_, settings, _, err := loadSettings(cmd)
					if err != nil {
						return err
					}
					if settings.Project == "" || settings.BehaviorPack == "" {
						return errors.New(errors.ErrCodeConfiguration,
							"properties update needs a project and a behavior pack")
					}

					recipes, loadErrs := recipe.LoadDir(filepath.Join(settings.BehaviorPack, "recipes"))
					for _, err := range loadErrs {
						slog.Warn("recipe skipped", "error", err)
					}

					path := config.Layout{Project: settings.Project}.Properties()
					added, err := recipe.UpdateProperties(path, recipes)
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.Root().Writer, "added %d of %d recipes to %s\n", added, len(recipes), path)
					return nil
				},
			},
			{
				Name:  "dump",
				Usage: "Write the non-empty properties as a markdown listing",
				Flags: []cli.Flag{outputFlag()},
				Action: func(_ context.Context, cmd *cli.Command) error {
					_, settings, _, err := loadSettings(cmd)
					if err != nil {
						return err
					}
					if settings.Project == "" {
						return errors.New(errors.ErrCodeConfiguration, "properties dump needs a project")
					}

					props, err := recipe.LoadProperties(config.Layout{Project: settings.Project}.Properties())
					if err != nil {
						return err
					}
					if out := cmd.String("output"); out != "" {
						return recipe.WriteMarkdown(out, props)
					}
					fmt.Fprintln(cmd.Root().Writer, recipe.DumpMarkdown(props))
					return nil
				},
			},
		},
	}
}
