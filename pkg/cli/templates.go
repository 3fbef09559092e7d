/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/rigtool/recipe-image-generator/pkg/config"
	"github.com/rigtool/recipe-image-generator/pkg/header"
	"github.com/rigtool/recipe-image-generator/pkg/serializer"
	"github.com/rigtool/recipe-image-generator/pkg/template"
)

// templateListing is the output of templates list.
type templateListing struct {
	header.Header `json:",inline" yaml:",inline"`

	Templates []string `json:"templates" yaml:"templates"`
}

func (l templateListing) TableHeader() []string { return []string{"TEMPLATE"} }

func (l templateListing) TableRows() [][]string {
	rows := make([][]string, len(l.Templates))
	for i, t := range l.Templates {
		rows[i] = []string{t}
	}
	return rows
}

func templatesCmd() *cli.Command {
	return &cli.Command{
		Name:                  "templates",
		EnableShellCompletion: true,
		Usage:                 "Inspect the available templates",
		Description: `Templates are searched in the templates directory of the project
first and then in the templates directory of the shared database.`,
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List the template names usable with generate --template",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "project",
						Aliases: []string{"p"},
						Usage:   "project directory holding the templates",
						Sources: cli.EnvVars("RIG_PROJECT"),
					},
					&cli.StringFlag{
						Name:    "database",
						Usage:   "local database directory",
						Sources: cli.EnvVars("RIG_DATABASE"),
					},
					outputFlag(),
					formatFlag(),
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					outFormat, err := parseOutputFormat(cmd)
					if err != nil {
						return err
					}
					_, settings, _, err := loadSettings(cmd)
					if err != nil {
						return err
					}

					layout := config.Layout{Project: settings.Project, Database: settings.Database}
					names, err := template.NewLoader(layout.Templates()...).List()
					if err != nil {
						return err
					}

					ser := serializer.NewFileWriterOrStdout(outFormat, cmd.String("output"))
					defer func() {
						if err := ser.Close(); err != nil {
							slog.Warn("failed to close serializer", "error", err)
						}
					}()
					listing := templateListing{Templates: names}
					listing.Init(header.KindTemplateList, version)
					return ser.Serialize(ctx, listing)
				},
			},
		},
	}
}
