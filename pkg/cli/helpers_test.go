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


package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/rigtool/recipe-image-generator/pkg/config"
	"github.com/rigtool/recipe-image-generator/pkg/defaults"
	"github.com/rigtool/recipe-image-generator/pkg/serializer"
)

func TestParseOutputFormat(t *testing.T) {
	tests := []struct {
		name       string
		format     string
		wantFormat serializer.Format
		wantErr    bool
	}{
		{name: "valid yaml format", format: "yaml", wantFormat: serializer.FormatYAML},
		{name: "valid json format", format: "json", wantFormat: serializer.FormatJSON},
		{name: "valid table format", format: "table", wantFormat: serializer.FormatTable},
		{name: "invalid format xml", format: "xml", wantErr: true},
		{name: "invalid format markdown", format: "md", wantErr: true},
		{name: "empty format", format: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Create a minimal CLI command with the format flag
			cmd := &cli.Command{
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "format",
						Value: tt.format,
					},
				},
				Action: func(_ context.Context, c *cli.Command) error {
					got, err := parseOutputFormat(c)
					if tt.wantErr {
						assert.Error(t, err)
						return nil
					}
					assert.NoError(t, err)
					assert.Equal(t, tt.wantFormat, got)
					return nil
				},
			}

			require.NoError(t, cmd.Run(context.Background(), []string{"test"}))
		})
	}
}

// settingsCmd returns a command carrying every settings flag that captures
// what loadSettings returns.
func settingsCmd(remembered, settings *config.Settings) *cli.Command {
	flags := []cli.Flag{
		&cli.StringFlag{Name: "settings"},
		&cli.StringFlag{Name: "template"},
		&cli.FloatFlag{Name: "scale"},
	}
	flags = append(flags, projectFlags()...)
	flags = append(flags, databaseFlags()...)
	return &cli.Command{
		Name:  "test",
		Flags: flags,
		Action: func(_ context.Context, cmd *cli.Command) error {
			r, s, _, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			*remembered, *settings = r, s
			return nil
		},
	}
}

func TestLoadSettings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")
	file := config.Settings{
		Project:      "/file/project",
		BehaviorPack: "/file/BP",
		Template:     "crafting",
		Scale:        2,
		DatabaseURL:  "https://example.com/db.git",
	}
	require.NoError(t, file.Save(path))

	t.Run("flags override the file", func(t *testing.T) {
		var remembered, settings config.Settings
		cmd := settingsCmd(&remembered, &settings)
		require.NoError(t, cmd.Run(context.Background(), []string{"test",
			"--settings", path,
			"--project", "/flag/project",
			"--scale", "3",
			"--database", filepath.Join(dir, "db"),
		}))

		assert.Equal(t, "/flag/project", settings.Project)
		assert.Equal(t, "/file/BP", settings.BehaviorPack)
		assert.Equal(t, "crafting", settings.Template)
		assert.Equal(t, 3.0, settings.Scale)
		assert.Equal(t, filepath.Join(dir, "db"), settings.Database)
		assert.Equal(t, defaults.DatabaseBranch, settings.Branch)

		assert.Empty(t, remembered.Branch, "defaults are not remembered")
		assert.Equal(t, "/flag/project", remembered.Project)
	})

	t.Run("environment", func(t *testing.T) {
		t.Setenv("RIG_BRANCH", "dev")
		var remembered, settings config.Settings
		cmd := settingsCmd(&remembered, &settings)
		require.NoError(t, cmd.Run(context.Background(), []string{"test",
			"--settings", path,
			"--database", filepath.Join(dir, "db"),
		}))
		assert.Equal(t, "dev", settings.Branch)
		assert.Equal(t, "/file/project", settings.Project)
	})

	t.Run("missing file", func(t *testing.T) {
		var remembered, settings config.Settings
		cmd := settingsCmd(&remembered, &settings)
		require.NoError(t, cmd.Run(context.Background(), []string{"test",
			"--settings", filepath.Join(dir, "none.yaml"),
			"--database", filepath.Join(dir, "db"),
		}))
		assert.Empty(t, settings.Project)
		assert.Equal(t, 1.0, settings.Scale)
	})

	t.Run("invalid file", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.yaml")
		require.NoError(t, os.WriteFile(bad, []byte("project: [unclosed"), 0o600))
		var remembered, settings config.Settings
		cmd := settingsCmd(&remembered, &settings)
		assert.Error(t, cmd.Run(context.Background(), []string{"test", "--settings", bad}))
	})
}

func hasName(flag cli.Flag, name string) bool {
	if flag == nil {
		return false
	}
	for _, n := range flag.Names() {
		if n == name {
			return true
		}
	}
	return false
}
