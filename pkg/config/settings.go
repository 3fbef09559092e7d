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

package config

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/rigtool/recipe-image-generator/pkg/defaults"
	"github.com/rigtool/recipe-image-generator/pkg/errors"
	"github.com/rigtool/recipe-image-generator/pkg/serializer"
)

// AppDir is the directory name used under the user config and cache
// directories.
const AppDir = "recipe-image-generator"

// SettingsFile is the name of the persisted settings file.
const SettingsFile = "settings.yaml"

// Settings are the values remembered between runs. Command line flags
// override them.
type Settings struct {
	// ResourcePack is the custom resource pack of the project.
	ResourcePack string `json:"resourcePack,omitempty" yaml:"resourcePack,omitempty"`
	// BehaviorPack holds the recipes to draw.
	BehaviorPack string `json:"behaviorPack,omitempty" yaml:"behaviorPack,omitempty"`
	// Project holds templates, images, fonts and recipe properties.
	Project string `json:"project,omitempty" yaml:"project,omitempty"`
	// Template is the last generated template.
	Template string `json:"template,omitempty" yaml:"template,omitempty"`
	// Scale multiplies the scale of every page.
	Scale float64 `json:"scale,omitempty" yaml:"scale,omitempty"`

	// DatabaseURL is the remote of the shared database, a git URL or an
	// oci:// reference.
	DatabaseURL string `json:"databaseUrl,omitempty" yaml:"databaseUrl,omitempty"`
	// Branch is the git branch or OCI tag of the database.
	Branch string `json:"branch,omitempty" yaml:"branch,omitempty"`
	// Database is the local copy of the shared database.
	Database string `json:"database,omitempty" yaml:"database,omitempty"`
}

// DefaultPath returns the settings file in the user config directory.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate user config directory: %w", err)
	}
	return filepath.Join(dir, AppDir, SettingsFile), nil
}

// Load reads settings from path. A missing file yields empty settings.
func Load(path string) (*Settings, error) {
	s, err := serializer.FromFile[Settings](path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			slog.Debug("no settings file", "path", path)
			return &Settings{}, nil
		}
		return nil, errors.Wrap(errors.ErrCodeConfiguration, "failed to read settings", err)
	}
	return s, nil
}

// Save writes the settings to path.
func (s *Settings) Save(path string) error {
	if err := serializer.WriteYAMLFile(path, s); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, "failed to save settings", err)
	}
	return nil
}

// Merge returns a copy of s with every non-zero field of o applied.
func (s Settings) Merge(o Settings) Settings {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&s.ResourcePack, o.ResourcePack)
	set(&s.BehaviorPack, o.BehaviorPack)
	set(&s.Project, o.Project)
	set(&s.Template, o.Template)
	set(&s.DatabaseURL, o.DatabaseURL)
	set(&s.Branch, o.Branch)
	set(&s.Database, o.Database)
	if o.Scale > 0 {
		s.Scale = o.Scale
	}
	return s
}

// Normalize fills the defaults: branch, scale and the local database
// directory.
func (s *Settings) Normalize() error {
	if s.Branch == "" {
		s.Branch = defaults.DatabaseBranch
	}
	if s.Scale <= 0 {
		s.Scale = 1
	}
	if s.Database == "" {
		dir, err := os.UserCacheDir()
		if err != nil {
			return errors.Wrap(errors.ErrCodeConfiguration, "failed to locate user cache directory", err)
		}
		s.Database = filepath.Join(dir, AppDir, "database")
	}
	return nil
}

// ValidateRemote checks the settings needed to talk to the database remote.
func (s *Settings) ValidateRemote() error {
	if s.DatabaseURL == "" {
		return errors.New(errors.ErrCodeConfiguration,
			"database URL is not configured (use --database-url or RIG_DATABASE_URL)")
	}
	return nil
}

// ValidateGenerate checks the settings a generate run needs.
func (s *Settings) ValidateGenerate() error {
	if err := s.ValidateRemote(); err != nil {
		return err
	}
	var missing []string
	if s.Project == "" {
		missing = append(missing, "project")
	}
	if s.BehaviorPack == "" {
		missing = append(missing, "behavior pack")
	}
	if s.Template == "" {
		missing = append(missing, "template")
	}
	if len(missing) > 0 {
		return errors.NewWithContext(errors.ErrCodeConfiguration,
			fmt.Sprintf("missing settings: %v", missing),
			map[string]any{"missing": missing})
	}
	return nil
}

// Layout resolves the directories of a generation run.
type Layout struct {
	Project  string
	Database string
}

// Templates returns the template roots, project first.
func (l Layout) Templates() []string { return l.both(defaults.TemplatesDir) }

// Images returns the image roots, project first.
func (l Layout) Images() []string { return l.both(defaults.ImagesDir) }

// Fonts returns the font roots, project first.
func (l Layout) Fonts() []string { return l.both(defaults.FontsDir) }

// Output returns the directory receiving generated images.
func (l Layout) Output() string { return filepath.Join(l.Project, defaults.OutputDir) }

// Properties returns the recipe properties file.
func (l Layout) Properties() string {
	return filepath.Join(l.Project, defaults.RecipePropertiesFile)
}

// ResourcePack returns the vanilla resource pack of the database.
func (l Layout) ResourcePack() string {
	return filepath.Join(l.Database, defaults.ResourcePackDir)
}

func (l Layout) both(sub string) []string {
	return []string{filepath.Join(l.Project, sub), filepath.Join(l.Database, sub)}
}
