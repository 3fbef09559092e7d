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

package defaults

// Database layout.
const (
	// DatabaseBranch is used when no branch is configured.
	DatabaseBranch = "main"

	// DataMapFile holds hand-mapped and learned textures.
	DataMapFile = "data_map.json"

	// RecipePropertiesFile lives in the project directory.
	RecipePropertiesFile = "recipe_properties.json"

	// CommitMessage is used for automatic pushes of learned textures.
	CommitMessage = "Automatic update of the texture data map"
)

// Project directory names. Each is searched under the project directory
// first and then under the database directory.
const (
	TemplatesDir    = "templates"
	ImagesDir       = "images"
	FontsDir        = "fonts"
	BlockImagesDir  = "block-images"
	ResourcePackDir = "RP"
	OutputDir       = "output"
)

// Text rendering defaults.
const (
	TextSize      = 12.0
	TextAnchor    = "la"
	TextSpacing   = 1.0
	TextAlignment = "left"
)

// TextColor is opaque white.
var TextColor = [4]uint8{255, 255, 255, 255}

// Output naming.
const (
	// OutputNamePattern is used when a page does not set output_file_name.
	OutputNamePattern = "${template_name}"

	// UnknownName replaces output name tokens that have no value.
	UnknownName = "unknown"

	// DefaultNamespace is prepended to item names without one.
	DefaultNamespace = "minecraft"
)
