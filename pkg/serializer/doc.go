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

// Package serializer provides encoding and decoding of rig's files and
// reports in multiple formats.
//
// # Supported Formats
//
// JSON:
//   - Templates, recipe properties and texture maps
//   - Comments and trailing commas are accepted on read (JSONC)
//
// YAML:
//   - Settings file and human-readable reports
//   - gopkg.in/yaml.v3 package
//
// Table:
//   - Terminal output of reports and listings
//   - Values implementing Tabular print as columns, anything else is
//     flattened into FIELD/VALUE rows
//   - Write-only
//
// # Usage - Encoding
//
//	w := serializer.NewFileWriterOrStdout(serializer.FormatTable, "")
//	defer w.Close()
//	if err := w.Serialize(ctx, report); err != nil {
//	    return err
//	}
//
// # Usage - Decoding
//
//	book, err := serializer.FromFile[template.File]("templates/book.json")
//
// Documents that are walked with path queries rather than decoded:
//
//	raw, err := serializer.ReadJSONC("RP/textures/item_texture.json")
//	gjson.GetBytes(raw, "texture_data")
package serializer
