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

// Package texture finds the texture file of an item.
//
// Textures are looked up in three layers. The default layer is read from
// the resource pack of the shared database, the custom layer from the
// project's resource and behavior packs, and the learned layer from the
// data_map.json answers given to earlier prompts. Custom entries beat
// default ones; learned entries only answer for items neither pack maps.
//
// Entries are symbolic paths: "RP/textures/items/stick" resolves against
// the project resource pack and then the database one, and
// "block-images/stone" against the block-images directories. A .png or
// .tga extension is added when the path has none.
//
// When nothing resolves and a Chooser is configured, the Resolver asks for
// the file once per item, stores the answer and pushes it to the database
// remote so the question is not asked again by anyone on the team.
package texture
