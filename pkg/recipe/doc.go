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

// Package recipe models the recipes of a behavior pack and the per-recipe
// properties that templates reference through $last_recipe.
//
// # Recipes
//
// A Recipe has an identifier, a Kind and a set of slots. Crafting recipes
// (shaped and shapeless) use "col,row" keys for the 3x3 grid plus "result";
// furnace recipes use "input" and "output"; brewing recipes add "reagent".
// Every slot holds an ItemRef whose Identity is the key used for texture
// lookups.
//
// Recipes are read from behavior pack files:
//
//	recipes, errs := recipe.LoadDir(filepath.Join(bp, "recipes"))
//	for _, err := range errs {
//	    slog.Warn("skipping recipe", "error", err)
//	}
//
// Supported file types are minecraft:recipe_shaped, minecraft:recipe_shapeless,
// minecraft:recipe_furnace and minecraft:recipe_brewing_mix.
//
// # Item references
//
// Item references accept the forms used by the game:
//
//	"stick"                                  -> minecraft:stick, variant 0
//	"minecraft:planks:2"                     -> minecraft:planks, variant 2
//	{"item": "wool", "data": 14}             -> minecraft:wool, variant 14
//	"pig_spawn_egg"                          -> minecraft:spawn_egg, variant minecraft:pig
//	{"item": "spawn_egg", "data": "query.get_actor_info_id('minecraft:cow')"}
//
// # Properties
//
// Properties maps a recipe identifier to named values, each a string or a
// list of strings. Lists render newline-joined.
package recipe
