// Package cli implements the command-line interface of rig, the recipe
// image generator.
//
// # Overview
//
// rig renders the recipes of a Minecraft Bedrock behavior pack into images
// using page templates. Textures come from the add-on resource pack, the
// vanilla resource pack of a shared database and answers learned while
// working; the database is synchronized with a git or OCI remote.
//
// # Commands
//
// generate - Render the recipe images of a template:
//
//	rig generate --project DIR --resource-pack DIR --behavior-pack DIR \
//	  --template NAME [--scale N] [--interactive] [--skip-pull] \
//	  [--database-url URL] [--branch B] [--format table|json|yaml] \
//	  [--metrics-file FILE]
//
// Prints a report of the written images, unused recipes and issues. Issues
// never abort a run; configuration and template errors do.
//
// sync - Synchronize the shared database:
//
//	rig sync pull|push [--database-url URL] [--branch B]
//
// properties - Maintain recipe_properties.json:
//
//	rig properties update|dump [--project DIR] [--behavior-pack DIR]
//
// templates - List templates:
//
//	rig templates list [--project DIR]
//
// # Global Flags
//
//	--log-level    Log level: debug, info, warn, error (default: info)
//	--log-format   Log format: json, text (default: json)
//	--settings     Settings file
//	--help, -h     Show command help
//	--version, -v  Show version information
//
// # Settings
//
// Project, packs, template, scale and database location given on the
// command line are merged over the settings file and remembered after a
// successful generate run. Every flag can also be set with a RIG_
// environment variable, for example RIG_DATABASE_URL.
//
// # Exit Codes
//
//	0  Success, possibly with issues in the report
//	1  Fatal error
package cli
