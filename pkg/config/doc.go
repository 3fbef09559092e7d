// Package config holds the persisted settings of the rig command and the
// directory layout of a project and its shared database.
//
// Settings live in <user config dir>/recipe-image-generator/settings.yaml
// and remember the packs, project and database remote between runs.
package config
