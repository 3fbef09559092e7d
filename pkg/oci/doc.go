// Package oci stores the shared recipe database in an OCI registry.
//
// The database directory is packed as a single gzipped tar layer of an
// OCI 1.1 artifact using ORAS, and unpacked again on pull. This lets teams
// that already run a registry share learned textures without a git server.
//
// # Usage
//
//	ref, err := oci.ParseReference("oci://ghcr.io/org/recipe-database:main")
//	if err != nil {
//	    return err
//	}
//	res, err := oci.Push(ctx, oci.TransferOptions{Dir: databaseDir, Reference: ref})
//
// # Authentication
//
// Credentials are loaded from the standard Docker configuration
// (~/.docker/config.json) using the ORAS credentials package.
//
// # Artifact Type
//
// Artifacts are pushed with the media type
// "application/vnd.rigtool.recipe-database".
package oci
