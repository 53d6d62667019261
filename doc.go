// Package main implements the modrelease CLI tool.
//
// The modrelease tool tags a new release of a Go module that lives inside a
// repository holding several modules. It reads the module's go.mod, checks
// that the workspace has no uncommitted changes, fetches tags from the
// remote, finds the highest existing version for the module and tags the
// next patch version. The branch and tags are then pushed to the remote.
//
// Tags are scoped by the module's directory relative to the repository
// root, the layout the go command resolves nested module versions from:
//
//	go.mod                 ->  v1.2.3
//	services/api/go.mod    ->  services/api/v1.2.3
//
// Command Usage:
//
//	modrelease -m <go.mod> [flags]
//
// Flags:
//
//	-m, --mod:      Path to the go.mod of the module to release. Required.
//	-v, --version:  Tag to create verbatim instead of computing the next version.
//	--bump:         Version component to increment: patch (default), minor or major.
//	--remote:       Remote to fetch tags from and push to. (Defaults to "origin")
//	--branch:       Branch pushed together with the tags. (Defaults to "master")
//	--dry-run:      Compute the release tag without creating or pushing it.
//	--verbose:      Enable debug output, including every git invocation.
//	--config:       Config file. (Defaults to ".modrelease.yaml" if present)
//
// Each flag may also be set with a MODRELEASE_ environment variable, for
// example MODRELEASE_REMOTE=upstream or MODRELEASE_DRY_RUN=true.
//
// Examples:
//
//	# Release the root module (v1.2.3 -> v1.2.4)
//	modrelease -m go.mod
//
//	# Release a nested module (services/api/v0.4.1 -> services/api/v0.4.2)
//	modrelease -m services/api/go.mod
//
//	# Start a new minor series (services/api/v0.4.1 -> services/api/v0.5.0)
//	modrelease -m services/api/go.mod --bump minor
//
//	# Create the first release of a module
//	modrelease -m services/api/go.mod -v services/api/v0.1.0
//
// Exit status is 0 on success and non-zero on any failure: 2 for invalid
// usage, 3 when the file is not a go.mod, 4 when the workspace is dirty, 5
// when the module has no release yet, and 1 for anything else.
//
// For the library API see the "pkg" package.
package main
