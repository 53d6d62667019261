package modrelease

import "errors"

// Sentinel errors returned by Run and its helpers. Callers match them with
// errors.Is; the returned errors carry the offending path or tag as context.
var (
	// ErrGitUnavailable means the git binary could not be executed.
	ErrGitUnavailable = errors.New("git is not available on the system")

	// ErrModFileRequired means no module file path was supplied.
	ErrModFileRequired = errors.New("path to a go.mod file is required")

	// ErrNotModule means the given file has no "module " line.
	ErrNotModule = errors.New("the given file is not a go module")

	// ErrRepoRootNotFound means no ancestor directory contains a .git directory.
	ErrRepoRootNotFound = errors.New("git repository root not found")

	// ErrDirtyWorkspace means git status reported uncommitted changes.
	ErrDirtyWorkspace = errors.New("workspace is dirty, please commit first")

	// ErrNoVersions means no existing tag matches the module's tag prefix.
	ErrNoVersions = errors.New("no existing version tags found for module")

	// ErrInvalidTag means an explicit tag name is not a valid git tag.
	ErrInvalidTag = errors.New("invalid tag name")

	// ErrVersionOverflow means a version component cannot be represented
	// or incremented.
	ErrVersionOverflow = errors.New("version component out of range")

	// ErrTagExists means the release tag is already present.
	ErrTagExists = errors.New("release tag already exists")

	// ErrPushFailed means the tag was created locally but could not be pushed.
	ErrPushFailed = errors.New("push to remote failed")
)
