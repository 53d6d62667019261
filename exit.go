package main

import (
	"errors"

	modrelease "github.com/bcomnes/modrelease/pkg"
)

// Exit codes. Every failure exits non-zero.
const (
	ExitSuccess        = 0
	ExitGeneralError   = 1
	ExitUsage          = 2
	ExitNotModule      = 3
	ExitDirtyWorkspace = 4
	ExitNoVersions     = 5
)

// usageError marks errors caused by invalid command line input.
type usageError struct {
	err error
}

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

func exitCodeFromError(err error) int {
	var ue usageError
	switch {
	case err == nil:
		return ExitSuccess
	case errors.As(err, &ue), errors.Is(err, modrelease.ErrModFileRequired), errors.Is(err, modrelease.ErrInvalidTag):
		return ExitUsage
	case errors.Is(err, modrelease.ErrNotModule):
		return ExitNotModule
	case errors.Is(err, modrelease.ErrDirtyWorkspace):
		return ExitDirtyWorkspace
	case errors.Is(err, modrelease.ErrNoVersions):
		return ExitNoVersions
	}
	return ExitGeneralError
}
