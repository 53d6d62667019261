package modrelease

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"golang.org/x/mod/modfile"
)

var moduleLine = regexp.MustCompile(`(?m)^module `)

// Module describes a go.mod file selected for release.
type Module struct {
	File string // absolute path of the go.mod file
	Dir  string // directory holding File
	Path string // module path, empty if the file could not be parsed
}

// ReadModule reads the module descriptor at path. The file must contain a
// line starting with "module "; otherwise ErrNotModule is returned.
func ReadModule(path string) (Module, error) {
	if path == "" {
		return Module{}, ErrModFileRequired
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return Module{}, fmt.Errorf("failed to resolve path %q: %w", path, err)
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return Module{}, fmt.Errorf("reading module file: %w", err)
	}
	if !moduleLine.Match(data) {
		return Module{}, fmt.Errorf("%w: %s", ErrNotModule, path)
	}
	return Module{
		File: abs,
		Dir:  filepath.Dir(abs),
		Path: modfile.ModulePath(data),
	}, nil
}
