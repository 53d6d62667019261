package modrelease

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FindRepoRoot walks up from startDir until it finds a directory that
// contains a .git directory. ErrRepoRootNotFound is returned once the
// filesystem root has been checked.
func FindRepoRoot(startDir string) (string, error) {
	d, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path %q: %w", startDir, err)
	}
	for {
		if fi, err := os.Stat(filepath.Join(d, ".git")); err == nil && fi.IsDir() {
			return d, nil
		}
		parent := filepath.Dir(d)
		if parent == d {
			break
		}
		d = parent
	}
	return "", fmt.Errorf("%w: searched upward from %s", ErrRepoRootNotFound, startDir)
}

// TagPrefix returns the tag namespace for the module whose go.mod is
// modFile: "v" at the repository root, "<dir>/v" for a nested module.
func TagPrefix(root, modFile string) (string, error) {
	rel, err := filepath.Rel(root, filepath.Dir(modFile))
	if err != nil {
		return "", fmt.Errorf("module %s is not inside %s: %w", modFile, root, err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("module %s is not inside %s", modFile, root)
	}
	if rel == "." {
		return "v", nil
	}
	return filepath.ToSlash(rel) + "/v", nil
}
