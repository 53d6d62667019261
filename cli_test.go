package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	modrelease "github.com/bcomnes/modrelease/pkg"
)

// runCLI runs the CLI in process and returns its exit code and output.
func runCLI(args ...string) (int, string, string) {
	var stdout, stderr bytes.Buffer
	code := execute(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
}

// setupRepo creates a repository with a bare origin, a committed root
// go.mod and the given tags pushed to origin. It returns the work tree.
func setupRepo(t *testing.T, tags ...string) string {
	t.Helper()
	requireGit(t)
	base := t.TempDir()
	work := filepath.Join(base, "work")
	remote := filepath.Join(base, "origin.git")
	require.NoError(t, os.Mkdir(work, 0755))

	runGit := func(dir string, args ...string) {
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		out, err := cmd.CombinedOutput()
		require.NoError(t, err, "git %v: %s", args, out)
	}
	runGit(base, "init", "--bare", remote)
	runGit(work, "init")
	runGit(work, "symbolic-ref", "HEAD", "refs/heads/master")
	runGit(work, "config", "user.email", "test@example.com")
	runGit(work, "config", "user.name", "Test User")
	runGit(work, "remote", "add", "origin", remote)
	require.NoError(t, os.WriteFile(filepath.Join(work, "go.mod"), []byte("module example.com/m\n\ngo 1.24\n"), 0644))
	runGit(work, "add", ".")
	runGit(work, "commit", "-m", "initial commit")
	for _, tag := range tags {
		runGit(work, "tag", tag)
	}
	runGit(work, "push", "origin", "master", "--tags")
	return work
}

func localTags(t *testing.T, dir string) []string {
	t.Helper()
	cmd := exec.Command("git", "tag")
	cmd.Dir = dir
	out, err := cmd.Output()
	require.NoError(t, err)
	return strings.Fields(string(out))
}

func TestCLIHelp(t *testing.T) {
	code, out, _ := runCLI("--help")
	assert.Equal(t, ExitSuccess, code)
	assert.Contains(t, out, "Usage:")
	assert.Contains(t, out, "--mod")
}

func TestCLIVersionCommand(t *testing.T) {
	code, out, _ := runCLI("version")
	assert.Equal(t, ExitSuccess, code)
	assert.Contains(t, out, Version)
}

func TestCLIMissingMod(t *testing.T) {
	code, _, errOut := runCLI()
	assert.Equal(t, ExitUsage, code)
	assert.Contains(t, errOut, "go.mod file is required")
}

func TestCLIUnknownFlag(t *testing.T) {
	code, _, _ := runCLI("--frobnicate")
	assert.Equal(t, ExitUsage, code)
}

func TestCLIInvalidBump(t *testing.T) {
	code, _, errOut := runCLI("-m", "go.mod", "--bump", "huge")
	assert.Equal(t, ExitUsage, code)
	assert.Contains(t, errOut, "unknown bump argument")
}

func TestCLINotAModule(t *testing.T) {
	requireGit(t)
	path := filepath.Join(t.TempDir(), "package.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"name": "x"}`), 0644))

	code, _, errOut := runCLI("-m", path)
	assert.Equal(t, ExitNotModule, code)
	assert.Contains(t, errOut, "not a go module")
}

func TestCLIRelease(t *testing.T) {
	work := setupRepo(t, "v1.0.0", "v1.0.1", "v1.2.0")

	code, out, errOut := runCLI("-m", filepath.Join(work, "go.mod"))
	require.Equal(t, ExitSuccess, code, errOut)
	assert.Contains(t, out, "Released")
	assert.Contains(t, out, "v1.2.1")
	assert.Contains(t, errOut, "Creating release tag")
	assert.Contains(t, localTags(t, work), "v1.2.1")
}

func TestCLIExplicitVersion(t *testing.T) {
	work := setupRepo(t)

	code, out, errOut := runCLI("-m", filepath.Join(work, "go.mod"), "-v", "v0.1.0")
	require.Equal(t, ExitSuccess, code, errOut)
	assert.Contains(t, out, "v0.1.0")
	assert.Equal(t, []string{"v0.1.0"}, localTags(t, work))
}

func TestCLINoVersions(t *testing.T) {
	work := setupRepo(t)

	code, _, errOut := runCLI("-m", filepath.Join(work, "go.mod"))
	assert.Equal(t, ExitNoVersions, code)
	assert.Contains(t, errOut, "--version")
	assert.Empty(t, localTags(t, work))
}

func TestCLIDirtyWorkspace(t *testing.T) {
	work := setupRepo(t, "v1.0.0")
	require.NoError(t, os.WriteFile(filepath.Join(work, "notes.txt"), []byte("wip"), 0644))

	code, _, errOut := runCLI("-m", filepath.Join(work, "go.mod"))
	assert.Equal(t, ExitDirtyWorkspace, code)
	assert.Contains(t, errOut, "dirty")
	assert.Equal(t, []string{"v1.0.0"}, localTags(t, work))
}

func TestCLIDryRunFromEnv(t *testing.T) {
	work := setupRepo(t, "v1.0.0")
	t.Setenv("MODRELEASE_DRY_RUN", "true")
	t.Setenv("MODRELEASE_BUMP", "minor")

	code, out, errOut := runCLI("-m", filepath.Join(work, "go.mod"))
	require.Equal(t, ExitSuccess, code, errOut)
	assert.Contains(t, out, "Would release")
	assert.Contains(t, out, "v1.1.0")
	assert.Equal(t, []string{"v1.0.0"}, localTags(t, work))
}

func TestCLIConfigFile(t *testing.T) {
	work := setupRepo(t, "v2.3.4")
	cfg := filepath.Join(t.TempDir(), "release.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("dry-run: true\nbump: major\n"), 0644))

	code, out, errOut := runCLI("-m", filepath.Join(work, "go.mod"), "--config", cfg)
	require.Equal(t, ExitSuccess, code, errOut)
	assert.Contains(t, out, "v3.0.0")
	assert.Equal(t, []string{"v2.3.4"}, localTags(t, work))

	// Flags win over the config file.
	code, out, errOut = runCLI("-m", filepath.Join(work, "go.mod"), "--config", cfg, "--bump", "patch")
	require.Equal(t, ExitSuccess, code, errOut)
	assert.Contains(t, out, "v2.3.5")
}

func TestCLIMissingConfigFile(t *testing.T) {
	code, _, errOut := runCLI("-m", "go.mod", "--config", filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Equal(t, ExitGeneralError, code)
	assert.Contains(t, errOut, "reading config")
}

func TestExitCodeFromError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"usage", usageError{errors.New("bad flag")}, ExitUsage},
		{"missing mod", modrelease.ErrModFileRequired, ExitUsage},
		{"not a module", fmt.Errorf("%w: x", modrelease.ErrNotModule), ExitNotModule},
		{"dirty", fmt.Errorf("%w: x", modrelease.ErrDirtyWorkspace), ExitDirtyWorkspace},
		{"no versions", fmt.Errorf("%w: x", modrelease.ErrNoVersions), ExitNoVersions},
		{"invalid tag", fmt.Errorf("%w: x", modrelease.ErrInvalidTag), ExitUsage},
		{"push failed", modrelease.ErrPushFailed, ExitGeneralError},
		{"unknown", errors.New("boom"), ExitGeneralError},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, exitCodeFromError(tc.err))
		})
	}
}

func TestCLIInvalidExplicitTag(t *testing.T) {
	work := setupRepo(t, "v1.0.0")

	code, _, errOut := runCLI("-m", filepath.Join(work, "go.mod"), "--version=--list")
	assert.Equal(t, ExitUsage, code)
	assert.Contains(t, errOut, "invalid tag name")
	assert.Equal(t, []string{"v1.0.0"}, localTags(t, work))
}

func TestCLIGitFailure(t *testing.T) {
	work := setupRepo(t, "v1.0.0")
	cmd := exec.Command("git", "remote", "set-url", "origin", filepath.Join(t.TempDir(), "missing.git"))
	cmd.Dir = work
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, string(out))

	code, _, errOut := runCLI("-m", filepath.Join(work, "go.mod"))
	assert.Equal(t, ExitGeneralError, code)
	assert.Contains(t, errOut, "git fetch failed")
	assert.Equal(t, []string{"v1.0.0"}, localTags(t, work))
}
