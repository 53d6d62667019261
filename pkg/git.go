package modrelease

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/charmbracelet/log"
)

// Git is the set of git operations a release needs. Every call runs in the
// repository root dir.
type Git interface {
	// Status returns one entry per changed or untracked path.
	Status(ctx context.Context, dir string) ([]string, error)
	Fetch(ctx context.Context, dir, remote string) error
	Tags(ctx context.Context, dir string) ([]string, error)
	CreateTag(ctx context.Context, dir, name string) error
	Push(ctx context.Context, dir, remote, branch string) error
}

// CheckGit verifies that git is available on the system.
func CheckGit() error {
	cmd := exec.Command("git", "--version")
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%w: %v", ErrGitUnavailable, err)
	}
	return nil
}

// ExecGit runs the git binary found on PATH.
type ExecGit struct {
	Logger *log.Logger
}

// NewExecGit returns an ExecGit logging each invocation at debug level.
func NewExecGit(logger *log.Logger) *ExecGit {
	return &ExecGit{Logger: logger}
}

func (g *ExecGit) run(ctx context.Context, dir string, args ...string) ([]byte, error) {
	if g.Logger != nil {
		g.Logger.Debug("running git", "dir", dir, "args", strings.Join(args, " "))
	}
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("git %s failed: %v, detail: %s", args[0], err, strings.TrimSpace(stderr.String()))
	}
	return stdout.Bytes(), nil
}

// Status implements Git with "git status --porcelain".
func (g *ExecGit) Status(ctx context.Context, dir string) ([]string, error) {
	out, err := g.run(ctx, dir, "status", "--porcelain")
	if err != nil {
		return nil, err
	}
	return splitLines(out), nil
}

// Fetch implements Git with "git fetch <remote> --tags".
func (g *ExecGit) Fetch(ctx context.Context, dir, remote string) error {
	_, err := g.run(ctx, dir, "fetch", remote, "--tags")
	return err
}

// Tags implements Git by listing "git tag".
func (g *ExecGit) Tags(ctx context.Context, dir string) ([]string, error) {
	out, err := g.run(ctx, dir, "tag")
	if err != nil {
		return nil, err
	}
	return splitLines(out), nil
}

// CreateTag implements Git with a lightweight "git tag <name>".
func (g *ExecGit) CreateTag(ctx context.Context, dir, name string) error {
	_, err := g.run(ctx, dir, "tag", "--", name)
	return err
}

// Push implements Git with "git push <remote> <branch> --tags".
func (g *ExecGit) Push(ctx context.Context, dir, remote, branch string) error {
	_, err := g.run(ctx, dir, "push", remote, branch, "--tags")
	return err
}

func splitLines(out []byte) []string {
	var lines []string
	for _, line := range bytes.Split(out, []byte("\n")) {
		if s := strings.TrimSpace(string(line)); s != "" {
			lines = append(lines, s)
		}
	}
	return lines
}
