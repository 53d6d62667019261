package modrelease

import (
	"context"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/mod/semver"
)

// Config holds the inputs of a single release.
type Config struct {
	ModFile string   // Path to the go.mod of the module to release.
	Version string   // Tag name to use verbatim instead of computing one.
	Bump    BumpKind // Component to increment; defaults to patch.
	Remote  string   // Remote to fetch from and push to; defaults to "origin".
	Branch  string   // Branch pushed along with the tags; defaults to "master".
	DryRun  bool     // Stop before creating and pushing the tag.
}

func (c Config) withDefaults() Config {
	if c.Bump == "" {
		c.Bump = BumpPatch
	}
	if c.Remote == "" {
		c.Remote = "origin"
	}
	if c.Branch == "" {
		c.Branch = "master"
	}
	return c
}

// ReleaseMeta holds metadata about the release operation.
type ReleaseMeta struct {
	ModulePath string // Module path declared in go.mod, if parseable.
	Root       string // Repository root.
	Prefix     string // Tag prefix of the module, e.g. "services/api/v".
	Previous   string // Highest existing tag for the module, if any.
	NewTag     string // The tag created (or that would be created).
	BumpType   string // "patch", "minor", "major" or "explicit".
	Pushed     bool   // Whether the tag was pushed to the remote.
}

// Option configures a Releaser.
type Option func(*Releaser)

// WithLogger sets the logger used for progress messages.
func WithLogger(l *log.Logger) Option {
	return func(r *Releaser) { r.log = l }
}

// Releaser tags and pushes module releases through a Git implementation.
type Releaser struct {
	git Git
	log *log.Logger
}

// New returns a Releaser. A nil git uses the git binary on PATH.
func New(git Git, opts ...Option) *Releaser {
	r := &Releaser{git: git}
	for _, opt := range opts {
		opt(r)
	}
	if r.log == nil {
		r.log = log.NewWithOptions(os.Stderr, log.Options{})
	}
	if r.git == nil {
		r.git = NewExecGit(r.log)
	}
	return r
}

// Run releases the module described by cfg with the git binary on PATH.
func Run(ctx context.Context, cfg Config, opts ...Option) (ReleaseMeta, error) {
	if err := CheckGit(); err != nil {
		return ReleaseMeta{}, err
	}
	return New(nil, opts...).Run(ctx, cfg)
}

// DryRun performs every check and computes the release tag without
// creating or pushing it. Remote tags are still fetched.
func DryRun(ctx context.Context, cfg Config, opts ...Option) (ReleaseMeta, error) {
	if err := CheckGit(); err != nil {
		return ReleaseMeta{}, err
	}
	return New(nil, opts...).DryRun(ctx, cfg)
}

// Run checks the module and workspace, computes the next tag, creates it
// and pushes the branch with all tags.
func (r *Releaser) Run(ctx context.Context, cfg Config) (ReleaseMeta, error) {
	return r.release(ctx, cfg, cfg.DryRun)
}

// DryRun is Run without the tag creation and push.
func (r *Releaser) DryRun(ctx context.Context, cfg Config) (ReleaseMeta, error) {
	return r.release(ctx, cfg, true)
}

func (r *Releaser) release(ctx context.Context, cfg Config, dry bool) (ReleaseMeta, error) {
	var meta ReleaseMeta
	cfg = cfg.withDefaults()

	// 1. The file must declare a module.
	mod, err := ReadModule(cfg.ModFile)
	if err != nil {
		return meta, err
	}
	meta.ModulePath = mod.Path

	// 2. Locate the repository holding it.
	root, err := FindRepoRoot(mod.Dir)
	if err != nil {
		return meta, err
	}
	meta.Root = root
	r.log.Debug("found repository root", "root", root, "module", mod.Path)

	// 3. Refuse to tag a dirty workspace.
	changed, err := r.git.Status(ctx, root)
	if err != nil {
		return meta, fmt.Errorf("failed to check git status: %w", err)
	}
	if len(changed) > 0 {
		return meta, fmt.Errorf("%w: %s", ErrDirtyWorkspace, strings.Join(changed, ", "))
	}

	prefix, err := TagPrefix(root, mod.File)
	if err != nil {
		return meta, err
	}
	meta.Prefix = prefix

	// 4. Sync tags so the next version accounts for remote releases.
	r.log.Info("Synchronizing git tags with remote", "remote", cfg.Remote)
	if err := r.git.Fetch(ctx, root, cfg.Remote); err != nil {
		return meta, err
	}

	r.log.Info("Looking up version of go module", "prefix", prefix)
	tags, err := r.git.Tags(ctx, root)
	if err != nil {
		return meta, err
	}
	latest, latestErr := LatestVersion(tags, prefix)
	if latestErr == nil {
		meta.Previous = prefix + latest.String()
	}

	// 5. Determine the release tag.
	if cfg.Version != "" {
		if err := CheckTagName(cfg.Version); err != nil {
			return meta, err
		}
		meta.NewTag = cfg.Version
		meta.BumpType = "explicit"
		r.checkExplicitTag(cfg.Version, prefix)
	} else {
		if latestErr != nil {
			return meta, latestErr
		}
		next, err := latest.Bump(cfg.Bump)
		if err != nil {
			return meta, err
		}
		meta.NewTag = prefix + next.String()
		meta.BumpType = string(cfg.Bump)
	}
	if slices.Contains(tags, meta.NewTag) {
		return meta, fmt.Errorf("%w: %s", ErrTagExists, meta.NewTag)
	}

	if dry {
		r.log.Info("Dry run, not creating release tag", "tag", meta.NewTag)
		return meta, nil
	}

	// 6. Tag and push.
	r.log.Info("Creating release tag", "tag", meta.NewTag)
	if err := r.git.CreateTag(ctx, root, meta.NewTag); err != nil {
		return meta, err
	}

	r.log.Info("Pushing to remote", "remote", cfg.Remote, "branch", cfg.Branch)
	if err := r.git.Push(ctx, root, cfg.Remote, cfg.Branch); err != nil {
		return meta, fmt.Errorf("%w: tag %s exists locally: %w", ErrPushFailed, meta.NewTag, err)
	}
	meta.Pushed = true

	return meta, nil
}

// CheckTagName rejects names git would not store as a tag, following the
// rules of git check-ref-format. Names starting with "-" are rejected so
// they are never read as options.
func CheckTagName(name string) error {
	invalid := func(reason string) error {
		return fmt.Errorf("%w %q: %s", ErrInvalidTag, name, reason)
	}
	switch {
	case name == "" || name == "@":
		return invalid("empty or reserved")
	case strings.HasPrefix(name, "-"):
		return invalid("must not start with '-'")
	case strings.HasPrefix(name, "/") || strings.HasSuffix(name, "/") || strings.HasSuffix(name, "."):
		return invalid("must not start or end with '/' or end with '.'")
	case strings.Contains(name, "..") || strings.Contains(name, "//") || strings.Contains(name, "@{"):
		return invalid("must not contain '..', '//' or '@{'")
	case strings.ContainsAny(name, " ~^:?*[\\"):
		return invalid("must not contain spaces or any of ~^:?*[\\")
	}
	for _, c := range name {
		if c < 0x20 || c == 0x7f {
			return invalid("must not contain control characters")
		}
	}
	for _, part := range strings.Split(name, "/") {
		if strings.HasPrefix(part, ".") || strings.HasSuffix(part, ".lock") {
			return invalid("components must not start with '.' or end with '.lock'")
		}
	}
	return nil
}

// checkExplicitTag warns when an explicit tag would not be picked up as a
// release of the module. The tag is used regardless.
func (r *Releaser) checkExplicitTag(tag, prefix string) {
	rest, ok := strings.CutPrefix(tag, prefix)
	if !ok {
		r.log.Warn("explicit tag is outside the module's tag prefix", "tag", tag, "prefix", prefix)
		return
	}
	if !semver.IsValid("v" + rest) {
		r.log.Warn("explicit tag is not a valid semantic version", "tag", tag)
	}
}
