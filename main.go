// Package main implements a CLI tool that tags and pushes a release of a Go
// module living in a monorepo.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	modrelease "github.com/bcomnes/modrelease/pkg"
)

const longHelp = `Tags a new release of the Go module whose go.mod is given with --mod.

Tags are scoped by the module's directory: "vX.Y.Z" for a module at the
repository root, "<dir>/vX.Y.Z" for a nested one. The next version is the
highest existing tag for the module with its patch number incremented,
unless --version names the tag to create.

The workspace must be clean. Tags are fetched from the remote first; the
new tag is pushed together with the branch.

Every flag can also be set with a MODRELEASE_<FLAG> environment variable
(e.g. MODRELEASE_REMOTE=upstream) or in a .modrelease.yaml file.`

const examples = `  modrelease -m go.mod
  modrelease -m services/api/go.mod
  modrelease -m services/api/go.mod --bump minor
  modrelease -m services/api/go.mod -v services/api/v2.0.0
  modrelease -m go.mod --dry-run`

// settings is the resolved command line, environment and config file.
type settings struct {
	Mod     string `mapstructure:"mod"`
	Version string `mapstructure:"version"`
	Bump    string `mapstructure:"bump"`
	Remote  string `mapstructure:"remote"`
	Branch  string `mapstructure:"branch"`
	DryRun  bool   `mapstructure:"dry-run"`
	Verbose bool   `mapstructure:"verbose"`
	Config  string `mapstructure:"config"`
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	v := viper.New()

	rootCmd := &cobra.Command{
		Use:           "modrelease -m <go.mod> [flags]",
		Short:         "Tag and push a release of a Go module in a monorepo",
		Long:          longHelp,
		Example:       examples,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings(v)
			if err != nil {
				return err
			}
			return runRelease(cmd.Context(), s, stdout, stderr)
		},
	}

	f := rootCmd.Flags()
	f.StringP("mod", "m", "", "Path to the go.mod of the module to release")
	f.StringP("version", "v", "", "Tag to create verbatim instead of computing the next version")
	f.String("bump", string(modrelease.BumpPatch), "Version component to increment: patch, minor or major")
	f.String("remote", "origin", "Remote to fetch tags from and push to")
	f.String("branch", "master", "Branch pushed together with the tags")
	f.Bool("dry-run", false, "Compute the release tag without creating or pushing it")
	f.Bool("verbose", false, "Enable debug output")
	f.String("config", "", "Config file (default .modrelease.yaml)")
	_ = v.BindPFlags(f)

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{err}
	})
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	rootCmd.AddCommand(newVersionCmd(stdout))

	return rootCmd
}

// loadSettings resolves flags over environment over config file.
func loadSettings(v *viper.Viper) (settings, error) {
	var s settings

	v.SetEnvPrefix("MODRELEASE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cfgFile := v.GetString("config")
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(".modrelease")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return s, fmt.Errorf("reading config: %w", err)
		}
	}
	if err := v.Unmarshal(&s); err != nil {
		return s, fmt.Errorf("decoding config: %w", err)
	}
	return s, nil
}

func runRelease(ctx context.Context, s settings, stdout, stderr io.Writer) error {
	if s.Mod == "" {
		return usageError{modrelease.ErrModFileRequired}
	}
	bump, err := modrelease.ParseBumpKind(s.Bump)
	if err != nil {
		return usageError{err}
	}

	logger := newLogger(stderr, s.Verbose)
	if s.Version != "" && bump != modrelease.BumpPatch {
		logger.Warn("explicit version given, ignoring bump", "bump", bump)
	}

	cfg := modrelease.Config{
		ModFile: s.Mod,
		Version: s.Version,
		Bump:    bump,
		Remote:  s.Remote,
		Branch:  s.Branch,
		DryRun:  s.DryRun,
	}
	logger.Debug("resolved configuration",
		"mod", cfg.ModFile,
		"version", cfg.Version,
		"bump", cfg.Bump,
		"remote", cfg.Remote,
		"branch", cfg.Branch,
		"dry-run", cfg.DryRun,
	)

	run := modrelease.Run
	if cfg.DryRun {
		run = modrelease.DryRun
	}
	meta, err := run(ctx, cfg, modrelease.WithLogger(logger))
	if err != nil {
		return err
	}

	fmt.Fprintln(stdout, formatSummary(meta, cfg.DryRun))
	return nil
}

// execute runs the CLI and returns the process exit code.
func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	rootCmd := newRootCmd(stdout, stderr)
	if args == nil {
		// cobra falls back to os.Args on nil
		args = []string{}
	}
	rootCmd.SetArgs(args)

	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		return ExitSuccess
	}

	code := exitCodeFromError(err)
	logger := newLogger(stderr, false)
	logger.Error(err)
	switch code {
	case ExitUsage:
		fmt.Fprint(stderr, rootCmd.UsageString())
	case ExitNoVersions:
		logger.Info("use --version to create the first release tag of a module")
	}
	return code
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
