// Package release keeps the version markers of the mdoutline plugin, its package
// manifest and its lockfile in line with the version a release is about to publish.
//
// Prepare runs a fixed, linear sequence of steps. The first failing step aborts the
// run; files already written by earlier steps are left as they are.
package release

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/mod/semver"

	"github.com/cegme/mdoutline/internal/lockfile"
	"github.com/cegme/mdoutline/internal/manifest"
	"github.com/cegme/mdoutline/internal/markers"
	"github.com/cegme/mdoutline/internal/progress"
	"github.com/cegme/mdoutline/internal/provider"
	"github.com/cegme/mdoutline/internal/types"
)

// Step names, in execution order
const (
	StepUpdatePlugin       = "update-plugin"
	StepUpdateManifest     = "update-manifest"
	StepRegenerateLockfile = "regenerate-lockfile"
)

// Context carries what the release host supplies
type Context struct {
	Version          string
	WorkingDirectory string
	Logger           *slog.Logger
}

func (rc Context) logger() *slog.Logger {
	if rc.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return rc.Logger
}

// ProviderFunc opens the working directory for file access
type ProviderFunc func(dir string) types.Provider

// Synchronizer rewrites the version markers of a working directory
type Synchronizer struct {
	options     Options
	rules       []*markers.Compiled
	runner      lockfile.Runner
	progress    *progress.Progress
	newProvider ProviderFunc
}

// Option customizes a Synchronizer
type Option func(*Synchronizer)

// WithRunner replaces the subprocess runner used for the lockfile step
func WithRunner(runner lockfile.Runner) Option {
	return func(s *Synchronizer) {
		s.runner = runner
	}
}

// WithProgress reports step events to p
func WithProgress(p *progress.Progress) Option {
	return func(s *Synchronizer) {
		s.progress = p
	}
}

// WithProvider replaces the local file system provider
func WithProvider(fn ProviderFunc) Option {
	return func(s *Synchronizer) {
		s.newProvider = fn
	}
}

// NewSynchronizer compiles the marker rules and returns a ready synchronizer
func NewSynchronizer(options Options, opts ...Option) (*Synchronizer, error) {
	if options.PluginPath == "" {
		options.PluginPath = DefaultPluginPath
	}
	if options.ManifestPath == "" {
		options.ManifestPath = DefaultManifestPath
	}
	if len(options.Markers) == 0 {
		options.Markers = markers.DefaultVimRules()
	}

	rules, err := markers.Compile(options.Markers)
	if err != nil {
		return nil, err
	}

	s := &Synchronizer{
		options: options,
		rules:   rules,
		runner:  lockfile.ExecRunner{},
		newProvider: func(dir string) types.Provider {
			return provider.NewFSProvider(dir)
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Options returns the effective options
func (s *Synchronizer) Options() Options {
	return s.options
}

// Prepare brings every target in rc.WorkingDirectory to rc.Version
func (s *Synchronizer) Prepare(ctx context.Context, rc Context) error {
	if err := ValidateVersion(rc.Version); err != nil {
		return err
	}

	fsys := s.newProvider(rc.WorkingDirectory)

	steps := []struct {
		name    string
		enabled bool
		run     func() error
	}{
		{StepUpdatePlugin, true, func() error { return s.updatePlugin(fsys, rc) }},
		{StepUpdateManifest, s.options.Manifest, func() error { return s.updateManifest(fsys, rc) }},
		{StepRegenerateLockfile, s.options.Lockfile, func() error { return s.regenerateLockfile(ctx, fsys, rc) }},
	}

	for _, step := range steps {
		if !step.enabled {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		s.progress.StepStart(step.name)
		if err := step.run(); err != nil {
			s.progress.StepFailed(step.name, err)
			return err
		}
		s.progress.StepComplete(step.name)
	}
	return nil
}

// ValidateVersion rejects empty and non-semver versions, including the
// MAJOR.MINOR shorthand. The version itself is written verbatim.
func ValidateVersion(version string) error {
	if version == "" {
		return fmt.Errorf("%w: version is empty", ErrInvalidVersion)
	}
	v := "v" + version
	if !semver.IsValid(v) || semver.Canonical(v) != strings.SplitN(v, "+", 2)[0] {
		return fmt.Errorf("%w: %q is not a semantic version", ErrInvalidVersion, version)
	}
	return nil
}

func (s *Synchronizer) updatePlugin(fsys types.Provider, rc Context) error {
	logger := rc.logger()
	logger.Info(fmt.Sprintf("Updating vim plugin version to %s", rc.Version))

	if err := s.rewriteMarkers(fsys, s.options.PluginPath, rc); err != nil {
		return err
	}
	logger.Info(fmt.Sprintf("Updated %s version", s.options.PluginPath))

	for _, path := range s.extraFiles(fsys, logger) {
		if path == s.options.PluginPath {
			continue
		}
		if err := s.rewriteMarkers(fsys, path, rc); err != nil {
			return err
		}
		logger.Info(fmt.Sprintf("Updated %s version", path))
	}
	return nil
}

func (s *Synchronizer) rewriteMarkers(fsys types.Provider, path string, rc Context) error {
	content, err := fsys.ReadFile(path)
	if err != nil {
		return &FileReadError{Path: path, Err: err}
	}

	updated, unmatched := markers.ApplyAll(string(content), rc.Version, s.rules)
	for _, name := range unmatched {
		rc.logger().Debug("Version marker not found", "file", path, "marker", name)
		s.progress.MarkerSkipped(path, name)
	}

	if err := fsys.WriteFile(path, []byte(updated)); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	s.progress.FileWritten(path)
	return nil
}

// extraFiles expands the configured patterns; pattern errors are logged and skipped
func (s *Synchronizer) extraFiles(fsys types.Provider, logger *slog.Logger) []string {
	seen := make(map[string]bool)
	var files []string
	for _, pattern := range s.options.ExtraFiles {
		matches, err := fsys.Glob(pattern)
		if err != nil {
			logger.Warn("Invalid extra file pattern", "pattern", pattern, "error", err)
			continue
		}
		for _, match := range matches {
			if !seen[match] {
				seen[match] = true
				files = append(files, match)
			}
		}
	}
	return files
}

func (s *Synchronizer) updateManifest(fsys types.Provider, rc Context) error {
	path := s.options.ManifestPath

	content, err := fsys.ReadFile(path)
	if err != nil {
		return &FileReadError{Path: path, Err: err}
	}

	updated, err := manifest.SetVersion(content, rc.Version)
	if err != nil {
		return &ParseError{Path: path, Err: err}
	}

	if err := fsys.WriteFile(path, updated); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	s.progress.FileWritten(path)
	rc.logger().Info(fmt.Sprintf("Updated %s version", path))
	return nil
}

func (s *Synchronizer) regenerateLockfile(ctx context.Context, fsys types.Provider, rc Context) error {
	logger := rc.logger()

	pm, err := lockfile.Resolve(fsys, s.options.PackageManager)
	if err != nil {
		return err
	}
	command := pm.Command()

	logger.Info(fmt.Sprintf("Regenerating %s", pm.Lockfile), "command", command)
	s.progress.Command(rc.WorkingDirectory, command)

	if err := s.runner.Run(ctx, rc.WorkingDirectory, pm.Name, pm.Args...); err != nil {
		logger.Error("Failed to regenerate lockfile", "command", command, "error", err)
		return &SubprocessError{Command: command, Err: err}
	}

	logger.Info(fmt.Sprintf("Updated %s", pm.Lockfile))
	return nil
}

// IsFileReadError reports whether err is or wraps a FileReadError
func IsFileReadError(err error) bool {
	var target *FileReadError
	return errors.As(err, &target)
}

// IsParseError reports whether err is or wraps a ParseError
func IsParseError(err error) bool {
	var target *ParseError
	return errors.As(err, &target)
}

// IsSubprocessError reports whether err is or wraps a SubprocessError
func IsSubprocessError(err error) bool {
	var target *SubprocessError
	return errors.As(err, &target)
}
