package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cegme/mdoutline/internal/config"
	"github.com/cegme/mdoutline/internal/git"
	"github.com/cegme/mdoutline/internal/lockfile"
	"github.com/cegme/mdoutline/internal/progress"
	"github.com/cegme/mdoutline/internal/release"
)

// targetFlags are shared by the commands that operate on a working directory
type targetFlags struct {
	cwd            string
	repoRoot       bool
	extended       bool
	noLockfile     bool
	packageManager string
}

func (f *targetFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.cwd, "cwd", ".", "Working directory of the release")
	cmd.Flags().BoolVar(&f.repoRoot, "repo-root", false, "Use the root of the enclosing git repository as working directory")
	cmd.Flags().BoolVar(&f.extended, "extended", false, "Also update package.json and regenerate the lockfile")
	cmd.Flags().BoolVar(&f.noLockfile, "no-lockfile", false, "Skip lockfile regeneration")
	cmd.Flags().StringVar(&f.packageManager, "package-manager", "", "Package manager for the lockfile: npm, pnpm or yarn (default: detect)")
}

// configureLogging sets up logging based on command flags.
// The returned func must be called before the command exits.
func configureLogging(cmd *cobra.Command) (*slog.Logger, func(), error) {
	logLevel, _ := cmd.Flags().GetString("log-level")
	logFormat, _ := cmd.Flags().GetString("log-format")
	logFile, _ := cmd.Flags().GetString("log-file")

	if level, err := config.ParseLogLevel(logLevel); err == nil {
		settings.LogLevel = level
	}
	settings.LogFormat = strings.ToLower(logFormat)
	settings.LogFile = logFile

	if err := settings.Validate(); err != nil {
		return nil, nil, err
	}
	logger, closeLog := settings.ConfigureLogger()
	return logger, closeLog, nil
}

// resolveWorkDir returns the absolute working directory
func resolveWorkDir(f *targetFlags) (string, error) {
	absPath, err := filepath.Abs(strings.TrimSpace(f.cwd))
	if err != nil {
		return "", fmt.Errorf("invalid path: %w", err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return "", fmt.Errorf("working directory %s: %w", absPath, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("working directory %s is not a directory", absPath)
	}

	if f.repoRoot {
		root := git.FindRepoRoot(absPath)
		if root == "" {
			return "", fmt.Errorf("%s is not inside a git repository", absPath)
		}
		return root, nil
	}
	return absPath, nil
}

// loadOptions layers defaults, the config file and command flags, in that order
func loadOptions(workDir, configFile string, f *targetFlags) (release.Options, *config.ReleaseConfig, error) {
	cfg, err := config.LoadReleaseConfig(workDir, configFile)
	if err != nil {
		return release.Options{}, nil, err
	}

	options := cfg.ApplyTo(release.DefaultOptions())
	if f.extended {
		options = options.Extended()
	}
	if f.noLockfile {
		options.Lockfile = false
	}
	if f.packageManager != "" {
		if _, err := lockfile.Lookup(f.packageManager); err != nil {
			return release.Options{}, nil, err
		}
		options.PackageManager = f.packageManager
	}
	return options, cfg, nil
}

func newProgress() *progress.Progress {
	if !settings.Verbose {
		return progress.Disabled()
	}
	return progress.New(true, progress.NewSimpleHandler(os.Stderr))
}

// targetFiles lists the files a prepare run may modify, for the git summary
func targetFiles(options release.Options) []string {
	files := []string{options.PluginPath}
	if options.Manifest {
		files = append(files, options.ManifestPath)
	}
	if options.Lockfile {
		for _, pm := range []lockfile.PackageManager{lockfile.NPM, lockfile.PNPM, lockfile.Yarn} {
			files = append(files, pm.Lockfile)
		}
	}
	return files
}
