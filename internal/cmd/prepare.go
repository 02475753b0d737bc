package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/cegme/mdoutline/internal/git"
	"github.com/cegme/mdoutline/internal/release"
)

var prepareFlags targetFlags

var prepareCmd = &cobra.Command{
	Use:   "prepare <version>",
	Short: "Write the release version into the plugin and package files",
	Long: `Prepare is called by semantic-release with the version of the next release.
It rewrites the version markers of plugin/mdoutline.vim and, with --extended,
sets the version field of package.json and regenerates the lockfile.

Any failure exits with status 1 so the release halts.

Examples:
  mdoutline-release prepare 1.4.0
  mdoutline-release prepare --extended 2.0.0-beta.1
  mdoutline-release prepare --extended --package-manager pnpm --cwd ../mdoutline 1.4.0`,
	Args: cobra.ExactArgs(1),
	Run:  runPrepare,
}

func init() {
	rootCmd.AddCommand(prepareCmd)
	prepareFlags.register(prepareCmd)
}

func runPrepare(cmd *cobra.Command, args []string) {
	logger, closeLog, err := configureLogging(cmd)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	err = executePrepare(cmd.Context(), args[0], &prepareFlags, logger)
	if err != nil {
		logger.Error("Prepare failed", "error", err)
	}
	closeLog()
	if err != nil {
		os.Exit(1)
	}
}

// executePrepare runs the release steps for version in the resolved working directory
func executePrepare(ctx context.Context, version string, f *targetFlags, logger *slog.Logger, opts ...release.Option) error {
	workDir, err := resolveWorkDir(f)
	if err != nil {
		return err
	}

	options, cfg, err := loadOptions(workDir, settings.ConfigFile, f)
	if err != nil {
		return err
	}
	if cfg.Source != "" {
		logger.Debug("Loaded release config", "path", cfg.Source)
	}

	opts = append([]release.Option{release.WithProgress(newProgress())}, opts...)
	synchronizer, err := release.NewSynchronizer(options, opts...)
	if err != nil {
		return err
	}

	logger.Debug("Preparing release",
		"version", version,
		"cwd", workDir,
		"manifest", options.Manifest,
		"lockfile", options.Lockfile)

	start := time.Now()
	err = synchronizer.Prepare(ctx, release.Context{
		Version:          version,
		WorkingDirectory: workDir,
		Logger:           logger,
	})
	if err != nil {
		return err
	}
	logger.Debug("Prepare finished", "duration", time.Since(start))

	reportChangedFiles(workDir, targetFiles(synchronizer.Options()), logger)
	return nil
}

// reportChangedFiles logs which target files the release commit will pick up
func reportChangedFiles(workDir string, files []string, logger *slog.Logger) {
	changed, err := git.ChangedFiles(workDir, files)
	if err != nil {
		logger.Debug("Skipping git change summary", "error", err)
		return
	}
	if len(changed) == 0 {
		logger.Info("No files changed")
		return
	}
	logger.Info("Files changed for release commit", "files", changed)
}
