package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/cegme/mdoutline/internal/release"
)

var verifyFlags targetFlags

var verifyCmd = &cobra.Command{
	Use:   "verify <version>",
	Short: "Check that every version marker holds the given version",
	Long: `Verify reads the plugin markers (and package.json with --extended) without
modifying anything and exits with status 1 listing every marker that does not
hold the expected version.

Examples:
  mdoutline-release verify 1.4.0
  mdoutline-release verify --extended 1.4.0`,
	Args: cobra.ExactArgs(1),
	Run:  runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)
	verifyFlags.register(verifyCmd)
}

func runVerify(cmd *cobra.Command, args []string) {
	logger, closeLog, err := configureLogging(cmd)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	err = executeVerify(args[0], &verifyFlags, logger)
	if err != nil {
		logger.Error("Verification failed", "error", err)
	}
	closeLog()
	if err != nil {
		os.Exit(1)
	}
}

func executeVerify(version string, f *targetFlags, logger *slog.Logger, opts ...release.Option) error {
	workDir, err := resolveWorkDir(f)
	if err != nil {
		return err
	}

	options, _, err := loadOptions(workDir, settings.ConfigFile, f)
	if err != nil {
		return err
	}

	synchronizer, err := release.NewSynchronizer(options, opts...)
	if err != nil {
		return err
	}

	return synchronizer.Verify(release.Context{
		Version:          version,
		WorkingDirectory: workDir,
		Logger:           logger,
	})
}
