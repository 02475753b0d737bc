package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/cegme/mdoutline/internal/config"
)

// version is set at build time via -ldflags "-X github.com/cegme/mdoutline/internal/cmd.version=..."
var version = "dev"

var settings *config.Settings

var rootCmd = &cobra.Command{
	Use:   "mdoutline-release",
	Short: "Release helper that keeps mdoutline version markers in sync",
	Long: `mdoutline-release runs during the prepare step of a semantic-release pipeline.
It writes the version being published into the vim plugin header comment and the
g:mdoutline_version variable, and optionally into package.json and its lockfile.

Settings can also be provided through MDOUTLINE_RELEASE_* environment variables
and a .mdoutline-release.yml file in the working directory.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command; an interrupt cancels the running step
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Initialize settings with defaults and environment variables
	settings = config.LoadSettings()

	flags := rootCmd.PersistentFlags()
	flags.String("log-level", settings.LogLevel.String(), "Log level: debug, info, warn, error")
	flags.String("log-format", settings.LogFormat, "Log format: text, json or pretty")
	flags.String("log-file", settings.LogFile, "Log file path (default: stderr)")
	flags.BoolVarP(&settings.Verbose, "verbose", "v", settings.Verbose, "Show step progress on stderr")
	flags.StringVar(&settings.ConfigFile, "config", settings.ConfigFile, "Release config file (default: <cwd>/"+config.ConfigFileName+")")
}
