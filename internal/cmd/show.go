package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/cegme/mdoutline/internal/git"
	"github.com/cegme/mdoutline/internal/metadata"
	"github.com/cegme/mdoutline/internal/release"
	"github.com/cegme/mdoutline/internal/spec"
)

var (
	showFlags  targetFlags
	showFormat string
	showOutput string
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the versions currently held by every marker",
	Long: `Show reads the version markers (and package.json with --extended) and
prints them together with the git state of the working directory.

Examples:
  mdoutline-release show
  mdoutline-release show --extended --format json
  mdoutline-release show --format yaml -o versions.yml`,
	Args: cobra.NoArgs,
	Run:  runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
	showFlags.register(showCmd)
	setupOutputFlags(showCmd, &showFormat, &showOutput)
}

// ShowReport is the output of the show command
type ShowReport struct {
	Metadata       *metadata.RunMetadata `json:"metadata" yaml:"metadata"`
	Git            *git.GitInfo          `json:"git,omitempty" yaml:"git,omitempty"`
	release.Report `yaml:",inline"`
}

func (r *ShowReport) ToJSON() interface{} {
	return r
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#22C55E"))
	badStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF6B6B"))
)

func (r *ShowReport) ToText(w io.Writer, styled bool) {
	render := func(style lipgloss.Style, s string) string {
		if !styled {
			return s
		}
		return style.Render(s)
	}

	fmt.Fprintln(w, render(titleStyle, "mdoutline release markers"))
	fmt.Fprintf(w, "%s %s\n", render(labelStyle, "Working directory:"), r.WorkingDirectory)
	if r.Metadata != nil && r.Metadata.ConfigFile != "" {
		fmt.Fprintf(w, "%s %s\n", render(labelStyle, "Config:"), r.Metadata.ConfigFile)
	}
	if r.Git != nil {
		state := "clean"
		if r.Git.IsDirty {
			state = "dirty"
		}
		line := fmt.Sprintf("%s @ %s (%s)", r.Git.Branch, r.Git.Commit, state)
		if r.Git.Repository != "" {
			line += " " + r.Git.Repository
		}
		fmt.Fprintf(w, "%s %s\n", render(labelStyle, "Git:"), line)
	}
	fmt.Fprintln(w)

	pathWidth, markerWidth := 0, 0
	for _, m := range r.Markers {
		pathWidth = max(pathWidth, len(m.Path))
		markerWidth = max(markerWidth, len(m.Marker))
	}
	for _, path := range []string{r.ManifestPath, r.LockfilePath} {
		if path != "" {
			pathWidth = max(pathWidth, len(path))
			markerWidth = max(markerWidth, len("version"))
		}
	}

	row := func(path, marker, version string, found bool) {
		value := version
		if !found {
			value = render(badStyle, "(not found)")
		}
		fmt.Fprintf(w, "  %-*s  %-*s  %s\n", pathWidth, path, markerWidth, marker, value)
	}
	for _, m := range r.Markers {
		row(m.Path, m.Marker, m.Version, m.Found)
	}
	if r.ManifestPath != "" {
		row(r.ManifestPath, "version", r.ManifestVersion, r.ManifestVersion != "")
	}
	if r.LockfilePath != "" {
		row(r.LockfilePath, "version", r.LockfileVersion, true)
	}
	fmt.Fprintln(w)

	if r.Consistent {
		fmt.Fprintf(w, "%s %s\n", render(labelStyle, "Status:"), render(okStyle, "consistent "+r.Versions()[0]))
	} else {
		versions := strings.Join(r.Versions(), ", ")
		if versions == "" {
			versions = "none"
		}
		fmt.Fprintf(w, "%s %s\n", render(labelStyle, "Status:"), render(badStyle, "inconsistent (versions: "+versions+")"))
	}
}

func runShow(cmd *cobra.Command, args []string) {
	logger, closeLog, err := configureLogging(cmd)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	err = writeShowReport(logger)
	closeLog()
	if err != nil {
		os.Exit(1)
	}
}

func writeShowReport(logger *slog.Logger) error {
	report, err := buildShowReport(&showFlags, logger)
	if err != nil {
		logger.Error("Failed to read version markers", "error", err)
		return err
	}

	if err := OutputToFile(report, showFormat, showOutput); err != nil {
		logger.Error("Failed to write report", "error", err)
		return err
	}
	return nil
}

func buildShowReport(f *targetFlags, logger *slog.Logger, opts ...release.Option) (*ShowReport, error) {
	start := time.Now()

	workDir, err := resolveWorkDir(f)
	if err != nil {
		return nil, err
	}

	options, cfg, err := loadOptions(workDir, settings.ConfigFile, f)
	if err != nil {
		return nil, err
	}

	synchronizer, err := release.NewSynchronizer(options, opts...)
	if err != nil {
		return nil, err
	}

	report, err := synchronizer.Inspect(release.Context{WorkingDirectory: workDir, Logger: logger})
	if err != nil {
		return nil, err
	}

	meta := metadata.NewRunMetadata("show", workDir, spec.Version)
	meta.SetToolVersion(version)
	meta.SetConfigFile(cfg.Source)
	meta.SetDuration(time.Since(start))

	return &ShowReport{
		Metadata: meta,
		Git:      git.GetGitInfo(workDir),
		Report:   *report,
	}, nil
}
