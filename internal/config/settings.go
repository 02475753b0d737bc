package config

import (
	"fmt"
	"io"
	"os"
	"strings"

	"log/slog"

	"github.com/charmbracelet/log"

	"github.com/cegme/mdoutline/internal/util"
)

const envPrefix = "MDOUTLINE_RELEASE_"

// ValidLogFormats lists the accepted --log-format values
var ValidLogFormats = []string{"text", "json", "pretty"}

// Settings holds process-level configuration for mdoutline-release
type Settings struct {
	// ConfigFile overrides the .mdoutline-release.yml lookup in the working directory
	ConfigFile string
	Verbose    bool

	// Logging
	LogLevel  slog.Level
	LogFormat string // "text", "json" or "pretty"
	LogFile   string // Optional: write logs to file instead of stderr
}

// DefaultSettings returns default configuration
func DefaultSettings() *Settings {
	return &Settings{
		ConfigFile: "",
		Verbose:    false,
		LogLevel:   slog.LevelInfo, // release hosts show the Updated lines
		LogFormat:  "text",
		LogFile:    "", // Empty = stderr
	}
}

// LoadSettings creates settings from defaults and applies environment variable overrides
func LoadSettings() *Settings {
	settings := DefaultSettings()

	if logLevel := os.Getenv(envPrefix + "LOG_LEVEL"); logLevel != "" {
		if level, err := ParseLogLevel(logLevel); err == nil {
			settings.LogLevel = level
		}
	}

	if logFormat := os.Getenv(envPrefix + "LOG_FORMAT"); logFormat != "" {
		settings.LogFormat = strings.ToLower(logFormat)
	}

	if logFile := os.Getenv(envPrefix + "LOG_FILE"); logFile != "" {
		settings.LogFile = logFile
	}

	if verbose := os.Getenv(envPrefix + "VERBOSE"); verbose != "" {
		settings.Verbose = strings.ToLower(verbose) == "true"
	}

	if configFile := os.Getenv(envPrefix + "CONFIG"); configFile != "" {
		settings.ConfigFile = configFile
	}

	return settings
}

// ParseLogLevel converts string log level to slog.Level
func ParseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	case "fatal":
		return slog.LevelError, nil // slog doesn't have fatal, use error
	default:
		return slog.LevelInfo, fmt.Errorf("invalid log level: %s", level)
	}
}

// ConfigureLogger builds the logger handed to the release steps.
// The returned func closes the log file, if one was opened.
func (s *Settings) ConfigureLogger() (*slog.Logger, func()) {
	if s.LogFile == "" {
		return s.NewLogger(os.Stderr), func() {}
	}

	file, err := os.OpenFile(s.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		// Fallback to stderr if file can't be opened
		fmt.Fprintf(os.Stderr, "Warning: Cannot open log file %s: %v\n", s.LogFile, err)
		return s.NewLogger(os.Stderr), func() {}
	}
	return s.NewLogger(file), func() { _ = file.Close() }
}

// NewLogger builds a logger writing to w in the configured format
func (s *Settings) NewLogger(w io.Writer) *slog.Logger {
	switch s.LogFormat {
	case "json":
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: s.LogLevel}))
	case "pretty":
		return slog.New(log.NewWithOptions(w, log.Options{
			Level:           log.Level(s.LogLevel),
			ReportTimestamp: true,
			Prefix:          "mdoutline-release",
		}))
	default:
		return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: s.LogLevel}))
	}
}

// Validate checks if settings are valid
func (s *Settings) Validate() error {
	return util.ValidateChoice("log format", s.LogFormat, ValidLogFormats)
}
