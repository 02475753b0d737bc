package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/cegme/mdoutline/internal/markers"
	"github.com/cegme/mdoutline/internal/release"
	"github.com/cegme/mdoutline/internal/validation"
)

// ConfigFileName is looked up in the working directory
const ConfigFileName = ".mdoutline-release.yml"

// ReleaseConfig represents the .mdoutline-release.yml configuration file
type ReleaseConfig struct {
	Plugin     string         `yaml:"plugin,omitempty"`
	Markers    []markers.Rule `yaml:"markers,omitempty"`
	ExtraFiles []string       `yaml:"extra_files,omitempty"`
	Manifest   ManifestConfig `yaml:"manifest,omitempty"`
	Lockfile   LockfileConfig `yaml:"lockfile,omitempty"`

	// Path the configuration was read from; empty when defaults are used
	Source string `yaml:"-"`
}

// ManifestConfig controls the package.json step
type ManifestConfig struct {
	Enabled *bool  `yaml:"enabled,omitempty"`
	Path    string `yaml:"path,omitempty"`
}

// LockfileConfig controls the lockfile regeneration step
type LockfileConfig struct {
	Enabled        *bool  `yaml:"enabled,omitempty"`
	PackageManager string `yaml:"package_manager,omitempty"`
}

// LoadReleaseConfig reads the release configuration.
// With an empty path, .mdoutline-release.yml in workDir is used and a missing file
// yields an empty config (not an error). An explicit path must exist.
func LoadReleaseConfig(workDir, path string) (*ReleaseConfig, error) {
	explicit := path != ""
	if !explicit {
		path = filepath.Join(workDir, ConfigFileName)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return &ReleaseConfig{}, nil
		}
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	cfg, err := ParseReleaseConfig(data)
	if err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	cfg.Source = path
	return cfg, nil
}

// ParseReleaseConfig validates data against the embedded schema and decodes it
func ParseReleaseConfig(data []byte) (*ReleaseConfig, error) {
	if err := validation.ValidateYAML(validation.ReleaseConfigSchema, data); err != nil {
		return nil, err
	}

	var config ReleaseConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, err
	}
	return &config, nil
}

// ApplyTo overlays the configured values onto options
func (c *ReleaseConfig) ApplyTo(options release.Options) release.Options {
	if c == nil {
		return options
	}

	if c.Plugin != "" {
		options.PluginPath = c.Plugin
	}
	if len(c.Markers) > 0 {
		options.Markers = c.Markers
	}
	if len(c.ExtraFiles) > 0 {
		options.ExtraFiles = append([]string(nil), c.ExtraFiles...)
	}

	if c.Manifest.Enabled != nil {
		options.Manifest = *c.Manifest.Enabled
	}
	if c.Manifest.Path != "" {
		options.ManifestPath = c.Manifest.Path
	}

	if c.Lockfile.Enabled != nil {
		options.Lockfile = *c.Lockfile.Enabled
	}
	if c.Lockfile.PackageManager != "" {
		options.PackageManager = c.Lockfile.PackageManager
	}

	return options
}
