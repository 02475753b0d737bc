package metadata

import (
	"path/filepath"
	"time"
)

// RunMetadata contains information about a release command execution
type RunMetadata struct {
	Command          string `json:"command" yaml:"command"`
	Timestamp        string `json:"timestamp" yaml:"timestamp"`
	WorkingDirectory string `json:"working_directory" yaml:"working_directory"`
	SpecVersion      string `json:"specVersion" yaml:"specVersion"` // Report format specification version
	ToolVersion      string `json:"tool_version,omitempty" yaml:"tool_version,omitempty"`
	ConfigFile       string `json:"config_file,omitempty" yaml:"config_file,omitempty"`
	DurationMs       int64  `json:"duration_ms,omitempty" yaml:"duration_ms,omitempty"`
}

// NewRunMetadata creates a new run metadata instance
func NewRunMetadata(command, workDir, specVersion string) *RunMetadata {
	absPath, err := filepath.Abs(workDir)
	if err != nil {
		absPath = workDir
	}

	return &RunMetadata{
		Command:          command,
		Timestamp:        time.Now().UTC().Format(time.RFC3339),
		WorkingDirectory: absPath,
		SpecVersion:      specVersion,
	}
}

// SetDuration sets the run duration in milliseconds
func (m *RunMetadata) SetDuration(duration time.Duration) {
	m.DurationMs = duration.Milliseconds()
}

// SetToolVersion records the mdoutline-release build version
func (m *RunMetadata) SetToolVersion(version string) {
	m.ToolVersion = version
}

// SetConfigFile records where the release configuration was read from
func (m *RunMetadata) SetConfigFile(path string) {
	m.ConfigFile = path
}
