package types

// Provider defines the interface for file system operations relative to a working directory
type Provider interface {
	// ReadFile reads file content as bytes
	ReadFile(path string) ([]byte, error)

	// WriteFile overwrites a file, creating it if needed
	WriteFile(path string, data []byte) error

	// Exists checks if a file or directory exists
	Exists(path string) (bool, error)

	// Glob returns the slash-separated paths matching a doublestar pattern
	Glob(pattern string) ([]string, error)

	// GetBasePath returns the base path for this provider
	GetBasePath() string
}
