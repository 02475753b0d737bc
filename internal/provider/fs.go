package provider

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

const defaultFileMode fs.FileMode = 0644

// FSProvider implements the Provider interface for local file systems
type FSProvider struct {
	rootPath string
}

// NewFSProvider creates a new file system provider
func NewFSProvider(rootPath string) *FSProvider {
	return &FSProvider{
		rootPath: strings.TrimSuffix(rootPath, "/"),
	}
}

// ReadFile reads file content as bytes
func (p *FSProvider) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(p.getFullPath(path))
}

// WriteFile overwrites the file in place. An existing file keeps its permissions.
func (p *FSProvider) WriteFile(path string, data []byte) error {
	fullPath := p.getFullPath(path)

	mode := defaultFileMode
	if info, err := os.Stat(fullPath); err == nil {
		mode = info.Mode().Perm()
	}

	return os.WriteFile(fullPath, data, mode)
}

// Exists checks if a file or directory exists
func (p *FSProvider) Exists(path string) (bool, error) {
	_, err := os.Stat(p.getFullPath(path))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// Glob matches files below the root path
func (p *FSProvider) Glob(pattern string) ([]string, error) {
	return doublestar.Glob(os.DirFS(p.rootPath), pattern, doublestar.WithFilesOnly())
}

// getFullPath converts a relative path to an absolute path
func (p *FSProvider) getFullPath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}

	if path == "." || path == "" {
		return p.rootPath
	}

	return filepath.Join(p.rootPath, filepath.FromSlash(path))
}

// GetBasePath returns the base path for this provider
func (p *FSProvider) GetBasePath() string {
	return p.rootPath
}
