package provider

import (
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// FakeProvider implements the Provider interface for testing
type FakeProvider struct {
	content map[string]string
	writes  []string

	// ReadErrors forces ReadFile to fail for the given paths
	ReadErrors map[string]error
}

// NewFakeProvider creates a new fake provider
func NewFakeProvider() *FakeProvider {
	return &FakeProvider{
		content:    make(map[string]string),
		ReadErrors: make(map[string]error),
	}
}

// AddFile adds a file to the fake provider
func (p *FakeProvider) AddFile(name, content string) {
	p.content[clean(name)] = content
}

// Content returns the current content of a file and whether it exists
func (p *FakeProvider) Content(name string) (string, bool) {
	content, ok := p.content[clean(name)]
	return content, ok
}

// Writes returns the paths written so far, in order
func (p *FakeProvider) Writes() []string {
	return append([]string(nil), p.writes...)
}

// ReadFile reads file content as bytes
func (p *FakeProvider) ReadFile(name string) ([]byte, error) {
	name = clean(name)
	if err, ok := p.ReadErrors[name]; ok {
		return nil, err
	}
	content, exists := p.content[name]
	if !exists {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	return []byte(content), nil
}

// WriteFile stores the content and records the write
func (p *FakeProvider) WriteFile(name string, data []byte) error {
	name = clean(name)
	p.content[name] = string(data)
	p.writes = append(p.writes, name)
	return nil
}

// Exists checks if a file or directory exists
func (p *FakeProvider) Exists(name string) (bool, error) {
	name = clean(name)
	if _, ok := p.content[name]; ok {
		return true, nil
	}
	prefix := name + "/"
	for file := range p.content {
		if strings.HasPrefix(file, prefix) {
			return true, nil
		}
	}
	return false, nil
}

// Glob matches the stored file names
func (p *FakeProvider) Glob(pattern string) ([]string, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, doublestar.ErrBadPattern
	}
	var matches []string
	for file := range p.content {
		if doublestar.MatchUnvalidated(pattern, file) {
			matches = append(matches, file)
		}
	}
	sort.Strings(matches)
	return matches, nil
}

// GetBasePath returns the base path for this provider
func (p *FakeProvider) GetBasePath() string {
	return "/"
}

func clean(name string) string {
	return strings.TrimPrefix(path.Clean("/"+name), "/")
}
