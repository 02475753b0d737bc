package release

import (
	"errors"
	"fmt"
)

// ErrInvalidVersion is returned when the release version is empty or not semver
var ErrInvalidVersion = errors.New("invalid release version")

// FileReadError reports a target file that is missing or unreadable
type FileReadError struct {
	Path string
	Err  error
}

func (e *FileReadError) Error() string {
	return fmt.Sprintf("failed to read %s: %v", e.Path, e.Err)
}

func (e *FileReadError) Unwrap() error {
	return e.Err
}

// ParseError reports a manifest that is not a valid JSON object
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// SubprocessError reports a lockfile refresh that exited non-zero or failed to start
type SubprocessError struct {
	Command string
	Err     error
}

func (e *SubprocessError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Command, e.Err)
}

func (e *SubprocessError) Unwrap() error {
	return e.Err
}

// MismatchError reports a marker that does not hold the expected version
type MismatchError struct {
	Path   string
	Marker string
	Found  string
	Want   string
}

func (e *MismatchError) Error() string {
	if e.Found == "" {
		return fmt.Sprintf("%s: marker %s not found (want %s)", e.Path, e.Marker, e.Want)
	}
	return fmt.Sprintf("%s: marker %s is %s (want %s)", e.Path, e.Marker, e.Found, e.Want)
}
