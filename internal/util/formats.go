package util

import (
	"fmt"
	"slices"
	"strings"
)

// OutputFormats lists the --format values of the show command, in help order
var OutputFormats = []string{"text", "json", "yaml"}

// NormalizeFormat normalizes a format or choice string to trimmed lowercase
func NormalizeFormat(format string) string {
	return strings.ToLower(strings.TrimSpace(format))
}

// ValidateChoice checks that value (case-insensitive) is one of valid.
// kind names the setting in the error, e.g. "format" or "log format".
func ValidateChoice(kind, value string, valid []string) error {
	if slices.Contains(valid, NormalizeFormat(value)) {
		return nil
	}
	return fmt.Errorf("invalid %s: %s. Valid values are: %s", kind, value, strings.Join(valid, ", "))
}

// ValidateOutputFormat checks if the given format is valid
func ValidateOutputFormat(format string) error {
	return ValidateChoice("format", format, OutputFormats)
}
