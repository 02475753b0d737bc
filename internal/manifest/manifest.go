// Package manifest edits the version field of a package.json document without
// disturbing the order or encoding of the other fields.
package manifest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/buger/jsonparser"
)

// Indent is the indentation used when writing the manifest back
const Indent = "  "

// ErrNotObject is returned when the manifest is valid JSON but not an object
var ErrNotObject = errors.New("manifest is not a JSON object")

// versionKey is the top-level field rewritten by SetVersion
const versionKey = "version"

// SetVersion sets the top-level "version" field, adding it at the end of the object
// when absent, and returns the document indented with two spaces and a single
// trailing newline. Repeated "version" keys collapse into the first one.
func SetVersion(content []byte, version string) ([]byte, error) {
	compacted, err := compactObject(content)
	if err != nil {
		return nil, err
	}

	compacted, err = dropRepeatedVersions(compacted)
	if err != nil {
		return nil, err
	}

	value, err := json.Marshal(version)
	if err != nil {
		return nil, fmt.Errorf("failed to encode version: %w", err)
	}

	updated, err := jsonparser.Set(compacted, value, versionKey)
	if err != nil {
		return nil, fmt.Errorf("failed to set version: %w", err)
	}

	return format(updated)
}

// Version returns the top-level "version" string, if present.
// When the key repeats, the last value wins, as with any JSON decoder.
func Version(content []byte) (string, bool, error) {
	compacted, err := compactObject(content)
	if err != nil {
		return "", false, err
	}

	members, err := splitMembers(compacted)
	if err != nil {
		return "", false, err
	}

	var last *member
	for i := range members {
		if members[i].isVersion {
			last = &members[i]
		}
	}
	if last == nil {
		return "", false, nil
	}
	if last.dataType != jsonparser.String {
		return "", false, fmt.Errorf("failed to read version: expected a string, got %s", last.dataType)
	}
	version, err := jsonparser.ParseString(last.value)
	if err != nil {
		return "", false, fmt.Errorf("failed to read version: %w", err)
	}
	return version, true, nil
}

// member is one top-level "key":value pair of a compacted object
type member struct {
	raw       []byte
	value     []byte
	dataType  jsonparser.ValueType
	isVersion bool
}

// splitMembers returns the top-level members of a compacted object, bytes untouched
func splitMembers(compacted []byte) ([]member, error) {
	var members []member
	start := 1 // past the opening brace
	err := jsonparser.ObjectEach(compacted, func(key, value []byte, dataType jsonparser.ValueType, end int) error {
		members = append(members, member{
			raw:       compacted[start:end],
			value:     value,
			dataType:  dataType,
			isVersion: string(key) == versionKey,
		})
		start = end + 1 // past the comma
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest fields: %w", err)
	}
	return members, nil
}

// dropRepeatedVersions removes every "version" member after the first one
func dropRepeatedVersions(compacted []byte) ([]byte, error) {
	members, err := splitMembers(compacted)
	if err != nil {
		return nil, err
	}

	kept := make([][]byte, 0, len(members))
	seen := false
	for _, m := range members {
		if m.isVersion {
			if seen {
				continue
			}
			seen = true
		}
		kept = append(kept, m.raw)
	}
	if len(kept) == len(members) {
		return compacted, nil
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	buf.Write(bytes.Join(kept, []byte{','}))
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// compactObject validates that content holds a single JSON object and strips
// insignificant whitespace
func compactObject(content []byte) ([]byte, error) {
	var doc interface{}
	if err := json.Unmarshal(content, &doc); err != nil {
		return nil, err
	}
	if _, ok := doc.(map[string]interface{}); !ok {
		return nil, ErrNotObject
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, content); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func format(content []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, content, "", Indent); err != nil {
		return nil, fmt.Errorf("failed to format manifest: %w", err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}
