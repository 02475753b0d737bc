package lockfile

import (
	"errors"
	"fmt"

	"github.com/buger/jsonparser"
)

// RecordedVersion returns the project version a lockfile records for the root package.
// Only npm lockfiles carry it; other managers report ok=false.
// package-lock.json holds the version twice (top level and packages[""]); both must agree.
func RecordedVersion(pm PackageManager, content []byte) (version string, ok bool, err error) {
	if pm.Name != NPM.Name {
		return "", false, nil
	}

	top, topOK, err := getString(content, "version")
	if err != nil {
		return "", false, err
	}
	root, rootOK, err := getString(content, "packages", "", "version")
	if err != nil {
		return "", false, err
	}

	switch {
	case topOK && rootOK && top != root:
		return "", false, fmt.Errorf("%s records version %s at the top level but %s for the root package", pm.Lockfile, top, root)
	case topOK:
		return top, true, nil
	case rootOK:
		return root, true, nil
	default:
		return "", false, nil
	}
}

func getString(content []byte, keys ...string) (string, bool, error) {
	value, err := jsonparser.GetString(content, keys...)
	if err != nil {
		if errors.Is(err, jsonparser.KeyPathNotFoundError) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to read %v: %w", keys, err)
	}
	return value, true, nil
}
