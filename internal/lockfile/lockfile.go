// Package lockfile regenerates a package-manager lockfile after the manifest
// version changed.
package lockfile

import (
	"fmt"
	"strings"

	"github.com/cegme/mdoutline/internal/types"
)

// PackageManager describes how to refresh one package manager's lockfile without
// touching node_modules
type PackageManager struct {
	Name     string
	Lockfile string
	Args     []string
}

// Command returns the printable command line
func (pm PackageManager) Command() string {
	return strings.Join(append([]string{pm.Name}, pm.Args...), " ")
}

var (
	NPM = PackageManager{
		Name:     "npm",
		Lockfile: "package-lock.json",
		Args:     []string{"install", "--package-lock-only"},
	}
	PNPM = PackageManager{
		Name:     "pnpm",
		Lockfile: "pnpm-lock.yaml",
		Args:     []string{"install", "--lockfile-only"},
	}
	Yarn = PackageManager{
		Name:     "yarn",
		Lockfile: "yarn.lock",
		Args:     []string{"install", "--mode", "update-lockfile"},
	}
)

// detectionOrder lists the managers whose lockfile takes precedence; npm is the fallback
var detectionOrder = []PackageManager{PNPM, Yarn}

// Lookup returns the package manager with the given name
func Lookup(name string) (PackageManager, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "npm":
		return NPM, nil
	case "pnpm":
		return PNPM, nil
	case "yarn":
		return Yarn, nil
	default:
		return PackageManager{}, fmt.Errorf("unsupported package manager: %s (supported: npm, pnpm, yarn)", name)
	}
}

// Detect picks the package manager from the lockfile present in the working directory
func Detect(provider types.Provider) PackageManager {
	for _, pm := range detectionOrder {
		if exists, err := provider.Exists(pm.Lockfile); err == nil && exists {
			return pm
		}
	}
	return NPM
}

// Resolve returns the configured package manager, or the detected one when name is empty
func Resolve(provider types.Provider, name string) (PackageManager, error) {
	if strings.TrimSpace(name) == "" {
		return Detect(provider), nil
	}
	return Lookup(name)
}
