package release

import (
	"github.com/cegme/mdoutline/internal/markers"
)

const (
	DefaultPluginPath   = "plugin/mdoutline.vim"
	DefaultManifestPath = "package.json"
)

// Options selects the target files and the steps Prepare runs
type Options struct {
	PluginPath string
	Markers    []markers.Rule
	// ExtraFiles are doublestar patterns of further files carrying the same markers
	ExtraFiles []string

	// Manifest and Lockfile enable the extended variant
	Manifest       bool
	ManifestPath   string
	Lockfile       bool
	PackageManager string // empty means detect from the lockfile present
}

// DefaultOptions returns the plain variant: only the plugin markers are updated
func DefaultOptions() Options {
	return Options{
		PluginPath:   DefaultPluginPath,
		Markers:      markers.DefaultVimRules(),
		ManifestPath: DefaultManifestPath,
	}
}

// Extended turns on the manifest and lockfile steps
func (o Options) Extended() Options {
	o.Manifest = true
	o.Lockfile = true
	return o
}
