package release

import (
	"github.com/hashicorp/go-multierror"

	"github.com/cegme/mdoutline/internal/lockfile"
	"github.com/cegme/mdoutline/internal/manifest"
	"github.com/cegme/mdoutline/internal/types"
)

// MarkerState is the version currently held by one marker of one file
type MarkerState struct {
	Path    string `json:"path" yaml:"path"`
	Marker  string `json:"marker" yaml:"marker"`
	Version string `json:"version,omitempty" yaml:"version,omitempty"`
	Found   bool   `json:"found" yaml:"found"`
}

// Report describes the versions found in a working directory
type Report struct {
	WorkingDirectory string        `json:"working_directory" yaml:"working_directory"`
	Markers          []MarkerState `json:"markers" yaml:"markers"`
	ManifestPath     string        `json:"manifest_path,omitempty" yaml:"manifest_path,omitempty"`
	ManifestVersion  string        `json:"manifest_version,omitempty" yaml:"manifest_version,omitempty"`
	LockfilePath     string        `json:"lockfile_path,omitempty" yaml:"lockfile_path,omitempty"`
	LockfileVersion  string        `json:"lockfile_version,omitempty" yaml:"lockfile_version,omitempty"`
	Consistent       bool          `json:"consistent" yaml:"consistent"`
}

// Versions returns the distinct versions found, in discovery order
func (r *Report) Versions() []string {
	seen := make(map[string]bool)
	var versions []string
	add := func(v string) {
		if v != "" && !seen[v] {
			seen[v] = true
			versions = append(versions, v)
		}
	}
	for _, m := range r.Markers {
		add(m.Version)
	}
	add(r.ManifestVersion)
	add(r.LockfileVersion)
	return versions
}

// Inspect reads every target without modifying anything
func (s *Synchronizer) Inspect(rc Context) (*Report, error) {
	fsys := s.newProvider(rc.WorkingDirectory)
	report := &Report{WorkingDirectory: rc.WorkingDirectory}

	paths := []string{s.options.PluginPath}
	for _, path := range s.extraFiles(fsys, rc.logger()) {
		if path != s.options.PluginPath {
			paths = append(paths, path)
		}
	}

	allFound := true
	for _, path := range paths {
		states, err := s.inspectMarkers(fsys, path)
		if err != nil {
			return nil, err
		}
		for _, state := range states {
			allFound = allFound && state.Found
		}
		report.Markers = append(report.Markers, states...)
	}

	if s.options.Manifest {
		path := s.options.ManifestPath
		content, err := fsys.ReadFile(path)
		if err != nil {
			return nil, &FileReadError{Path: path, Err: err}
		}
		version, found, err := manifest.Version(content)
		if err != nil {
			return nil, &ParseError{Path: path, Err: err}
		}
		report.ManifestPath = path
		report.ManifestVersion = version
		allFound = allFound && found
	}

	if s.options.Lockfile {
		if err := s.inspectLockfile(fsys, report); err != nil {
			return nil, err
		}
	}

	report.Consistent = allFound && len(report.Versions()) == 1
	return report, nil
}

func (s *Synchronizer) inspectMarkers(fsys types.Provider, path string) ([]MarkerState, error) {
	content, err := fsys.ReadFile(path)
	if err != nil {
		return nil, &FileReadError{Path: path, Err: err}
	}

	states := make([]MarkerState, 0, len(s.rules))
	for _, rule := range s.rules {
		version, found := rule.Current(string(content))
		states = append(states, MarkerState{
			Path:    path,
			Marker:  rule.Name,
			Version: version,
			Found:   found,
		})
	}
	return states, nil
}

// inspectLockfile records the version held by a lockfile that carries one.
// A missing lockfile is not an error; the prepare step creates it.
func (s *Synchronizer) inspectLockfile(fsys types.Provider, report *Report) error {
	pm, err := lockfile.Resolve(fsys, s.options.PackageManager)
	if err != nil {
		return err
	}
	if exists, err := fsys.Exists(pm.Lockfile); err != nil || !exists {
		return nil
	}

	content, err := fsys.ReadFile(pm.Lockfile)
	if err != nil {
		return &FileReadError{Path: pm.Lockfile, Err: err}
	}
	version, found, err := lockfile.RecordedVersion(pm, content)
	if err != nil {
		return &ParseError{Path: pm.Lockfile, Err: err}
	}
	if found {
		report.LockfilePath = pm.Lockfile
		report.LockfileVersion = version
	}
	return nil
}

// Verify checks that every marker, the manifest and the npm lockfile (when enabled)
// hold rc.Version.
// All mismatches are returned together.
func (s *Synchronizer) Verify(rc Context) error {
	if err := ValidateVersion(rc.Version); err != nil {
		return err
	}

	report, err := s.Inspect(rc)
	if err != nil {
		return err
	}

	var merr *multierror.Error
	for _, m := range report.Markers {
		if !m.Found || m.Version != rc.Version {
			merr = multierror.Append(merr, &MismatchError{
				Path:   m.Path,
				Marker: m.Marker,
				Found:  m.Version,
				Want:   rc.Version,
			})
		}
	}
	if report.ManifestPath != "" && report.ManifestVersion != rc.Version {
		merr = multierror.Append(merr, &MismatchError{
			Path:   report.ManifestPath,
			Marker: "version",
			Found:  report.ManifestVersion,
			Want:   rc.Version,
		})
	}

	if report.LockfilePath != "" && report.LockfileVersion != rc.Version {
		merr = multierror.Append(merr, &MismatchError{
			Path:   report.LockfilePath,
			Marker: "version",
			Found:  report.LockfileVersion,
			Want:   rc.Version,
		})
	}

	if merr == nil {
		rc.logger().Info("All version markers match", "version", rc.Version)
		return nil
	}
	return merr.ErrorOrNil()
}
