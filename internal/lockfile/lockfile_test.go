package lockfile

import (
	"context"
	"runtime"
	"testing"

	"github.com/cegme/mdoutline/internal/provider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name     string
		files    []string
		expected string
	}{
		{"no lockfile defaults to npm", nil, "npm"},
		{"package-lock.json", []string{"package-lock.json"}, "npm"},
		{"pnpm-lock.yaml", []string{"pnpm-lock.yaml"}, "pnpm"},
		{"yarn.lock", []string{"yarn.lock"}, "yarn"},
		{"pnpm wins over npm", []string{"package-lock.json", "pnpm-lock.yaml"}, "pnpm"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := provider.NewFakeProvider()
			p.AddFile("package.json", "{}")
			for _, f := range tt.files {
				p.AddFile(f, "")
			}
			assert.Equal(t, tt.expected, Detect(p).Name)
		})
	}
}

func TestLookup(t *testing.T) {
	pm, err := Lookup("PNPM")
	require.NoError(t, err)
	assert.Equal(t, "pnpm install --lockfile-only", pm.Command())

	pm, err = Lookup("npm")
	require.NoError(t, err)
	assert.Equal(t, "npm install --package-lock-only", pm.Command())

	_, err = Lookup("bun")
	assert.EqualError(t, err, "unsupported package manager: bun (supported: npm, pnpm, yarn)")
}

func TestResolve(t *testing.T) {
	p := provider.NewFakeProvider()
	p.AddFile("yarn.lock", "")

	pm, err := Resolve(p, "")
	require.NoError(t, err)
	assert.Equal(t, Yarn.Name, pm.Name)

	pm, err = Resolve(p, "npm")
	require.NoError(t, err)
	assert.Equal(t, NPM.Name, pm.Name)
}

func TestExecRunner(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}

	runner := ExecRunner{}
	dir := t.TempDir()

	t.Run("success", func(t *testing.T) {
		err := runner.Run(context.Background(), dir, "sh", "-c", "echo noisy output")
		assert.NoError(t, err)
	})

	t.Run("non-zero exit carries stderr", func(t *testing.T) {
		err := runner.Run(context.Background(), dir, "sh", "-c", "echo lock failed >&2; exit 3")
		require.Error(t, err)

		var exitErr *ExitError
		require.ErrorAs(t, err, &exitErr)
		assert.Equal(t, 3, exitErr.ExitCode)
		assert.Equal(t, "lock failed", exitErr.Stderr)
		assert.Contains(t, err.Error(), "exited with code 3: lock failed")
	})

	t.Run("runs in the given directory", func(t *testing.T) {
		err := runner.Run(context.Background(), dir, "sh", "-c", `test "$(pwd -P)" = "$(cd "$0" && pwd -P)"`, dir)
		assert.NoError(t, err)
	})

	t.Run("missing executable", func(t *testing.T) {
		err := runner.Run(context.Background(), dir, "mdoutline-release-no-such-tool")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to locate mdoutline-release-no-such-tool")
	})
}

func TestRecordedVersion(t *testing.T) {
	tests := []struct {
		name    string
		pm      PackageManager
		content string
		version string
		ok      bool
		wantErr bool
	}{
		{
			name:    "npm v3 lockfile",
			pm:      NPM,
			content: `{"name":"mdoutline","version":"1.2.0","lockfileVersion":3,"packages":{"":{"name":"mdoutline","version":"1.2.0"},"node_modules/semver":{"version":"7.6.0"}}}`,
			version: "1.2.0",
			ok:      true,
		},
		{
			name:    "npm top level only",
			pm:      NPM,
			content: `{"name":"mdoutline","version":"1.2.0","lockfileVersion":1}`,
			version: "1.2.0",
			ok:      true,
		},
		{
			name:    "npm without version",
			pm:      NPM,
			content: `{"name":"mdoutline","lockfileVersion":3,"packages":{"":{"name":"mdoutline"}}}`,
		},
		{
			name:    "npm disagreeing versions",
			pm:      NPM,
			content: `{"version":"1.2.0","packages":{"":{"version":"1.1.0"}}}`,
			wantErr: true,
		},
		{
			name:    "pnpm lockfile has no project version",
			pm:      PNPM,
			content: "lockfileVersion: '9.0'\n",
		},
		{
			name:    "yarn lockfile has no project version",
			pm:      Yarn,
			content: "__metadata:\n  version: 8\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			version, ok, err := RecordedVersion(tt.pm, []byte(tt.content))
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.version, version)
		})
	}
}
