package markers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const vimPlugin = `" mdoutline.vim - Markdown outline for Vim
" Maintainer: cegme
" Version: 0.1.0

if exists('g:loaded_mdoutline')
  finish
endif
let g:loaded_mdoutline = 1
let g:mdoutline_version = '0.1.0'

command! MdOutline call mdoutline#toggle()
`

func compileDefaults(t *testing.T) []*Compiled {
	t.Helper()
	compiled, err := Compile(DefaultVimRules())
	require.NoError(t, err)
	return compiled
}

func TestApplyAll_UpdatesBothMarkers(t *testing.T) {
	got, unmatched := ApplyAll(vimPlugin, "0.2.0", compileDefaults(t))

	assert.Empty(t, unmatched)
	assert.Contains(t, got, "\" Version: 0.2.0\n")
	assert.Contains(t, got, "let g:mdoutline_version = '0.2.0'\n")
	assert.NotContains(t, got, "0.1.0")
}

func TestApplyAll_OnlyMarkerLinesChange(t *testing.T) {
	got, _ := ApplyAll(vimPlugin, "1.4.2", compileDefaults(t))

	before := strings.Split(vimPlugin, "\n")
	after := strings.Split(got, "\n")
	require.Len(t, after, len(before))

	var changed []int
	for i := range before {
		if before[i] != after[i] {
			changed = append(changed, i)
		}
	}
	assert.Equal(t, []int{2, 8}, changed)
}

func TestApplyAll_Idempotent(t *testing.T) {
	rules := compileDefaults(t)

	first, _ := ApplyAll(vimPlugin, "0.2.0", rules)
	second, _ := ApplyAll(first, "0.2.0", rules)

	assert.Equal(t, first, second)
}

func TestApplyAll_ReportsUnmatchedRules(t *testing.T) {
	content := "\" Version: 0.1.0\nlet g:other = 1\n"

	got, unmatched := ApplyAll(content, "0.2.0", compileDefaults(t))

	assert.Equal(t, []string{"version-variable"}, unmatched)
	assert.Equal(t, "\" Version: 0.2.0\nlet g:other = 1\n", got)
}

func TestApply(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		version  string
		expected string
		matched  bool
	}{
		{
			name:     "comment must start the line",
			content:  "  \" Version: 0.1.0\n",
			version:  "0.2.0",
			expected: "  \" Version: 0.1.0\n",
			matched:  false,
		},
		{
			name:     "only first comment is replaced",
			content:  "\" Version: 0.1.0\n\" Version: 0.0.9\n",
			version:  "0.2.0",
			expected: "\" Version: 0.2.0\n\" Version: 0.0.9\n",
			matched:  true,
		},
		{
			name:     "crlf line ending kept",
			content:  "\" Version: 0.1.0\r\nlet x = 1\r\n",
			version:  "0.2.0",
			expected: "\" Version: 0.2.0\r\nlet x = 1\r\n",
			matched:  true,
		},
		{
			name:     "dollar sign inserted literally",
			content:  "\" Version: 0.1.0\n",
			version:  "1.0.0-$1",
			expected: "\" Version: 1.0.0-$1\n",
			matched:  true,
		},
		{
			name:     "prerelease version",
			content:  "\" Version: 0.1.0\n",
			version:  "1.0.0-beta.1",
			expected: "\" Version: 1.0.0-beta.1\n",
			matched:  true,
		},
	}

	comment := compileDefaults(t)[0]
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, matched := comment.Apply(tt.content, tt.version)
			assert.Equal(t, tt.matched, matched)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestCurrent(t *testing.T) {
	rules := compileDefaults(t)

	version, ok := rules[0].Current(vimPlugin)
	assert.True(t, ok)
	assert.Equal(t, "0.1.0", version)

	version, ok = rules[1].Current(vimPlugin)
	assert.True(t, ok)
	assert.Equal(t, "0.1.0", version)

	_, ok = rules[1].Current("let g:other = 1\n")
	assert.False(t, ok)
}

func TestCompile_Errors(t *testing.T) {
	tests := []struct {
		name    string
		rule    Rule
		wantErr string
	}{
		{
			name:    "missing pattern",
			rule:    Rule{Name: "empty", Replacement: Placeholder},
			wantErr: "marker empty: pattern is required",
		},
		{
			name:    "invalid regex",
			rule:    Rule{Name: "broken", Pattern: "(", Replacement: Placeholder},
			wantErr: "marker broken: invalid regex pattern",
		},
		{
			name:    "no placeholder",
			rule:    Rule{Pattern: "v.+", Replacement: "v1"},
			wantErr: "marker #1: replacement \"v1\" has no {{version}} placeholder",
		},
		{
			name:    "pattern does not cover the replacement",
			rule:    Rule{Name: "partial", Pattern: `version = "[0-9.]+"`, Replacement: `let g:version = "{{version}}" " pinned`},
			wantErr: `marker partial: pattern "version = \"[0-9.]+\"" does not match its own replacement`,
		},
		{
			name:    "pattern matches only inside the replacement",
			rule:    Rule{Name: "inner", Pattern: `\d+\.\d+\.\d+`, Replacement: "v{{version}}"},
			wantErr: "does not match its own replacement \"v1.2.3\"",
		},
		{
			name:    "two placeholders",
			rule:    Rule{Name: "twice", Pattern: "v.+", Replacement: Placeholder + Placeholder},
			wantErr: "more than one {{version}} placeholder",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile([]Rule{tt.rule})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestCompile_RoundTripsThroughCurrent(t *testing.T) {
	rules, err := Compile([]Rule{
		{Name: "const", Pattern: `const s:version = "[^"]+"`, Replacement: `const s:version = "{{version}}"`},
		{Name: "header", Pattern: `(?m)^# v[^\r\n]+`, Replacement: "# v{{version}}"},
	})
	require.NoError(t, err)

	content := "# v0.1.0\nconst s:version = \"0.1.0\"\n"
	updated, unmatched := ApplyAll(content, "2.0.0-rc.1", rules)
	require.Empty(t, unmatched)

	for _, rule := range rules {
		version, ok := rule.Current(updated)
		assert.True(t, ok, rule.Name)
		assert.Equal(t, "2.0.0-rc.1", version, rule.Name)
	}
}
