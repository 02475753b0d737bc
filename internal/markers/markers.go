// Package markers rewrites embedded version markers in text files.
//
// A marker is described by a Rule: a regular expression locating the marker and a
// replacement template in which the {{version}} placeholder stands for the version.
// Rules are applied in order and each one replaces only its first match, so the rest
// of the file is left byte-for-byte untouched.
package markers

import (
	"fmt"
	"regexp"
	"strings"
)

// Placeholder is substituted with the release version in replacement templates
const Placeholder = "{{version}}"

// Rule describes one version marker
type Rule struct {
	Name        string `yaml:"name" json:"name"`
	Pattern     string `yaml:"pattern" json:"pattern"`
	Replacement string `yaml:"replacement" json:"replacement"`
}

// DefaultVimRules returns the markers found in plugin/mdoutline.vim
func DefaultVimRules() []Rule {
	return []Rule{
		{
			Name:        "version-comment",
			Pattern:     `(?m)^" Version: [^\r\n]+`,
			Replacement: `" Version: ` + Placeholder,
		},
		{
			Name:        "version-variable",
			Pattern:     `let g:mdoutline_version = '.+'`,
			Replacement: `let g:mdoutline_version = '` + Placeholder + `'`,
		},
	}
}

// sampleVersion is rendered at compile time to check that a rule can read back what it writes
const sampleVersion = "1.2.3"

// Compiled is a rule ready to be applied
type Compiled struct {
	Rule
	pattern *regexp.Regexp
	prefix  string
	suffix  string
}

// Compile validates and compiles rules, preserving their order
func Compile(rules []Rule) ([]*Compiled, error) {
	compiled := make([]*Compiled, 0, len(rules))
	for i, rule := range rules {
		c, err := compileRule(rule)
		if err != nil {
			name := rule.Name
			if name == "" {
				name = fmt.Sprintf("#%d", i+1)
			}
			return nil, fmt.Errorf("marker %s: %w", name, err)
		}
		compiled = append(compiled, c)
	}
	return compiled, nil
}

func compileRule(rule Rule) (*Compiled, error) {
	if rule.Pattern == "" {
		return nil, fmt.Errorf("pattern is required")
	}

	pattern, err := regexp.Compile(rule.Pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid regex pattern %q: %w", rule.Pattern, err)
	}

	prefix, suffix, found := strings.Cut(rule.Replacement, Placeholder)
	if !found {
		return nil, fmt.Errorf("replacement %q has no %s placeholder", rule.Replacement, Placeholder)
	}
	if strings.Contains(suffix, Placeholder) {
		return nil, fmt.Errorf("replacement %q has more than one %s placeholder", rule.Replacement, Placeholder)
	}

	c := &Compiled{
		Rule:    rule,
		pattern: pattern,
		prefix:  prefix,
		suffix:  suffix,
	}

	// The rewritten marker must be found again, whole, or Current cannot read it back
	sample := c.Render(sampleVersion)
	if match := pattern.FindString(sample); match != sample {
		return nil, fmt.Errorf("pattern %q does not match its own replacement %q", rule.Pattern, sample)
	}
	return c, nil
}

// Render returns the marker text for a version
func (c *Compiled) Render(version string) string {
	return c.prefix + version + c.suffix
}

// Apply replaces the first match with the rendered marker.
// The version is inserted literally; "$" has no special meaning.
func (c *Compiled) Apply(content, version string) (string, bool) {
	loc := c.pattern.FindStringIndex(content)
	if loc == nil {
		return content, false
	}
	return content[:loc[0]] + c.Render(version) + content[loc[1]:], true
}

// Current returns the version held by the first match.
// The match must carry the template's literal text around the version.
func (c *Compiled) Current(content string) (string, bool) {
	match := c.pattern.FindString(content)
	if match == "" {
		return "", false
	}
	if !strings.HasPrefix(match, c.prefix) || !strings.HasSuffix(match, c.suffix) ||
		len(match) < len(c.prefix)+len(c.suffix) {
		return "", false
	}
	return match[len(c.prefix) : len(match)-len(c.suffix)], true
}

// ApplyAll applies every rule in order and returns the names of the rules that
// did not match anything
func ApplyAll(content, version string, rules []*Compiled) (string, []string) {
	var unmatched []string
	for _, rule := range rules {
		var matched bool
		content, matched = rule.Apply(content, version)
		if !matched {
			unmatched = append(unmatched, rule.Name)
		}
	}
	return content, unmatched
}
