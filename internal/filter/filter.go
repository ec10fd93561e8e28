// Package filter implements the user-directed include/exclude glob filter.
//
// Patterns come from comma-separated strings. A pattern containing a slash is
// matched against the slash-separated path relative to the scan base, where
// "**" spans any number of segments; any other pattern is matched against
// the bare file name. Exclusion always wins over inclusion.
package filter

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Spec is the immutable include/exclude configuration for one run.
type Spec struct {
	Include       []string
	Exclude       []string
	CaseSensitive bool
}

// New builds a Spec from raw comma-separated pattern strings. Every glob is
// validated so a bad pattern is reported once, at configuration time.
func New(include, exclude string, caseSensitive bool) (Spec, error) {
	spec := Spec{
		Include:       SplitPatterns(include, caseSensitive),
		Exclude:       SplitPatterns(exclude, caseSensitive),
		CaseSensitive: caseSensitive,
	}
	for _, p := range append(append([]string{}, spec.Include...), spec.Exclude...) {
		if !doublestar.ValidatePattern(p) {
			return Spec{}, fmt.Errorf("filter: invalid glob pattern %q", p)
		}
	}
	return spec, nil
}

// SplitPatterns splits on commas, trims each piece and drops empty ones.
// Pieces are lower-cased unless caseSensitive is set.
func SplitPatterns(raw string, caseSensitive bool) []string {
	var out []string
	for _, piece := range strings.Split(raw, ",") {
		piece = strings.TrimSpace(piece)
		if piece == "" {
			continue
		}
		if !caseSensitive {
			piece = strings.ToLower(piece)
		}
		out = append(out, filepath.ToSlash(piece))
	}
	return out
}

// IsZero reports whether the spec places no restriction at all.
func (s Spec) IsZero() bool {
	return len(s.Include) == 0 && len(s.Exclude) == 0
}

// Match reports whether the path, relative to the scan base, passes the
// filter.
func (s Spec) Match(relativePath string) bool {
	if s.IsZero() {
		return true
	}

	target := strings.TrimPrefix(filepath.ToSlash(relativePath), "./")
	if !s.CaseSensitive {
		target = strings.ToLower(target)
	}

	if matchAny(s.Exclude, target) {
		return false
	}
	if len(s.Include) > 0 {
		return matchAny(s.Include, target)
	}
	return true
}

// IsFiltered reports whether filePath passes the given include and exclude
// pattern strings. Invalid patterns never match.
func IsFiltered(filePath, include, exclude string, caseSensitive bool) bool {
	spec := Spec{
		Include:       SplitPatterns(include, caseSensitive),
		Exclude:       SplitPatterns(exclude, caseSensitive),
		CaseSensitive: caseSensitive,
	}
	return spec.Match(filePath)
}

func matchAny(patterns []string, target string) bool {
	name := path.Base(target)
	for _, p := range patterns {
		subject := name
		if strings.Contains(p, "/") {
			subject = target
		}
		if ok, err := doublestar.Match(p, subject); err == nil && ok {
			return true
		}
	}
	return false
}
