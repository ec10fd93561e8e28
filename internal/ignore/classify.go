package ignore

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/danwakefield/fnmatch"
)

// rule is a pattern prepared for matching.
type rule struct {
	pattern  string
	anchored bool
}

// compileRules strips trailing slashes and the root anchor. Patterns that end
// up empty can never match and are dropped.
func compileRules(patterns PatternSet) []rule {
	rules := make([]rule, 0, patterns.Len())
	for _, p := range patterns.Sorted() {
		p = strings.TrimRight(p, "/")
		anchored := strings.HasPrefix(p, "/")
		if anchored {
			p = p[1:]
		}
		if p == "" {
			continue
		}
		rules = append(rules, rule{pattern: p, anchored: anchored})
	}
	return rules
}

// RelativePath returns filePath relative to basePath using forward slashes.
// It fails with ErrOutsideBase when filePath is not inside basePath.
func RelativePath(basePath, filePath string) (string, error) {
	rel, err := filepath.Rel(basePath, filePath)
	if err != nil {
		return "", fmt.Errorf("ignore: %q relative to %q: %w (%v)", filePath, basePath, ErrOutsideBase, err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("ignore: %q relative to %q: %w", filePath, basePath, ErrOutsideBase)
	}
	return filepath.ToSlash(rel), nil
}

// IsIgnored reports whether filePath, taken relative to basePath, matches
// any of patterns.
func IsIgnored(filePath string, patterns PatternSet, basePath string) (bool, error) {
	rel, err := RelativePath(basePath, filePath)
	if err != nil {
		return false, err
	}
	return matchRules(compileRules(patterns), rel), nil
}

// Match reports whether the slash-separated relative path is ignored by the
// set.
func (s PatternSet) Match(relativePath string) bool {
	return matchRules(compileRules(s), relativePath)
}

// matchRules tests every ancestor-or-self prefix of rel. A directory that
// matches therefore makes every path beneath it match as well.
func matchRules(rules []rule, rel string) bool {
	rel = strings.Trim(filepath.ToSlash(rel), "/")
	if rel == "" || rel == "." {
		return false
	}
	segs := strings.Split(rel, "/")

	for _, r := range rules {
		for i := 1; i <= len(segs); i++ {
			prefix := segs[:i]
			if r.anchored {
				if fnmatch.Match(r.pattern, strings.Join(prefix, "/"), 0) {
					return true
				}
				continue
			}
			if matchEntry(r.pattern, prefix) {
				return true
			}
		}
	}
	return false
}

// matchEntry tests an unanchored pattern against one path: each of its
// suffixes (the bare name included) and each ancestor joined with its name.
func matchEntry(pattern string, segs []string) bool {
	n := len(segs)
	for k := 0; k < n; k++ {
		if fnmatch.Match(pattern, strings.Join(segs[k:], "/"), 0) {
			return true
		}
	}
	name := segs[n-1]
	for j := 1; j < n-1; j++ {
		if fnmatch.Match(pattern, strings.Join(segs[:j], "/")+"/"+name, 0) {
			return true
		}
	}
	return false
}
