package ignore

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// PatternSet is an unordered, de-duplicated collection of raw ignore
// patterns.
type PatternSet map[string]struct{}

// NewPatternSet returns a set holding the given patterns.
func NewPatternSet(patterns ...string) PatternSet {
	s := make(PatternSet, len(patterns))
	for _, p := range patterns {
		s.Add(p)
	}
	return s
}

// Add inserts a pattern. Blank patterns are dropped.
func (s PatternSet) Add(pattern string) {
	if pattern = strings.TrimSpace(pattern); pattern != "" {
		s[pattern] = struct{}{}
	}
}

// Contains reports whether pattern is in the set.
func (s PatternSet) Contains(pattern string) bool {
	_, ok := s[pattern]
	return ok
}

// Len returns the number of patterns.
func (s PatternSet) Len() int { return len(s) }

// Sorted returns the patterns in lexical order.
func (s PatternSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for p := range s {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// LoadPatterns reads a gitignore-style file. A missing file yields an empty
// set; a file that exists but cannot be read is an error.
func LoadPatterns(path string) (PatternSet, error) {
	patterns := NewPatternSet()

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return patterns, nil
		}
		return nil, fmt.Errorf("ignore: open %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns.Add(line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("ignore: read %s: %w", path, err)
	}
	return patterns, nil
}

// LoadForRoot loads the ignore patterns that apply to dir: the override file
// when one is given, otherwise dir/.gitignore. VCSPattern is always added.
func LoadForRoot(dir, override string) (PatternSet, error) {
	path := override
	if path == "" {
		path = filepath.Join(dir, DefaultIgnoreFile)
	}
	patterns, err := LoadPatterns(path)
	if err != nil {
		return nil, err
	}
	patterns.Add(VCSPattern)
	return patterns, nil
}
