package ignore

import (
	"path/filepath"
	"strings"
)

// ShouldIgnore checks if a file or directory, given relative to the
// matcher's root, should be ignored.
func (m *IgnoreMatcher) ShouldIgnore(relativePath string, isDir bool) bool {
	if m == nil || m.disabled {
		return false
	}

	unixPath := filepath.ToSlash(relativePath)
	if unixPath == "" || unixPath == "." {
		return false // Never ignore the root itself
	}

	m.logger.Debug("ignore.ShouldIgnore: Checking path: %q (isDir: %v)", unixPath, isDir)

	if matchRules(m.rules, unixPath) {
		m.logger.Debug("ignore.ShouldIgnore: Ignored %q (pattern set)", unixPath)
		return true
	}

	if m.ignoreHidden && hasHiddenSegment(unixPath) {
		m.logger.Debug("ignore.ShouldIgnore: Ignored %q (hidden rule)", unixPath)
		return true
	}

	if m.customIgnore != nil {
		if m.customIgnore.MatchesPath(unixPath) || (isDir && m.customIgnore.MatchesPath(unixPath+"/")) {
			m.logger.Debug("ignore.ShouldIgnore: Ignored %q (custom rule)", unixPath)
			return true
		}
	}

	if m.repoIgnore != nil && m.repoIgnoreMatches(unixPath, isDir) {
		m.logger.Debug("ignore.ShouldIgnore: Ignored %q (nested ignore file)", unixPath)
		return true
	}

	m.logger.Debug("ignore.ShouldIgnore: Path %q NOT ignored by any rule", unixPath)
	return false
}

// ShouldIgnorePath classifies an absolute path. Paths outside the root are
// reported through the returned error rather than classified.
func (m *IgnoreMatcher) ShouldIgnorePath(absPath string, isDir bool) (bool, error) {
	rel, err := RelativePath(m.rootDir, absPath)
	if err != nil {
		return false, err
	}
	return m.ShouldIgnore(rel, isDir), nil
}

func (m *IgnoreMatcher) repoIgnoreMatches(unixPath string, isDir bool) (ignored bool) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("PANIC recovered in gitignore library for path %q: %v", unixPath, r)
			ignored = false
		}
	}()

	match := m.repoIgnore.Absolute(filepath.Join(m.rootDir, filepath.FromSlash(unixPath)), isDir)
	return match != nil && match.Ignore()
}

func hasHiddenSegment(unixPath string) bool {
	for _, part := range strings.Split(unixPath, "/") {
		if strings.HasPrefix(part, ".") && part != "." && part != ".." {
			return true
		}
	}
	return false
}
