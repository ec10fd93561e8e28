// Package ignore decides whether paths are excluded by gitignore-style rules.
//
// The core is a PatternSet loaded from a single ignore file and matched with
// shell-style fnmatch semantics against every segment-anchored and
// suffix-anchored form of a path. An IgnoreMatcher layers optional extra
// rules on top: custom gitignore lines, nested .gitignore files and a
// hidden-file rule. Configuration uses the functional options pattern.
package ignore

import (
	"errors"

	"github.com/bethropolis/code-prompt/internal/utils"
	gitignore "github.com/denormal/go-gitignore"
	sabhiram "github.com/sabhiram/go-gitignore"
)

// VCSPattern is always added to a root's pattern set so version-control
// metadata never reaches the output.
const VCSPattern = ".git"

// DefaultIgnoreFile is looked up in each root when no override is given.
const DefaultIgnoreFile = ".gitignore"

// ErrOutsideBase is returned when a path is not contained in the base
// directory it is being classified against.
var ErrOutsideBase = errors.New("path is not inside base directory")

// IgnoreMatcher determines whether a file or directory should be ignored
type IgnoreMatcher struct {
	// Patterns loaded for this base directory
	patterns PatternSet
	rules    []rule

	// Optional layered rules
	customIgnore *sabhiram.GitIgnore
	repoIgnore   gitignore.GitIgnore

	// Configuration flags
	rootDir        string
	ignoreHidden   bool
	nested         bool
	customPatterns []string
	logger         utils.Logger
	disabled       bool
}

// Config holds configuration options for the ignore matcher
type Config struct {
	RootDir      string
	Patterns     PatternSet
	IgnoreHidden bool
	Nested       bool
	CustomRules  []string
	Logger       utils.Logger
	Disabled     bool
}
