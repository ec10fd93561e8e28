package ignore

import (
	"fmt"
	"path/filepath"

	"github.com/bethropolis/code-prompt/internal/utils"
	gitignore "github.com/denormal/go-gitignore"
	sabhiram "github.com/sabhiram/go-gitignore"
)

// New creates and initializes an IgnoreMatcher for rootDir, the directory
// the patterns were loaded for and that paths are classified against.
func New(rootDir string, patterns PatternSet, opts ...Option) (*IgnoreMatcher, error) {
	absRootDir, err := filepath.Abs(rootDir)
	if err != nil {
		return nil, fmt.Errorf("ignore: failed to get absolute path for rootDir '%s': %w", rootDir, err)
	}
	if patterns == nil {
		patterns = NewPatternSet(VCSPattern)
	}

	matcher := &IgnoreMatcher{
		rootDir:  absRootDir,
		patterns: patterns,
		logger:   utils.NoopLogger{},
	}

	for _, opt := range opts {
		opt(matcher)
	}

	if err := matcher.init(); err != nil {
		return nil, err
	}

	return matcher, nil
}

// NewFromConfig creates an IgnoreMatcher from a Config struct
func NewFromConfig(cfg Config) (*IgnoreMatcher, error) {
	options := []Option{
		WithHiddenIgnore(cfg.IgnoreHidden),
		WithNestedIgnoreFiles(cfg.Nested),
		WithDisabled(cfg.Disabled),
	}

	if len(cfg.CustomRules) > 0 {
		options = append(options, WithCustomRules(cfg.CustomRules))
	}

	if cfg.Logger != nil {
		options = append(options, WithLogger(cfg.Logger))
	}

	return New(cfg.RootDir, cfg.Patterns, options...)
}

// init compiles the pattern set and any optional rule sources
func (m *IgnoreMatcher) init() error {
	m.logger.Debug("ignore.New: Initializing for root: %s (%d patterns)", m.rootDir, m.patterns.Len())

	if m.disabled {
		m.logger.Debug("ignore.New: Matcher is disabled, skipping rule compilation")
		return nil
	}

	m.rules = compileRules(m.patterns)

	if len(m.customPatterns) > 0 {
		m.logger.Debug("ignore.New: Compiling %d custom rules: %v", len(m.customPatterns), m.customPatterns)
		m.customIgnore = sabhiram.CompileIgnoreLines(m.customPatterns...)
	}

	if m.nested {
		repoMatcher, repoErr := gitignore.NewRepository(m.rootDir)
		if repoErr != nil {
			if repoMatcher != nil {
				return fmt.Errorf("ignore: failed to load nested ignore files under %s: %w", m.rootDir, repoErr)
			}
			// The library reports a missing top-level file this way.
			m.logger.Warn("ignore.New: No ignore files loaded under '%s': %v. Continuing without nested rules.", m.rootDir, repoErr)
			return nil
		}
		m.repoIgnore = repoMatcher
		m.logger.Debug("ignore.New: Nested ignore files enabled for %s", m.rootDir)
	}

	return nil
}

// RootDir returns the absolute directory paths are classified against.
func (m *IgnoreMatcher) RootDir() string { return m.rootDir }

// Patterns returns the pattern set the matcher was built from.
func (m *IgnoreMatcher) Patterns() PatternSet { return m.patterns }
