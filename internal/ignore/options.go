package ignore

import "github.com/bethropolis/code-prompt/internal/utils"

// Option functions for configuration
type Option func(*IgnoreMatcher)

// WithHiddenIgnore ignores every path with a dot-prefixed segment.
func WithHiddenIgnore(ignore bool) Option {
	return func(m *IgnoreMatcher) {
		m.ignoreHidden = ignore
	}
}

// WithNestedIgnoreFiles also honours .gitignore files found below the root.
func WithNestedIgnoreFiles(enabled bool) Option {
	return func(m *IgnoreMatcher) {
		m.nested = enabled
	}
}

// WithCustomRules adds gitignore-syntax lines, negations included.
func WithCustomRules(patterns []string) Option {
	return func(m *IgnoreMatcher) {
		m.customPatterns = patterns
	}
}

func WithLogger(logger utils.Logger) Option {
	return func(m *IgnoreMatcher) {
		if logger != nil {
			m.logger = logger
		}
	}
}

func WithDisabled(disabled bool) Option {
	return func(m *IgnoreMatcher) {
		m.disabled = disabled
	}
}
