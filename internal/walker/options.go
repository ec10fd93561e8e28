// Package walker handles directory traversal and file selection
package walker

import (
	"context"

	"github.com/bethropolis/code-prompt/internal/utils"
)

// WalkOptions configures the behavior of the Select function
type WalkOptions struct {
	Logger            utils.Logger
	Concurrent        bool
	MaxWorkers        int
	MaxFileSize       int64
	Context           context.Context
	GitignoreOverride string
	IgnoreHidden      bool
	NestedIgnoreFiles bool
	CustomRules       []string
	Dedupe            bool
	ProgressFn        ProgressCallback
}

// ProgressCallback is a function that receives progress updates
type ProgressCallback func(stats ProgressStats)

// ProgressStats holds statistics about the walk progress
type ProgressStats struct {
	TotalFiles      int64  // Total files seen
	ProcessedFiles  int64  // Files that passed all rules
	SkippedFiles    int64  // Files that were skipped for any reason
	TotalDirs       int64  // Total directories seen
	SkippedDirs     int64  // Directories that were skipped
	CurrentFilePath string // Path of the current file being evaluated (relative)
}

// defaultOptions returns the default walk options
func defaultOptions() WalkOptions {
	return WalkOptions{
		Logger:     &utils.NoopLogger{},
		Concurrent: false,
		MaxWorkers: 10,
		Context:    context.Background(),
		Dedupe:     true,
	}
}

// Option is a functional option for configuring WalkOptions
type Option func(*WalkOptions)

// WithLogger sets a custom logger for the walker
func WithLogger(logger utils.Logger) Option {
	return func(opts *WalkOptions) {
		if logger != nil {
			opts.Logger = logger
		}
	}
}

// WithConcurrency enables or disables concurrent evaluation of candidates
func WithConcurrency(enabled bool) Option {
	return func(opts *WalkOptions) {
		opts.Concurrent = enabled
	}
}

// WithMaxWorkers sets the maximum number of concurrent workers
func WithMaxWorkers(workers int) Option {
	return func(opts *WalkOptions) {
		if workers > 0 {
			opts.MaxWorkers = workers
		}
	}
}

// WithMaxFileSize skips files larger than maxBytes (0 = no limit)
func WithMaxFileSize(maxBytes int64) Option {
	return func(opts *WalkOptions) {
		opts.MaxFileSize = maxBytes
	}
}

// WithContext sets the context for cancellation
func WithContext(ctx context.Context) Option {
	return func(opts *WalkOptions) {
		if ctx != nil {
			opts.Context = ctx
		}
	}
}

// WithGitignore uses the given file instead of each root's .gitignore
func WithGitignore(path string) Option {
	return func(opts *WalkOptions) {
		opts.GitignoreOverride = path
	}
}

// WithIgnoreHidden enables or disables ignoring hidden files
func WithIgnoreHidden(enabled bool) Option {
	return func(opts *WalkOptions) {
		opts.IgnoreHidden = enabled
	}
}

// WithNestedIgnoreFiles honours .gitignore files below each root
func WithNestedIgnoreFiles(enabled bool) Option {
	return func(opts *WalkOptions) {
		opts.NestedIgnoreFiles = enabled
	}
}

// WithCustomRules adds gitignore-syntax rules on top of the ignore file
func WithCustomRules(rules []string) Option {
	return func(opts *WalkOptions) {
		opts.CustomRules = rules
	}
}

// WithDedupe controls whether files reached from overlapping roots are
// listed once (the default) or every time they are reached
func WithDedupe(enabled bool) Option {
	return func(opts *WalkOptions) {
		opts.Dedupe = enabled
	}
}

// WithProgress adds a progress callback function
func WithProgress(fn ProgressCallback) Option {
	return func(o *WalkOptions) {
		o.ProgressFn = fn
	}
}
