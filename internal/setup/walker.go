// Package setup turns the loaded configuration into selection inputs
package setup

import (
	"context"
	"fmt"
	"io"

	"github.com/bethropolis/code-prompt/internal/config"
	"github.com/bethropolis/code-prompt/internal/filter"
	"github.com/bethropolis/code-prompt/internal/utils"
	"github.com/bethropolis/code-prompt/internal/walker"
)

// InfoLogger wraps the Info method for status updates
type InfoLogger func(format string, args ...interface{})

// SelectionConfig holds all parameters needed to configure a selection run
type SelectionConfig struct {
	Config   *config.Config
	Context  context.Context
	Logger   utils.Logger
	Progress io.Writer // status line destination when progress is on
}

// ConfigureSelection builds the filter spec and walker options for a run
func ConfigureSelection(cfg SelectionConfig, infoLog InfoLogger) (filter.Spec, []walker.Option, error) {
	c := cfg.Config
	log := utils.OrNoop(cfg.Logger)

	spec, err := filter.New(c.Filter, c.Exclude, c.CaseSensitive)
	if err != nil {
		return filter.Spec{}, nil, fmt.Errorf("setup: %w", err)
	}
	if len(spec.Include) > 0 {
		infoLog("Including only files matching: %v", spec.Include)
	}
	if len(spec.Exclude) > 0 {
		infoLog("Excluding files matching: %v", spec.Exclude)
	}

	walkOptions := []walker.Option{
		walker.WithLogger(log),
		walker.WithConcurrency(c.Concurrent),
		walker.WithMaxWorkers(c.Workers),
		walker.WithGitignore(c.Gitignore),
		walker.WithIgnoreHidden(c.IgnoreHidden),
		walker.WithNestedIgnoreFiles(c.NestedGitignore),
	}

	if len(c.Ignore) > 0 {
		infoLog("Using custom ignore patterns: %v", c.Ignore)
		walkOptions = append(walkOptions, walker.WithCustomRules(c.Ignore))
	}
	if c.IgnoreHidden {
		infoLog("Ignoring hidden files/directories (starting with '.').")
	}
	if c.Gitignore != "" {
		infoLog("Using ignore file: %s", c.Gitignore)
	}

	if c.MaxSizeMB > 0 {
		walkOptions = append(walkOptions, walker.WithMaxFileSize(c.MaxFileSizeBytes()))
		infoLog("Ignoring files larger than %d MB.", c.MaxSizeMB)
	}

	if cfg.Context != nil {
		walkOptions = append(walkOptions, walker.WithContext(cfg.Context))
	}

	if c.Progress && cfg.Progress != nil {
		log.Debug("Progress display enabled")
		walkOptions = append(walkOptions, walker.WithProgress(statusLine(cfg.Progress)))
	}

	return spec, walkOptions, nil
}

// statusLine prints a single, continuously overwritten progress line.
func statusLine(w io.Writer) walker.ProgressCallback {
	return func(stats walker.ProgressStats) {
		var line string
		if stats.CurrentFilePath != "" {
			path := stats.CurrentFilePath
			if len(path) > 40 {
				path = "..." + path[len(path)-37:]
			}
			line = fmt.Sprintf("\rSelecting: %-40s | Files: %d/%d | Dirs: %d",
				path, stats.ProcessedFiles, stats.TotalFiles, stats.TotalDirs)
		} else {
			line = fmt.Sprintf("\rScanning... | Files: %d/%d | Dirs: %d",
				stats.ProcessedFiles, stats.TotalFiles, stats.TotalDirs)
		}
		fmt.Fprint(w, line)
	}
}
