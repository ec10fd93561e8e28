// Package walker handles directory traversal and file selection
package walker

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bethropolis/code-prompt/internal/filter"
	"github.com/bethropolis/code-prompt/internal/ignore"
)

// walkStats holds the atomic counters reported to the progress callback.
type walkStats struct {
	totalFiles     atomic.Int64
	processedFiles atomic.Int64
	skippedFiles   atomic.Int64
	totalDirs      atomic.Int64
	skippedDirs    atomic.Int64
}

func (s *walkStats) snapshot() ProgressStats {
	return ProgressStats{
		TotalFiles:     s.totalFiles.Load(),
		ProcessedFiles: s.processedFiles.Load(),
		SkippedFiles:   s.skippedFiles.Load(),
		TotalDirs:      s.totalDirs.Load(),
		SkippedDirs:    s.skippedDirs.Load(),
	}
}

// selector carries the state of one Select call.
type selector struct {
	options  WalkOptions
	spec     filter.Spec
	tracker  *SkippedTracker
	stats    walkStats
	matchers map[string]*ignore.IgnoreMatcher
	sources  map[string]struct{} // base dirs whose .gitignore supplies patterns

	progressMu sync.Mutex
}

// report hands stats to the progress callback. Calls never overlap.
func (s *selector) report(stats ProgressStats) {
	if s.options.ProgressFn == nil {
		return
	}
	s.progressMu.Lock()
	defer s.progressMu.Unlock()
	s.options.ProgressFn(stats)
}

// Select walks every root in order and returns the files that pass the
// ignore rules, the filter spec and the binary check.
//
// Inaccessible paths are logged and skipped. A root whose ignore file cannot
// be read is not processed; such errors are joined into the returned error
// while the selection from the remaining roots is still returned.
func Select(roots []string, spec filter.Spec, opts ...Option) (*Selection, error) {
	if len(roots) == 0 {
		return nil, ErrNoRoots
	}

	startTime := time.Now()

	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}

	s := &selector{
		options:  options,
		spec:     spec,
		tracker:  NewSkippedTracker(100),
		matchers: make(map[string]*ignore.IgnoreMatcher),
		sources:  patternSources(roots),
	}

	stopTicker := func() {}
	if options.ProgressFn != nil {
		done := make(chan struct{})
		var tickerWg sync.WaitGroup
		tickerWg.Add(1)
		go func() {
			defer tickerWg.Done()
			ticker := time.NewTicker(300 * time.Millisecond)
			defer ticker.Stop()

			for {
				select {
				case <-done:
					return
				case <-ticker.C:
					s.report(s.stats.snapshot())
				}
			}
		}()

		var once sync.Once
		stopTicker = func() {
			once.Do(func() {
				close(done)
				tickerWg.Wait()
			})
		}
	}
	defer stopTicker()

	options.Logger.Debug("walker.Select started. Roots: %v, Concurrent: %v, Workers: %d",
		roots, options.Concurrent, options.MaxWorkers)

	sel := &Selection{}
	var candidates []candidate
	var setupErrs []error

	for _, root := range roots {
		if err := options.Context.Err(); err != nil {
			return nil, err
		}

		found, processed, err := s.collectRoot(root)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, err
			}
			setupErrs = append(setupErrs, err)
			continue
		}
		if processed {
			sel.RootsProcessed++
		}
		candidates = append(candidates, found...)
	}

	var results []*EligibleFile
	var err error
	if options.Concurrent {
		results, err = s.evaluateConcurrently(candidates)
	} else {
		results, err = s.evaluateSequentially(candidates)
	}
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(results))
	for _, f := range results {
		if f == nil {
			continue
		}
		if options.Dedupe {
			if _, dup := seen[f.Path]; dup {
				options.Logger.Debug("Walker: %q already selected from an earlier root", f.DisplayPath)
				s.tracker.Track(f.DisplayPath, ReasonSkippedDuplicate, false)
				continue
			}
			seen[f.Path] = struct{}{}
		}
		sel.Files = append(sel.Files, *f)
	}
	sel.Skipped = s.tracker.Items()

	stopTicker()
	s.report(s.stats.snapshot())

	options.Logger.Debug("Walker: Selected %d files from %d roots in %s",
		len(sel.Files), sel.RootsProcessed, time.Since(startTime))

	return sel, errors.Join(setupErrs...)
}

// collectRoot resolves one root and returns its candidate files in walk
// order. processed is false when the root could not be accessed.
func (s *selector) collectRoot(root string) ([]candidate, bool, error) {
	log := s.options.Logger

	absRoot, err := filepath.Abs(root)
	if err != nil {
		log.Warn("Walker: Invalid root path '%s': %v", root, err)
		s.tracker.Track(root, ReasonSkippedPathError, false)
		return nil, false, nil
	}

	info, err := os.Stat(absRoot)
	if err != nil {
		log.Warn("Walker: Root '%s' cannot be accessed: %v", root, err)
		s.tracker.Track(root, reasonForError(err), false)
		return nil, false, nil
	}

	baseDir := absRoot
	if !info.IsDir() {
		baseDir = filepath.Dir(absRoot)
	}

	matcher, err := s.matcherFor(baseDir)
	if err != nil {
		log.Error("Walker: Ignore rules for root '%s' could not be loaded: %v", root, err)
		s.tracker.Track(root, ReasonSkippedIgnoreFile, info.IsDir())
		return nil, false, fmt.Errorf("walker: root %s: %w", root, err)
	}

	if !info.IsDir() {
		c, ok := s.inspect(absRoot, baseDir, root, filepath.ToSlash(filepath.Clean(root)), matcher)
		if !ok {
			return nil, true, nil
		}
		return []candidate{c}, true, nil
	}

	log.Debug("Walker: Scanning directory %s", absRoot)
	var found []candidate
	walkErr := filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := s.options.Context.Err(); ctxErr != nil {
			return ctxErr
		}

		isDir := d != nil && d.IsDir()
		if isDir {
			s.stats.totalDirs.Add(1)
		}

		if err != nil {
			reason := reasonForError(err)
			log.Warn("Walker: Walk error for %q: %v", path, err)
			s.tracker.Track(path, reason, isDir)
			if isDir {
				s.stats.skippedDirs.Add(1)
				if path != absRoot {
					return filepath.SkipDir
				}
			} else {
				s.stats.skippedFiles.Add(1)
			}
			return nil
		}

		if path == absRoot {
			return nil
		}

		if isDir {
			rel, relErr := ignore.RelativePath(baseDir, path)
			if relErr != nil {
				log.Error("Walker: Path calculation failed for %q: %v", path, relErr)
				s.tracker.Track(path, ReasonSkippedPathError, true)
				s.stats.skippedDirs.Add(1)
				return filepath.SkipDir
			}
			if matcher.ShouldIgnore(rel, true) {
				// Everything beneath an ignored directory is ignored too.
				log.Debug("Walker: Ignored directory %q", rel)
				s.tracker.Track(displayPath(root, rel), ReasonIgnoredRule, true)
				s.stats.skippedDirs.Add(1)
				return filepath.SkipDir
			}
			return nil
		}

		rel, relErr := ignore.RelativePath(baseDir, path)
		if relErr != nil {
			log.Error("Walker: Path calculation failed for %q: %v", path, relErr)
			s.tracker.Track(path, ReasonSkippedPathError, false)
			s.stats.skippedFiles.Add(1)
			return nil
		}
		if c, ok := s.inspect(path, baseDir, root, displayPath(root, rel), matcher); ok {
			found = append(found, c)
		}
		return nil
	})
	if walkErr != nil {
		if errors.Is(walkErr, context.Canceled) || errors.Is(walkErr, context.DeadlineExceeded) {
			return nil, true, walkErr
		}
		log.Error("Walker: Error during traversal of %s: %v", absRoot, walkErr)
	}

	return found, true, nil
}

// inspect applies the checks that do not need file content: regular file,
// ignore rules and size limit.
func (s *selector) inspect(path, baseDir, root, display string, matcher *ignore.IgnoreMatcher) (candidate, bool) {
	log := s.options.Logger
	s.stats.totalFiles.Add(1)

	skip := func(reason SkippedReason) (candidate, bool) {
		s.tracker.Track(display, reason, false)
		s.stats.skippedFiles.Add(1)
		return candidate{}, false
	}

	rel, err := ignore.RelativePath(baseDir, path)
	if err != nil {
		log.Error("Walker: Path calculation failed for %q: %v", path, err)
		return skip(ReasonSkippedPathError)
	}

	info, err := os.Stat(path)
	if err != nil {
		log.Warn("Walker: Cannot stat %q: %v", display, err)
		return skip(reasonForError(err))
	}
	if !info.Mode().IsRegular() {
		log.Debug("Walker: Skipping %q: not a regular file", display)
		return skip(ReasonSkippedNotRegular)
	}

	if s.isIgnoreSource(path) {
		log.Debug("Walker: Skipping %q: it supplies the ignore rules", display)
		return skip(ReasonIgnoredRule)
	}

	if matcher.ShouldIgnore(rel, false) {
		log.Debug("Walker: Ignored %q by matcher rules", display)
		return skip(ReasonIgnoredRule)
	}

	if s.options.MaxFileSize > 0 && info.Size() > s.options.MaxFileSize {
		log.Debug("Walker: Skipping %q: exceeds size limit (%d > %d bytes)", display, info.Size(), s.options.MaxFileSize)
		return skip(ReasonSkippedSizeLimit)
	}

	return candidate{path: path, rel: rel, display: display, root: root, info: info}, true
}

// matcherFor loads the ignore rules for a base directory once.
func (s *selector) matcherFor(baseDir string) (*ignore.IgnoreMatcher, error) {
	if m, ok := s.matchers[baseDir]; ok {
		return m, nil
	}

	patterns, err := ignore.LoadForRoot(baseDir, s.options.GitignoreOverride)
	if err != nil {
		return nil, err
	}
	s.options.Logger.Debug("Walker: Loaded %d ignore patterns for %s", patterns.Len(), baseDir)

	m, err := ignore.NewFromConfig(ignore.Config{
		RootDir:      baseDir,
		Patterns:     patterns,
		IgnoreHidden: s.options.IgnoreHidden,
		Nested:       s.options.NestedIgnoreFiles,
		CustomRules:  s.options.CustomRules,
		Logger:       s.options.Logger,
	})
	if err != nil {
		return nil, err
	}
	s.matchers[baseDir] = m
	return m, nil
}

// patternSources returns the ignore base directory of every accessible
// root. The result does not depend on root order.
func patternSources(roots []string) map[string]struct{} {
	sources := make(map[string]struct{}, len(roots))
	for _, root := range roots {
		abs, err := filepath.Abs(root)
		if err != nil {
			continue
		}
		info, err := os.Stat(abs)
		if err != nil {
			continue
		}
		if !info.IsDir() {
			abs = filepath.Dir(abs)
		}
		sources[abs] = struct{}{}
	}
	return sources
}

// isIgnoreSource reports whether path is the override file, or, without an
// override, the .gitignore of any root's base directory.
func (s *selector) isIgnoreSource(path string) bool {
	if s.options.GitignoreOverride != "" {
		abs, err := filepath.Abs(s.options.GitignoreOverride)
		return err == nil && abs == path
	}
	if filepath.Base(path) != ignore.DefaultIgnoreFile {
		return false
	}
	_, ok := s.sources[filepath.Dir(path)]
	return ok
}

func displayPath(root, rel string) string {
	return filepath.ToSlash(filepath.Join(root, filepath.FromSlash(rel)))
}

func reasonForError(err error) SkippedReason {
	if os.IsPermission(err) {
		return ReasonSkippedPermError
	}
	return ReasonSkippedWalkError
}
