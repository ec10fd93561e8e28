// Package walker handles directory traversal and file selection
package walker

import (
	"sync"
)

// indexedCandidate keeps a candidate's position in walk order.
type indexedCandidate struct {
	index int
	c     candidate
}

// evaluate applies the filter spec and the binary check to one candidate.
func (s *selector) evaluate(c candidate) *EligibleFile {
	log := s.options.Logger

	if s.options.ProgressFn != nil {
		stats := s.stats.snapshot()
		stats.CurrentFilePath = c.display
		s.report(stats)
	}

	if !s.spec.Match(c.rel) {
		log.Debug("Walker: Skipping %q: does not meet filter criteria", c.display)
		s.tracker.Track(c.display, ReasonFilteredPattern, false)
		s.stats.skippedFiles.Add(1)
		return nil
	}

	if IsBinary(c.path, log) {
		log.Debug("Walker: Skipping %q: binary content", c.display)
		s.tracker.Track(c.display, ReasonSkippedBinary, false)
		s.stats.skippedFiles.Add(1)
		return nil
	}

	log.Debug("Walker: File %q PASSED all checks", c.display)
	s.stats.processedFiles.Add(1)
	return &EligibleFile{
		Path:        c.path,
		RelPath:     c.rel,
		DisplayPath: c.display,
		Root:        c.root,
		Size:        c.info.Size(),
		ModTime:     c.info.ModTime(),
	}
}

func (s *selector) evaluateSequentially(candidates []candidate) ([]*EligibleFile, error) {
	results := make([]*EligibleFile, len(candidates))
	for i, c := range candidates {
		if err := s.options.Context.Err(); err != nil {
			return nil, err
		}
		results[i] = s.evaluate(c)
	}
	return results, nil
}

// evaluateConcurrently runs evaluate on a worker pool. Each result is stored
// at its candidate's index so the output keeps walk order.
func (s *selector) evaluateConcurrently(candidates []candidate) ([]*EligibleFile, error) {
	results := make([]*EligibleFile, len(candidates))
	items := make(chan indexedCandidate, s.options.MaxWorkers*2)

	var wg sync.WaitGroup
	s.options.Logger.Debug("Starting %d workers for concurrent evaluation.", s.options.MaxWorkers)
	for i := 0; i < s.options.MaxWorkers; i++ {
		wg.Add(1)
		go s.evaluatorWorker(i+1, items, results, &wg)
	}

	var ctxErr error
feed:
	for i, c := range candidates {
		select {
		case <-s.options.Context.Done():
			ctxErr = s.options.Context.Err()
			break feed
		case items <- indexedCandidate{index: i, c: c}:
		}
	}
	close(items)
	wg.Wait()

	if ctxErr != nil {
		return nil, ctxErr
	}
	return results, nil
}

// evaluatorWorker is the goroutine function for concurrent evaluation.
func (s *selector) evaluatorWorker(id int, items <-chan indexedCandidate, results []*EligibleFile, wg *sync.WaitGroup) {
	defer wg.Done()
	s.options.Logger.Debug("Worker %d: Started", id)

	for item := range items {
		if s.options.Context.Err() != nil {
			s.options.Logger.Debug("Worker %d: Received cancellation signal", id)
			continue
		}
		results[item.index] = s.evaluate(item.c)
	}

	s.options.Logger.Debug("Worker %d: Finished", id)
}
