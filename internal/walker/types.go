// Package walker handles directory traversal and file selection
package walker

import (
	"errors"
	"io/fs"
	"sort"
	"sync"
	"time"
)

// ErrNoRoots is returned when selection is asked to run without any root.
var ErrNoRoots = errors.New("walker: no root paths given")

// SkippedReason clarifies why a file/directory was not selected.
type SkippedReason string

const (
	ReasonIgnoredRule       SkippedReason = "Ignored (Gitignore/Custom Rule)"
	ReasonFilteredPattern   SkippedReason = "Filtered (Include/Exclude Pattern)"
	ReasonSkippedBinary     SkippedReason = "Skipped (Binary Content)"
	ReasonSkippedSizeLimit  SkippedReason = "Skipped (Size Limit Exceeded)"
	ReasonSkippedNotRegular SkippedReason = "Skipped (Not a Regular File)"
	ReasonSkippedPermError  SkippedReason = "Skipped (Permission Error)"
	ReasonSkippedWalkError  SkippedReason = "Skipped (Walk Error)"
	ReasonSkippedInfoError  SkippedReason = "Skipped (File Info Error)"
	ReasonSkippedPathError  SkippedReason = "Skipped (Path Calculation Error)"
	ReasonSkippedIgnoreFile SkippedReason = "Skipped (Ignore File Error)"
	ReasonSkippedDuplicate  SkippedReason = "Skipped (Duplicate Path)"
)

// SkippedItem holds information about a skipped path.
type SkippedItem struct {
	Path   string        `json:"path"`
	Reason SkippedReason `json:"reason"`
	IsDir  bool          `json:"is_dir"`
}

// SkippedTracker is a struct to track skipped items
type SkippedTracker struct {
	items []SkippedItem
	mutex sync.Mutex
}

// NewSkippedTracker creates a new SkippedTracker
func NewSkippedTracker(capacity int) *SkippedTracker {
	return &SkippedTracker{
		items: make([]SkippedItem, 0, capacity),
	}
}

// Track adds a skipped item to the tracker
func (st *SkippedTracker) Track(path string, reason SkippedReason, isDir bool) {
	st.mutex.Lock()
	defer st.mutex.Unlock()
	st.items = append(st.items, SkippedItem{Path: path, Reason: reason, IsDir: isDir})
}

// Items returns the tracked skipped items sorted by path.
func (st *SkippedTracker) Items() []SkippedItem {
	st.mutex.Lock()
	defer st.mutex.Unlock()
	out := append([]SkippedItem(nil), st.items...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// EligibleFile is a file that passed every selection rule. It is the unit
// handed to rendering.
type EligibleFile struct {
	Path        string    // absolute path
	RelPath     string    // slash-separated, relative to the ignore base
	DisplayPath string    // user root joined with RelPath
	Root        string    // root argument the file was found under
	Size        int64     // bytes
	ModTime     time.Time // last modification
}

// Selection is the ordered result of a selection run.
type Selection struct {
	Files          []EligibleFile
	Skipped        []SkippedItem
	RootsProcessed int
}

// Empty reports that the run completed but found nothing to include.
func (s *Selection) Empty() bool {
	return s == nil || len(s.Files) == 0
}

// Paths returns the absolute paths of the selected files in order.
func (s *Selection) Paths() []string {
	out := make([]string, 0, len(s.Files))
	for _, f := range s.Files {
		out = append(out, f.Path)
	}
	return out
}

// candidate is a regular file discovered during the walk that still has to
// pass the filter and binary check.
type candidate struct {
	path    string
	rel     string
	display string
	root    string
	info    fs.FileInfo
}
