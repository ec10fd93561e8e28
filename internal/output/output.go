// Package output delivers the rendered document to a file, stdout and the
// clipboard.
package output

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/atotto/clipboard"
	"github.com/bethropolis/code-prompt/internal/utils"
)

// ErrClipboardUnavailable is returned when no clipboard utility exists.
var ErrClipboardUnavailable = errors.New("output: clipboard is not available on this system")

// Writer sends a document to its destinations.
type Writer struct {
	path      string
	stdout    io.Writer
	clipboard bool
	copyFn    func(string) error
	log       utils.Logger
}

// Option is a functional option for configuring the Writer
type Option func(*Writer)

// New creates a Writer that prints to stdout unless WithFile is given.
func New(stdout io.Writer, opts ...Option) *Writer {
	w := &Writer{
		stdout: stdout,
		copyFn: copyToClipboard,
		log:    utils.NoopLogger{},
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// WithFile writes the document to path instead of stdout
func WithFile(path string) Option {
	return func(w *Writer) {
		w.path = path
	}
}

// WithClipboard also copies the document to the clipboard
func WithClipboard(enabled bool) Option {
	return func(w *Writer) {
		w.clipboard = enabled
	}
}

// WithLogger sets a custom logger
func WithLogger(l utils.Logger) Option {
	return func(w *Writer) {
		w.log = utils.OrNoop(l)
	}
}

// withCopyFunc replaces the clipboard backend.
func withCopyFunc(fn func(string) error) Option {
	return func(w *Writer) {
		w.copyFn = fn
	}
}

// Write delivers content. A clipboard failure is logged and returned after
// the primary destination has been written.
func (w *Writer) Write(content string) error {
	if w.path != "" {
		if dir := filepath.Dir(w.path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("output: create %s: %w", dir, err)
			}
		}
		if err := os.WriteFile(w.path, []byte(content), 0o644); err != nil {
			return fmt.Errorf("output: write %s: %w", w.path, err)
		}
		w.log.Info("Output file created: %s", w.path)
	} else if w.stdout != nil {
		if _, err := io.WriteString(w.stdout, content); err != nil {
			return fmt.Errorf("output: write stdout: %w", err)
		}
	}

	if !w.clipboard {
		return nil
	}
	if err := w.copyFn(content); err != nil {
		w.log.Error("Failed to copy content to clipboard: %v", err)
		return fmt.Errorf("output: copy to clipboard: %w", err)
	}
	w.log.Info("Content copied to clipboard.")
	return nil
}

func copyToClipboard(content string) error {
	if clipboard.Unsupported {
		return ErrClipboardUnavailable
	}
	return clipboard.WriteAll(content)
}
