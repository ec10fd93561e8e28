// Package printer turns selected files into the output document
package printer

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync/atomic"
)

// Printer builds the Markdown document. Files are collected with PrintFile
// and written by Finalize, since the table of contents precedes them.
type Printer struct {
	output      io.Writer
	count       atomic.Int64
	noCodeblock bool
	files       []FileData
}

// New creates a new Printer with default settings
func New() *Printer {
	return &Printer{
		output: os.Stdout,
	}
}

// WithOutput sets the output destination
func (p *Printer) WithOutput(w io.Writer) *Printer {
	p.output = w
	return p
}

// WithCodeblock enables or disables fencing file contents
func (p *Printer) WithCodeblock(enabled bool) *Printer {
	p.noCodeblock = !enabled
	return p
}

// PrintFile queues a file for the document
func (p *Printer) PrintFile(file FileData) {
	p.count.Add(1)
	p.files = append(p.files, file)
}

// Finalize writes the table of contents followed by every queued file
func (p *Printer) Finalize() error {
	var b strings.Builder

	b.WriteString("# Table of Contents\n")
	for _, f := range p.files {
		fmt.Fprintf(&b, "- %s\n", f.Path)
	}
	b.WriteString("\n")

	for _, f := range p.files {
		fmt.Fprintf(&b, "## File: %s\n\n", f.Path)
		fmt.Fprintf(&b, "- Extension: %s\n", f.Extension)
		fmt.Fprintf(&b, "- Language: %s\n", f.Language)
		fmt.Fprintf(&b, "- Size: %d bytes\n", f.Size)
		if !f.Created.IsZero() {
			fmt.Fprintf(&b, "- Created: %s\n", f.Created.Format(TimeLayout))
		}
		fmt.Fprintf(&b, "- Modified: %s\n\n", f.Modified.Format(TimeLayout))

		if p.noCodeblock {
			fmt.Fprintf(&b, "### Code\n\n%s\n\n", f.Content)
		} else {
			fmt.Fprintf(&b, "### Code\n\n```%s\n%s\n```\n\n", f.Language, f.Content)
		}
	}

	if _, err := io.WriteString(p.output, b.String()); err != nil {
		return fmt.Errorf("printer: write document: %w", err)
	}
	return nil
}

// GetCount returns the number of files printed
func (p *Printer) GetCount() int64 {
	return p.count.Load()
}

// RenderMarkdown renders files as a Markdown document.
func RenderMarkdown(files []FileData, noCodeblock bool) (string, error) {
	var b strings.Builder
	p := New().WithOutput(&b).WithCodeblock(!noCodeblock)
	for _, f := range files {
		p.PrintFile(f)
	}
	if err := p.Finalize(); err != nil {
		return "", err
	}
	return b.String(), nil
}
