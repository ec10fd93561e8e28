package setup

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bethropolis/code-prompt/internal/config"
	"github.com/bethropolis/code-prompt/internal/walker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noInfo(string, ...interface{}) {}

func TestConfigureSelection(t *testing.T) {
	dir := t.TempDir()
	for name, content := range map[string]string{
		"main.go":      "package main",
		"main_test.go": "package main",
		"notes.md":     "# notes",
		".env":         "X=1",
		"big.go":       "package big",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}

	var infos []string
	info := func(format string, args ...interface{}) { infos = append(infos, format) }

	spec, opts, err := ConfigureSelection(SelectionConfig{
		Config: &config.Config{
			Filter:       "*.go",
			Exclude:      "*_test.go",
			IgnoreHidden: true,
			Ignore:       []string{"big.go"},
			Workers:      2,
			Concurrent:   true,
		},
		Context: context.Background(),
	}, info)
	require.NoError(t, err)
	assert.Equal(t, []string{"*.go"}, spec.Include)
	assert.NotEmpty(t, infos)

	sel, err := walker.Select([]string{dir}, spec, opts...)
	require.NoError(t, err)
	require.Len(t, sel.Files, 1)
	assert.Equal(t, "main.go", sel.Files[0].RelPath)
}

func TestConfigureSelectionRejectsBadGlob(t *testing.T) {
	_, _, err := ConfigureSelection(SelectionConfig{Config: &config.Config{Filter: "[abc", Workers: 1}}, noInfo)
	assert.Error(t, err)
}

func TestStatusLine(t *testing.T) {
	var buf bytes.Buffer
	fn := statusLine(&buf)

	fn(walker.ProgressStats{ProcessedFiles: 1, TotalFiles: 3, TotalDirs: 2})
	assert.Contains(t, buf.String(), "Scanning... | Files: 1/3 | Dirs: 2")

	buf.Reset()
	fn(walker.ProgressStats{CurrentFilePath: "a/very/long/path/that/keeps/going/and/going/main.go"})
	assert.Contains(t, buf.String(), "Selecting: ...")
	assert.Contains(t, buf.String(), "main.go")
}

func TestStatusLineWithWorkerPool(t *testing.T) {
	dir := t.TempDir()
	for i := 0; i < 300; i++ {
		name := filepath.Join(dir, fmt.Sprintf("file%03d.go", i))
		require.NoError(t, os.WriteFile(name, []byte("package p"), 0o644))
	}

	var progress bytes.Buffer
	spec, opts, err := ConfigureSelection(SelectionConfig{
		Config:   &config.Config{Concurrent: true, Workers: 8, Progress: true},
		Context:  context.Background(),
		Progress: &progress,
	}, noInfo)
	require.NoError(t, err)

	sel, err := walker.Select([]string{dir}, spec, opts...)
	require.NoError(t, err)
	assert.Len(t, sel.Files, 300)
	assert.True(t, strings.HasSuffix(progress.String(), "\rScanning... | Files: 300/300 | Dirs: 1"))
}
