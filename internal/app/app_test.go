package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bethropolis/code-prompt/internal/config"
	"github.com/bethropolis/code-prompt/internal/printer"
	"github.com/bethropolis/code-prompt/internal/tokens"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

func baseConfig(paths ...string) *config.Config {
	return &config.Config{
		Paths:    paths,
		Encoding: tokens.DefaultEncoding,
		Format:   config.FormatFlat,
		Workers:  2,
		NoColor:  true,
	}
}

func run(t *testing.T, cfg *config.Config) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := New(cfg, &stdout, &stderr, nil).Generate(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestGenerateMarkdown(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"file1.py":   "print('Hello')",
		"file2.txt":  "Text content",
		".gitignore": "*.txt",
	})

	out, _, err := run(t, baseConfig(dir))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "# Table of Contents\n"))
	assert.Contains(t, out, "file1.py")
	assert.Contains(t, out, "```python\nprint('Hello')\n```")
	assert.NotContains(t, out, "file2.txt")
}

func TestGenerateToFileWithFilter(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"file1.py":   "print('Hello')",
		"file2.py":   "print('World')",
		"file3.txt":  "Text content",
		".gitignore": "*.txt",
	})
	outFile := filepath.Join(t.TempDir(), "output_with_filter.md")

	cfg := baseConfig(dir)
	cfg.Output = outFile
	cfg.Filter = "*.py"
	stdout, _, err := run(t, cfg)
	require.NoError(t, err)
	assert.Empty(t, stdout)

	data, err := os.ReadFile(outFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "file1.py")
	assert.Contains(t, string(data), "file2.py")
	assert.NotContains(t, string(data), "file3.txt")
}

func TestGenerateExclude(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"file1.py":     "print('Hello')",
		"ignore_me.py": "print('no')",
	})
	cfg := baseConfig(dir)
	cfg.Exclude = "ignore_me.py"

	out, _, err := run(t, cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "file1.py")
	assert.NotContains(t, out, "ignore_me.py")
}

func TestGenerateEmptyDirectory(t *testing.T) {
	out, logs, err := run(t, baseConfig(t.TempDir()))
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Contains(t, logs, "No files found")
}

func TestGenerateNoRoots(t *testing.T) {
	_, _, err := run(t, baseConfig())
	assert.Error(t, err)
}

func TestGenerateTokensAndLineNumbers(t *testing.T) {
	dir := writeTree(t, map[string]string{"main.go": "package main\n\nfunc main() {}\n"})
	cfg := baseConfig(dir)
	cfg.Tokens = true
	cfg.LineNumber = true
	cfg.NoCodeblock = true

	out, logs, err := run(t, cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "1 | package main")
	assert.Contains(t, out, "3 | func main() {}")
	assert.NotContains(t, out, "```")
	assert.Contains(t, logs, "Token count:")
}

func TestGenerateSuppressCommentsBeforeLineNumbers(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"tool.py": "# helper\nx = 1  # inline\nprint(\"# kept\")\n",
		"notes":   "# not code\n",
	})
	cfg := baseConfig(dir)
	cfg.Suppress = true
	cfg.LineNumber = true

	out, _, err := run(t, cfg)
	require.NoError(t, err)
	assert.NotContains(t, out, "helper")
	assert.NotContains(t, out, "inline")
	assert.Contains(t, out, `print("# kept")`)
	assert.Contains(t, out, "# not code")
}

func TestGeneratePriceImpliesTokens(t *testing.T) {
	dir := writeTree(t, map[string]string{"main.go": "package main\n"})
	cfg := baseConfig(dir)
	cfg.Price = true
	cfg.Provider = "Anthropic"
	cfg.OutputTokens = config.DefaultOutputTokens

	_, logs, err := run(t, cfg)
	require.NoError(t, err)
	assert.Contains(t, logs, "Token count:")
	assert.Contains(t, logs, "Estimated cost for Anthropic ")
	assert.NotContains(t, logs, "Estimated cost for OpenAI")
}

func TestGenerateTemplate(t *testing.T) {
	dir := writeTree(t, map[string]string{"a.go": "package a"})
	tplDir := writeTree(t, map[string]string{
		"prompt.j2": "Task: {{ task }}\n{% for file in files %}{{ file.name }}={{ file.content }}{% endfor %}",
	})
	cfg := baseConfig(dir)
	cfg.Template = filepath.Join(tplDir, "prompt.j2")
	cfg.Vars = []string{"task=review"}

	out, _, err := run(t, cfg)
	require.NoError(t, err)
	assert.Equal(t, "Task: review\na.go=package a", out)
}

func TestGenerateTemplateMissingVariableNonInteractive(t *testing.T) {
	dir := writeTree(t, map[string]string{"a.go": "package a"})
	tplDir := writeTree(t, map[string]string{"prompt.j2": "{{ task }}"})
	cfg := baseConfig(dir)
	cfg.Template = filepath.Join(tplDir, "prompt.j2")

	_, _, err := run(t, cfg)
	assert.ErrorIs(t, err, printer.ErrMissingVariable)
}

func TestGenerateCircularTemplate(t *testing.T) {
	dir := writeTree(t, map[string]string{"a.go": "package a"})
	tplDir := writeTree(t, map[string]string{
		"a.j2": "{% include 'b.j2' %}",
		"b.j2": "{% include 'a.j2' %}",
	})
	cfg := baseConfig(dir)
	cfg.Template = filepath.Join(tplDir, "a.j2")

	out, _, err := run(t, cfg)
	assert.ErrorIs(t, err, printer.ErrCircularInclude)
	assert.Empty(t, out)
}

func TestGenerateShowSkipped(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"main.go":  "package main",
		"blob.bin": "a\x00b",
	})
	cfg := baseConfig(dir)
	cfg.ShowSkipped = true

	_, logs, err := run(t, cfg)
	require.NoError(t, err)
	assert.Contains(t, logs, "blob.bin")
	assert.Contains(t, logs, "Binary Content")
}

func TestQuietSuppressesInfo(t *testing.T) {
	dir := writeTree(t, map[string]string{"main.go": "package main"})
	cfg := baseConfig(dir)
	cfg.Quiet = true

	_, logs, err := run(t, cfg)
	require.NoError(t, err)
	assert.NotContains(t, logs, "INFO")
}

func TestAnalyze(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"a.go":      "package a",
		"b.go":      "package b",
		"docs/x.md": "# x",
	})
	var stdout, stderr bytes.Buffer
	cfg := baseConfig(dir)

	require.NoError(t, New(cfg, &stdout, &stderr, nil).Analyze(context.Background()))
	assert.Contains(t, stdout.String(), ".go: 2 files\n.md: 1 file\n")
	assert.Contains(t, stdout.String(), "Comma-separated list of extensions:\n.go,.md\n")

	stdout.Reset()
	cfg.Format = config.FormatTree
	require.NoError(t, New(cfg, &stdout, &stderr, nil).Analyze(context.Background()))
	assert.Contains(t, stdout.String(), "── .go")
	assert.Contains(t, stdout.String(), "── docs")
}

func TestPromptVariable(t *testing.T) {
	var stderr bytes.Buffer
	a := New(baseConfig(), &bytes.Buffer{}, &stderr, strings.NewReader("hello\n"))

	got, err := a.promptVariable("name")
	require.NoError(t, err)
	assert.Equal(t, "hello", got)
	assert.Contains(t, stderr.String(), "Enter value for name: ")
}
