package summary

import (
	"bytes"
	"testing"
	"time"

	"github.com/bethropolis/code-prompt/internal/logger"
	"github.com/bethropolis/code-prompt/internal/tokens"
	"github.com/bethropolis/code-prompt/internal/walker"
	"github.com/stretchr/testify/assert"
)

func files(paths ...string) []walker.EligibleFile {
	out := make([]walker.EligibleFile, 0, len(paths))
	for _, p := range paths {
		out = append(out, walker.EligibleFile{DisplayPath: p})
	}
	return out
}

func TestAnalyzeFlat(t *testing.T) {
	a := Analyze(files("src/main.go", "src/util.go", "README.MD", "docs/guide.md", "Makefile"))

	assert.Equal(t, 5, a.Total)
	assert.Equal(t, map[string]int{".go": 2, ".md": 2}, a.Counts)
	assert.Equal(t, ".go: 2 files\n.md: 2 files", a.FormatFlat())
	assert.Equal(t, ".go,.md", a.ExtensionList())
}

func TestAnalyzeSingular(t *testing.T) {
	a := Analyze(files("a.py"))
	assert.Equal(t, ".py: 1 file", a.FormatFlat())
}

func TestAnalyzeEmpty(t *testing.T) {
	a := Analyze(nil)
	assert.Equal(t, "No files found", a.FormatFlat())
	assert.Equal(t, "No files found", a.FormatTree())
	assert.Equal(t, "", a.ExtensionList())
}

func TestAnalyzeTree(t *testing.T) {
	a := Analyze(files("proj/src/main.go", "proj/src/app.py", "proj/README.md"))

	want := "└── proj\n" +
		"    ├── .md\n" +
		"    └── src\n" +
		"        ├── .go\n" +
		"        └── .py"
	assert.Equal(t, want, a.FormatTree())
}

func TestDisplaySkippedItems(t *testing.T) {
	var logs, out bytes.Buffer
	log := logger.New(&logs, false, false)

	DisplaySkippedItems(log, []walker.SkippedItem{
		{Path: "build", Reason: walker.ReasonIgnoredRule, IsDir: true},
		{Path: "logo.png", Reason: walker.ReasonSkippedBinary},
	}, &out, false)

	assert.Contains(t, out.String(), "Skipped DIR : build")
	assert.Contains(t, out.String(), "Skipped FILE: logo.png")
	assert.Contains(t, out.String(), string(walker.ReasonSkippedBinary))
	assert.Contains(t, logs.String(), "Skipped Items (2)")

	logs.Reset()
	out.Reset()
	DisplaySkippedItems(log, nil, &out, true)
	assert.Empty(t, logs.String())
	assert.Empty(t, out.String())
}

func TestDisplayResults(t *testing.T) {
	var logs bytes.Buffer
	log := logger.New(&logs, false, false)

	DisplayResults(log, Result{Files: 3, Tokens: 42, Counted: true, Encoding: "cl100k_base", Duration: 1500 * time.Millisecond}, false)
	assert.Contains(t, logs.String(), "Found and processed 3 files.")
	assert.Contains(t, logs.String(), "Token count: 42 (cl100k_base)")

	logs.Reset()
	DisplayResults(log, Result{Files: 3}, true)
	assert.Empty(t, logs.String())
}

func TestDisplayResultsPrices(t *testing.T) {
	var logs bytes.Buffer
	log := logger.New(&logs, false, false)

	DisplayResults(log, Result{
		Files:   1,
		Tokens:  1000,
		Counted: true,
		Prices: []tokens.Price{{
			Provider: "OpenAI", Model: "gpt-4", InputPrice: 0.03, OutputPrice: 0.06,
			InputTokens: 1000, OutputTokens: 500, Total: 0.06,
		}},
	}, false)
	assert.Contains(t, logs.String(), "Estimated cost for OpenAI gpt-4: $0.0600 (1000 input + 500 output tokens")
}
