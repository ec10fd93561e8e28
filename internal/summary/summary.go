// Package summary handles display of run results, skipped items and
// extension statistics
package summary

import (
	"fmt"
	"io"
	"time"

	"github.com/bethropolis/code-prompt/internal/tokens"
	"github.com/bethropolis/code-prompt/internal/walker"
)

// Logger defines the minimal logging interface required
type Logger interface {
	Info(format string, args ...interface{})
}

// Result describes one completed generate run.
type Result struct {
	Files    int
	Tokens   int  // valid when Counted is set
	Counted  bool // token counting was requested
	Encoding string
	Prices   []tokens.Price // cost estimates, when requested
	Duration time.Duration
}

// DisplayResults shows the end results of a run
func DisplayResults(logger Logger, res Result, quiet bool) {
	if quiet {
		return
	}
	logger.Info("Found and processed %d files.", res.Files)
	if res.Counted {
		logger.Info("Token count: %d (%s)", res.Tokens, res.Encoding)
	}
	for _, p := range res.Prices {
		logger.Info("Estimated cost for %s %s: $%.4f (%d input + %d output tokens at $%.6f / $%.6f per 1K)",
			p.Provider, p.Model, p.Total, p.InputTokens, p.OutputTokens, p.InputPrice, p.OutputPrice)
	}
	logger.Info("Completed in %v.", res.Duration.Round(time.Millisecond))
}

// DisplaySkippedItems formats and prints information about skipped items
func DisplaySkippedItems(
	logger Logger,
	skippedItems []walker.SkippedItem,
	output io.Writer,
	quiet bool,
) {
	infoLog := func(format string, args ...interface{}) {
		if !quiet {
			logger.Info(format, args...)
		}
	}

	infoLog("--- Skipped Items (%d) ---", len(skippedItems))
	if len(skippedItems) == 0 {
		infoLog("No items were skipped.")
	}
	for _, item := range skippedItems {
		typeStr := "FILE"
		if item.IsDir {
			typeStr = "DIR " // aligned with FILE
		}
		fmt.Fprintf(output, "Skipped %s: %-50s [%s]\n", typeStr, item.Path, item.Reason)
	}
	infoLog("--- End Skipped Items ---")
}
