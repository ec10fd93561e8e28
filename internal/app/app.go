// Package app runs the code-prompt pipeline: select, render, count, output
package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/bethropolis/code-prompt/internal/config"
	"github.com/bethropolis/code-prompt/internal/logger"
	"github.com/bethropolis/code-prompt/internal/output"
	"github.com/bethropolis/code-prompt/internal/printer"
	"github.com/bethropolis/code-prompt/internal/setup"
	"github.com/bethropolis/code-prompt/internal/summary"
	"github.com/bethropolis/code-prompt/internal/tokens"
	"github.com/bethropolis/code-prompt/internal/walker"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// App encapsulates the main application functionality
type App struct {
	cfg         *config.Config
	log         *logger.Logger
	Stdout      io.Writer
	Stderr      io.Writer
	stdin       *bufio.Reader
	interactive bool
}

// New creates a new App instance. Colour and interactive prompting are only
// enabled when the corresponding stream is a terminal.
func New(cfg *config.Config, stdout, stderr io.Writer, stdin io.Reader) *App {
	useColors := !cfg.NoColor && isTerminal(stderr)
	color.NoColor = !useColors

	log := logger.New(stderr, cfg.Verbose, useColors)
	if cfg.LogLevel != "" {
		log.SetLevel(cfg.LogLevel)
	} else if cfg.Quiet {
		log.WithLevel(logger.LevelWarn)
	}

	a := &App{
		cfg:         cfg,
		log:         log,
		Stdout:      stdout,
		Stderr:      stderr,
		interactive: stdin != nil && isTerminal(stdin),
	}
	if stdin != nil {
		a.stdin = bufio.NewReader(stdin)
	}
	return a
}

// Logger returns the run's logger.
func (a *App) Logger() *logger.Logger {
	return a.log
}

func isTerminal(v interface{}) bool {
	f, ok := v.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (a *App) infoLog(format string, args ...interface{}) {
	if !a.cfg.Quiet {
		a.log.Info(format, args...)
	}
}

// withTimeout applies the configured timeout to ctx.
func (a *App) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.cfg.Timeout > 0 {
		return context.WithTimeout(ctx, a.cfg.Timeout)
	}
	return context.WithCancel(ctx)
}

// selectFiles runs the selection for the configured roots. The selection
// may be non-nil together with an error when some roots failed.
func (a *App) selectFiles(ctx context.Context) (*walker.Selection, error) {
	if a.log.Level() == logger.LevelDebug {
		a.log.Debug("Roots: %v", a.cfg.Paths)
		a.log.Debug("Concurrent mode: %v (workers: %d)", a.cfg.Concurrent, a.cfg.Workers)
		a.log.Debug("Filter: %q, exclude: %q, case sensitive: %v", a.cfg.Filter, a.cfg.Exclude, a.cfg.CaseSensitive)
	}

	spec, opts, err := setup.ConfigureSelection(setup.SelectionConfig{
		Config:   a.cfg,
		Context:  ctx,
		Logger:   a.log,
		Progress: a.Stderr,
	}, a.infoLog)
	if err != nil {
		return nil, err
	}

	sel, err := walker.Select(a.cfg.Paths, spec, opts...)
	if a.cfg.Progress {
		fmt.Fprintln(a.Stderr)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return nil, fmt.Errorf("app: timeout of %v reached: %w", a.cfg.Timeout, err)
	}
	return sel, err
}

// Generate selects, renders and writes the prompt document.
func (a *App) Generate(ctx context.Context) error {
	startTime := time.Now()
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	var counter *tokens.Counter
	if a.cfg.Tokens || a.cfg.Price {
		c, err := tokens.NewCounter(a.cfg.Encoding)
		if err != nil {
			return err
		}
		counter = c
	}

	var renderer *printer.TemplateRenderer
	if a.cfg.Template != "" {
		vars, err := a.cfg.ParseVars()
		if err != nil {
			return err
		}
		var prompt printer.Prompter
		if a.interactive {
			prompt = a.promptVariable
		}
		renderer, err = printer.NewTemplateRenderer(a.cfg.Template, vars, prompt, a.log)
		if err != nil {
			return err
		}
	}

	sel, selErr := a.selectFiles(ctx)
	if sel == nil {
		return selErr
	}
	if selErr != nil {
		a.log.Error("Some roots could not be processed: %v", selErr)
	}

	if a.cfg.ShowSkipped {
		summary.DisplaySkippedItems(a.log, sel.Skipped, a.Stderr, a.cfg.Quiet)
	}

	if sel.Empty() {
		a.log.Warn("No files found matching the given paths and filters.")
		return selErr
	}

	var progress io.Writer
	if a.cfg.Progress {
		progress = a.Stderr
	}
	files := printer.Load(sel.Files, printer.LoadOptions{
		LineNumbers:      a.cfg.LineNumber,
		SuppressComments: a.cfg.Suppress,
		Languages:        a.cfg.SyntaxOverrides(),
		Progress:         progress,
		Logger:           a.log,
	})

	var content string
	var err error
	if renderer != nil {
		content, err = renderer.Render(files)
	} else {
		content, err = printer.RenderMarkdown(files, a.cfg.NoCodeblock)
	}
	if err != nil {
		return err
	}

	res := summary.Result{Files: len(files)}
	if counter != nil {
		res.Counted = true
		res.Tokens = counter.Count(content)
		res.Encoding = counter.Encoding()
	}
	if a.cfg.Price {
		prices, err := tokens.Prices(res.Tokens, a.cfg.OutputTokens, a.cfg.Provider, a.cfg.Model)
		if err != nil {
			return err
		}
		if len(prices) == 0 {
			a.log.Warn("No price data for provider %q, model %q.", a.cfg.Provider, a.cfg.Model)
		}
		res.Prices = prices
	}

	out := output.New(a.Stdout,
		output.WithFile(a.cfg.Output),
		output.WithClipboard(a.cfg.Copy),
		output.WithLogger(a.log),
	)
	if err := out.Write(content); err != nil {
		return err
	}

	res.Duration = time.Since(startTime)
	summary.DisplayResults(a.log, res, a.cfg.Quiet)
	return selErr
}

// Analyze prints extension statistics for the selection.
func (a *App) Analyze(ctx context.Context) error {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	sel, selErr := a.selectFiles(ctx)
	if sel == nil {
		return selErr
	}

	analysis := summary.Analyze(sel.Files)
	var body string
	if a.cfg.Format == config.FormatTree {
		body = analysis.FormatTree()
	} else {
		body = analysis.FormatFlat()
	}

	fmt.Fprintln(a.Stdout, body)
	if len(analysis.Counts) > 0 {
		fmt.Fprintln(a.Stdout)
		fmt.Fprintln(a.Stdout, "Comma-separated list of extensions:")
		fmt.Fprintln(a.Stdout, analysis.ExtensionList())
	}
	return selErr
}

// promptVariable asks for a template variable on stderr and reads one line.
func (a *App) promptVariable(name string) (string, error) {
	fmt.Fprintf(a.Stderr, "Enter value for %s: ", name)
	line, err := a.stdin.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
