// Package cli defines the code-prompt command tree
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"

	"github.com/bethropolis/code-prompt/internal/app"
	"github.com/bethropolis/code-prompt/internal/config"
	"github.com/bethropolis/code-prompt/internal/tokens"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// streams are the process streams handed to every command.
type streams struct {
	stdout io.Writer
	stderr io.Writer
	stdin  io.Reader
}

// NewRootCommand builds the command tree. Each tree owns its own viper
// instance, so trees built in tests do not share settings.
func NewRootCommand(stdout, stderr io.Writer, stdin io.Reader) *cobra.Command {
	v := viper.New()
	config.SetDefaults(v)
	s := streams{stdout: stdout, stderr: stderr, stdin: stdin}

	rootCmd := &cobra.Command{
		Use:   "code-prompt [paths...]",
		Short: "Turn a source tree into a single prompt document",
		Long: `code-prompt selects the text files under the given paths, honouring
.gitignore rules and include/exclude globs, and renders them as one Markdown
document or through a Jinja-style template, ready to paste into a language
model.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(v, args)
			if err != nil {
				return err
			}
			return app.New(cfg, s.stdout, s.stderr, s.stdin).Generate(cmd.Context())
		},
	}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	rootCmd.SetIn(stdin)

	pf := rootCmd.PersistentFlags()
	pf.StringArrayP("path", "p", nil, "Path to a file or directory to include (repeatable)")
	pf.StringP("gitignore", "g", "", "Ignore file to use instead of each root's .gitignore")
	pf.StringP("filter", "f", "", "Comma-separated include globs, e.g. \"*.py,src/**/*.go\"")
	pf.StringP("exclude", "e", "", "Comma-separated exclude globs; exclusion wins")
	pf.Bool("case-sensitive", false, "Match filter and exclude globs case-sensitively")
	pf.StringArray("ignore", nil, "Extra gitignore-syntax rule (repeatable)")
	pf.Bool("nested-gitignore", false, "Also honour .gitignore files below each root")
	pf.Bool("ignore-hidden", false, "Ignore hidden files and directories (starting with '.')")
	pf.Int64("max-size", 0, "Skip files larger than this many MB (0 = no limit)")
	pf.Bool("concurrent", false, "Evaluate files on a worker pool")
	pf.Int("workers", runtime.NumCPU(), "Number of workers for --concurrent")
	pf.Bool("progress", false, "Show progress on stderr")
	pf.Duration("timeout", 0, "Maximum execution time (e.g. '30s', '5m')")
	pf.Bool("show-skipped", false, "List skipped files and directories with reasons")
	pf.String("log-level", "", "Logging level (debug, info, warn, error, none)")
	pf.BoolP("verbose", "v", false, "Enable debug logging")
	pf.BoolP("quiet", "q", false, "Only show warnings and errors")
	pf.Bool("no-color", false, "Disable colour output")
	pf.String("config", "", "Read this config file instead of discovering "+config.FileName+" files")

	f := rootCmd.Flags()
	f.StringP("output", "o", "", "Write the document to this file instead of stdout")
	f.Bool("line-number", false, "Prefix every line with its number")
	f.Bool("no-codeblock", false, "Do not wrap file contents in fenced code blocks")
	f.BoolP("suppress-comments", "s", false, "Strip comments from files with a known language")
	f.StringP("template", "t", "", "Render through this Jinja-style template")
	f.StringArray("var", nil, "Template variable as name=value (repeatable)")
	f.Bool("tokens", false, "Log the token count of the document")
	f.String("encoding", tokens.DefaultEncoding, "Token encoding (cl100k_base, p50k_base, p50k_edit, r50k_base)")
	f.Bool("copy", false, "Copy the document to the clipboard")
	f.Bool("price", false, "Estimate the request cost (implies --tokens)")
	f.String("provider", "", "Limit cost estimates to this provider")
	f.String("model", "", "Limit cost estimates to this model")
	f.Int("output-tokens", config.DefaultOutputTokens, "Expected response length in tokens for cost estimates")

	analyzeCmd := newAnalyzeCommand(v, s)
	rootCmd.AddCommand(
		analyzeCmd,
		newInitCommand(s),
		newTemplatesCommand(s),
		newVersionCommand(s),
	)

	failOnBindError(rootCmd, errors.Join(
		bindFlags(v, pf),
		bindFlags(v, f),
		bindFlags(v, analyzeCmd.Flags()),
	))
	return rootCmd
}

// bindFlags binds every flag in fs to the viper key of the same name.
func bindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	var errs []error
	fs.VisitAll(func(fl *pflag.Flag) {
		if err := v.BindPFlag(fl.Name, fl); err != nil {
			errs = append(errs, fmt.Errorf("cli: bind flag --%s: %w", fl.Name, err))
		}
	})
	return errors.Join(errs...)
}

// failOnBindError makes every command in the tree fail with err before it
// runs. A nil err leaves cmd untouched.
func failOnBindError(cmd *cobra.Command, err error) {
	if err == nil {
		return
	}
	cmd.PersistentPreRunE = func(*cobra.Command, []string) error {
		return err
	}
}

// loadConfig merges config files, flags and positional paths.
func loadConfig(v *viper.Viper, args []string) (*config.Config, error) {
	home, _ := os.UserHomeDir()
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("cli: working directory: %w", err)
	}
	if _, err := config.ReadFiles(v, v.GetString("config"), home, cwd); err != nil {
		return nil, err
	}

	cfg, err := config.Load(v)
	if err != nil {
		return nil, err
	}
	cfg.Paths = append(cfg.Paths, args...)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Execute runs the command tree and returns the process exit status.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rootCmd := NewRootCommand(os.Stdout, os.Stderr, os.Stdin)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
