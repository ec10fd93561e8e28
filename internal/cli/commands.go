package cli

import (
	"fmt"
	"path/filepath"

	"github.com/bethropolis/code-prompt/internal/app"
	"github.com/bethropolis/code-prompt/internal/config"
	"github.com/bethropolis/code-prompt/internal/logger"
	"github.com/bethropolis/code-prompt/internal/printer"
	"github.com/bethropolis/code-prompt/internal/version"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newAnalyzeCommand(v *viper.Viper, s streams) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [paths...]",
		Short: "Show file extension statistics for the selection",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(v, args)
			if err != nil {
				return err
			}
			return app.New(cfg, s.stdout, s.stderr, s.stdin).Analyze(cmd.Context())
		},
	}
	cmd.Flags().String("format", config.FormatFlat, "Output format (flat or tree)")
	return cmd
}

func newInitCommand(s streams) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default " + config.FileName,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")
			force, _ := cmd.Flags().GetBool("force")

			path := filepath.Join(dir, config.FileName)
			if err := config.WriteDefault(path, force); err != nil {
				return err
			}
			fmt.Fprintf(s.stdout, "%s created!\n", path)
			return nil
		},
	}
	cmd.Flags().String("dir", ".", "Directory to write the config file into")
	cmd.Flags().Bool("force", false, "Overwrite an existing config file")
	return cmd
}

func newTemplatesCommand(s streams) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "templates [dir]",
		Short: "Write the bundled example templates",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "templates"
			if len(args) == 1 {
				dir = args[0]
			}
			force, _ := cmd.Flags().GetBool("force")
			dryRun, _ := cmd.Flags().GetBool("dry-run")

			log := logger.New(s.stderr, false, false)
			results, err := printer.WriteExamples(dir, force, dryRun, log)
			if err != nil {
				return err
			}
			written := 0
			for _, r := range results {
				if r.Written {
					written++
				}
			}
			fmt.Fprintf(s.stdout, "%d of %d templates written to %s\n", written, len(results), dir)
			return nil
		},
	}
	cmd.Flags().Bool("force", false, "Overwrite existing templates")
	cmd.Flags().Bool("dry-run", false, "Show what would be written without writing")
	return cmd
}

func newVersionCommand(s streams) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Display the version of code-prompt",
		RunE: func(cmd *cobra.Command, args []string) error {
			short, err := cmd.Flags().GetBool("short")
			if err != nil {
				return fmt.Errorf("cli: read flags: %w", err)
			}
			v := version.Get()
			if short {
				fmt.Fprintln(s.stdout, v.Version)
			} else {
				fmt.Fprintln(s.stdout, v.String())
			}
			return nil
		},
	}
	cmd.Flags().BoolP("short", "s", false, "Print the version number only")
	return cmd
}
