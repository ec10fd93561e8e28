package printer

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/bethropolis/code-prompt/internal/utils"
)

//go:embed examples
var exampleFS embed.FS

// ExampleResult records what WriteExamples did with one template.
type ExampleResult struct {
	Path    string
	Written bool
	Existed bool
}

// ExampleNames lists the bundled templates, slash-separated.
func ExampleNames() ([]string, error) {
	var names []string
	err := fs.WalkDir(exampleFS, "examples", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			names = append(names, p[len("examples/"):])
		}
		return nil
	})
	return names, err
}

// WriteExamples copies the bundled templates into dir. Existing files are
// kept unless force is set; with dryRun nothing is written.
func WriteExamples(dir string, force, dryRun bool, log utils.Logger) ([]ExampleResult, error) {
	log = utils.OrNoop(log)

	names, err := ExampleNames()
	if err != nil {
		return nil, fmt.Errorf("printer: list example templates: %w", err)
	}
	if dryRun {
		log.Info("Dry run mode: no changes will be made.")
	}

	var results []ExampleResult
	var written []string
	cleanup := func() {
		for _, p := range written {
			_ = os.Remove(p)
		}
	}

	for _, name := range names {
		dest := filepath.Join(dir, filepath.FromSlash(name))
		res := ExampleResult{Path: dest}

		if _, err := os.Stat(dest); err == nil {
			res.Existed = true
			if !force {
				log.Info("Skipping existing file: %s", dest)
				results = append(results, res)
				continue
			}
		}

		if dryRun {
			log.Info("Template would be written: %s", dest)
			results = append(results, res)
			continue
		}

		data, err := exampleFS.ReadFile(path.Join("examples", name))
		if err != nil {
			cleanup()
			return nil, fmt.Errorf("printer: read example %s: %w", name, err)
		}
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			cleanup()
			return nil, fmt.Errorf("printer: create %s: %w", filepath.Dir(dest), err)
		}
		if err := os.WriteFile(dest, data, 0o644); err != nil {
			cleanup()
			return nil, fmt.Errorf("printer: write %s: %w", dest, err)
		}
		written = append(written, dest)
		res.Written = true
		results = append(results, res)
		log.Info("Template written: %s", dest)
	}
	return results, nil
}
