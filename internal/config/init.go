package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/bethropolis/code-prompt/internal/tokens"
	"github.com/pelletier/go-toml/v2"
)

// ErrConfigExists is returned by WriteDefault when the file is already there.
var ErrConfigExists = errors.New("config: file already exists")

// fileDefaults is the document written by `code-prompt init`.
type fileDefaults struct {
	Filter          string            `toml:"filter" comment:"Comma-separated include globs, e.g. \"*.go,docs/**/*.md\""`
	Exclude         string            `toml:"exclude" comment:"Comma-separated exclude globs; exclusion wins over inclusion"`
	CaseSensitive   bool              `toml:"case-sensitive"`
	Ignore          []string          `toml:"ignore" comment:"Extra gitignore-syntax rules"`
	NestedGitignore bool              `toml:"nested-gitignore" comment:"Honour .gitignore files below each root"`
	IgnoreHidden    bool              `toml:"ignore-hidden"`
	MaxSize         int64             `toml:"max-size" comment:"Skip files larger than this many MB (0 = no limit)"`
	LineNumber      bool              `toml:"line-number"`
	NoCodeblock     bool              `toml:"no-codeblock"`
	Suppress        bool              `toml:"suppress-comments" comment:"Strip comments from files with a known language"`
	Tokens          bool              `toml:"tokens"`
	Price           bool              `toml:"price" comment:"Estimate the request cost from the token count"`
	Provider        string            `toml:"provider" comment:"Limit cost estimates to this provider"`
	Model           string            `toml:"model" comment:"Limit cost estimates to this model"`
	OutputTokens    int               `toml:"output-tokens" comment:"Expected response length used for cost estimates"`
	Encoding        string            `toml:"encoding" comment:"cl100k_base, p50k_base, p50k_edit or r50k_base"`
	Workers         int               `toml:"workers"`
	LogLevel        string            `toml:"log-level" comment:"debug, info, warn, error or none"`
	SyntaxMap       map[string]string `toml:"syntax-map" comment:"Extension to code-fence language overrides"`
}

func defaultFile() fileDefaults {
	return fileDefaults{
		Ignore:       []string{},
		Encoding:     tokens.DefaultEncoding,
		Workers:      runtime.NumCPU(),
		LogLevel:     "info",
		OutputTokens: DefaultOutputTokens,
		SyntaxMap:    map[string]string{},
	}
}

// DefaultTOML renders the default configuration file.
func DefaultTOML() ([]byte, error) {
	data, err := toml.Marshal(defaultFile())
	if err != nil {
		return nil, fmt.Errorf("config: encode defaults: %w", err)
	}
	return data, nil
}

// WriteDefault writes the default configuration to path. An existing file is
// only replaced when force is set.
func WriteDefault(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%w: %s (use --force to overwrite)", ErrConfigExists, path)
	} else if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("config: check %s: %w", path, err)
	}

	data, err := DefaultTOML()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}
