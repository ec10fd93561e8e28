// Package config loads code-prompt settings from defaults, .code-prompt.toml
// files and command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"time"

	"github.com/bethropolis/code-prompt/internal/logger"
	"github.com/bethropolis/code-prompt/internal/tokens"
	"github.com/spf13/viper"
)

// FileName is the per-directory configuration file.
const FileName = ".code-prompt.toml"

// Analyze output formats.
const (
	FormatFlat = "flat"
	FormatTree = "tree"
)

// DefaultOutputTokens is the assumed response length for cost estimates.
const DefaultOutputTokens = 1000

// ErrInvalidVar is returned for --var values not of the form name=value.
var ErrInvalidVar = errors.New("config: template variable must be name=value")

var varNameRegex = regexp.MustCompile(`^\w+$`)

// Config holds all application configuration settings. Keys match the long
// flag names, so a config file uses the same spelling as the command line.
type Config struct {
	// Selection
	Paths           []string `mapstructure:"path"`
	Gitignore       string   `mapstructure:"gitignore"`
	Filter          string   `mapstructure:"filter"`
	Exclude         string   `mapstructure:"exclude"`
	CaseSensitive   bool     `mapstructure:"case-sensitive"`
	Ignore          []string `mapstructure:"ignore"`
	NestedGitignore bool     `mapstructure:"nested-gitignore"`
	IgnoreHidden    bool     `mapstructure:"ignore-hidden"`
	MaxSizeMB       int64    `mapstructure:"max-size"`

	// Rendering
	LineNumber  bool              `mapstructure:"line-number"`
	NoCodeblock bool              `mapstructure:"no-codeblock"`
	Suppress    bool              `mapstructure:"suppress-comments"`
	Template    string            `mapstructure:"template"`
	Vars        []string          `mapstructure:"var"`
	SyntaxMap   map[string]string `mapstructure:"syntax-map"`

	// Output
	Output   string `mapstructure:"output"`
	Copy     bool   `mapstructure:"copy"`
	Tokens   bool   `mapstructure:"tokens"`
	Encoding string `mapstructure:"encoding"`
	Format   string `mapstructure:"format"`

	// Cost estimation
	Price        bool   `mapstructure:"price"`
	Provider     string `mapstructure:"provider"`
	Model        string `mapstructure:"model"`
	OutputTokens int    `mapstructure:"output-tokens"`

	// Processing
	Concurrent  bool          `mapstructure:"concurrent"`
	Workers     int           `mapstructure:"workers"`
	Progress    bool          `mapstructure:"progress"`
	Timeout     time.Duration `mapstructure:"timeout"`
	ShowSkipped bool          `mapstructure:"show-skipped"`

	// Logging
	LogLevel string `mapstructure:"log-level"`
	Verbose  bool   `mapstructure:"verbose"`
	Quiet    bool   `mapstructure:"quiet"`
	NoColor  bool   `mapstructure:"no-color"`
}

// SetDefaults registers the default value of every key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("path", []string{})
	v.SetDefault("encoding", tokens.DefaultEncoding)
	v.SetDefault("format", FormatFlat)
	v.SetDefault("workers", runtime.NumCPU())
	v.SetDefault("log-level", "")
	v.SetDefault("timeout", time.Duration(0))
	v.SetDefault("max-size", int64(0))
	v.SetDefault("output-tokens", DefaultOutputTokens)
}

// Files returns the existing config files that apply to cwd, outermost
// first: every directory from home down to cwd when cwd lies under home,
// otherwise home followed by cwd.
func Files(home, cwd string) []string {
	var dirs []string
	if home != "" {
		if rel, err := filepath.Rel(home, cwd); err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			dirs = append(dirs, home)
			cur := home
			if rel != "." {
				for _, part := range strings.Split(rel, string(filepath.Separator)) {
					cur = filepath.Join(cur, part)
					dirs = append(dirs, cur)
				}
			}
		} else {
			dirs = append(dirs, home, cwd)
		}
	} else {
		dirs = append(dirs, cwd)
	}

	var files []string
	seen := make(map[string]struct{})
	for _, d := range dirs {
		path := filepath.Join(d, FileName)
		if _, dup := seen[path]; dup {
			continue
		}
		seen[path] = struct{}{}
		if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
			files = append(files, path)
		}
	}
	return files
}

// ReadFiles merges config files into v. An explicit file replaces the
// discovered ones and must exist. It returns the files that were read.
func ReadFiles(v *viper.Viper, explicit, home, cwd string) ([]string, error) {
	v.SetConfigType("toml")

	files := Files(home, cwd)
	if explicit != "" {
		files = []string{explicit}
	}
	for _, f := range files {
		v.SetConfigFile(f)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", f, err)
		}
	}
	return files, nil
}

// Load decodes the merged settings of v.
func Load(v *viper.Viper) (*Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	return &c, nil
}

// Validate checks settings that cannot be verified by their type alone.
func (c *Config) Validate() error {
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.Encoding != "" {
		if err := tokens.ValidateEncoding(c.Encoding); err != nil {
			return err
		}
	}
	switch c.Format {
	case "", FormatFlat, FormatTree:
	default:
		return fmt.Errorf("config: unknown format %q (use %s or %s)", c.Format, FormatFlat, FormatTree)
	}
	if c.Workers < 1 {
		return fmt.Errorf("config: workers must be at least 1, got %d", c.Workers)
	}
	if c.MaxSizeMB < 0 {
		return fmt.Errorf("config: max-size must not be negative, got %d", c.MaxSizeMB)
	}
	if c.OutputTokens < 0 {
		return fmt.Errorf("config: output-tokens must not be negative, got %d", c.OutputTokens)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("config: timeout must not be negative, got %s", c.Timeout)
	}
	if _, err := c.ParseVars(); err != nil {
		return err
	}
	return nil
}

// ParseVars turns name=value pairs into a map. Later pairs win.
func (c *Config) ParseVars() (map[string]string, error) {
	vars := make(map[string]string, len(c.Vars))
	for _, kv := range c.Vars {
		name, value, ok := strings.Cut(kv, "=")
		name = strings.TrimSpace(name)
		if !ok || !varNameRegex.MatchString(name) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidVar, kv)
		}
		vars[name] = value
	}
	return vars, nil
}

// MaxFileSizeBytes converts the MB limit to bytes (0 = no limit).
func (c *Config) MaxFileSizeBytes() int64 {
	return c.MaxSizeMB * 1024 * 1024
}

// SyntaxOverrides normalises syntax-map keys to lower-case extensions with a
// leading dot.
func (c *Config) SyntaxOverrides() map[string]string {
	if len(c.SyntaxMap) == 0 {
		return nil
	}
	out := make(map[string]string, len(c.SyntaxMap))
	for ext, lang := range c.SyntaxMap {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		out[ext] = lang
	}
	return out
}
