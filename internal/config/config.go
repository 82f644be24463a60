package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mcncl/jsonkit/internal/convert"
	"github.com/mcncl/jsonkit/internal/errors"
	"github.com/mcncl/jsonkit/internal/formatter"
	"github.com/mcncl/jsonkit/internal/inserter"
	"github.com/mcncl/jsonkit/internal/keycase"
	"github.com/mcncl/jsonkit/internal/parser"
	"github.com/mcncl/jsonkit/internal/sorter"
	"gopkg.in/yaml.v3"
)

// Config represents the complete configuration for jsonkit
type Config struct {
	Formatting FormattingConfig `yaml:"formatting"`
	Sorting    SortingConfig    `yaml:"sorting"`
	Naming     NamingConfig     `yaml:"naming"`
	Insert     InsertConfig     `yaml:"insert"`
	Output     OutputConfig     `yaml:"output"`
	Dev        DevConfig        `yaml:"dev"`
}

// FormattingConfig controls pretty-printing and parsing limits
type FormattingConfig struct {
	IndentWidth int `yaml:"indent_width"`
	MaxDepth    int `yaml:"max_depth"`
}

// SortingConfig holds the default key sort
type SortingConfig struct {
	Order string `yaml:"order"` // asc or desc
	By    string `yaml:"by"`    // key, type or value
}

// NamingConfig controls key case rewriting
type NamingConfig struct {
	Style string `yaml:"style"`
	// KeyMappings renames specific keys instead of converting them.
	KeyMappings map[string]string `yaml:"key_mappings"`
}

// InsertConfig controls how new pairs are merged into documents
type InsertConfig struct {
	PreserveFormatting bool   `yaml:"preserve_formatting"`
	ArrayKey           string `yaml:"array_key"`
	ValueKey           string `yaml:"value_key"`
	DefaultType        string `yaml:"default_type"`
}

// OutputConfig controls how results are written
type OutputConfig struct {
	Color           string `yaml:"color"` // auto, always or never
	TrailingNewline bool   `yaml:"trailing_newline"`
}

// DevConfig contains development/debug options
type DevConfig struct {
	Debug bool `yaml:"debug"`
}

// Color modes for OutputConfig.Color
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		Formatting: FormattingConfig{
			IndentWidth: formatter.DefaultIndentWidth,
			MaxDepth:    parser.DefaultMaxDepth,
		},
		Sorting: SortingConfig{
			Order: sorter.Ascending.String(),
			By:    sorter.ByKey.String(),
		},
		Naming: NamingConfig{
			Style:       string(keycase.Camel),
			KeyMappings: make(map[string]string),
		},
		Insert: InsertConfig{
			PreserveFormatting: true,
			ArrayKey:           inserter.DefaultArrayKey,
			ValueKey:           inserter.DefaultValueKey,
			DefaultType:        string(convert.TypeString),
		},
		Output: OutputConfig{
			Color:           ColorAuto,
			TrailingNewline: true,
		},
		Dev: DevConfig{
			Debug: false,
		},
	}
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults
	cfg := NewConfig()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// FindConfigFile searches for a config file in current directory and parents
func FindConfigFile() string {
	configNames := []string{".jsonkit.yml", ".jsonkit.yaml", "jsonkit.yml", "jsonkit.yaml"}

	currentDir, err := os.Getwd()
	if err != nil {
		return ""
	}

	// Search up the directory tree
	for {
		for _, name := range configNames {
			configPath := filepath.Join(currentDir, name)
			if _, err := os.Stat(configPath); err == nil {
				return configPath
			}
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root directory
			break
		}
		currentDir = parentDir
	}

	return ""
}

// Validate checks every enumerated setting and numeric range
func (c *Config) Validate() error {
	if c.Formatting.IndentWidth < formatter.MinIndentWidth || c.Formatting.IndentWidth > formatter.MaxIndentWidth {
		return errors.NewConfigError(
			fmt.Sprintf("formatting.indent_width must be between %d and %d, got %d",
				formatter.MinIndentWidth, formatter.MaxIndentWidth, c.Formatting.IndentWidth),
			errors.ErrInvalidIndent)
	}
	if c.Formatting.MaxDepth < 1 {
		return errors.NewConfigError(
			fmt.Sprintf("formatting.max_depth must be positive, got %d", c.Formatting.MaxDepth),
			errors.ErrInvalidOption)
	}
	if _, err := sorter.ParseOrder(c.Sorting.Order); err != nil {
		return errors.NewConfigError("invalid sorting.order", err)
	}
	if _, err := sorter.ParseSortBy(c.Sorting.By); err != nil {
		return errors.NewConfigError("invalid sorting.by", err)
	}
	if _, err := keycase.ParseStyle(c.Naming.Style); err != nil {
		return errors.NewConfigError("invalid naming.style", err)
	}
	if c.Insert.DefaultType != "" {
		if _, err := convert.ParseValueType(c.Insert.DefaultType); err != nil {
			return errors.NewConfigError("invalid insert.default_type", err)
		}
	}
	switch strings.ToLower(c.Output.Color) {
	case ColorAuto, ColorAlways, ColorNever, "":
	default:
		return errors.NewConfigError(
			fmt.Sprintf("output.color must be auto, always or never, got %q", c.Output.Color),
			errors.ErrInvalidOption)
	}
	return nil
}

// ParseOptions returns the parser limits this config asks for
func (c *Config) ParseOptions() parser.Options {
	return parser.Options{MaxDepth: c.Formatting.MaxDepth}
}

// InserterOptions returns the insertion settings this config asks for
func (c *Config) InserterOptions() inserter.Options {
	return inserter.Options{
		PreserveFormatting: c.Insert.PreserveFormatting,
		IndentWidth:        c.Formatting.IndentWidth,
		ArrayKey:           c.Insert.ArrayKey,
		ValueKey:           c.Insert.ValueKey,
		ParseOptions:       c.ParseOptions(),
	}
}

// KeyName returns the rewritten name for an object key, applying naming rules
func (c *Config) KeyName(key string, style keycase.Style) string {
	// Check custom mappings first
	if mapped, exists := c.Naming.KeyMappings[key]; exists {
		return mapped
	}
	return keycase.Convert(key, style)
}

// Overrides are settings given on the command line. Zero values mean unset.
type Overrides struct {
	IndentWidth int
	Order       string
	By          string
	Style       string
	Color       string
	Debug       bool
	// Rerender switches insertion from splicing to re-rendering.
	Rerender bool
}

// MergeConfigs merges CLI overrides into a base config
// Non-empty values from override take precedence over base values
func MergeConfigs(base *Config, override Overrides) *Config {
	merged := *base

	if override.IndentWidth != 0 {
		merged.Formatting.IndentWidth = override.IndentWidth
	}
	if override.Order != "" {
		merged.Sorting.Order = override.Order
	}
	if override.By != "" {
		merged.Sorting.By = override.By
	}
	if override.Style != "" {
		merged.Naming.Style = override.Style
	}
	if override.Color != "" {
		merged.Output.Color = override.Color
	}
	if override.Rerender {
		merged.Insert.PreserveFormatting = false
	}
	// A debug flag can only switch debugging on.
	merged.Dev.Debug = base.Dev.Debug || override.Debug

	return &merged
}

// LoadConfigWithCLI loads config with CLI argument precedence:
// CLI over config file over defaults
func LoadConfigWithCLI(configPath string, override Overrides) (*Config, error) {
	cfg := NewConfig()

	if configPath != "" {
		fileConfig, err := LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = fileConfig
	}

	merged := MergeConfigs(cfg, override)
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return merged, nil
}
