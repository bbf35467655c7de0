package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds all configuration options for mood.
type Config struct {
	// Classpath entries: class directories, .jar and .zip files
	Classpath []string `koanf:"classpath" toml:"classpath" yaml:"classpath"`

	// Classes to analyze; empty means every class found on the classpath
	Classes []string `koanf:"classes" toml:"classes" yaml:"classes"`

	// Analysis settings
	Analysis AnalysisConfig `koanf:"analysis" toml:"analysis" yaml:"analysis"`

	// Class exclusion patterns
	Exclude ExcludeConfig `koanf:"exclude" toml:"exclude" yaml:"exclude"`

	// Cache settings
	Cache CacheConfig `koanf:"cache" toml:"cache" yaml:"cache"`

	// Output settings
	Output OutputConfig `koanf:"output" toml:"output" yaml:"output"`
}

// AnalysisConfig controls how classes are read.
type AnalysisConfig struct {
	Workers int `koanf:"workers" toml:"workers" yaml:"workers"` // 0 = 2x CPU count
}

// ExcludeConfig defines class exclusion patterns in gitignore syntax,
// matched against class paths such as com/example/internal/Gen.class.
type ExcludeConfig struct {
	Patterns []string `koanf:"patterns" toml:"patterns" yaml:"patterns"`
}

// CacheConfig controls caching behavior.
type CacheConfig struct {
	Enabled bool   `koanf:"enabled" toml:"enabled" yaml:"enabled"`
	Dir     string `koanf:"dir" toml:"dir" yaml:"dir"`
	TTL     int    `koanf:"ttl" toml:"ttl" yaml:"ttl"` // TTL in hours
}

// OutputConfig controls output formatting.
type OutputConfig struct {
	Format string `koanf:"format" toml:"format" yaml:"format"` // text, json, markdown, toon
	Color  bool   `koanf:"color" toml:"color" yaml:"color"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Classpath: []string{"."},
		Classes:   []string{},
		Analysis: AnalysisConfig{
			Workers: 0,
		},
		Exclude: ExcludeConfig{
			Patterns: []string{
				"module-info.class",
				"package-info.class",
				"META-INF/",
			},
		},
		Cache: CacheConfig{
			Enabled: true,
			Dir:     ".mood/cache",
			TTL:     24,
		},
		Output: OutputConfig{
			Format: "text",
			Color:  true,
		},
	}
}

// ConfigNames are the file names searched for, in order.
var ConfigNames = []string{
	"mood.toml",
	"mood.yaml",
	"mood.yml",
	"mood.json",
	".mood.toml",
	".mood.yaml",
	".mood.yml",
	".mood.json",
}

// SearchDirs are the directories searched for a config file, in order.
var SearchDirs = []string{".", ".mood"}

func parserFor(path string) koanf.Parser {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Parser()
	case ".json":
		return json.Parser()
	default:
		return toml.Parser()
	}
}

// load reads path into a koanf instance without applying defaults.
func load(path string) (*koanf.Koanf, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), parserFor(path)); err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return k, nil
}

// Load loads configuration from a file on top of the defaults.
func Load(path string) (*Config, error) {
	k, err := load(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return cfg, nil
}

// Find returns the first config file in the standard locations, or "".
func Find() string {
	for _, dir := range SearchDirs {
		for _, name := range ConfigNames {
			path := filepath.Join(dir, name)
			if info, err := os.Stat(path); err == nil && !info.IsDir() {
				return path
			}
		}
	}
	return ""
}

// LoadOption configures LoadConfig.
type LoadOption func(*loadOptions)

type loadOptions struct {
	path     string
	validate bool
}

// WithPath loads a specific file instead of searching the standard locations.
func WithPath(path string) LoadOption {
	return func(o *loadOptions) {
		o.path = path
	}
}

// WithoutValidation skips schema and value checks.
func WithoutValidation() LoadOption {
	return func(o *loadOptions) {
		o.validate = false
	}
}

// LoadResult is a loaded configuration and where it came from.
type LoadResult struct {
	Config *Config
	// Source is the file the config was read from; empty for defaults.
	Source string
}

// LoadConfig loads and validates the configuration. Without WithPath it
// searches the standard locations and falls back to the defaults.
func LoadConfig(opts ...LoadOption) (*LoadResult, error) {
	o := loadOptions{validate: true}
	for _, opt := range opts {
		opt(&o)
	}

	path := o.path
	if path == "" {
		path = Find()
	}
	if path == "" {
		return &LoadResult{Config: DefaultConfig()}, nil
	}

	k, err := load(path)
	if err != nil {
		return nil, err
	}
	if o.validate {
		if err := validateSchema(k.Raw()); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}

	cfg := DefaultConfig()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if o.validate {
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	return &LoadResult{Config: cfg, Source: path}, nil
}

// LoadOrDefault tries to load config from standard locations or returns defaults.
func LoadOrDefault() *Config {
	result, err := LoadConfig()
	if err != nil {
		return DefaultConfig()
	}
	return result.Config
}

// ErrInvalidConfig is wrapped by every value check failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Formats are the accepted output formats.
var Formats = []string{"text", "json", "markdown", "toon"}

// Validate checks values the schema cannot express.
func (c *Config) Validate() error {
	var errs []error
	if !isFormat(c.Output.Format) {
		errs = append(errs, fmt.Errorf("%w: output.format %q (want one of %s)",
			ErrInvalidConfig, c.Output.Format, strings.Join(Formats, ", ")))
	}
	if c.Analysis.Workers < 0 {
		errs = append(errs, fmt.Errorf("%w: analysis.workers must be >= 0, got %d", ErrInvalidConfig, c.Analysis.Workers))
	}
	if c.Cache.TTL < 0 {
		errs = append(errs, fmt.Errorf("%w: cache.ttl must be >= 0, got %d", ErrInvalidConfig, c.Cache.TTL))
	}
	for _, entry := range c.Classpath {
		if strings.TrimSpace(entry) == "" {
			errs = append(errs, fmt.Errorf("%w: empty classpath entry", ErrInvalidConfig))
		}
	}
	return errors.Join(errs...)
}

func isFormat(f string) bool {
	for _, known := range Formats {
		if f == known {
			return true
		}
	}
	return false
}
