package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// FileName is the config file looked up in the project root.
const FileName = "stubconv.yaml"

// StateDir holds the cache and the alternative config location.
const StateDir = ".stubconv"

// Config holds all configuration for the stub converter.
type Config struct {
	Convert ConvertConfig `yaml:"convert"`
	Render  RenderConfig  `yaml:"render"`
	Types   TypesConfig   `yaml:"types"`
	Cache   CacheConfig   `yaml:"cache"`
	Logging LoggingConfig `yaml:"logging"`
}

// ConvertConfig selects the stub files and the declaration output.
type ConvertConfig struct {
	Includes []string `yaml:"includes" validate:"min=1,dive,required"`
	Excludes []string `yaml:"excludes"`
	Output   string   `yaml:"output" validate:"required"` // relative to the project root
	Header   string   `yaml:"header"`                     // written once at the top of the output
}

// RenderConfig holds declaration formatting options.
type RenderConfig struct {
	Indent   int    `yaml:"indent" validate:"gte=0,lte=16"`
	RestType string `yaml:"rest_type" validate:"required"`
}

// TypesConfig holds extra source-to-target type substitutions.
type TypesConfig struct {
	Overrides map[string]string `yaml:"overrides" validate:"dive,keys,required,endkeys,required"`
}

// CacheConfig holds rendered-block cache configuration.
type CacheConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path" validate:"required_if=Enabled true"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
	JSON  bool   `yaml:"json"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Convert: ConvertConfig{
			Includes: []string{"*.js"},
			Excludes: []string{"**/*.min.js"},
			Output:   "api-stubs.d.ts",
		},
		Render: RenderConfig{
			Indent:   4,
			RestType: "string[]",
		},
		Types: TypesConfig{
			Overrides: map[string]string{},
		},
		Cache: CacheConfig{
			Enabled: true,
			Path:    filepath.Join(StateDir, "cache.db"),
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Return defaults if no config file
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromDir loads configuration from a directory (looks for stubconv.yaml).
func LoadFromDir(dir string) (*Config, error) {
	path := filepath.Join(dir, FileName)
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	path = filepath.Join(dir, StateDir, "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	return DefaultConfig(), nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report yaml key names so errors point at the config file's keys.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	return validate.Struct(c)
}

// OutputPath resolves the declaration output against the project root.
func OutputPath(dir string, cfg *Config) string {
	if filepath.IsAbs(cfg.Convert.Output) {
		return cfg.Convert.Output
	}
	return filepath.Join(dir, cfg.Convert.Output)
}

// CacheDBPath resolves the cache database against the project root.
func CacheDBPath(dir string, cfg *Config) string {
	if filepath.IsAbs(cfg.Cache.Path) {
		return cfg.Cache.Path
	}
	return filepath.Join(dir, cfg.Cache.Path)
}

// EnsureStateDir ensures the directory holding the cache database exists.
func EnsureStateDir(dir string, cfg *Config) error {
	return os.MkdirAll(filepath.Dir(CacheDBPath(dir, cfg)), 0755)
}
