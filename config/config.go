package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"appshots/models"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Environment variables read by ApplyEnv.
const (
	EnvConfigFile = "APPSHOTS_CONFIG"
	EnvSourceDir  = "APPSHOTS_SOURCE_DIR"
	EnvDataDir    = "APPSHOTS_DATA_DIR"
	EnvLogLevel   = "APPSHOTS_LOG_LEVEL"
	EnvLogFile    = "APPSHOTS_LOG_FILE"
	EnvWorkers    = "APPSHOTS_WORKERS"
	EnvSentryDSN  = "APPSHOTS_SENTRY_DSN"
)

// Defaults for the App Store screenshot job.
const (
	DefaultSourceDir = "attached_assets"
	DefaultPattern   = "IMG_*_1206x2622.png"
	DefaultTopN      = 10
	DefaultFormat    = "png"
	DefaultFilter    = "lanczos"
	DefaultRetention = 30 * 24 * time.Hour
)

// Config is the full description of a run. It is built once at startup and
// passed to the runner; nothing reads it from package state.
type Config struct {
	SourceDir string              `yaml:"source_dir" validate:"required"`
	Pattern   string              `yaml:"pattern" validate:"required"`
	TopN      int                 `yaml:"top_n" validate:"gte=0"`
	Workers   int                 `yaml:"workers" validate:"gte=1"`
	Format    string              `yaml:"format" validate:"oneof=png jpg webp"`
	Filter    string              `yaml:"filter" validate:"oneof=lanczos catmullrom bilinear box nearest"`
	Quality   int                 `yaml:"quality" validate:"gte=0,lte=100"`
	Targets   []models.TargetSpec `yaml:"targets" validate:"required,min=1,dive"`

	Publish []models.WriterJob `yaml:"publish" validate:"dive"`

	DataDir         string        `yaml:"data_dir"` // empty disables run records
	RecordRetention time.Duration `yaml:"record_retention" validate:"gte=0"`

	CallbackURL     string            `yaml:"callback_url" validate:"omitempty,url"`
	CallbackHeaders map[string]string `yaml:"callback_headers"`

	LogLevel  string `yaml:"log_level" validate:"omitempty,oneof=debug info warn warning error DEBUG INFO WARN WARNING ERROR"`
	LogFile   string `yaml:"log_file"`
	SentryDSN string `yaml:"sentry_dsn"`
}

// DefaultTargets are the two iPhone display classes App Store Connect asks for.
func DefaultTargets() []models.TargetSpec {
	return []models.TargetSpec{
		{Name: "6.7-inch", Label: `iPhone 6.7"`, Dir: "app-store-screenshots/iphone-6.7", Width: 1290, Height: 2796},
		{Name: "6.5-inch", Label: `iPhone 6.5"`, Dir: "app-store-screenshots/iphone-6.5", Width: 1284, Height: 2778},
	}
}

// Default returns the configuration of the stock screenshot job.
func Default() *Config {
	return &Config{
		SourceDir:       DefaultSourceDir,
		Pattern:         DefaultPattern,
		TopN:            DefaultTopN,
		Workers:         1,
		Format:          DefaultFormat,
		Filter:          DefaultFilter,
		Quality:         90,
		Targets:         DefaultTargets(),
		RecordRetention: DefaultRetention,
		LogLevel:        "info",
	}
}

// Load reads a YAML file on top of Default. Keys missing from the file keep
// their default value.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// FromEnv builds the configuration used by the binary: the file named by
// APPSHOTS_CONFIG (if any), then environment overrides, then validation.
func FromEnv() (*Config, error) {
	cfg := Default()
	if path := os.Getenv(EnvConfigFile); path != "" {
		loaded, err := Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// ApplyEnv overrides fields from APPSHOTS_* environment variables.
func (c *Config) ApplyEnv() error {
	if dir := os.Getenv(EnvSourceDir); dir != "" {
		c.SourceDir = dir
	}
	if dir := os.Getenv(EnvDataDir); dir != "" {
		c.DataDir = dir
	}
	if lvl := os.Getenv(EnvLogLevel); lvl != "" {
		c.LogLevel = lvl
	}
	if file := os.Getenv(EnvLogFile); file != "" {
		c.LogFile = file
	}
	if dsn := os.Getenv(EnvSentryDSN); dsn != "" {
		c.SentryDSN = dsn
	}
	if w := os.Getenv(EnvWorkers); w != "" {
		n, err := strconv.Atoi(w)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvWorkers, err)
		}
		c.Workers = n
	}
	return nil
}

var validate = validator.New()

// Validate checks field constraints and that target names and directories
// are unique, since outputs are keyed by them.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}

	names := make(map[string]bool, len(c.Targets))
	dirs := make(map[string]bool, len(c.Targets))
	for _, t := range c.Targets {
		if names[t.Name] {
			return fmt.Errorf("duplicate target name %q", t.Name)
		}
		names[t.Name] = true

		dir := filepath.Clean(t.Dir)
		if dirs[dir] {
			return fmt.Errorf("targets share output directory %q", t.Dir)
		}
		dirs[dir] = true
	}
	return nil
}

// RecordsEnabled reports whether run records should be persisted.
func (c *Config) RecordsEnabled() bool {
	return c.DataDir != ""
}

// GetSuccessDBPath returns {DataDir}/success.db
func (c *Config) GetSuccessDBPath() string {
	return filepath.Join(c.DataDir, "success.db")
}

// GetFailuresDBPath returns {DataDir}/failures.db
func (c *Config) GetFailuresDBPath() string {
	return filepath.Join(c.DataDir, "failures.db")
}
