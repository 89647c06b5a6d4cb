package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"appshots/models"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default config should validate, got %v", err)
	}

	if cfg.SourceDir != "attached_assets" {
		t.Errorf("Expected source dir attached_assets, got %s", cfg.SourceDir)
	}
	if cfg.Pattern != "IMG_*_1206x2622.png" {
		t.Errorf("Expected default pattern, got %s", cfg.Pattern)
	}
	if cfg.TopN != 10 {
		t.Errorf("Expected top_n 10, got %d", cfg.TopN)
	}
	if cfg.RecordsEnabled() {
		t.Error("Run records should be disabled by default")
	}

	want := map[string][2]int{"6.7-inch": {1290, 2796}, "6.5-inch": {1284, 2778}}
	if len(cfg.Targets) != len(want) {
		t.Fatalf("Expected %d targets, got %d", len(want), len(cfg.Targets))
	}
	for _, tgt := range cfg.Targets {
		size, ok := want[tgt.Name]
		if !ok {
			t.Errorf("Unexpected target %s", tgt.Name)
			continue
		}
		if tgt.Width != size[0] || tgt.Height != size[1] {
			t.Errorf("Target %s: expected %dx%d, got %dx%d", tgt.Name, size[0], size[1], tgt.Width, tgt.Height)
		}
	}
}

func TestLoadConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "appshots.yaml")

	configContent := `
source_dir: "shots"
top_n: 3
workers: 2
filter: catmullrom
data_dir: "state"
record_retention: 48h
callback_url: "https://example.com/hook"
targets:
  - name: small
    label: "Small"
    dir: out/small
    width: 100
    height: 200
publish:
  - type: s3
    prefix: screenshots
    credentials:
      bucket: my-bucket
      region: us-east-1
`
	if err := os.WriteFile(configFile, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to create test config: %v", err)
	}

	cfg, err := Load(configFile)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Loaded config should validate, got %v", err)
	}

	if cfg.SourceDir != "shots" {
		t.Errorf("Expected source_dir 'shots', got '%s'", cfg.SourceDir)
	}
	if cfg.Pattern != DefaultPattern {
		t.Errorf("Expected pattern to keep default, got '%s'", cfg.Pattern)
	}
	if cfg.TopN != 3 || cfg.Workers != 2 {
		t.Errorf("Expected top_n 3 and workers 2, got %d and %d", cfg.TopN, cfg.Workers)
	}
	if cfg.RecordRetention != 48*time.Hour {
		t.Errorf("Expected retention 48h, got %v", cfg.RecordRetention)
	}
	if len(cfg.Targets) != 1 || cfg.Targets[0].Width != 100 {
		t.Errorf("Expected targets from file to replace defaults, got %+v", cfg.Targets)
	}
	if len(cfg.Publish) != 1 || cfg.Publish[0].Credentials["bucket"] != "my-bucket" {
		t.Errorf("Expected one s3 publish job, got %+v", cfg.Publish)
	}
	if cfg.GetSuccessDBPath() != filepath.Join("state", "success.db") {
		t.Errorf("Unexpected success db path %s", cfg.GetSuccessDBPath())
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Expected error for missing config file")
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvSourceDir, "/tmp/shots")
	t.Setenv(EnvDataDir, "/tmp/appshots-data")
	t.Setenv(EnvWorkers, "4")
	t.Setenv(EnvLogLevel, "debug")

	cfg := Default()
	if err := cfg.ApplyEnv(); err != nil {
		t.Fatalf("ApplyEnv failed: %v", err)
	}
	if cfg.SourceDir != "/tmp/shots" {
		t.Errorf("Expected source dir from env, got %s", cfg.SourceDir)
	}
	if !cfg.RecordsEnabled() {
		t.Error("Expected records enabled when data dir is set")
	}
	if cfg.Workers != 4 {
		t.Errorf("Expected 4 workers, got %d", cfg.Workers)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("Expected log level debug, got %s", cfg.LogLevel)
	}

	t.Setenv(EnvWorkers, "many")
	if err := cfg.ApplyEnv(); err == nil {
		t.Error("Expected error for non-numeric workers")
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no targets", func(c *Config) { c.Targets = nil }},
		{"zero width", func(c *Config) { c.Targets[0].Width = 0 }},
		{"unknown format", func(c *Config) { c.Format = "tiff" }},
		{"unknown filter", func(c *Config) { c.Filter = "sinc" }},
		{"zero workers", func(c *Config) { c.Workers = 0 }},
		{"duplicate name", func(c *Config) { c.Targets[1].Name = c.Targets[0].Name }},
		{"shared dir", func(c *Config) { c.Targets[1].Dir = c.Targets[0].Dir + "/" }},
		{"bad callback", func(c *Config) { c.CallbackURL = "not a url" }},
		{"unknown publish type", func(c *Config) {
			c.Publish = append(c.Publish, publishJob("ftp"))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Errorf("Expected validation error for %s", tt.name)
			}
		})
	}
}

func publishJob(kind string) models.WriterJob {
	return models.WriterJob{Type: kind, Credentials: map[string]string{}}
}
