package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name: "unknown renderer",
			mutate: func(cfg *Config) {
				cfg.Renderer = "selenium"
			},
			wantErr: "renderer",
		},
		{
			name: "negative timeout",
			mutate: func(cfg *Config) {
				cfg.Timeout = -1 * time.Second
			},
			wantErr: "timeout",
		},
		{
			name: "render wait exceeds timeout",
			mutate: func(cfg *Config) {
				cfg.RenderWait = 2 * time.Minute
			},
			wantErr: "render wait",
		},
		{
			name: "negative retries",
			mutate: func(cfg *Config) {
				cfg.MaxRetries = -1
			},
			wantErr: "max retries",
		},
		{
			name: "backoff above max",
			mutate: func(cfg *Config) {
				cfg.RetryBackoff = time.Minute
			},
			wantErr: "retry backoff",
		},
		{
			name: "bad export format",
			mutate: func(cfg *Config) {
				cfg.ExportFile = "history.xml"
				cfg.ExportFormat = "xml"
			},
			wantErr: "export format",
		},
		{
			name: "zero cache",
			mutate: func(cfg *Config) {
				cfg.PriceCacheSize = 0
			},
			wantErr: "cache",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestDefaultConfigValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate, got %v", err)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SCRAPER_RENDERER", "static")
	t.Setenv("SCRAPER_TIMEOUT", "15s")
	t.Setenv("SCRAPER_MAX_RETRIES", "3")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Renderer != RendererStatic {
		t.Fatalf("renderer = %q, want static", cfg.Renderer)
	}
	if cfg.Timeout != 15*time.Second {
		t.Fatalf("timeout = %s, want 15s", cfg.Timeout)
	}
	if cfg.MaxRetries != 3 {
		t.Fatalf("max retries = %d, want 3", cfg.MaxRetries)
	}
	if cfg.RenderWait != DefaultConfig().RenderWait {
		t.Fatalf("render wait = %s, want default", cfg.RenderWait)
	}
}

func TestLoadFromYAML(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := filepath.Join(dir, "scraper.yml")
	content := "renderer: rod\nrender_wait: 2s\nexport_file: out/history.csv\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Renderer != RendererRod || cfg.RenderWait != 2*time.Second || cfg.ExportFile != "out/history.csv" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("loaded config should validate: %v", err)
	}
}
