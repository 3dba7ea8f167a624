package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Renderers understood by the fetch package.
const (
	RendererStatic = "static"
	RendererChrome = "chrome"
	RendererRod    = "rod"
)

// Config holds scraper configuration.
type Config struct {
	Renderer        string        `yaml:"renderer" env:"SCRAPER_RENDERER"` // static, chrome, or rod
	Timeout         time.Duration `yaml:"timeout" env:"SCRAPER_TIMEOUT"`
	RenderWait      time.Duration `yaml:"render_wait" env:"SCRAPER_RENDER_WAIT"`
	MaxRetries      int           `yaml:"max_retries" env:"SCRAPER_MAX_RETRIES"`
	RetryBackoff    time.Duration `yaml:"retry_backoff" env:"SCRAPER_RETRY_BACKOFF"`
	RetryBackoffMax time.Duration `yaml:"retry_backoff_max" env:"SCRAPER_RETRY_BACKOFF_MAX"`
	UserAgent       string        `yaml:"user_agent" env:"SCRAPER_USER_AGENT"`
	BrowserPath     string        `yaml:"browser_path" env:"SCRAPER_BROWSER_PATH"`
	Headless        bool          `yaml:"headless" env:"SCRAPER_HEADLESS"`
	MetricsAddr     string        `yaml:"metrics_addr" env:"SCRAPER_METRICS_ADDR"`
	ExportFile      string        `yaml:"export_file" env:"SCRAPER_EXPORT_FILE"`
	ExportFormat    string        `yaml:"export_format" env:"SCRAPER_EXPORT_FORMAT"` // csv, json, or dual
	PriceCacheSize  int           `yaml:"price_cache_size" env:"SCRAPER_PRICE_CACHE_SIZE"`
	Verbose         bool          `yaml:"verbose" env:"SCRAPER_VERBOSE"`
}

// DefaultConfig returns defaults suited to a single interactive session.
func DefaultConfig() *Config {
	return &Config{
		Renderer:        RendererChrome,
		Timeout:         60 * time.Second,
		RenderWait:      5 * time.Second,
		MaxRetries:      1,
		RetryBackoff:    500 * time.Millisecond,
		RetryBackoffMax: 5 * time.Second,
		UserAgent:       "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
		Headless:        true,
		ExportFormat:    "csv",
		PriceCacheSize:  256,
	}
}

// Load starts from DefaultConfig, applies a .env file when present, then
// the YAML file at path (if any) and SCRAPER_* environment variables.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load .env: %w", err)
		}
		slog.Debug("no .env file found, using environment variables")
	}

	cfg := DefaultConfig()
	if path != "" {
		if err := cleanenv.ReadConfig(path, cfg); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		return cfg, nil
	}
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}
	return cfg, nil
}

// Validate ensures all configuration values are coherent.
func (c *Config) Validate() error {
	switch c.Renderer {
	case RendererStatic, RendererChrome, RendererRod:
	default:
		return fmt.Errorf("renderer must be static, chrome, or rod")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.RenderWait < 0 {
		return fmt.Errorf("render wait cannot be negative")
	}
	if c.RenderWait >= c.Timeout {
		return fmt.Errorf("render wait (%s) must be shorter than timeout (%s)", c.RenderWait, c.Timeout)
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("max retries cannot be negative")
	}
	if c.RetryBackoff < 0 {
		return fmt.Errorf("retry backoff cannot be negative")
	}
	if c.RetryBackoffMax < 0 {
		return fmt.Errorf("retry backoff max cannot be negative")
	}
	if c.RetryBackoffMax > 0 && c.RetryBackoff > c.RetryBackoffMax {
		return fmt.Errorf("retry backoff (%s) cannot exceed retry backoff max (%s)", c.RetryBackoff, c.RetryBackoffMax)
	}
	if c.UserAgent == "" {
		return fmt.Errorf("user agent cannot be empty")
	}
	if c.ExportFile != "" && c.ExportFormat != "csv" && c.ExportFormat != "json" && c.ExportFormat != "dual" {
		return fmt.Errorf("export format must be csv, json, or dual")
	}
	if c.PriceCacheSize <= 0 {
		return fmt.Errorf("price cache size must be positive")
	}
	return nil
}
