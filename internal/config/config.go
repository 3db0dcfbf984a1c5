package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Prefix is prepended to every environment variable name
const Prefix = "HBT"

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// Remote coaching service
	BaseURL     string        `envconfig:"BASE_URL" default:"http://127.0.0.1:8001"`
	HTTPTimeout time.Duration `envconfig:"HTTP_TIMEOUT" default:"0s"` // 0 leaves the transport default

	// Local state
	DBPath string `envconfig:"DB_PATH"` // empty = $XDG_DATA_HOME/hbt/hbt.db

	// Logging. The TUI owns the terminal so logs always go to a file.
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	LogFile  string `envconfig:"LOG_FILE"` // empty = <data dir>/hbt.log

	// Optional Prometheus endpoint, e.g. "127.0.0.1:9464"
	MetricsAddr string `envconfig:"METRICS_ADDR"`

	// hbt-stub listen address
	StubAddr string `envconfig:"STUB_ADDR" default:":8001"`

	// Activity journal entries kept on startup
	ActivityKeep int `envconfig:"ACTIVITY_KEEP" default:"500"`
}

// MetricsEnabled returns true if a metrics listen address is configured.
func (c *Config) MetricsEnabled() bool {
	return c.MetricsAddr != ""
}

// Validate checks values envconfig cannot.
func (c *Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid %s_BASE_URL: %w", Prefix, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid %s_BASE_URL %q: scheme must be http or https", Prefix, c.BaseURL)
	}
	if c.HTTPTimeout < 0 {
		return fmt.Errorf("%s_HTTP_TIMEOUT must not be negative", Prefix)
	}
	c.BaseURL = strings.TrimSuffix(c.BaseURL, "/")
	return nil
}

// Load reads configuration from environment variables, after loading a .env
// file from the working directory if one exists.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}
	return LoadEnv()
}

// LoadEnv reads configuration from the environment only.
func LoadEnv() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
