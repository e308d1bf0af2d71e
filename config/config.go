package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Log       LogConfig       `yaml:"log"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Discovery DiscoveryConfig `yaml:"discovery"`
	Forms     FormsConfig     `yaml:"forms"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	Minio     MinioConfig     `yaml:"minio"`
	Upstream  UpstreamConfig  `yaml:"upstream"`
}

type ServerConfig struct {
	Port int `yaml:"port" env:"MEDICONNECT_PORT"`
}

type LogConfig struct {
	Level  string `yaml:"level" env:"MEDICONNECT_LOG_LEVEL"`
	Format string `yaml:"format" env:"MEDICONNECT_LOG_FORMAT"`
}

// RateLimitConfig is a per-client fixed window; Requests <= 0 disables it
type RateLimitConfig struct {
	Requests int           `yaml:"requests" env:"MEDICONNECT_RATE_LIMIT_REQUESTS"`
	Window   time.Duration `yaml:"window" env:"MEDICONNECT_RATE_LIMIT_WINDOW"`
}

type DiscoveryConfig struct {
	PageSize int    `yaml:"page_size" env:"MEDICONNECT_DISCOVERY_PAGE_SIZE"`
	Locale   string `yaml:"locale" env:"MEDICONNECT_DISCOVERY_LOCALE"`
}

type FormsConfig struct {
	SuccessDisplay time.Duration `yaml:"success_display" env:"MEDICONNECT_FORMS_SUCCESS_DISPLAY"`
	MaxSessions    int           `yaml:"max_sessions" env:"MEDICONNECT_FORMS_MAX_SESSIONS"`
}

// Catalog sources
const (
	SourceStatic   = "static"
	SourceFile     = "file"
	SourceMinio    = "minio"
	SourceUpstream = "upstream"
)

type CatalogConfig struct {
	Source string `yaml:"source" env:"MEDICONNECT_CATALOG_SOURCE"`
	Path   string `yaml:"path" env:"MEDICONNECT_CATALOG_PATH"`
	Object string `yaml:"object" env:"MEDICONNECT_CATALOG_OBJECT"`
	// Refresh reloads the catalog periodically; zero loads once at startup
	Refresh time.Duration `yaml:"refresh" env:"MEDICONNECT_CATALOG_REFRESH"`
}

type MinioConfig struct {
	Endpoint  string `yaml:"endpoint" env:"MEDICONNECT_MINIO_ENDPOINT"`
	AccessKey string `yaml:"access_key" env:"MEDICONNECT_MINIO_ACCESS_KEY"`
	SecretKey string `yaml:"secret_key" env:"MEDICONNECT_MINIO_SECRET_KEY"`
	Bucket    string `yaml:"bucket" env:"MEDICONNECT_MINIO_BUCKET"`
	UseSSL    bool   `yaml:"use_ssl" env:"MEDICONNECT_MINIO_USE_SSL"`
}

type UpstreamConfig struct {
	BaseURL string        `yaml:"base_url" env:"MEDICONNECT_UPSTREAM_BASE_URL"`
	Timeout time.Duration `yaml:"timeout" env:"MEDICONNECT_UPSTREAM_TIMEOUT"`
}

var GlobalConfig *Config

// Load reads the YAML file at path, fills defaults, then applies
// MEDICONNECT_* environment overrides. An empty path skips the file.
func Load(path string) (*Config, error) {
	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, err
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	cfg.setDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	GlobalConfig = &cfg
	return &cfg, nil
}

func (c *Config) setDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.RateLimit.Window == 0 {
		c.RateLimit.Window = time.Minute
	}
	if c.Discovery.PageSize == 0 {
		c.Discovery.PageSize = 6
	}
	if c.Discovery.Locale == "" {
		c.Discovery.Locale = "en"
	}
	if c.Forms.SuccessDisplay == 0 {
		c.Forms.SuccessDisplay = 3 * time.Second
	}
	if c.Forms.MaxSessions == 0 {
		c.Forms.MaxSessions = 1000
	}
	if c.Catalog.Source == "" {
		c.Catalog.Source = SourceStatic
	}
	if c.Catalog.Object == "" {
		c.Catalog.Object = "doctors.yaml"
	}
	if c.Upstream.BaseURL == "" {
		c.Upstream.BaseURL = "http://localhost:8088/api/v1"
	}
	if c.Upstream.Timeout == 0 {
		c.Upstream.Timeout = 10 * time.Second
	}
}

// Validate rejects settings the server cannot start with
func (c *Config) Validate() error {
	if c.Discovery.PageSize < 0 {
		return fmt.Errorf("discovery.page_size must be positive, got %d", c.Discovery.PageSize)
	}
	switch c.Catalog.Source {
	case SourceStatic, SourceUpstream:
	case SourceFile:
		if c.Catalog.Path == "" {
			return fmt.Errorf("catalog.path is required for source %q", SourceFile)
		}
	case SourceMinio:
		if c.Minio.Endpoint == "" || c.Minio.Bucket == "" {
			return fmt.Errorf("minio.endpoint and minio.bucket are required for source %q", SourceMinio)
		}
	default:
		return fmt.Errorf("unknown catalog source %q", c.Catalog.Source)
	}
	return nil
}
