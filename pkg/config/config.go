package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Transports the server can listen on.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// Config holds application configuration
type Config struct {
	Environment     string        `envconfig:"ENVIRONMENT" default:"development"`
	InternalDomain  string        `envconfig:"INTERNAL_DOMAIN" required:"true"`
	Transport       string        `envconfig:"TRANSPORT" default:"stdio"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`

	Server   ServerConfig   `envconfig:"HTTP"`
	Database DatabaseConfig `envconfig:"DATABASE"`
	Source   SourceConfig   `envconfig:"SOURCE"`
	Redis    RedisConfig    `envconfig:"REDIS"`
	Storage  StorageConfig  `envconfig:"STORAGE"`

	DirectoryCacheTTL time.Duration `envconfig:"DIRECTORY_CACHE_TTL" default:"5m"`
}

// ServerConfig holds the HTTP transport configuration
type ServerConfig struct {
	Host string `envconfig:"HOST" default:"127.0.0.1"`
	Port string `envconfig:"PORT" default:"8080"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	URL             string `envconfig:"URL" required:"true"`
	MaxConns        int    `envconfig:"MAX_CONNS" default:"10"`
	MinConns        int    `envconfig:"MIN_CONNS" default:"2"`
	AutoMigrate     bool   `envconfig:"AUTO_MIGRATE" default:"true"`
	ConnectAttempts uint64 `envconfig:"CONNECT_ATTEMPTS" default:"5"`
}

// SourceConfig holds the transcript source configuration
type SourceConfig struct {
	URL       string        `envconfig:"URL" default:"http://localhost:8765"`
	Token     string        `envconfig:"TOKEN"`
	Timeout   time.Duration `envconfig:"TIMEOUT" default:"30s"`
	PageLimit int           `envconfig:"PAGE_LIMIT" default:"50"`
}

// RedisConfig holds Redis configuration. An empty Addr selects the
// in-process cache.
type RedisConfig struct {
	Addr     string `envconfig:"ADDR"`
	Password string `envconfig:"PASSWORD"`
	DB       int    `envconfig:"DB" default:"0"`
}

// StorageConfig holds object storage configuration. An empty Endpoint
// disables raw document snapshots.
type StorageConfig struct {
	Endpoint        string `envconfig:"ENDPOINT"`
	AccessKeyID     string `envconfig:"ACCESS_KEY"`
	SecretAccessKey string `envconfig:"SECRET_KEY"`
	BucketName      string `envconfig:"BUCKET" default:"meeting-archive"`
	UseSSL          bool   `envconfig:"USE_SSL" default:"false"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables or defaults")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to read configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	c.InternalDomain = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(c.InternalDomain), "@"))
	if c.InternalDomain == "" {
		return fmt.Errorf("INTERNAL_DOMAIN is required")
	}
	if strings.TrimSpace(c.Database.URL) == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	switch c.Transport {
	case TransportStdio, TransportHTTP:
	default:
		return fmt.Errorf("TRANSPORT must be %q or %q, got %q", TransportStdio, TransportHTTP, c.Transport)
	}
	if c.Source.PageLimit <= 0 {
		return fmt.Errorf("SOURCE_PAGE_LIMIT must be positive")
	}
	return nil
}

// IsProduction reports whether the production environment is selected
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// GetHTTPAddr returns the listen address for the HTTP transport
func (c *Config) GetHTTPAddr() string {
	return fmt.Sprintf("%s:%s", c.Server.Host, c.Server.Port)
}

// CacheEnabled reports whether a Redis cache is configured
func (c *Config) CacheEnabled() bool {
	return c.Redis.Addr != ""
}

// StorageEnabled reports whether raw document snapshots are configured
func (c *Config) StorageEnabled() bool {
	return c.Storage.Endpoint != ""
}
