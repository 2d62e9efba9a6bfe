package common

import (
	"fmt"
	"os"
	"strconv"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for the portfolio tracker
type Config struct {
	Environment string        `toml:"environment"`
	Server      ServerConfig  `toml:"server"`
	Storage     StorageConfig `toml:"storage"`
	Clients     ClientsConfig `toml:"clients"`
	Logging     LoggingConfig `toml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// StorageConfig holds the local database location.
type StorageConfig struct {
	Path string `toml:"path"`
}

// ClientsConfig holds quote-provider client configurations
type ClientsConfig struct {
	CoinGecko QuoteClientConfig `toml:"coingecko"`
	MFAPI     QuoteClientConfig `toml:"mfapi"`
	Yahoo     QuoteClientConfig `toml:"yahoo"`
	Gold      QuoteClientConfig `toml:"gold"`
	CacheTTL  string            `toml:"cache_ttl"` // duration string for the quote cache
}

// GetCacheTTL parses and returns the quote cache TTL.
func (c *ClientsConfig) GetCacheTTL() time.Duration {
	d, err := time.ParseDuration(c.CacheTTL)
	if err != nil {
		return 60 * time.Second
	}
	return d
}

// QuoteClientConfig holds configuration for one external quote provider.
type QuoteClientConfig struct {
	BaseURL   string `toml:"base_url"`
	RateLimit int    `toml:"rate_limit"`
	Timeout   string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *QuoteClientConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Storage: StorageConfig{
			Path: "data/portfolio",
		},
		Clients: ClientsConfig{
			CoinGecko: QuoteClientConfig{
				BaseURL:   "https://api.coingecko.com/api/v3",
				RateLimit: 5,
				Timeout:   "30s",
			},
			MFAPI: QuoteClientConfig{
				BaseURL:   "https://api.mfapi.in",
				RateLimit: 5,
				Timeout:   "30s",
			},
			Yahoo: QuoteClientConfig{
				BaseURL:   "https://query1.finance.yahoo.com",
				RateLimit: 5,
				Timeout:   "30s",
			},
			Gold: QuoteClientConfig{
				BaseURL:   "https://www.goodreturns.in",
				RateLimit: 1,
				Timeout:   "30s",
			},
			CacheTTL: "60s",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// LoadConfig loads configuration from files with environment overrides.
// Later files override earlier ones; missing files are skipped.
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("PORTFOLIO_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("PORTFOLIO_HOST"); host != "" {
		config.Server.Host = host
	}

	if port := os.Getenv("PORTFOLIO_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if path := os.Getenv("PORTFOLIO_DATA_PATH"); path != "" {
		config.Storage.Path = path
	}

	if level := os.Getenv("PORTFOLIO_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
}
