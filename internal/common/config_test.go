package common

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "data/portfolio", cfg.Storage.Path)
	assert.Equal(t, "https://api.coingecko.com/api/v3", cfg.Clients.CoinGecko.BaseURL)
	assert.Equal(t, 60*time.Second, cfg.Clients.GetCacheTTL())
}

func TestLoadConfig_FileOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "portfolio.toml")
	content := `
environment = "production"

[server]
port = 9090

[storage]
path = "/var/lib/portfolio"

[clients]
cache_ttl = "5m"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "/var/lib/portfolio", cfg.Storage.Path)
	assert.Equal(t, 5*time.Minute, cfg.Clients.GetCacheTTL())
	// untouched sections keep defaults
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
}

func TestLoadConfig_MissingFileSkipped(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/portfolio.toml")
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("PORTFOLIO_PORT", "7070")
	t.Setenv("PORTFOLIO_LOG_LEVEL", "debug")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestGetTimeout_Invalid(t *testing.T) {
	c := QuoteClientConfig{Timeout: "notaduration"}
	assert.Equal(t, 30*time.Second, c.GetTimeout())
}
