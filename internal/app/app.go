// Package app wires configuration, storage, clients and services into the
// shared application core used by cmd/portfolio-server.
package app

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Rahul-1991/portfolio-app/internal/clients/coingecko"
	"github.com/Rahul-1991/portfolio-app/internal/clients/goldprice"
	"github.com/Rahul-1991/portfolio-app/internal/clients/mfapi"
	"github.com/Rahul-1991/portfolio-app/internal/clients/yahoo"
	"github.com/Rahul-1991/portfolio-app/internal/common"
	"github.com/Rahul-1991/portfolio-app/internal/interfaces"
	"github.com/Rahul-1991/portfolio-app/internal/services/portfolio"
	"github.com/Rahul-1991/portfolio-app/internal/services/quote"
	"github.com/Rahul-1991/portfolio-app/internal/storage"
)

// App holds all initialized services and clients.
type App struct {
	Config  *common.Config
	Logger  *common.Logger
	Storage interfaces.StorageManager

	CryptoClient interfaces.CryptoClient
	FundClient   interfaces.FundClient
	StockClient  interfaces.StockClient
	GoldClient   interfaces.GoldClient

	QuoteService     interfaces.QuoteService
	PortfolioService interfaces.PortfolioService

	StartupTime time.Time
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp initializes configuration, storage, clients and services.
// configPath may be empty, in which case the default resolution is used:
// PORTFOLIO_CONFIG, then portfolio.toml next to the binary, then
// config/portfolio.toml for development.
func NewApp(configPath string) (*App, error) {
	startupStart := time.Now()

	binDir := getBinaryDir()

	if configPath == "" {
		configPath = os.Getenv("PORTFOLIO_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(binDir, "portfolio.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/portfolio.toml"
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Resolve relative storage path to binary directory
	if config.Storage.Path != "" && !filepath.IsAbs(config.Storage.Path) {
		config.Storage.Path = filepath.Join(binDir, config.Storage.Path)
	}

	logger := common.NewLoggerFromConfig(config.Logging)

	storageManager, err := storage.NewManager(logger, config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	cryptoClient := coingecko.NewClient(
		coingecko.WithBaseURL(config.Clients.CoinGecko.BaseURL),
		coingecko.WithRateLimit(config.Clients.CoinGecko.RateLimit),
		coingecko.WithTimeout(config.Clients.CoinGecko.GetTimeout()),
		coingecko.WithLogger(logger),
	)
	fundClient := mfapi.NewClient(
		mfapi.WithBaseURL(config.Clients.MFAPI.BaseURL),
		mfapi.WithRateLimit(config.Clients.MFAPI.RateLimit),
		mfapi.WithTimeout(config.Clients.MFAPI.GetTimeout()),
		mfapi.WithLogger(logger),
	)
	stockClient := yahoo.NewClient(
		yahoo.WithBaseURL(config.Clients.Yahoo.BaseURL),
		yahoo.WithRateLimit(config.Clients.Yahoo.RateLimit),
		yahoo.WithTimeout(config.Clients.Yahoo.GetTimeout()),
		yahoo.WithLogger(logger),
	)
	goldClient := goldprice.NewClient(
		goldprice.WithBaseURL(config.Clients.Gold.BaseURL),
		goldprice.WithRateLimit(config.Clients.Gold.RateLimit),
		goldprice.WithTimeout(config.Clients.Gold.GetTimeout()),
		goldprice.WithLogger(logger),
		goldprice.WithRateStore(storageManager.KV()),
	)

	quoteService := quote.NewService(cryptoClient, fundClient, stockClient, goldClient,
		config.Clients.GetCacheTTL(), logger)
	portfolioService := portfolio.NewService(storageManager, quoteService, logger)

	logger.Info().
		Str("version", common.Version).
		Str("environment", config.Environment).
		Str("storage", config.Storage.Path).
		Dur("startup", time.Since(startupStart)).
		Msg("Application initialized")

	return &App{
		Config:           config,
		Logger:           logger,
		Storage:          storageManager,
		CryptoClient:     cryptoClient,
		FundClient:       fundClient,
		StockClient:      stockClient,
		GoldClient:       goldClient,
		QuoteService:     quoteService,
		PortfolioService: portfolioService,
		StartupTime:      startupStart,
	}, nil
}

// Close releases application resources.
func (a *App) Close() error {
	if a.Storage != nil {
		return a.Storage.Close()
	}
	return nil
}
