package interfaces

import (
	"context"

	"github.com/Rahul-1991/portfolio-app/internal/models"
)

// CryptoClient provides cryptocurrency prices and search (CoinGecko).
type CryptoClient interface {
	// GetPrices retrieves current INR prices with 24h change for coin ids.
	GetPrices(ctx context.Context, coinIDs []string) (map[string]*models.Quote, error)

	// Search finds coins matching the query.
	Search(ctx context.Context, query string) ([]*models.CoinInfo, error)

	// TopCoins lists coins by market cap for the add screen.
	TopCoins(ctx context.Context, page, perPage int) ([]*models.CoinInfo, error)
}

// FundClient provides mutual fund NAVs and search (mfapi.in).
type FundClient interface {
	// GetNAV retrieves the latest NAV with day change for a scheme.
	GetNAV(ctx context.Context, schemeCode string) (*models.NAVQuote, error)

	// Search finds schemes matching the query.
	Search(ctx context.Context, query string) ([]*models.FundInfo, error)
}

// StockClient provides stock quotes and search (Yahoo Finance).
type StockClient interface {
	// GetQuote retrieves the current price and day change for a symbol.
	GetQuote(ctx context.Context, symbol string) (*models.Quote, error)

	// Search finds equities matching the query.
	Search(ctx context.Context, query string) ([]*models.StockInfo, error)
}

// GoldClient provides the retail gold rate.
type GoldClient interface {
	// GetPrice retrieves the current price per 10 grams of 24K gold.
	// Implementations fall back to a static quote when scraping fails.
	GetPrice(ctx context.Context) (*models.GoldQuote, error)
}
