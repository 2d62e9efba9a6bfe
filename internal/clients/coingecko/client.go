// Package coingecko provides a client for the CoinGecko API
package coingecko

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/Rahul-1991/portfolio-app/internal/common"
	"github.com/Rahul-1991/portfolio-app/internal/models"
)

const (
	DefaultBaseURL   = "https://api.coingecko.com/api/v3"
	DefaultTimeout   = 30 * time.Second
	DefaultRateLimit = 5 // requests per second
)

// Client implements the CryptoClient interface
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *common.Logger
	limiter    *rate.Limiter
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets the rate limit
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new CoinGecko client
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:  common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &common.APIError{
			StatusCode: resp.StatusCode,
			Message:    string(body),
			Endpoint:   path,
		}
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

// GetPrices retrieves current INR prices with 24h change for the given coin
// ids. CoinGecko only reports the 24h movement as a percentage, so the
// returned quotes carry ChangePct and leave ChangeAbs zero.
func (c *Client) GetPrices(ctx context.Context, coinIDs []string) (map[string]*models.Quote, error) {
	if len(coinIDs) == 0 {
		return map[string]*models.Quote{}, nil
	}

	path := fmt.Sprintf("/simple/price?ids=%s&vs_currencies=inr&include_24hr_change=true",
		url.QueryEscape(strings.Join(coinIDs, ",")))

	var raw map[string]struct {
		INR          float64 `json:"inr"`
		INR24hChange float64 `json:"inr_24h_change"`
	}
	if err := c.get(ctx, path, &raw); err != nil {
		return nil, fmt.Errorf("failed to fetch coin prices: %w", err)
	}

	now := time.Now()
	quotes := make(map[string]*models.Quote, len(raw))
	for id, p := range raw {
		quotes[id] = &models.Quote{
			Price:     p.INR,
			ChangePct: p.INR24hChange,
			Timestamp: now,
		}
	}
	return quotes, nil
}

// Search finds coins matching the query.
func (c *Client) Search(ctx context.Context, query string) ([]*models.CoinInfo, error) {
	var raw struct {
		Coins []struct {
			ID            string `json:"id"`
			Symbol        string `json:"symbol"`
			Name          string `json:"name"`
			MarketCapRank int    `json:"market_cap_rank"`
		} `json:"coins"`
	}
	if err := c.get(ctx, "/search?query="+url.QueryEscape(query), &raw); err != nil {
		return nil, fmt.Errorf("coin search failed: %w", err)
	}

	coins := make([]*models.CoinInfo, 0, len(raw.Coins))
	for _, coin := range raw.Coins {
		coins = append(coins, &models.CoinInfo{
			ID:            coin.ID,
			Symbol:        strings.ToUpper(coin.Symbol),
			Name:          coin.Name,
			MarketCapRank: coin.MarketCapRank,
		})
	}
	return coins, nil
}

// TopCoins lists coins by descending market cap.
func (c *Client) TopCoins(ctx context.Context, page, perPage int) ([]*models.CoinInfo, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 50
	}

	path := fmt.Sprintf("/coins/markets?vs_currency=inr&order=market_cap_desc&per_page=%d&page=%d&sparkline=false",
		perPage, page)

	var raw []struct {
		ID            string  `json:"id"`
		Symbol        string  `json:"symbol"`
		Name          string  `json:"name"`
		CurrentPrice  float64 `json:"current_price"`
		MarketCapRank int     `json:"market_cap_rank"`
		Change24h     float64 `json:"price_change_percentage_24h"`
	}
	if err := c.get(ctx, path, &raw); err != nil {
		return nil, fmt.Errorf("failed to fetch top coins: %w", err)
	}

	coins := make([]*models.CoinInfo, 0, len(raw))
	for _, coin := range raw {
		coins = append(coins, &models.CoinInfo{
			ID:            coin.ID,
			Symbol:        strings.ToUpper(coin.Symbol),
			Name:          coin.Name,
			CurrentPrice:  coin.CurrentPrice,
			MarketCapRank: coin.MarketCapRank,
			Change24hPct:  coin.Change24h,
		})
	}
	return coins, nil
}
