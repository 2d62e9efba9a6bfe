// Package yahoo provides a client for the Yahoo Finance quote API
package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/Rahul-1991/portfolio-app/internal/common"
	"github.com/Rahul-1991/portfolio-app/internal/models"
)

const (
	DefaultBaseURL   = "https://query1.finance.yahoo.com"
	DefaultTimeout   = 30 * time.Second
	DefaultRateLimit = 5 // requests per second

	// nseSuffix is appended to bare symbols; the tracker covers NSE-listed
	// Indian equities.
	nseSuffix = ".NS"
)

// Client implements the StockClient interface
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

// NewClient creates a new Yahoo Finance client
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
	req.Header.Set("User-Agent", "Mozilla/5.0")

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

// GetQuote retrieves the current price with day change for an NSE symbol.
// The change is computed against the previous close from the chart metadata.
func (c *Client) GetQuote(ctx context.Context, symbol string) (*models.Quote, error) {
	path := fmt.Sprintf("/v8/finance/chart/%s%s?interval=1d&range=1d",
		url.PathEscape(symbol), nseSuffix)

	var raw struct {
		Chart struct {
			Result []struct {
				Meta struct {
					RegularMarketPrice float64 `json:"regularMarketPrice"`
					ChartPreviousClose float64 `json:"chartPreviousClose"`
					DayHigh            float64 `json:"dayHigh"`
					DayLow             float64 `json:"dayLow"`
					Volume             int64   `json:"volume"`
				} `json:"meta"`
			} `json:"result"`
			Error *struct {
				Code        string `json:"code"`
				Description string `json:"description"`
			} `json:"error"`
		} `json:"chart"`
	}
	if err := c.get(ctx, path, &raw); err != nil {
		return nil, fmt.Errorf("failed to fetch quote for %s: %w", symbol, err)
	}

	if raw.Chart.Error != nil {
		return nil, fmt.Errorf("quote error for %s: %s", symbol, raw.Chart.Error.Description)
	}
	if len(raw.Chart.Result) == 0 {
		return nil, fmt.Errorf("no quote data available for %s", symbol)
	}

	meta := raw.Chart.Result[0].Meta
	price := meta.RegularMarketPrice
	previousClose := meta.ChartPreviousClose
	if previousClose == 0 {
		previousClose = price
	}

	change := price - previousClose
	changePct := 0.0
	if previousClose != 0 {
		changePct = change / previousClose * 100
	}

	return &models.Quote{
		Price:     price,
		ChangeAbs: math.Round(change*100) / 100,
		ChangePct: math.Round(changePct*100) / 100,
		DayHigh:   meta.DayHigh,
		DayLow:    meta.DayLow,
		Volume:    float64(meta.Volume),
		Timestamp: time.Now(),
	}, nil
}

// Search finds NSE equities matching the query. Non-equity results (ETFs,
// indices, futures) are filtered out and the NSE suffix is stripped for
// display.
func (c *Client) Search(ctx context.Context, query string) ([]*models.StockInfo, error) {
	path := "/v1/finance/search?q=" + url.QueryEscape(query) + "&quotesCount=10&lang=en-US&region=IN"

	var raw struct {
		Quotes []struct {
			Symbol    string `json:"symbol"`
			LongName  string `json:"longname"`
			ShortName string `json:"shortname"`
			ExchDisp  string `json:"exchDisp"`
			QuoteType string `json:"quoteType"`
			Sector    string `json:"sector"`
			Industry  string `json:"industry"`
		} `json:"quotes"`
	}
	if err := c.get(ctx, path, &raw); err != nil {
		return nil, fmt.Errorf("stock search failed: %w", err)
	}

	stocks := make([]*models.StockInfo, 0, len(raw.Quotes))
	for _, q := range raw.Quotes {
		if q.QuoteType != "EQUITY" {
			continue
		}
		name := q.LongName
		if name == "" {
			name = q.ShortName
		}
		stocks = append(stocks, &models.StockInfo{
			Symbol:   strings.TrimSuffix(q.Symbol, nseSuffix),
			Name:     name,
			Exchange: q.ExchDisp,
			Sector:   q.Sector,
			Industry: q.Industry,
		})
	}
	return stocks, nil
}
