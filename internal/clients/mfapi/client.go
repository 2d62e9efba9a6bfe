// Package mfapi provides a client for the mfapi.in mutual fund NAV API
package mfapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/Rahul-1991/portfolio-app/internal/common"
	"github.com/Rahul-1991/portfolio-app/internal/models"
)

const (
	DefaultBaseURL   = "https://api.mfapi.in"
	DefaultTimeout   = 30 * time.Second
	DefaultRateLimit = 5 // requests per second
)

// flexFloat64 handles JSON values that may be either a number or a string.
// mfapi publishes NAVs as strings.
type flexFloat64 float64

func (f *flexFloat64) UnmarshalJSON(data []byte) error {
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		*f = flexFloat64(num)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s == "" || s == "N/A" {
			*f = 0
			return nil
		}
		num, err := strconv.ParseFloat(s, 64)
		if err != nil {
			*f = 0
			return nil
		}
		*f = flexFloat64(num)
		return nil
	}
	return fmt.Errorf("cannot unmarshal %s into float64", string(data))
}

// Client implements the FundClient interface
type Client struct {
	baseURL    string
	amfiURL    string
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

// WithAMFIURL sets the AMFI NAV dump URL
func WithAMFIURL(amfiURL string) ClientOption {
	return func(c *Client) {
		c.amfiURL = amfiURL
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

// NewClient creates a new mfapi client
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		amfiURL: AMFIURL,
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

// GetNAV retrieves the latest NAV for a scheme. The day change is derived
// from the previous published NAV; when only one data point exists the
// change is zero.
func (c *Client) GetNAV(ctx context.Context, schemeCode string) (*models.NAVQuote, error) {
	var raw struct {
		Meta struct {
			FundHouse  string      `json:"fund_house"`
			SchemeName string      `json:"scheme_name"`
			SchemeCode json.Number `json:"scheme_code"`
		} `json:"meta"`
		Data []struct {
			Date string      `json:"date"`
			NAV  flexFloat64 `json:"nav"`
		} `json:"data"`
	}
	if err := c.get(ctx, "/mf/"+url.PathEscape(schemeCode), &raw); err != nil {
		return nil, fmt.Errorf("failed to fetch NAV for scheme %s: %w", schemeCode, err)
	}

	if len(raw.Data) == 0 {
		return nil, fmt.Errorf("no NAV data available for scheme %s", schemeCode)
	}

	latest := raw.Data[0]
	previous := float64(latest.NAV)
	if len(raw.Data) > 1 {
		previous = float64(raw.Data[1].NAV)
	}

	change := float64(latest.NAV) - previous
	changePct := 0.0
	if previous != 0 {
		changePct = change / previous * 100
	}

	return &models.NAVQuote{
		SchemeCode: schemeCode,
		SchemeName: raw.Meta.SchemeName,
		FundHouse:  raw.Meta.FundHouse,
		NAV:        float64(latest.NAV),
		Date:       latest.Date,
		ChangeAbs:  math.Round(change*10000) / 10000,
		ChangePct:  math.Round(changePct*100) / 100,
	}, nil
}

// Search finds schemes matching the query. When the search endpoint is down
// it falls back to a substring scan of the AMFI NAV dump, which carries fewer
// fields but keeps the add screen usable.
func (c *Client) Search(ctx context.Context, query string) ([]*models.FundInfo, error) {
	var raw []struct {
		SchemeCode     json.Number `json:"schemeCode"`
		SchemeName     string      `json:"schemeName"`
		FundHouse      string      `json:"fundHouse"`
		SchemeType     string      `json:"schemeType"`
		SchemeCategory string      `json:"schemeCategory"`
	}
	if err := c.get(ctx, "/mf/search?q="+url.QueryEscape(query), &raw); err != nil {
		c.logger.Warn().Err(err).Str("query", query).Msg("Fund search endpoint failed, falling back to AMFI dump")
		return c.searchAMFI(ctx, query)
	}

	funds := make([]*models.FundInfo, 0, len(raw))
	for _, f := range raw {
		funds = append(funds, &models.FundInfo{
			SchemeCode:     f.SchemeCode.String(),
			SchemeName:     f.SchemeName,
			FundHouse:      f.FundHouse,
			SchemeType:     f.SchemeType,
			SchemeCategory: f.SchemeCategory,
		})
	}
	return funds, nil
}

// searchAMFI filters the bulk AMFI dump by case-insensitive scheme name match.
func (c *Client) searchAMFI(ctx context.Context, query string) ([]*models.FundInfo, error) {
	records, err := c.FetchAMFI(ctx)
	if err != nil {
		return nil, fmt.Errorf("fund search failed: %w", err)
	}

	needle := strings.ToLower(query)
	var funds []*models.FundInfo
	for _, rec := range records {
		if !strings.Contains(strings.ToLower(rec.SchemeName), needle) {
			continue
		}
		funds = append(funds, &models.FundInfo{
			SchemeCode: rec.SchemeCode,
			SchemeName: rec.SchemeName,
		})
	}
	return funds, nil
}
