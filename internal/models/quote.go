package models

import "time"

// Quote is the live market price for a stock or cryptocurrency.
type Quote struct {
	Price     float64   `json:"price"`
	ChangeAbs float64   `json:"change"`
	ChangePct float64   `json:"change_percent"`
	DayHigh   float64   `json:"day_high,omitempty"`
	DayLow    float64   `json:"day_low,omitempty"`
	Volume    float64   `json:"volume,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NAVQuote is the latest published NAV for a mutual fund scheme.
type NAVQuote struct {
	SchemeCode string  `json:"scheme_code"`
	SchemeName string  `json:"scheme_name"`
	FundHouse  string  `json:"fund_house"`
	NAV        float64 `json:"nav"`
	Date       string  `json:"date"`
	ChangeAbs  float64 `json:"change"`
	ChangePct  float64 `json:"change_percent"`
}

// GoldQuote is the retail gold rate, quoted per 10 grams of 24K.
type GoldQuote struct {
	PricePer10g    float64 `json:"price_per_10g"`
	PreviousPer10g float64 `json:"previous_per_10g"`
	Change         float64 `json:"change"`
	City           string  `json:"city"`
	Purity         string  `json:"purity"`
	Date           string  `json:"date"`
}

// PerGram returns the per-gram 24K rate.
func (g *GoldQuote) PerGram() float64 {
	return g.PricePer10g / 10
}

// QuoteSet carries one round of market data for a valuation pass. Maps are
// keyed by instrument key; a missing entry means the quote fetch failed and
// the position is valued at cost.
type QuoteSet struct {
	Stocks map[string]*Quote    // by symbol
	Crypto map[string]*Quote    // by coin id
	Funds  map[string]*NAVQuote // by scheme code
	Gold   *GoldQuote
}

// NewQuoteSet returns an empty QuoteSet with all maps initialized.
func NewQuoteSet() *QuoteSet {
	return &QuoteSet{
		Stocks: make(map[string]*Quote),
		Crypto: make(map[string]*Quote),
		Funds:  make(map[string]*NAVQuote),
	}
}
