package models

// CoinInfo is a cryptocurrency search or listing result.
type CoinInfo struct {
	ID            string  `json:"id"`
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name"`
	MarketCapRank int     `json:"market_cap_rank,omitempty"`
	CurrentPrice  float64 `json:"current_price,omitempty"`
	Change24hPct  float64 `json:"change_24h_percent,omitempty"`
}

// FundInfo is a mutual fund scheme search result.
type FundInfo struct {
	SchemeCode     string `json:"scheme_code"`
	SchemeName     string `json:"scheme_name"`
	FundHouse      string `json:"fund_house,omitempty"`
	SchemeType     string `json:"scheme_type,omitempty"`
	SchemeCategory string `json:"scheme_category,omitempty"`
}

// StockInfo is an equity symbol search result.
type StockInfo struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Exchange string `json:"exchange,omitempty"`
	Sector   string `json:"sector,omitempty"`
	Industry string `json:"industry,omitempty"`
}
