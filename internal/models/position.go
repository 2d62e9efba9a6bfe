package models

import "time"

// InstrumentPosition is the valued holding for one instrument: pooled
// transactions for stocks, mutual funds and crypto, or one transaction for
// deposits and gold.
type InstrumentPosition struct {
	Class        AssetClass     `json:"class"`
	Key          string         `json:"key"`
	Name         string         `json:"name"`
	Quantity     float64        `json:"quantity,omitempty"`
	Invested     float64        `json:"invested"`
	Transactions []*Transaction `json:"transactions,omitempty"`

	CurrentValue    float64 `json:"current_value"`
	GainAmount      float64 `json:"gain_amount"`
	GainPct         float64 `json:"gain_percent"`
	DayChangeAmount float64 `json:"day_change_amount"`
	DayChangePct    float64 `json:"day_change_percent"`
	HasQuote        bool    `json:"has_quote"`
}

// PortfolioSummary aggregates a set of positions into dashboard totals.
type PortfolioSummary struct {
	TotalInvested   float64 `json:"total_invested"`
	CurrentValue    float64 `json:"current_value"`
	TotalGain       float64 `json:"total_gain"`
	GainPct         float64 `json:"gain_percent"`
	DayChangeAmount float64 `json:"day_change_amount"`
	DayChangePct    float64 `json:"day_change_percent"`
	XIRRPct         float64 `json:"xirr_percent"`
	PositionCount   int     `json:"position_count"`
}

// ClassSummary is the per-class slice of a portfolio snapshot.
type ClassSummary struct {
	Invested     float64 `json:"total"`
	Count        int     `json:"count"`
	CurrentValue float64 `json:"current_value"`
}

// PortfolioSnapshot is the cached whole-portfolio rollup served to the
// dashboard. It is rebuilt wholesale and overwritten, never patched.
type PortfolioSnapshot struct {
	TotalInvested float64                     `json:"total_investment"`
	CurrentValue  float64                     `json:"current_value"`
	TotalGain     float64                     `json:"total_gain"`
	GainPct       float64                     `json:"gain_percentage"`
	Investments   map[AssetClass]ClassSummary `json:"investments"`
	GeneratedAt   time.Time                   `json:"generated_at"`
}

// AllocationPct returns the class share of current portfolio value, in
// percent. Zero when the portfolio has no value.
func (s *PortfolioSnapshot) AllocationPct(class AssetClass) float64 {
	if s.CurrentValue == 0 {
		return 0
	}
	cs, ok := s.Investments[class]
	if !ok {
		return 0
	}
	return cs.CurrentValue / s.CurrentValue * 100
}
