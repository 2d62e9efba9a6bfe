// Package models defines data structures for the portfolio tracker
package models

import (
	"fmt"
	"math"
	"time"
)

// AssetClass identifies one of the six supported investment types.
type AssetClass string

const (
	AssetRecurringDeposit AssetClass = "rd"
	AssetFixedDeposit     AssetClass = "fd"
	AssetStocks           AssetClass = "stocks"
	AssetMutualFunds      AssetClass = "mf"
	AssetCrypto           AssetClass = "crypto"
	AssetGold             AssetClass = "gold"
)

// AllAssetClasses returns the six asset classes in dashboard display order.
func AllAssetClasses() []AssetClass {
	return []AssetClass{
		AssetRecurringDeposit,
		AssetFixedDeposit,
		AssetStocks,
		AssetMutualFunds,
		AssetCrypto,
		AssetGold,
	}
}

// Valid reports whether c is one of the six supported classes.
func (c AssetClass) Valid() bool {
	switch c {
	case AssetRecurringDeposit, AssetFixedDeposit, AssetStocks,
		AssetMutualFunds, AssetCrypto, AssetGold:
		return true
	}
	return false
}

// DisplayName returns the human-readable class name.
func (c AssetClass) DisplayName() string {
	switch c {
	case AssetRecurringDeposit:
		return "Recurring Deposits"
	case AssetFixedDeposit:
		return "Fixed Deposits"
	case AssetStocks:
		return "Stocks"
	case AssetMutualFunds:
		return "Mutual Funds"
	case AssetCrypto:
		return "Cryptocurrency"
	case AssetGold:
		return "Gold Deposits"
	default:
		return string(c)
	}
}

// Poolable reports whether transactions of this class are combined into one
// position per instrument. Deposits and jewelry items carry independent terms
// (rate, duration, purity), so each transaction stays its own position.
func (c AssetClass) Poolable() bool {
	switch c {
	case AssetStocks, AssetMutualFunds, AssetCrypto:
		return true
	}
	return false
}

// StorageKey returns the key the class transaction list is stored under.
func (c AssetClass) StorageKey() string {
	return "transactions_" + string(c)
}

// Transaction is a single buy/deposit event. Exactly one of the class-specific
// detail blocks is set, discriminated by Class.
type Transaction struct {
	ID         string     `json:"id"`
	Class      AssetClass `json:"class"`
	Name       string     `json:"name"`
	InvestedOn time.Time  `json:"invested_on"`
	Notes      string     `json:"notes,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`

	Deposit *DepositDetails `json:"deposit,omitempty"` // rd, fd
	Equity  *EquityDetails  `json:"equity,omitempty"`  // stocks, crypto
	Fund    *FundDetails    `json:"fund,omitempty"`    // mf
	Gold    *GoldDetails    `json:"gold,omitempty"`    // gold
}

// DepositDetails holds the terms of a fixed or recurring deposit.
// For RD, Amount is the monthly installment; for FD it is the principal.
type DepositDetails struct {
	Amount         float64 `json:"amount"`
	DurationMonths int     `json:"duration"`
	AnnualRatePct  float64 `json:"roi"`
	MaturityAmount float64 `json:"maturity_amount"` // materialized at create time
}

// EquityDetails holds a stock or crypto purchase. Symbol is the exchange
// symbol for stocks and the coin id (e.g. "bitcoin") for crypto.
type EquityDetails struct {
	Symbol         string  `json:"symbol"`
	Exchange       string  `json:"exchange,omitempty"`
	Quantity       float64 `json:"quantity"`
	AveragePrice   float64 `json:"average_price"`
	InvestedAmount float64 `json:"investment_amount"`
}

// FundDetails holds a mutual fund purchase.
type FundDetails struct {
	SchemeCode     string  `json:"scheme_code"`
	FundHouse      string  `json:"fund_house,omitempty"`
	Units          float64 `json:"units"`
	PurchaseNAV    float64 `json:"nav"`
	InvestedAmount float64 `json:"investment_amount"`
}

// GoldDetails holds a physical gold purchase (jewelry, coins, bars).
type GoldDetails struct {
	WeightGrams    float64 `json:"weight"`
	PurityPct      float64 `json:"purity"`
	InvestedAmount float64 `json:"investment_amount"`
}

// PureWeight returns the 24K-equivalent gold weight in grams.
func (g *GoldDetails) PureWeight() float64 {
	return g.WeightGrams * g.PurityPct / 100
}

// InstrumentKey returns the identity used to pool transactions into one
// position: symbol for stocks, coin id for crypto, scheme code for mutual
// funds. Non-poolable classes key on the transaction id so every entry is
// its own position.
func (t *Transaction) InstrumentKey() string {
	switch t.Class {
	case AssetStocks, AssetCrypto:
		if t.Equity != nil {
			return t.Equity.Symbol
		}
	case AssetMutualFunds:
		if t.Fund != nil {
			return t.Fund.SchemeCode
		}
	}
	return t.ID
}

// InvestedAmount returns the capital committed by this transaction. An RD
// commitment is installment × duration; everything else is the recorded
// purchase amount.
func (t *Transaction) InvestedAmount() float64 {
	switch t.Class {
	case AssetRecurringDeposit:
		if t.Deposit != nil {
			return t.Deposit.Amount * float64(t.Deposit.DurationMonths)
		}
	case AssetFixedDeposit:
		if t.Deposit != nil {
			return t.Deposit.Amount
		}
	case AssetStocks, AssetCrypto:
		if t.Equity != nil {
			return t.Equity.InvestedAmount
		}
	case AssetMutualFunds:
		if t.Fund != nil {
			return t.Fund.InvestedAmount
		}
	case AssetGold:
		if t.Gold != nil {
			return t.Gold.InvestedAmount
		}
	}
	return 0
}

// Quantity returns the pooled unit count for the transaction: shares or coins
// for equities, units for funds, grams for gold. Deposits have no quantity.
func (t *Transaction) Quantity() float64 {
	switch t.Class {
	case AssetStocks, AssetCrypto:
		if t.Equity != nil {
			return t.Equity.Quantity
		}
	case AssetMutualFunds:
		if t.Fund != nil {
			return t.Fund.Units
		}
	case AssetGold:
		if t.Gold != nil {
			return t.Gold.WeightGrams
		}
	}
	return 0
}

// Validate checks structural and numeric invariants: the class-matching
// detail block is present, all magnitudes are positive finite numbers, and
// the acquisition date is not in the future.
func (t *Transaction) Validate(now time.Time) error {
	if !t.Class.Valid() {
		return fmt.Errorf("unknown asset class %q", t.Class)
	}
	if t.InvestedOn.After(now) {
		return fmt.Errorf("invested_on %s is in the future", t.InvestedOn.Format("2006-01-02"))
	}

	switch t.Class {
	case AssetRecurringDeposit, AssetFixedDeposit:
		d := t.Deposit
		if d == nil {
			return fmt.Errorf("%s transaction missing deposit details", t.Class)
		}
		if !positiveFinite(d.Amount) {
			return fmt.Errorf("deposit amount must be a positive finite number")
		}
		if d.DurationMonths < 1 {
			return fmt.Errorf("deposit duration must be at least 1 month")
		}
		if d.AnnualRatePct < 0 || math.IsNaN(d.AnnualRatePct) || math.IsInf(d.AnnualRatePct, 0) {
			return fmt.Errorf("interest rate must be a non-negative finite number")
		}
	case AssetStocks, AssetCrypto:
		e := t.Equity
		if e == nil {
			return fmt.Errorf("%s transaction missing equity details", t.Class)
		}
		if e.Symbol == "" {
			return fmt.Errorf("symbol is required")
		}
		if !positiveFinite(e.Quantity) || !positiveFinite(e.AveragePrice) {
			return fmt.Errorf("quantity and average price must be positive finite numbers")
		}
	case AssetMutualFunds:
		f := t.Fund
		if f == nil {
			return fmt.Errorf("mf transaction missing fund details")
		}
		if f.SchemeCode == "" {
			return fmt.Errorf("scheme code is required")
		}
		if !positiveFinite(f.Units) || !positiveFinite(f.PurchaseNAV) {
			return fmt.Errorf("units and NAV must be positive finite numbers")
		}
	case AssetGold:
		g := t.Gold
		if g == nil {
			return fmt.Errorf("gold transaction missing gold details")
		}
		if !positiveFinite(g.WeightGrams) {
			return fmt.Errorf("weight must be a positive finite number")
		}
		if g.PurityPct <= 0 || g.PurityPct > 100 {
			return fmt.Errorf("purity must be between 0 and 100")
		}
	}

	return nil
}

func positiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
