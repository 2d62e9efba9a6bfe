// Package valuation prices instrument positions from market quotes and
// deposit interest schedules. Like finmath, everything is a pure function of
// its inputs; the caller supplies the clock and the quotes.
package valuation

import (
	"math"
	"time"

	"github.com/Rahul-1991/portfolio-app/internal/finmath"
	"github.com/Rahul-1991/portfolio-app/internal/models"
)

// Value fills the CurrentValue, gain and day-change fields of pos in place.
// Deposits are valued from their interest schedule and need no quote. Market
// classes look up their quote in quotes; when the quote is missing the
// position falls back to its invested amount with zero gain and day change,
// and HasQuote is left false so callers can flag stale data.
func Value(pos *models.InstrumentPosition, quotes *models.QuoteSet, now time.Time) {
	switch pos.Class {
	case models.AssetRecurringDeposit:
		valueDeposit(pos, now, finmath.RDCurrentValue)
	case models.AssetFixedDeposit:
		valueDeposit(pos, now, finmath.FDCurrentValue)
	case models.AssetStocks:
		valueEquity(pos, quotes.Stocks[pos.Key])
	case models.AssetCrypto:
		valueCrypto(pos, quotes.Crypto[pos.Key])
	case models.AssetMutualFunds:
		valueFund(pos, quotes.Funds[pos.Key])
	case models.AssetGold:
		valueGold(pos, quotes.Gold)
	default:
		fallback(pos)
	}
}

// depositValueFn is the shape shared by finmath.RDCurrentValue and
// finmath.FDCurrentValue.
type depositValueFn func(amount, annualRatePct float64, durationMonths int, start, now time.Time) float64

func valueDeposit(pos *models.InstrumentPosition, now time.Time, valueAt depositValueFn) {
	if len(pos.Transactions) == 0 || pos.Transactions[0].Deposit == nil {
		fallback(pos)
		return
	}
	txn := pos.Transactions[0]
	d := txn.Deposit

	pos.CurrentValue = valueAt(d.Amount, d.AnnualRatePct, d.DurationMonths, txn.InvestedOn, now)
	pos.GainAmount = pos.CurrentValue - pos.Invested
	pos.GainPct = finmath.SimpleReturnPct(pos.CurrentValue, pos.Invested)
	pos.HasQuote = true
}

func valueEquity(pos *models.InstrumentPosition, q *models.Quote) {
	if q == nil || q.Price <= 0 {
		fallback(pos)
		return
	}
	pos.CurrentValue = pos.Quantity * q.Price
	pos.GainAmount = pos.CurrentValue - pos.Invested
	pos.GainPct = finmath.SimpleReturnPct(pos.CurrentValue, pos.Invested)
	pos.DayChangeAmount = pos.Quantity * q.ChangeAbs
	pos.DayChangePct = q.ChangePct
	pos.HasQuote = true
}

// valueCrypto differs from stocks in how day change is derived: the provider
// reports only a 24h percentage, so the absolute change comes from applying
// it to the current value.
func valueCrypto(pos *models.InstrumentPosition, q *models.Quote) {
	if q == nil || q.Price <= 0 {
		fallback(pos)
		return
	}
	pos.CurrentValue = pos.Quantity * q.Price
	pos.GainAmount = pos.CurrentValue - pos.Invested
	pos.GainPct = finmath.SimpleReturnPct(pos.CurrentValue, pos.Invested)
	pos.DayChangePct = q.ChangePct
	pos.DayChangeAmount = pos.CurrentValue * q.ChangePct / 100
	pos.HasQuote = true
}

func valueFund(pos *models.InstrumentPosition, q *models.NAVQuote) {
	if q == nil || q.NAV <= 0 {
		fallback(pos)
		return
	}
	pos.CurrentValue = pos.Quantity * q.NAV
	pos.GainAmount = pos.CurrentValue - pos.Invested
	pos.GainPct = finmath.SimpleReturnPct(pos.CurrentValue, pos.Invested)
	pos.DayChangeAmount = pos.Quantity * q.ChangeAbs
	pos.DayChangePct = q.ChangePct
	pos.HasQuote = true
}

// valueGold prices the 24K-equivalent weight at the per-gram retail rate.
func valueGold(pos *models.InstrumentPosition, q *models.GoldQuote) {
	if q == nil || q.PricePer10g <= 0 {
		fallback(pos)
		return
	}
	if len(pos.Transactions) == 0 || pos.Transactions[0].Gold == nil {
		fallback(pos)
		return
	}
	pure := pos.Transactions[0].Gold.PureWeight()

	pos.CurrentValue = pure * q.PerGram()
	pos.GainAmount = pos.CurrentValue - pos.Invested
	pos.GainPct = finmath.SimpleReturnPct(pos.CurrentValue, pos.Invested)
	pos.DayChangeAmount = pure * q.Change / 10
	previous := pos.CurrentValue - pos.DayChangeAmount
	if previous > 0 {
		pos.DayChangePct = round2(pos.DayChangeAmount / previous * 100)
	}
	pos.HasQuote = true
}

// fallback values the position at cost: no quote means no gain and no day
// movement rather than a broken dashboard.
func fallback(pos *models.InstrumentPosition) {
	pos.CurrentValue = pos.Invested
	pos.GainAmount = 0
	pos.GainPct = 0
	pos.DayChangeAmount = 0
	pos.DayChangePct = 0
	pos.HasQuote = false
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
