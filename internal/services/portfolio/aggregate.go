package portfolio

import (
	"sort"
	"time"

	"github.com/Rahul-1991/portfolio-app/internal/finmath"
	"github.com/Rahul-1991/portfolio-app/internal/interfaces"
	"github.com/Rahul-1991/portfolio-app/internal/models"
)

// Aggregate groups a class transaction list into positions. Stocks, mutual
// funds and crypto pool multiple buys of the same instrument into one
// position; deposits and gold stay one position per transaction since each
// carries independent terms. Positions come out in first-purchase order, and
// the first transaction seen for an instrument supplies the display name.
func Aggregate(class models.AssetClass, txns []*models.Transaction) []*models.InstrumentPosition {
	var positions []*models.InstrumentPosition
	index := make(map[string]*models.InstrumentPosition)

	for _, txn := range txns {
		key := txn.InstrumentKey()

		pos, ok := index[key]
		if !ok || !class.Poolable() {
			pos = &models.InstrumentPosition{
				Class: class,
				Key:   key,
				Name:  txn.Name,
			}
			index[key] = pos
			positions = append(positions, pos)
		}

		pos.Quantity += txn.Quantity()
		pos.Invested += txn.InvestedAmount()
		pos.Transactions = append(pos.Transactions, txn)
	}

	return positions
}

// SortPositions orders positions by the requested sort: name is ascending
// lexicographic, gain and value are descending. Unknown orders leave the
// first-purchase order untouched. The sort is stable so equal keys keep
// their relative order.
func SortPositions(positions []*models.InstrumentPosition, order interfaces.SortOrder) {
	switch order {
	case interfaces.SortByName:
		sort.SliceStable(positions, func(i, j int) bool {
			return positions[i].Name < positions[j].Name
		})
	case interfaces.SortByGain:
		sort.SliceStable(positions, func(i, j int) bool {
			return positions[i].GainAmount > positions[j].GainAmount
		})
	case interfaces.SortByValue:
		sort.SliceStable(positions, func(i, j int) bool {
			return positions[i].CurrentValue > positions[j].CurrentValue
		})
	}
}

// Summarize rolls valued positions up into dashboard totals. The day-change
// percentage is computed against the start-of-day value so it stays
// consistent with the summed day-change amount.
func Summarize(positions []*models.InstrumentPosition) *models.PortfolioSummary {
	summary := &models.PortfolioSummary{PositionCount: len(positions)}

	for _, pos := range positions {
		summary.TotalInvested += pos.Invested
		summary.CurrentValue += pos.CurrentValue
		summary.DayChangeAmount += pos.DayChangeAmount
	}

	summary.TotalGain = summary.CurrentValue - summary.TotalInvested
	summary.GainPct = finmath.SimpleReturnPct(summary.CurrentValue, summary.TotalInvested)

	if previous := summary.CurrentValue - summary.DayChangeAmount; previous > 0 {
		summary.DayChangePct = summary.DayChangeAmount / previous * 100
	}

	return summary
}

// ClassXIRR computes the annualized money-weighted return over the valued
// positions: every purchase is an outflow at its date, the combined current
// value the terminal inflow at now. Zero when there is nothing to solve.
func ClassXIRR(positions []*models.InstrumentPosition, now time.Time) float64 {
	var flows []finmath.Cashflow
	var current float64

	for _, pos := range positions {
		current += pos.CurrentValue
		for _, txn := range pos.Transactions {
			flows = append(flows, finmath.Cashflow{Date: txn.InvestedOn, Amount: -txn.InvestedAmount()})
		}
	}
	if len(flows) == 0 || current <= 0 {
		return 0
	}

	sort.Slice(flows, func(i, j int) bool { return flows[i].Date.Before(flows[j].Date) })
	flows = append(flows, finmath.Cashflow{Date: now, Amount: current})

	return finmath.XIRR(flows)
}
