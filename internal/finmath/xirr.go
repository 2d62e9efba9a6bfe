package finmath

import (
	"math"
	"time"
)

// Cashflow is one dated signed cash movement for the XIRR solver.
// Outflows (purchases) are negative, inflows and the terminal market value
// are positive.
type Cashflow struct {
	Date   time.Time
	Amount float64
}

// XIRR solves for the annualized money-weighted rate of return across
// irregularly-timed cash flows: the rate r satisfying
//
//	Σ amount_i / (1+r)^(days_i/365) = 0
//
// where days_i counts from the first flow's date. Uses Newton-Raphson with a
// forward-difference derivative (step = tolerance), initial guess 10%, and
// at most 100 iterations; iterates are clamped at -99.9% and if one goes
// non-finite the last stable estimate is kept. The result is a percentage
// rounded to 2 decimals. Returns 0 for fewer than 2 flows.
func XIRR(flows []Cashflow) float64 {
	if len(flows) < 2 {
		return 0
	}

	const (
		guess   = 0.1
		maxIter = 100
		tol     = 1e-7
		minRate = -0.999 // rate can't go below -99.9%
	)

	first := flows[0].Date
	npv := func(rate float64) float64 {
		sum := 0.0
		for _, cf := range flows {
			days := math.Round(math.Abs(cf.Date.Sub(first).Hours() / 24))
			sum += cf.Amount / math.Pow(1+rate, days/365)
		}
		return sum
	}

	rate := guess
	v := npv(rate)

	for iter := 0; math.Abs(v) > tol && iter < maxIter; iter++ {
		deriv := (npv(rate+tol) - v) / tol
		if deriv == 0 {
			break
		}
		next := rate - v/deriv
		if math.IsNaN(next) || math.IsInf(next, 0) {
			break
		}
		if next < minRate {
			next = minRate
		}
		rate = next
		v = npv(rate)
	}

	return math.Round(rate*10000) / 100
}
