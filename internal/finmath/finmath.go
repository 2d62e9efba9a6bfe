// Package finmath implements the deposit maturity formulas and return
// calculations the valuation engine is built on. Everything here is a pure
// function of its inputs; callers supply the clock.
package finmath

import (
	"math"
	"time"
)

// avgMonthDays is the average Gregorian month length in days. Elapsed-month
// calculations use this instead of calendar arithmetic, which drifts up to
// ~1.5 days per month but matches the values persisted by earlier releases.
const avgMonthDays = 30.44

// MonthsElapsed returns the fractional number of average-length months
// between start and now. Negative when now precedes start.
func MonthsElapsed(start, now time.Time) float64 {
	return now.Sub(start).Hours() / 24 / avgMonthDays
}

// MaturityDate returns the deposit maturity date: start plus the term in
// calendar months.
func MaturityDate(start time.Time, durationMonths int) time.Time {
	return start.AddDate(0, durationMonths, 0)
}

// FDMaturityValue returns the simple-interest maturity value of a fixed
// deposit, rounded to the nearest rupee.
func FDMaturityValue(principal, annualRatePct float64, durationMonths int) float64 {
	rate := annualRatePct / 100
	months := float64(durationMonths)
	return math.Round(principal * (1 + rate*months/12))
}

// RDMaturityValue returns the maturity value of a recurring deposit with
// monthly installment P over n months at the given annual rate, rounded to
// 2 decimals. Each installment accrues interest for a different remaining
// duration; the closed form sums the triangular-weighted interest series:
//
//	maturity = P × n × (1 + (n+1)·i/2),  i = rate/1200
func RDMaturityValue(installment float64, months int, annualRatePct float64) float64 {
	if months < 1 {
		return installment
	}
	i := annualRatePct / (12 * 100)
	n := float64(months)
	maturity := installment * n * (1 + (n+1)*i/2)
	return math.Round(maturity*100) / 100
}

// FDCurrentValue returns the value of a running fixed deposit at now:
// simple interest accrued over the elapsed months, clamped to the maturity
// value once the term has completed. Rounded to the nearest rupee.
func FDCurrentValue(principal, annualRatePct float64, durationMonths int, start, now time.Time) float64 {
	if !now.Before(MaturityDate(start, durationMonths)) {
		return FDMaturityValue(principal, annualRatePct, durationMonths)
	}

	monthsElapsed := MonthsElapsed(start, now)
	if monthsElapsed < 0 {
		monthsElapsed = 0
	}
	rate := annualRatePct / 100
	return math.Round(principal * (1 + rate*monthsElapsed/12))
}

// RDCurrentValue returns the value of a running recurring deposit at now,
// applying the RD maturity formula to the installments actually made so far.
// Returns the single installment amount before the first full month, and the
// maturity value once the term has completed. Rounded to the nearest rupee.
func RDCurrentValue(installment, annualRatePct float64, durationMonths int, start, now time.Time) float64 {
	if !now.Before(MaturityDate(start, durationMonths)) {
		return math.Round(RDMaturityValue(installment, durationMonths, annualRatePct))
	}

	monthsElapsed := math.Floor(MonthsElapsed(start, now))
	if monthsElapsed < 1 {
		return installment
	}

	deposits := math.Min(monthsElapsed, float64(durationMonths))
	i := annualRatePct / (12 * 100)
	return math.Round(installment * deposits * (1 + (deposits+1)*i/2))
}

// SimpleReturnPct returns the percentage return of currentValue over
// invested. Returns 0 when either operand is 0, so an empty position never
// produces NaN.
func SimpleReturnPct(currentValue, invested float64) float64 {
	if currentValue == 0 || invested == 0 {
		return 0
	}
	return (currentValue - invested) / invested * 100
}
