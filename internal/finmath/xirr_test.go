package finmath

import (
	"testing"
	"time"
)

func TestXIRR_OneYearRoundTrip(t *testing.T) {
	// -10,000 today, +11,000 in exactly 365 days: ~10% annualized
	d0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	flows := []Cashflow{
		{Date: d0, Amount: -10000},
		{Date: d0.AddDate(0, 0, 365), Amount: 11000},
	}

	got := XIRR(flows)
	if !approxEqual(got, 10.0, 0.1) {
		t.Errorf("XIRR = %.2f%%, want ~10%%", got)
	}
}

func TestXIRR_MultipleInstallments(t *testing.T) {
	// Three monthly purchases of 1000, worth 3300 after a year from the first.
	d0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	flows := []Cashflow{
		{Date: d0, Amount: -1000},
		{Date: d0.AddDate(0, 1, 0), Amount: -1000},
		{Date: d0.AddDate(0, 2, 0), Amount: -1000},
		{Date: d0.AddDate(1, 0, 0), Amount: 3300},
	}

	got := XIRR(flows)
	// Money is deployed for less than a full year on average, so the
	// annualized rate sits above the simple 10% gain.
	if got < 10 || got > 13 {
		t.Errorf("XIRR = %.2f%%, want between 10%% and 13%%", got)
	}
}

func TestXIRR_Loss(t *testing.T) {
	d0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	flows := []Cashflow{
		{Date: d0, Amount: -10000},
		{Date: d0.AddDate(0, 0, 365), Amount: 9000},
	}

	got := XIRR(flows)
	if !approxEqual(got, -10.0, 0.1) {
		t.Errorf("XIRR = %.2f%%, want ~-10%%", got)
	}
}

func TestXIRR_ConvergesFarFromGuess(t *testing.T) {
	// Doubling in a year: the root (100%) is nowhere near the 10% starting
	// guess, so the solver has to iterate all the way there.
	d0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	flows := []Cashflow{
		{Date: d0, Amount: -10000},
		{Date: d0.AddDate(0, 0, 365), Amount: 20000},
	}

	got := XIRR(flows)
	if !approxEqual(got, 100.0, 0.1) {
		t.Errorf("XIRR = %.2f%%, want ~100%%", got)
	}
}

func TestXIRR_SteepLoss(t *testing.T) {
	// Losing 80% in half a year annualizes to roughly -96%; the clamp keeps
	// intermediate iterates from driving the base of the power negative.
	d0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	flows := []Cashflow{
		{Date: d0, Amount: -10000},
		{Date: d0.AddDate(0, 0, 182), Amount: 2000},
	}

	got := XIRR(flows)
	if got > -90 || got < -99.9 {
		t.Errorf("XIRR = %.2f%%, want a deep annualized loss near -96%%", got)
	}
}

func TestXIRR_TooFewFlows(t *testing.T) {
	if got := XIRR(nil); got != 0 {
		t.Errorf("XIRR(nil) = %v, want 0", got)
	}
	flows := []Cashflow{{Date: time.Now(), Amount: -10000}}
	if got := XIRR(flows); got != 0 {
		t.Errorf("XIRR with one flow = %v, want 0", got)
	}
}

func TestXIRR_NeverPanicsOnDegenerate(t *testing.T) {
	// All-positive flows have no root; the solver must bail out with the
	// last stable estimate rather than blowing up.
	d0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	flows := []Cashflow{
		{Date: d0, Amount: 1000},
		{Date: d0.AddDate(0, 6, 0), Amount: 1000},
	}

	got := XIRR(flows)
	if got != got { // NaN check
		t.Errorf("XIRR on degenerate flows returned NaN")
	}
}
