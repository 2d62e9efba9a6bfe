package models

import "time"

// SIPFrequency is how often a systematic investment plan installment recurs.
type SIPFrequency string

const (
	SIPMonthly      SIPFrequency = "Monthly"
	SIPQuarterly    SIPFrequency = "Quarterly"
	SIPSemiAnnually SIPFrequency = "Semi-Annually"
	SIPAnnually     SIPFrequency = "Annually"
)

// MonthsPerInstallment returns the gap between installments in months,
// or 0 for an unknown frequency.
func (f SIPFrequency) MonthsPerInstallment() int {
	switch f {
	case SIPMonthly:
		return 1
	case SIPQuarterly:
		return 3
	case SIPSemiAnnually:
		return 6
	case SIPAnnually:
		return 12
	}
	return 0
}

// SIPEndDate returns the date of the final installment for a plan starting
// at start and running for count installments.
func SIPEndDate(start time.Time, f SIPFrequency, count int) time.Time {
	step := f.MonthsPerInstallment()
	if step == 0 || count < 1 {
		return start
	}
	return start.AddDate(0, step*(count-1), 0)
}

// IsValidSIPDay reports whether day is an allowed installment day of month.
// Days 29-31 are excluded so every month has the installment date.
func IsValidSIPDay(day int) bool {
	return day >= 1 && day <= 28
}
