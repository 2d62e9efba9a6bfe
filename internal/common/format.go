package common

import (
	"fmt"
	"math"
	"strings"
)

// FormatRupees renders an amount with the rupee sign and Indian digit
// grouping (₹12,34,567.89). Display-only: all core math stays in plain
// float64 rupees.
func FormatRupees(amount float64, decimals int) string {
	neg := amount < 0 || (amount == 0 && math.Signbit(amount))
	abs := math.Abs(amount)

	whole := int64(abs)
	frac := abs - float64(whole)

	grouped := groupIndian(fmt.Sprintf("%d", whole))

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteString("₹")
	b.WriteString(grouped)
	if decimals > 0 {
		fracStr := fmt.Sprintf("%.*f", decimals, frac)
		b.WriteString(fracStr[1:]) // drop the leading "0"
	}
	return b.String()
}

// FormatCompact renders an amount in the Indian short scale: 1.2K, 4.5L
// (lakh, 1e5), 2.3Cr (crore, 1e7).
func FormatCompact(amount float64) string {
	abs := math.Abs(amount)
	sign := ""
	if amount < 0 {
		sign = "-"
	}

	switch {
	case abs >= 1e7:
		return fmt.Sprintf("%s%.1fCr", sign, abs/1e7)
	case abs >= 1e5:
		return fmt.Sprintf("%s%.1fL", sign, abs/1e5)
	case abs >= 1e3:
		return fmt.Sprintf("%s%.1fK", sign, abs/1e3)
	default:
		return fmt.Sprintf("%s%.0f", sign, abs)
	}
}

// groupIndian inserts commas in the Indian pattern: the last three digits,
// then groups of two (1234567 → 12,34,567).
func groupIndian(digits string) string {
	n := len(digits)
	if n <= 3 {
		return digits
	}

	var parts []string
	head := digits[:n-3]
	tail := digits[n-3:]

	for len(head) > 2 {
		parts = append([]string{head[len(head)-2:]}, parts...)
		head = head[:len(head)-2]
	}
	if head != "" {
		parts = append([]string{head}, parts...)
	}
	parts = append(parts, tail)

	return strings.Join(parts, ",")
}
