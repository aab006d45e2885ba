package utils

import (
	"fmt"
)

// Amounts are stored as integer minor units (paise). These helpers convert
// to display form at the edges only; no float enters fee or payout math.

// FormatMinor renders minor units as a major-unit decimal string, e.g.
// 123450 -> "1234.50".
func FormatMinor(amount int64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	return fmt.Sprintf("%s%d.%02d", sign, amount/100, amount%100)
}

// FormatMinorWithCurrency renders minor units with a currency prefix, e.g.
// "INR 1234.50".
func FormatMinorWithCurrency(amount int64, currency string) string {
	return fmt.Sprintf("%s %s", currency, FormatMinor(amount))
}
