package utils

import (
	"github.com/shopspring/decimal"
)

// FormatWithPrecision formats an amount with the given precision.
// Example: 172.5 with precision 2 returns "172.5", 57.3333333 returns "57.33".
// Stored amounts keep full precision; this is for display only.
func FormatWithPrecision(amount decimal.Decimal, precision int) string {
	return amount.Round(int32(precision)).String()
}

// FormatFixed is FormatWithPrecision with trailing zeros kept, e.g. "172.50".
func FormatFixed(amount decimal.Decimal, precision int) string {
	return amount.StringFixed(int32(precision))
}
