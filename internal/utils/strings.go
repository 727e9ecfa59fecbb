// Package utils provides common utility functions.
package utils

import (
	"github.com/dustin/go-humanize"
)

// MaskKey masks an API key for safe logging (shows first 4 and last 4 chars).
// Use this to avoid logging sensitive credentials in plain text.
func MaskKey(key string) string {
	if key == "" {
		return "(empty)"
	}
	if len(key) < 12 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

// FormatUSD renders a dollar amount with thousands separators and two
// decimals, e.g. 1234.5 -> "$1,234.50".
func FormatUSD(amount float64) string {
	return "$" + humanize.FormatFloat("#,###.##", amount)
}

// Plural returns singular when n == 1, plural otherwise.
func Plural(n int, singular, plural string) string {
	if n == 1 {
		return singular
	}
	return plural
}
