// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"math"
	"sync"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	printerMu sync.RWMutex
	printer   = message.NewPrinter(language.AmericanEnglish)
)

// SetLocale switches the number grouping used by the Format helpers.
func SetLocale(locale string) error {
	tag, err := language.Parse(locale)
	if err != nil {
		return fmt.Errorf("parse locale %q: %w", locale, err)
	}
	printerMu.Lock()
	printer = message.NewPrinter(tag)
	printerMu.Unlock()
	return nil
}

func sprintf(format string, args ...any) string {
	printerMu.RLock()
	defer printerMu.RUnlock()
	return printer.Sprintf(format, args...)
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// FormatMoney formats a dollar amount with grouping and two decimals.
// e.g., -1234.5 -> "-$1,234.50". NaN and infinities render as "$0.00".
func FormatMoney(v float64) string {
	v = finite(v)
	if v < 0 && math.Abs(v) >= 0.005 {
		return "-$" + sprintf("%.2f", -v)
	}
	return "$" + sprintf("%.2f", math.Abs(v))
}

// FormatSignedMoney is FormatMoney with an explicit "+" on gains.
func FormatSignedMoney(v float64) string {
	v = finite(v)
	if v >= 0.005 {
		return "+" + FormatMoney(v)
	}
	return FormatMoney(v)
}

// FormatCompactMoney formats an amount with K/M suffixes for axis labels.
// e.g., 1234 -> "$1.2K", -2500000 -> "-$2.5M"
func FormatCompactMoney(v float64) string {
	v = finite(v)
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}

	switch {
	case v >= 1_000_000:
		return fmt.Sprintf("%s$%.1fM", sign, v/1_000_000)
	case v >= 1_000:
		return fmt.Sprintf("%s$%.1fK", sign, v/1_000)
	default:
		return fmt.Sprintf("%s$%.0f", sign, v)
	}
}

// FormatNumber adds locale separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	return sprintf("%d", n)
}

// FormatDays formats a day count with the right noun.
func FormatDays(n int) string {
	if n == 1 {
		return "1 day"
	}
	return FormatNumber(int64(n)) + " days"
}

// FormatPercent formats a 0-1 float as a percentage string.
func FormatPercent(f float64) string {
	return fmt.Sprintf("%.1f%%", finite(f)*100)
}

// FormatDayOfWeek returns a 3-letter day abbreviation from a weekday number.
func FormatDayOfWeek(weekday int) string {
	days := []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}
	if weekday >= 0 && weekday < 7 {
		return days[weekday]
	}
	return "???"
}
