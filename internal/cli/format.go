// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	eok = 100_000_000 // 억
	man = 10_000      // 만
)

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}

	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if result.Len() > 0 {
			result.WriteByte(',')
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}

// FormatWon renders an amount in 억/만 units.
// e.g., 780000000 -> "7억 8,000만원", 50000 -> "5만원", 1234 -> "1,234원"
func FormatWon(n int64) string {
	if n < 0 {
		return "-" + FormatWon(-n)
	}
	if n < man {
		return FormatNumber(n) + "원"
	}

	eoks := n / eok
	mans := (n % eok) / man
	var parts []string
	if eoks > 0 {
		parts = append(parts, FormatNumber(eoks)+"억")
	}
	if mans > 0 {
		parts = append(parts, FormatNumber(mans)+"만")
	}
	if len(parts) == 0 {
		return "0원"
	}
	return strings.Join(parts, " ") + "원"
}

// FormatWonFloat rounds down to whole won before formatting.
func FormatWonFloat(f float64) string {
	return FormatWon(int64(math.Floor(f)))
}

// FormatEok renders an amount as decimal 억, e.g. 780000000 -> "7.80억".
func FormatEok(f float64) string {
	return fmt.Sprintf("%.2f억", f/eok)
}

// FormatSignedWon renders a gap with an explicit sign.
func FormatSignedWon(n int64) string {
	if n > 0 {
		return "+" + FormatWon(n)
	}
	return FormatWon(n)
}

// FormatPercent formats a 0-100 value; nil renders as "n/a".
func FormatPercent(p *float64) string {
	if p == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.1f%%", *p)
}

// FormatRate formats an annual rate in percent.
func FormatRate(pct float64) string {
	return strconv.FormatFloat(pct, 'f', -1, 64) + "%"
}

// FormatArea formats an exclusive area; nil renders as "-".
func FormatArea(a *float64) string {
	if a == nil {
		return "-"
	}
	return fmt.Sprintf("%.1f㎡", *a)
}

// FormatNoTrades describes an empty classification, keeping the count of
// rows dropped for unreadable prices visible.
func FormatNoTrades(excluded int) string {
	if excluded == 0 {
		return "No trades for this region and period."
	}
	return fmt.Sprintf("No usable trades. Excluded rows: %d (unreadable price).", excluded)
}
