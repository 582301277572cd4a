// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// FormatScore formats a score with four decimals, e.g. "0.4500".
func FormatScore(s float64) string {
	return strconv.FormatFloat(s, 'f', 4, 64)
}

// FormatUtilization formats a 0-100 utilization, e.g. "42%" or "12.5%".
func FormatUtilization(pct float64) string {
	return strconv.FormatFloat(pct, 'f', -1, 64) + "%"
}

// FormatWeight formats a weight or tier bonus for display.
// e.g., 0.4 -> "0.40", -0.3 -> "-0.30"
func FormatWeight(w float64) string {
	return fmt.Sprintf("%.2f", w)
}

// PadRight pads s with spaces to width terminal cells. Longer strings are
// returned unchanged.
func PadRight(s string, width int) string {
	if gap := width - ansi.StringWidth(s); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}

// PadLeft is PadRight aligned to the right.
func PadLeft(s string, width int) string {
	if gap := width - ansi.StringWidth(s); gap > 0 {
		return strings.Repeat(" ", gap) + s
	}
	return s
}

// StatusGlyph returns the availability marker used in listings.
func StatusGlyph(available bool) string {
	if available {
		return "✅"
	}
	return "🚫"
}
