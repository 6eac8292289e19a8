package helpers

import (
	"strconv"
	"strings"
)

// ParseCurrency extracts a float from a display price like "₱1,234.56".
// Anything that is not a digit, dot or minus sign is stripped first.
// Malformed input parses to 0; this never fails.
func ParseCurrency(s string) float64 {
	if s == "" {
		return 0
	}
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	n, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0
	}
	return n
}

// FormatCurrency renders a peso amount with thousands separators and two
// decimals, e.g. 1234.5 -> "₱1,234.50".
func FormatCurrency(n float64) string {
	neg := n < 0
	if neg {
		n = -n
	}
	s := strconv.FormatFloat(n, 'f', 2, 64)
	parts := strings.SplitN(s, ".", 2)
	whole := parts[0]

	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}

	out := "₱" + b.String() + "." + parts[1]
	if neg {
		out = "-" + out
	}
	return out
}
