package extract

import (
	"regexp"
	"strconv"
	"strings"
)

// Numeric parsing is fallible by design: every helper returns (value, ok)
// and never panics or errors on malformed input.

var (
	// A formatted amount: up to three leading digits, optional comma- or
	// space-separated thousands groups, optional 2-decimal fraction.
	numberRe      = regexp.MustCompile(`[0-9]{1,3}(?:[, ]?[0-9]{3})*(?:\.[0-9]{1,2})?`)
	numberTokenRe = regexp.MustCompile(`^[0-9]{1,3}(?:[, ]?[0-9]{3})*(?:\.[0-9]{1,2})?$`)
	quantityRe    = regexp.MustCompile(`[0-9]+(?:\.[0-9]+)?`)
)

// parseAmount parses a formatted amount string, tolerating thousands
// separators (commas or spaces).
func parseAmount(s string) (float64, bool) {
	cleaned := strings.NewReplacer(",", "", " ", "").Replace(s)
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// isNumberToken reports whether the whole token is a formatted amount.
func isNumberToken(s string) bool {
	return numberTokenRe.MatchString(s)
}

// lastNumber extracts the last formatted amount appearing in s.
func lastNumber(s string) (float64, bool) {
	matches := numberRe.FindAllString(s, -1)
	if len(matches) == 0 {
		return 0, false
	}
	return parseAmount(matches[len(matches)-1])
}

// firstQuantity extracts the first plain numeric substring in s.
func firstQuantity(s string) (float64, bool) {
	m := quantityRe.FindString(s)
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// allDigits reports whether s is non-empty and consists only of ASCII digits.
func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
