package extract

import (
	"fmt"
	"regexp"
	"strings"
)

// Header-field extraction from the flat recognized text.

// invoiceNumberPatterns are tried in priority order; the first capture wins.
var invoiceNumberPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)Invoice\s+No\.?\s*:?\s*(\d+)`),
	regexp.MustCompile(`(?i)Invoice\s+#\s*(\d+)`),
	regexp.MustCompile(`(?i)INV[-\s]?(\d+)`),
	regexp.MustCompile(`(?i)Invoice\s+Number\s*:?\s*([A-Z0-9-]+)`),
}

// datePatterns match day-month-year dates, labeled or bare.
var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)Date\s*:?\s*(\d{1,2}[-/]\d{1,2}[-/]\d{4})`),
	regexp.MustCompile(`(\d{1,2}[-/]\d{1,2}[-/]\d{4})`),
}

var codeLineRe = regexp.MustCompile(`^[A-Z0-9-]+\s*$`)

func pad2(s string) string {
	if len(s) == 1 {
		return "0" + s
	}
	return s
}

// extractInvoiceNumber returns the number normalized as "INV-<N>", or "".
func extractInvoiceNumber(text string) string {
	for _, re := range invoiceNumberPatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			return "INV-" + m[1]
		}
	}
	return ""
}

// extractDate finds the first D-M-Y date and reformats it to ISO YYYY-MM-DD.
// Dates without a 4-digit year are rejected.
func extractDate(text string) string {
	for _, re := range datePatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		raw := m[1]
		sep := "-"
		if !strings.Contains(raw, "-") {
			sep = "/"
		}
		parts := strings.Split(raw, sep)
		if len(parts) == 3 && len(parts[2]) == 4 {
			day, month, year := parts[0], parts[1], parts[2]
			return fmt.Sprintf("%s-%s-%s", year, pad2(month), pad2(day))
		}
		break
	}
	return ""
}

// extractVendor picks the vendor name from the first 10 lines: the first
// line longer than 3 characters that carries none of the skip words and is
// not a bare alphanumeric/dash code.
func extractVendor(lines []string) string {
	limit := len(lines)
	if limit > 10 {
		limit = 10
	}
	for _, line := range lines[:limit] {
		if len(line) <= 3 {
			continue
		}
		lower := strings.ToLower(line)
		skip := false
		for _, word := range vendorSkipWords {
			if strings.Contains(lower, word) {
				skip = true
				break
			}
		}
		if skip || codeLineRe.MatchString(line) {
			continue
		}
		return line
	}
	return ""
}
