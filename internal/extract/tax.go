package extract

import (
	"regexp"
	"strings"
)

// GST rate detection from labeled percentages, plus GSTIN capture.

var (
	gstinRe       = regexp.MustCompile(`(?i)GSTIN\s*:?\s*([A-Z0-9]+)`)
	cgstRateRe    = regexp.MustCompile(`(?i)cgst\s*@?\s*([0-9]+(?:\.[0-9]+)?)\s*%`)
	sgstRateRe    = regexp.MustCompile(`(?i)sgst\s*@?\s*([0-9]+(?:\.[0-9]+)?)\s*%`)
	igstRateRe    = regexp.MustCompile(`(?i)igst\s*@?\s*([0-9]+(?:\.[0-9]+)?)\s*%`)
	genericGSTRe  = regexp.MustCompile(`(?i)gst\s*@?\s*([0-9]+(?:\.[0-9]+)?)\s*%`)
)

// extractGSTIN returns the tax registration identifier verbatim, or "".
func extractGSTIN(text string) string {
	if m := gstinRe.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return ""
}

func matchPercent(re *regexp.Regexp, text string) (float64, bool) {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	return parseAmount(m[1])
}

// detectGSTRate combines labeled tax percentages into the effective rate:
// IGST wins outright; otherwise CGST+SGST when both are present; otherwise a
// generic "GST @ N%" match. When no GST-related token appears at all, the
// rate is a definite zero. hasGST falls back to token presence when the rate
// could not be determined.
func detectGSTRate(text string) (rate *float64, hasGST bool) {
	lower := strings.ToLower(text)
	hasTokens := false
	for _, tok := range gstTokens {
		if strings.Contains(lower, tok) {
			hasTokens = true
			break
		}
	}

	cgst, cgstOK := matchPercent(cgstRateRe, text)
	sgst, sgstOK := matchPercent(sgstRateRe, text)
	igst, igstOK := matchPercent(igstRateRe, text)

	switch {
	case igstOK:
		rate = &igst
	case cgstOK && sgstOK:
		combined := cgst + sgst
		rate = &combined
	default:
		if v, ok := matchPercent(genericGSTRe, text); ok {
			rate = &v
		}
	}

	if rate == nil && !hasTokens {
		zero := 0.0
		rate = &zero
	}

	if rate != nil {
		return rate, *rate > 0
	}
	return nil, hasTokens
}
