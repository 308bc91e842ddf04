package extract

import (
	"fmt"
	"regexp"
	"strings"
)

// Total-amount resolution: scan labeled candidate lines, rank by label tier,
// then reconcile against subtotal + tax components.

var currencyAmountRe = regexp.MustCompile(`(?i)(?:₹|Rs\.?|INR)\s*([0-9]{1,3}(?:[, ]?[0-9]{3})*(?:\.[0-9]{1,2})?)`)

// extractAmounts pulls currency-prefixed amounts from a line. When allowPlain
// is set and no prefixed amount exists, bare amounts are accepted too, except
// on lines that look date-like or slash-separated.
func extractAmounts(line string, allowPlain bool) []float64 {
	var amounts []float64
	for _, m := range currencyAmountRe.FindAllStringSubmatch(line, -1) {
		if v, ok := parseAmount(m[1]); ok {
			amounts = append(amounts, v)
		}
	}
	if allowPlain && len(amounts) == 0 {
		if strings.Contains(line, "-") || strings.Contains(line, "/") {
			return amounts
		}
		for _, m := range numberRe.FindAllString(line, -1) {
			if v, ok := parseAmount(m); ok {
				amounts = append(amounts, v)
			}
		}
	}
	return amounts
}

// lineAmounts extracts amounts from the line at idx, falling back to the next
// line when the matched line carries none.
func lineAmounts(lines []string, idx int, allowPlain bool) []float64 {
	amounts := extractAmounts(lines[idx], allowPlain)
	if len(amounts) == 0 && idx+1 < len(lines) {
		amounts = extractAmounts(lines[idx+1], allowPlain)
	}
	return amounts
}

// resolveTotal picks the best labeled total candidate and formats it. With no
// labeled candidate anywhere, it falls back to the largest amount found on
// any non-date-like line. Returns "0" when nothing is found.
func (e *Extractor) resolveTotal(lines []string) string {
	type candidate struct {
		tier   int
		amount float64
	}
	var candidates []candidate
	for i, line := range lines {
		lower := strings.ToLower(line)
		tier := 0
		for _, tl := range totalLabels {
			if strings.Contains(lower, tl.label) {
				tier = tl.tier
				break
			}
		}
		if tier == 0 {
			continue
		}
		for _, amount := range lineAmounts(lines, i, true) {
			candidates = append(candidates, candidate{tier, amount})
		}
	}

	if len(candidates) > 0 {
		best := candidates[0]
		for _, c := range candidates[1:] {
			if c.tier > best.tier || (c.tier == best.tier && c.amount > best.amount) {
				best = c
			}
		}
		return e.formatAmount(best.amount)
	}

	var fallback []float64
	for _, line := range lines {
		fallback = append(fallback, extractAmounts(line, true)...)
	}
	if len(fallback) > 0 {
		max := fallback[0]
		for _, v := range fallback[1:] {
			if v > max {
				max = v
			}
		}
		return e.formatAmount(max)
	}
	return "0"
}

// findLabelAmount locates the first line containing any of the labels and
// returns the largest amount on it (or on the following line).
func findLabelAmount(lines []string, labels []string) (float64, bool) {
	for i, line := range lines {
		lower := strings.ToLower(line)
		matched := false
		for _, label := range labels {
			if strings.Contains(lower, label) {
				matched = true
				break
			}
		}
		if !matched {
			continue
		}
		amounts := lineAmounts(lines, i, true)
		if len(amounts) == 0 {
			continue
		}
		max := amounts[0]
		for _, v := range amounts[1:] {
			if v > max {
				max = v
			}
		}
		return max, true
	}
	return 0, false
}

// reconcileTotal overrides the resolved total with subtotal + CGST + SGST +
// IGST when a subtotal and at least one non-zero tax component exist, and the
// computed total either fills a missing total or exceeds the resolved one by
// more than the reconciliation margin.
func (e *Extractor) reconcileTotal(lines []string, total string) string {
	subtotal, subOK := findLabelAmount(lines, subtotalLabels)
	cgst, cgstOK := findLabelAmount(lines, []string{"cgst"})
	sgst, sgstOK := findLabelAmount(lines, []string{"sgst"})
	igst, igstOK := findLabelAmount(lines, []string{"igst"})

	if !subOK || subtotal == 0 {
		return total
	}
	anyTax := (cgstOK && cgst != 0) || (sgstOK && sgst != 0) || (igstOK && igst != 0)
	if !anyTax {
		return total
	}

	computed := subtotal + cgst + sgst + igst
	current, curOK := parseAmount(strings.TrimPrefix(total, e.policy.CurrencySymbol))
	if !curOK || computed > current*(1+e.policy.ReconcileMargin) {
		return e.formatAmount(computed)
	}
	return total
}

func (e *Extractor) formatAmount(v float64) string {
	return fmt.Sprintf("%s%.2f", e.policy.CurrencySymbol, v)
}
