package extract

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"invoscan/internal/domain"
)

// Policy holds the heuristic thresholds of the text parser. The defaults
// match an Indian GST invoice convention; callers should treat them as
// regional assumptions, not universal rules.
type Policy struct {
	// CurrencySymbol prefixes formatted totals.
	CurrencySymbol string
	// ReconcileMargin is the relative excess of subtotal+tax over the
	// resolved total that triggers an override.
	ReconcileMargin float64
	// GSTMismatchMargin is the relative disagreement between a parenthetical
	// GST value and the derived amount beyond which the amount is treated as
	// tax-only.
	GSTMismatchMargin float64
	// GSTMarkerRate is the percentage looked for in parenthetical GST
	// annotations like "9.00 (18.0%)".
	GSTMarkerRate float64
	// DueDateDays is the due-date offset from the invoice date.
	DueDateDays int
}

// DefaultPolicy returns the stock policy values.
func DefaultPolicy() Policy {
	return Policy{
		CurrencySymbol:    "₹",
		ReconcileMargin:   0.02,
		GSTMismatchMargin: 0.08,
		GSTMarkerRate:     18,
		DueDateDays:       30,
	}
}

// Extractor runs both parsing pipelines over a document and merges the
// results. It is stateless across documents and safe for concurrent use.
type Extractor struct {
	policy     Policy
	gstValueRe *regexp.Regexp
}

// New creates an Extractor with the given policy.
func New(policy Policy) *Extractor {
	marker := strings.TrimSuffix(fmt.Sprintf("%g", policy.GSTMarkerRate), ".0")
	return &Extractor{
		policy: policy,
		// Matches "9.00 (18.0%)" style annotations: a value followed by the
		// marker rate, with optional parens, decimal point, and percent sign.
		gstValueRe: regexp.MustCompile(
			`([0-9]+(?:\.[0-9]{1,2})?)\s*\(?\s*` + regexp.QuoteMeta(marker) + `\.?0?\s*%?\s*\)?`),
	}
}

// Extract runs the heuristic text parser over text and the layout table
// parser over tokens, merging layout items over heuristic ones. Either input
// may be empty; an empty document yields a record with every field at its
// default.
func (e *Extractor) Extract(text string, tokens []domain.RecognizedToken, filename string) domain.InvoiceRecord {
	record := domain.NewInvoiceRecord()
	if text != "" {
		e.parseText(&record, text, filename)
	}
	if layoutItems := ParseLayoutTable(tokens); len(layoutItems) > 0 {
		record.Items = layoutItems
	}
	return record
}

// parseText fills the record from the flat recognized text.
func (e *Extractor) parseText(record *domain.InvoiceRecord, text, filename string) {
	var lines []string
	for _, raw := range strings.Split(text, "\n") {
		if line := strings.TrimSpace(raw); line != "" {
			lines = append(lines, line)
		}
	}

	record.InvoiceNumber = extractInvoiceNumber(text)
	record.Date = extractDate(text)
	record.Vendor = extractVendor(lines)

	record.Total = e.resolveTotal(lines)
	record.Total = e.reconcileTotal(lines, record.Total)

	items := e.extractItems(lines)
	if len(items) == 0 {
		items = e.fallbackItems(lines)
	}
	if len(items) > 0 {
		record.Items = items
	}

	if gstin := extractGSTIN(text); gstin != "" {
		record.Notes = "GSTIN: " + gstin
	}
	record.GSTRate, record.HasGST = detectGSTRate(text)

	if record.Vendor != "" {
		record.Description = "Invoice from " + record.Vendor
	} else {
		record.Description = "Scanned invoice: " + filename
	}

	if record.Date != "" {
		if due, ok := dueDate(record.Date, e.policy.DueDateDays); ok {
			record.DueDate = due
		}
	}
}

// dueDate adds days calendar days to an ISO date.
func dueDate(isoDate string, days int) (string, bool) {
	t, err := time.Parse("2006-01-02", isoDate)
	if err != nil {
		return "", false
	}
	return t.AddDate(0, 0, days).Format("2006-01-02"), true
}

// HasUsefulFields reports whether the record carries anything beyond the
// defaults: an invoice number, date, vendor, a non-zero total, items, or a
// captured note. Description is excluded since it is always derived.
func HasUsefulFields(r domain.InvoiceRecord) bool {
	if r.InvoiceNumber != "" || r.Date != "" || r.Vendor != "" || r.Notes != "" {
		return true
	}
	if r.Total != "" && r.Total != "0" {
		return true
	}
	return len(r.Items) > 0
}
