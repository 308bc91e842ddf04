package extract

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"invoscan/internal/domain"
)

// Heuristic line-item extraction from flat text. A line qualifies as an item
// line only if it starts with a bare integer index.

var (
	percentAnnotationRe = regexp.MustCompile(`\(\s*[0-9]+(?:\.[0-9]+)?\s*%\s*\)`)
	itemLineStartRe     = regexp.MustCompile(`^[0-9]+\s`)
	codeTokenRe         = regexp.MustCompile(`^[A-Z0-9]{4,}$`)
	whitespaceRe        = regexp.MustCompile(`\s+`)
	currencyMarkers     = strings.NewReplacer("₹", " ", "Rs.", " ", "INR", " ")
)

// parseItemLine parses one candidate item line. Returns ok=false when the
// line does not start with an index or yields neither a rate nor an amount.
func (e *Extractor) parseItemLine(line string) (domain.LineItem, bool) {
	cleaned := percentAnnotationRe.ReplaceAllString(line, "")
	cleaned = currencyMarkers.Replace(cleaned)
	cleaned = strings.TrimSpace(whitespaceRe.ReplaceAllString(cleaned, " "))
	if !itemLineStartRe.MatchString(cleaned) {
		return domain.LineItem{}, false
	}

	tokens := strings.Fields(cleaned)
	index := tokens[0]
	tokens = tokens[1:]

	unitIdx := -1
	for i, tok := range tokens {
		if unitTokens[strings.ToLower(tok)] {
			unitIdx = i
			break
		}
	}

	var quantity *float64
	var unit *string
	if unitIdx > 0 && isNumberToken(tokens[unitIdx-1]) {
		if v, ok := parseAmount(tokens[unitIdx-1]); ok {
			quantity = &v
			unit = &tokens[unitIdx]
		}
	}

	var numeric []float64
	firstNumericIdx := -1
	for i, tok := range tokens {
		if !isNumberToken(tok) {
			continue
		}
		if v, ok := parseAmount(tok); ok {
			if firstNumericIdx < 0 {
				firstNumericIdx = i
			}
			numeric = append(numeric, v)
		}
	}

	var amount, rate *float64
	if n := len(numeric); n > 0 {
		amount = &numeric[n-1]
		switch {
		case n >= 4:
			rate = &numeric[n-3]
		case n == 3:
			rate = &numeric[1]
		case n == 2:
			rate = &numeric[0]
		}
	}

	// GST amounts show up as "9.00 (18.0%)" style annotations on the raw
	// line, before the parenthetical strip.
	var gst *float64
	if m := e.gstValueRe.FindStringSubmatch(line); m != nil {
		if v, ok := parseAmount(m[1]); ok {
			gst = &v
		}
	}

	nameEnd := len(tokens)
	if unitIdx >= 0 {
		nameEnd = unitIdx - 1
		if nameEnd < 0 {
			nameEnd = 0
		}
	} else if firstNumericIdx >= 0 {
		nameEnd = firstNumericIdx
	}

	var nameTokens []string
	for _, tok := range tokens[:nameEnd] {
		if codeTokenRe.MatchString(tok) {
			continue
		}
		nameTokens = append(nameTokens, tok)
	}
	name := strings.TrimSpace(strings.Join(nameTokens, " "))
	if name == "" {
		name = "Item " + index
	}

	if quantity == nil && len(numeric) > 0 {
		quantity = &numeric[0]
	}
	qty := 1.0
	if quantity != nil {
		qty = *quantity
	}

	// A GST value that disagrees with the derived amount beyond the margin
	// means the "amount" we found was tax-only; recover the gross figure.
	if gst != nil {
		gross := *gst * ((100 + e.policy.GSTMarkerRate) / e.policy.GSTMarkerRate)
		if amount == nil || math.Abs(gross-*amount)/math.Max(*amount, 1) > e.policy.GSTMismatchMargin {
			amount = &gross
		}
	}

	if rate == nil && amount != nil && qty != 0 {
		derived := *amount / qty
		rate = &derived
	}
	if amount == nil && rate != nil {
		derived := *rate * qty
		amount = &derived
	}

	if amount == nil && rate == nil {
		return domain.LineItem{}, false
	}

	return domain.LineItem{
		Index:       index,
		Description: name,
		Quantity:    qty,
		Unit:        unit,
		Rate:        rate,
		Amount:      amount,
		GST:         gst,
	}, true
}

// extractItems runs the primary per-line pass over every line.
func (e *Extractor) extractItems(lines []string) []domain.LineItem {
	var items []domain.LineItem
	for _, line := range lines {
		item, ok := e.parseItemLine(line)
		if !ok || item.Description == "" {
			continue
		}
		items = append(items, item)
	}
	return finalizeItems(items)
}

// fallbackItems re-tokenizes the table region of the document into chunks at
// candidate item-index boundaries and parses each chunk. Used only when the
// primary pass found nothing.
func (e *Extractor) fallbackItems(lines []string) []domain.LineItem {
	start, end := 0, len(lines)
	headerFound := false
	for i, line := range lines {
		lower := strings.ToLower(line)
		if !headerFound && strings.Contains(lower, "item") && strings.Contains(lower, "amount") {
			headerFound = true
			start = i + 1
			continue
		}
		if headerFound && strings.Contains(lower, "total") {
			end = i
			break
		}
	}
	if !headerFound {
		start, end = 0, len(lines)
	}

	text := strings.Join(lines[start:end], " ")
	var items []domain.LineItem
	for _, chunk := range splitItemChunks(text) {
		item, ok := e.parseItemLine(chunk)
		if !ok || item.Description == "" || item.Amount == nil {
			continue
		}
		items = append(items, item)
	}
	return finalizeItems(items)
}

// splitItemChunks splits text immediately before every 1-2 digit run that is
// not preceded by a digit and is followed by whitespace. RE2 has no
// lookbehind, so the boundary scan is done by hand.
func splitItemChunks(text string) []string {
	var starts []int
	for i := 0; i < len(text); i++ {
		if !isASCIIDigit(text[i]) {
			continue
		}
		if i > 0 && isASCIIDigit(text[i-1]) {
			continue
		}
		// Greedy two-digit run first, then one, mirroring regex backtracking.
		for j := minInt(i+2, len(text)); j > i; j-- {
			if j < len(text) && isASCIIWhitespace(text[j]) && allASCIIDigits(text[i:j]) {
				starts = append(starts, i)
				break
			}
		}
	}
	if len(starts) == 0 {
		return nil
	}

	chunks := make([]string, 0, len(starts))
	for k, s := range starts {
		e := len(text)
		if k+1 < len(starts) {
			e = starts[k+1]
		}
		chunks = append(chunks, strings.TrimSpace(text[s:e]))
	}
	return chunks
}

func isASCIIDigit(b byte) bool { return b >= '0' && b <= '9' }

func isASCIIWhitespace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\f' || b == '\v'
}

func allASCIIDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isASCIIDigit(s[i]) {
			return false
		}
	}
	return len(s) > 0
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// finalizeItems deduplicates by (description, amount rounded to 2 decimals)
// and sorts by numeric index. A single non-numeric index aborts the sort,
// preserving discovery order.
func finalizeItems(items []domain.LineItem) []domain.LineItem {
	if len(items) == 0 {
		return nil
	}

	seen := make(map[string]bool)
	unique := make([]domain.LineItem, 0, len(items))
	for _, item := range items {
		amount := 0.0
		if item.Amount != nil {
			amount = *item.Amount
		}
		key := fmt.Sprintf("%s|%.2f", item.Description, amount)
		if seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, item)
	}

	for _, item := range unique {
		if _, err := strconv.Atoi(item.Index); err != nil {
			return unique
		}
	}
	sort.SliceStable(unique, func(i, j int) bool {
		a, _ := strconv.Atoi(unique[i].Index)
		b, _ := strconv.Atoi(unique[j].Index)
		return a < b
	})
	return unique
}
