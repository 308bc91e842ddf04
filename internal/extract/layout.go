package extract

import (
	"sort"
	"strconv"
	"strings"

	"invoscan/internal/domain"
)

// Layout Table Parser: turns positioned word tokens from a single page into
// line items by detecting a header row and assigning subsequent tokens to
// columns by horizontal position.

// textLine is an ordered run of tokens sharing a block/paragraph/line key.
type textLine []domain.RecognizedToken

func (l textLine) text() string {
	parts := make([]string, len(l))
	for i, t := range l {
		parts[i] = t.Text
	}
	return strings.Join(parts, " ")
}

func (l textLine) minTop() int {
	top := l[0].Top
	for _, t := range l[1:] {
		if t.Top < top {
			top = t.Top
		}
	}
	return top
}

// groupLines buckets tokens by their grouping key, orders tokens within each
// line left-to-right, and orders lines top-to-bottom by minimum top.
func groupLines(tokens []domain.RecognizedToken) []textLine {
	type lineKey struct{ block, par, line int }
	byKey := make(map[lineKey]textLine)
	var order []lineKey
	for _, tok := range tokens {
		if strings.TrimSpace(tok.Text) == "" {
			continue
		}
		key := lineKey{tok.BlockNum, tok.ParNum, tok.LineNum}
		if _, ok := byKey[key]; !ok {
			order = append(order, key)
		}
		byKey[key] = append(byKey[key], tok)
	}

	lines := make([]textLine, 0, len(order))
	for _, key := range order {
		line := byKey[key]
		sort.SliceStable(line, func(i, j int) bool { return line[i].Left < line[j].Left })
		lines = append(lines, line)
	}
	sort.SliceStable(lines, func(i, j int) bool { return lines[i].minTop() < lines[j].minTop() })
	return lines
}

// normalizeHeaderToken lowercases and strips everything but letters, so that
// "Qty." and "Amount:" still hit the role vocabulary.
func normalizeHeaderToken(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if r >= 'a' && r <= 'z' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// columnBoundary is a named column with its left pixel boundary.
type columnBoundary struct {
	name string
	pos  int
}

// findHeader scans lines for the first one containing both "item" and
// "amount", classifies its tokens into column roles, and returns the header
// line index plus the column map. Boundaries record the leftmost position
// seen for each role. Returns ok=false when no usable header exists.
func findHeader(lines []textLine) (headerIdx int, columns map[string]int, ok bool) {
	headerIdx = -1
	columns = make(map[string]int)
	for i, line := range lines {
		lower := strings.ToLower(line.text())
		if !strings.Contains(lower, "item") || !strings.Contains(lower, "amount") {
			continue
		}
		headerIdx = i
		for _, tok := range line {
			role, known := columnRoles[normalizeHeaderToken(tok.Text)]
			if !known {
				continue
			}
			if cur, seen := columns[role]; !seen || tok.Left < cur {
				columns[role] = tok.Left
			}
		}
		if _, seen := columns["item"]; !seen {
			columns["item"] = line[0].Left
		}
		if _, seen := columns["amount"]; seen {
			break
		}
	}
	if headerIdx < 0 {
		return -1, nil, false
	}
	if _, seen := columns["amount"]; !seen {
		return -1, nil, false
	}
	return headerIdx, columns, true
}

// sortColumns orders the column map by boundary position.
func sortColumns(columns map[string]int) []columnBoundary {
	order := make([]columnBoundary, 0, len(columns))
	for name, pos := range columns {
		order = append(order, columnBoundary{name, pos})
	}
	sort.SliceStable(order, func(i, j int) bool {
		if order[i].pos != order[j].pos {
			return order[i].pos < order[j].pos
		}
		return order[i].name < order[j].name
	})
	return order
}

// assignColumn picks the column whose boundary is the greatest boundary at or
// left of the token's horizontal center.
func assignColumn(order []columnBoundary, tok domain.RecognizedToken) string {
	center := float64(tok.Left) + float64(tok.Width)/2
	assigned := order[0].name
	for _, col := range order {
		if center >= float64(col.pos) {
			assigned = col.name
		} else {
			break
		}
	}
	return assigned
}

// ParseLayoutTable produces line items from positioned tokens, or nil when no
// table is detected.
func ParseLayoutTable(tokens []domain.RecognizedToken) []domain.LineItem {
	lines := groupLines(tokens)
	if len(lines) == 0 {
		return nil
	}

	headerIdx, columns, ok := findHeader(lines)
	if !ok {
		return nil
	}
	order := sortColumns(columns)

	var items []domain.LineItem
	for _, line := range lines[headerIdx+1:] {
		text := line.text()
		if strings.TrimSpace(text) == "" {
			continue
		}
		if strings.Contains(strings.ToLower(text), "total") {
			break
		}

		buckets := make(map[string][]string)
		for _, tok := range line {
			col := assignColumn(order, tok)
			buckets[col] = append(buckets[col], tok.Text)
		}
		row := make(map[string]string, len(buckets))
		for name, toks := range buckets {
			row[name] = strings.TrimSpace(strings.Join(toks, " "))
		}

		if item, keep := parseLayoutRow(row, len(items)); keep {
			items = append(items, item)
		}
	}
	return items
}

// parseLayoutRow turns one row of raw column strings into a LineItem. Rows
// with neither a rate nor an amount are skipped.
func parseLayoutRow(row map[string]string, position int) (domain.LineItem, bool) {
	toks := strings.Fields(row["item"])
	index := ""
	if len(toks) > 0 && allDigits(toks[0]) {
		index = toks[0]
		toks = toks[1:]
	}
	description := strings.Join(toks, " ")
	if description == "" && row["item"] != "" {
		description = row["item"]
	}

	quantity, qtyOK := firstQuantity(row["quantity"])

	var unit *string
	if fields := strings.Fields(row["unit"]); len(fields) > 0 {
		unit = &fields[0]
	}

	var rate, amount, gst *float64
	if v, ok := lastNumber(row["price"]); ok {
		rate = &v
	}
	if v, ok := lastNumber(row["amount"]); ok {
		amount = &v
	}
	if v, ok := lastNumber(row["gst"]); ok {
		gst = &v
	}

	if amount == nil && rate == nil {
		return domain.LineItem{}, false
	}
	if !qtyOK {
		quantity = 1
	}
	if rate == nil && amount != nil && quantity != 0 {
		derived := *amount / quantity
		rate = &derived
	}
	if index == "" {
		index = strconv.Itoa(position + 1)
	}

	return domain.LineItem{
		Index:       index,
		Description: description,
		Quantity:    quantity,
		Unit:        unit,
		Rate:        rate,
		Amount:      amount,
		GST:         gst,
	}, true
}
