package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"invoscan/internal/domain"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// columns defines the CSV header row. One row is written per line item;
// invoice-level columns repeat on each row.
var columns = []string{
	"Invoice Number",
	"Invoice Date",
	"Due Date",
	"Vendor",
	"Total",
	"GST Rate",
	"Has GST",
	"Notes",
	"Item Index",
	"Item Description",
	"Quantity",
	"Unit",
	"Rate",
	"Amount",
	"Item GST",
}

// CSVWriter wraps csv.Writer for exporting invoice records as CSV.
type CSVWriter struct {
	csv *csv.Writer
}

// NewCSVWriter creates a CSVWriter that writes CSV to w.
func NewCSVWriter(w io.Writer) *CSVWriter {
	return &CSVWriter{csv: csv.NewWriter(w)}
}

// WriteHeader writes the header row.
func (w *CSVWriter) WriteHeader() error {
	return w.csv.Write(columns)
}

// WriteRecord writes one row per line item. A record with no items still
// produces a single row carrying the invoice-level columns.
func (w *CSVWriter) WriteRecord(rec *domain.InvoiceRecord) error {
	if len(rec.Items) == 0 {
		return w.csv.Write(recordToRow(rec, nil))
	}
	for i := range rec.Items {
		if err := w.csv.Write(recordToRow(rec, &rec.Items[i])); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *CSVWriter) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *CSVWriter) Error() error {
	return w.csv.Error()
}

func recordToRow(rec *domain.InvoiceRecord, item *domain.LineItem) []string {
	row := make([]string, len(columns))

	row[0] = rec.InvoiceNumber
	row[1] = rec.Date
	row[2] = rec.DueDate
	row[3] = rec.Vendor
	row[4] = rec.Total
	row[5] = formatOptional(rec.GSTRate)
	row[6] = formatBool(rec.HasGST)
	row[7] = rec.Notes

	if item == nil {
		return row
	}

	row[8] = item.Index
	row[9] = item.Description
	row[10] = formatMoney(item.Quantity)
	if item.Unit != nil {
		row[11] = *item.Unit
	}
	row[12] = formatOptional(item.Rate)
	row[13] = formatOptional(item.Amount)
	row[14] = formatOptional(item.GST)

	return row
}

func formatMoney(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func formatOptional(v *float64) string {
	if v == nil {
		return ""
	}
	return formatMoney(*v)
}

func formatBool(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans an invoice identifier for use in Content-Disposition.
// Replaces non-alphanumeric chars (except - _) with _, collapses consecutive
// underscores, and truncates to 100 chars.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// BuildFilename returns a sanitized filename for the Content-Disposition
// header. Format: {sanitized_name}_{YYYY-MM-DD}.{ext}
func BuildFilename(name, ext string) string {
	sanitized := SanitizeFilename(name)
	if sanitized == "" {
		sanitized = "invoice"
	}
	date := time.Now().Format("2006-01-02")
	return fmt.Sprintf("%s_%s.%s", sanitized, date, ext)
}
