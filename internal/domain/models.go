package domain

// RecognizedToken is a single word from a positioned OCR pass, with its pixel
// bounding box and the block/paragraph/line grouping assigned by the engine.
// Tokens are produced per page, consumed once, and discarded.
type RecognizedToken struct {
	Text   string
	Left   int
	Top    int
	Width  int
	Height int

	BlockNum int
	ParNum   int
	LineNum  int
}

// LineItem is one extracted invoice line. Rate, Amount, GST, and Unit are
// pointers because the parsers may legitimately leave them unresolved; an
// item is only retained when at least one of Rate/Amount is present.
type LineItem struct {
	Index       string   `json:"index"`
	Description string   `json:"description"`
	Quantity    float64  `json:"quantity"`
	Unit        *string  `json:"unit"`
	Rate        *float64 `json:"rate"`
	Amount      *float64 `json:"amount"`
	GST         *float64 `json:"gst"`
}

// InvoiceRecord is the terminal output of the extraction pipeline. It is
// created fresh per document and never mutated after the parse completes.
type InvoiceRecord struct {
	InvoiceNumber string     `json:"invoice_number"`
	Date          string     `json:"date"`
	DueDate       string     `json:"due_date"`
	Vendor        string     `json:"vendor"`
	Total         string     `json:"total"`
	Description   string     `json:"description"`
	Notes         string     `json:"notes"`
	Items         []LineItem `json:"items"`
	GSTRate       *float64   `json:"gst_rate,omitempty"`
	HasGST        bool       `json:"has_gst"`
}

// NewInvoiceRecord returns a record with every field at its default value.
func NewInvoiceRecord() InvoiceRecord {
	return InvoiceRecord{
		Total: "0",
		Items: []LineItem{},
	}
}

// ExtractionResult is the upload response payload: the record plus a coarse
// status and human-readable context about how the extraction went.
type ExtractionResult struct {
	Status        ExtractionStatus `json:"status"`
	Message       string           `json:"message"`
	Filename      string           `json:"filename"`
	Note          string           `json:"note,omitempty"`
	ParserVersion string           `json:"parser_version,omitempty"`
	ExtractedData InvoiceRecord    `json:"extracted_data"`
	ArchiveKey    string           `json:"archive_key,omitempty"`
	ArchiveURL    string           `json:"archive_url,omitempty"`
	DebugText     string           `json:"debug_text,omitempty"`
}
