package pdf

import (
	"fmt"
	"image"

	"github.com/gen2brain/go-fitz"

	"invoscan/internal/port"
)

// Reader opens PDF documents from memory via MuPDF.
type Reader struct{}

// NewReader creates a Reader.
func NewReader() *Reader { return &Reader{} }

// Open parses the PDF bytes and returns the document.
func (r *Reader) Open(data []byte) (port.PDFDocument, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("opening pdf: %w", err)
	}
	return &document{doc: doc}, nil
}

type document struct {
	doc *fitz.Document
}

func (d *document) NumPages() int { return d.doc.NumPage() }

// Text returns the embedded text of a zero-based page.
func (d *document) Text(page int) (string, error) {
	text, err := d.doc.Text(page)
	if err != nil {
		return "", fmt.Errorf("extracting pdf text from page %d: %w", page, err)
	}
	return text, nil
}

// Image rasterizes a zero-based page at the given DPI.
func (d *document) Image(page int, dpi float64) (image.Image, error) {
	img, err := d.doc.ImageDPI(page, dpi)
	if err != nil {
		return nil, fmt.Errorf("rendering pdf page %d: %w", page, err)
	}
	return img, nil
}

func (d *document) Close() error { return d.doc.Close() }
