package port

import (
	"image"

	"invoscan/internal/domain"
)

// TextRecognizer abstracts the OCR engine.
type TextRecognizer interface {
	// Available reports whether the engine can run at all (e.g. language
	// data installed).
	Available() bool
	// Text runs a flat recognition pass and returns the recognized string.
	Text(img image.Image) (string, error)
	// Words runs a positioned pass and returns word tokens with bounding
	// boxes and block/paragraph/line grouping.
	Words(img image.Image) ([]domain.RecognizedToken, error)
}

// PDFDocument is an open PDF with per-page text and raster access.
type PDFDocument interface {
	NumPages() int
	// Text returns the embedded text of a zero-based page.
	Text(page int) (string, error)
	// Image rasterizes a zero-based page at the given DPI.
	Image(page int, dpi float64) (image.Image, error)
	Close() error
}

// PDFReader opens PDF documents from memory.
type PDFReader interface {
	Open(data []byte) (PDFDocument, error)
}
