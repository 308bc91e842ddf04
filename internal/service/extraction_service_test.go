package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoscan/internal/config"
	"invoscan/internal/domain"
	"invoscan/internal/extract"
	"invoscan/internal/port"
)

const invoiceText = `Sharma Trading Co.
Invoice No: 398
Date: 16-11-2024
Grand Total: ₹118.00`

type fakeRecognizer struct {
	available bool
	text      string
	tokens    []domain.RecognizedToken
	textErr   error
}

func (f *fakeRecognizer) Available() bool { return f.available }

func (f *fakeRecognizer) Text(image.Image) (string, error) {
	return f.text, f.textErr
}

func (f *fakeRecognizer) Words(image.Image) ([]domain.RecognizedToken, error) {
	return f.tokens, nil
}

type fakePDFDocument struct {
	pages  []string
	closed bool
}

func (d *fakePDFDocument) NumPages() int { return len(d.pages) }

func (d *fakePDFDocument) Text(page int) (string, error) { return d.pages[page], nil }

func (d *fakePDFDocument) Image(int, float64) (image.Image, error) {
	return image.NewRGBA(image.Rect(0, 0, 1, 1)), nil
}

func (d *fakePDFDocument) Close() error {
	d.closed = true
	return nil
}

type fakePDFReader struct {
	doc *fakePDFDocument
	err error
}

func (r *fakePDFReader) Open([]byte) (port.PDFDocument, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.doc, nil
}

type fakeStorage struct {
	uploads []port.UploadInput
	err     error
}

func (s *fakeStorage) Upload(_ context.Context, input port.UploadInput) (*port.UploadOutput, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.uploads = append(s.uploads, input)
	return &port.UploadOutput{Location: "s3://test/" + input.Key}, nil
}

func (s *fakeStorage) GetPresignedURL(_ context.Context, bucket, key string, _ int64) (string, error) {
	return "https://" + bucket + ".s3.test/" + key, nil
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.OCR.DPI = 300
	cfg.Upload.MaxFileSizeMB = 1
	cfg.Heuristics.MinTextLen = 50
	return cfg
}

func newService(rec port.TextRecognizer, pdfReader port.PDFReader, storage port.ObjectStorage, cfg *config.Config) ExtractionService {
	return NewExtractionService(extract.New(extract.DefaultPolicy()), rec, pdfReader, storage, cfg)
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2))))
	return buf.Bytes()
}

func TestExtractUpload_Image(t *testing.T) {
	rec := &fakeRecognizer{available: true, text: invoiceText}
	svc := newService(rec, &fakePDFReader{}, nil, testConfig())

	result, err := svc.ExtractUpload(context.Background(), ExtractInput{
		Filename:    "invoice.png",
		ContentType: "image/png",
		Data:        pngBytes(t),
	})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusSuccess, result.Status)
	assert.Equal(t, "Invoice data extracted", result.Message)
	assert.Equal(t, "invoice.png", result.Filename)
	assert.Equal(t, ParserVersion, result.ParserVersion)
	assert.Equal(t, "INV-398", result.ExtractedData.InvoiceNumber)
	assert.Empty(t, result.DebugText)
}

func TestExtractUpload_DebugText(t *testing.T) {
	rec := &fakeRecognizer{available: true, text: invoiceText}
	svc := newService(rec, &fakePDFReader{}, nil, testConfig())

	result, err := svc.ExtractUpload(context.Background(), ExtractInput{
		Filename:     "invoice.png",
		ContentType:  "image/png",
		Data:         pngBytes(t),
		IncludeDebug: true,
	})
	require.NoError(t, err)
	assert.Contains(t, result.DebugText, "Sharma Trading Co.")
}

func TestExtractUpload_PartialWhenNoFieldsFound(t *testing.T) {
	rec := &fakeRecognizer{available: true, text: "lorem ipsum dolor sit amet"}
	svc := newService(rec, &fakePDFReader{}, nil, testConfig())

	result, err := svc.ExtractUpload(context.Background(), ExtractInput{
		Filename:    "note.png",
		ContentType: "image/png",
		Data:        pngBytes(t),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPartial, result.Status)
	assert.Equal(t, "Text extracted, but invoice fields were not detected.", result.Message)
}

func TestExtractUpload_ErrorWhenOCRUnavailable(t *testing.T) {
	rec := &fakeRecognizer{available: false}
	svc := newService(rec, &fakePDFReader{}, nil, testConfig())

	result, err := svc.ExtractUpload(context.Background(), ExtractInput{
		Filename:    "invoice.png",
		ContentType: "image/png",
		Data:        pngBytes(t),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusError, result.Status)
	assert.Contains(t, result.Note, "Tesseract")
}

func TestExtractUpload_ErrorWhenNothingRecognized(t *testing.T) {
	rec := &fakeRecognizer{available: true, text: "   "}
	svc := newService(rec, &fakePDFReader{}, nil, testConfig())

	result, err := svc.ExtractUpload(context.Background(), ExtractInput{
		Filename:    "blank.png",
		ContentType: "image/png",
		Data:        pngBytes(t),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusError, result.Status)
	assert.Contains(t, result.Note, "no readable text")
}

func TestExtractUpload_PDFEmbeddedText(t *testing.T) {
	longText := invoiceText + strings.Repeat("\nfiller line", 10)
	doc := &fakePDFDocument{pages: []string{longText}}
	rec := &fakeRecognizer{available: false}
	svc := newService(rec, &fakePDFReader{doc: doc}, nil, testConfig())

	result, err := svc.ExtractUpload(context.Background(), ExtractInput{
		Filename:    "invoice.pdf",
		ContentType: "application/pdf",
		Data:        []byte("%PDF-1.4 fake"),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusSuccess, result.Status)
	assert.Equal(t, "INV-398", result.ExtractedData.InvoiceNumber)
	assert.True(t, doc.closed)
}

func TestExtractUpload_PDFFallsBackToOCR(t *testing.T) {
	// Embedded text below the threshold triggers the OCR pass.
	doc := &fakePDFDocument{pages: []string{"short"}}
	rec := &fakeRecognizer{available: true, text: invoiceText}
	svc := newService(rec, &fakePDFReader{doc: doc}, nil, testConfig())

	result, err := svc.ExtractUpload(context.Background(), ExtractInput{
		Filename:    "scan.pdf",
		ContentType: "application/pdf",
		Data:        []byte("%PDF-1.4 fake"),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusSuccess, result.Status)
	assert.Equal(t, "INV-398", result.ExtractedData.InvoiceNumber)
}

func TestExtractUpload_PDFOpenFailure(t *testing.T) {
	rec := &fakeRecognizer{available: false}
	svc := newService(rec, &fakePDFReader{err: errors.New("bad pdf")}, nil, testConfig())

	result, err := svc.ExtractUpload(context.Background(), ExtractInput{
		Filename:    "broken.pdf",
		ContentType: "application/pdf",
		Data:        []byte("not a pdf"),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusError, result.Status)
}

func TestExtractUpload_RejectsBadInput(t *testing.T) {
	svc := newService(&fakeRecognizer{}, &fakePDFReader{}, nil, testConfig())

	_, err := svc.ExtractUpload(context.Background(), ExtractInput{
		Filename: "empty.png", ContentType: "image/png",
	})
	assert.ErrorIs(t, err, domain.ErrEmptyFile)

	_, err = svc.ExtractUpload(context.Background(), ExtractInput{
		Filename: "big.png", ContentType: "image/png",
		Data: bytes.Repeat([]byte("x"), 2<<20),
	})
	assert.ErrorIs(t, err, domain.ErrFileTooLarge)

	_, err = svc.ExtractUpload(context.Background(), ExtractInput{
		Filename: "notes.txt", ContentType: "text/plain", Data: []byte("hi"),
	})
	assert.ErrorIs(t, err, domain.ErrUnsupportedFileType)
}

func TestExtractUpload_ClassifiesByExtensionFallback(t *testing.T) {
	rec := &fakeRecognizer{available: true, text: invoiceText}
	svc := newService(rec, &fakePDFReader{}, nil, testConfig())

	result, err := svc.ExtractUpload(context.Background(), ExtractInput{
		Filename:    "invoice.png",
		ContentType: "application/octet-stream",
		Data:        pngBytes(t),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusSuccess, result.Status)
}

func TestExtractUpload_ArchivesWhenStorageConfigured(t *testing.T) {
	storage := &fakeStorage{}
	cfg := testConfig()
	cfg.S3.Bucket = "invoices"
	rec := &fakeRecognizer{available: true, text: invoiceText}
	svc := newService(rec, &fakePDFReader{}, storage, cfg)

	result, err := svc.ExtractUpload(context.Background(), ExtractInput{
		Filename:    "invoice.png",
		ContentType: "image/png",
		Data:        pngBytes(t),
	})
	require.NoError(t, err)

	require.Len(t, storage.uploads, 1)
	assert.Equal(t, "invoices", storage.uploads[0].Bucket)
	assert.True(t, strings.HasPrefix(result.ArchiveKey, "uploads/"))
	assert.True(t, strings.HasSuffix(result.ArchiveKey, ".png"))
	assert.Equal(t, "https://invoices.s3.test/"+result.ArchiveKey, result.ArchiveURL)
}

func TestExtractUpload_ArchiveFailureIsNotFatal(t *testing.T) {
	storage := &fakeStorage{err: errors.New("s3 down")}
	cfg := testConfig()
	cfg.S3.Bucket = "invoices"
	rec := &fakeRecognizer{available: true, text: invoiceText}
	svc := newService(rec, &fakePDFReader{}, storage, cfg)

	result, err := svc.ExtractUpload(context.Background(), ExtractInput{
		Filename:    "invoice.png",
		ContentType: "image/png",
		Data:        pngBytes(t),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusSuccess, result.Status)
	assert.Empty(t, result.ArchiveKey)
}
