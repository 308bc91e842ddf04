package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"log"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"invoscan/internal/config"
	"invoscan/internal/domain"
	"invoscan/internal/extract"
	"invoscan/internal/ocr"
	"invoscan/internal/port"
)

// ParserVersion tags extraction responses so clients can detect heuristic
// changes across deployments.
const ParserVersion = "v6-gst-rate"

const debugTextLimit = 4000

// ExtractInput carries one uploaded document.
type ExtractInput struct {
	Filename     string
	ContentType  string
	Data         []byte
	IncludeDebug bool
}

// ExtractionService turns an uploaded invoice file into an ExtractionResult.
type ExtractionService interface {
	ExtractUpload(ctx context.Context, input ExtractInput) (*domain.ExtractionResult, error)
}

type extractionService struct {
	extractor  *extract.Extractor
	recognizer port.TextRecognizer
	pdfReader  port.PDFReader
	storage    port.ObjectStorage
	ocrCfg     config.OCRConfig
	s3Cfg      config.S3Config
	maxBytes   int64
	minTextLen int
}

// NewExtractionService wires the extractor with its I/O collaborators.
// storage may be nil when archival is disabled.
func NewExtractionService(
	extractor *extract.Extractor,
	recognizer port.TextRecognizer,
	pdfReader port.PDFReader,
	storage port.ObjectStorage,
	cfg *config.Config,
) ExtractionService {
	return &extractionService{
		extractor:  extractor,
		recognizer: recognizer,
		pdfReader:  pdfReader,
		storage:    storage,
		ocrCfg:     cfg.OCR,
		s3Cfg:      cfg.S3,
		maxBytes:   cfg.Upload.MaxBytes(),
		minTextLen: cfg.Heuristics.MinTextLen,
	}
}

func (s *extractionService) ExtractUpload(ctx context.Context, input ExtractInput) (*domain.ExtractionResult, error) {
	if len(input.Data) == 0 {
		return nil, domain.ErrEmptyFile
	}
	if int64(len(input.Data)) > s.maxBytes {
		return nil, domain.ErrFileTooLarge
	}
	fileType, err := classify(input.Filename, input.ContentType)
	if err != nil {
		return nil, err
	}

	var text string
	var tokens []domain.RecognizedToken
	if fileType == domain.FileTypePDF {
		text, tokens = s.processPDF(input.Data)
	} else {
		text, tokens = s.processImage(input.Data)
	}

	record := s.extractor.Extract(text, tokens, input.Filename)
	result := s.shapeResult(record, text, input)

	if s.storage != nil && s.s3Cfg.Enabled() {
		result.ArchiveKey, result.ArchiveURL = s.archive(ctx, input, fileType)
	}
	return result, nil
}

// processPDF concatenates embedded text across pages and falls back to OCR
// when the document carries too little of it. The layout token pass only
// runs on the first page.
func (s *extractionService) processPDF(data []byte) (string, []domain.RecognizedToken) {
	doc, err := s.pdfReader.Open(data)
	if err != nil {
		log.Printf("service.ExtractionService: %v", err)
		return "", nil
	}
	defer func() { _ = doc.Close() }()

	var sb strings.Builder
	for page := 0; page < doc.NumPages(); page++ {
		pageText, err := doc.Text(page)
		if err != nil {
			log.Printf("service.ExtractionService: %v", err)
			continue
		}
		sb.WriteString(pageText)
	}
	text := sb.String()

	if !s.recognizer.Available() {
		return text, nil
	}

	needOCR := len(strings.TrimSpace(text)) < s.minTextLen
	var tokens []domain.RecognizedToken
	for page := 0; page < doc.NumPages(); page++ {
		if page > 0 && !needOCR {
			break
		}
		img, err := doc.Image(page, s.ocrCfg.DPI)
		if err != nil {
			log.Printf("service.ExtractionService: %v", err)
			continue
		}
		prepared := ocr.Preprocess(img)
		if needOCR {
			pageText, err := s.recognizer.Text(prepared)
			if err != nil {
				log.Printf("service.ExtractionService: ocr text pass failed on page %d: %v", page, err)
			} else {
				text += pageText
			}
		}
		if page == 0 && len(tokens) == 0 {
			tokens = s.recognizeWords(prepared)
		}
	}
	return text, tokens
}

// processImage runs both recognition passes over a single uploaded image.
func (s *extractionService) processImage(data []byte) (string, []domain.RecognizedToken) {
	img, err := ocr.DecodeImage(data)
	if err != nil {
		log.Printf("service.ExtractionService: %v", err)
		return "", nil
	}
	if !s.recognizer.Available() {
		return "", nil
	}

	prepared := ocr.Preprocess(img)
	text, err := s.recognizer.Text(prepared)
	if err != nil {
		log.Printf("service.ExtractionService: ocr text pass failed: %v", err)
		text = ""
	}
	return text, s.recognizeWords(prepared)
}

func (s *extractionService) recognizeWords(img image.Image) []domain.RecognizedToken {
	tokens, err := s.recognizer.Words(img)
	if err != nil {
		log.Printf("service.ExtractionService: ocr layout pass failed: %v", err)
		return nil
	}
	return tokens
}

// shapeResult assigns the coarse status: error when nothing was recognized,
// success when any meaningful field surfaced, partial otherwise.
func (s *extractionService) shapeResult(record domain.InvoiceRecord, text string, input ExtractInput) *domain.ExtractionResult {
	result := &domain.ExtractionResult{
		Filename:      input.Filename,
		ParserVersion: ParserVersion,
		ExtractedData: record,
	}
	if input.IncludeDebug {
		result.DebugText = text
		if len(result.DebugText) > debugTextLimit {
			result.DebugText = result.DebugText[:debugTextLimit]
		}
	}

	if strings.TrimSpace(text) == "" && len(record.Items) == 0 {
		result.Status = domain.StatusError
		result.Message = "No text could be extracted from the file."
		if s.recognizer.Available() {
			result.Note = "OCR is enabled, but no readable text was detected."
		} else {
			result.Note = "Install Tesseract language data to read images and scanned PDFs."
		}
		return result
	}

	if extract.HasUsefulFields(record) {
		result.Status = domain.StatusSuccess
		result.Message = "Invoice data extracted"
	} else {
		result.Status = domain.StatusPartial
		result.Message = "Text extracted, but invoice fields were not detected."
	}
	return result
}

// archive stores the original upload and returns the object key plus a
// presigned download link; failures are logged, never surfaced.
func (s *extractionService) archive(ctx context.Context, input ExtractInput, fileType domain.FileType) (string, string) {
	key := fmt.Sprintf("uploads/%s.%s", uuid.New(), fileType)
	_, err := s.storage.Upload(ctx, port.UploadInput{
		Bucket:      s.s3Cfg.Bucket,
		Key:         key,
		Body:        bytes.NewReader(input.Data),
		ContentType: input.ContentType,
	})
	if err != nil {
		log.Printf("service.ExtractionService: archiving %s: %v", input.Filename, err)
		return "", ""
	}

	url, err := s.storage.GetPresignedURL(ctx, s.s3Cfg.Bucket, key, s.s3Cfg.PresignExpiry)
	if err != nil {
		log.Printf("service.ExtractionService: presigning %s: %v", key, err)
		return key, ""
	}
	return key, url
}

// classify resolves the upload type from content type, then extension.
func classify(filename, contentType string) (domain.FileType, error) {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	if t, ok := domain.AllowedContentTypes[ct]; ok {
		return t, nil
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if t, ok := domain.AllowedExtensions[ext]; ok {
		return t, nil
	}
	return "", domain.ErrUnsupportedFileType
}
