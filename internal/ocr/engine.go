package ocr

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"invoscan/internal/config"
	"invoscan/internal/domain"
)

// Engine invokes tesseract through gosseract. A fresh client is created per
// call: gosseract clients are not safe for concurrent use, and extraction
// requests may run in parallel.
type Engine struct {
	language string
	psm      gosseract.PageSegMode
}

// NewEngine creates an Engine from OCR settings.
func NewEngine(cfg *config.OCRConfig) *Engine {
	lang := cfg.Language
	if lang == "" {
		lang = "eng"
	}
	return &Engine{
		language: lang,
		psm:      gosseract.PageSegMode(cfg.PageSegMode),
	}
}

// Available reports whether tesseract has language data installed.
func (e *Engine) Available() bool {
	langs, err := gosseract.GetAvailableLanguages()
	return err == nil && len(langs) > 0
}

func (e *Engine) newClient(img image.Image) (*gosseract.Client, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding image for ocr: %w", err)
	}

	client := gosseract.NewClient()
	if err := client.SetLanguage(e.language); err != nil {
		client.Close()
		return nil, fmt.Errorf("setting ocr language: %w", err)
	}
	if err := client.SetPageSegMode(e.psm); err != nil {
		client.Close()
		return nil, fmt.Errorf("setting page segmentation mode: %w", err)
	}
	if err := client.SetImageFromBytes(buf.Bytes()); err != nil {
		client.Close()
		return nil, fmt.Errorf("loading image into ocr engine: %w", err)
	}
	return client, nil
}

// Text runs a flat recognition pass over the image.
func (e *Engine) Text(img image.Image) (string, error) {
	client, err := e.newClient(img)
	if err != nil {
		return "", err
	}
	defer client.Close()

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("ocr text pass: %w", err)
	}
	return text, nil
}

// Words runs a positioned pass and maps word boxes to RecognizedTokens,
// dropping empty words.
func (e *Engine) Words(img image.Image) ([]domain.RecognizedToken, error) {
	client, err := e.newClient(img)
	if err != nil {
		return nil, err
	}
	defer client.Close()

	boxes, err := client.GetBoundingBoxesVerbose()
	if err != nil {
		return nil, fmt.Errorf("ocr layout pass: %w", err)
	}

	tokens := make([]domain.RecognizedToken, 0, len(boxes))
	for _, b := range boxes {
		word := strings.TrimSpace(b.Word)
		if word == "" {
			continue
		}
		tokens = append(tokens, domain.RecognizedToken{
			Text:     word,
			Left:     b.Box.Min.X,
			Top:      b.Box.Min.Y,
			Width:    b.Box.Dx(),
			Height:   b.Box.Dy(),
			BlockNum: b.BlockNum,
			ParNum:   b.ParNum,
			LineNum:  b.LineNum,
		})
	}
	return tokens, nil
}
