package main

import (
	"fmt"
	"log"

	"invoscan/internal/config"
	"invoscan/internal/extract"
	"invoscan/internal/handler"
	"invoscan/internal/ocr"
	"invoscan/internal/pdf"
	"invoscan/internal/port"
	"invoscan/internal/router"
	"invoscan/internal/service"
	s3storage "invoscan/internal/storage/s3"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Recognition engines
	engine := ocr.NewEngine(&cfg.OCR)
	if !engine.Available() {
		log.Printf("tesseract is not available; image and scanned-PDF uploads will fail")
	}
	pdfReader := pdf.NewReader()

	// Optional archival storage
	var storage port.ObjectStorage
	if cfg.S3.Enabled() {
		storage, err = s3storage.NewS3Client(&cfg.S3)
		if err != nil {
			return fmt.Errorf("failed to initialize S3 client: %w", err)
		}
	}

	// Extraction pipeline
	extractor := extract.New(extract.Policy{
		CurrencySymbol:    cfg.Heuristics.CurrencySymbol,
		ReconcileMargin:   cfg.Heuristics.ReconcileMargin,
		GSTMismatchMargin: cfg.Heuristics.GSTMismatchMargin,
		GSTMarkerRate:     cfg.Heuristics.GSTMarkerRate,
		DueDateDays:       cfg.Heuristics.DueDateDays,
	})
	extractionSvc := service.NewExtractionService(extractor, engine, pdfReader, storage, cfg)

	// Handlers
	uiH := handler.NewUIHandler()
	extractH := handler.NewExtractHandler(extractionSvc, cfg.Upload.MaxBytes())
	exportH := handler.NewExportHandler()
	healthH := handler.NewHealthHandler(engine)

	r := router.Setup(cfg, uiH, extractH, exportH, healthH)

	log.Printf("Server starting on %s", cfg.Server.Port)
	if err := r.Run(cfg.Server.Port); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}
