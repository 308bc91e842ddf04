package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":7860", cfg.Server.Port)
	assert.Equal(t, "development", cfg.Server.Environment)

	assert.Equal(t, "eng", cfg.OCR.Language)
	assert.Equal(t, 6, cfg.OCR.PageSegMode)
	assert.Equal(t, 300.0, cfg.OCR.DPI)

	assert.Equal(t, "₹", cfg.Heuristics.CurrencySymbol)
	assert.Equal(t, 0.02, cfg.Heuristics.ReconcileMargin)
	assert.Equal(t, 0.08, cfg.Heuristics.GSTMismatchMargin)
	assert.Equal(t, 18.0, cfg.Heuristics.GSTMarkerRate)
	assert.Equal(t, 30, cfg.Heuristics.DueDateDays)
	assert.Equal(t, 50, cfg.Heuristics.MinTextLen)

	assert.Equal(t, int64(25), cfg.Upload.MaxFileSizeMB)
	assert.Equal(t, int64(25*1024*1024), cfg.Upload.MaxBytes())

	assert.False(t, cfg.S3.Enabled())
	assert.Equal(t, []string{"http://localhost:3000", "http://127.0.0.1:3000"}, cfg.CORS.AllowedOrigins)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("INVOSCAN_SERVER_PORT", ":8080")
	t.Setenv("INVOSCAN_OCR_LANGUAGE", "eng+hin")
	t.Setenv("INVOSCAN_HEURISTICS_GST_MARKER_RATE", "12")
	t.Setenv("INVOSCAN_S3_BUCKET", "invoices")
	t.Setenv("INVOSCAN_CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Port)
	assert.Equal(t, "eng+hin", cfg.OCR.Language)
	assert.Equal(t, 12.0, cfg.Heuristics.GSTMarkerRate)
	assert.True(t, cfg.S3.Enabled())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	t.Setenv("INVOSCAN_OCR_DPI", "-1")
	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_RejectsZeroMarkerRate(t *testing.T) {
	t.Setenv("INVOSCAN_HEURISTICS_GST_MARKER_RATE", "0")
	_, err := Load()
	assert.Error(t, err)
}
