package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig
	OCR        OCRConfig
	Heuristics HeuristicsConfig
	Upload     UploadConfig
	S3         S3Config
	CORS       CORSConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// OCRConfig holds tesseract invocation settings.
type OCRConfig struct {
	Language    string  `mapstructure:"language"`
	PageSegMode int     `mapstructure:"page_seg_mode"`
	DPI         float64 `mapstructure:"dpi"`
}

// HeuristicsConfig holds the text-parser policy constants. The defaults
// encode an Indian GST invoice convention (rupee totals, 18% GST marker);
// they are configuration, not universal rules.
type HeuristicsConfig struct {
	CurrencySymbol    string  `mapstructure:"currency_symbol"`
	ReconcileMargin   float64 `mapstructure:"reconcile_margin"`
	GSTMismatchMargin float64 `mapstructure:"gst_mismatch_margin"`
	GSTMarkerRate     float64 `mapstructure:"gst_marker_rate"`
	DueDateDays       int     `mapstructure:"due_date_days"`
	MinTextLen        int     `mapstructure:"min_text_len"`
}

// UploadConfig holds upload limits.
type UploadConfig struct {
	MaxFileSizeMB int64 `mapstructure:"max_file_size_mb"`
}

// MaxBytes returns the upload size limit in bytes.
func (u *UploadConfig) MaxBytes() int64 {
	return u.MaxFileSizeMB * 1024 * 1024
}

// S3Config holds optional archival storage settings. Archival is disabled
// when Bucket is empty.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// Enabled reports whether uploads should be archived to S3.
func (s *S3Config) Enabled() bool { return s.Bucket != "" }

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// Load reads configuration from environment variables with the INVOSCAN_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("INVOSCAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":7860")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.environment", "development")

	// OCR defaults (PSM 6 = assume a single uniform block of text)
	v.SetDefault("ocr.language", "eng")
	v.SetDefault("ocr.page_seg_mode", 6)
	v.SetDefault("ocr.dpi", 300)

	// Heuristics defaults
	v.SetDefault("heuristics.currency_symbol", "₹")
	v.SetDefault("heuristics.reconcile_margin", 0.02)
	v.SetDefault("heuristics.gst_mismatch_margin", 0.08)
	v.SetDefault("heuristics.gst_marker_rate", 18.0)
	v.SetDefault("heuristics.due_date_days", 30)
	v.SetDefault("heuristics.min_text_len", 50)

	// Upload defaults
	v.SetDefault("upload.max_file_size_mb", 25)

	// S3 defaults (archival disabled unless a bucket is set)
	v.SetDefault("s3.region", "ap-south-1")
	v.SetDefault("s3.bucket", "")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.access_key", "")
	v.SetDefault("s3.secret_key", "")
	v.SetDefault("s3.presign_expiry", 3600)

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                   "INVOSCAN_SERVER_PORT",
		"server.read_timeout":           "INVOSCAN_SERVER_READ_TIMEOUT",
		"server.write_timeout":          "INVOSCAN_SERVER_WRITE_TIMEOUT",
		"server.environment":            "INVOSCAN_SERVER_ENVIRONMENT",
		"ocr.language":                  "INVOSCAN_OCR_LANGUAGE",
		"ocr.page_seg_mode":             "INVOSCAN_OCR_PAGE_SEG_MODE",
		"ocr.dpi":                       "INVOSCAN_OCR_DPI",
		"heuristics.currency_symbol":    "INVOSCAN_HEURISTICS_CURRENCY_SYMBOL",
		"heuristics.reconcile_margin":   "INVOSCAN_HEURISTICS_RECONCILE_MARGIN",
		"heuristics.gst_mismatch_margin": "INVOSCAN_HEURISTICS_GST_MISMATCH_MARGIN",
		"heuristics.gst_marker_rate":    "INVOSCAN_HEURISTICS_GST_MARKER_RATE",
		"heuristics.due_date_days":      "INVOSCAN_HEURISTICS_DUE_DATE_DAYS",
		"heuristics.min_text_len":       "INVOSCAN_HEURISTICS_MIN_TEXT_LEN",
		"upload.max_file_size_mb":       "INVOSCAN_UPLOAD_MAX_FILE_SIZE_MB",
		"s3.region":                     "INVOSCAN_S3_REGION",
		"s3.bucket":                     "INVOSCAN_S3_BUCKET",
		"s3.endpoint":                   "INVOSCAN_S3_ENDPOINT",
		"s3.access_key":                 "INVOSCAN_S3_ACCESS_KEY",
		"s3.secret_key":                 "INVOSCAN_S3_SECRET_KEY",
		"s3.presign_expiry":             "INVOSCAN_S3_PRESIGN_EXPIRY",
		"cors.allowed_origins":          "INVOSCAN_CORS_ALLOWED_ORIGINS",
	}
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("binding %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	// allowed_origins arrives as a comma-separated string from env
	if len(cfg.CORS.AllowedOrigins) == 1 && strings.Contains(cfg.CORS.AllowedOrigins[0], ",") {
		cfg.CORS.AllowedOrigins = strings.Split(cfg.CORS.AllowedOrigins[0], ",")
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Heuristics.GSTMarkerRate <= 0 {
		return fmt.Errorf("heuristics.gst_marker_rate must be positive, got %v", c.Heuristics.GSTMarkerRate)
	}
	if c.Heuristics.ReconcileMargin < 0 || c.Heuristics.GSTMismatchMargin < 0 {
		return fmt.Errorf("heuristics margins must be non-negative")
	}
	if c.OCR.DPI <= 0 {
		return fmt.Errorf("ocr.dpi must be positive, got %v", c.OCR.DPI)
	}
	if c.Upload.MaxFileSizeMB <= 0 {
		return fmt.Errorf("upload.max_file_size_mb must be positive, got %d", c.Upload.MaxFileSizeMB)
	}
	return nil
}
