package domain

// FileType represents the allowed upload types.
type FileType string

const (
	FileTypePDF  FileType = "pdf"
	FileTypeJPG  FileType = "jpg"
	FileTypePNG  FileType = "png"
	FileTypeHEIC FileType = "heic"
)

// AllowedContentTypes maps MIME content types to FileType.
var AllowedContentTypes = map[string]FileType{
	"application/pdf": FileTypePDF,
	"image/jpeg":      FileTypeJPG,
	"image/png":       FileTypePNG,
	"image/heic":      FileTypeHEIC,
	"image/heif":      FileTypeHEIC,
}

// AllowedExtensions maps file extensions (without dot) to FileType.
var AllowedExtensions = map[string]FileType{
	"pdf":  FileTypePDF,
	"jpg":  FileTypeJPG,
	"jpeg": FileTypeJPG,
	"png":  FileTypePNG,
	"heic": FileTypeHEIC,
	"heif": FileTypeHEIC,
}

// IsImage reports whether the file type is a raster image (as opposed to PDF).
func (t FileType) IsImage() bool {
	return t == FileTypeJPG || t == FileTypePNG || t == FileTypeHEIC
}

// ExtractionStatus is the coarse outcome of an extraction run.
type ExtractionStatus string

const (
	// StatusSuccess: at least one meaningful field was extracted.
	StatusSuccess ExtractionStatus = "success"
	// StatusPartial: text was recognized but no invoice fields were detected.
	StatusPartial ExtractionStatus = "partial"
	// StatusError: no text could be recognized at all.
	StatusError ExtractionStatus = "error"
)
