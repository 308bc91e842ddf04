package domain

import "errors"

var (
	ErrMissingFile         = errors.New("file field is required")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file exceeds maximum allowed size")
	ErrEmptyFile           = errors.New("uploaded file is empty")
	ErrInvalidRecord       = errors.New("invoice record does not match expected format")
	ErrArchiveFailed       = errors.New("file upload to archive storage failed")
)
