package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"invoscan/internal/domain"
	"invoscan/internal/service"
)

// ExtractHandler handles invoice upload and extraction endpoints.
type ExtractHandler struct {
	extractionService service.ExtractionService
	maxBytes          int64
}

// NewExtractHandler creates a new ExtractHandler.
func NewExtractHandler(extractionService service.ExtractionService, maxBytes int64) *ExtractHandler {
	return &ExtractHandler{extractionService: extractionService, maxBytes: maxBytes}
}

// Upload handles POST /upload
// @Summary Extract invoice fields from an uploaded document
// @Description Upload an invoice (PDF, JPG, PNG, or HEIC) and get extracted fields
// @Tags invoices
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Invoice file (PDF, JPG, PNG, or HEIC)"
// @Param debug query string false "Set to 1 to include recognized text in the response"
// @Success 200 {object} APIResponse "Extraction result"
// @Failure 400 {object} APIResponse "Missing file or unsupported type"
// @Failure 413 {object} APIResponse "File too large"
// @Router /upload [post]
func (h *ExtractHandler) Upload(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "file field is required")
		return
	}
	defer func() { _ = file.Close() }()

	if header.Size > h.maxBytes {
		HandleError(c, domain.ErrFileTooLarge)
		return
	}
	data, err := io.ReadAll(io.LimitReader(file, h.maxBytes+1))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "READ_FAILED", "could not read uploaded file")
		return
	}

	result, err := h.extractionService.ExtractUpload(c.Request.Context(), service.ExtractInput{
		Filename:     header.Filename,
		ContentType:  header.Header.Get("Content-Type"),
		Data:         data,
		IncludeDebug: c.Query("debug") == "1",
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, result)
}
