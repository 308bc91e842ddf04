package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"invoscan/internal/port"
	"invoscan/internal/service"
)

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	recognizer port.TextRecognizer
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(recognizer port.TextRecognizer) *HealthHandler {
	return &HealthHandler{recognizer: recognizer}
}

// Liveness handles GET /healthz
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":         "ok",
		"ocr_available":  h.recognizer.Available(),
		"parser_version": service.ParserVersion,
	})
}
