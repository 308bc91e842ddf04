package handler

import (
	"net/http"

	_ "embed"

	"github.com/gin-gonic/gin"
)

//go:embed demo.html
var demoPage []byte

// UIHandler serves the embedded demo upload page.
type UIHandler struct{}

// NewUIHandler creates a new UIHandler.
func NewUIHandler() *UIHandler {
	return &UIHandler{}
}

// Index handles GET /
func (h *UIHandler) Index(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", demoPage)
}
