package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoscan/internal/domain"
	"invoscan/internal/export"
)

func setupExportRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/v1/invoices/export", NewExportHandler().Export)
	return r
}

func exportRequest(t *testing.T, rec domain.InvoiceRecord, query string) *http.Request {
	t.Helper()
	body, err := json.Marshal(rec)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/invoices/export"+query, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestExport_CSV(t *testing.T) {
	r := setupExportRouter()
	rec := domain.NewInvoiceRecord()
	rec.InvoiceNumber = "INV-398"
	rec.Vendor = "Sharma Trading Co."

	w := httptest.NewRecorder()
	r.ServeHTTP(w, exportRequest(t, rec, ""))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, w.Header().Get("Content-Disposition"), "INV-398")
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), export.BOM))
	assert.Contains(t, w.Body.String(), "Invoice Number")
	assert.Contains(t, w.Body.String(), "Sharma Trading Co.")
}

func TestExport_XLSX(t *testing.T) {
	r := setupExportRouter()
	rec := domain.NewInvoiceRecord()
	rec.InvoiceNumber = "INV-398"

	w := httptest.NewRecorder()
	r.ServeHTTP(w, exportRequest(t, rec, "?format=xlsx"))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "spreadsheetml")
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".xlsx")
	// XLSX container is a zip archive.
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("PK")))
}

func TestExport_InvalidFormat(t *testing.T) {
	r := setupExportRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, exportRequest(t, domain.NewInvoiceRecord(), "?format=pdf"))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_FORMAT")
}

func TestExport_InvalidBody(t *testing.T) {
	r := setupExportRouter()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/invoices/export", strings.NewReader("not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_RECORD")
}
