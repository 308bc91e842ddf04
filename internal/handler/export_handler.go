package handler

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"invoscan/internal/domain"
	"invoscan/internal/export"
)

// ExportHandler handles invoice record download endpoints.
type ExportHandler struct{}

// NewExportHandler creates a new ExportHandler.
func NewExportHandler() *ExportHandler {
	return &ExportHandler{}
}

// Export handles POST /api/v1/invoices/export
// @Summary Export an invoice record as CSV or XLSX
// @Description Convert an extracted invoice record into a downloadable file
// @Tags invoices
// @Accept json
// @Produce text/csv
// @Param format query string false "Export format: csv (default) or xlsx"
// @Param record body domain.InvoiceRecord true "Invoice record to export"
// @Success 200 {file} file "Exported file"
// @Failure 400 {object} APIResponse "Invalid record or format"
// @Router /invoices/export [post]
func (h *ExportHandler) Export(c *gin.Context) {
	var rec domain.InvoiceRecord
	if err := c.ShouldBindJSON(&rec); err != nil {
		HandleError(c, domain.ErrInvalidRecord)
		return
	}

	format := c.DefaultQuery("format", "csv")
	switch format {
	case "csv":
		var buf bytes.Buffer
		buf.Write(export.BOM)
		w := export.NewCSVWriter(&buf)
		if err := w.WriteHeader(); err != nil {
			HandleError(c, err)
			return
		}
		if err := w.WriteRecord(&rec); err != nil {
			HandleError(c, err)
			return
		}
		w.Flush()
		if err := w.Error(); err != nil {
			HandleError(c, err)
			return
		}
		sendDownload(c, "text/csv; charset=utf-8", export.BuildFilename(rec.InvoiceNumber, "csv"), buf.Bytes())
	case "xlsx":
		data, err := export.WriteXLSX(&rec)
		if err != nil {
			HandleError(c, err)
			return
		}
		sendDownload(c,
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			export.BuildFilename(rec.InvoiceNumber, "xlsx"), data)
	default:
		RespondError(c, http.StatusBadRequest, "INVALID_FORMAT", "format must be csv or xlsx")
	}
}

func sendDownload(c *gin.Context, contentType, filename string, data []byte) {
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, contentType, data)
}
