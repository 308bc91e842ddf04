package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"invoscan/internal/domain"
)

// WriteXLSX returns an XLSX workbook (as bytes) with a summary sheet of
// invoice-level fields and an items sheet with one row per line item.
func WriteXLSX(rec *domain.InvoiceRecord) ([]byte, error) {
	f := excelize.NewFile()

	const summarySheet = "Invoice"
	const itemsSheet = "Items"

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(itemsSheet); err != nil {
		return nil, err
	}
	activeIndex, _ := f.GetSheetIndex(summarySheet)
	f.SetActiveSheet(activeIndex)

	summary := [][2]any{
		{"Invoice Number", rec.InvoiceNumber},
		{"Invoice Date", rec.Date},
		{"Due Date", rec.DueDate},
		{"Vendor", rec.Vendor},
		{"Description", rec.Description},
		{"Total", rec.Total},
		{"GST Rate", formatOptional(rec.GSTRate)},
		{"Has GST", formatBool(rec.HasGST)},
		{"Notes", rec.Notes},
		{"Line Item Count", len(rec.Items)},
	}
	for i, pair := range summary {
		labelCell, _ := excelize.CoordinatesToCellName(1, i+1)
		valueCell, _ := excelize.CoordinatesToCellName(2, i+1)
		_ = f.SetCellValue(summarySheet, labelCell, pair[0])
		_ = f.SetCellValue(summarySheet, valueCell, pair[1])
	}
	_ = f.SetColWidth(summarySheet, "A", "A", 18)
	_ = f.SetColWidth(summarySheet, "B", "B", 40)

	itemHeaders := []string{"Index", "Description", "Quantity", "Unit", "Rate", "Amount", "GST"}
	for i, h := range itemHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(itemsSheet, cell, h)
	}

	row := 2
	for _, item := range rec.Items {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(itemsSheet, cell, v)
		}
		write(1, item.Index)
		write(2, item.Description)
		write(3, item.Quantity)
		if item.Unit != nil {
			write(4, *item.Unit)
		}
		if item.Rate != nil {
			write(5, *item.Rate)
		}
		if item.Amount != nil {
			write(6, *item.Amount)
		}
		if item.GST != nil {
			write(7, *item.GST)
		}
		row++
	}
	_ = f.SetColWidth(itemsSheet, "B", "B", 40)
	_ = f.SetColWidth(itemsSheet, "C", "G", 12)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}
