package export

import (
	"context"
	"fmt"

	"github.com/360EntSecGroup-Skylar/excelize"
	reportapp "github.com/ims/backend/internal/application/report"
)

const xlsxSheet = "Report"

var xlsxColumns = []struct {
	cell  string
	title string
	width float64
}{
	{"A", "Date", 20},
	{"B", "Product", 32},
	{"C", "SKU", 16},
	{"D", "Type", 8},
	{"E", "Quantity", 10},
	{"F", "Officer", 24},
}

// XLSXExporter writes a single worksheet with a title row, a header row and
// the report rows.
type XLSXExporter struct{}

// NewXLSXExporter creates an XLSXExporter
func NewXLSXExporter() *XLSXExporter {
	return &XLSXExporter{}
}

// Format implements reportapp.Exporter
func (e *XLSXExporter) Format() string { return "xlsx" }

// ContentType implements reportapp.Exporter
func (e *XLSXExporter) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// Export implements reportapp.Exporter
func (e *XLSXExporter) Export(_ context.Context, doc reportapp.Document) ([]byte, error) {
	f := excelize.NewFile()
	f.SetSheetName(f.GetSheetName(1), xlsxSheet)

	f.SetCellValue(xlsxSheet, "A1", doc.Title)
	f.SetCellValue(xlsxSheet, "A2", fmt.Sprintf("Period: %s to %s (%s)",
		doc.StartDate.Format(reportapp.DateLayout), doc.EndDate.Format(reportapp.DateLayout), doc.Direction))

	bold, err := f.NewStyle(`{"font":{"bold":true}}`)
	if err != nil {
		return nil, fmt.Errorf("create xlsx style: %w", err)
	}
	for _, col := range xlsxColumns {
		f.SetCellValue(xlsxSheet, col.cell+"4", col.title)
		f.SetColWidth(xlsxSheet, col.cell, col.cell, col.width)
	}
	f.SetCellStyle(xlsxSheet, "A4", "F4", bold)
	f.SetCellStyle(xlsxSheet, "A1", "A1", bold)

	for i, row := range doc.Rows {
		line := i + 5
		f.SetCellValue(xlsxSheet, fmt.Sprintf("A%d", line), row.DateText)
		f.SetCellValue(xlsxSheet, fmt.Sprintf("B%d", line), row.ProductName)
		f.SetCellValue(xlsxSheet, fmt.Sprintf("C%d", line), row.SKU)
		f.SetCellValue(xlsxSheet, fmt.Sprintf("D%d", line), row.Type)
		f.SetCellValue(xlsxSheet, fmt.Sprintf("E%d", line), row.Quantity)
		f.SetCellValue(xlsxSheet, fmt.Sprintf("F%d", line), row.ActorName)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write xlsx: %w", err)
	}
	return buf.Bytes(), nil
}
