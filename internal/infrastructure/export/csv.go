// Package export renders transaction reports as CSV, XLSX and PDF files.
package export

import (
	"context"
	"fmt"

	"github.com/gocarina/gocsv"
	reportapp "github.com/ims/backend/internal/application/report"
	"github.com/ims/backend/internal/domain/report"
)

var (
	_ reportapp.Exporter = (*CSVExporter)(nil)
	_ reportapp.Exporter = (*XLSXExporter)(nil)
	_ reportapp.Exporter = (*PDFExporter)(nil)
)

// CSVExporter writes one header line and one line per report row
type CSVExporter struct{}

// NewCSVExporter creates a CSVExporter
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// Format implements reportapp.Exporter
func (e *CSVExporter) Format() string { return "csv" }

// ContentType implements reportapp.Exporter
func (e *CSVExporter) ContentType() string { return "text/csv; charset=utf-8" }

// Export implements reportapp.Exporter
func (e *CSVExporter) Export(_ context.Context, doc reportapp.Document) ([]byte, error) {
	rows := doc.Rows
	if rows == nil {
		rows = []report.ReportRow{}
	}
	data, err := gocsv.MarshalBytes(&rows)
	if err != nil {
		return nil, fmt.Errorf("marshal csv: %w", err)
	}
	return data, nil
}
