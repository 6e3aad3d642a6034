package export

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/360EntSecGroup-Skylar/excelize"
	reportapp "github.com/ims/backend/internal/application/report"
	"github.com/ims/backend/internal/domain/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDocument() reportapp.Document {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)
	return reportapp.Document{
		Title:     reportapp.ReportTitle,
		StartDate: start,
		EndDate:   end,
		Direction: report.DirectionAll,
		Rows: []report.ReportRow{
			{DateText: "2026-03-02 09:15", ProductName: "Widget, large", SKU: "W-1", Type: "IN", Quantity: 1200, ActorName: "Ana"},
			{DateText: "2026-03-03 14:00", ProductName: "Widget, large", SKU: "W-1", Type: "OUT", Quantity: 200, ActorName: "Budi"},
		},
		GeneratedAt: end,
	}
}

func TestCSVExporter(t *testing.T) {
	e := NewCSVExporter()
	assert.Equal(t, "csv", e.Format())
	assert.Contains(t, e.ContentType(), "text/csv")

	data, err := e.Export(context.Background(), sampleDocument())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Date,Product,SKU,Type,Quantity,Officer", lines[0])
	assert.Equal(t, `2026-03-02 09:15,"Widget, large",W-1,IN,1200,Ana`, lines[1])
	assert.Equal(t, `2026-03-03 14:00,"Widget, large",W-1,OUT,200,Budi`, lines[2])
}

func TestCSVExporter_EmptyReportHasHeader(t *testing.T) {
	doc := sampleDocument()
	doc.Rows = nil

	data, err := NewCSVExporter().Export(context.Background(), doc)
	require.NoError(t, err)
	assert.Equal(t, "Date,Product,SKU,Type,Quantity,Officer", strings.TrimSpace(string(data)))
}

func TestXLSXExporter(t *testing.T) {
	e := NewXLSXExporter()
	assert.Equal(t, "xlsx", e.Format())

	data, err := e.Export(context.Background(), sampleDocument())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)

	assert.Equal(t, reportapp.ReportTitle, f.GetCellValue(xlsxSheet, "A1"))
	assert.Contains(t, f.GetCellValue(xlsxSheet, "A2"), "2026-03-01 to 2026-03-31")
	assert.Equal(t, "Officer", f.GetCellValue(xlsxSheet, "F4"))
	assert.Equal(t, "Widget, large", f.GetCellValue(xlsxSheet, "B5"))
	assert.Equal(t, "1200", f.GetCellValue(xlsxSheet, "E5"))
	assert.Equal(t, "Budi", f.GetCellValue(xlsxSheet, "F6"))
	assert.Empty(t, f.GetCellValue(xlsxSheet, "A7"))
}

type fakeRenderer struct {
	html string
	err  error
}

func (f *fakeRenderer) RenderPDF(_ context.Context, html string) ([]byte, error) {
	f.html = html
	if f.err != nil {
		return nil, f.err
	}
	return []byte("%PDF-1.4"), nil
}

func TestPDFExporter(t *testing.T) {
	renderer := &fakeRenderer{}
	e, err := NewPDFExporter(renderer, nil)
	require.NoError(t, err)
	assert.Equal(t, "pdf", e.Format())
	assert.Equal(t, "application/pdf", e.ContentType())

	data, err := e.Export(context.Background(), sampleDocument())
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.4"), data)

	html := renderer.html
	assert.Contains(t, html, "<title>"+reportapp.ReportTitle+"</title>")
	assert.Contains(t, html, "Period 2026-03-01 to 2026-03-31")
	assert.Contains(t, html, "1,200")
	assert.Contains(t, html, "Budi")
	assert.NotContains(t, html, "No transactions")
}

func TestPDFExporter_EmptyAndFailure(t *testing.T) {
	renderer := &fakeRenderer{}
	e, err := NewPDFExporter(renderer, nil)
	require.NoError(t, err)

	doc := sampleDocument()
	doc.Rows = nil
	_, err = e.Export(context.Background(), doc)
	require.NoError(t, err)
	assert.Contains(t, renderer.html, "No transactions in this period.")

	renderer.err = errors.New("chrome not found")
	_, err = e.Export(context.Background(), sampleDocument())
	assert.ErrorContains(t, err, "chrome not found")
}

func TestChromedpRenderer_Defaults(t *testing.T) {
	r := NewChromedpRenderer(ChromedpConfig{})
	defer r.Close()

	assert.Equal(t, defaultChromeTimeout, r.config.Timeout)
	_, err := r.RenderPDF(context.Background(), "")
	assert.Error(t, err)
}
