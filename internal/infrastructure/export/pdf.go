package export

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"

	reportapp "github.com/ims/backend/internal/application/report"
	"github.com/ims/backend/internal/domain/inventory"
	"github.com/ims/backend/internal/domain/report"
	"github.com/ims/backend/internal/infrastructure/i18n"
)

//go:embed templates/report.html
var templateFS embed.FS

// PDFRenderer turns an HTML document into PDF bytes
type PDFRenderer interface {
	RenderPDF(ctx context.Context, html string) ([]byte, error)
}

// PDFExporter renders the report as an HTML table and prints it to PDF
type PDFExporter struct {
	renderer PDFRenderer
	tmpl     *template.Template
	format   *i18n.Formatter
}

// NewPDFExporter parses the report template. format may be nil.
func NewPDFExporter(renderer PDFRenderer, format *i18n.Formatter) (*PDFExporter, error) {
	if format == nil {
		format = i18n.Default()
	}
	tmpl, err := template.New("report.html").Funcs(template.FuncMap{
		"number": func(n int) string { return format.Number(int64(n)) },
	}).ParseFS(templateFS, "templates/report.html")
	if err != nil {
		return nil, fmt.Errorf("parse report template: %w", err)
	}
	return &PDFExporter{renderer: renderer, tmpl: tmpl, format: format}, nil
}

// Format implements reportapp.Exporter
func (e *PDFExporter) Format() string { return "pdf" }

// ContentType implements reportapp.Exporter
func (e *PDFExporter) ContentType() string { return "application/pdf" }

type reportView struct {
	Title       string
	StartDate   string
	EndDate     string
	Direction   report.DirectionFilter
	GeneratedAt string
	Rows        []report.ReportRow
	TotalIn     string
	TotalOut    string
}

// Export implements reportapp.Exporter
func (e *PDFExporter) Export(ctx context.Context, doc reportapp.Document) ([]byte, error) {
	html, err := e.renderHTML(doc)
	if err != nil {
		return nil, err
	}
	return e.renderer.RenderPDF(ctx, html)
}

func (e *PDFExporter) renderHTML(doc reportapp.Document) (string, error) {
	var in, out int64
	for _, row := range doc.Rows {
		switch row.Type {
		case string(inventory.DirectionIn):
			in += int64(row.Quantity)
		case string(inventory.DirectionOut):
			out += int64(row.Quantity)
		}
	}

	view := reportView{
		Title:       doc.Title,
		StartDate:   doc.StartDate.Format(reportapp.DateLayout),
		EndDate:     doc.EndDate.Format(reportapp.DateLayout),
		Direction:   doc.Direction,
		GeneratedAt: doc.GeneratedAt.Format("2006-01-02 15:04"),
		Rows:        doc.Rows,
		TotalIn:     e.format.Number(in),
		TotalOut:    e.format.Number(out),
	}

	var buf bytes.Buffer
	if err := e.tmpl.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("render report html: %w", err)
	}
	return buf.String(), nil
}
