package report

import (
	"time"

	"github.com/ims/backend/internal/domain/report"
)

// DateLayout is the calendar-day format used by report query parameters
const DateLayout = "2006-01-02"

// MaxReportRangeDays bounds the transaction report window
const MaxReportRangeDays = 366

// ChartRequest selects the chart window
type ChartRequest struct {
	Days int `form:"days" binding:"min=0,max=90"`
}

// TransactionReportRequest filters the transaction report
type TransactionReportRequest struct {
	StartDate string `form:"start_date" binding:"required,datetime=2006-01-02"`
	EndDate   string `form:"end_date" binding:"required,datetime=2006-01-02"`
	Type      string `form:"type" binding:"omitempty,oneof=ALL IN OUT"`
}

// ExportRequest is a transaction report rendered into a file
type ExportRequest struct {
	TransactionReportRequest
	Format string `form:"format" binding:"required,oneof=csv xlsx pdf"`
}

// TransactionReportResponse is the JSON form of the transaction report
type TransactionReportResponse struct {
	StartDate string             `json:"start_date"`
	EndDate   string             `json:"end_date"`
	Type      string             `json:"type"`
	Count     int                `json:"count"`
	Rows      []report.ReportRow `json:"rows"`
}

// ChartResponse is the per-day IN/OUT series
type ChartResponse struct {
	Days   int                 `json:"days"`
	Points []report.ChartPoint `json:"points"`
}

// Document is everything an exporter needs to render a report file
type Document struct {
	Title       string
	StartDate   time.Time
	EndDate     time.Time
	Direction   report.DirectionFilter
	Rows        []report.ReportRow
	GeneratedAt time.Time
}

// ExportFile is a rendered report ready for download
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}
