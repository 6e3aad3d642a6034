package report

import (
	"context"
	"fmt"
	"time"

	"github.com/ims/backend/internal/application/validation"
	"github.com/ims/backend/internal/domain/report"
	"github.com/ims/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ReportTitle heads exported transaction reports
const ReportTitle = "Inventory Transaction Report"

// Exporter renders a report document into one file format
type Exporter interface {
	// Format is the value of the format query parameter, e.g. "csv"
	Format() string
	ContentType() string
	Export(ctx context.Context, doc Document) ([]byte, error)
}

// ReportService provides the read side: dashboard, chart and transaction
// reports with file export.
type ReportService struct {
	repo      report.ReportRepository
	exporters map[string]Exporter
	logger    *zap.Logger
	now       func() time.Time
}

// NewReportService creates a new ReportService with the given exporters
func NewReportService(repo report.ReportRepository, logger *zap.Logger, exporters ...Exporter) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	byFormat := make(map[string]Exporter, len(exporters))
	for _, e := range exporters {
		byFormat[e.Format()] = e
	}
	return &ReportService{
		repo:      repo,
		exporters: byFormat,
		logger:    logger,
		now:       time.Now,
	}
}

// Dashboard returns product aggregates and the latest ledger activity
func (s *ReportService) Dashboard(ctx context.Context, actor shared.Actor) (*report.DashboardStats, error) {
	if err := actor.Require(); err != nil {
		return nil, err
	}
	stats, err := s.repo.GetDashboardStats(ctx, report.RecentTransactionLimit)
	if err != nil {
		return nil, err
	}
	if stats.RecentTransactions == nil {
		stats.RecentTransactions = []report.RecentTransaction{}
	}
	return stats, nil
}

// Chart returns one IN/OUT point per day, zero filled
func (s *ReportService) Chart(ctx context.Context, actor shared.Actor, req ChartRequest) (*ChartResponse, error) {
	if err := actor.Require(); err != nil {
		return nil, err
	}
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	days := req.Days
	if days == 0 {
		days = report.DefaultChartDays
	}
	today := s.now()
	movements, err := s.repo.GetDailyMovements(ctx, report.ChartWindowStart(days, today))
	if err != nil {
		return nil, err
	}
	return &ChartResponse{
		Days:   days,
		Points: report.BuildChartSeries(movements, days, today),
	}, nil
}

// TransactionReport returns ledger rows in an inclusive date range
func (s *ReportService) TransactionReport(ctx context.Context, actor shared.Actor, req TransactionReportRequest) (*TransactionReportResponse, error) {
	if err := actor.Require(); err != nil {
		return nil, err
	}
	filter, err := s.parseFilter(req)
	if err != nil {
		return nil, err
	}

	rows, err := s.repo.GetTransactionReport(ctx, filter)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []report.ReportRow{}
	}
	return &TransactionReportResponse{
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Type:      string(filter.Direction),
		Count:     len(rows),
		Rows:      rows,
	}, nil
}

// Export renders the transaction report with the requested exporter
func (s *ReportService) Export(ctx context.Context, actor shared.Actor, req ExportRequest) (*ExportFile, error) {
	if err := actor.Require(); err != nil {
		return nil, err
	}
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	exporter, ok := s.exporters[req.Format]
	if !ok {
		return nil, shared.NewValidationError().Add("format", "Export format is not available: "+req.Format)
	}
	filter, err := s.parseFilter(req.TransactionReportRequest)
	if err != nil {
		return nil, err
	}

	rows, err := s.repo.GetTransactionReport(ctx, filter)
	if err != nil {
		return nil, err
	}
	for i := range rows {
		rows[i].DateText = rows[i].Date.Format(DateLayout)
	}

	data, err := exporter.Export(ctx, Document{
		Title:       ReportTitle,
		StartDate:   filter.StartDate,
		EndDate:     filter.EndDate,
		Direction:   filter.Direction,
		Rows:        rows,
		GeneratedAt: s.now(),
	})
	if err != nil {
		s.logger.Error("Report export failed", zap.String("format", req.Format), zap.Error(err))
		return nil, shared.NewStorageError("export_"+req.Format, err)
	}

	s.logger.Info("Report exported",
		zap.String("format", req.Format),
		zap.Int("rows", len(rows)),
		zap.String("user_id", actor.ID.String()))
	return &ExportFile{
		Filename:    ExportFilename(req.StartDate, req.EndDate, req.Format),
		ContentType: exporter.ContentType(),
		Data:        data,
	}, nil
}

// ExportFilename names an exported report file
func ExportFilename(start, end, ext string) string {
	return fmt.Sprintf("inventory-report_%s_to_%s.%s", start, end, ext)
}

func (s *ReportService) parseFilter(req TransactionReportRequest) (report.ReportFilter, error) {
	if err := validation.Struct(req); err != nil {
		return report.ReportFilter{}, err
	}

	loc := s.now().Location()
	start, err := time.ParseInLocation(DateLayout, req.StartDate, loc)
	if err != nil {
		return report.ReportFilter{}, shared.NewValidationError().Add("start_date", "Must be a date formatted as "+DateLayout)
	}
	end, err := time.ParseInLocation(DateLayout, req.EndDate, loc)
	if err != nil {
		return report.ReportFilter{}, shared.NewValidationError().Add("end_date", "Must be a date formatted as "+DateLayout)
	}
	if end.Before(start) {
		return report.ReportFilter{}, shared.NewValidationError().Add("end_date", "End date must not be before start date")
	}
	if end.Sub(start) > MaxReportRangeDays*24*time.Hour {
		return report.ReportFilter{}, shared.NewValidationError().Add("end_date", fmt.Sprintf("Range must not exceed %d days", MaxReportRangeDays))
	}

	direction := report.DirectionFilter(req.Type)
	if direction == "" {
		direction = report.DirectionAll
	}
	return report.ReportFilter{
		StartDate: start,
		EndDate:   end,
		Direction: direction,
	}, nil
}
