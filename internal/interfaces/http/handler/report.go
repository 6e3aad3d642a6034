package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	reportapp "github.com/ims/backend/internal/application/report"
	"github.com/ims/backend/internal/domain/report"
	"github.com/ims/backend/internal/domain/shared"
)

// ReportService is the read-side API the report endpoints drive
type ReportService interface {
	Dashboard(ctx context.Context, actor shared.Actor) (*report.DashboardStats, error)
	Chart(ctx context.Context, actor shared.Actor, req reportapp.ChartRequest) (*reportapp.ChartResponse, error)
	TransactionReport(ctx context.Context, actor shared.Actor, req reportapp.TransactionReportRequest) (*reportapp.TransactionReportResponse, error)
	Export(ctx context.Context, actor shared.Actor, req reportapp.ExportRequest) (*reportapp.ExportFile, error)
}

// ReportHandler serves dashboards and report downloads
type ReportHandler struct {
	BaseHandler
	reportService ReportService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// Dashboard godoc
// @Summary      Dashboard statistics
// @Tags         reports
// @Produce      json
// @Success      200 {object} APIResponse[report.DashboardStats]
// @Security     BearerAuth
// @Router       /reports/dashboard [get]
func (h *ReportHandler) Dashboard(c *gin.Context) {
	stats, err := h.reportService.Dashboard(c.Request.Context(), actor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stats)
}

// Chart godoc
// @Summary      Daily IN/OUT series
// @Tags         reports
// @Produce      json
// @Param        days query int false "Window in days" default(7)
// @Success      200 {object} APIResponse[reportapp.ChartResponse]
// @Security     BearerAuth
// @Router       /reports/chart [get]
func (h *ReportHandler) Chart(c *gin.Context) {
	var req reportapp.ChartRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindError(c, err)
		return
	}
	chart, err := h.reportService.Chart(c.Request.Context(), actor(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, chart)
}

// TransactionReport godoc
// @Summary      Transaction report
// @Tags         reports
// @Produce      json
// @Param        start_date query string true "First day (YYYY-MM-DD)"
// @Param        end_date query string true "Last day (YYYY-MM-DD)"
// @Param        type query string false "Direction" Enums(ALL, IN, OUT)
// @Success      200 {object} APIResponse[reportapp.TransactionReportResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /reports/transactions [get]
func (h *ReportHandler) TransactionReport(c *gin.Context) {
	var req reportapp.TransactionReportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindError(c, err)
		return
	}
	result, err := h.reportService.TransactionReport(c.Request.Context(), actor(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Export godoc
// @Summary      Download the transaction report
// @Tags         reports
// @Produce      text/csv,application/vnd.openxmlformats-officedocument.spreadsheetml.sheet,application/pdf
// @Param        start_date query string true "First day (YYYY-MM-DD)"
// @Param        end_date query string true "Last day (YYYY-MM-DD)"
// @Param        type query string false "Direction" Enums(ALL, IN, OUT)
// @Param        format query string true "File format" Enums(csv, xlsx, pdf)
// @Success      200 {file} file
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /reports/transactions/export [get]
func (h *ReportHandler) Export(c *gin.Context) {
	var req reportapp.ExportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindError(c, err)
		return
	}
	file, err := h.reportService.Export(c.Request.Context(), actor(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+strconv.Quote(file.Filename))
	c.Data(http.StatusOK, file.ContentType, file.Data)
}
