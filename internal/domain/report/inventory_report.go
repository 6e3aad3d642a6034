package report

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Chart window limits in days
const (
	DefaultChartDays = 7
	MaxChartDays     = 90
)

// RecentTransactionLimit is how many ledger rows the dashboard shows
const RecentTransactionLimit = 5

// DirectionFilter selects ledger rows by direction in reports
type DirectionFilter string

const (
	DirectionAll DirectionFilter = "ALL"
	DirectionIn  DirectionFilter = "IN"
	DirectionOut DirectionFilter = "OUT"
)

// IsValid returns true if the filter is ALL, IN or OUT
func (d DirectionFilter) IsValid() bool {
	switch d {
	case DirectionAll, DirectionIn, DirectionOut:
		return true
	}
	return false
}

// DashboardStats is the read model behind the dashboard cards
type DashboardStats struct {
	TotalProducts      int64               `json:"total_products"`
	TotalStock         int64               `json:"total_stock"`
	TotalAssetValue    decimal.Decimal     `json:"total_asset_value"`
	LowStockCount      int64               `json:"low_stock_count"`
	RecentTransactions []RecentTransaction `json:"recent_transactions"`
}

// RecentTransaction is a ledger row joined with product and actor names.
// Names are empty when the product or profile no longer exists.
type RecentTransaction struct {
	ID          uuid.UUID `json:"id"`
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name"`
	Type        string    `json:"type"`
	Quantity    int       `json:"quantity"`
	ActorName   string    `json:"actor_name"`
	CreatedAt   time.Time `json:"created_at"`
}

// ChartPoint is one day of IN/OUT totals
type ChartPoint struct {
	Date string `json:"date"`
	In   int64  `json:"in"`
	Out  int64  `json:"out"`
}

// DailyMovement is a raw per-day, per-direction total from the ledger
type DailyMovement struct {
	Day       time.Time
	Direction string
	Total     int64
}

// ReportRow is one line of the transaction report and its export formats
type ReportRow struct {
	Date        time.Time `json:"date" csv:"-"`
	DateText    string    `json:"-" csv:"Date"`
	ProductName string    `json:"product_name" csv:"Product"`
	SKU         string    `json:"sku" csv:"SKU"`
	Type        string    `json:"type" csv:"Type"`
	Quantity    int       `json:"quantity" csv:"Quantity"`
	ActorName   string    `json:"actor_name" csv:"Officer"`
}

// ReportFilter selects ledger rows for the transaction report.
// Both dates are inclusive calendar days.
type ReportFilter struct {
	StartDate time.Time
	EndDate   time.Time
	Direction DirectionFilter
}

// ReportRepository defines read-side queries over products and the ledger
type ReportRepository interface {
	// GetDashboardStats returns product aggregates and the most recent ledger rows
	GetDashboardStats(ctx context.Context, recentLimit int) (*DashboardStats, error)

	// GetDailyMovements returns per-day IN and OUT totals since the given time
	GetDailyMovements(ctx context.Context, since time.Time) ([]DailyMovement, error)

	// GetTransactionReport returns ledger rows in the filter's range, oldest first
	GetTransactionReport(ctx context.Context, filter ReportFilter) ([]ReportRow, error)
}
