package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ims/backend/internal/domain/report"
	"github.com/ims/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const dayLayout = "2006-01-02"

// GormReportRepository implements the read-side report queries using GORM
type GormReportRepository struct {
	db *gorm.DB
}

// NewGormReportRepository creates a new GormReportRepository
func NewGormReportRepository(db *gorm.DB) *GormReportRepository {
	return &GormReportRepository{db: db}
}

type productAggregates struct {
	TotalProducts   int64
	TotalStock      int64
	TotalAssetValue decimal.Decimal
	LowStockCount   int64
}

type ledgerRow struct {
	ID          uuid.UUID
	ProductID   uuid.UUID
	ProductName string
	SKU         string
	Type        string
	Quantity    int
	ActorName   string
	CreatedAt   time.Time
}

// GetDashboardStats returns product aggregates and the most recent ledger rows
func (r *GormReportRepository) GetDashboardStats(ctx context.Context, recentLimit int) (*report.DashboardStats, error) {
	var agg productAggregates
	err := r.db.WithContext(ctx).
		Model(&models.ProductModel{}).
		Select(`COUNT(*) AS total_products,
			COALESCE(SUM(current_stock), 0) AS total_stock,
			COALESCE(SUM(price * current_stock), 0) AS total_asset_value,
			COALESCE(SUM(CASE WHEN current_stock <= min_stock_level THEN 1 ELSE 0 END), 0) AS low_stock_count`).
		Scan(&agg).Error
	if err != nil {
		return nil, fmt.Errorf("dashboard aggregates: %w", err)
	}

	var rows []ledgerRow
	if recentLimit > 0 {
		err = r.ledgerQuery(ctx).
			Order("t.created_at DESC").
			Limit(recentLimit).
			Scan(&rows).Error
		if err != nil {
			return nil, fmt.Errorf("recent transactions: %w", err)
		}
	}

	recent := make([]report.RecentTransaction, len(rows))
	for i, row := range rows {
		recent[i] = report.RecentTransaction{
			ID:          row.ID,
			ProductID:   row.ProductID,
			ProductName: row.ProductName,
			Type:        row.Type,
			Quantity:    row.Quantity,
			ActorName:   row.ActorName,
			CreatedAt:   row.CreatedAt,
		}
	}

	return &report.DashboardStats{
		TotalProducts:      agg.TotalProducts,
		TotalStock:         agg.TotalStock,
		TotalAssetValue:    agg.TotalAssetValue.Round(2),
		LowStockCount:      agg.LowStockCount,
		RecentTransactions: recent,
	}, nil
}

// GetDailyMovements returns per-day IN and OUT totals since the given time.
// Days are bucketed by the database in its own calendar.
func (r *GormReportRepository) GetDailyMovements(ctx context.Context, since time.Time) ([]report.DailyMovement, error) {
	day := r.dayExpr("created_at")

	var rows []struct {
		Day       string
		Direction string
		Total     int64
	}
	err := r.db.WithContext(ctx).
		Model(&models.InventoryTransactionModel{}).
		Select(day+" AS day, type AS direction, COALESCE(SUM(quantity), 0) AS total").
		Where("created_at >= ?", since).
		Group(day + ", type").
		Order("day ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("daily movements: %w", err)
	}

	movements := make([]report.DailyMovement, 0, len(rows))
	for _, row := range rows {
		d, err := time.ParseInLocation(dayLayout, row.Day, time.Local)
		if err != nil {
			return nil, fmt.Errorf("daily movements: parse day %q: %w", row.Day, err)
		}
		movements = append(movements, report.DailyMovement{
			Day:       d,
			Direction: row.Direction,
			Total:     row.Total,
		})
	}
	return movements, nil
}

// GetTransactionReport returns ledger rows within the inclusive date range, oldest first
func (r *GormReportRepository) GetTransactionReport(ctx context.Context, filter report.ReportFilter) ([]report.ReportRow, error) {
	start := truncateDay(filter.StartDate)
	end := truncateDay(filter.EndDate).AddDate(0, 0, 1)

	query := r.ledgerQuery(ctx).
		Where("t.created_at >= ? AND t.created_at < ?", start, end)
	if filter.Direction == report.DirectionIn || filter.Direction == report.DirectionOut {
		query = query.Where("t.type = ?", string(filter.Direction))
	}

	var rows []ledgerRow
	if err := query.Order("t.created_at ASC").Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("transaction report: %w", err)
	}

	out := make([]report.ReportRow, len(rows))
	for i, row := range rows {
		out[i] = report.ReportRow{
			Date:        row.CreatedAt,
			ProductName: row.ProductName,
			SKU:         row.SKU,
			Type:        row.Type,
			Quantity:    row.Quantity,
			ActorName:   row.ActorName,
		}
	}
	return out, nil
}

// ledgerQuery joins ledger rows with product and actor names. Both joins are
// outer: products may be deleted while their history stays.
func (r *GormReportRepository) ledgerQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("inventory_transactions AS t").
		Select(`t.id, t.product_id, t.type, t.quantity, t.created_at,
			COALESCE(p.name, '') AS product_name,
			COALESCE(p.sku, '') AS sku,
			COALESCE(u.full_name, '') AS actor_name`).
		Joins("LEFT JOIN products AS p ON p.id = t.product_id").
		Joins("LEFT JOIN profiles AS u ON u.id = t.user_id")
}

func (r *GormReportRepository) dayExpr(column string) string {
	if r.db.Dialector.Name() == "sqlite" {
		return fmt.Sprintf("strftime('%%Y-%%m-%%d', %s)", column)
	}
	return fmt.Sprintf("TO_CHAR(%s, 'YYYY-MM-DD')", column)
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

var _ report.ReportRepository = (*GormReportRepository)(nil)
