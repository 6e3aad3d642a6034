package telemetry

import (
	"context"

	"gorm.io/gorm"
)

// GormLowStockCounter implements LowStockCounter against the products table.
type GormLowStockCounter struct {
	db *gorm.DB
}

// NewGormLowStockCounter creates a new GormLowStockCounter.
func NewGormLowStockCounter(db *gorm.DB) *GormLowStockCounter {
	return &GormLowStockCounter{db: db}
}

// CountLowStock counts products whose current stock is at or below their minimum.
func (p *GormLowStockCounter) CountLowStock(ctx context.Context) (int64, error) {
	var count int64
	err := p.db.WithContext(ctx).
		Table("products").
		Where("current_stock <= min_stock_level").
		Count(&count).Error
	return count, err
}
