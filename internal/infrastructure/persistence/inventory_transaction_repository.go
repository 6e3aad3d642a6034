package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/ims/backend/internal/domain/inventory"
	"github.com/ims/backend/internal/domain/shared"
	"github.com/ims/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormInventoryTransactionRepository implements the ledger store using GORM.
// It only ever inserts; there are no update or delete paths.
type GormInventoryTransactionRepository struct {
	db *gorm.DB
}

// NewGormInventoryTransactionRepository creates a new GormInventoryTransactionRepository
func NewGormInventoryTransactionRepository(db *gorm.DB) *GormInventoryTransactionRepository {
	return &GormInventoryTransactionRepository{db: db}
}

// Append inserts a ledger row
func (r *GormInventoryTransactionRepository) Append(ctx context.Context, tx *inventory.InventoryTransaction) error {
	return r.db.WithContext(ctx).Create(models.InventoryTransactionModelFromDomain(tx)).Error
}

// FindByID finds a ledger row by its ID
func (r *GormInventoryTransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.InventoryTransaction, error) {
	var model models.InventoryTransactionModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll lists ledger rows newest first
func (r *GormInventoryTransactionRepository) FindAll(ctx context.Context, filter shared.Filter) ([]inventory.InventoryTransaction, error) {
	var rows []models.InventoryTransactionModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.InventoryTransactionModel{}), filter).
		Order(transactionSort.clause(filter.OrderBy, filter.OrderDir)).
		Offset(filter.Offset()).
		Limit(filter.Limit())
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	txs := make([]inventory.InventoryTransaction, len(rows))
	for i := range rows {
		txs[i] = *rows[i].ToDomain()
	}
	return txs, nil
}

// Count counts ledger rows matching the filter
func (r *GormInventoryTransactionRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	if err := r.applyFilter(r.db.WithContext(ctx).Model(&models.InventoryTransactionModel{}), filter).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// SumByProduct returns the signed sum of every movement of a product
func (r *GormInventoryTransactionRepository) SumByProduct(ctx context.Context, productID uuid.UUID) (int64, error) {
	var sum int64
	err := r.db.WithContext(ctx).
		Model(&models.InventoryTransactionModel{}).
		Select("COALESCE(SUM(CASE WHEN type = ? THEN quantity ELSE -quantity END), 0)", inventory.DirectionIn).
		Where("product_id = ?", productID).
		Scan(&sum).Error
	if err != nil {
		return 0, err
	}
	return sum, nil
}

func (r *GormInventoryTransactionRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if productID, ok := filter.Filters["product_id"]; ok {
		query = query.Where("product_id = ?", productID)
	}
	if direction, ok := filter.Filters["type"]; ok {
		query = query.Where("type = ?", direction)
	}
	return query
}

var _ inventory.InventoryTransactionRepository = (*GormInventoryTransactionRepository)(nil)
