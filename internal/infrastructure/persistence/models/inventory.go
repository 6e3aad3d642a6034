package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/ims/backend/internal/domain/inventory"
	"github.com/ims/backend/internal/domain/shared"
)

// InventoryTransactionModel is the persistence model for a ledger row.
// The table has no updated_at column: rows are never modified.
type InventoryTransactionModel struct {
	ID          uuid.UUID           `gorm:"type:uuid;primaryKey"`
	ProductID   uuid.UUID           `gorm:"type:uuid;not null;index:idx_inventory_transactions_product_created,priority:1"`
	Type        inventory.Direction `gorm:"type:varchar(3);not null;check:chk_inventory_transactions_type,type IN ('IN','OUT')"`
	Quantity    int                 `gorm:"not null;check:chk_inventory_transactions_quantity,quantity >= 1"`
	Notes       string              `gorm:"type:varchar(500);not null;default:''"`
	UserID      uuid.UUID           `gorm:"type:uuid;not null;index"`
	StockBefore int                 `gorm:"not null"`
	StockAfter  int                 `gorm:"not null"`
	CreatedAt   time.Time           `gorm:"not null;index;index:idx_inventory_transactions_product_created,priority:2"`
}

// TableName returns the table name for GORM
func (InventoryTransactionModel) TableName() string {
	return "inventory_transactions"
}

// ToDomain converts the persistence model to a domain InventoryTransaction.
func (m *InventoryTransactionModel) ToDomain() *inventory.InventoryTransaction {
	return &inventory.InventoryTransaction{
		BaseEntity: shared.BaseEntity{
			ID:        m.ID,
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.CreatedAt,
		},
		ProductID:   m.ProductID,
		Direction:   m.Type,
		Quantity:    m.Quantity,
		Note:        m.Notes,
		ActorID:     m.UserID,
		StockBefore: m.StockBefore,
		StockAfter:  m.StockAfter,
	}
}

// FromDomain populates the persistence model from a domain InventoryTransaction.
func (m *InventoryTransactionModel) FromDomain(t *inventory.InventoryTransaction) {
	m.ID = t.ID
	m.ProductID = t.ProductID
	m.Type = t.Direction
	m.Quantity = t.Quantity
	m.Notes = t.Note
	m.UserID = t.ActorID
	m.StockBefore = t.StockBefore
	m.StockAfter = t.StockAfter
	m.CreatedAt = t.CreatedAt
}

// InventoryTransactionModelFromDomain creates a persistence model from a ledger row.
func InventoryTransactionModelFromDomain(t *inventory.InventoryTransaction) *InventoryTransactionModel {
	m := &InventoryTransactionModel{}
	m.FromDomain(t)
	return m
}
