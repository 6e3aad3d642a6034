package persistence

import (
	"context"

	appinv "github.com/ims/backend/internal/application/inventory"
	"gorm.io/gorm"
)

// GormTransactionScope binds the product and ledger repositories to one
// gorm transaction per Execute call
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a scope that opens transactions on db
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs fn inside one transaction. It commits when fn returns nil and
// rolls back on an error or panic.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(appinv.TxRepos) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(appinv.TxRepos{
			Products: NewGormProductRepository(tx),
			Ledger:   NewGormInventoryTransactionRepository(tx),
		})
	})
}

var _ appinv.TransactionScope = (*GormTransactionScope)(nil)
