package persistence

import (
	"testing"

	"github.com/google/uuid"
	"github.com/ims/backend/internal/domain/catalog"
	"github.com/ims/backend/internal/domain/identity"
	"github.com/ims/backend/internal/domain/shared"
	"github.com/ims/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	// every connection to :memory: is a fresh database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(models.AllModels()...))
	return db
}

func seedCategory(t *testing.T, db *gorm.DB, name string) *catalog.Category {
	t.Helper()
	c, err := catalog.NewCategory(name, "")
	require.NoError(t, err)
	require.NoError(t, NewGormCategoryRepository(db).Create(t.Context(), c))
	return c
}

func seedProduct(t *testing.T, db *gorm.DB, categoryID uuid.UUID, name, sku string, stock, minLevel int) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(catalog.ProductDetails{
		Name:          name,
		SKU:           sku,
		CategoryID:    categoryID,
		Price:         decimal.RequireFromString("12.50"),
		MinStockLevel: minLevel,
	}, stock)
	require.NoError(t, err)
	require.NoError(t, NewGormProductRepository(db).Create(t.Context(), p))
	return p
}

func seedProfile(t *testing.T, db *gorm.DB, name, email string, role shared.Role) *identity.Profile {
	t.Helper()
	p, err := identity.NewProfile(name, email, "secret123", role)
	require.NoError(t, err)
	require.NoError(t, NewGormProfileRepository(db).Create(t.Context(), p))
	return p
}
