package catalog

import (
	"errors"
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/ims/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDetails() ProductDetails {
	return ProductDetails{
		Name:          "Kopi Arabika",
		SKU:           "KOP-001",
		CategoryID:    uuid.New(),
		Price:         decimal.NewFromInt(25000),
		MinStockLevel: 5,
	}
}

func TestNewProduct(t *testing.T) {
	t.Run("creates product with valid inputs", func(t *testing.T) {
		product, err := NewProduct(validDetails(), 10)
		require.NoError(t, err)

		assert.NotEqual(t, uuid.Nil, product.ID)
		assert.Equal(t, "KOP-001", product.SKU)
		assert.Equal(t, 10, product.CurrentStock)
		assert.Equal(t, 5, product.MinStockLevel)
		assert.Nil(t, product.Barcode)
	})

	t.Run("keeps non-empty barcode", func(t *testing.T) {
		d := validDetails()
		d.Barcode = " 899123 "
		product, err := NewProduct(d, 0)
		require.NoError(t, err)
		require.NotNil(t, product.Barcode)
		assert.Equal(t, "899123", *product.Barcode)
	})

	t.Run("reports every invalid field", func(t *testing.T) {
		d := ProductDetails{Name: "K", SKU: "AB", Price: decimal.NewFromInt(-1)}
		_, err := NewProduct(d, -3)
		require.Error(t, err)

		var verr *shared.ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t,
			[]string{"category_id", "current_stock", "min_stock_level", "name", "price", "sku"},
			verr.FieldNames())
		assert.ErrorIs(t, err, shared.ErrValidation)
	})

	t.Run("opening stock above the ceiling is rejected", func(t *testing.T) {
		_, err := NewProduct(validDetails(), MaxStockQuantity+1)
		var verr *shared.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, []string{"current_stock"}, verr.FieldNames())
	})
}

func TestProduct_StockMovements(t *testing.T) {
	t.Run("receive adds to stock", func(t *testing.T) {
		product, _ := NewProduct(validDetails(), 10)
		after, err := product.ReceiveStock(20)
		require.NoError(t, err)
		assert.Equal(t, 30, after)
	})

	t.Run("issue subtracts from stock", func(t *testing.T) {
		product, _ := NewProduct(validDetails(), 10)
		after, err := product.IssueStock(10)
		require.NoError(t, err)
		assert.Equal(t, 0, after)
	})

	t.Run("issue beyond balance is rejected and stock unchanged", func(t *testing.T) {
		product, _ := NewProduct(validDetails(), 3)
		after, err := product.IssueStock(4)
		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
		assert.Equal(t, 3, after)
		assert.Equal(t, 3, product.CurrentStock)
	})

	t.Run("non-positive quantity is a validation error", func(t *testing.T) {
		product, _ := NewProduct(validDetails(), 3)
		_, err := product.IssueStock(0)
		assert.ErrorIs(t, err, shared.ErrValidation)
		_, err = product.ReceiveStock(-1)
		assert.ErrorIs(t, err, shared.ErrValidation)
	})

	t.Run("receipt past the stock ceiling is rejected and stock unchanged", func(t *testing.T) {
		product, _ := NewProduct(validDetails(), 10)
		for _, quantity := range []int{math.MaxInt, MaxStockQuantity - 9} {
			after, err := product.ReceiveStock(quantity)

			var verr *shared.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, []string{"quantity"}, verr.FieldNames())
			assert.Equal(t, 10, after)
			assert.Equal(t, 10, product.CurrentStock)
		}

		after, err := product.ReceiveStock(MaxStockQuantity - 10)
		require.NoError(t, err)
		assert.Equal(t, MaxStockQuantity, after)
	})
}

func TestProduct_IsLowStock(t *testing.T) {
	product, _ := NewProduct(validDetails(), 6)
	assert.False(t, product.IsLowStock())

	product.CurrentStock = 5
	assert.True(t, product.IsLowStock(), "threshold itself counts as low")

	product.CurrentStock = 0
	assert.True(t, product.IsLowStock())
}

func TestProduct_StockValue(t *testing.T) {
	d := validDetails()
	d.Price = decimal.RequireFromString("12.50")
	product, _ := NewProduct(d, 4)
	assert.True(t, decimal.NewFromInt(50).Equal(product.StockValue()))
}

func TestProduct_UpdateLeavesStock(t *testing.T) {
	product, _ := NewProduct(validDetails(), 7)
	d := validDetails()
	d.Name = "Kopi Robusta"
	require.NoError(t, product.Update(d))
	assert.Equal(t, "Kopi Robusta", product.Name)
	assert.Equal(t, 7, product.CurrentStock)
}
