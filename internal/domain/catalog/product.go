package catalog

import (
	"math"
	"strings"

	"github.com/google/uuid"
	"github.com/ims/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Field limits for products
const (
	MinProductNameLength = 2
	MinSKULength         = 3
	MinStockLevelFloor   = 1
	// MaxStockQuantity matches the INTEGER column holding current_stock
	MaxStockQuantity = math.MaxInt32
)

// Product represents a stock-keeping unit in the catalog.
// CurrentStock is never negative and only changes through stock movements.
type Product struct {
	shared.BaseEntity
	Name          string
	SKU           string
	Barcode       *string
	Description   string
	CategoryID    uuid.UUID
	SupplierID    *uuid.UUID
	Price         decimal.Decimal
	CurrentStock  int
	MinStockLevel int
	ImageURL      string
}

// ProductDetails holds the editable attributes of a product
type ProductDetails struct {
	Name          string
	SKU           string
	Barcode       string
	Description   string
	CategoryID    uuid.UUID
	SupplierID    *uuid.UUID
	Price         decimal.Decimal
	MinStockLevel int
}

// NewProduct creates a product with an opening stock balance
func NewProduct(details ProductDetails, openingStock int) (*Product, error) {
	verr := validateDetails(details)
	if openingStock < 0 {
		verr.Add("current_stock", "Stock cannot be negative")
	} else if openingStock > MaxStockQuantity {
		verr.Add("current_stock", "Stock exceeds the maximum of 2147483647")
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	p := &Product{
		BaseEntity:   shared.NewBaseEntity(),
		CurrentStock: openingStock,
	}
	p.apply(details)
	return p, nil
}

// Update replaces the editable attributes. Stock is left untouched.
func (p *Product) Update(details ProductDetails) error {
	if err := validateDetails(details).OrNil(); err != nil {
		return err
	}
	p.apply(details)
	p.Touch()
	return nil
}

// SetImageURL records the public URL of the uploaded product image
func (p *Product) SetImageURL(url string) {
	p.ImageURL = url
	p.Touch()
}

// ReceiveStock adds quantity to the stock and returns the new balance.
// A receipt that would push the balance past MaxStockQuantity is rejected.
func (p *Product) ReceiveStock(quantity int) (int, error) {
	if quantity <= 0 {
		return p.CurrentStock, shared.NewValidationError().Add("quantity", "Quantity must be at least 1")
	}
	if quantity > MaxStockQuantity-p.CurrentStock {
		return p.CurrentStock, shared.NewValidationError().Add("quantity", "Quantity would exceed the maximum stock of 2147483647")
	}
	p.CurrentStock += quantity
	p.Touch()
	return p.CurrentStock, nil
}

// IssueStock removes quantity from the stock. It fails with
// ErrInsufficientStock and leaves the balance unchanged when the result
// would be negative.
func (p *Product) IssueStock(quantity int) (int, error) {
	if quantity <= 0 {
		return p.CurrentStock, shared.NewValidationError().Add("quantity", "Quantity must be at least 1")
	}
	if quantity > p.CurrentStock {
		return p.CurrentStock, shared.ErrInsufficientStock
	}
	p.CurrentStock -= quantity
	p.Touch()
	return p.CurrentStock, nil
}

// IsLowStock reports whether stock has reached the alert threshold
func (p *Product) IsLowStock() bool {
	return p.CurrentStock <= p.MinStockLevel
}

// StockValue returns price multiplied by current stock
func (p *Product) StockValue() decimal.Decimal {
	return p.Price.Mul(decimal.NewFromInt(int64(p.CurrentStock)))
}

func (p *Product) apply(d ProductDetails) {
	p.Name = strings.TrimSpace(d.Name)
	p.SKU = strings.TrimSpace(d.SKU)
	p.Description = d.Description
	p.CategoryID = d.CategoryID
	p.SupplierID = d.SupplierID
	p.Price = d.Price
	p.MinStockLevel = d.MinStockLevel
	p.Barcode = nil
	if b := strings.TrimSpace(d.Barcode); b != "" {
		p.Barcode = &b
	}
}

func validateDetails(d ProductDetails) *shared.ValidationError {
	verr := shared.NewValidationError()
	if len([]rune(strings.TrimSpace(d.Name))) < MinProductNameLength {
		verr.Add("name", "Name must be at least 2 characters")
	}
	if len([]rune(strings.TrimSpace(d.SKU))) < MinSKULength {
		verr.Add("sku", "SKU must be at least 3 characters")
	}
	if d.CategoryID == uuid.Nil {
		verr.Add("category_id", "Category is required")
	}
	if d.Price.IsNegative() {
		verr.Add("price", "Price cannot be negative")
	}
	if d.MinStockLevel < MinStockLevelFloor {
		verr.Add("min_stock_level", "Minimum stock level must be at least 1")
	}
	return verr
}
