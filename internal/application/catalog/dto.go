package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/ims/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// CreateProductRequest represents a request to create a new product
type CreateProductRequest struct {
	Name          string          `json:"name" binding:"required,min=2,max=200"`
	SKU           string          `json:"sku" binding:"required,min=3,max=64"`
	Barcode       string          `json:"barcode" binding:"omitempty,max=64"`
	Description   string          `json:"description" binding:"max=2000"`
	CategoryID    string          `json:"category_id" binding:"required,uuid"`
	SupplierID    string          `json:"supplier_id" binding:"omitempty,uuid"`
	Price         decimal.Decimal `json:"price"`
	CurrentStock  int             `json:"current_stock" binding:"gte=0,max=2147483647"`
	MinStockLevel int             `json:"min_stock_level" binding:"required,gte=1"`
}

func (r CreateProductRequest) details() catalog.ProductDetails {
	return productDetails(r.Name, r.SKU, r.Barcode, r.Description, r.CategoryID, r.SupplierID, r.Price, r.MinStockLevel)
}

// UpdateProductRequest replaces the editable attributes of a product.
// Stock is not part of it: stock only moves through transactions.
type UpdateProductRequest struct {
	Name          string          `json:"name" binding:"required,min=2,max=200"`
	SKU           string          `json:"sku" binding:"required,min=3,max=64"`
	Barcode       string          `json:"barcode" binding:"omitempty,max=64"`
	Description   string          `json:"description" binding:"max=2000"`
	CategoryID    string          `json:"category_id" binding:"required,uuid"`
	SupplierID    string          `json:"supplier_id" binding:"omitempty,uuid"`
	Price         decimal.Decimal `json:"price"`
	MinStockLevel int             `json:"min_stock_level" binding:"required,gte=1"`
}

func (r UpdateProductRequest) details() catalog.ProductDetails {
	return productDetails(r.Name, r.SKU, r.Barcode, r.Description, r.CategoryID, r.SupplierID, r.Price, r.MinStockLevel)
}

func productDetails(name, sku, barcode, description, categoryID, supplierID string, price decimal.Decimal, minStock int) catalog.ProductDetails {
	d := catalog.ProductDetails{
		Name:          name,
		SKU:           sku,
		Barcode:       barcode,
		Description:   description,
		Price:         price,
		MinStockLevel: minStock,
	}
	d.CategoryID, _ = uuid.Parse(categoryID)
	if id, err := uuid.Parse(supplierID); err == nil {
		d.SupplierID = &id
	}
	return d
}

// ProductListFilter represents filter options for product list
type ProductListFilter struct {
	Search     string `form:"search" binding:"max=100"`
	CategoryID string `form:"category_id" binding:"omitempty,uuid"`
	Page       int    `form:"page" binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string `form:"order_by" binding:"omitempty,oneof=name sku price current_stock created_at"`
	OrderDir   string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	SKU           string          `json:"sku"`
	Barcode       string          `json:"barcode,omitempty"`
	Description   string          `json:"description"`
	CategoryID    uuid.UUID       `json:"category_id"`
	SupplierID    *uuid.UUID      `json:"supplier_id,omitempty"`
	Price         decimal.Decimal `json:"price"`
	CurrentStock  int             `json:"current_stock"`
	MinStockLevel int             `json:"min_stock_level"`
	IsLowStock    bool            `json:"is_low_stock"`
	ImageURL      string          `json:"image_url,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ToProductResponse converts a domain Product to ProductResponse
func ToProductResponse(p *catalog.Product) ProductResponse {
	resp := ProductResponse{
		ID:            p.ID,
		Name:          p.Name,
		SKU:           p.SKU,
		Description:   p.Description,
		CategoryID:    p.CategoryID,
		SupplierID:    p.SupplierID,
		Price:         p.Price,
		CurrentStock:  p.CurrentStock,
		MinStockLevel: p.MinStockLevel,
		IsLowStock:    p.IsLowStock(),
		ImageURL:      p.ImageURL,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
	if p.Barcode != nil {
		resp.Barcode = *p.Barcode
	}
	return resp
}

// ToProductResponses converts a slice of domain Products
func ToProductResponses(products []catalog.Product) []ProductResponse {
	responses := make([]ProductResponse, len(products))
	for i := range products {
		responses[i] = ToProductResponse(&products[i])
	}
	return responses
}

// CreateCategoryRequest represents a request to create a category
type CreateCategoryRequest struct {
	Name        string `json:"name" binding:"required,min=3,max=100"`
	Description string `json:"description" binding:"max=500"`
}

// CategoryResponse represents a category in API responses
type CategoryResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// ToCategoryResponse converts a domain Category to CategoryResponse
func ToCategoryResponse(c *catalog.Category) CategoryResponse {
	return CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Slug:        c.Slug,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
	}
}
