package models

import (
	"github.com/google/uuid"
	"github.com/ims/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// Unique index names on catalog tables
const (
	IndexProductSKU     = "uq_products_sku"
	IndexProductBarcode = "uq_products_barcode"
	IndexCategoryName   = "uq_categories_name"
	IndexCategorySlug   = "uq_categories_slug"
)

// ProductModel is the persistence model for the Product aggregate root.
type ProductModel struct {
	Base
	Name          string          `gorm:"type:varchar(200);not null;index"`
	SKU           string          `gorm:"column:sku;type:varchar(64);not null;uniqueIndex:uq_products_sku"`
	Barcode       *string         `gorm:"type:varchar(64);uniqueIndex:uq_products_barcode"`
	Description   string          `gorm:"type:text;not null;default:''"`
	CategoryID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	SupplierID    *uuid.UUID      `gorm:"type:uuid;index"`
	Price         decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	CurrentStock  int             `gorm:"not null;default:0;check:chk_products_stock_nonnegative,current_stock >= 0"`
	MinStockLevel int             `gorm:"not null;default:1"`
	ImageURL      string          `gorm:"type:varchar(1024);not null;default:''"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product entity.
func (m *ProductModel) ToDomain() *catalog.Product {
	return &catalog.Product{
		BaseEntity:    m.Base.entity(),
		Name:          m.Name,
		SKU:           m.SKU,
		Barcode:       m.Barcode,
		Description:   m.Description,
		CategoryID:    m.CategoryID,
		SupplierID:    m.SupplierID,
		Price:         m.Price,
		CurrentStock:  m.CurrentStock,
		MinStockLevel: m.MinStockLevel,
		ImageURL:      m.ImageURL,
	}
}

// FromDomain populates the persistence model from a domain Product entity.
func (m *ProductModel) FromDomain(p *catalog.Product) {
	m.Base = baseFrom(p.BaseEntity)
	m.Name = p.Name
	m.SKU = p.SKU
	m.Barcode = p.Barcode
	m.Description = p.Description
	m.CategoryID = p.CategoryID
	m.SupplierID = p.SupplierID
	m.Price = p.Price
	m.CurrentStock = p.CurrentStock
	m.MinStockLevel = p.MinStockLevel
	m.ImageURL = p.ImageURL
}

// ProductModelFromDomain creates a new persistence model from a domain Product entity.
func ProductModelFromDomain(p *catalog.Product) *ProductModel {
	m := &ProductModel{}
	m.FromDomain(p)
	return m
}

// CategoryModel is the persistence model for the Category entity.
type CategoryModel struct {
	Base
	Name        string `gorm:"type:varchar(100);not null;uniqueIndex:uq_categories_name"`
	Slug        string `gorm:"type:varchar(120);not null;uniqueIndex:uq_categories_slug"`
	Description string `gorm:"type:text;not null;default:''"`
}

// TableName returns the table name for GORM
func (CategoryModel) TableName() string {
	return "categories"
}

// ToDomain converts the persistence model to a domain Category entity.
func (m *CategoryModel) ToDomain() *catalog.Category {
	return &catalog.Category{
		BaseEntity:  m.Base.entity(),
		Name:        m.Name,
		Slug:        m.Slug,
		Description: m.Description,
	}
}

// FromDomain populates the persistence model from a domain Category entity.
func (m *CategoryModel) FromDomain(c *catalog.Category) {
	m.Base = baseFrom(c.BaseEntity)
	m.Name = c.Name
	m.Slug = c.Slug
	m.Description = c.Description
}

// CategoryModelFromDomain creates a new persistence model from a domain Category entity.
func CategoryModelFromDomain(c *catalog.Category) *CategoryModel {
	m := &CategoryModel{}
	m.FromDomain(c)
	return m
}
