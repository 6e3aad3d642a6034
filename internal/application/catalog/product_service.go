package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/ims/backend/internal/application/validation"
	"github.com/ims/backend/internal/domain/catalog"
	"github.com/ims/backend/internal/domain/partner"
	"github.com/ims/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ProductService handles product-related business operations
type ProductService struct {
	productRepo  catalog.ProductRepository
	categoryRepo catalog.CategoryRepository
	supplierRepo partner.SupplierRepository
	storage      ObjectStorage
	logger       *zap.Logger
	now          func() time.Time
}

// NewProductService creates a new ProductService. storage may be nil, in
// which case requests carrying an image are rejected.
func NewProductService(
	productRepo catalog.ProductRepository,
	categoryRepo catalog.CategoryRepository,
	supplierRepo partner.SupplierRepository,
	storage ObjectStorage,
	logger *zap.Logger,
) *ProductService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		supplierRepo: supplierRepo,
		storage:      storage,
		logger:       logger,
		now:          time.Now,
	}
}

// Create creates a new product with its opening stock and optional image
func (s *ProductService) Create(ctx context.Context, actor shared.Actor, req CreateProductRequest, image *ImageUpload) (*ProductResponse, error) {
	if err := actor.Require(); err != nil {
		return nil, err
	}
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	details := req.details()
	if err := s.checkReferences(ctx, details); err != nil {
		return nil, err
	}

	product, err := catalog.NewProduct(details, req.CurrentStock)
	if err != nil {
		return nil, err
	}

	if image != nil {
		url, err := s.uploadImage(ctx, image)
		if err != nil {
			return nil, err
		}
		product.SetImageURL(url)
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	s.logger.Info("product created",
		zap.String("product_id", product.ID.String()),
		zap.String("sku", product.SKU),
		zap.String("user_id", actor.ID.String()),
	)
	response := ToProductResponse(product)
	return &response, nil
}

// GetByID retrieves a product by ID
func (s *ProductService) GetByID(ctx context.Context, productID uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// List retrieves a list of products with filtering and pagination
func (s *ProductService) List(ctx context.Context, filter ProductListFilter) ([]ProductResponse, int64, error) {
	if err := validation.Struct(filter); err != nil {
		return nil, 0, err
	}

	// Set defaults
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "name"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "asc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}
	if id, err := uuid.Parse(filter.CategoryID); err == nil {
		domainFilter.Filters["category_id"] = id
	}

	products, err := s.productRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.productRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToProductResponses(products), total, nil
}

// ListLowStock returns products whose stock is at or below their minimum
func (s *ProductService) ListLowStock(ctx context.Context) ([]ProductResponse, error) {
	products, err := s.productRepo.FindLowStock(ctx)
	if err != nil {
		return nil, err
	}
	return ToProductResponses(products), nil
}

// Update replaces the editable attributes of a product. A new image, when
// given, replaces the old URL.
func (s *ProductService) Update(ctx context.Context, actor shared.Actor, productID uuid.UUID, req UpdateProductRequest, image *ImageUpload) (*ProductResponse, error) {
	if err := actor.Require(); err != nil {
		return nil, err
	}
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	details := req.details()
	if err := s.checkReferences(ctx, details); err != nil {
		return nil, err
	}
	if err := product.Update(details); err != nil {
		return nil, err
	}

	if image != nil {
		url, err := s.uploadImage(ctx, image)
		if err != nil {
			return nil, err
		}
		product.SetImageURL(url)
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// Delete deletes a product. Its ledger rows stay in place.
func (s *ProductService) Delete(ctx context.Context, actor shared.Actor, productID uuid.UUID) error {
	if err := actor.Require(); err != nil {
		return err
	}
	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		return err
	}
	if err := s.productRepo.Delete(ctx, productID); err != nil {
		return err
	}

	s.logger.Info("product deleted",
		zap.String("product_id", productID.String()),
		zap.String("user_id", actor.ID.String()),
	)
	return nil
}

// checkReferences turns unknown category or supplier ids into field errors
func (s *ProductService) checkReferences(ctx context.Context, d catalog.ProductDetails) error {
	verr := shared.NewValidationError()
	if _, err := s.categoryRepo.FindByID(ctx, d.CategoryID); err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return err
		}
		verr.Add("category_id", "Category not found")
	}
	if d.SupplierID != nil {
		if _, err := s.supplierRepo.FindByID(ctx, *d.SupplierID); err != nil {
			if !errors.Is(err, shared.ErrNotFound) {
				return err
			}
			verr.Add("supplier_id", "Supplier not found")
		}
	}
	return verr.OrNil()
}

func (s *ProductService) uploadImage(ctx context.Context, image *ImageUpload) (string, error) {
	if err := image.Validate(); err != nil {
		return "", err
	}
	if s.storage == nil {
		return "", shared.NewValidationError().Add("image", "Image uploads are not enabled")
	}

	key := image.ImageKey(s.now())
	if err := s.storage.Upload(ctx, key, image.Data, image.ContentType); err != nil {
		s.logger.Error("product image upload failed", zap.String("key", key), zap.Error(err))
		return "", shared.NewStorageError("upload_image", err)
	}
	return s.storage.PublicURL(key), nil
}
