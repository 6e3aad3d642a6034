package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/ims/backend/internal/application/validation"
	"github.com/ims/backend/internal/domain/catalog"
	"github.com/ims/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ErrCategoryInUse is returned when deleting a category that products still reference
var ErrCategoryInUse = shared.NewDomainError("CATEGORY_IN_USE", "Category still has products")

// CategoryService handles category-related business operations
type CategoryService struct {
	categoryRepo catalog.CategoryRepository
	productRepo  catalog.ProductRepository
	logger       *zap.Logger
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(
	categoryRepo catalog.CategoryRepository,
	productRepo catalog.ProductRepository,
	logger *zap.Logger,
) *CategoryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CategoryService{
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
		logger:       logger,
	}
}

// Create creates a new category. Duplicate names or slugs surface as a
// unique violation on name.
func (s *CategoryService) Create(ctx context.Context, actor shared.Actor, req CreateCategoryRequest) (*CategoryResponse, error) {
	if err := actor.Require(); err != nil {
		return nil, err
	}
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	category, err := catalog.NewCategory(req.Name, req.Description)
	if err != nil {
		return nil, err
	}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}

	response := ToCategoryResponse(category)
	return &response, nil
}

// List retrieves all categories ordered by name
func (s *CategoryService) List(ctx context.Context) ([]CategoryResponse, error) {
	categories, err := s.categoryRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	responses := make([]CategoryResponse, len(categories))
	for i := range categories {
		responses[i] = ToCategoryResponse(&categories[i])
	}
	return responses, nil
}

// Delete deletes a category that no product references
func (s *CategoryService) Delete(ctx context.Context, actor shared.Actor, id uuid.UUID) error {
	if err := actor.Require(); err != nil {
		return err
	}
	if _, err := s.categoryRepo.FindByID(ctx, id); err != nil {
		return err
	}

	inUse, err := s.productRepo.Count(ctx, shared.Filter{
		Filters: map[string]interface{}{"category_id": id},
	})
	if err != nil {
		return err
	}
	if inUse > 0 {
		return ErrCategoryInUse
	}

	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("category deleted",
		zap.String("category_id", id.String()),
		zap.String("user_id", actor.ID.String()),
	)
	return nil
}
