package partner

import (
	"context"

	"github.com/google/uuid"
	"github.com/ims/backend/internal/application/validation"
	"github.com/ims/backend/internal/domain/partner"
	"github.com/ims/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// SupplierService handles supplier-related business operations
type SupplierService struct {
	supplierRepo partner.SupplierRepository
	logger       *zap.Logger
}

// NewSupplierService creates a new SupplierService
func NewSupplierService(supplierRepo partner.SupplierRepository, logger *zap.Logger) *SupplierService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SupplierService{
		supplierRepo: supplierRepo,
		logger:       logger,
	}
}

// Create creates a new supplier
func (s *SupplierService) Create(ctx context.Context, actor shared.Actor, req CreateSupplierRequest) (*SupplierResponse, error) {
	if err := actor.Require(); err != nil {
		return nil, err
	}
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	supplier, err := partner.NewSupplier(partner.SupplierDetails{
		Name:          req.Name,
		ContactPerson: req.ContactPerson,
		Email:         req.Email,
		Phone:         req.Phone,
		Address:       req.Address,
	})
	if err != nil {
		return nil, err
	}
	if err := s.supplierRepo.Create(ctx, supplier); err != nil {
		return nil, err
	}

	response := ToSupplierResponse(supplier)
	return &response, nil
}

// List retrieves suppliers ordered by name
func (s *SupplierService) List(ctx context.Context, filter SupplierListFilter) ([]SupplierResponse, int64, error) {
	if err := validation.Struct(filter); err != nil {
		return nil, 0, err
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  "name",
		OrderDir: "asc",
		Search:   filter.Search,
	}

	suppliers, err := s.supplierRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.supplierRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]SupplierResponse, len(suppliers))
	for i := range suppliers {
		responses[i] = ToSupplierResponse(&suppliers[i])
	}
	return responses, total, nil
}

// Delete deletes a supplier. Products that referenced it keep working
// without one.
func (s *SupplierService) Delete(ctx context.Context, actor shared.Actor, id uuid.UUID) error {
	if err := actor.Require(); err != nil {
		return err
	}
	if _, err := s.supplierRepo.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.supplierRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("supplier deleted",
		zap.String("supplier_id", id.String()),
		zap.String("user_id", actor.ID.String()),
	)
	return nil
}
