package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	partnerapp "github.com/ims/backend/internal/application/partner"
	"github.com/ims/backend/internal/domain/shared"
)

// SupplierService is the partner API the supplier endpoints drive
type SupplierService interface {
	Create(ctx context.Context, actor shared.Actor, req partnerapp.CreateSupplierRequest) (*partnerapp.SupplierResponse, error)
	List(ctx context.Context, filter partnerapp.SupplierListFilter) ([]partnerapp.SupplierResponse, int64, error)
	Delete(ctx context.Context, actor shared.Actor, id uuid.UUID) error
}

// SupplierHandler handles supplier-related API endpoints
type SupplierHandler struct {
	BaseHandler
	supplierService SupplierService
}

// NewSupplierHandler creates a new SupplierHandler
func NewSupplierHandler(supplierService SupplierService) *SupplierHandler {
	return &SupplierHandler{supplierService: supplierService}
}

// Create godoc
// @Summary      Register a supplier
// @Tags         suppliers
// @Accept       json
// @Produce      json
// @Param        request body partnerapp.CreateSupplierRequest true "Supplier"
// @Success      201 {object} APIResponse[partnerapp.SupplierResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /partner/suppliers [post]
func (h *SupplierHandler) Create(c *gin.Context) {
	var req partnerapp.CreateSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	supplier, err := h.supplierService.Create(c.Request.Context(), actor(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, supplier)
}

// List godoc
// @Summary      List suppliers
// @Tags         suppliers
// @Produce      json
// @Param        search query string false "Name search"
// @Param        page query int false "Page" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} APIResponse[[]partnerapp.SupplierResponse]
// @Security     BearerAuth
// @Router       /partner/suppliers [get]
func (h *SupplierHandler) List(c *gin.Context) {
	var filter partnerapp.SupplierListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	suppliers, total, err := h.supplierService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, suppliers, total, filter.Page, filter.PageSize)
}

// Delete godoc
// @Summary      Delete a supplier
// @Tags         suppliers
// @Param        id path string true "Supplier ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /partner/suppliers/{id} [delete]
func (h *SupplierHandler) Delete(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	if err := h.supplierService.Delete(c.Request.Context(), actor(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
