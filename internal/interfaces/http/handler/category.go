package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	catalogapp "github.com/ims/backend/internal/application/catalog"
	"github.com/ims/backend/internal/domain/shared"
)

// CategoryService is the catalog API the category endpoints drive
type CategoryService interface {
	Create(ctx context.Context, actor shared.Actor, req catalogapp.CreateCategoryRequest) (*catalogapp.CategoryResponse, error)
	List(ctx context.Context) ([]catalogapp.CategoryResponse, error)
	Delete(ctx context.Context, actor shared.Actor, id uuid.UUID) error
}

// CategoryHandler handles category-related API endpoints
type CategoryHandler struct {
	BaseHandler
	categoryService CategoryService
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categoryService CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// Create godoc
// @Summary      Create a category
// @Description  The slug is derived from the name and must be unique
// @Tags         categories
// @Accept       json
// @Produce      json
// @Param        request body catalogapp.CreateCategoryRequest true "Category"
// @Success      201 {object} APIResponse[catalogapp.CategoryResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /catalog/categories [post]
func (h *CategoryHandler) Create(c *gin.Context) {
	var req catalogapp.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	category, err := h.categoryService.Create(c.Request.Context(), actor(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, category)
}

// List godoc
// @Summary      List categories
// @Tags         categories
// @Produce      json
// @Success      200 {object} APIResponse[[]catalogapp.CategoryResponse]
// @Security     BearerAuth
// @Router       /catalog/categories [get]
func (h *CategoryHandler) List(c *gin.Context) {
	categories, err := h.categoryService.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, categories)
}

// Delete godoc
// @Summary      Delete a category
// @Description  Fails with CATEGORY_IN_USE while products reference it
// @Tags         categories
// @Param        id path string true "Category ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /catalog/categories/{id} [delete]
func (h *CategoryHandler) Delete(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	if err := h.categoryService.Delete(c.Request.Context(), actor(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
