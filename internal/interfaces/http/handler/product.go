package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"
	catalogapp "github.com/ims/backend/internal/application/catalog"
	"github.com/ims/backend/internal/domain/shared"
)

// ImageFormField is the multipart field carrying a product image
const ImageFormField = "image"

// ProductFormField is the multipart field carrying the product JSON
const ProductFormField = "data"

// ProductService is the catalog API the product endpoints drive
type ProductService interface {
	Create(ctx context.Context, actor shared.Actor, req catalogapp.CreateProductRequest, image *catalogapp.ImageUpload) (*catalogapp.ProductResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*catalogapp.ProductResponse, error)
	List(ctx context.Context, filter catalogapp.ProductListFilter) ([]catalogapp.ProductResponse, int64, error)
	ListLowStock(ctx context.Context) ([]catalogapp.ProductResponse, error)
	Update(ctx context.Context, actor shared.Actor, id uuid.UUID, req catalogapp.UpdateProductRequest, image *catalogapp.ImageUpload) (*catalogapp.ProductResponse, error)
	Delete(ctx context.Context, actor shared.Actor, id uuid.UUID) error
}

// ProductHandler handles product-related API endpoints
type ProductHandler struct {
	BaseHandler
	productService ProductService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// Create godoc
// @Summary      Create a product
// @Description  Create a product from a JSON body, or from a multipart form with the JSON in "data" and an optional "image" file
// @Tags         products
// @Accept       json,mpfd
// @Produce      json
// @Param        request body catalogapp.CreateProductRequest true "Product"
// @Success      201 {object} APIResponse[catalogapp.ProductResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /catalog/products [post]
func (h *ProductHandler) Create(c *gin.Context) {
	var req catalogapp.CreateProductRequest
	image, ok := h.bindProduct(c, &req)
	if !ok {
		return
	}

	product, err := h.productService.Create(c.Request.Context(), actor(c), req, image)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, product)
}

// GetByID godoc
// @Summary      Get a product
// @Tags         products
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Success      200 {object} APIResponse[catalogapp.ProductResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /catalog/products/{id} [get]
func (h *ProductHandler) GetByID(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	product, err := h.productService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// List godoc
// @Summary      List products
// @Tags         products
// @Produce      json
// @Param        search query string false "Name or SKU search"
// @Param        category_id query string false "Category ID" format(uuid)
// @Param        page query int false "Page" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Param        order_by query string false "Sort field" Enums(name, sku, price, current_stock, created_at)
// @Param        order_dir query string false "Sort direction" Enums(asc, desc)
// @Success      200 {object} APIResponse[[]catalogapp.ProductResponse]
// @Security     BearerAuth
// @Router       /catalog/products [get]
func (h *ProductHandler) List(c *gin.Context) {
	var filter catalogapp.ProductListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	products, total, err := h.productService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, products, total, filter.Page, filter.PageSize)
}

// ListLowStock godoc
// @Summary      List low-stock products
// @Description  Products whose stock is at or below their minimum level
// @Tags         products
// @Produce      json
// @Success      200 {object} APIResponse[[]catalogapp.ProductResponse]
// @Security     BearerAuth
// @Router       /catalog/products/low-stock [get]
func (h *ProductHandler) ListLowStock(c *gin.Context) {
	products, err := h.productService.ListLowStock(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, products)
}

// Update godoc
// @Summary      Update a product
// @Description  Replace the editable attributes of a product. Stock only changes through transactions.
// @Tags         products
// @Accept       json,mpfd
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Param        request body catalogapp.UpdateProductRequest true "Product"
// @Success      200 {object} APIResponse[catalogapp.ProductResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /catalog/products/{id} [put]
func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	var req catalogapp.UpdateProductRequest
	image, ok := h.bindProduct(c, &req)
	if !ok {
		return
	}

	product, err := h.productService.Update(c.Request.Context(), actor(c), id, req, image)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// Delete godoc
// @Summary      Delete a product
// @Tags         products
// @Param        id path string true "Product ID" format(uuid)
// @Success      204
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /catalog/products/{id} [delete]
func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	if err := h.productService.Delete(c.Request.Context(), actor(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// bindProduct decodes a JSON body, or a multipart form whose "data" field
// holds the JSON and whose "image" field holds the file.
func (h *ProductHandler) bindProduct(c *gin.Context, req any) (*catalogapp.ImageUpload, bool) {
	if !strings.HasPrefix(c.ContentType(), binding.MIMEMultipartPOSTForm) {
		if err := c.ShouldBindJSON(req); err != nil {
			h.BindError(c, err)
			return nil, false
		}
		return nil, true
	}

	if err := json.Unmarshal([]byte(c.PostForm(ProductFormField)), req); err != nil {
		h.BadRequest(c, "Form field \""+ProductFormField+"\" must hold the product JSON")
		return nil, false
	}
	if err := binding.Validator.ValidateStruct(req); err != nil {
		h.BindError(c, err)
		return nil, false
	}

	fh, err := c.FormFile(ImageFormField)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, true
	}
	if err != nil {
		h.BindError(c, err)
		return nil, false
	}
	image, err := readImage(fh)
	if err != nil {
		h.HandleError(c, err)
		return nil, false
	}
	return image, true
}

func readImage(fh *multipart.FileHeader) (*catalogapp.ImageUpload, error) {
	if fh.Size > catalogapp.MaxImageSize {
		return nil, shared.NewValidationError().Add(ImageFormField, "Image must be 2 MB or smaller")
	}
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, catalogapp.MaxImageSize+1))
	if err != nil {
		return nil, err
	}
	return &catalogapp.ImageUpload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}
