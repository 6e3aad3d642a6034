package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	inventoryapp "github.com/ims/backend/internal/application/inventory"
	"github.com/ims/backend/internal/domain/shared"
	"github.com/ims/backend/internal/interfaces/http/middleware"
)

// InventoryService is the stock API the transaction endpoints drive
type InventoryService interface {
	RecordTransaction(ctx context.Context, actor shared.Actor, req inventoryapp.RecordTransactionRequest, idempotencyKey string) (*inventoryapp.TransactionResponse, error)
	GetTransaction(ctx context.Context, actor shared.Actor, id uuid.UUID) (*inventoryapp.TransactionResponse, error)
	ListTransactions(ctx context.Context, actor shared.Actor, filter inventoryapp.TransactionListFilter) ([]inventoryapp.TransactionResponse, int64, error)
}

// InventoryHandler handles stock transaction endpoints
type InventoryHandler struct {
	BaseHandler
	inventoryService InventoryService
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(inventoryService InventoryService) *InventoryHandler {
	return &InventoryHandler{inventoryService: inventoryService}
}

// RecordTransaction godoc
// @Summary      Record a stock transaction
// @Description  Atomically moves stock IN or OUT and appends a ledger row. OUT never drives stock below zero.
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key header string false "Makes retries safe; a reused key returns DUPLICATE_REQUEST"
// @Param        request body inventoryapp.RecordTransactionRequest true "Transaction"
// @Success      201 {object} APIResponse[inventoryapp.TransactionResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /inventory/transactions [post]
func (h *InventoryHandler) RecordTransaction(c *gin.Context) {
	var req inventoryapp.RecordTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	tx, err := h.inventoryService.RecordTransaction(c.Request.Context(), actor(c), req,
		c.GetHeader(middleware.IdempotencyKeyHeader))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, tx)
}

// GetTransaction godoc
// @Summary      Get a ledger row
// @Tags         inventory
// @Produce      json
// @Param        id path string true "Transaction ID" format(uuid)
// @Success      200 {object} APIResponse[inventoryapp.TransactionResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /inventory/transactions/{id} [get]
func (h *InventoryHandler) GetTransaction(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	tx, err := h.inventoryService.GetTransaction(c.Request.Context(), actor(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tx)
}

// ListTransactions godoc
// @Summary      List the ledger
// @Description  Newest first
// @Tags         inventory
// @Produce      json
// @Param        product_id query string false "Product ID" format(uuid)
// @Param        type query string false "Direction" Enums(IN, OUT)
// @Param        page query int false "Page" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} APIResponse[[]inventoryapp.TransactionResponse]
// @Security     BearerAuth
// @Router       /inventory/transactions [get]
func (h *InventoryHandler) ListTransactions(c *gin.Context) {
	var filter inventoryapp.TransactionListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	txs, total, err := h.inventoryService.ListTransactions(c.Request.Context(), actor(c), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, txs, total, filter.Page, filter.PageSize)
}
