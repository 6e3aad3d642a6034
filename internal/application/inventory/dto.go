package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/ims/backend/internal/domain/inventory"
)

// RecordTransactionRequest is the body of a stock movement request
type RecordTransactionRequest struct {
	ProductID string `json:"product_id" binding:"required,uuid"`
	Type      string `json:"type" binding:"required,oneof=IN OUT"`
	Quantity  int    `json:"quantity" binding:"required,gte=1,max=2147483647"`
	Notes     string `json:"notes" binding:"max=500"`
}

// toCommand converts a validated request
func (r RecordTransactionRequest) toCommand() RecordTransactionCommand {
	productID, _ := uuid.Parse(r.ProductID)
	return RecordTransactionCommand{
		ProductID: productID,
		Direction: inventory.Direction(r.Type),
		Quantity:  r.Quantity,
		Note:      r.Notes,
	}
}

// TransactionListFilter narrows the ledger listing
type TransactionListFilter struct {
	Page      int    `form:"page" binding:"omitempty,min=1"`
	PageSize  int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	ProductID string `form:"product_id" binding:"omitempty,uuid"`
	Type      string `form:"type" binding:"omitempty,oneof=IN OUT"`
}

// TransactionResponse is a ledger row in API responses
type TransactionResponse struct {
	ID          uuid.UUID `json:"id"`
	ProductID   uuid.UUID `json:"product_id"`
	Type        string    `json:"type"`
	Quantity    int       `json:"quantity"`
	Notes       string    `json:"notes,omitempty"`
	ActorID     uuid.UUID `json:"user_id"`
	StockBefore int       `json:"stock_before"`
	StockAfter  int       `json:"stock_after"`
	CreatedAt   time.Time `json:"created_at"`
}

// ToTransactionResponse converts a ledger row
func ToTransactionResponse(tx *inventory.InventoryTransaction) TransactionResponse {
	return TransactionResponse{
		ID:          tx.ID,
		ProductID:   tx.ProductID,
		Type:        tx.Direction.String(),
		Quantity:    tx.Quantity,
		Notes:       tx.Note,
		ActorID:     tx.ActorID,
		StockBefore: tx.StockBefore,
		StockAfter:  tx.StockAfter,
		CreatedAt:   tx.CreatedAt,
	}
}

// ToTransactionResponses converts a page of ledger rows
func ToTransactionResponses(txs []inventory.InventoryTransaction) []TransactionResponse {
	responses := make([]TransactionResponse, len(txs))
	for i := range txs {
		responses[i] = ToTransactionResponse(&txs[i])
	}
	return responses
}
