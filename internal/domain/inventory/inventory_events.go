package inventory

import (
	"github.com/google/uuid"
	"github.com/ims/backend/internal/domain/shared"
)

const EventTypeStockOutRecorded = "inventory.stock_out.recorded"

// StockOutRecordedEvent is raised after a committed OUT movement
type StockOutRecordedEvent struct {
	shared.EventHeader
	TransactionID uuid.UUID `json:"transaction_id"`
	ProductID     uuid.UUID `json:"product_id"`
	Quantity      int       `json:"quantity"`
	StockAfter    int       `json:"stock_after"`
}

// NewStockOutRecordedEvent creates a new StockOutRecordedEvent
func NewStockOutRecordedEvent(tx *InventoryTransaction) *StockOutRecordedEvent {
	return &StockOutRecordedEvent{
		EventHeader:   shared.NewEventHeader(EventTypeStockOutRecorded, tx.ActorID),
		TransactionID: tx.ID,
		ProductID:     tx.ProductID,
		Quantity:      tx.Quantity,
		StockAfter:    tx.StockAfter,
	}
}
