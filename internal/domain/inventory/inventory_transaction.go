package inventory

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ims/backend/internal/domain/shared"
)

// MaxNoteLength is the longest note accepted on a ledger row
const MaxNoteLength = 500

// Direction is the sign of a stock movement
type Direction string

const (
	// DirectionIn increases stock
	DirectionIn Direction = "IN"
	// DirectionOut decreases stock
	DirectionOut Direction = "OUT"
)

// String returns the string representation of Direction
func (d Direction) String() string {
	return string(d)
}

// IsValid returns true if the direction is IN or OUT
func (d Direction) IsValid() bool {
	return d == DirectionIn || d == DirectionOut
}

// ParseDirection converts user input into a Direction
func ParseDirection(s string) (Direction, bool) {
	d := Direction(strings.ToUpper(strings.TrimSpace(s)))
	return d, d.IsValid()
}

// InventoryTransaction is an immutable ledger row recording one stock movement.
// Once created it is never modified; corrections are new transactions.
// ProductID is a soft reference and may outlive the product.
type InventoryTransaction struct {
	shared.BaseEntity
	ProductID   uuid.UUID
	Direction   Direction
	Quantity    int
	Note        string
	ActorID     uuid.UUID
	StockBefore int
	StockAfter  int
}

// NewInventoryTransaction creates a ledger row for a movement that has already
// been applied to the product, from stockBefore to stockAfter.
func NewInventoryTransaction(
	productID uuid.UUID,
	direction Direction,
	quantity int,
	note string,
	actorID uuid.UUID,
	stockBefore, stockAfter int,
) (*InventoryTransaction, error) {
	verr := shared.NewValidationError()
	if productID == uuid.Nil {
		verr.Add("product_id", "Product is required")
	}
	if !direction.IsValid() {
		verr.Add("type", "Type must be IN or OUT")
	}
	if quantity < 1 {
		verr.Add("quantity", "Quantity must be at least 1")
	}
	if len([]rune(note)) > MaxNoteLength {
		verr.Add("notes", "Notes cannot exceed 500 characters")
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}
	if actorID == uuid.Nil {
		return nil, shared.ErrUnauthorized
	}

	return &InventoryTransaction{
		BaseEntity:  shared.NewBaseEntity(),
		ProductID:   productID,
		Direction:   direction,
		Quantity:    quantity,
		Note:        strings.TrimSpace(note),
		ActorID:     actorID,
		StockBefore: stockBefore,
		StockAfter:  stockAfter,
	}, nil
}

// SignedQuantity returns the quantity with the sign of its direction
func (t *InventoryTransaction) SignedQuantity() int {
	if t.Direction == DirectionOut {
		return -t.Quantity
	}
	return t.Quantity
}

// OccurredAt returns when the movement was recorded
func (t *InventoryTransaction) OccurredAt() time.Time {
	return t.CreatedAt
}
