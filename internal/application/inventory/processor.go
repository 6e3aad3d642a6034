package inventory

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/ims/backend/internal/domain/catalog"
	"github.com/ims/backend/internal/domain/inventory"
	"github.com/ims/backend/internal/domain/shared"
	"github.com/ims/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// RecordTransactionCommand is a validated request to move stock
type RecordTransactionCommand struct {
	ProductID uuid.UUID
	Direction inventory.Direction
	Quantity  int
	Note      string
}

// Validate checks the command before any row is locked
func (c RecordTransactionCommand) Validate() error {
	verr := shared.NewValidationError()
	if c.ProductID == uuid.Nil {
		verr.Add("product_id", "Product is required")
	}
	if !c.Direction.IsValid() {
		verr.Add("type", "Type must be IN or OUT")
	}
	switch {
	case c.Quantity < 1:
		verr.Add("quantity", "Quantity must be at least 1")
	case c.Quantity > catalog.MaxStockQuantity:
		verr.Add("quantity", "Quantity cannot exceed 2147483647")
	}
	if len([]rune(c.Note)) > inventory.MaxNoteLength {
		verr.Add("notes", "Notes cannot exceed 500 characters")
	}
	return verr.OrNil()
}

// TransactionResult is the committed ledger row and the product it moved
type TransactionResult struct {
	Transaction *inventory.InventoryTransaction
	Product     *catalog.Product
}

// StockAfter returns the product stock once the transaction committed
func (r *TransactionResult) StockAfter() int {
	return r.Transaction.StockAfter
}

// StockTransactionProcessor applies one stock movement atomically: lock the
// product row, check and write the new balance, append the ledger row.
// It never notifies anybody; callers react to the result.
type StockTransactionProcessor struct {
	scope   TransactionScope
	logger  *zap.Logger
	metrics *telemetry.InventoryMetrics
}

// NewStockTransactionProcessor creates a processor running inside scope
func NewStockTransactionProcessor(scope TransactionScope, logger *zap.Logger) *StockTransactionProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StockTransactionProcessor{scope: scope, logger: logger}
}

// WithMetrics sets the counters updated per processed transaction
func (p *StockTransactionProcessor) WithMetrics(m *telemetry.InventoryMetrics) *StockTransactionProcessor {
	p.metrics = m
	return p
}

// Record applies cmd on behalf of actor.
//
// Errors: shared.ErrUnauthorized, *shared.ValidationError,
// shared.ErrNotFound, shared.ErrInsufficientStock, or *shared.StorageError
// for anything the store reports that is not a domain outcome.
func (p *StockTransactionProcessor) Record(ctx context.Context, actor shared.Actor, cmd RecordTransactionCommand) (*TransactionResult, error) {
	ctx, span := telemetry.StartSpan(ctx, "inventory.record_transaction",
		telemetry.AttrProductID.String(cmd.ProductID.String()),
		telemetry.AttrDirection.String(cmd.Direction.String()),
		telemetry.AttrQuantity.Int(cmd.Quantity),
		telemetry.AttrActorID.String(actor.ID.String()),
	)
	defer span.End()

	if err := actor.Require(); err != nil {
		p.metrics.RecordTransaction(ctx, cmd.Direction.String(), telemetry.OutcomeRejected)
		return nil, err
	}
	if err := cmd.Validate(); err != nil {
		p.metrics.RecordTransaction(ctx, cmd.Direction.String(), telemetry.OutcomeRejected)
		return nil, err
	}

	var result TransactionResult
	err := p.scope.Execute(ctx, func(repos TxRepos) error {
		product, err := repos.Products.FindByIDForUpdate(ctx, cmd.ProductID)
		if err != nil {
			return err
		}

		before := product.CurrentStock
		var after int
		if cmd.Direction == inventory.DirectionOut {
			after, err = product.IssueStock(cmd.Quantity)
		} else {
			after, err = product.ReceiveStock(cmd.Quantity)
		}
		if err != nil {
			return err
		}

		if err := repos.Products.UpdateStock(ctx, product.ID, after); err != nil {
			return err
		}

		tx, err := inventory.NewInventoryTransaction(product.ID, cmd.Direction, cmd.Quantity, cmd.Note, actor.ID, before, after)
		if err != nil {
			return err
		}
		if err := repos.Ledger.Append(ctx, tx); err != nil {
			return err
		}

		result = TransactionResult{Transaction: tx, Product: product}
		return nil
	})
	if err != nil {
		err = classify(err)
		telemetry.RecordError(span, err)
		p.metrics.RecordTransaction(ctx, cmd.Direction.String(), outcomeOf(err))
		if _, known := shared.AsDomainError(err); known && !isStorageError(err) {
			p.logger.Info("stock transaction rejected",
				zap.String("product_id", cmd.ProductID.String()),
				zap.String("direction", cmd.Direction.String()),
				zap.Int("quantity", cmd.Quantity),
				zap.Error(err),
			)
		} else {
			p.logger.Error("stock transaction failed",
				zap.String("product_id", cmd.ProductID.String()),
				zap.String("direction", cmd.Direction.String()),
				zap.Error(err),
			)
		}
		return nil, err
	}

	span.SetAttributes(
		telemetry.AttrTransactionID.String(result.Transaction.ID.String()),
		telemetry.AttrStockAfter.Int(result.Transaction.StockAfter),
	)
	p.metrics.RecordTransaction(ctx, cmd.Direction.String(), telemetry.OutcomeCommitted)
	p.logger.Info("stock transaction recorded",
		zap.String("transaction_id", result.Transaction.ID.String()),
		zap.String("product_id", cmd.ProductID.String()),
		zap.String("direction", cmd.Direction.String()),
		zap.Int("quantity", cmd.Quantity),
		zap.Int("stock_after", result.Transaction.StockAfter),
		zap.String("actor_id", actor.ID.String()),
	)
	return &result, nil
}

// classify keeps domain outcomes as they are and turns everything else into
// an opaque StorageError.
func classify(err error) error {
	if _, ok := shared.AsDomainError(err); ok {
		return err
	}
	return shared.NewStorageError("record_transaction", err)
}

func isStorageError(err error) bool {
	var se *shared.StorageError
	return errors.As(err, &se)
}

func outcomeOf(err error) string {
	switch {
	case errors.Is(err, shared.ErrInsufficientStock):
		return telemetry.OutcomeInsufficientStock
	case isStorageError(err):
		return telemetry.OutcomeFailed
	default:
		return telemetry.OutcomeRejected
	}
}
