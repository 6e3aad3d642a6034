package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/ims/backend/internal/application/validation"
	"github.com/ims/backend/internal/domain/inventory"
	"github.com/ims/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// InventoryService is the entry point for stock movements and ledger reads
type InventoryService struct {
	processor       *StockTransactionProcessor
	transactionRepo inventory.InventoryTransactionRepository
	eventPublisher  shared.EventPublisher
	idempotency     shared.IdempotencyStore
	idemConfig      shared.IdempotencyConfig
	logger          *zap.Logger
}

// NewInventoryService creates a new InventoryService
func NewInventoryService(
	processor *StockTransactionProcessor,
	transactionRepo inventory.InventoryTransactionRepository,
	logger *zap.Logger,
) *InventoryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InventoryService{
		processor:       processor,
		transactionRepo: transactionRepo,
		idemConfig:      shared.DefaultIdempotencyConfig(),
		logger:          logger,
	}
}

// SetEventPublisher sets the publisher that receives stock-out events
func (s *InventoryService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetIdempotencyStore enables Idempotency-Key handling
func (s *InventoryService) SetIdempotencyStore(store shared.IdempotencyStore, cfg shared.IdempotencyConfig) {
	s.idempotency = store
	s.idemConfig = cfg
}

// RecordTransaction validates req and applies it for actor. A non-empty
// idempotencyKey that was already used by the same actor is rejected with
// shared.ErrDuplicateRequest. After a committed stock-out a
// StockOutRecorded event is published; what its handlers do never changes
// the returned result.
func (s *InventoryService) RecordTransaction(ctx context.Context, actor shared.Actor, req RecordTransactionRequest, idempotencyKey string) (*TransactionResponse, error) {
	if err := actor.Require(); err != nil {
		return nil, err
	}
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	claimed, err := s.claim(ctx, actor, idempotencyKey)
	if err != nil {
		return nil, err
	}

	result, err := s.processor.Record(ctx, actor, req.toCommand())
	if err != nil {
		if claimed != "" {
			if relErr := s.idempotency.Release(ctx, claimed); relErr != nil {
				s.logger.Warn("failed to release idempotency key",
					zap.String("key", claimed),
					zap.Error(relErr),
				)
			}
		}
		return nil, err
	}

	if result.Transaction.Direction == inventory.DirectionOut && s.eventPublisher != nil {
		event := inventory.NewStockOutRecordedEvent(result.Transaction)
		if err := s.eventPublisher.Publish(ctx, event); err != nil {
			s.logger.Error("failed to publish stock-out event",
				zap.String("transaction_id", result.Transaction.ID.String()),
				zap.Error(err),
			)
		}
	}

	resp := ToTransactionResponse(result.Transaction)
	return &resp, nil
}

// claim reserves the actor's idempotency key. It returns the store key
// when one was claimed and "" when no key is in play.
func (s *InventoryService) claim(ctx context.Context, actor shared.Actor, idempotencyKey string) (string, error) {
	if idempotencyKey == "" || s.idempotency == nil || !s.idemConfig.Enabled {
		return "", nil
	}

	key := "inventory:tx:" + actor.ID.String() + ":" + idempotencyKey
	isNew, err := s.idempotency.Claim(ctx, key, s.idemConfig.TTL)
	if err != nil {
		s.logger.Warn("idempotency store unavailable, processing without key",
			zap.String("key", key),
			zap.Error(err),
		)
		return "", nil
	}
	if !isNew {
		return "", shared.ErrDuplicateRequest
	}
	return key, nil
}

// GetTransaction returns one ledger row
func (s *InventoryService) GetTransaction(ctx context.Context, actor shared.Actor, id uuid.UUID) (*TransactionResponse, error) {
	if err := actor.Require(); err != nil {
		return nil, err
	}
	tx, err := s.transactionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToTransactionResponse(tx)
	return &resp, nil
}

// ListTransactions lists ledger rows newest first with the total count
func (s *InventoryService) ListTransactions(ctx context.Context, actor shared.Actor, f TransactionListFilter) ([]TransactionResponse, int64, error) {
	if err := actor.Require(); err != nil {
		return nil, 0, err
	}
	if err := validation.Struct(f); err != nil {
		return nil, 0, err
	}

	filter := shared.DefaultFilter()
	if f.Page > 0 {
		filter.Page = f.Page
	}
	if f.PageSize > 0 {
		filter.PageSize = f.PageSize
	}
	if f.ProductID != "" {
		productID, _ := uuid.Parse(f.ProductID)
		filter.Filters["product_id"] = productID
	}
	if f.Type != "" {
		filter.Filters["type"] = inventory.Direction(f.Type)
	}

	txs, err := s.transactionRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.transactionRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return ToTransactionResponses(txs), total, nil
}
