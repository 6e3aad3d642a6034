package inventory

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/ims/backend/internal/domain/inventory"
	"github.com/ims/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type serviceFixture struct {
	service   *InventoryService
	store     *memoryStore
	publisher *recordingPublisher
	notifier  *recordingNotifier
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()
	logger := zaptest.NewLogger(t)
	store := newMemoryStore()
	processor := NewStockTransactionProcessor(newLockingScope(store), logger)

	notifier := &recordingNotifier{}
	publisher := &recordingPublisher{
		handlers: []shared.EventHandler{NewLowStockAlertHandler(logger).WithNotifier(notifier)},
	}

	svc := NewInventoryService(processor, memoryLedger{store}, logger)
	svc.SetEventPublisher(publisher)
	svc.SetIdempotencyStore(newMemoryIdempotency(), shared.DefaultIdempotencyConfig())

	return &serviceFixture{service: svc, store: store, publisher: publisher, notifier: notifier}
}

func TestInventoryService_RecordTransaction_PublishesOnlyStockOuts(t *testing.T) {
	f := newServiceFixture(t)
	product := f.store.addProduct(10, 5)
	actor := newActor()
	ctx := context.Background()

	out, err := f.service.RecordTransaction(ctx, actor, RecordTransactionRequest{
		ProductID: product.ID.String(), Type: "OUT", Quantity: 4, Notes: "sold",
	}, "")
	require.NoError(t, err)
	assert.Equal(t, 6, out.StockAfter)
	assert.Equal(t, "OUT", out.Type)
	assert.Equal(t, "sold", out.Notes)

	_, err = f.service.RecordTransaction(ctx, actor, RecordTransactionRequest{
		ProductID: product.ID.String(), Type: "IN", Quantity: 20,
	}, "")
	require.NoError(t, err)

	events := f.publisher.published()
	require.Len(t, events, 1)
	stockOut, ok := events[0].(*inventory.StockOutRecordedEvent)
	require.True(t, ok)
	assert.Equal(t, product.ID, stockOut.ProductID)
	assert.Equal(t, 6, stockOut.StockAfter)
	assert.Equal(t, actor.ID, stockOut.ActorID())
	assert.Equal(t, []uuid.UUID{product.ID}, f.notifier.calls())
}

func TestInventoryService_RecordTransaction_FailedStockOutPublishesNothing(t *testing.T) {
	f := newServiceFixture(t)
	product := f.store.addProduct(1, 5)

	_, err := f.service.RecordTransaction(context.Background(), newActor(), RecordTransactionRequest{
		ProductID: product.ID.String(), Type: "OUT", Quantity: 2,
	}, "")
	assert.ErrorIs(t, err, shared.ErrInsufficientStock)
	assert.Empty(t, f.publisher.published())
	assert.Empty(t, f.notifier.calls())
}

func TestInventoryService_RecordTransaction_PublishFailureKeepsResult(t *testing.T) {
	f := newServiceFixture(t)
	f.publisher.err = errors.New("bus unavailable")
	product := f.store.addProduct(10, 5)

	resp, err := f.service.RecordTransaction(context.Background(), newActor(), RecordTransactionRequest{
		ProductID: product.ID.String(), Type: "OUT", Quantity: 9,
	}, "")
	require.NoError(t, err)
	assert.Equal(t, 1, resp.StockAfter)
	assert.Equal(t, 1, f.store.stockOf(product.ID))
}

func TestInventoryService_RecordTransaction_Validation(t *testing.T) {
	f := newServiceFixture(t)

	_, err := f.service.RecordTransaction(context.Background(), newActor(), RecordTransactionRequest{
		ProductID: "not-a-uuid",
		Type:      "SIDEWAYS",
		Quantity:  0,
		Notes:     strings.Repeat("x", 501),
	}, "")

	var verr *shared.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"notes", "product_id", "quantity", "type"}, verr.FieldNames())
	assert.Equal(t, 0, f.store.ledgerLen())
}

func TestInventoryService_RecordTransaction_QuantityAboveIntegerRange(t *testing.T) {
	f := newServiceFixture(t)
	product := f.store.addProduct(10, 5)

	_, err := f.service.RecordTransaction(context.Background(), newActor(), RecordTransactionRequest{
		ProductID: product.ID.String(), Type: "IN", Quantity: 3_000_000_000,
	}, "")

	var verr *shared.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"quantity"}, verr.FieldNames())
	assert.Equal(t, 10, f.store.stockOf(product.ID))
	assert.Equal(t, 0, f.store.ledgerLen())
}

func TestInventoryService_RecordTransaction_UnauthorizedBeforeValidation(t *testing.T) {
	f := newServiceFixture(t)

	_, err := f.service.RecordTransaction(context.Background(), shared.Actor{}, RecordTransactionRequest{}, "")
	assert.ErrorIs(t, err, shared.ErrUnauthorized)
}

func TestInventoryService_RecordTransaction_IdempotencyKey(t *testing.T) {
	f := newServiceFixture(t)
	product := f.store.addProduct(10, 1)
	actor := newActor()
	req := RecordTransactionRequest{ProductID: product.ID.String(), Type: "OUT", Quantity: 3}
	ctx := context.Background()

	_, err := f.service.RecordTransaction(ctx, actor, req, "key-1")
	require.NoError(t, err)

	_, err = f.service.RecordTransaction(ctx, actor, req, "key-1")
	assert.ErrorIs(t, err, shared.ErrDuplicateRequest)
	assert.Equal(t, 7, f.store.stockOf(product.ID))
	assert.Equal(t, 1, f.store.ledgerLen())

	// keys are scoped per actor
	_, err = f.service.RecordTransaction(ctx, newActor(), req, "key-1")
	require.NoError(t, err)
	assert.Equal(t, 4, f.store.stockOf(product.ID))
}

func TestInventoryService_RecordTransaction_FailureReleasesKey(t *testing.T) {
	f := newServiceFixture(t)
	product := f.store.addProduct(2, 1)
	actor := newActor()
	ctx := context.Background()

	_, err := f.service.RecordTransaction(ctx, actor, RecordTransactionRequest{
		ProductID: product.ID.String(), Type: "OUT", Quantity: 5,
	}, "retry-me")
	require.ErrorIs(t, err, shared.ErrInsufficientStock)

	_, err = f.service.RecordTransaction(ctx, actor, RecordTransactionRequest{
		ProductID: product.ID.String(), Type: "OUT", Quantity: 2,
	}, "retry-me")
	require.NoError(t, err)
	assert.Equal(t, 0, f.store.stockOf(product.ID))
}

func TestInventoryService_ListTransactions(t *testing.T) {
	f := newServiceFixture(t)
	a := f.store.addProduct(10, 1)
	b := f.store.addProduct(10, 1)
	actor := newActor()
	ctx := context.Background()

	for _, req := range []RecordTransactionRequest{
		{ProductID: a.ID.String(), Type: "IN", Quantity: 1},
		{ProductID: a.ID.String(), Type: "OUT", Quantity: 1},
		{ProductID: b.ID.String(), Type: "OUT", Quantity: 1},
	} {
		_, err := f.service.RecordTransaction(ctx, actor, req, "")
		require.NoError(t, err)
	}

	all, total, err := f.service.ListTransactions(ctx, actor, TransactionListFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.Equal(t, int64(3), total)

	outs, total, err := f.service.ListTransactions(ctx, actor, TransactionListFilter{ProductID: a.ID.String(), Type: "OUT"})
	require.NoError(t, err)
	require.Len(t, outs, 1)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, a.ID, outs[0].ProductID)

	got, err := f.service.GetTransaction(ctx, actor, outs[0].ID)
	require.NoError(t, err)
	assert.Equal(t, outs[0].ID, got.ID)

	_, _, err = f.service.ListTransactions(ctx, actor, TransactionListFilter{Type: "BOTH"})
	var verr *shared.ValidationError
	assert.ErrorAs(t, err, &verr)
}
