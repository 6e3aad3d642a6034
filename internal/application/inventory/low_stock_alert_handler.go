package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ims/backend/internal/domain/inventory"
	"github.com/ims/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// DefaultAlertTimeout bounds one low-stock evaluation including delivery
const DefaultAlertTimeout = 30 * time.Second

// StockAlertNotifier decides whether a product is low on stock and tells
// the people responsible. It reports nothing back: delivery is best-effort.
type StockAlertNotifier interface {
	EvaluateAndNotify(ctx context.Context, productID uuid.UUID)
}

// AlertDispatcher runs alert work. Dispatch returns an error when the task
// could not be accepted.
type AlertDispatcher interface {
	Dispatch(task func()) error
}

// SyncDispatcher runs each task on the calling goroutine
type SyncDispatcher struct{}

// Dispatch runs task immediately
func (SyncDispatcher) Dispatch(task func()) error {
	task()
	return nil
}

// LowStockAlertHandler reacts to committed stock-outs by asking the notifier
// to evaluate the product. Every qualifying stock-out triggers an
// evaluation; alerts are not debounced.
type LowStockAlertHandler struct {
	logger     *zap.Logger
	notifier   StockAlertNotifier
	dispatcher AlertDispatcher
	timeout    time.Duration
}

// NewLowStockAlertHandler creates a handler that evaluates synchronously
func NewLowStockAlertHandler(logger *zap.Logger) *LowStockAlertHandler {
	return &LowStockAlertHandler{
		logger:     logger,
		dispatcher: SyncDispatcher{},
		timeout:    DefaultAlertTimeout,
	}
}

// WithNotifier sets the notifier
func (h *LowStockAlertHandler) WithNotifier(notifier StockAlertNotifier) *LowStockAlertHandler {
	h.notifier = notifier
	return h
}

// WithDispatcher runs evaluations through d, e.g. a worker pool
func (h *LowStockAlertHandler) WithDispatcher(d AlertDispatcher) *LowStockAlertHandler {
	if d != nil {
		h.dispatcher = d
	}
	return h
}

// WithTimeout sets how long one evaluation may take
func (h *LowStockAlertHandler) WithTimeout(timeout time.Duration) *LowStockAlertHandler {
	if timeout > 0 {
		h.timeout = timeout
	}
	return h
}

// EventTypes returns the event types this handler is interested in
func (h *LowStockAlertHandler) EventTypes() []string {
	return []string{inventory.EventTypeStockOutRecorded}
}

// Handle schedules a low-stock evaluation for the product of a stock-out.
// The evaluation runs on a context detached from the caller's cancellation.
func (h *LowStockAlertHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	stockOut, ok := event.(*inventory.StockOutRecordedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			inventory.EventTypeStockOutRecorded, event.EventType())
	}
	if h.notifier == nil {
		h.logger.Debug("no stock alert notifier configured",
			zap.String("product_id", stockOut.ProductID.String()),
		)
		return nil
	}

	detached := context.WithoutCancel(ctx)
	productID := stockOut.ProductID
	task := func() {
		alertCtx, cancel := context.WithTimeout(detached, h.timeout)
		defer cancel()
		h.notifier.EvaluateAndNotify(alertCtx, productID)
	}

	if err := h.dispatcher.Dispatch(task); err != nil {
		h.logger.Warn("alert dispatcher rejected task, evaluating inline",
			zap.String("product_id", productID.String()),
			zap.Error(err),
		)
		task()
	}
	return nil
}

var _ shared.EventHandler = (*LowStockAlertHandler)(nil)
