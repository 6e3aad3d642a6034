package event

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/ims/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testEvent struct {
	shared.EventHeader
}

func newTestEvent(eventType string) *testEvent {
	return &testEvent{
		EventHeader: shared.NewEventHeader(eventType, uuid.New()),
	}
}

type testHandler struct {
	eventTypes []string
	handled    []shared.DomainEvent
	err        error
	panics     bool
	mu         sync.Mutex
}

func newTestHandler(eventTypes ...string) *testHandler {
	return &testHandler{eventTypes: eventTypes}
}

func (h *testHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handled = append(h.handled, event)
	if h.panics {
		panic("boom")
	}
	return h.err
}

func (h *testHandler) EventTypes() []string {
	return h.eventTypes
}

func (h *testHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.handled)
}

func TestInMemoryEventBus_Publish(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	handler := newTestHandler("inventory.stock_out.recorded")
	bus.Subscribe(handler)

	event := newTestEvent("inventory.stock_out.recorded")
	require.NoError(t, bus.Publish(context.Background(), event))

	require.Equal(t, 1, handler.count())
	assert.Equal(t, event, handler.handled[0])
}

func TestInMemoryEventBus_Publish_OnlyMatchingTypes(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	matching := newTestHandler()
	other := newTestHandler()
	bus.Subscribe(matching, "a")
	bus.Subscribe(other, "b")

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("a"), newTestEvent("a")))

	assert.Equal(t, 2, matching.count())
	assert.Equal(t, 0, other.count())
}

func TestInMemoryEventBus_Publish_WildcardHandler(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	wildcard := newTestHandler()
	bus.Subscribe(wildcard)

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("anything")))
	assert.Equal(t, 1, wildcard.count())
}

func TestInMemoryEventBus_HandlerFailuresAreIsolated(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	failing := newTestHandler("a")
	failing.err = errors.New("handler error")
	panicking := newTestHandler("a")
	panicking.panics = true
	healthy := newTestHandler("a")
	bus.Subscribe(failing)
	bus.Subscribe(panicking)
	bus.Subscribe(healthy)

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("a")))
	assert.Equal(t, 1, failing.count())
	assert.Equal(t, 1, panicking.count())
	assert.Equal(t, 1, healthy.count())
}

func TestInMemoryEventBus_Unsubscribe(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	handler := newTestHandler("a", "b")
	bus.Subscribe(handler)
	_ = bus.Publish(context.Background(), newTestEvent("a"))
	bus.Unsubscribe(handler)
	_ = bus.Publish(context.Background(), newTestEvent("a"), newTestEvent("b"))

	assert.Equal(t, 1, handler.count())
	assert.Empty(t, bus.handlersFor("a"))
	assert.Empty(t, bus.handlersFor("b"))
}

func TestInMemoryEventBus_StopDropsEvents(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	ctx := context.Background()
	handler := newTestHandler("a")
	bus.Subscribe(handler)

	require.NoError(t, bus.Stop(ctx))
	require.NoError(t, bus.Publish(ctx, newTestEvent("a")))
	assert.Zero(t, handler.count())

	require.NoError(t, bus.Start(ctx))
	require.NoError(t, bus.Publish(ctx, newTestEvent("a")))
	assert.Equal(t, 1, handler.count())
}
