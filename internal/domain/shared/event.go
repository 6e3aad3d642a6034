package shared

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// DomainEvent is something that happened after a committed change
type DomainEvent interface {
	EventID() uuid.UUID
	EventType() string
	OccurredAt() time.Time
	// ActorID is the profile that caused the event, uuid.Nil for system work
	ActorID() uuid.UUID
}

// EventHeader carries the identity of an event. Concrete events embed it.
type EventHeader struct {
	ID    uuid.UUID `json:"event_id"`
	Type  string    `json:"event_type"`
	At    time.Time `json:"occurred_at"`
	Actor uuid.UUID `json:"actor_id"`
}

func NewEventHeader(eventType string, actorID uuid.UUID) EventHeader {
	return EventHeader{ID: uuid.New(), Type: eventType, At: time.Now(), Actor: actorID}
}

func (h EventHeader) EventID() uuid.UUID    { return h.ID }
func (h EventHeader) EventType() string     { return h.Type }
func (h EventHeader) OccurredAt() time.Time { return h.At }
func (h EventHeader) ActorID() uuid.UUID    { return h.Actor }

// EventPublisher delivers events to subscribed handlers
type EventPublisher interface {
	Publish(ctx context.Context, events ...DomainEvent) error
}

// EventHandler reacts to the event types it lists. An empty list
// subscribes to every event.
type EventHandler interface {
	Handle(ctx context.Context, event DomainEvent) error
	EventTypes() []string
}
