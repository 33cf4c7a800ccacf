package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Card lifecycle event types.
const (
	CardCreated   = "card.created"
	CardUpdated   = "card.updated"
	CardReviewed  = "card.reviewed"
	CardPostponed = "card.postponed"
	CardDeleted   = "card.deleted"
)

// CardEvent records something that happened to a card after it was committed
// to the store.
type CardEvent struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	// Type is one of the Card* constants
	Type string `json:"type"`

	// CardID identifies the card the event is about
	CardID uuid.UUID `json:"card_id"`

	// Payload contains the type-specific data serialized as JSON
	Payload json.RawMessage `json:"payload,omitempty"`

	// OccurredAt is the instant the change was made
	OccurredAt time.Time `json:"occurred_at"`
}

// ScheduleChange is the payload of card.reviewed and card.postponed events.
type ScheduleChange struct {
	Rating     string  `json:"rating,omitempty"`
	Days       int     `json:"days,omitempty"`
	EaseFactor float64 `json:"ease_factor"`
	Interval   float64 `json:"interval"`
	NextReview string  `json:"next_review"`
}

// UnmarshalPayload decodes the event payload into the provided structure.
func (e *CardEvent) UnmarshalPayload(v interface{}) error {
	return json.Unmarshal(e.Payload, v)
}

// NewCardEvent creates a CardEvent with the specified type and payload.
// A nil payload leaves Payload empty.
func NewCardEvent(eventType string, cardID uuid.UUID, payload interface{}, at time.Time) (*CardEvent, error) {
	var raw json.RawMessage
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		raw = b
	}

	return &CardEvent{
		ID:         uuid.New(),
		Type:       eventType,
		CardID:     cardID,
		Payload:    raw,
		OccurredAt: at.UTC(),
	}, nil
}

// EventHandler defines an interface for components that can handle events.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	// Returns an error if the event cannot be handled successfully.
	HandleEvent(ctx context.Context, event *CardEvent) error
}

// HandlerFunc adapts a function to the EventHandler interface.
type HandlerFunc func(ctx context.Context, event *CardEvent) error

// HandleEvent calls f(ctx, event).
func (f HandlerFunc) HandleEvent(ctx context.Context, event *CardEvent) error {
	return f(ctx, event)
}

// EventEmitter defines an interface for components that can emit events.
// This allows services to publish events without direct knowledge of handlers.
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	// Returns an error if the event cannot be emitted.
	EmitEvent(ctx context.Context, event *CardEvent) error
}
