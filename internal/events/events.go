package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Event types.
const (
	TypeReviewRecorded  = "review.recorded"
	TypeDeckInitialized = "deck.initialized"
)

// Event is a notification about a committed change for one user.
type Event struct {
	ID         uuid.UUID       `json:"id"`
	Type       string          `json:"type"`
	UserID     uuid.UUID       `json:"user_id"`
	Payload    json.RawMessage `json:"payload"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// ReviewRecorded is the payload of a TypeReviewRecorded event.
type ReviewRecorded struct {
	ReviewID       uuid.UUID `json:"review_id"`
	CardID         uuid.UUID `json:"card_id"`
	DeckID         uuid.UUID `json:"deck_id"`
	Quality        int       `json:"quality"`
	Interval       int       `json:"interval"`
	EaseFactor     float64   `json:"ease_factor"`
	NextReviewDate time.Time `json:"next_review_date"`
}

// DeckInitialized is the payload of a TypeDeckInitialized event.
type DeckInitialized struct {
	DeckID  uuid.UUID `json:"deck_id"`
	Cards   int       `json:"cards"`
	Created int       `json:"created"`
}

// NewEvent builds an event with a fresh ID and the payload encoded as JSON.
func NewEvent(eventType string, userID uuid.UUID, payload any, now time.Time) (*Event, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s payload: %w", eventType, err)
	}

	return &Event{
		ID:         uuid.New(),
		Type:       eventType,
		UserID:     userID,
		Payload:    raw,
		OccurredAt: now.UTC(),
	}, nil
}

// UnmarshalPayload decodes the event payload into v.
func (e *Event) UnmarshalPayload(v any) error {
	return json.Unmarshal(e.Payload, v)
}

// Handler processes events.
type Handler interface {
	HandleEvent(ctx context.Context, event *Event) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, event *Event) error

// HandleEvent calls f.
func (f HandlerFunc) HandleEvent(ctx context.Context, event *Event) error {
	return f(ctx, event)
}

// Emitter publishes events.
type Emitter interface {
	Emit(ctx context.Context, event *Event) error
}

// NopEmitter drops every event.
type NopEmitter struct{}

// Emit implements Emitter.
func (NopEmitter) Emit(context.Context, *Event) error { return nil }
