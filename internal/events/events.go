package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event types published for game sessions.
const (
	TypeSessionStarted = "session_started"
	TypeSessionReset   = "session_reset"
	TypeSessionEnded   = "session_ended"
	TypeCardFlipped    = "card_flipped"
	TypePairMatched    = "pair_matched"
	TypePairMismatched = "pair_mismatched"
	TypeCardsHidden    = "cards_hidden"
	TypeClockTick      = "clock_tick"
	TypeGameWon        = "game_won"
	TypeNoticeShown    = "notice_shown"
	TypeNoticeHidden   = "notice_hidden"
)

// GameEvent represents a state change of a single game session.
type GameEvent struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	// SessionID identifies the game session the event belongs to
	SessionID uuid.UUID `json:"session_id"`

	// Type is one of the Type* constants
	Type string `json:"type"`

	// Payload contains the event-specific data serialized as JSON
	Payload json.RawMessage `json:"payload"`

	// CreatedAt is the timestamp when the event was created
	CreatedAt time.Time `json:"created_at"`
}

// UnmarshalPayload decodes the event payload into the provided structure.
func (e *GameEvent) UnmarshalPayload(v interface{}) error {
	return json.Unmarshal(e.Payload, v)
}

// NewGameEvent creates a new GameEvent for a session with the specified type and payload.
func NewGameEvent(sessionID uuid.UUID, eventType string, payload interface{}) (*GameEvent, error) {
	// Serialize the payload to JSON
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &GameEvent{
		ID:        uuid.New(),
		SessionID: sessionID,
		Type:      eventType,
		Payload:   payloadBytes,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// EventHandler defines an interface for components that can handle events.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	// Returns an error if the event cannot be handled successfully.
	HandleEvent(ctx context.Context, event *GameEvent) error
}

// EventHandlerFunc adapts a function to the EventHandler interface.
type EventHandlerFunc func(ctx context.Context, event *GameEvent) error

// HandleEvent calls f(ctx, event).
func (f EventHandlerFunc) HandleEvent(ctx context.Context, event *GameEvent) error {
	return f(ctx, event)
}

// EventEmitter defines an interface for components that can emit events.
// This allows services to publish events without direct knowledge of handlers.
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	// Returns an error if the event cannot be emitted.
	EmitEvent(ctx context.Context, event *GameEvent) error
}
