package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/watercycle-memory/internal/domain/game"
)

// SessionStore defines the interface for holding live game sessions.
type SessionStore interface {
	// Save stores a new session under the given ID and marks it active.
	// Returns ErrSessionExists if the ID is taken, ErrStoreFull when the
	// store is at capacity and ErrInvalidEntity for a nil session.
	Save(ctx context.Context, id uuid.UUID, session *game.Session) error

	// Get retrieves a session by ID.
	// Returns ErrSessionNotFound if the session does not exist.
	Get(ctx context.Context, id uuid.UUID) (*game.Session, error)

	// Touch records activity on a session, postponing its eviction.
	// Returns ErrSessionNotFound if the session does not exist.
	Touch(ctx context.Context, id uuid.UUID) error

	// Delete removes a session and returns it so the caller can release it.
	// Returns ErrSessionNotFound if the session does not exist.
	Delete(ctx context.Context, id uuid.UUID) (*game.Session, error)

	// IdleSince lists the sessions whose last activity is before the given time.
	IdleSince(ctx context.Context, before time.Time) ([]uuid.UUID, error)

	// List returns the IDs of every stored session.
	List(ctx context.Context) ([]uuid.UUID, error)

	// Count returns the number of stored sessions.
	Count(ctx context.Context) int
}
