package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/watercycle-memory/internal/domain"
	"github.com/phrazzld/watercycle-memory/internal/domain/game"
	"github.com/phrazzld/watercycle-memory/internal/events"
	"github.com/phrazzld/watercycle-memory/internal/platform/logger"
	"github.com/phrazzld/watercycle-memory/internal/store"
)

// Reasons carried by session_ended events.
const (
	EndReasonEnded    = "ended"
	EndReasonExpired  = "expired"
	EndReasonShutdown = "shutdown"
)

// Game is a session identifier together with a snapshot of its state.
type Game struct {
	ID       uuid.UUID     `json:"id"`
	Snapshot game.Snapshot `json:"game"`
}

// FlipOutcome is the result of a flip request.
type FlipOutcome struct {
	Result game.FlipResult
	Game   *Game
}

// ChangePayload is the payload of events produced by session changes.
type ChangePayload struct {
	CardUIDs []string      `json:"card_uids,omitempty"`
	Game     game.Snapshot `json:"game"`
}

// EndedPayload is the payload of session_ended events.
type EndedPayload struct {
	Reason string `json:"reason"`
}

// GameService provides the operations of the memory game.
type GameService interface {
	// NewGame creates a session with a freshly shuffled deck.
	NewGame(ctx context.Context) (*Game, error)

	// GetGame returns the current state of a session.
	GetGame(ctx context.Context, id uuid.UUID) (*Game, error)

	// Flip turns the card at the given position face-up. Flips that cannot
	// apply are reported in the result, not as errors.
	Flip(ctx context.Context, id uuid.UUID, position int) (*FlipOutcome, error)

	// Restart deals a new deck and zeroes the counters.
	Restart(ctx context.Context, id uuid.UUID) (*Game, error)

	// DismissNotice hides the visible notice, if any.
	DismissNotice(ctx context.Context, id uuid.UUID) (*Game, error)

	// EndGame stops a session's timers and forgets it.
	EndGame(ctx context.Context, id uuid.UUID) error

	// EvictIdle ends every session idle longer than the configured TTL and
	// returns how many were evicted.
	EvictIdle(ctx context.Context) (int, error)

	// EndAll ends every live session and returns how many were ended.
	EndAll(ctx context.Context) (int, error)
}

// GameServiceConfig configures the sessions created by a GameService.
// Zero values are replaced by defaults.
type GameServiceConfig struct {
	// SessionTTL is how long a session may stay idle before eviction.
	SessionTTL time.Duration
	Timing     game.Timing
	Scheduler  game.Scheduler
	Shuffler   domain.Shuffler
	// Now is the clock used to compute idle cutoffs.
	Now func() time.Time
}

// DefaultSessionTTL is used when GameServiceConfig.SessionTTL is zero.
const DefaultSessionTTL = time.Hour

// Verify interface compliance at compile time
var _ GameService = (*gameServiceImpl)(nil)

type gameServiceImpl struct {
	store   store.SessionStore
	emitter events.EventEmitter
	config  GameServiceConfig
	logger  *slog.Logger
}

// NewGameService creates a new GameService.
func NewGameService(
	sessionStore store.SessionStore,
	emitter events.EventEmitter,
	config GameServiceConfig,
	logger *slog.Logger,
) GameService {
	if sessionStore == nil {
		panic("sessionStore cannot be nil")
	}
	if emitter == nil {
		panic("emitter cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if config.SessionTTL <= 0 {
		config.SessionTTL = DefaultSessionTTL
	}
	if config.Scheduler == nil {
		config.Scheduler = game.SystemScheduler()
	}
	if config.Now == nil {
		config.Now = func() time.Time { return time.Now().UTC() }
	}

	return &gameServiceImpl{
		store:   sessionStore,
		emitter: emitter,
		config:  config,
		logger:  logger.With(slog.String("component", "game_service")),
	}
}

// NewGame implements GameService.NewGame.
func (s *gameServiceImpl) NewGame(ctx context.Context) (*Game, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	id := uuid.New()
	session, err := game.NewSession(game.SessionConfig{
		Timing:    s.config.Timing,
		Scheduler: s.config.Scheduler,
		Shuffler:  s.config.Shuffler,
		Listener:  s.listener(id),
	})
	if err != nil {
		log.Error("failed to create session", slog.String("error", err.Error()))
		return nil, NewGameServiceError("new_game", "failed to create session", err)
	}

	if err := s.store.Save(ctx, id, session); err != nil {
		session.Close()
		log.Warn("failed to store session",
			slog.String("session_id", id.String()),
			slog.String("error", err.Error()))
		return nil, NewGameServiceError("new_game", "failed to store session", err)
	}

	snap := session.Snapshot()
	s.emit(ctx, id, events.TypeSessionStarted, ChangePayload{Game: snap})

	log.Info("game started", slog.String("session_id", id.String()))
	return &Game{ID: id, Snapshot: snap}, nil
}

// GetGame implements GameService.GetGame.
func (s *gameServiceImpl) GetGame(ctx context.Context, id uuid.UUID) (*Game, error) {
	session, err := s.session(ctx, "get_game", id)
	if err != nil {
		return nil, err
	}
	return &Game{ID: id, Snapshot: session.Snapshot()}, nil
}

// Flip implements GameService.Flip.
func (s *gameServiceImpl) Flip(ctx context.Context, id uuid.UUID, position int) (*FlipOutcome, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	session, err := s.session(ctx, "flip", id)
	if err != nil {
		return nil, err
	}

	result, err := session.Flip(position)
	if err != nil {
		if errors.Is(err, game.ErrSessionClosed) {
			return nil, NewGameServiceError("flip", "game has ended", ErrGameEnded)
		}
		log.Debug("flip rejected",
			slog.String("session_id", id.String()),
			slog.Int("position", position),
			slog.String("error", err.Error()))
		return nil, NewGameServiceError("flip", "invalid card position", err)
	}

	if result.Ignored() {
		log.Debug("flip ignored",
			slog.String("session_id", id.String()),
			slog.Int("position", position),
			slog.String("reason", string(result.Reason)))
	}

	return &FlipOutcome{
		Result: result,
		Game:   &Game{ID: id, Snapshot: session.Snapshot()},
	}, nil
}

// Restart implements GameService.Restart.
func (s *gameServiceImpl) Restart(ctx context.Context, id uuid.UUID) (*Game, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	session, err := s.session(ctx, "restart", id)
	if err != nil {
		return nil, err
	}

	if err := session.Reset(); err != nil {
		if errors.Is(err, game.ErrSessionClosed) {
			return nil, NewGameServiceError("restart", "game has ended", ErrGameEnded)
		}
		log.Error("failed to reset session",
			slog.String("session_id", id.String()),
			slog.String("error", err.Error()))
		return nil, NewGameServiceError("restart", "failed to reset session", err)
	}

	log.Info("game restarted", slog.String("session_id", id.String()))
	return &Game{ID: id, Snapshot: session.Snapshot()}, nil
}

// DismissNotice implements GameService.DismissNotice.
func (s *gameServiceImpl) DismissNotice(ctx context.Context, id uuid.UUID) (*Game, error) {
	session, err := s.session(ctx, "dismiss_notice", id)
	if err != nil {
		return nil, err
	}
	session.DismissNotice()
	return &Game{ID: id, Snapshot: session.Snapshot()}, nil
}

// EndGame implements GameService.EndGame.
func (s *gameServiceImpl) EndGame(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	session, err := s.store.Delete(ctx, id)
	if err != nil {
		return NewGameServiceError("end_game", "failed to remove session", err)
	}
	session.Close()
	s.emit(ctx, id, events.TypeSessionEnded, EndedPayload{Reason: EndReasonEnded})

	log.Info("game ended", slog.String("session_id", id.String()))
	return nil
}

// EvictIdle implements GameService.EvictIdle.
func (s *gameServiceImpl) EvictIdle(ctx context.Context) (int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	cutoff := s.config.Now().Add(-s.config.SessionTTL)
	ids, err := s.store.IdleSince(ctx, cutoff)
	if err != nil {
		return 0, NewGameServiceError("evict_idle", "failed to list idle sessions", err)
	}

	evicted := s.endSessions(ctx, "evict_idle", ids, EndReasonExpired)
	if evicted > 0 {
		log.Info("evicted idle sessions",
			slog.Int("count", evicted),
			slog.Int("remaining", s.store.Count(ctx)))
	}
	return evicted, nil
}

// EndAll implements GameService.EndAll.
func (s *gameServiceImpl) EndAll(ctx context.Context) (int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	ids, err := s.store.List(ctx)
	if err != nil {
		return 0, NewGameServiceError("end_all", "failed to list sessions", err)
	}

	ended := s.endSessions(ctx, "end_all", ids, EndReasonShutdown)
	log.Info("ended all sessions", slog.Int("count", ended))
	return ended, nil
}

// endSessions removes and closes the given sessions, publishing
// session_ended with reason for each one actually removed.
func (s *gameServiceImpl) endSessions(ctx context.Context, op string, ids []uuid.UUID, reason string) int {
	log := logger.FromContextOrDefault(ctx, s.logger)

	ended := 0
	for _, id := range ids {
		session, err := s.store.Delete(ctx, id)
		if err != nil {
			if store.IsNotFoundError(err) {
				// Ended concurrently.
				continue
			}
			log.Error("failed to end session",
				slog.String("operation", op),
				slog.String("session_id", id.String()),
				slog.String("error", err.Error()))
			continue
		}
		session.Close()
		s.emit(ctx, id, events.TypeSessionEnded, EndedPayload{Reason: reason})
		ended++
	}
	return ended
}

// session fetches a live session and records activity on it.
func (s *gameServiceImpl) session(ctx context.Context, op string, id uuid.UUID) (*game.Session, error) {
	session, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, NewGameServiceError(op, "failed to find session", err)
	}
	if session.Closed() {
		return nil, NewGameServiceError(op, "game has ended", ErrGameEnded)
	}
	if err := s.store.Touch(ctx, id); err != nil {
		return nil, NewGameServiceError(op, "failed to find session", err)
	}
	return session, nil
}

// listener converts the changes of session id into events. It runs on
// request goroutines and on timer goroutines alike.
func (s *gameServiceImpl) listener(id uuid.UUID) game.Listener {
	return func(c game.Change) {
		s.emit(context.Background(), id, string(c.Kind), ChangePayload{
			CardUIDs: c.CardUIDs,
			Game:     c.Snapshot,
		})
	}
}

func (s *gameServiceImpl) emit(ctx context.Context, id uuid.UUID, eventType string, payload interface{}) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	event, err := events.NewGameEvent(id, eventType, payload)
	if err != nil {
		log.Error("failed to build event",
			slog.String("session_id", id.String()),
			slog.String("event_type", eventType),
			slog.String("error", err.Error()))
		return
	}
	if err := s.emitter.EmitEvent(ctx, event); err != nil {
		log.Warn("event handler failed",
			slog.String("session_id", id.String()),
			slog.String("event_type", eventType),
			slog.String("error", err.Error()))
	}
}
