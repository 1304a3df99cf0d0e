package mocks

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/phrazzld/watercycle-memory/internal/service"
)

// MockGameService implements service.GameService for testing
type MockGameService struct {
	// Custom behavior functions
	NewGameFn       func(ctx context.Context) (*service.Game, error)
	GetGameFn       func(ctx context.Context, id uuid.UUID) (*service.Game, error)
	FlipFn          func(ctx context.Context, id uuid.UUID, position int) (*service.FlipOutcome, error)
	RestartFn       func(ctx context.Context, id uuid.UUID) (*service.Game, error)
	DismissNoticeFn func(ctx context.Context, id uuid.UUID) (*service.Game, error)
	EndGameFn       func(ctx context.Context, id uuid.UUID) error
	EvictIdleFn     func(ctx context.Context) (int, error)
	EndAllFn        func(ctx context.Context) (int, error)

	// Default return values
	Game         *service.Game
	Outcome      *service.FlipOutcome
	DefaultError error

	mu    sync.Mutex
	calls []string
}

var _ service.GameService = (*MockGameService)(nil)

func (m *MockGameService) record(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, name)
}

// Calls returns the names of the methods invoked so far, in order.
func (m *MockGameService) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.calls))
	copy(out, m.calls)
	return out
}

// NewGame implements the GameService.NewGame method
func (m *MockGameService) NewGame(ctx context.Context) (*service.Game, error) {
	m.record("NewGame")
	if m.NewGameFn != nil {
		return m.NewGameFn(ctx)
	}
	return m.Game, m.DefaultError
}

// GetGame implements the GameService.GetGame method
func (m *MockGameService) GetGame(ctx context.Context, id uuid.UUID) (*service.Game, error) {
	m.record("GetGame")
	if m.GetGameFn != nil {
		return m.GetGameFn(ctx, id)
	}
	return m.Game, m.DefaultError
}

// Flip implements the GameService.Flip method
func (m *MockGameService) Flip(ctx context.Context, id uuid.UUID, position int) (*service.FlipOutcome, error) {
	m.record("Flip")
	if m.FlipFn != nil {
		return m.FlipFn(ctx, id, position)
	}
	return m.Outcome, m.DefaultError
}

// Restart implements the GameService.Restart method
func (m *MockGameService) Restart(ctx context.Context, id uuid.UUID) (*service.Game, error) {
	m.record("Restart")
	if m.RestartFn != nil {
		return m.RestartFn(ctx, id)
	}
	return m.Game, m.DefaultError
}

// DismissNotice implements the GameService.DismissNotice method
func (m *MockGameService) DismissNotice(ctx context.Context, id uuid.UUID) (*service.Game, error) {
	m.record("DismissNotice")
	if m.DismissNoticeFn != nil {
		return m.DismissNoticeFn(ctx, id)
	}
	return m.Game, m.DefaultError
}

// EndGame implements the GameService.EndGame method
func (m *MockGameService) EndGame(ctx context.Context, id uuid.UUID) error {
	m.record("EndGame")
	if m.EndGameFn != nil {
		return m.EndGameFn(ctx, id)
	}
	return m.DefaultError
}

// EvictIdle implements the GameService.EvictIdle method
func (m *MockGameService) EvictIdle(ctx context.Context) (int, error) {
	m.record("EvictIdle")
	if m.EvictIdleFn != nil {
		return m.EvictIdleFn(ctx)
	}
	return 0, m.DefaultError
}

// EndAll implements the GameService.EndAll method
func (m *MockGameService) EndAll(ctx context.Context) (int, error) {
	m.record("EndAll")
	if m.EndAllFn != nil {
		return m.EndAllFn(ctx)
	}
	return 0, m.DefaultError
}
