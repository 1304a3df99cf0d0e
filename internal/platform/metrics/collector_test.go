package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/watercycle-memory/internal/events"
)

func newEvent(t *testing.T, sessionID uuid.UUID, eventType string, payload interface{}) *events.GameEvent {
	t.Helper()
	event, err := events.NewGameEvent(sessionID, eventType, payload)
	require.NoError(t, err)
	return event
}

func scrape(t *testing.T, reg *prometheus.Registry) string {
	t.Helper()
	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	return rec.Body.String()
}

func TestCollector_HandleEvent(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	c, err := NewCollector(reg)
	require.NoError(t, err)

	ctx := context.Background()
	first, second := uuid.New(), uuid.New()

	require.NoError(t, c.HandleEvent(ctx, newEvent(t, first, events.TypeSessionStarted, nil)))
	require.NoError(t, c.HandleEvent(ctx, newEvent(t, second, events.TypeSessionStarted, nil)))
	require.NoError(t, c.HandleEvent(ctx, newEvent(t, first, events.TypeCardFlipped, nil)))
	require.NoError(t, c.HandleEvent(ctx, newEvent(t, first, events.TypeCardFlipped, nil)))
	require.NoError(t, c.HandleEvent(ctx, newEvent(t, first, events.TypeGameWon, map[string]interface{}{
		"game": map[string]int{"moves": 9, "seconds": 42},
	})))
	require.NoError(t, c.HandleEvent(ctx, newEvent(t, second, events.TypeSessionEnded, nil)))

	body := scrape(t, reg)

	assert.Contains(t, body, `cycle_game_events_total{type="card_flipped"} 2`)
	assert.Contains(t, body, `cycle_game_events_total{type="session_started"} 2`)
	assert.Contains(t, body, "cycle_games_won_total 1")
	assert.Contains(t, body, "cycle_live_sessions 1")
	assert.Contains(t, body, "cycle_game_moves_sum 9")
	assert.Contains(t, body, "cycle_game_moves_count 1")
	assert.Contains(t, body, "cycle_game_duration_seconds_sum 42")
}

func TestCollector_BadWinPayload(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	c, err := NewCollector(reg)
	require.NoError(t, err)

	event := newEvent(t, uuid.New(), events.TypeGameWon, nil)
	event.Payload = []byte(`{"game": "oops"}`)

	err = c.HandleEvent(context.Background(), event)
	assert.Error(t, err)
	assert.Contains(t, scrape(t, reg), "cycle_games_won_total 1")
}

func TestNewCollector_DuplicateRegistration(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	_, err := NewCollector(reg)
	require.NoError(t, err)

	_, err = NewCollector(reg)
	assert.Error(t, err)
}
