package api

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/watercycle-memory/internal/api/shared"
	"github.com/phrazzld/watercycle-memory/internal/domain"
	"github.com/phrazzld/watercycle-memory/internal/domain/game"
	"github.com/phrazzld/watercycle-memory/internal/events"
	"github.com/phrazzld/watercycle-memory/internal/realtime"
	"github.com/phrazzld/watercycle-memory/internal/service"
	"github.com/phrazzld/watercycle-memory/internal/store"
)

// orderedShuffler keeps the paired list in order: positions 2k and 2k+1
// hold the two cards of stage k.
type orderedShuffler struct{}

func (orderedShuffler) IntN(n int) int { return n - 1 }

const (
	aguaA = 12
	solA  = 14
	solB  = 15
)

type testAPI struct {
	router http.Handler
	sched  *game.ManualScheduler
	hub    *realtime.Hub
}

func newTestAPI(t *testing.T, capacity int) *testAPI {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	sched := game.NewManualScheduler(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	emitter := events.NewInMemoryEventEmitter(logger)
	hub := realtime.NewHub(logger)
	emitter.RegisterHandler(hub)
	t.Cleanup(hub.Close)

	games := service.NewGameService(store.NewMemorySessionStore(capacity), emitter, service.GameServiceConfig{
		Scheduler: sched,
		Shuffler:  orderedShuffler{},
	}, logger)

	r := chi.NewRouter()
	r.Route("/api", NewGameHandler(games, hub, logger).Mount)

	return &testAPI{router: r, sched: sched, hub: hub}
}

func (a *testAPI) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func (a *testAPI) createGame(t *testing.T) GameResponse {
	t.Helper()
	rec := a.do(t, http.MethodPost, "/api/games", "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var g GameResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &g))
	return g
}

func (a *testAPI) flip(t *testing.T, id string, position int) (int, FlipResponse) {
	t.Helper()
	rec := a.do(t, http.MethodPost, "/api/games/"+id+"/flips", `{"position": `+itoa(position)+`}`)
	var resp FlipResponse
	if rec.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	}
	return rec.Code, resp
}

func itoa(n int) string {
	b, _ := json.Marshal(n)
	return string(b)
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) shared.ErrorResponse {
	t.Helper()
	var resp shared.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestListStages(t *testing.T) {
	t.Parallel()
	a := newTestAPI(t, 0)

	rec := a.do(t, http.MethodGet, "/api/stages", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var stages []StageResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stages))
	require.Len(t, stages, domain.StageCount)
	assert.Equal(t, "evaporacao", stages[0].ID)
	assert.Equal(t, "img/evaporacao.png", stages[0].Image)
}

func TestCreateAndGetGame(t *testing.T) {
	t.Parallel()
	a := newTestAPI(t, 0)

	g := a.createGame(t)
	assert.Len(t, g.Cards, 16)
	assert.Equal(t, "idle", g.State)
	assert.Equal(t, "00:00", g.Elapsed)
	assert.Equal(t, 8, g.TotalPairs)
	for _, c := range g.Cards {
		assert.Empty(t, c.UID, "face-down cards hide their instance id")
		assert.Nil(t, c.Stage, "face-down cards hide their stage")
	}

	rec := a.do(t, http.MethodGet, "/api/games/"+g.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var got GameResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, g.ID, got.ID)
}

func TestFlipMatch(t *testing.T) {
	t.Parallel()
	a := newTestAPI(t, 0)
	g := a.createGame(t)

	code, resp := a.flip(t, g.ID, solA)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "first_flipped", resp.Outcome)
	require.NotNil(t, resp.Game.Cards[solA].Stage)
	assert.Equal(t, "sol", resp.Game.Cards[solA].Stage.ID)
	assert.True(t, resp.Game.ClockRunning)

	code, resp = a.flip(t, g.ID, solB)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "matched", resp.Outcome)
	assert.Equal(t, 1, resp.Game.Matches)
	assert.Equal(t, 1, resp.Game.Moves)
	assert.True(t, resp.Game.Cards[solA].Matched)
	assert.True(t, resp.Game.Cards[solB].Matched)
	require.NotNil(t, resp.Game.Notice)
	assert.Equal(t, "Par: Sol", resp.Game.Notice.Title)
	assert.Equal(t, int64(3000), resp.Game.Notice.DurationMS)
	assert.NotNil(t, resp.Game.Notice.ExpiresAt)

	code, resp = a.flip(t, g.ID, solA)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ignored", resp.Outcome)
	assert.Equal(t, "already_matched", resp.IgnoredReason)
	assert.Equal(t, 1, resp.Game.Moves)
}

func TestFlipMismatchLocks(t *testing.T) {
	t.Parallel()
	a := newTestAPI(t, 0)
	g := a.createGame(t)

	a.flip(t, g.ID, solA)
	code, resp := a.flip(t, g.ID, aguaA)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "mismatched", resp.Outcome)
	assert.True(t, resp.Game.Locked)

	_, resp = a.flip(t, g.ID, 0)
	assert.Equal(t, "ignored", resp.Outcome)
	assert.Equal(t, "locked", resp.IgnoredReason)

	a.sched.Advance(game.DefaultMismatchDelay)

	rec := a.do(t, http.MethodGet, "/api/games/"+g.ID, "")
	var got GameResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.False(t, got.Locked)
	assert.False(t, got.Cards[solA].Flipped)
	assert.False(t, got.Cards[aguaA].Flipped)
	assert.Equal(t, 1, got.Moves)
}

func TestFlipBadRequests(t *testing.T) {
	t.Parallel()
	a := newTestAPI(t, 0)
	g := a.createGame(t)

	tests := []struct {
		name       string
		path       string
		body       string
		wantStatus int
		wantError  string
	}{
		{"malformed json", "/api/games/" + g.ID + "/flips", `{"position":`, http.StatusBadRequest, "Invalid request format"},
		{"missing position", "/api/games/" + g.ID + "/flips", `{}`, http.StatusBadRequest, "Invalid position: required field"},
		{"negative position", "/api/games/" + g.ID + "/flips", `{"position": -1}`, http.StatusBadRequest, "Invalid position: too small"},
		{"unknown field", "/api/games/" + g.ID + "/flips", `{"card_id": "sol-14"}`, http.StatusBadRequest, "Invalid request format"},
		{"out of range", "/api/games/" + g.ID + "/flips", `{"position": 16}`, http.StatusNotFound, "Card not found"},
		{"bad game id", "/api/games/not-a-uuid/flips", `{"position": 1}`, http.StatusBadRequest, "Invalid game ID"},
		{"unknown game", "/api/games/" + uuid.NewString() + "/flips", `{"position": 1}`, http.StatusNotFound, "Game not found"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := a.do(t, http.MethodPost, tc.path, tc.body)
			assert.Equal(t, tc.wantStatus, rec.Code)
			assert.Equal(t, tc.wantError, decodeError(t, rec).Error)
		})
	}
}

func TestRestartAndDismiss(t *testing.T) {
	t.Parallel()
	a := newTestAPI(t, 0)
	g := a.createGame(t)

	a.flip(t, g.ID, solA)
	_, resp := a.flip(t, g.ID, solB)
	require.NotNil(t, resp.Game.Notice)

	rec := a.do(t, http.MethodDelete, "/api/games/"+g.ID+"/notice", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var dismissed GameResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dismissed))
	assert.Nil(t, dismissed.Notice)

	a.sched.Advance(5 * time.Second)

	rec = a.do(t, http.MethodPost, "/api/games/"+g.ID+"/restart", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var restarted GameResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &restarted))
	assert.Equal(t, 0, restarted.Moves)
	assert.Equal(t, 0, restarted.Matches)
	assert.Equal(t, "00:00", restarted.Elapsed)
	for _, c := range restarted.Cards {
		assert.False(t, c.Flipped)
		assert.False(t, c.Matched)
	}
}

func TestEndGame(t *testing.T) {
	t.Parallel()
	a := newTestAPI(t, 0)
	g := a.createGame(t)

	rec := a.do(t, http.MethodDelete, "/api/games/"+g.ID, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = a.do(t, http.MethodGet, "/api/games/"+g.ID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = a.do(t, http.MethodDelete, "/api/games/"+g.ID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateGameStoreFull(t *testing.T) {
	t.Parallel()
	a := newTestAPI(t, 1)
	a.createGame(t)

	rec := a.do(t, http.MethodPost, "/api/games", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "Too many active games, try again later", decodeError(t, rec).Error)
}

func TestEventsWebsocket(t *testing.T) {
	t.Parallel()
	a := newTestAPI(t, 0)
	srv := httptest.NewServer(a.router)
	defer srv.Close()

	g := a.createGame(t)
	id := uuid.MustParse(g.ID)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/games/" + g.ID + "/events"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return a.hub.Subscribers(id) == 1 }, time.Second, 5*time.Millisecond)

	a.flip(t, g.ID, solA)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)

	var event events.GameEvent
	require.NoError(t, json.Unmarshal(msg, &event))
	assert.Equal(t, id, event.SessionID)
	assert.Equal(t, events.TypeCardFlipped, event.Type)
}

func TestEventsUnknownGame(t *testing.T) {
	t.Parallel()
	a := newTestAPI(t, 0)

	rec := a.do(t, http.MethodGet, "/api/games/"+uuid.NewString()+"/events", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
