package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/phrazzld/watercycle-memory/internal/api/shared"
	"github.com/phrazzld/watercycle-memory/internal/domain"
	"github.com/phrazzld/watercycle-memory/internal/platform/logger"
	"github.com/phrazzld/watercycle-memory/internal/realtime"
	"github.com/phrazzld/watercycle-memory/internal/service"
)

// GameHandler handles game-related HTTP requests
type GameHandler struct {
	games  service.GameService
	hub    *realtime.Hub
	logger *slog.Logger
}

// NewGameHandler creates a new GameHandler. The hub may be nil, in which
// case the events endpoint is not registered.
func NewGameHandler(games service.GameService, hub *realtime.Hub, logger *slog.Logger) *GameHandler {
	if games == nil {
		panic("games cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &GameHandler{
		games:  games,
		hub:    hub,
		logger: logger.With("component", "game_handler"),
	}
}

// Mount registers the handler's routes on r, relative to the API prefix.
func (h *GameHandler) Mount(r chi.Router) {
	r.Get("/stages", h.ListStages)

	r.Route("/games", func(r chi.Router) {
		r.Post("/", h.CreateGame)
		r.Get("/{id}", h.GetGame)
		r.Delete("/{id}", h.EndGame)
		r.Post("/{id}/flips", h.Flip)
		r.Post("/{id}/restart", h.Restart)
		r.Delete("/{id}/notice", h.DismissNotice)
		if h.hub != nil {
			r.Get("/{id}/events", h.Events)
		}
	})
}

// ListStages handles GET /api/stages requests
func (h *GameHandler) ListStages(w http.ResponseWriter, r *http.Request) {
	stages := domain.Stages()
	resp := make([]StageResponse, len(stages))
	for i, s := range stages {
		resp[i] = stageToResponse(s)
	}
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// CreateGame handles POST /api/games requests
func (h *GameHandler) CreateGame(w http.ResponseWriter, r *http.Request) {
	g, err := h.games.NewGame(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create game")
		return
	}

	w.Header().Set("Location", "/api/games/"+g.ID.String())
	shared.RespondWithJSON(w, r, http.StatusCreated, gameToResponse(g))
}

// GetGame handles GET /api/games/{id} requests
func (h *GameHandler) GetGame(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid game ID")
		return
	}

	g, err := h.games.GetGame(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get game")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, gameToResponse(g))
}

// Flip handles POST /api/games/{id}/flips requests
func (h *GameHandler) Flip(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, err := getPathUUID(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid game ID")
		return
	}

	var req FlipRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		log.Debug("invalid flip request", slog.String("error", err.Error()))
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	out, err := h.games.Flip(r.Context(), id, *req.Position)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to flip card")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, FlipResponse{
		Outcome:       string(out.Result.Outcome),
		IgnoredReason: string(out.Result.Reason),
		Game:          gameToResponse(out.Game),
	})
}

// Restart handles POST /api/games/{id}/restart requests
func (h *GameHandler) Restart(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid game ID")
		return
	}

	g, err := h.games.Restart(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to restart game")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, gameToResponse(g))
}

// DismissNotice handles DELETE /api/games/{id}/notice requests
func (h *GameHandler) DismissNotice(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid game ID")
		return
	}

	g, err := h.games.DismissNotice(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to dismiss notice")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, gameToResponse(g))
}

// EndGame handles DELETE /api/games/{id} requests
func (h *GameHandler) EndGame(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid game ID")
		return
	}

	if err := h.games.EndGame(r.Context(), id); err != nil {
		HandleAPIError(w, r, err, "Failed to end game")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Events handles GET /api/games/{id}/events requests by upgrading the
// connection to a websocket that streams the game's events.
func (h *GameHandler) Events(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, err := getPathUUID(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid game ID")
		return
	}

	if _, err := h.games.GetGame(r.Context(), id); err != nil {
		HandleAPIError(w, r, err, "Failed to get game")
		return
	}

	if err := h.hub.ServeSession(w, r, id); err != nil {
		log.Debug("websocket upgrade rejected",
			slog.String("session_id", id.String()),
			slog.String("error", err.Error()))
	}
}
