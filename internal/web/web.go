package web

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/phrazzld/watercycle-memory/internal/api/shared"
	"github.com/phrazzld/watercycle-memory/internal/config"
	"github.com/phrazzld/watercycle-memory/internal/domain"
	"github.com/phrazzld/watercycle-memory/internal/platform/logger"
	"github.com/phrazzld/watercycle-memory/internal/service"
	"github.com/phrazzld/watercycle-memory/internal/store"
)

//go:embed templates/*.html
var templateFiles embed.FS

//go:embed static
var staticFiles embed.FS

// Handler serves the HTML pages of the game.
type Handler struct {
	games     service.GameService
	pages     *template.Template
	assetsDir string
	logger    *slog.Logger
}

// NewHandler parses the embedded templates and creates a Handler.
func NewHandler(games service.GameService, cfg config.WebConfig, logger *slog.Logger) (*Handler, error) {
	if games == nil {
		panic("games cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	pages, err := template.ParseFS(templateFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	return &Handler{
		games:     games,
		pages:     pages,
		assetsDir: cfg.AssetsDir,
		logger:    logger.With("component", "web_handler"),
	}, nil
}

// Mount registers the page routes, the embedded static files and, when the
// assets directory exists, the stage images under /img/.
func (h *Handler) Mount(r chi.Router) {
	r.Get("/", h.Landing)
	r.Post("/play", h.NewGame)
	r.Route("/play/{id}", func(r chi.Router) {
		r.Get("/", h.Play)
		r.Get("/board", h.Board)
		r.Post("/cards/{position}", h.Flip)
		r.Post("/restart", h.Restart)
	})

	static, err := fs.Sub(staticFiles, "static")
	if err == nil {
		r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))
	}

	if h.assetsDir != "" {
		if info, err := os.Stat(h.assetsDir); err == nil && info.IsDir() {
			r.Handle("/img/*", http.StripPrefix("/img/", http.FileServer(http.Dir(h.assetsDir))))
		} else {
			h.logger.Warn("assets directory not found, stage images will not be served",
				slog.String("assets_dir", h.assetsDir))
		}
	}
}

// Landing handles GET / with a page whose form starts a game. Creating
// sessions only on POST keeps prefetchers and crawlers from filling the store.
func (h *Handler) Landing(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "landing", nil)
}

// NewGame handles POST /play by starting a game and redirecting to its page.
func (h *Handler) NewGame(w http.ResponseWriter, r *http.Request) {
	g, err := h.games.NewGame(r.Context())
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, store.ErrStoreFull) {
			status = http.StatusServiceUnavailable
		}
		shared.RespondWithErrorAndLog(w, r, status, "Failed to create game", err)
		return
	}
	http.Redirect(w, r, playPath(g.ID), http.StatusSeeOther)
}

// Play handles GET /play/{id}.
func (h *Handler) Play(w http.ResponseWriter, r *http.Request) {
	g, ok := h.lookup(w, r)
	if !ok {
		return
	}
	h.render(w, r, "page", pageView{GameID: g.ID.String(), Board: newBoardView(g)})
}

// Board handles GET /play/{id}/board, returning only the board fragment.
func (h *Handler) Board(w http.ResponseWriter, r *http.Request) {
	g, ok := h.lookup(w, r)
	if !ok {
		return
	}
	h.render(w, r, "board", newBoardView(g))
}

// Flip handles POST /play/{id}/cards/{position} and redirects back to the page.
func (h *Handler) Flip(w http.ResponseWriter, r *http.Request) {
	id, ok := h.gameID(w, r)
	if !ok {
		return
	}

	position, err := strconv.Atoi(chi.URLParam(r, "position"))
	if err != nil {
		http.Error(w, "invalid card position", http.StatusBadRequest)
		return
	}

	if _, err := h.games.Flip(r.Context(), id, position); err != nil {
		h.fail(w, r, err)
		return
	}
	http.Redirect(w, r, playPath(id), http.StatusSeeOther)
}

// Restart handles POST /play/{id}/restart and redirects back to the page.
func (h *Handler) Restart(w http.ResponseWriter, r *http.Request) {
	id, ok := h.gameID(w, r)
	if !ok {
		return
	}
	if _, err := h.games.Restart(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	http.Redirect(w, r, playPath(id), http.StatusSeeOther)
}

func (h *Handler) gameID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.renderStatus(w, r, http.StatusNotFound, "missing", nil)
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) lookup(w http.ResponseWriter, r *http.Request) (*service.Game, bool) {
	id, ok := h.gameID(w, r)
	if !ok {
		return nil, false
	}
	g, err := h.games.GetGame(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return nil, false
	}
	return g, true
}

// fail renders the not-found page for unknown or ended games, and a plain
// error otherwise.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case store.IsNotFoundError(err), errors.Is(err, service.ErrGameEnded):
		h.renderStatus(w, r, http.StatusNotFound, "missing", nil)
	case errors.Is(err, domain.ErrCardNotFound):
		http.Error(w, "card not found", http.StatusNotFound)
	default:
		logger.FromContextOrDefault(r.Context(), h.logger).Error("game operation failed",
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, name string, data interface{}) {
	h.renderStatus(w, r, http.StatusOK, name, data)
}

// renderStatus executes a template into a buffer first so a failing
// template never produces a half-written page.
func (h *Handler) renderStatus(w http.ResponseWriter, r *http.Request, status int, name string, data interface{}) {
	var buf bytes.Buffer
	if err := h.pages.ExecuteTemplate(&buf, name, data); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to render page", err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func playPath(id uuid.UUID) string {
	return "/play/" + id.String()
}
