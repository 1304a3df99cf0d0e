package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/phrazzld/watercycle-memory/internal/api"
	apiMiddleware "github.com/phrazzld/watercycle-memory/internal/api/middleware"
	"github.com/phrazzld/watercycle-memory/internal/api/shared"
	"github.com/phrazzld/watercycle-memory/internal/platform/metrics"
	"github.com/phrazzld/watercycle-memory/internal/web"
)

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status   string `json:"status"`
	Sessions int    `json:"sessions"`
}

// setupRouter creates and configures the application router with all routes and middleware.
func (app *application) setupRouter() (http.Handler, error) {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))

	gameHandler := api.NewGameHandler(app.games, app.hub, app.logger)
	r.Route("/api", gameHandler.Mount)

	if app.config.Web.Enabled {
		webHandler, err := web.NewHandler(app.games, app.config.Web, app.logger)
		if err != nil {
			return nil, err
		}
		webHandler.Mount(r)
	}

	if app.registry != nil {
		r.Method(http.MethodGet, app.config.Metrics.Path, metrics.Handler(app.registry))
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		shared.RespondWithJSON(w, r, http.StatusOK, HealthResponse{
			Status:   "ok",
			Sessions: app.sessions.Count(r.Context()),
		})
	})

	return r, nil
}
