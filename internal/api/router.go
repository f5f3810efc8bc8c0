package api

import (
	"log/slog"
	"net/http"

	"github.com/bcnelson/passwd-service/internal/api/handler"
	"github.com/bcnelson/passwd-service/internal/api/middleware"
	"github.com/bcnelson/passwd-service/internal/journal"
	"github.com/bcnelson/passwd-service/internal/storage"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// NewRouter creates a new HTTP router with all routes configured.
func NewRouter(
	store storage.Storage,
	status handler.StatusReporter,
	j journal.Journal,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.RequestID)
	r.Use(middleware.Logging(logger))
	r.Use(chimw.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	statusHandler := handler.NewStatusHandler(status, j)
	r.Get("/status", statusHandler.Status)
	r.Get("/events", statusHandler.Events)

	// Users
	userHandler := handler.NewUserHandler(store)
	groupHandler := handler.NewGroupHandler(store)
	r.Route("/users", func(r chi.Router) {
		r.Get("/", userHandler.List)
		r.Get("/query", userHandler.Query)
		r.Get("/{uid}", userHandler.Get)
		r.Get("/{uid}/groups", groupHandler.ListForUser)
	})

	// Groups
	r.Route("/groups", func(r chi.Router) {
		r.Get("/", groupHandler.List)
		r.Get("/query", groupHandler.Query)
		r.Get("/{gid}", groupHandler.Get)
	})

	return r
}
