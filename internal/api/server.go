// Package api exposes the read/update surface over persisted alerts and
// todos, plus health and status endpoints. Authentication lives in the
// upstream gateway; the caller identity arrives as an X-User-ID header.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/halcyon-labs/lookout/internal/signal"
	"github.com/halcyon-labs/lookout/internal/store"
)

// AlertReader is the store surface the alert routes need.
type AlertReader interface {
	ListAlerts(ctx context.Context, userID string, filter store.AlertFilter) ([]signal.Alert, error)
	SummarizeAlerts(ctx context.Context, userID string) (signal.AlertSummary, error)
	UpdateAlertStatus(ctx context.Context, alertID uuid.UUID, userID, status string) error
}

// TodoReader is the store surface the todo routes need.
type TodoReader interface {
	ListTodos(ctx context.Context, userID string, filter store.TodoFilter) ([]signal.Todo, error)
	UpdateTodoStatus(ctx context.Context, todoID uuid.UUID, userID, status string) error
}

type Server struct {
	router *chi.Mux
	port   int
	alerts AlertReader
	todos  TodoReader
	logger *slog.Logger
}

func NewServer(port int, alerts AlertReader, todos TodoReader, logger *slog.Logger) *Server {
	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	s := &Server{
		router: router,
		port:   port,
		alerts: alerts,
		todos:  todos,
		logger: logger,
	}

	router.Get("/health", s.health)
	router.Get("/api/v1/lookout/status", s.status)

	router.Route("/api/v1/alerts", func(r chi.Router) {
		r.Get("/", s.listAlerts)
		r.Get("/summary", s.alertSummary)
		r.Patch("/{alertID}", s.updateAlertStatus)
	})
	router.Route("/api/v1/todos", func(r chi.Router) {
		r.Get("/", s.listTodos)
		r.Patch("/{todoID}", s.updateTodoStatus)
	})

	return s
}

func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Info("API server starting", "addr", addr)
	return http.ListenAndServe(addr, s.router)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"agent":  "lookout",
		"status": "active",
	})
}

// userID extracts the caller identity set by the gateway. Empty means
// unauthenticated.
func userID(r *http.Request) string {
	return r.Header.Get("X-User-ID")
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, message string) {
	writeJSON(w, code, map[string]string{"error": message})
}
