package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/halcyon-labs/lookout/internal/signal"
	"github.com/halcyon-labs/lookout/internal/store"
)

func (s *Server) listTodos(w http.ResponseWriter, r *http.Request) {
	user := userID(r)
	if user == "" {
		writeError(w, http.StatusUnauthorized, "missing user identity")
		return
	}

	filter := store.TodoFilter{
		Symbol:           optStr(r, "symbol"),
		Status:           optStr(r, "status"),
		IncludeDismissed: r.URL.Query().Get("include_dismissed") == "true",
		Limit:            optLimit(r),
	}
	if d := optStr(r, "domain"); d != nil {
		domain := signal.Domain(*d)
		filter.Domain = &domain
	}
	jobID, ok := optUUID(r, "job_id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid job_id")
		return
	}
	filter.JobID = jobID

	todos, err := s.todos.ListTodos(r.Context(), user, filter)
	if err != nil {
		s.logger.Error("list todos failed", "user_id", user, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list todos")
		return
	}
	if todos == nil {
		todos = []signal.Todo{}
	}
	writeJSON(w, http.StatusOK, todos)
}

func (s *Server) updateTodoStatus(w http.ResponseWriter, r *http.Request) {
	user := userID(r)
	if user == "" {
		writeError(w, http.StatusUnauthorized, "missing user identity")
		return
	}

	todoID, err := uuid.Parse(chi.URLParam(r, "todoID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid todo id")
		return
	}

	var update statusUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil || update.Status == "" {
		writeError(w, http.StatusBadRequest, "status is required")
		return
	}

	if err := s.todos.UpdateTodoStatus(r.Context(), todoID, user, update.Status); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "todo not found")
			return
		}
		s.logger.Error("update todo status failed", "todo_id", todoID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update todo")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": update.Status})
}
