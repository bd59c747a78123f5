package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/halcyon-labs/lookout/internal/signal"
	"github.com/halcyon-labs/lookout/internal/store"
)

func (s *Server) listAlerts(w http.ResponseWriter, r *http.Request) {
	user := userID(r)
	if user == "" {
		writeError(w, http.StatusUnauthorized, "missing user identity")
		return
	}

	filter := store.AlertFilter{
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

	alerts, err := s.alerts.ListAlerts(r.Context(), user, filter)
	if err != nil {
		s.logger.Error("list alerts failed", "user_id", user, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list alerts")
		return
	}
	if alerts == nil {
		alerts = []signal.Alert{}
	}
	writeJSON(w, http.StatusOK, alerts)
}

func (s *Server) alertSummary(w http.ResponseWriter, r *http.Request) {
	user := userID(r)
	if user == "" {
		writeError(w, http.StatusUnauthorized, "missing user identity")
		return
	}

	summary, err := s.alerts.SummarizeAlerts(r.Context(), user)
	if err != nil {
		s.logger.Error("alert summary failed", "user_id", user, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to summarize alerts")
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

type statusUpdate struct {
	Status string `json:"status"`
}

func (s *Server) updateAlertStatus(w http.ResponseWriter, r *http.Request) {
	user := userID(r)
	if user == "" {
		writeError(w, http.StatusUnauthorized, "missing user identity")
		return
	}

	alertID, err := uuid.Parse(chi.URLParam(r, "alertID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid alert id")
		return
	}

	var update statusUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil || update.Status == "" {
		writeError(w, http.StatusBadRequest, "status is required")
		return
	}

	if err := s.alerts.UpdateAlertStatus(r.Context(), alertID, user, update.Status); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "alert not found")
			return
		}
		s.logger.Error("update alert status failed", "alert_id", alertID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update alert")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": update.Status})
}

func optStr(r *http.Request, key string) *string {
	if v := r.URL.Query().Get(key); v != "" {
		return &v
	}
	return nil
}

// optUUID parses an optional uuid query parameter. The bool is false when the
// value is present but invalid.
func optUUID(r *http.Request, key string) (*uuid.UUID, bool) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return nil, true
	}
	id, err := uuid.Parse(v)
	if err != nil {
		return nil, false
	}
	return &id, true
}

func optLimit(r *http.Request) int {
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return 0
}
