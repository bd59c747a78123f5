package signal

import (
	"time"

	"github.com/google/uuid"
)

// Alert is a persisted, user-visible record of a signal plus its decision
// classification.
type Alert struct {
	AlertID uuid.UUID  `json:"alert_id"`
	UserID  string     `json:"user_id"`
	JobID   *uuid.UUID `json:"job_id,omitempty"`
	Symbol  *string    `json:"symbol,omitempty"`

	Domain   Domain   `json:"domain"`
	Category string   `json:"category"`
	Severity Severity `json:"severity"`

	Title     string  `json:"title"`
	Message   string  `json:"message"`
	Rationale *string `json:"rationale,omitempty"`
	Status    string  `json:"status"`

	ActionRequired  bool    `json:"action_required"`
	ConfidenceScore *int    `json:"confidence_score,omitempty"`
	ActionHint      *string `json:"action_hint,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Todo is a persisted, actionable follow-up task.
type Todo struct {
	TodoID uuid.UUID  `json:"todo_id"`
	UserID string     `json:"user_id"`
	JobID  *uuid.UUID `json:"job_id,omitempty"`
	Symbol *string    `json:"symbol,omitempty"`

	Domain Domain `json:"domain"`

	Title       string  `json:"title"`
	Description string  `json:"description"`
	Rationale   *string `json:"rationale,omitempty"`

	ActionType string   `json:"action_type"`
	Priority   Priority `json:"priority"`
	Status     string   `json:"status"`

	DueAt         *time.Time `json:"due_at,omitempty"`
	SourceAlertID *uuid.UUID `json:"source_alert_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AlertSummary aggregates a user's alerts by domain.
type AlertSummary struct {
	UnreadCount int                          `json:"unread_count"`
	ByDomain    map[Domain]DomainAlertCounts `json:"by_domain"`
}

// DomainAlertCounts holds per-domain unread and critical counts.
type DomainAlertCounts struct {
	Unread   int `json:"unread"`
	Critical int `json:"critical"`
}
