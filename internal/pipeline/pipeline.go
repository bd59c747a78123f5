// Package pipeline orchestrates the emission of a signal: persist the raw
// alert, run the decision engine, apply the decision fields, and conditionally
// spawn a deduplicated todo. Each step is an independent read/write against
// shared storage; there is no cross-step transaction.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/halcyon-labs/lookout/internal/engine"
	"github.com/halcyon-labs/lookout/internal/signal"
)

// AlertStore is the persistence surface Emit needs for alerts.
type AlertStore interface {
	AlertExists(ctx context.Context, userID, category string, domain signal.Domain, symbol *string) (bool, error)
	InsertAlert(ctx context.Context, sig signal.Context) (uuid.UUID, error)
	ApplyAlertUpdates(ctx context.Context, alertID uuid.UUID, updates signal.Updates) error
}

// TodoStore is the persistence surface for todos.
type TodoStore interface {
	ListOpenTodos(ctx context.Context, userID string, jobID *uuid.UUID, symbol *string) ([]signal.Todo, error)
	InsertTodo(ctx context.Context, spec signal.TodoSpec) (uuid.UUID, error)
}

// Notifier receives critical alerts after the decision fields are applied.
// Notification failures never fail the emission.
type Notifier interface {
	CriticalAlert(ctx context.Context, sig signal.Context, updates signal.Updates) error
}

// Pipeline holds explicitly injected dependencies; it keeps no state between
// emissions.
type Pipeline struct {
	alerts   AlertStore
	todos    TodoStore
	engine   *engine.Engine
	notifier Notifier // optional
	logger   *slog.Logger
}

func New(alerts AlertStore, todos TodoStore, eng *engine.Engine, notifier Notifier, logger *slog.Logger) *Pipeline {
	return &Pipeline{alerts: alerts, todos: todos, engine: eng, notifier: notifier, logger: logger}
}

// Emit runs the full emission pipeline for one signal. A nil result with a
// nil error means the signal dedup gate suppressed the emission and no alert
// was created.
//
// The dedup checks are read-then-write: two emissions racing on the same key
// can both pass before either inserts. That is an accepted best-effort
// filter, not a uniqueness guarantee.
//
// Storage errors after the insert are returned to the caller together with
// the evaluation result where available; the base alert stays visible even
// when the decision or todo step fails.
func (p *Pipeline) Emit(ctx context.Context, sig signal.Context) (*engine.Result, error) {
	exists, err := p.alerts.AlertExists(ctx, sig.UserID, sig.Category, sig.Domain, sig.Symbol)
	if err != nil {
		return nil, fmt.Errorf("alert dedup check: %w", err)
	}
	if exists {
		p.logger.Info("deduped alert",
			"user_id", sig.UserID,
			"category", sig.Category,
			"domain", sig.Domain,
			"symbol", symbolStr(sig.Symbol),
		)
		return nil, nil
	}

	alertID, err := p.alerts.InsertAlert(ctx, sig)
	if err != nil {
		return nil, fmt.Errorf("insert alert: %w", err)
	}
	sig.AlertID = &alertID

	result := p.engine.Evaluate(sig)

	if err := p.alerts.ApplyAlertUpdates(ctx, alertID, result.Updates); err != nil {
		return &result, fmt.Errorf("apply decision fields: %w", err)
	}

	if p.notifier != nil && result.Updates.Severity != nil && *result.Updates.Severity == signal.SeverityCritical {
		if err := p.notifier.CriticalAlert(ctx, sig, result.Updates); err != nil {
			p.logger.Warn("critical alert notification failed", "alert_id", alertID, "error", err)
		}
	}

	if result.Todo != nil {
		spec := *result.Todo
		spec.SourceAlertID = &alertID

		create, err := p.shouldCreateTodo(ctx, spec)
		if err != nil {
			return &result, fmt.Errorf("todo dedup check: %w", err)
		}
		if create {
			todoID, err := p.todos.InsertTodo(ctx, spec)
			if err != nil {
				return &result, fmt.Errorf("insert todo: %w", err)
			}
			p.logger.Info("todo created",
				"todo_id", todoID,
				"alert_id", alertID,
				"action_type", spec.ActionType,
			)
		} else {
			p.logger.Info("todo suppressed",
				"alert_id", alertID,
				"action_type", spec.ActionType,
				"symbol", symbolStr(spec.Symbol),
			)
		}
	}

	return &result, nil
}

// shouldCreateTodo suppresses a todo when the user already has an open or
// in-progress one for the same symbol and action type.
func (p *Pipeline) shouldCreateTodo(ctx context.Context, spec signal.TodoSpec) (bool, error) {
	existing, err := p.todos.ListOpenTodos(ctx, spec.UserID, nil, spec.Symbol)
	if err != nil {
		return false, err
	}
	for _, t := range existing {
		if t.ActionType == spec.ActionType && sameSymbol(t.Symbol, spec.Symbol) {
			return false, nil
		}
	}
	return true, nil
}

func sameSymbol(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func symbolStr(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
