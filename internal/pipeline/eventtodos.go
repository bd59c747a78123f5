package pipeline

import (
	"context"
	"fmt"

	"github.com/halcyon-labs/lookout/internal/event"
	"github.com/halcyon-labs/lookout/internal/signal"
)

// TodoFromEvent turns a detected event into a todo via the policy table.
// Event-derived todos describe portfolio- or plan-wide concerns: dedup runs
// at (user, job) granularity regardless of symbol, and the todo itself
// carries no symbol. Returns whether a todo was created.
func (p *Pipeline) TodoFromEvent(ctx context.Context, ev event.Event) (bool, error) {
	canonical := event.CanonicalType(ev.EventType)
	p.logger.Info("event todo automation",
		"event_type", ev.EventType,
		"canonical", canonical,
	)

	policy, ok := event.PolicyFor(ev.EventType)
	if !ok {
		return false, nil // no automation rule
	}
	if ev.UserID == "" {
		return false, nil // safety: no user
	}

	existing, err := p.todos.ListOpenTodos(ctx, ev.UserID, ev.JobID, nil)
	if err != nil {
		return false, fmt.Errorf("event todo dedup check: %w", err)
	}
	if len(existing) > 0 {
		return false, nil // user already has an open todo for this run
	}

	spec := signal.TodoSpec{
		UserID:      ev.UserID,
		JobID:       ev.JobID,
		Domain:      policy.Domain,
		Title:       policy.Title,
		Description: policy.Description,
		ActionType:  policy.ActionType,
		Priority:    policy.Priority,
		Rationale:   fmt.Sprintf("Generated from event '%s'", ev.EventType),
	}
	if _, err := p.todos.InsertTodo(ctx, spec); err != nil {
		return false, fmt.Errorf("insert event todo: %w", err)
	}
	return true, nil
}
