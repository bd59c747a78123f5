package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/halcyon-labs/lookout/internal/engine"
	"github.com/halcyon-labs/lookout/internal/event"
	"github.com/halcyon-labs/lookout/internal/signal"
)

func shortfallEvent(userID string, jobID *uuid.UUID) event.Event {
	return event.Event{
		EventType:  event.TypeRetirementShortfall,
		Severity:   event.SeverityHigh,
		Confidence: 0.85,
		Title:      "Retirement plan may be below target",
		Source:     "retirement",
		UserID:     userID,
		JobID:      jobID,
	}
}

func TestTodoFromEvent_CreatesTodo(t *testing.T) {
	todos := &fakeTodoStore{}
	p := New(newFakeAlertStore(), todos, engine.New(nil), nil, discardLogger())

	jobID := uuid.New()
	created, err := p.TodoFromEvent(context.Background(), shortfallEvent("user_001", &jobID))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !created {
		t.Fatal("expected a todo")
	}

	spec := todos.inserted[0]
	if spec.ActionType != "review_retirement_plan" {
		t.Errorf("action_type = %s", spec.ActionType)
	}
	if spec.Domain != signal.DomainRetirement {
		t.Errorf("domain = %s", spec.Domain)
	}
	if spec.Priority != signal.PriorityHigh {
		t.Errorf("priority = %s", spec.Priority)
	}
	if spec.Symbol != nil {
		t.Error("event-derived todos carry no symbol")
	}
	if spec.JobID == nil || *spec.JobID != jobID {
		t.Error("job attribution lost")
	}
	if spec.Rationale != "Generated from event 'retirement_shortfall'" {
		t.Errorf("rationale = %q", spec.Rationale)
	}
}

func TestTodoFromEvent_AliasResolvesToPolicy(t *testing.T) {
	todos := &fakeTodoStore{}
	p := New(newFakeAlertStore(), todos, engine.New(nil), nil, discardLogger())

	ev := shortfallEvent("user_001", nil)
	ev.EventType = "income_gap"

	created, err := p.TodoFromEvent(context.Background(), ev)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !created {
		t.Fatal("aliased type should map to the shortfall policy")
	}
	if todos.inserted[0].ActionType != "review_retirement_plan" {
		t.Errorf("action_type = %s", todos.inserted[0].ActionType)
	}
	if todos.inserted[0].Rationale != "Generated from event 'income_gap'" {
		t.Errorf("rationale keeps the raw type: %q", todos.inserted[0].Rationale)
	}
}

func TestTodoFromEvent_NoPolicyNoTodo(t *testing.T) {
	todos := &fakeTodoStore{}
	p := New(newFakeAlertStore(), todos, engine.New(nil), nil, discardLogger())

	ev := shortfallEvent("user_001", nil)
	ev.EventType = "unknown_event"

	created, err := p.TodoFromEvent(context.Background(), ev)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created || len(todos.inserted) != 0 {
		t.Error("unmapped event types must not create todos")
	}
}

func TestTodoFromEvent_MissingUserNoTodo(t *testing.T) {
	todos := &fakeTodoStore{}
	p := New(newFakeAlertStore(), todos, engine.New(nil), nil, discardLogger())

	created, err := p.TodoFromEvent(context.Background(), shortfallEvent("", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created {
		t.Error("events without a user must not create todos")
	}
}

func TestTodoFromEvent_SuppressedByOpenTodoForJob(t *testing.T) {
	jobID := uuid.New()
	todos := &fakeTodoStore{
		todos: []signal.Todo{{
			TodoID:     uuid.New(),
			UserID:     "user_001",
			JobID:      &jobID,
			ActionType: "rebalance_portfolio",
			Status:     signal.TodoOpen,
		}},
	}
	p := New(newFakeAlertStore(), todos, engine.New(nil), nil, discardLogger())

	created, err := p.TodoFromEvent(context.Background(), shortfallEvent("user_001", &jobID))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created || len(todos.inserted) != 0 {
		t.Error("any open todo for the same user and job suppresses event todos")
	}
}

func TestTodoFromEvent_OtherJobDoesNotSuppress(t *testing.T) {
	otherJob := uuid.New()
	todos := &fakeTodoStore{
		todos: []signal.Todo{{
			TodoID:     uuid.New(),
			UserID:     "user_001",
			JobID:      &otherJob,
			ActionType: "review_retirement_plan",
			Status:     signal.TodoOpen,
		}},
	}
	p := New(newFakeAlertStore(), todos, engine.New(nil), nil, discardLogger())

	jobID := uuid.New()
	created, err := p.TodoFromEvent(context.Background(), shortfallEvent("user_001", &jobID))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !created {
		t.Error("a todo from a different job run must not suppress")
	}
}

func TestTodoFromEvent_ListFailureSurfaces(t *testing.T) {
	todos := &fakeTodoStore{listErr: errors.New("db read failed")}
	p := New(newFakeAlertStore(), todos, engine.New(nil), nil, discardLogger())

	_, err := p.TodoFromEvent(context.Background(), shortfallEvent("user_001", nil))
	if err == nil {
		t.Fatal("expected the list error to surface")
	}
}
