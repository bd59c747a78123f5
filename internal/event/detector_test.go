package event

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
)

type stubDetector struct {
	events []Event
	err    error
	calls  int
}

func (s *stubDetector) Detect(_ context.Context, _, _ string, _ string, _ *uuid.UUID) ([]Event, error) {
	s.calls++
	return s.events, s.err
}

func TestResilient_UsesPrimaryWhenHealthy(t *testing.T) {
	primary := &stubDetector{events: []Event{{EventType: TypeConcentrationRisk}}}
	fallback := &stubDetector{events: []Event{{EventType: TypeRebalanceRecommended}}}

	r := NewResilient(primary, fallback, discardLogger())
	events, err := r.Detect(context.Background(), "text", "reporter", "user_001", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events) != 1 || events[0].EventType != TypeConcentrationRisk {
		t.Errorf("expected primary result, got %+v", events)
	}
	if fallback.calls != 0 {
		t.Error("fallback called despite healthy primary")
	}
}

func TestResilient_FallsBackOnPrimaryError(t *testing.T) {
	primary := &stubDetector{err: errors.New("model unavailable")}
	fallback := &stubDetector{events: []Event{{EventType: TypeRebalanceRecommended}}}

	r := NewResilient(primary, fallback, discardLogger())
	events, err := r.Detect(context.Background(), "text", "reporter", "user_001", nil)
	if err != nil {
		t.Fatalf("error leaked through fallback: %v", err)
	}
	if len(events) != 1 || events[0].EventType != TypeRebalanceRecommended {
		t.Errorf("expected fallback result, got %+v", events)
	}
	if primary.calls != 1 || fallback.calls != 1 {
		t.Errorf("calls: primary=%d fallback=%d", primary.calls, fallback.calls)
	}
}

func TestResilient_NilPrimaryGoesStraightToFallback(t *testing.T) {
	fallback := &stubDetector{events: []Event{{EventType: TypeElevatedVolatility}}}

	r := NewResilient(nil, fallback, discardLogger())
	events, err := r.Detect(context.Background(), "text", "reporter", "user_001", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events) != 1 || events[0].EventType != TypeElevatedVolatility {
		t.Errorf("expected fallback result, got %+v", events)
	}
}

func TestResilient_PrimaryEmptyResultIsNotFailure(t *testing.T) {
	primary := &stubDetector{}
	fallback := &stubDetector{events: []Event{{EventType: TypeRebalanceRecommended}}}

	r := NewResilient(primary, fallback, discardLogger())
	events, err := r.Detect(context.Background(), "text", "reporter", "user_001", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("empty primary result must stand, got %+v", events)
	}
	if fallback.calls != 0 {
		t.Error("fallback called on empty but successful primary result")
	}
}
