package event

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/halcyon-labs/lookout/internal/anthropic"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeModelServer returns an httptest server that answers the messages API
// with the given text content.
func fakeModelServer(t *testing.T, text string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/messages" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		resp := map[string]any{
			"content": []map[string]string{{"type": "text", "text": text}},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
}

func newTestLLMDetector(t *testing.T, text string) *LLMDetector {
	t.Helper()
	srv := fakeModelServer(t, text)
	t.Cleanup(srv.Close)

	client := anthropic.NewClient("test-key", "test-model")
	client.SetTestTransport(srv.URL)
	return NewLLMDetector(client, discardLogger())
}

func TestLLMDetector_Detect(t *testing.T) {
	payload := `[
		{"event_type": "concentration_risk", "severity": "high", "confidence": 0.82,
		 "title": "Portfolio concentrated in tech",
		 "explanation": "Over 40% of the portfolio is in two technology names.",
		 "evidence": ["AAPL and MSFT together are 42% of holdings."],
		 "suggested_actions": ["Trim the largest positions."]}
	]`

	d := newTestLLMDetector(t, payload)
	events, err := d.Detect(context.Background(), "narrative text", "reporter", "user_001", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}

	ev := events[0]
	if ev.EventType != TypeConcentrationRisk {
		t.Errorf("event_type = %s", ev.EventType)
	}
	if ev.Severity != SeverityHigh {
		t.Errorf("severity = %s", ev.Severity)
	}
	if ev.Confidence != 0.82 {
		t.Errorf("confidence = %f", ev.Confidence)
	}
	if ev.Source != "reporter" || ev.UserID != "user_001" {
		t.Errorf("attribution lost: %+v", ev)
	}
}

func TestLLMDetector_StripsCodeFences(t *testing.T) {
	payload := "```json\n" + `[
		{"event_type": "rebalance_recommended", "severity": "medium", "confidence": 0.9,
		 "title": "Rebalance suggested", "explanation": "Drift from target."}
	]` + "\n```"

	d := newTestLLMDetector(t, payload)
	events, err := d.Detect(context.Background(), "narrative", "reporter", "user_001", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events) != 1 || events[0].EventType != TypeRebalanceRecommended {
		t.Fatalf("fenced payload not parsed: %+v", events)
	}
}

func TestLLMDetector_DropsLowConfidence(t *testing.T) {
	payload := `[
		{"event_type": "elevated_volatility", "severity": "medium", "confidence": 0.4,
		 "title": "Maybe volatile", "explanation": "Weak signal."},
		{"event_type": "concentration_risk", "severity": "high", "confidence": 0.8,
		 "title": "Concentrated", "explanation": "Strong signal."}
	]`

	d := newTestLLMDetector(t, payload)
	events, err := d.Detect(context.Background(), "narrative", "reporter", "user_001", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	if events[0].EventType != TypeConcentrationRisk {
		t.Errorf("wrong survivor: %s", events[0].EventType)
	}
}

func TestLLMDetector_DropsMalformedItems(t *testing.T) {
	payload := `[
		{"event_type": "", "severity": "high", "confidence": 0.9,
		 "title": "No type", "explanation": "x"},
		{"event_type": "concentration_risk", "severity": "extreme", "confidence": 0.9,
		 "title": "Bad severity", "explanation": "x"},
		{"event_type": "concentration_risk", "severity": "high", "confidence": 0.9,
		 "title": "", "explanation": "no title"},
		{"event_type": "rebalance_recommended", "severity": "medium", "confidence": 0.7,
		 "title": "Good one", "explanation": "kept"}
	]`

	d := newTestLLMDetector(t, payload)
	events, err := d.Detect(context.Background(), "narrative", "reporter", "user_001", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events) != 1 || events[0].Title != "Good one" {
		t.Fatalf("expected only the well-formed item, got %+v", events)
	}
}

func TestLLMDetector_NonArrayOutputIsError(t *testing.T) {
	d := newTestLLMDetector(t, `{"event_type": "concentration_risk"}`)
	_, err := d.Detect(context.Background(), "narrative", "reporter", "user_001", nil)
	if err == nil {
		t.Fatal("expected an error for non-array output")
	}
	if !strings.Contains(err.Error(), "parse detection output") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestStripCodeFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", `[]`, `[]`},
		{"fenced", "```\n[]\n```", `[]`},
		{"fenced with language", "```json\n[]\n```", `[]`},
		{"surrounding whitespace", "  []  ", `[]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stripCodeFences(tt.in); got != tt.want {
				t.Errorf("stripCodeFences(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
