package event

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/halcyon-labs/lookout/internal/anthropic"
)

// LLMDetector is the primary strategy: it sends the narrative to a
// text-generation model under a fixed instruction contract and parses the
// result defensively. Any failure of the call or of top-level parsing is
// returned as an error; a malformed individual item only drops that item.
type LLMDetector struct {
	llm    *anthropic.Client
	logger *slog.Logger
}

func NewLLMDetector(llm *anthropic.Client, logger *slog.Logger) *LLMDetector {
	return &LLMDetector{llm: llm, logger: logger}
}

// llmItem is the wire shape of one extracted event.
type llmItem struct {
	EventType        string   `json:"event_type"`
	Severity         string   `json:"severity"`
	Confidence       float64  `json:"confidence"`
	Title            string   `json:"title"`
	Explanation      string   `json:"explanation"`
	Evidence         []string `json:"evidence"`
	SuggestedActions []string `json:"suggested_actions"`
}

func (d *LLMDetector) Detect(ctx context.Context, narrative, source string, userID string, jobID *uuid.UUID) ([]Event, error) {
	prompt := fmt.Sprintf(detectorUserPrompt, narrative)

	raw, err := d.llm.Complete(ctx, detectorSystemPrompt, []anthropic.Message{
		{Role: "user", Content: prompt},
	}, 4096)
	if err != nil {
		return nil, fmt.Errorf("llm detection: %w", err)
	}

	raw = stripCodeFences(raw)

	var items []llmItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("parse detection output: %w", err)
	}

	events := make([]Event, 0, len(items))
	for _, item := range items {
		ev := Event{
			EventType:        item.EventType,
			Severity:         Severity(item.Severity),
			Confidence:       item.Confidence,
			Title:            item.Title,
			Explanation:      item.Explanation,
			Evidence:         item.Evidence,
			SuggestedActions: item.SuggestedActions,
			Source:           source,
			JobID:            jobID,
			UserID:           userID,
		}
		if ev.EventType == "" || ev.Title == "" || !validSeverity(ev.Severity) {
			d.logger.Warn("skipping malformed event",
				"event_type", item.EventType,
				"severity", item.Severity,
			)
			continue
		}
		if ev.Confidence < MinConfidence {
			d.logger.Warn("skipping low confidence event",
				"event_type", ev.EventType,
				"confidence", ev.Confidence,
			)
			continue
		}
		events = append(events, ev)
	}

	d.logger.Info("detection complete",
		"source", source,
		"narrative_len", len(narrative),
		"events", len(events),
	)
	return events, nil
}

// stripCodeFences removes surrounding markdown fence markup models sometimes
// add despite instructions.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.Trim(s, "`")
	s = strings.TrimSpace(strings.TrimPrefix(s, "json"))
	return s
}
