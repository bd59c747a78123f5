// Package processor handles inbound application events: narrative analysis
// reports and structured market facts. Handlers are fire-and-forget from the
// producers' perspective; failures are logged, never returned to the broker.
package processor

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/halcyon-labs/lookout/internal/event"
	"github.com/halcyon-labs/lookout/internal/pipeline"
	"github.com/halcyon-labs/lookout/internal/producers"
	"github.com/halcyon-labs/lookout/internal/signal"
)

// Processor orchestrates the ingress side of the emission pipeline.
type Processor struct {
	pipeline  *pipeline.Pipeline
	producers *producers.Producers
	detector  event.Detector
	logger    *slog.Logger
}

func New(p *pipeline.Pipeline, prod *producers.Producers, detector event.Detector, logger *slog.Logger) *Processor {
	return &Processor{pipeline: p, producers: prod, detector: detector, logger: logger}
}

// ReportEvent is the payload of a stored narrative report.
type ReportEvent struct {
	UserID string `json:"user_id"`
	JobID  string `json:"job_id"`
	Report string `json:"report"`
}

func (e ReportEvent) jobID() *uuid.UUID {
	if e.JobID == "" {
		return nil
	}
	id, err := uuid.Parse(e.JobID)
	if err != nil {
		return nil
	}
	return &id
}

// HandlePortfolioReport processes a stored portfolio analysis report:
// a deterministic keyword pre-pass over the narrative, then event detection
// and per-event alert/todo emission.
func (p *Processor) HandlePortfolioReport(subject string, data []byte) {
	ctx := context.Background()

	var evt ReportEvent
	if err := json.Unmarshal(data, &evt); err != nil {
		p.logger.Error("failed to parse report event", "subject", subject, "error", err)
		return
	}
	jobID := evt.jobID()
	text := strings.ToLower(evt.Report)

	p.logger.Info("processing portfolio report",
		"user_id", evt.UserID,
		"job_id", evt.JobID,
		"report_len", len(evt.Report),
	)

	if strings.Contains(text, "volatility") || strings.Contains(text, "risk") {
		if err := p.producers.PortfolioRisk(ctx, evt.UserID, jobID, nil, nil, nil); err != nil {
			p.logger.Error("failed to emit risk signal", "user_id", evt.UserID, "error", err)
		}
	}

	if strings.Contains(text, "concentration") {
		// Placeholder allocation until symbol attribution improves.
		alloc := 40.0
		if err := p.producers.PortfolioRisk(ctx, evt.UserID, jobID, nil, nil, &alloc); err != nil {
			p.logger.Error("failed to emit concentration signal", "user_id", evt.UserID, "error", err)
		}
	}

	if strings.Contains(text, "rebalance") {
		sig := signal.Context{
			UserID:    evt.UserID,
			JobID:     jobID,
			Domain:    signal.DomainPortfolio,
			Category:  "risk",
			Severity:  signal.SeverityWarning,
			Title:     "Portfolio rebalance suggested",
			Message:   "Reporter indicated rebalance recommendation.",
			CreatedAt: time.Now().UTC(),
		}
		if _, err := p.pipeline.Emit(ctx, sig); err != nil {
			p.logger.Error("failed to emit rebalance signal", "user_id", evt.UserID, "error", err)
		}
	}

	if strings.Contains(text, "outdated") || strings.Contains(text, "stale") {
		if err := p.producers.StaleResearch(ctx, evt.UserID, jobID, "UNKNOWN", 45); err != nil {
			p.logger.Error("failed to emit stale research signal", "user_id", evt.UserID, "error", err)
		}
	}

	p.emitDetectedEvents(ctx, evt, jobID, "reporter", signal.DomainPortfolio)
}

// HandleRetirementReport processes a stored retirement analysis report.
func (p *Processor) HandleRetirementReport(subject string, data []byte) {
	ctx := context.Background()

	var evt ReportEvent
	if err := json.Unmarshal(data, &evt); err != nil {
		p.logger.Error("failed to parse report event", "subject", subject, "error", err)
		return
	}
	jobID := evt.jobID()
	text := strings.ToLower(evt.Report)

	p.logger.Info("processing retirement report",
		"user_id", evt.UserID,
		"job_id", evt.JobID,
		"report_len", len(evt.Report),
	)

	type heuristic struct {
		match     func(string) bool
		category  string
		title     string
		message   string
		rationale string
	}
	heuristics := []heuristic{
		{
			match: func(t string) bool {
				return strings.Contains(t, "success rate") || strings.Contains(t, "probability")
			},
			category:  "risk",
			title:     "Retirement plan risk detected",
			message:   "Success probability issue detected in retirement output.",
			rationale: "Derived from retirement analysis.",
		},
		{
			match: func(t string) bool {
				return strings.Contains(t, "gap") || strings.Contains(t, "shortfall")
			},
			category:  "income",
			title:     "Retirement income gap detected",
			message:   "User projected income below retirement goal.",
			rationale: "Derived from retirement content.",
		},
		{
			match:     func(t string) bool { return strings.Contains(t, "increase savings") },
			category:  "savings",
			title:     "Retirement contributions insufficient",
			message:   "Recommended increase in retirement contribution.",
			rationale: "Derived from retirement model.",
		},
		{
			match:     func(t string) bool { return strings.Contains(t, "insurance") },
			category:  "insurance",
			title:     "Potential insurance gap",
			message:   "User may be underinsured.",
			rationale: "Derived from retirement model.",
		},
	}

	for _, h := range heuristics {
		if !h.match(text) {
			continue
		}
		rationale := h.rationale
		sig := signal.Context{
			UserID:    evt.UserID,
			JobID:     jobID,
			Domain:    signal.DomainRetirement,
			Category:  h.category,
			Severity:  signal.SeverityWarning, // engine may upgrade
			Title:     h.title,
			Message:   h.message,
			Rationale: &rationale,
			CreatedAt: time.Now().UTC(),
		}
		if _, err := p.pipeline.Emit(ctx, sig); err != nil {
			p.logger.Error("failed to emit retirement signal",
				"user_id", evt.UserID,
				"category", h.category,
				"error", err,
			)
		}
	}

	p.emitDetectedEvents(ctx, evt, jobID, "retirement", signal.DomainRetirement)
}

// emitDetectedEvents runs the detector over the narrative and emits one alert
// per event, then the event todo automation.
func (p *Processor) emitDetectedEvents(ctx context.Context, evt ReportEvent, jobID *uuid.UUID, source string, domain signal.Domain) {
	events, err := p.detector.Detect(ctx, evt.Report, source, evt.UserID, jobID)
	if err != nil {
		// Only reachable with a bare detector; the wired detector falls back.
		p.logger.Error("event detection failed", "source", source, "error", err)
		return
	}

	for _, ev := range events {
		sig := signal.Context{
			UserID:    ev.UserID,
			JobID:     jobID,
			Domain:    domain,
			Category:  ev.EventType,
			Severity:  event.AlertSeverity(ev.Severity),
			Title:     ev.Title,
			Message:   ev.Explanation,
			CreatedAt: time.Now().UTC(),
		}
		if _, err := p.pipeline.Emit(ctx, sig); err != nil {
			p.logger.Error("failed to emit event-derived alert",
				"event_type", ev.EventType,
				"error", err,
			)
		}
		p.logger.Info("event-derived alert emitted",
			"user_id", ev.UserID,
			"event_type", ev.EventType,
			"severity", string(ev.Severity),
		)
	}

	for _, ev := range events {
		created, err := p.pipeline.TodoFromEvent(ctx, ev)
		if err != nil {
			p.logger.Error("event todo automation failed",
				"event_type", ev.EventType,
				"error", err,
			)
			continue
		}
		if created {
			p.logger.Info("event todo created", "event_type", ev.EventType)
		}
	}
}
