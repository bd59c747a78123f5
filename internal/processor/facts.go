package processor

import (
	"context"
	"encoding/json"

	"github.com/halcyon-labs/lookout/internal/signal"
)

// PriceEvent is the payload of a market price update.
type PriceEvent struct {
	UserID    string  `json:"user_id"`
	Symbol    string  `json:"symbol"`
	PctChange float64 `json:"pct_change"`
}

// EarningsEvent is the payload of an earnings update.
type EarningsEvent struct {
	UserID         string   `json:"user_id"`
	JobID          string   `json:"job_id"`
	Symbol         string   `json:"symbol"`
	EPSActual      *float64 `json:"eps_actual"`
	EPSExpected    *float64 `json:"eps_expected"`
	GuidanceChange string   `json:"guidance_change"` // raised | lowered | unchanged | empty
}

// ResearchEvent is the payload of a stale-research notice.
type ResearchEvent struct {
	UserID string `json:"user_id"`
	JobID  string `json:"job_id"`
	Symbol string `json:"symbol"`
	Days   int    `json:"days"`
}

// HandlePriceUpdate converts a market price fact into a price signal.
func (p *Processor) HandlePriceUpdate(subject string, data []byte) {
	var evt PriceEvent
	if err := json.Unmarshal(data, &evt); err != nil {
		p.logger.Error("failed to parse price event", "subject", subject, "error", err)
		return
	}
	if err := p.producers.PriceUpdate(context.Background(), evt.UserID, evt.Symbol, evt.PctChange); err != nil {
		p.logger.Error("failed to emit price signal",
			"user_id", evt.UserID,
			"symbol", evt.Symbol,
			"error", err,
		)
	}
}

// HandleEarningsUpdate converts an earnings fact into an earnings signal.
func (p *Processor) HandleEarningsUpdate(subject string, data []byte) {
	var evt EarningsEvent
	if err := json.Unmarshal(data, &evt); err != nil {
		p.logger.Error("failed to parse earnings event", "subject", subject, "error", err)
		return
	}

	var guidance *signal.GuidanceChange
	switch signal.GuidanceChange(evt.GuidanceChange) {
	case signal.GuidanceRaised, signal.GuidanceLowered, signal.GuidanceUnchanged:
		g := signal.GuidanceChange(evt.GuidanceChange)
		guidance = &g
	}

	jobID := (ReportEvent{JobID: evt.JobID}).jobID()
	if err := p.producers.EarningsUpdate(context.Background(), evt.UserID, jobID, evt.Symbol, evt.EPSActual, evt.EPSExpected, guidance); err != nil {
		p.logger.Error("failed to emit earnings signal",
			"user_id", evt.UserID,
			"symbol", evt.Symbol,
			"error", err,
		)
	}
}

// HandleStaleResearch converts a stale-research notice into a research-gap
// signal.
func (p *Processor) HandleStaleResearch(subject string, data []byte) {
	var evt ResearchEvent
	if err := json.Unmarshal(data, &evt); err != nil {
		p.logger.Error("failed to parse research event", "subject", subject, "error", err)
		return
	}
	jobID := (ReportEvent{JobID: evt.JobID}).jobID()
	if err := p.producers.StaleResearch(context.Background(), evt.UserID, jobID, evt.Symbol, evt.Days); err != nil {
		p.logger.Error("failed to emit research gap signal",
			"user_id", evt.UserID,
			"symbol", evt.Symbol,
			"error", err,
		)
	}
}
