// Package event converts free-text narratives into normalized financial
// events and maps them onto the alert/todo vocabulary. Detection runs behind
// a strategy interface: an LLM-backed extractor with a deterministic keyword
// fallback that is always available.
package event

import (
	"context"

	"github.com/google/uuid"
)

// Severity is the five-level detector vocabulary. It is distinct from the
// three-level alert severity; AlertSeverity performs the reduction.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Event types the detectors are allowed to emit. Extend the vocabulary here,
// never ad hoc.
const (
	TypeRetirementShortfall  = "retirement_shortfall"
	TypeConcentrationRisk    = "concentration_risk"
	TypeRebalanceRecommended = "rebalance_recommended"
	TypeElevatedVolatility   = "elevated_volatility"
)

// MinConfidence is the policy floor: detected events below it are discarded.
const MinConfidence = 0.65

// Event is a normalized description of a financial situation worth surfacing.
// It is the contract between detection and the alert/todo engine.
type Event struct {
	EventType  string   `json:"event_type"`
	Severity   Severity `json:"severity"`
	Confidence float64  `json:"confidence"`

	Title       string `json:"title"`
	Explanation string `json:"explanation"`

	Evidence         []string `json:"evidence"`
	SuggestedActions []string `json:"suggested_actions"`

	Source string     `json:"source"`
	JobID  *uuid.UUID `json:"job_id,omitempty"`
	UserID string     `json:"user_id,omitempty"`
}

// Detector extracts zero or more events from a narrative.
type Detector interface {
	Detect(ctx context.Context, narrative, source string, userID string, jobID *uuid.UUID) ([]Event, error)
}

func validSeverity(s Severity) bool {
	switch s {
	case SeverityInfo, SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}
