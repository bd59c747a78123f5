// Package signal holds the normalized data model the decision engine and
// emission pipeline reason over. It is intentionally independent of any
// storage or transport concern.
package signal

import (
	"time"

	"github.com/google/uuid"
)

// Domain is the top-level subject area of a signal.
type Domain string

const (
	DomainPortfolio  Domain = "portfolio"
	DomainRetirement Domain = "retirement"
)

// Severity is the three-level alert severity vocabulary. Detected events use
// a separate five-level vocabulary (see the event package).
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Priority of a todo.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// GuidanceChange is the direction of a company's guidance revision.
type GuidanceChange string

const (
	GuidanceRaised    GuidanceChange = "raised"
	GuidanceLowered   GuidanceChange = "lowered"
	GuidanceUnchanged GuidanceChange = "unchanged"
)

// Action hints the engine may attach to an alert.
const (
	ActionReview                = "review"
	ActionRebalance             = "rebalance"
	ActionInvestigate           = "investigate"
	ActionMonitor               = "monitor"
	ActionIncreaseContributions = "increase_contributions"
	ActionReviewPlan            = "review_plan"
)

// Alert statuses.
const (
	StatusNew       = "new"
	StatusRead      = "read"
	StatusDismissed = "dismissed"
)

// Todo statuses.
const (
	TodoOpen       = "open"
	TodoInProgress = "in_progress"
	TodoDone       = "done"
	TodoDismissed  = "dismissed"
)

// Context is the normalized view of one observable financial fact. A Context
// is created by a producer, consumed once by the pipeline, and never reused.
// The engine rewrites only Severity (via Updates); numeric fields set by a
// producer are never altered.
type Context struct {
	AlertID *uuid.UUID
	UserID  string
	JobID   *uuid.UUID

	Domain   Domain
	Category string // price, risk, earnings, research_gap, income, ...
	Severity Severity
	Symbol   *string

	Title     string
	Message   string
	Rationale *string

	// Optional metrics. Each nil unless the producer supplied it; a nil
	// metric makes every rule referencing it evaluate false.
	PriceChangePct        *float64
	PortfolioDrawdownPct  *float64
	PositionAllocationPct *float64
	EarningsSurprisePct   *float64
	GuidanceChange        *GuidanceChange
	ResearchAgeDays       *int

	CreatedAt time.Time
}

// Updates is the typed partial update the engine may apply to a persisted
// alert. Only these named fields can ever reach storage, which preserves the
// "unknown fields silently ignored" contract with compile-time safety.
type Updates struct {
	Severity        *Severity
	ActionRequired  *bool
	ConfidenceScore *int // clamped to [0,100] before it gets here
	ActionHint      *string
	Rationale       *string
	Status          *string
}

// IsZero reports whether no field is set.
func (u Updates) IsZero() bool {
	return u.Severity == nil && u.ActionRequired == nil && u.ConfidenceScore == nil &&
		u.ActionHint == nil && u.Rationale == nil && u.Status == nil
}

// TodoSpec is the specification for a prospective todo. It is subject to a
// dedup gate before becoming a persisted row; the pipeline may decide not to
// create it.
type TodoSpec struct {
	UserID string
	JobID  *uuid.UUID

	Domain Domain
	Symbol *string

	Title       string
	Description string
	ActionType  string
	Priority    Priority
	Rationale   string

	DueAt         *time.Time
	SourceAlertID *uuid.UUID // weak back-reference, lookup only
}
