package event

import (
	"log/slog"

	"github.com/halcyon-labs/lookout/internal/signal"
)

// severityToAlert collapses the five-level detector vocabulary onto the
// three-level alert vocabulary.
var severityToAlert = map[Severity]signal.Severity{
	SeverityInfo:     signal.SeverityInfo,
	SeverityLow:      signal.SeverityWarning,
	SeverityMedium:   signal.SeverityWarning,
	SeverityHigh:     signal.SeverityCritical,
	SeverityCritical: signal.SeverityCritical,
}

// AlertSeverity maps a detector severity to an alert severity. Unrecognized
// inputs default to warning, with a logged anomaly.
func AlertSeverity(s Severity) signal.Severity {
	if mapped, ok := severityToAlert[s]; ok {
		return mapped
	}
	slog.Warn("unknown event severity, defaulting to warning", "severity", string(s))
	return signal.SeverityWarning
}

// typeAliases collapses near-synonym event types onto canonical ones.
var typeAliases = map[string]string{
	"income_gap":      TypeRetirementShortfall,
	"income":          TypeRetirementShortfall,
	"retirement_risk": TypeRetirementShortfall,
	"savings":         TypeRetirementShortfall,
	"insurance":       TypeRetirementShortfall,
	"risk":            TypeConcentrationRisk,
}

// CanonicalType resolves an event type through the alias table.
func CanonicalType(eventType string) string {
	if canonical, ok := typeAliases[eventType]; ok {
		return canonical
	}
	return eventType
}

// TodoPolicy is the fixed todo template attached to a canonical event type.
type TodoPolicy struct {
	Title       string
	Description string
	ActionType  string
	Priority    signal.Priority
	Domain      signal.Domain
}

var todoPolicies = map[string]TodoPolicy{
	TypeRetirementShortfall: {
		Title:       "Review retirement plan",
		Description: "Your projected retirement income may be below target. Review assumptions and contribution levels.",
		ActionType:  "review_retirement_plan",
		Priority:    signal.PriorityHigh,
		Domain:      signal.DomainRetirement,
	},
	TypeConcentrationRisk: {
		Title:       "Review portfolio concentration",
		Description: "Your portfolio may be too concentrated in a small number of assets.",
		ActionType:  "rebalance_portfolio",
		Priority:    signal.PriorityHigh,
		Domain:      signal.DomainPortfolio,
	},
	TypeRebalanceRecommended: {
		Title:       "Rebalance portfolio",
		Description: "Portfolio allocation may be drifting from target weights.",
		ActionType:  "rebalance_portfolio",
		Priority:    signal.PriorityMedium,
		Domain:      signal.DomainPortfolio,
	},
	TypeElevatedVolatility: {
		Title:       "Assess portfolio risk",
		Description: "Volatility is elevated. Review risk exposure.",
		ActionType:  "review_risk_profile",
		Priority:    signal.PriorityMedium,
		Domain:      signal.DomainPortfolio,
	},
}

// PolicyFor returns the todo policy for an event type, resolving aliases.
// The second return is false when the type has no automation rule.
func PolicyFor(eventType string) (TodoPolicy, bool) {
	policy, ok := todoPolicies[CanonicalType(eventType)]
	return policy, ok
}
