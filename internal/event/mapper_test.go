package event

import (
	"testing"

	"github.com/halcyon-labs/lookout/internal/signal"
)

func TestAlertSeverity(t *testing.T) {
	tests := []struct {
		in   Severity
		want signal.Severity
	}{
		{SeverityInfo, signal.SeverityInfo},
		{SeverityLow, signal.SeverityWarning},
		{SeverityMedium, signal.SeverityWarning},
		{SeverityHigh, signal.SeverityCritical},
		{SeverityCritical, signal.SeverityCritical},
		{Severity("catastrophic"), signal.SeverityWarning},
		{Severity(""), signal.SeverityWarning},
	}
	for _, tt := range tests {
		if got := AlertSeverity(tt.in); got != tt.want {
			t.Errorf("AlertSeverity(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestCanonicalType(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"income_gap", TypeRetirementShortfall},
		{"income", TypeRetirementShortfall},
		{"retirement_risk", TypeRetirementShortfall},
		{"savings", TypeRetirementShortfall},
		{"insurance", TypeRetirementShortfall},
		{"risk", TypeConcentrationRisk},
		{TypeRebalanceRecommended, TypeRebalanceRecommended},
		{"something_else", "something_else"},
	}
	for _, tt := range tests {
		if got := CanonicalType(tt.in); got != tt.want {
			t.Errorf("CanonicalType(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPolicyFor(t *testing.T) {
	tests := []struct {
		eventType  string
		wantOK     bool
		wantAction string
		wantDomain signal.Domain
	}{
		{TypeRetirementShortfall, true, "review_retirement_plan", signal.DomainRetirement},
		{TypeConcentrationRisk, true, "rebalance_portfolio", signal.DomainPortfolio},
		{TypeRebalanceRecommended, true, "rebalance_portfolio", signal.DomainPortfolio},
		{TypeElevatedVolatility, true, "review_risk_profile", signal.DomainPortfolio},
		{"income_gap", true, "review_retirement_plan", signal.DomainRetirement}, // alias resolves first
		{"unknown_event", false, "", ""},
	}
	for _, tt := range tests {
		policy, ok := PolicyFor(tt.eventType)
		if ok != tt.wantOK {
			t.Errorf("PolicyFor(%q) ok = %v, want %v", tt.eventType, ok, tt.wantOK)
			continue
		}
		if !ok {
			continue
		}
		if policy.ActionType != tt.wantAction {
			t.Errorf("PolicyFor(%q) action = %s, want %s", tt.eventType, policy.ActionType, tt.wantAction)
		}
		if policy.Domain != tt.wantDomain {
			t.Errorf("PolicyFor(%q) domain = %s, want %s", tt.eventType, policy.Domain, tt.wantDomain)
		}
		if policy.Title == "" || policy.Description == "" || policy.Priority == "" {
			t.Errorf("PolicyFor(%q) returned incomplete policy: %+v", tt.eventType, policy)
		}
	}
}
