package engine

import (
	"testing"

	"github.com/halcyon-labs/lookout/internal/signal"
)

func guidance(g signal.GuidanceChange) *signal.GuidanceChange { return &g }
func intp(n int) *int                                         { return &n }

func TestDefaultRules_Table(t *testing.T) {
	tests := []struct {
		name string
		sig  func() signal.Context

		wantSeverity   signal.Severity // empty = severity untouched
		wantAction     bool
		wantConfidence int
		wantHint       string
		wantTodoAction string // empty = no todo
		wantPriority   signal.Priority
	}{
		{
			name: "large drop at boundary",
			sig: func() signal.Context {
				s := baseSignal()
				s.PriceChangePct = f64(-8.0)
				return s
			},
			wantSeverity:   signal.SeverityCritical,
			wantAction:     true,
			wantConfidence: 90,
			wantHint:       signal.ActionReview,
			wantTodoAction: "review_position",
			wantPriority:   signal.PriorityHigh,
		},
		{
			name: "medium drop just above large boundary",
			sig: func() signal.Context {
				s := baseSignal()
				s.PriceChangePct = f64(-7.9)
				return s
			},
			wantSeverity:   signal.SeverityWarning,
			wantAction:     true,
			wantConfidence: 80,
			wantHint:       signal.ActionMonitor,
			wantTodoAction: "monitor_trend",
			wantPriority:   signal.PriorityMedium,
		},
		{
			name: "medium drop at boundary",
			sig: func() signal.Context {
				s := baseSignal()
				s.PriceChangePct = f64(-4.0)
				return s
			},
			wantSeverity:   signal.SeverityWarning,
			wantAction:     true,
			wantConfidence: 80,
			wantHint:       signal.ActionMonitor,
			wantTodoAction: "monitor_trend",
			wantPriority:   signal.PriorityMedium,
		},
		{
			name: "price spike",
			sig: func() signal.Context {
				s := baseSignal()
				s.PriceChangePct = f64(7.0)
				return s
			},
			wantSeverity:   signal.SeverityWarning,
			wantAction:     false,
			wantConfidence: 75,
			wantHint:       signal.ActionMonitor,
		},
		{
			name: "portfolio drawdown",
			sig: func() signal.Context {
				s := baseSignal()
				s.Category = "risk"
				s.PortfolioDrawdownPct = f64(-12.0)
				return s
			},
			wantSeverity:   signal.SeverityCritical,
			wantAction:     true,
			wantConfidence: 90,
			wantHint:       signal.ActionRebalance,
			wantTodoAction: "rebalance_portfolio",
			wantPriority:   signal.PriorityHigh,
		},
		{
			name: "overweight position",
			sig: func() signal.Context {
				s := baseSignal()
				s.Category = "risk"
				s.PositionAllocationPct = f64(35.0)
				return s
			},
			wantSeverity:   signal.SeverityWarning,
			wantAction:     true,
			wantConfidence: 85,
			wantHint:       signal.ActionRebalance,
			wantTodoAction: "rebalance_portfolio",
			wantPriority:   signal.PriorityMedium,
		},
		{
			name: "earnings miss on surprise",
			sig: func() signal.Context {
				s := baseSignal()
				s.Category = "earnings"
				s.EarningsSurprisePct = f64(-3.2)
				return s
			},
			wantSeverity:   signal.SeverityCritical,
			wantAction:     true,
			wantConfidence: 88,
			wantHint:       signal.ActionReview,
			wantTodoAction: "review_position",
			wantPriority:   signal.PriorityHigh,
		},
		{
			name: "earnings miss on lowered guidance only",
			sig: func() signal.Context {
				s := baseSignal()
				s.Category = "earnings"
				s.GuidanceChange = guidance(signal.GuidanceLowered)
				return s
			},
			wantSeverity:   signal.SeverityCritical,
			wantAction:     true,
			wantConfidence: 88,
			wantHint:       signal.ActionReview,
			wantTodoAction: "review_position",
			wantPriority:   signal.PriorityHigh,
		},
		{
			name: "earnings beat",
			sig: func() signal.Context {
				s := baseSignal()
				s.Category = "earnings"
				s.EarningsSurprisePct = f64(6.0)
				s.GuidanceChange = guidance(signal.GuidanceRaised)
				return s
			},
			wantSeverity:   signal.SeverityInfo,
			wantAction:     false,
			wantConfidence: 80,
			wantHint:       signal.ActionMonitor,
		},
		{
			name: "positive surprise with lowered guidance is still a miss",
			sig: func() signal.Context {
				s := baseSignal()
				s.Category = "earnings"
				s.EarningsSurprisePct = f64(6.0)
				s.GuidanceChange = guidance(signal.GuidanceLowered)
				return s
			},
			wantSeverity:   signal.SeverityCritical,
			wantAction:     true,
			wantConfidence: 88,
			wantHint:       signal.ActionReview,
			wantTodoAction: "review_position",
			wantPriority:   signal.PriorityHigh,
		},
		{
			name: "research gap",
			sig: func() signal.Context {
				s := baseSignal()
				s.Category = "research_gap"
				s.ResearchAgeDays = intp(30)
				return s
			},
			wantSeverity:   signal.SeverityWarning,
			wantAction:     true,
			wantConfidence: 70,
			wantHint:       signal.ActionInvestigate,
			wantTodoAction: "research_symbol",
			wantPriority:   signal.PriorityMedium,
		},
		{
			name: "retirement income gap",
			sig: func() signal.Context {
				s := baseSignal()
				s.Domain = signal.DomainRetirement
				s.Category = "income"
				return s
			},
			wantSeverity:   signal.SeverityCritical,
			wantAction:     true,
			wantConfidence: 90,
			wantHint:       signal.ActionIncreaseContributions,
			wantTodoAction: "increase_contributions",
			wantPriority:   signal.PriorityHigh,
		},
		{
			name: "retirement probability",
			sig: func() signal.Context {
				s := baseSignal()
				s.Domain = signal.DomainRetirement
				s.Category = "projection"
				s.Message = "Success Probability fell below 70%."
				return s
			},
			wantSeverity:   signal.SeverityWarning,
			wantAction:     true,
			wantConfidence: 85,
			wantHint:       signal.ActionReviewPlan,
			wantTodoAction: "review_retirement_plan",
			wantPriority:   signal.PriorityMedium,
		},
	}

	eng := New(nil)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := eng.Evaluate(tt.sig())

			if tt.wantSeverity == "" {
				if res.Updates.Severity != nil {
					t.Errorf("expected severity untouched, got %v", *res.Updates.Severity)
				}
			} else if res.Updates.Severity == nil || *res.Updates.Severity != tt.wantSeverity {
				t.Errorf("severity = %v, want %v", res.Updates.Severity, tt.wantSeverity)
			}
			if res.Updates.ActionRequired == nil || *res.Updates.ActionRequired != tt.wantAction {
				t.Errorf("action_required = %v, want %v", res.Updates.ActionRequired, tt.wantAction)
			}
			if res.Updates.ConfidenceScore == nil || *res.Updates.ConfidenceScore != tt.wantConfidence {
				t.Errorf("confidence = %v, want %d", res.Updates.ConfidenceScore, tt.wantConfidence)
			}
			if res.Updates.ActionHint == nil || *res.Updates.ActionHint != tt.wantHint {
				t.Errorf("action_hint = %v, want %s", res.Updates.ActionHint, tt.wantHint)
			}

			if tt.wantTodoAction == "" {
				if res.Todo != nil {
					t.Errorf("expected no todo, got %+v", res.Todo)
				}
				return
			}
			if res.Todo == nil {
				t.Fatal("expected a todo")
			}
			if res.Todo.ActionType != tt.wantTodoAction {
				t.Errorf("todo action = %s, want %s", res.Todo.ActionType, tt.wantTodoAction)
			}
			if res.Todo.Priority != tt.wantPriority {
				t.Errorf("todo priority = %s, want %s", res.Todo.Priority, tt.wantPriority)
			}
		})
	}
}

func TestDefaultRules_PriceBandsDisjoint(t *testing.T) {
	// Every price change maps to at most one price rule; the bands must not
	// overlap at the -8 and -4 boundaries.
	for _, pct := range []float64{-20, -8.0, -7.99, -4.0, -3.99, 0, 6.99, 7.0, 15} {
		sig := baseSignal()
		sig.PriceChangePct = f64(pct)

		matched := 0
		for _, rule := range DefaultRules() {
			switch rule.Name {
			case "price_large_drop", "price_medium_drop", "price_spike":
				if rule.Condition(sig) {
					matched++
				}
			}
		}
		if matched > 1 {
			t.Errorf("price change %.2f matched %d price rules", pct, matched)
		}
	}
}

func TestDefaultRules_SmallMoveHitsNoPriceRule(t *testing.T) {
	eng := New(nil)

	sig := baseSignal()
	sig.PriceChangePct = f64(-3.99)

	res := eng.Evaluate(sig)
	if res.Updates.ActionRequired == nil || *res.Updates.ActionRequired {
		t.Error("a -3.99% move should fall through to the neutral default")
	}
	if *res.Updates.ConfidenceScore != 50 {
		t.Errorf("expected default confidence 50, got %d", *res.Updates.ConfidenceScore)
	}
}

func TestEarningsMissRationaleFallback(t *testing.T) {
	var missRule Rule
	for _, r := range DefaultRules() {
		if r.Name == "earnings_miss" {
			missRule = r
			break
		}
	}
	if missRule.Apply == nil {
		t.Fatal("earnings_miss rule not found")
	}

	// Lowered guidance with no surprise metric. The rationale composes only
	// from what is present.
	sig := baseSignal()
	sig.Category = "earnings"
	sig.GuidanceChange = guidance(signal.GuidanceLowered)

	res := missRule.Apply(sig)
	if got := *res.Updates.Rationale; got != "Guidance lowered." {
		t.Errorf("rationale = %q, want %q", got, "Guidance lowered.")
	}
}
