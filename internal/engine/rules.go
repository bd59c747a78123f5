package engine

import (
	"fmt"
	"strings"

	"github.com/halcyon-labs/lookout/internal/signal"
)

// DefaultRules returns the production rule registry. Order matters: the large
// price-drop rule must precede the medium one, and evaluation stops at the
// first match.
func DefaultRules() []Rule {
	return []Rule{
		{
			Name:        "price_large_drop",
			Description: "Critical alert for large single-day price drop",
			Condition: func(sig signal.Context) bool {
				return sig.Category == "price" &&
					sig.PriceChangePct != nil &&
					*sig.PriceChangePct <= -8.0
			},
			Apply: func(sig signal.Context) Result {
				return buildResult(sig, outcome{
					severity:       signal.SeverityCritical,
					actionRequired: true,
					confidence:     90,
					actionHint:     signal.ActionReview,
					rationale:      fmt.Sprintf("Price dropped %.1f%% in a single session.", *sig.PriceChangePct),
					createTodo:     true,
					todoAction:     "review_position",
					todoPriority:   signal.PriorityHigh,
					todoDueDays:    2,
				})
			},
		},
		{
			Name:        "price_medium_drop",
			Description: "Warning alert for moderate price drop",
			Condition: func(sig signal.Context) bool {
				return sig.Category == "price" &&
					sig.PriceChangePct != nil &&
					*sig.PriceChangePct > -8.0 &&
					*sig.PriceChangePct <= -4.0
			},
			Apply: func(sig signal.Context) Result {
				return buildResult(sig, outcome{
					severity:       signal.SeverityWarning,
					actionRequired: true,
					confidence:     80,
					actionHint:     signal.ActionMonitor,
					rationale:      fmt.Sprintf("Price dropped %.1f%%. Worth monitoring.", *sig.PriceChangePct),
					createTodo:     true,
					todoAction:     "monitor_trend",
					todoPriority:   signal.PriorityMedium,
					todoDueDays:    5,
				})
			},
		},
		{
			Name:        "price_spike",
			Description: "Informational alert for large price gain",
			Condition: func(sig signal.Context) bool {
				return sig.Category == "price" &&
					sig.PriceChangePct != nil &&
					*sig.PriceChangePct >= 7.0
			},
			Apply: func(sig signal.Context) Result {
				return buildResult(sig, outcome{
					severity:       signal.SeverityWarning,
					actionRequired: false,
					confidence:     75,
					actionHint:     signal.ActionMonitor,
					rationale:      fmt.Sprintf("Price increased %.1f%%. Consider monitoring momentum.", *sig.PriceChangePct),
				})
			},
		},
		{
			Name:        "portfolio_drawdown",
			Description: "Critical portfolio-level drawdown",
			Condition: func(sig signal.Context) bool {
				return sig.Category == "risk" &&
					sig.PortfolioDrawdownPct != nil &&
					*sig.PortfolioDrawdownPct <= -12.0
			},
			Apply: func(sig signal.Context) Result {
				return buildResult(sig, outcome{
					severity:       signal.SeverityCritical,
					actionRequired: true,
					confidence:     90,
					actionHint:     signal.ActionRebalance,
					rationale:      fmt.Sprintf("Portfolio drawdown of %.1f%% exceeds threshold.", *sig.PortfolioDrawdownPct),
					createTodo:     true,
					todoAction:     "rebalance_portfolio",
					todoPriority:   signal.PriorityHigh,
					todoDueDays:    3,
				})
			},
		},
		{
			Name:        "overweight_position",
			Description: "Position allocation above threshold",
			Condition: func(sig signal.Context) bool {
				return sig.Category == "risk" &&
					sig.PositionAllocationPct != nil &&
					*sig.PositionAllocationPct >= 35.0
			},
			Apply: func(sig signal.Context) Result {
				return buildResult(sig, outcome{
					severity:       signal.SeverityWarning,
					actionRequired: true,
					confidence:     85,
					actionHint:     signal.ActionRebalance,
					rationale:      fmt.Sprintf("Position allocation at %.1f%% exceeds target.", *sig.PositionAllocationPct),
					createTodo:     true,
					todoAction:     "rebalance_portfolio",
					todoPriority:   signal.PriorityMedium,
					todoDueDays:    7,
				})
			},
		},
		{
			Name:        "earnings_miss",
			Description: "Negative earnings surprise or lowered guidance",
			Condition: func(sig signal.Context) bool {
				if sig.Category != "earnings" {
					return false
				}
				if sig.EarningsSurprisePct != nil && *sig.EarningsSurprisePct < 0 {
					return true
				}
				return sig.GuidanceChange != nil && *sig.GuidanceChange == signal.GuidanceLowered
			},
			Apply: func(sig signal.Context) Result {
				rationale := ""
				if sig.EarningsSurprisePct != nil {
					rationale = fmt.Sprintf("Earnings surprise %.1f%% below expectations. ", *sig.EarningsSurprisePct)
				}
				if sig.GuidanceChange != nil && *sig.GuidanceChange == signal.GuidanceLowered {
					rationale += "Guidance lowered. "
				}
				rationale = strings.TrimSpace(rationale)
				if rationale == "" {
					rationale = "Negative earnings event."
				}
				return buildResult(sig, outcome{
					severity:       signal.SeverityCritical,
					actionRequired: true,
					confidence:     88,
					actionHint:     signal.ActionReview,
					rationale:      rationale,
					createTodo:     true,
					todoAction:     "review_position",
					todoPriority:   signal.PriorityHigh,
					todoDueDays:    3,
				})
			},
		},
		{
			Name:        "earnings_beat",
			Description: "Positive earnings surprise",
			Condition: func(sig signal.Context) bool {
				return sig.Category == "earnings" &&
					sig.EarningsSurprisePct != nil &&
					*sig.EarningsSurprisePct >= 5.0 &&
					(sig.GuidanceChange == nil || *sig.GuidanceChange != signal.GuidanceLowered)
			},
			Apply: func(sig signal.Context) Result {
				rationale := fmt.Sprintf("Earnings surprise %.1f%% above expectations.", *sig.EarningsSurprisePct)
				if sig.GuidanceChange != nil && *sig.GuidanceChange == signal.GuidanceRaised {
					rationale += " Guidance raised."
				}
				return buildResult(sig, outcome{
					severity:       signal.SeverityInfo,
					actionRequired: false,
					confidence:     80,
					actionHint:     signal.ActionMonitor,
					rationale:      rationale,
				})
			},
		},
		{
			Name:        "research_gap",
			Description: "Research is stale and needs refresh",
			Condition: func(sig signal.Context) bool {
				return sig.Category == "research_gap" &&
					sig.ResearchAgeDays != nil &&
					*sig.ResearchAgeDays >= 30
			},
			Apply: func(sig signal.Context) Result {
				return buildResult(sig, outcome{
					severity:       signal.SeverityWarning,
					actionRequired: true,
					confidence:     70,
					actionHint:     signal.ActionInvestigate,
					rationale:      fmt.Sprintf("Last research on this symbol is %d days old.", *sig.ResearchAgeDays),
					createTodo:     true,
					todoAction:     "research_symbol",
					todoPriority:   signal.PriorityMedium,
					todoDueDays:    7,
				})
			},
		},
		{
			Name:        "retirement_income_gap",
			Description: "Income shortfall in retirement projection",
			Condition: func(sig signal.Context) bool {
				return sig.Domain == signal.DomainRetirement && sig.Category == "income"
			},
			Apply: func(sig signal.Context) Result {
				return buildResult(sig, outcome{
					severity:       signal.SeverityCritical,
					actionRequired: true,
					confidence:     90,
					actionHint:     signal.ActionIncreaseContributions,
					rationale:      "Projected retirement income shortfall detected.",
					createTodo:     true,
					todoAction:     "increase_contributions",
					todoPriority:   signal.PriorityHigh,
					todoDueDays:    30,
				})
			},
		},
		{
			Name:        "retirement_probability",
			Description: "Low retirement success probability",
			Condition: func(sig signal.Context) bool {
				return sig.Domain == signal.DomainRetirement &&
					strings.Contains(strings.ToLower(sig.Message), "probability")
			},
			Apply: func(sig signal.Context) Result {
				return buildResult(sig, outcome{
					severity:       signal.SeverityWarning,
					actionRequired: true,
					confidence:     85,
					actionHint:     signal.ActionReviewPlan,
					rationale:      "Low retirement success probability detected.",
					createTodo:     true,
					todoAction:     "review_retirement_plan",
					todoPriority:   signal.PriorityMedium,
					todoDueDays:    14,
				})
			},
		},
	}
}
