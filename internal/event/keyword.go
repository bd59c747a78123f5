package event

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

// KeywordDetector is the deterministic fallback strategy: keyword and phrase
// matching over the lower-cased narrative. Synchronous, side-effect-free,
// always available.
type KeywordDetector struct{}

func NewKeywordDetector() *KeywordDetector {
	return &KeywordDetector{}
}

// Detect never returns an error.
func (d *KeywordDetector) Detect(_ context.Context, narrative, source string, userID string, jobID *uuid.UUID) ([]Event, error) {
	text := strings.ToLower(narrative)
	var events []Event

	if strings.Contains(text, "concentration") || strings.Contains(text, "overweight") {
		events = append(events, Event{
			EventType:  TypeConcentrationRisk,
			Severity:   SeverityHigh,
			Confidence: 0.8,
			Title:      "Potential concentration risk in portfolio",
			Explanation: "The analysis suggests that a significant portion of the portfolio " +
				"may be concentrated in a small number of positions or themes.",
			Evidence: []string{
				"Narrative references concentration or materially overweight positions.",
			},
			SuggestedActions: []string{
				"Review top holdings and their weight versus your target allocation.",
				"Consider rebalancing to reduce concentration risk.",
			},
			Source: source,
			JobID:  jobID,
			UserID: userID,
		})
	}

	if strings.Contains(text, "high volatility") || strings.Contains(text, "elevated risk") || strings.Contains(text, "significant drawdown") {
		events = append(events, Event{
			EventType:   TypeElevatedVolatility,
			Severity:    SeverityMedium,
			Confidence:  0.7,
			Title:       "Elevated volatility mentioned in analysis",
			Explanation: "The report calls out elevated volatility or risk in parts of your portfolio.",
			Evidence: []string{
				"Narrative references high volatility or elevated risk.",
			},
			SuggestedActions: []string{
				"Check your risk tolerance and investment horizon.",
				"Consider diversifying into lower-volatility assets.",
			},
			Source: source,
			JobID:  jobID,
			UserID: userID,
		})
	}

	if strings.Contains(text, "rebalance") || strings.Contains(text, "rebalancing") {
		events = append(events, Event{
			EventType:   TypeRebalanceRecommended,
			Severity:    SeverityMedium,
			Confidence:  0.9,
			Title:       "Portfolio rebalance recommended",
			Explanation: "The analysis explicitly suggests a portfolio rebalance to realign with targets.",
			Evidence:    []string{"Narrative mentions rebalance or rebalancing."},
			SuggestedActions: []string{
				"Schedule a review of your current allocation vs target.",
				"Execute a rebalance or discuss options with an advisor.",
			},
			Source: source,
			JobID:  jobID,
			UserID: userID,
		})
	}

	if strings.Contains(text, "shortfall") || strings.Contains(text, "not on track") || strings.Contains(text, "below target income") {
		events = append(events, Event{
			EventType:  TypeRetirementShortfall,
			Severity:   SeverityHigh,
			Confidence: 0.85,
			Title:      "Retirement plan may be below target",
			Explanation: "The retirement analysis indicates that projected income may fall short " +
				"of your target retirement income.",
			Evidence: []string{
				"Narrative references shortfall, not on track, or income below target.",
			},
			SuggestedActions: []string{
				"Review your contribution rate and time horizon.",
				"Consider increasing savings or adjusting retirement goals.",
			},
			Source: source,
			JobID:  jobID,
			UserID: userID,
		})
	}

	return events, nil
}
