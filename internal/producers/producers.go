// Package producers builds normalized signal contexts from structured market
// facts and hands them to the emission pipeline. Producers never decide
// severity upgrades or create todos; the engine owns that.
package producers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/halcyon-labs/lookout/internal/pipeline"
	"github.com/halcyon-labs/lookout/internal/signal"
)

type Producers struct {
	pipeline *pipeline.Pipeline
}

func New(p *pipeline.Pipeline) *Producers {
	return &Producers{pipeline: p}
}

// PriceUpdate emits a price-move signal for one symbol.
func (p *Producers) PriceUpdate(ctx context.Context, userID, symbol string, pctChange float64) error {
	sig := signal.Context{
		UserID:         userID,
		Domain:         signal.DomainPortfolio,
		Category:       "price",
		Severity:       signal.SeverityInfo,
		Title:          fmt.Sprintf("%s moved %.1f%%", symbol, pctChange),
		Message:        fmt.Sprintf("%s changed %.1f%% today.", symbol, pctChange),
		Symbol:         &symbol,
		PriceChangePct: &pctChange,
		CreatedAt:      time.Now().UTC(),
	}
	_, err := p.pipeline.Emit(ctx, sig)
	return err
}

// PortfolioRisk emits a portfolio risk signal. Drawdown, symbol and
// allocation are each optional.
func (p *Producers) PortfolioRisk(ctx context.Context, userID string, jobID *uuid.UUID, drawdown *float64, symbol *string, alloc *float64) error {
	sig := signal.Context{
		UserID:                userID,
		JobID:                 jobID,
		Domain:                signal.DomainPortfolio,
		Category:              "risk",
		Severity:              signal.SeverityWarning,
		Title:                 "Portfolio risk detected",
		Message:               "Risk threshold exceeded.",
		Symbol:                symbol,
		PortfolioDrawdownPct:  drawdown,
		PositionAllocationPct: alloc,
		CreatedAt:             time.Now().UTC(),
	}
	_, err := p.pipeline.Emit(ctx, sig)
	return err
}

// EarningsUpdate emits a raw earnings signal. The surprise percentage is
// computed from actual vs expected EPS when both are present and expected is
// non-zero; guidance is passed through untouched.
func (p *Producers) EarningsUpdate(ctx context.Context, userID string, jobID *uuid.UUID, symbol string, epsActual, epsExpected *float64, guidance *signal.GuidanceChange) error {
	var surprise *float64
	if epsActual != nil && epsExpected != nil && *epsExpected != 0 {
		v := ((*epsActual - *epsExpected) / *epsExpected) * 100
		surprise = &v
	}

	var parts []string
	if surprise != nil {
		parts = append(parts, fmt.Sprintf("EPS surprise: %.1f%%", *surprise))
	}
	if guidance != nil {
		parts = append(parts, fmt.Sprintf("Guidance %s", *guidance))
	}
	message := strings.Join(parts, " | ")
	if message == "" {
		message = "Earnings update detected."
	}

	sig := signal.Context{
		UserID:              userID,
		JobID:               jobID,
		Domain:              signal.DomainPortfolio,
		Category:            "earnings",
		Severity:            signal.SeverityInfo,
		Title:               fmt.Sprintf("Earnings update for %s", symbol),
		Message:             message,
		Symbol:              &symbol,
		EarningsSurprisePct: surprise,
		GuidanceChange:      guidance,
		CreatedAt:           time.Now().UTC(),
	}
	_, err := p.pipeline.Emit(ctx, sig)
	return err
}

// StaleResearch emits a research-gap signal for a symbol whose last research
// run is days old.
func (p *Producers) StaleResearch(ctx context.Context, userID string, jobID *uuid.UUID, symbol string, days int) error {
	sig := signal.Context{
		UserID:          userID,
		JobID:           jobID,
		Domain:          signal.DomainPortfolio,
		Category:        "research_gap",
		Severity:        signal.SeverityWarning,
		Title:           fmt.Sprintf("Research stale for %s", symbol),
		Message:         fmt.Sprintf("Last research update %d days ago.", days),
		Symbol:          &symbol,
		ResearchAgeDays: &days,
		CreatedAt:       time.Now().UTC(),
	}
	_, err := p.pipeline.Emit(ctx, sig)
	return err
}
