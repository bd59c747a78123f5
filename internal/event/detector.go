package event

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// Resilient wraps a primary detector with a fallback. Any primary failure
// (model unavailable, malformed output, network error) falls through to the
// fallback; the caller never observes an extractor failure, only a possibly
// lower-confidence result set.
type Resilient struct {
	primary  Detector // nil when the primary path is unconfigured
	fallback Detector
	logger   *slog.Logger
}

func NewResilient(primary, fallback Detector, logger *slog.Logger) *Resilient {
	return &Resilient{primary: primary, fallback: fallback, logger: logger}
}

func (r *Resilient) Detect(ctx context.Context, narrative, source string, userID string, jobID *uuid.UUID) ([]Event, error) {
	if r.primary != nil {
		events, err := r.primary.Detect(ctx, narrative, source, userID, jobID)
		if err == nil {
			return events, nil
		}
		r.logger.Warn("primary detector failed, falling back",
			"source", source,
			"error", err,
		)
	}
	return r.fallback.Detect(ctx, narrative, source, userID, jobID)
}
