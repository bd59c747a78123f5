package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/halcyon-labs/lookout/internal/signal"
)

const alertColumns = `alert_id, user_id, job_id, symbol, domain, category, severity,
		title, message, rationale, status, action_required, confidence_score, action_hint,
		created_at, updated_at`

// AlertExists reports whether a non-dismissed alert already exists for the
// dedup key (user, category, domain, symbol). Symbol is compared with
// NULL-safe equality. This is a best-effort filter, not a uniqueness
// guarantee: two concurrent emissions can both pass it.
func (s *Store) AlertExists(ctx context.Context, userID, category string, domain signal.Domain, symbol *string) (bool, error) {
	var one int
	err := s.pool.QueryRow(ctx, `
		SELECT 1
		FROM alerts
		WHERE user_id = $1
			AND category = $2
			AND domain = $3
			AND symbol IS NOT DISTINCT FROM $4
			AND status != 'dismissed'
		LIMIT 1`,
		userID, category, domain, symbol,
	).Scan(&one)
	if err != nil {
		if isNoRows(err) {
			return false, nil
		}
		return false, fmt.Errorf("alert exists: %w", err)
	}
	return true, nil
}

// InsertAlert persists the baseline alert row with status new and returns its
// id.
func (s *Store) InsertAlert(ctx context.Context, sig signal.Context) (uuid.UUID, error) {
	alertID := uuid.New()
	severity := sig.Severity
	if severity == "" {
		severity = signal.SeverityInfo
	}
	createdAt := sig.CreatedAt
	_, err := s.pool.Exec(ctx, `
		INSERT INTO alerts (
			alert_id, user_id, job_id, symbol,
			domain, category, severity,
			title, message, rationale,
			status, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, 'new', $11, now())`,
		alertID, sig.UserID, sig.JobID, sig.Symbol,
		sig.Domain, sig.Category, severity,
		sig.Title, sig.Message, sig.Rationale,
		createdAt,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("insert alert: %w", err)
	}
	return alertID, nil
}

// ApplyAlertUpdates writes the engine's decision fields onto an existing
// alert. Only the named optional fields of Updates can ever be written; a
// zero Updates is a no-op.
func (s *Store) ApplyAlertUpdates(ctx context.Context, alertID uuid.UUID, updates signal.Updates) error {
	var clauses []string
	var args []any

	add := func(column string, value any) {
		args = append(args, value)
		clauses = append(clauses, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if updates.Severity != nil {
		add("severity", *updates.Severity)
	}
	if updates.ActionRequired != nil {
		add("action_required", *updates.ActionRequired)
	}
	if updates.ConfidenceScore != nil {
		add("confidence_score", *updates.ConfidenceScore)
	}
	if updates.ActionHint != nil {
		add("action_hint", *updates.ActionHint)
	}
	if updates.Rationale != nil {
		add("rationale", *updates.Rationale)
	}
	if updates.Status != nil {
		add("status", *updates.Status)
	}

	if len(clauses) == 0 {
		return nil
	}

	args = append(args, alertID)
	query := fmt.Sprintf(`
		UPDATE alerts
		SET %s, updated_at = now()
		WHERE alert_id = $%d`,
		strings.Join(clauses, ", "), len(args),
	)

	if _, err := s.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("apply alert updates: %w", err)
	}
	return nil
}

// AlertFilter narrows ListAlerts. Nil fields are not applied.
type AlertFilter struct {
	Symbol           *string
	Domain           *signal.Domain
	Status           *string
	JobID            *uuid.UUID
	IncludeDismissed bool
	Limit            int
}

func (s *Store) ListAlerts(ctx context.Context, userID string, filter AlertFilter) ([]signal.Alert, error) {
	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	rows, err := s.pool.Query(ctx, `
		SELECT `+alertColumns+`
		FROM alerts
		WHERE user_id = $1
			AND ($2::varchar IS NULL OR symbol = $2)
			AND ($3::varchar IS NULL OR domain = $3)
			AND ($4::boolean = TRUE OR status != 'dismissed')
			AND ($5::varchar IS NULL OR status = $5)
			AND ($6::uuid IS NULL OR job_id = $6)
		ORDER BY created_at DESC
		LIMIT $7`,
		userID, filter.Symbol, filter.Domain, filter.IncludeDismissed, filter.Status, filter.JobID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}
	defer rows.Close()

	var alerts []signal.Alert
	for rows.Next() {
		var a signal.Alert
		if err := rows.Scan(
			&a.AlertID, &a.UserID, &a.JobID, &a.Symbol, &a.Domain, &a.Category, &a.Severity,
			&a.Title, &a.Message, &a.Rationale, &a.Status, &a.ActionRequired, &a.ConfidenceScore, &a.ActionHint,
			&a.CreatedAt, &a.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan alert: %w", err)
		}
		alerts = append(alerts, a)
	}
	return alerts, rows.Err()
}

// SummarizeAlerts aggregates a user's unread and critical counts by domain.
func (s *Store) SummarizeAlerts(ctx context.Context, userID string) (signal.AlertSummary, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT
			domain,
			COUNT(*) FILTER (WHERE status = 'new') AS unread,
			COUNT(*) FILTER (WHERE severity = 'critical') AS critical
		FROM alerts
		WHERE user_id = $1
		GROUP BY domain`,
		userID,
	)
	if err != nil {
		return signal.AlertSummary{}, fmt.Errorf("summarize alerts: %w", err)
	}
	defer rows.Close()

	summary := signal.AlertSummary{ByDomain: make(map[signal.Domain]signal.DomainAlertCounts)}
	for rows.Next() {
		var domain signal.Domain
		var counts signal.DomainAlertCounts
		if err := rows.Scan(&domain, &counts.Unread, &counts.Critical); err != nil {
			return signal.AlertSummary{}, fmt.Errorf("scan summary: %w", err)
		}
		summary.ByDomain[domain] = counts
		summary.UnreadCount += counts.Unread
	}
	return summary, rows.Err()
}

// UpdateAlertStatus changes an alert's status, scoped to the owning user.
func (s *Store) UpdateAlertStatus(ctx context.Context, alertID uuid.UUID, userID, status string) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE alerts
		SET status = $1, updated_at = now()
		WHERE alert_id = $2 AND user_id = $3`,
		status, alertID, userID,
	)
	if err != nil {
		return fmt.Errorf("update alert status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
