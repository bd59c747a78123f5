package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/halcyon-labs/lookout/internal/signal"
	"github.com/jackc/pgx/v5"
)

// ErrNotFound is returned by status updates that match no row for the user.
var ErrNotFound = errors.New("not found")

const todoColumns = `todo_id, user_id, job_id, symbol, domain, title, description, rationale,
		action_type, priority, status, due_at, source_alert_id, created_at, updated_at`

// InsertTodo persists a todo from a spec and returns its id.
func (s *Store) InsertTodo(ctx context.Context, spec signal.TodoSpec) (uuid.UUID, error) {
	todoID := uuid.New()
	var rationale *string
	if spec.Rationale != "" {
		rationale = &spec.Rationale
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO todos (
			todo_id, user_id, job_id, symbol,
			domain, title, description, rationale,
			action_type, priority, status,
			due_at, source_alert_id, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, 'open', $11, $12, now(), now())`,
		todoID, spec.UserID, spec.JobID, spec.Symbol,
		spec.Domain, spec.Title, spec.Description, rationale,
		spec.ActionType, spec.Priority,
		spec.DueAt, spec.SourceAlertID,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("insert todo: %w", err)
	}
	return todoID, nil
}

// ListOpenTodos returns a user's open and in-progress todos. A nil jobID or
// symbol leaves that dimension unconstrained; a non-nil symbol is matched
// exactly.
func (s *Store) ListOpenTodos(ctx context.Context, userID string, jobID *uuid.UUID, symbol *string) ([]signal.Todo, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+todoColumns+`
		FROM todos
		WHERE user_id = $1
			AND ($2::uuid IS NULL OR job_id = $2)
			AND ($3::varchar IS NULL OR symbol = $3)
			AND status IN ('open', 'in_progress')`,
		userID, jobID, symbol,
	)
	if err != nil {
		return nil, fmt.Errorf("list open todos: %w", err)
	}
	defer rows.Close()
	return scanTodos(rows)
}

// TodoFilter narrows ListTodos. Nil fields are not applied.
type TodoFilter struct {
	Symbol           *string
	Domain           *signal.Domain
	Status           *string
	JobID            *uuid.UUID
	IncludeDismissed bool
	Limit            int
}

func (s *Store) ListTodos(ctx context.Context, userID string, filter TodoFilter) ([]signal.Todo, error) {
	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	rows, err := s.pool.Query(ctx, `
		SELECT `+todoColumns+`
		FROM todos
		WHERE user_id = $1
			AND ($2::varchar IS NULL OR symbol = $2)
			AND ($3::varchar IS NULL OR domain = $3)
			AND ($4::boolean = TRUE OR status != 'dismissed')
			AND ($5::varchar IS NULL OR status = $5)
			AND ($6::uuid IS NULL OR job_id = $6)
		ORDER BY created_at
		LIMIT $7`,
		userID, filter.Symbol, filter.Domain, filter.IncludeDismissed, filter.Status, filter.JobID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	defer rows.Close()
	return scanTodos(rows)
}

// UpdateTodoStatus changes a todo's status, scoped to the owning user.
func (s *Store) UpdateTodoStatus(ctx context.Context, todoID uuid.UUID, userID, status string) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE todos
		SET status = $1, updated_at = now()
		WHERE todo_id = $2 AND user_id = $3`,
		status, todoID, userID,
	)
	if err != nil {
		return fmt.Errorf("update todo status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanTodos(rows pgx.Rows) ([]signal.Todo, error) {
	var todos []signal.Todo
	for rows.Next() {
		var t signal.Todo
		if err := rows.Scan(
			&t.TodoID, &t.UserID, &t.JobID, &t.Symbol, &t.Domain, &t.Title, &t.Description, &t.Rationale,
			&t.ActionType, &t.Priority, &t.Status, &t.DueAt, &t.SourceAlertID, &t.CreatedAt, &t.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan todo: %w", err)
		}
		todos = append(todos, t)
	}
	return todos, rows.Err()
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
