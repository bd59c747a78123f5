// Package engine classifies a normalized signal against an ordered,
// first-match rule registry. Evaluation is pure and synchronous: the only
// shared state is the rule table, which is read-only after construction.
package engine

import (
	"time"

	"github.com/halcyon-labs/lookout/internal/signal"
)

// Condition decides whether a rule applies. Conditions must be pure and total
// over optional fields: a nil metric evaluates false, never panics. The
// engine does not recover rule panics; a throwing predicate is a rule-author
// defect and should surface immediately.
type Condition func(signal.Context) bool

// Rule is one (name, predicate, action) entry in the registry.
type Rule struct {
	Name        string
	Description string
	Condition   Condition
	Apply       func(signal.Context) Result
}

// Result is the engine's output: a bounded set of alert field updates plus an
// optional todo specification. A nil Todo means no actionable follow-up.
type Result struct {
	Updates signal.Updates
	Todo    *signal.TodoSpec
}

// Engine evaluates signals against its rule list in order. Order is
// load-bearing: more specific or severe conditions must be listed before the
// broader ones they overlap with.
type Engine struct {
	rules []Rule
}

// New builds an engine over the given rules. A nil slice means the default
// registry.
func New(rules []Rule) *Engine {
	if rules == nil {
		rules = DefaultRules()
	}
	return &Engine{rules: rules}
}

// Evaluate applies rules in order and returns the first matching result. If
// no rule matches it returns a neutral default: informational, no todo.
func (e *Engine) Evaluate(sig signal.Context) Result {
	for _, rule := range e.rules {
		if rule.Condition(sig) {
			return rule.Apply(sig)
		}
	}

	rationale := "No specific decision rule matched this alert."
	if sig.Rationale != nil && *sig.Rationale != "" {
		rationale = *sig.Rationale
	}
	return Result{
		Updates: signal.Updates{
			ActionRequired:  boolPtr(false),
			ConfidenceScore: intPtr(clamp(50)),
			ActionHint:      strPtr(signal.ActionMonitor),
			Rationale:       strPtr(rationale),
		},
	}
}

// outcome standardizes Result construction for the concrete rules.
type outcome struct {
	severity       signal.Severity // empty = leave severity untouched
	actionRequired bool
	confidence     int
	actionHint     string
	rationale      string

	createTodo   bool
	todoAction   string
	todoPriority signal.Priority
	todoDueDays  int // 0 = no due date
}

func buildResult(sig signal.Context, o outcome) Result {
	updates := signal.Updates{
		ActionRequired:  boolPtr(o.actionRequired),
		ConfidenceScore: intPtr(clamp(o.confidence)),
		ActionHint:      strPtr(o.actionHint),
		Rationale:       strPtr(o.rationale),
	}
	if o.severity != "" {
		sev := o.severity
		updates.Severity = &sev
	}

	res := Result{Updates: updates}
	if o.createTodo && o.todoAction != "" && o.todoPriority != "" {
		var dueAt *time.Time
		if o.todoDueDays > 0 && !sig.CreatedAt.IsZero() {
			due := sig.CreatedAt.AddDate(0, 0, o.todoDueDays)
			dueAt = &due
		}
		res.Todo = &signal.TodoSpec{
			UserID:        sig.UserID,
			JobID:         sig.JobID,
			Domain:        sig.Domain,
			Symbol:        sig.Symbol,
			Title:         todoTitle(sig, o.actionHint),
			Description:   sig.Message,
			ActionType:    o.todoAction,
			Priority:      o.todoPriority,
			Rationale:     o.rationale,
			DueAt:         dueAt,
			SourceAlertID: sig.AlertID,
		}
	}
	return res
}

// todoTitle generates a reasonable default todo title from the signal and
// action hint.
func todoTitle(sig signal.Context, actionHint string) string {
	verb := "Review"
	switch actionHint {
	case signal.ActionReview:
		verb = "Review"
	case signal.ActionRebalance:
		verb = "Rebalance"
	case signal.ActionInvestigate:
		verb = "Investigate"
	case signal.ActionMonitor:
		verb = "Monitor"
	}

	if sig.Symbol != nil && *sig.Symbol != "" {
		return verb + " " + *sig.Symbol + " position"
	}
	return verb + " alert: " + sig.Title
}

func clamp(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func boolPtr(b bool) *bool    { return &b }
func intPtr(n int) *int       { return &n }
func strPtr(s string) *string { return &s }
