package filter

import (
	"strings"
	"time"

	"github.com/td-cli/td/pkg/types"
)

// Context supplies the entities a filter can reference. Callers
// pre-filter deleted entities out before building one.
type Context struct {
	Projects []types.Project
	Sections []types.Section
	Labels   []types.Label
}

// Evaluator decides whether items match a filter expression. Today is
// the current date in the user's timezone (UTC when unknown); only its
// year/month/day are significant.
type Evaluator struct {
	Context Context
	Today   time.Time
}

// NewEvaluator builds an evaluator for the given context and timezone.
// An empty or unknown timezone name falls back to UTC.
func NewEvaluator(ctx Context, timezone string) *Evaluator {
	loc := time.UTC
	if timezone != "" {
		if parsed, err := time.LoadLocation(timezone); err == nil {
			loc = parsed
		}
	}
	now := time.Now().In(loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return &Evaluator{Context: ctx, Today: today}
}

// Matches reports whether the item satisfies the expression.
func (e *Evaluator) Matches(expr *Expr, item *types.Item) bool {
	if expr == nil {
		return true
	}

	switch expr.Kind {
	case ExprAnd:
		return e.Matches(expr.Left, item) && e.Matches(expr.Right, item)
	case ExprOr:
		return e.Matches(expr.Left, item) || e.Matches(expr.Right, item)
	case ExprNot:
		return !e.Matches(expr.Left, item)

	case ExprToday:
		due, ok := e.dueDay(item)
		return ok && due.Equal(e.Today)
	case ExprTomorrow:
		due, ok := e.dueDay(item)
		return ok && due.Equal(e.Today.AddDate(0, 0, 1))
	case ExprOverdue:
		due, ok := e.dueDay(item)
		return ok && due.Before(e.Today) && !item.Checked
	case ExprNoDate:
		return item.Due == nil
	case ExprNoLabels:
		return len(item.Labels) == 0
	case ExprNext7Days:
		due, ok := e.dueDay(item)
		if !ok {
			return false
		}
		end := e.Today.AddDate(0, 0, 7)
		return !due.Before(e.Today) && due.Before(end)
	case ExprSpecificDate:
		due, ok := e.dueDay(item)
		return ok && int(due.Month()) == expr.Month && due.Day() == expr.Day

	case ExprPriority:
		// UI p1 is server priority 4.
		return item.Priority == 5-expr.Priority

	case ExprLabel:
		for _, label := range item.Labels {
			if strings.EqualFold(label, expr.Name) {
				return true
			}
		}
		return false

	case ExprProject:
		project := e.projectByID(item.ProjectID)
		return project != nil && strings.EqualFold(project.Name, expr.Name)

	case ExprProjectWithSubprojects:
		if item.ProjectID == "" {
			return false
		}
		_, ok := e.descendantSet(expr.Name)[item.ProjectID]
		return ok

	case ExprSection:
		if item.SectionID == "" {
			return false
		}
		section := e.sectionByID(item.SectionID)
		return section != nil && strings.EqualFold(section.Name, expr.Name)
	}

	return false
}

// Filter returns the items matching the expression.
func (e *Evaluator) Filter(expr *Expr, items []types.Item) []types.Item {
	var out []types.Item
	for i := range items {
		if e.Matches(expr, &items[i]) {
			out = append(out, items[i])
		}
	}
	return out
}

func (e *Evaluator) dueDay(item *types.Item) (time.Time, bool) {
	if item.Due == nil {
		return time.Time{}, false
	}
	return item.Due.DueDate()
}

func (e *Evaluator) projectByID(id string) *types.Project {
	for i := range e.Context.Projects {
		if e.Context.Projects[i].ID == id {
			return &e.Context.Projects[i]
		}
	}
	return nil
}

func (e *Evaluator) sectionByID(id string) *types.Section {
	for i := range e.Context.Sections {
		if e.Context.Sections[i].ID == id {
			return &e.Context.Sections[i]
		}
	}
	return nil
}

// descendantSet collects the IDs of every project with the given name
// plus all their transitive subprojects.
func (e *Evaluator) descendantSet(name string) map[string]struct{} {
	set := make(map[string]struct{})
	for i := range e.Context.Projects {
		if strings.EqualFold(e.Context.Projects[i].Name, name) {
			set[e.Context.Projects[i].ID] = struct{}{}
		}
	}
	for {
		grew := false
		for i := range e.Context.Projects {
			p := &e.Context.Projects[i]
			if _, have := set[p.ID]; have {
				continue
			}
			if p.ParentID == "" {
				continue
			}
			if _, parentIn := set[p.ParentID]; parentIn {
				set[p.ID] = struct{}{}
				grew = true
			}
		}
		if !grew {
			return set
		}
	}
}
