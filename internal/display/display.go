// Package display derives the ordered list of visible top-level task ids.
package display

import (
	"slices"
	"time"

	"tdui/internal/service"
)

// Kind selects which top-level tasks a Filter passes.
type Kind int

const (
	KindAll Kind = iota
	KindToday
	KindOverdue
	KindProject
)

// Filter is the active task filter.
type Filter struct {
	Kind      Kind
	ProjectID string // only for KindProject
}

// All passes every top-level task.
func All() Filter { return Filter{Kind: KindAll} }

// Today passes tasks due on the current local date.
func Today() Filter { return Filter{Kind: KindToday} }

// Overdue passes tasks due strictly before the current local date.
func Overdue() Filter { return Filter{Kind: KindOverdue} }

// Project passes tasks of one project.
func Project(id string) Filter { return Filter{Kind: KindProject, ProjectID: id} }

// Title is the heading shown above the task list.
func (f Filter) Title() string {
	switch f.Kind {
	case KindToday:
		return "Today"
	case KindOverdue:
		return "Overdue"
	case KindProject:
		return "Tasks"
	default:
		return "All"
	}
}

// Compute returns the ids of the top-level tasks that pass f, in store
// order, optionally stable-sorted by descending priority. now fixes the
// local calendar date for the date filters.
func Compute(tasks []service.Task, f Filter, byPriority bool, now time.Time) []string {
	today := now.Format(service.DateLayout)

	type entry struct {
		id       string
		priority int
	}
	var out []entry
	for _, t := range tasks {
		if t.HasParent() {
			continue
		}
		if !f.match(t, today) {
			continue
		}
		out = append(out, entry{id: t.ID, priority: t.Priority})
	}

	if byPriority {
		slices.SortStableFunc(out, func(a, b entry) int {
			return b.priority - a.priority
		})
	}

	ids := make([]string, len(out))
	for i, e := range out {
		ids[i] = e.id
	}
	return ids
}

func (f Filter) match(t service.Task, today string) bool {
	switch f.Kind {
	case KindAll:
		return true
	case KindProject:
		return t.ProjectID == f.ProjectID
	case KindToday, KindOverdue:
		day, ok := t.Due.Day()
		if !ok {
			return false
		}
		// Both sides are zero-padded YYYY-MM-DD.
		date := day.Format(service.DateLayout)
		if f.Kind == KindToday {
			return date == today
		}
		return date < today
	}
	return false
}
