// Package service defines the backend-agnostic interface for task operations.
package service

import "time"

// DateLayout is the wire format of a due date.
const DateLayout = "2006-01-02"

// Task represents a single task item as reported by the backend.
type Task struct {
	ID          string    `json:"id"`
	ProjectID   string    `json:"project_id"`
	SectionID   string    `json:"section_id,omitempty"`
	Content     string    `json:"content"`
	Description string    `json:"description"`
	IsCompleted bool      `json:"is_completed"`
	Labels      []string  `json:"labels"`
	ParentID    string    `json:"parent_id,omitempty"`
	Order       int       `json:"order"`
	Priority    int       `json:"priority"` // 1 (normal) .. 4 (urgent)
	Due         *Due      `json:"due,omitempty"`
	Duration    *Duration `json:"duration,omitempty"`

	URL          string `json:"url,omitempty"`
	CommentCount int    `json:"comment_count,omitempty"`
	CreatedAt    string `json:"created_at,omitempty"`
	CreatorID    string `json:"creator_id,omitempty"`
	AssigneeID   string `json:"assignee_id,omitempty"`
	AssignerID   string `json:"assigner_id,omitempty"`
}

// HasParent reports whether the task is a sub-task.
func (t Task) HasParent() bool {
	return t.ParentID != ""
}

// DueString returns the human-readable due specification, or "".
func (t Task) DueString() string {
	if t.Due == nil {
		return ""
	}
	return t.Due.String
}

// Due is a task's due specification.
type Due struct {
	Date        string `json:"date"`               // YYYY-MM-DD
	Datetime    string `json:"datetime,omitempty"` // RFC3339, may lack a zone
	IsRecurring bool   `json:"is_recurring"`
	String      string `json:"string"`
	Timezone    string `json:"timezone,omitempty"`
}

// Day parses Date. ok is false for an empty or malformed date.
func (d *Due) Day() (day time.Time, ok bool) {
	if d == nil || d.Date == "" {
		return time.Time{}, false
	}
	day, err := time.Parse(DateLayout, d.Date)
	if err != nil {
		return time.Time{}, false
	}
	return day, true
}

// Time parses Datetime. ok is false if the due has no time of day.
func (d *Due) Time() (t time.Time, ok bool) {
	if d == nil || d.Datetime == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, d.Datetime); err == nil {
		return t, true
	}
	// Floating due times carry no zone.
	if t, err := time.ParseInLocation("2006-01-02T15:04:05", d.Datetime, time.Local); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// Duration is an estimated task duration.
type Duration struct {
	Amount int    `json:"amount"`
	Unit   string `json:"unit"` // "minute" or "day"
}

// Project represents a project (a task list on backends without projects).
type Project struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Order          int    `json:"order"`
	Color          string `json:"color,omitempty"`
	ParentID       string `json:"parent_id,omitempty"`
	IsFavorite     bool   `json:"is_favorite"`
	IsInboxProject bool   `json:"is_inbox_project"`
	ViewStyle      string `json:"view_style,omitempty"`
}

// CreateRequest describes a task to create.
// Labels, Priority and AssigneeID are passed through to the backend untouched.
type CreateRequest struct {
	ProjectID   string
	ParentID    string
	Content     string
	Description string
	DueString   string
	Labels      []string
	Priority    int
	AssigneeID  string
}

// UpdateRequest carries the editable fields of an existing task.
type UpdateRequest struct {
	TaskID      string
	Content     string
	Description string
	DueString   string
}
