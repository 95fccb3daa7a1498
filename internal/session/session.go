// Package session implements the modal task editor: editing an existing task
// or drafting a new one.
package session

import (
	"errors"

	"tdui/internal/cursor"
	"tdui/internal/service"
	"tdui/internal/store"
)

// ErrStaleReference is returned when a session refers to a store position
// that no longer holds the task it was opened on.
var ErrStaleReference = errors.New("edit session refers to a task that is no longer loaded")

// Field is the focused part of the editor.
type Field int

const (
	EditingContent Field = iota
	EditingDescription
	EditingDueString
	BrowsingChildren
)

func (f Field) String() string {
	switch f {
	case EditingContent:
		return "content"
	case EditingDescription:
		return "description"
	case EditingDueString:
		return "due"
	case BrowsingChildren:
		return "children"
	}
	return "unknown"
}

// Mode tells an edit of an existing task apart from a new-task draft.
type Mode int

const (
	ModeEdit Mode = iota
	ModeDraft
)

// Session is a transient editor value. It is discarded on cancel and
// consumed on commit.
type Session struct {
	mode  Mode
	field Field

	content     string
	description string
	dueString   string

	// ModeEdit
	index    int
	taskID   string
	children []string
	child    cursor.Cursor

	// ModeDraft
	projectID string
	parentID  string
	labels    []string
	priority  int
}

// OpenEdit starts editing the task at store position index.
func OpenEdit(st *store.Store, index int) (*Session, error) {
	t, ok := st.At(index)
	if !ok {
		return nil, ErrStaleReference
	}
	return &Session{
		mode:        ModeEdit,
		field:       EditingContent,
		content:     t.Content,
		description: t.Description,
		dueString:   t.DueString(),
		index:       index,
		taskID:      t.ID,
		children:    st.ChildIDs(t.ID),
	}, nil
}

// NewDraft starts a new task under projectID, optionally as a child of
// parentID.
func NewDraft(projectID, parentID string) *Session {
	return &Session{
		mode:      ModeDraft,
		field:     EditingContent,
		projectID: projectID,
		parentID:  parentID,
	}
}

// Mode returns whether the session edits or drafts.
func (s *Session) Mode() Mode { return s.mode }

// Field returns the focused field.
func (s *Session) Field() Field { return s.field }

// TaskID returns the id of the task being edited, "" for drafts.
func (s *Session) TaskID() string { return s.taskID }

// ProjectID returns the project a draft is created in.
func (s *Session) ProjectID() string { return s.projectID }

// ParentID returns the parent a draft is created under.
func (s *Session) ParentID() string { return s.parentID }

// Children returns the ids of the edited task's direct children.
func (s *Session) Children() []string { return s.children }

// SelectedChild returns the index into Children of the highlighted child.
func (s *Session) SelectedChild() (int, bool) { return s.child.Selected() }

// NextField moves focus in the fixed order content, description, due,
// children and back to content. Drafts have no children step.
func (s *Session) NextField() {
	last := BrowsingChildren
	if s.mode == ModeDraft {
		last = EditingDueString
	}
	if s.field >= last {
		s.field = EditingContent
		return
	}
	s.field++
}

// Text returns the buffer of a text field.
func (s *Session) Text(f Field) string {
	switch f {
	case EditingContent:
		return s.content
	case EditingDescription:
		return s.description
	case EditingDueString:
		return s.dueString
	}
	return ""
}

// SetText replaces the buffer of a text field. BrowsingChildren has no
// buffer and is ignored.
func (s *Session) SetText(f Field, v string) {
	switch f {
	case EditingContent:
		s.content = v
	case EditingDescription:
		s.description = v
	case EditingDueString:
		s.dueString = v
	}
}

// SetMeta sets the draft's labels and priority.
func (s *Session) SetMeta(labels []string, priority int) {
	s.labels = labels
	s.priority = priority
}

// NextChild moves the child highlight down. Only meaningful while browsing.
func (s *Session) NextChild() {
	if s.field == BrowsingChildren {
		s.child.Next(len(s.children))
	}
}

// PreviousChild moves the child highlight up.
func (s *Session) PreviousChild() {
	if s.field == BrowsingChildren {
		s.child.Previous(len(s.children))
	}
}

// Commit writes the buffers into the store and returns the request to send
// to the backend. Only valid for ModeEdit.
func (s *Session) Commit(st *store.Store) (service.UpdateRequest, error) {
	if s.mode != ModeEdit {
		return service.UpdateRequest{}, errors.New("commit: session is a draft")
	}
	t, ok := st.At(s.index)
	if !ok || t.ID != s.taskID {
		return service.UpdateRequest{}, ErrStaleReference
	}
	if err := st.UpdateFields(s.taskID, s.content, s.description, s.dueString); err != nil {
		return service.UpdateRequest{}, err
	}
	return service.UpdateRequest{
		TaskID:      s.taskID,
		Content:     s.content,
		Description: s.description,
		DueString:   s.dueString,
	}, nil
}

// Draft returns the create request for a ModeDraft session.
func (s *Session) Draft() (service.CreateRequest, error) {
	if s.mode != ModeDraft {
		return service.CreateRequest{}, errors.New("draft: session edits an existing task")
	}
	return service.CreateRequest{
		ProjectID:   s.projectID,
		ParentID:    s.parentID,
		Content:     s.content,
		Description: s.description,
		DueString:   s.dueString,
		Labels:      s.labels,
		Priority:    s.priority,
	}, nil
}

// DrillIntoChild opens a new session on the highlighted child. The returned
// session replaces the current one; there is no way back to the parent.
// ok is false when not browsing children or nothing is highlighted.
func (s *Session) DrillIntoChild(st *store.Store) (next *Session, ok bool, err error) {
	if s.mode != ModeEdit || s.field != BrowsingChildren {
		return nil, false, nil
	}
	i, selected := s.child.Selected()
	if !selected || i >= len(s.children) {
		return nil, false, nil
	}
	index, found := st.IndexOf(s.children[i])
	if !found {
		return nil, true, ErrStaleReference
	}
	next, err = OpenEdit(st, index)
	return next, true, err
}

// SpawnChildDraft leaves the editor for a new-task draft under the edited
// task. ok is false for drafts, which have no persisted id yet.
func (s *Session) SpawnChildDraft(st *store.Store) (draft *Session, ok bool, err error) {
	if s.mode != ModeEdit {
		return nil, false, nil
	}
	t, found := st.At(s.index)
	if !found || t.ID != s.taskID {
		return nil, true, ErrStaleReference
	}
	return NewDraft(t.ProjectID, t.ID), true, nil
}
