package app

import (
	"tdui/internal/display"
	"tdui/internal/service"
	"tdui/internal/session"
)

// Row is a task line together with its number of direct children.
type Row struct {
	Task     service.Task
	Children int
}

// Editor is the renderer's copy of the open edit session.
type Editor struct {
	Seq           int // changes whenever a different session is opened
	Mode          session.Mode
	Field         session.Field
	Content       string
	Description   string
	DueString     string
	Children      []Row
	SelectedChild int // cursor.None when nothing is highlighted
	ProjectName   string
	ParentContent string
}

// Snapshot is an immutable copy of everything the renderer needs.
type Snapshot struct {
	Projects        []service.Project
	SelectedProject int
	Tasks           []Row
	SelectedTask    int
	Focus           Focus
	Filter          display.Filter
	ByPriority      bool
	Editor          *Editor
	ShowHelp        bool
	Err             string
	Status          string
}

// Snapshot copies the current state for rendering.
func (a *App) Snapshot() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()

	snap := Snapshot{
		Projects:        append([]service.Project(nil), a.projects...),
		SelectedProject: a.projectCur.Index(),
		SelectedTask:    a.taskCur.Index(),
		Focus:           a.focus,
		Filter:          a.filter,
		ByPriority:      a.byPriority,
		ShowHelp:        a.showHelp,
		Err:             a.errMsg,
		Status:          a.status,
	}
	snap.Tasks = a.rows(a.visible)

	if s := a.edit; s != nil {
		ed := &Editor{
			Seq:           a.editSeq,
			Mode:          s.Mode(),
			Field:         s.Field(),
			Content:       s.Text(session.EditingContent),
			Description:   s.Text(session.EditingDescription),
			DueString:     s.Text(session.EditingDueString),
			Children:      a.rows(s.Children()),
			SelectedChild: -1,
		}
		if i, ok := s.SelectedChild(); ok {
			ed.SelectedChild = i
		}
		projectID := s.ProjectID()
		if s.Mode() == session.ModeEdit {
			if t, ok := a.store.Get(s.TaskID()); ok {
				projectID = t.ProjectID
			}
		}
		ed.ProjectName = a.projectName(projectID)
		if p, ok := a.store.Get(s.ParentID()); ok {
			ed.ParentContent = p.Content
		}
		snap.Editor = ed
	}
	return snap
}

// VisibleIDs returns the current display list.
func (a *App) VisibleIDs() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.visible...)
}

// Task looks up a task in the store.
func (a *App) Task(id string) (service.Task, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.store.Get(id)
}

// ChildIDs returns the direct children of id in store order.
func (a *App) ChildIDs(id string) []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.store.ChildIDs(id)
}

func (a *App) rows(ids []string) []Row {
	rows := make([]Row, 0, len(ids))
	for _, id := range ids {
		t, ok := a.store.Get(id)
		if !ok {
			continue
		}
		rows = append(rows, Row{Task: t, Children: a.store.ChildCount(id)})
	}
	return rows
}

func (a *App) projectName(id string) string {
	for _, p := range a.projects {
		if p.ID == id {
			return p.Name
		}
	}
	return ""
}
