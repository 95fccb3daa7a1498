// Package app is the interactive state layer. It owns the task store and
// turns intents into store changes, editor transitions and backend
// mutations.
package app

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"tdui/internal/cursor"
	"tdui/internal/display"
	"tdui/internal/reconcile"
	"tdui/internal/service"
	"tdui/internal/session"
	"tdui/internal/store"
)

// Mutator hands mutations to the backend without waiting for them.
// *reconcile.Dispatcher implements it.
type Mutator interface {
	Create(req service.CreateRequest)
	Update(req service.UpdateRequest)
	Close(taskID string)
	Delete(taskID string)
}

// App is the whole interactive state. Every exported method takes the lock
// for its own duration only; nothing is held across backend calls.
type App struct {
	mu sync.Mutex

	store    *store.Store
	projects []service.Project

	filter     display.Filter
	byPriority bool
	visible    []string // last display.Compute result

	projectCur cursor.Cursor
	taskCur    cursor.Cursor
	focus      Focus

	edit    *session.Session
	editSeq int // bumped whenever edit is replaced

	showHelp bool
	errMsg   string
	status   string

	box     *reconcile.Mailbox
	mutator Mutator
	now     func() time.Time
	logger  *slog.Logger
}

// Option configures an App.
type Option func(*App)

// WithClock overrides the clock used by the date filters.
func WithClock(now func() time.Time) Option {
	return func(a *App) { a.now = now }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *App) { a.logger = l }
}

// New returns an empty App that sends mutations through m and reads their
// outcomes from box.
func New(m Mutator, box *reconcile.Mailbox, opts ...Option) *App {
	a := &App{
		store:   store.New(),
		filter:  display.Today(),
		box:     box,
		mutator: m,
		now:     time.Now,
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Load replaces projects and tasks with a fresh fetch. An open editor keeps
// its captured index and will fail its commit as stale if the task moved.
func (a *App) Load(projects []service.Project, tasks []service.Task) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.projects = projects
	a.projectCur.Clamp(len(projects))
	a.store.Load(tasks)
	a.refresh()
	a.logger.Debug("loaded", "projects", len(projects), "tasks", len(tasks))
}

// Poll drains every result currently in the mailbox without blocking and
// returns how many it applied.
func (a *App) Poll() int {
	a.mu.Lock()
	defer a.mu.Unlock()

	n := 0
	for {
		r, ok := a.box.TryReceive()
		if !ok {
			break
		}
		n++
		if err := reconcile.Apply(a.store, r); err != nil {
			a.report(err)
			continue
		}
		if r.Op == reconcile.OpCreate {
			a.status = "Created: " + r.Task.Content
		}
	}
	if n > 0 {
		a.refresh()
	}
	return n
}

// SetFilter changes the active filter and clears the task selection.
func (a *App) SetFilter(f display.Filter) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.setFilter(f)
}

// SetText replaces an editor buffer. It is a no-op with no editor open.
func (a *App) SetText(f session.Field, text string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.edit != nil {
		a.edit.SetText(f, text)
	}
}

// Handle applies one intent.
func (a *App) Handle(in Intent) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.logger.Debug("intent", "intent", in.String())

	if in == DismissError {
		a.errMsg = ""
		return
	}
	if in == ToggleHelp && a.edit == nil {
		a.showHelp = !a.showHelp
		return
	}
	if a.edit != nil {
		a.handleEditor(in)
		return
	}
	if a.showHelp {
		return
	}

	switch in {
	case SwitchFocus:
		if a.focus == FocusProjects {
			a.focus = FocusTasks
		} else {
			a.focus = FocusProjects
		}
	case SelectNext, SelectPrevious:
		a.move(in == SelectNext)
	case OpenSelected:
		a.openSelected()
	case NewTask:
		a.newTask()
	case CloseTask, DeleteTask:
		a.removeSelected(in == CloseTask)
	case FilterAll:
		a.setFilter(display.All())
		a.projectCur.Reset()
	case FilterToday:
		a.setFilter(display.Today())
		a.projectCur.Reset()
	case FilterOverdue:
		a.setFilter(display.Overdue())
		a.projectCur.Reset()
	case TogglePrioritySort:
		a.byPriority = !a.byPriority
		a.refresh()
	}
}

func (a *App) move(forward bool) {
	if a.focus == FocusProjects {
		if forward {
			a.projectCur.Next(len(a.projects))
		} else {
			a.projectCur.Previous(len(a.projects))
		}
		if i, ok := a.projectCur.Selected(); ok {
			a.setFilter(display.Project(a.projects[i].ID))
		}
		return
	}
	if forward {
		a.taskCur.Next(len(a.visible))
	} else {
		a.taskCur.Previous(len(a.visible))
	}
}

func (a *App) openSelected() {
	if a.focus == FocusProjects {
		if i, ok := a.projectCur.Selected(); ok {
			a.setFilter(display.Project(a.projects[i].ID))
			a.focus = FocusTasks
		}
		return
	}
	id, ok := a.selectedTaskID()
	if !ok {
		return
	}
	index, ok := a.store.IndexOf(id)
	if !ok {
		a.ignore(store.ErrNotFound, id)
		return
	}
	s, err := session.OpenEdit(a.store, index)
	if err != nil {
		a.report(err)
		return
	}
	a.setSession(s)
}

func (a *App) newTask() {
	projectID := a.draftProject()
	if projectID == "" {
		a.status = "No project to add the task to"
		return
	}
	a.setSession(session.NewDraft(projectID, ""))
}

// draftProject picks the selected project, then the filtered project, then
// the inbox.
func (a *App) draftProject() string {
	if i, ok := a.projectCur.Selected(); ok {
		return a.projects[i].ID
	}
	if a.filter.Kind == display.KindProject {
		return a.filter.ProjectID
	}
	for _, p := range a.projects {
		if p.IsInboxProject {
			return p.ID
		}
	}
	if len(a.projects) > 0 {
		return a.projects[0].ID
	}
	return ""
}

func (a *App) removeSelected(closeTask bool) {
	if a.focus != FocusTasks {
		return
	}
	id, ok := a.selectedTaskID()
	if !ok {
		return
	}
	t, _ := a.store.Get(id)
	if err := a.store.Remove(id); err != nil {
		a.ignore(err, id)
		return
	}
	if closeTask {
		a.mutator.Close(id)
		a.status = "Completed: " + t.Content
	} else {
		a.mutator.Delete(id)
		a.status = "Deleted: " + t.Content
	}
	a.refresh()
}

func (a *App) handleEditor(in Intent) {
	switch in {
	case NextField:
		a.edit.NextField()
	case SelectNext:
		a.edit.NextChild()
	case SelectPrevious:
		a.edit.PreviousChild()
	case CancelEdit:
		a.setSession(nil)
	case CommitEdit:
		a.commit()
	case OpenChild:
		next, ok, err := a.edit.DrillIntoChild(a.store)
		if !ok {
			return
		}
		if err != nil {
			a.report(err)
			a.setSession(nil)
			return
		}
		a.setSession(next)
	case NewSubtask:
		draft, ok, err := a.edit.SpawnChildDraft(a.store)
		if !ok {
			return
		}
		if err != nil {
			a.report(err)
			a.setSession(nil)
			return
		}
		a.setSession(draft)
	}
}

func (a *App) commit() {
	s := a.edit
	if s.Mode() == session.ModeDraft {
		req, err := s.Draft()
		if err != nil {
			a.report(err)
			return
		}
		if req.Content == "" {
			a.status = "Task name required"
			return
		}
		a.setSession(nil)
		a.mutator.Create(req)
		a.status = "Creating: " + req.Content
		return
	}

	req, err := s.Commit(a.store)
	a.setSession(nil)
	if err != nil {
		a.report(err)
		return
	}
	a.mutator.Update(req)
	a.status = "Saved: " + req.Content
	a.refresh()
}

func (a *App) setSession(s *session.Session) {
	a.edit = s
	a.editSeq++
}

func (a *App) setFilter(f display.Filter) {
	a.filter = f
	a.taskCur.Reset()
	a.refresh()
}

func (a *App) refresh() {
	a.visible = display.Compute(a.store.Tasks(), a.filter, a.byPriority, a.now())
	a.taskCur.Clamp(len(a.visible))
}

func (a *App) selectedTaskID() (string, bool) {
	i, ok := a.taskCur.Selected()
	if !ok || i >= len(a.visible) {
		return "", false
	}
	return a.visible[i], true
}

// report routes an error to the user. Only mutation failures become the
// dismissible error; local guards become a status line.
func (a *App) report(err error) {
	var merr *reconcile.MutationError
	switch {
	case errors.As(err, &merr):
		a.errMsg = merr.Error()
		a.logger.Warn("mutation failed", "op", merr.Op.String(), "message", merr.Message)
	case errors.Is(err, session.ErrStaleReference):
		a.status = "Edit discarded: the task list was reloaded"
		a.logger.Debug("stale edit session", "err", err)
	default:
		a.status = "Something went wrong"
		a.logger.Error("unexpected error", "err", err)
	}
}

// ignore drops a local lookup miss. It signals a logic error but must not
// interrupt the session.
func (a *App) ignore(err error, id string) {
	a.logger.Debug("ignored store miss", "id", id, "err", err)
}
