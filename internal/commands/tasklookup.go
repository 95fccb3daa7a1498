package commands

import (
	"context"
	"flag"
	"fmt"
	"strings"
	"time"

	"tdui/internal/display"
	"tdui/internal/service"
	"tdui/internal/store"
)

// Now is the clock used for the date filters. Tests replace it.
var Now = time.Now

// viewFlags selects which tasks are numbered, shared by list, done and rm
// so a reference printed by list resolves to the same task.
type viewFlags struct {
	today   bool
	overdue bool
	project string
	sort    string
}

func (v *viewFlags) register(fs *flag.FlagSet) {
	fs.BoolVar(&v.today, "today", false, "")
	fs.BoolVar(&v.overdue, "overdue", false, "")
	fs.StringVar(&v.project, "project", "", "")
	fs.StringVar(&v.project, "p", "", "")
	fs.StringVar(&v.sort, "sort", "", "")
}

// userError marks errors caused by bad input rather than the backend.
type userError struct{ msg string }

func (e *userError) Error() string { return e.msg }

func userErrorf(format string, args ...any) error {
	return &userError{msg: fmt.Sprintf(format, args...)}
}

// filter turns the flags into a display filter, resolving --project by name.
func (v *viewFlags) filter(ctx context.Context, svc service.Service) (display.Filter, string, error) {
	set := 0
	for _, on := range []bool{v.today, v.overdue, v.project != ""} {
		if on {
			set++
		}
	}
	if set > 1 {
		return display.Filter{}, "", userErrorf("use only one of --today, --overdue, --project")
	}

	switch {
	case v.today:
		return display.Today(), "Today", nil
	case v.overdue:
		return display.Overdue(), "Overdue", nil
	case v.project != "":
		p, err := svc.ResolveProject(ctx, v.project)
		if err != nil {
			return display.Filter{}, "", classifyResolveError(err, v.project)
		}
		return display.Project(p.ID), p.Name, nil
	}
	return display.All(), "All", nil
}

func (v *viewFlags) byPriority() (bool, error) {
	switch v.sort {
	case "", "order":
		return false, nil
	case "priority":
		return true, nil
	}
	return false, userErrorf("invalid sort: %s (want priority or order)", v.sort)
}

func classifyResolveError(err error, name string) error {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "not found"):
		return userErrorf("project not found: %s", name)
	case strings.Contains(msg, "ambiguous"):
		return userErrorf("ambiguous project name: %s", name)
	}
	return err
}

// taskView is the numbered task list a command works on.
type taskView struct {
	title string
	store *store.Store
	ids   []string
}

// loadView fetches every open task and computes the displayed ids.
func loadView(ctx context.Context, svc service.Service, v *viewFlags) (*taskView, error) {
	f, title, err := v.filter(ctx, svc)
	if err != nil {
		return nil, err
	}
	byPriority, err := v.byPriority()
	if err != nil {
		return nil, err
	}

	tasks, err := svc.ListTasks(ctx)
	if err != nil {
		return nil, err
	}
	st := store.New()
	st.Load(tasks)

	return &taskView{
		title: title,
		store: st,
		ids:   display.Compute(st.Tasks(), f, byPriority, Now()),
	}, nil
}

// lookup resolves a reference against the view.
func (v *taskView) lookup(ref TaskRef) (service.Task, error) {
	if ref.Num > len(v.ids) {
		return service.Task{}, userErrorf("task number out of range: %s", ref)
	}
	id := v.ids[ref.Num-1]
	if ref.Child > 0 {
		children := v.store.ChildIDs(id)
		if ref.Child > len(children) {
			return service.Task{}, userErrorf("task number out of range: %s", ref)
		}
		id = children[ref.Child-1]
	}
	t, _ := v.store.Get(id)
	return t, nil
}
