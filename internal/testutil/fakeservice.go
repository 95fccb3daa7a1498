// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"tdui/internal/service"
)

// ErrNotFound is returned when a resource is not found.
var ErrNotFound = errors.New("not found")

// ErrAmbiguous is returned when multiple matches are found.
var ErrAmbiguous = errors.New("ambiguous")

// FakeService is an in-memory implementation of service.Service for testing.
type FakeService struct {
	mu       sync.RWMutex
	projects []service.Project
	tasks    []service.Task
	nextID   int

	// Closed and Deleted record the ids passed to CloseTask and DeleteTask.
	Closed  []string
	Deleted []string

	// Gate, if set, is received from before every create/update returns,
	// letting a test hold mutations in flight and release them in any order.
	Gate chan struct{}

	// Error injection for testing
	ListProjectsErr   error
	ResolveProjectErr error
	ListTasksErr      error
	CreateTaskErr     error
	UpdateTaskErr     error
	CloseTaskErr      error
	DeleteTaskErr     error
}

// NewFakeService creates a new FakeService with an Inbox project.
func NewFakeService() *FakeService {
	return &FakeService{
		projects: []service.Project{
			{ID: "inbox", Name: "Inbox", IsInboxProject: true},
		},
	}
}

// AddProject adds a project to the fake service.
func (f *FakeService) AddProject(id, name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.projects = append(f.projects, service.Project{ID: id, Name: name, Order: len(f.projects)})
}

// AddTask adds a task as-is.
func (f *FakeService) AddTask(t service.Task) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks = append(f.tasks, t)
}

// Task returns the stored task with the given id.
func (f *FakeService) Task(id string) (service.Task, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, t := range f.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return service.Task{}, false
}

// ClosedIDs returns a copy of the ids passed to CloseTask.
func (f *FakeService) ClosedIDs() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return append([]string(nil), f.Closed...)
}

// DeletedIDs returns a copy of the ids passed to DeleteTask.
func (f *FakeService) DeletedIDs() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return append([]string(nil), f.Deleted...)
}

// ListProjects implements service.Service.
func (f *FakeService) ListProjects(ctx context.Context) ([]service.Project, error) {
	if f.ListProjectsErr != nil {
		return nil, f.ListProjectsErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	result := make([]service.Project, len(f.projects))
	copy(result, f.projects)
	return result, nil
}

// ResolveProject implements service.Service.
func (f *FakeService) ResolveProject(ctx context.Context, name string) (service.Project, error) {
	if f.ResolveProjectErr != nil {
		return service.Project{}, f.ResolveProjectErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()

	nameLower := strings.ToLower(strings.TrimSpace(name))

	var matches []service.Project
	for _, p := range f.projects {
		if strings.ToLower(strings.TrimSpace(p.Name)) == nameLower {
			matches = append(matches, p)
		}
	}

	switch len(matches) {
	case 0:
		return service.Project{}, ErrNotFound
	case 1:
		return matches[0], nil
	default:
		return service.Project{}, ErrAmbiguous
	}
}

// ListTasks implements service.Service.
func (f *FakeService) ListTasks(ctx context.Context) ([]service.Task, error) {
	if f.ListTasksErr != nil {
		return nil, f.ListTasksErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()

	var open []service.Task
	for _, t := range f.tasks {
		if !t.IsCompleted {
			open = append(open, t)
		}
	}
	return open, nil
}

// CreateTask implements service.Service.
func (f *FakeService) CreateTask(ctx context.Context, req service.CreateRequest) (service.Task, error) {
	f.wait()
	if f.CreateTaskErr != nil {
		return service.Task{}, f.CreateTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextID++
	t := service.Task{
		ID:          fmt.Sprintf("new-%d", f.nextID),
		ProjectID:   req.ProjectID,
		ParentID:    req.ParentID,
		Content:     req.Content,
		Description: req.Description,
		Labels:      req.Labels,
		Priority:    req.Priority,
		AssigneeID:  req.AssigneeID,
	}
	if t.Priority == 0 {
		t.Priority = 1
	}
	if req.DueString != "" {
		t.Due = &service.Due{String: req.DueString}
	}
	f.tasks = append(f.tasks, t)
	return t, nil
}

// UpdateTask implements service.Service.
func (f *FakeService) UpdateTask(ctx context.Context, req service.UpdateRequest) (service.Task, error) {
	f.wait()
	if f.UpdateTaskErr != nil {
		return service.Task{}, f.UpdateTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, t := range f.tasks {
		if t.ID != req.TaskID {
			continue
		}
		t.Content = req.Content
		t.Description = req.Description
		if req.DueString == "" {
			t.Due = nil
		} else {
			t.Due = &service.Due{String: req.DueString, Date: dueDate(t.Due)}
		}
		f.tasks[i] = t
		return t, nil
	}
	return service.Task{}, ErrNotFound
}

func dueDate(d *service.Due) string {
	if d == nil {
		return ""
	}
	return d.Date
}

// CloseTask implements service.Service.
func (f *FakeService) CloseTask(ctx context.Context, taskID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Closed = append(f.Closed, taskID)
	if f.CloseTaskErr != nil {
		return f.CloseTaskErr
	}
	for i, t := range f.tasks {
		if t.ID == taskID {
			f.tasks[i].IsCompleted = true
			return nil
		}
	}
	return ErrNotFound
}

// DeleteTask implements service.Service.
func (f *FakeService) DeleteTask(ctx context.Context, taskID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Deleted = append(f.Deleted, taskID)
	if f.DeleteTaskErr != nil {
		return f.DeleteTaskErr
	}
	for i, t := range f.tasks {
		if t.ID == taskID {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (f *FakeService) wait() {
	if f.Gate != nil {
		<-f.Gate
	}
}
