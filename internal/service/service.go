// Package service defines the backend-agnostic interface for task operations.
package service

import "context"

// Service defines the interface for task backend operations.
// All network calls go through this interface; the state layer never
// imports a backend SDK directly.
type Service interface {
	// ListProjects returns all projects in API order.
	ListProjects(ctx context.Context) ([]Project, error)

	// ResolveProject finds a project by name (case-insensitive, trimmed).
	// Returns error if not found or ambiguous.
	ResolveProject(ctx context.Context, name string) (Project, error)

	// ListTasks returns every open task across all projects, in API order.
	ListTasks(ctx context.Context) ([]Task, error)

	// CreateTask creates a task and returns the server's record of it.
	CreateTask(ctx context.Context, req CreateRequest) (Task, error)

	// UpdateTask writes the editable fields and returns the server's record.
	UpdateTask(ctx context.Context, req UpdateRequest) (Task, error)

	// CloseTask marks a task completed.
	CloseTask(ctx context.Context, taskID string) error

	// DeleteTask deletes a task.
	DeleteTask(ctx context.Context, taskID string) error
}
