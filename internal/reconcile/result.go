// Package reconcile carries the outcomes of detached backend mutations back
// to the control loop and merges them into the task store.
package reconcile

import (
	"errors"
	"fmt"

	"tdui/internal/service"
	"tdui/internal/store"
)

// Op identifies the kind of mutation a result belongs to.
type Op int

const (
	OpCreate Op = iota
	OpUpdate
)

func (o Op) String() string {
	if o == OpCreate {
		return "create"
	}
	return "update"
}

// MutationError is a failed remote mutation. It is the only error meant to
// be shown to the user.
type MutationError struct {
	Op      Op
	Message string
}

func (e *MutationError) Error() string {
	return fmt.Sprintf("%s failed: %s", e.Op, e.Message)
}

// Result is Completed (Err == nil, Task is the server's record) or Failed.
type Result struct {
	Op   Op
	Task service.Task
	Err  *MutationError
}

// Completed builds a successful result.
func Completed(op Op, t service.Task) Result {
	return Result{Op: op, Task: t}
}

// Failed builds a failed result carrying a human-readable diagnostic.
func Failed(op Op, message string) Result {
	return Result{Op: op, Err: &MutationError{Op: op, Message: message}}
}

// OK reports whether the mutation completed.
func (r Result) OK() bool {
	return r.Err == nil
}

// Apply merges one result into the store.
//
// A completed create is appended. A completed update is informational: the
// store already holds the committed fields. Only the due date the server
// parsed is taken over, and only while the local record still carries the
// content, description and due string that were confirmed, so a late
// confirmation never undoes a newer local edit. A failure is returned as is;
// the optimistic local change stays in place.
func Apply(st *store.Store, r Result) error {
	if r.Err != nil {
		return r.Err
	}
	switch r.Op {
	case OpCreate:
		st.Append(r.Task)
	case OpUpdate:
		local, ok := st.Get(r.Task.ID)
		if !ok || !sameEdit(local, r.Task) || r.Task.Due == nil {
			return nil
		}
		due := *local.Due
		due.Date = r.Task.Due.Date
		due.Datetime = r.Task.Due.Datetime
		local.Due = &due
		if err := st.Replace(local); err != nil && !errors.Is(err, store.ErrNotFound) {
			return err
		}
	}
	return nil
}

// sameEdit reports whether confirmed echoes the fields the user last
// committed locally.
func sameEdit(local, confirmed service.Task) bool {
	return local.Due != nil &&
		local.Content == confirmed.Content &&
		local.Description == confirmed.Description &&
		local.DueString() == confirmed.DueString()
}
