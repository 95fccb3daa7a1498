// Package store holds the local mirror of the remote task list.
//
// The Store is the single writable owner of task state. Other components keep
// ids or indices into it and never mutate copies.
package store

import (
	"errors"
	"slices"

	"tdui/internal/service"
)

// ErrNotFound is returned when an operation references an id that is not in
// the store.
var ErrNotFound = errors.New("task not found")

// Store is an insertion-ordered collection of tasks with a derived
// parent -> child-count index. It is not safe for concurrent use; callers
// guard it with their own lock.
type Store struct {
	tasks    []service.Task
	index    map[string]int // id -> position in tasks
	children map[string]int // parent id -> number of direct children
}

// New returns an empty store.
func New() *Store {
	return &Store{
		index:    make(map[string]int),
		children: make(map[string]int),
	}
}

// Load replaces the whole collection and rebuilds both indexes in one pass.
func (s *Store) Load(tasks []service.Task) {
	s.tasks = make([]service.Task, len(tasks))
	copy(s.tasks, tasks)
	s.index = make(map[string]int, len(tasks))
	s.children = make(map[string]int)
	for i, t := range s.tasks {
		s.index[t.ID] = i
		if t.HasParent() {
			s.children[t.ParentID]++
		}
	}
}

// Append adds a task at the end. A task whose id is already present is
// replaced in place so ids stay unique when a result is delivered twice.
func (s *Store) Append(t service.Task) {
	if _, ok := s.index[t.ID]; ok {
		s.Replace(t)
		return
	}
	s.index[t.ID] = len(s.tasks)
	s.tasks = append(s.tasks, t)
	if t.HasParent() {
		s.children[t.ParentID]++
	}
}

// Replace overwrites the record with the same id, keeping its position.
func (s *Store) Replace(t service.Task) error {
	i, ok := s.index[t.ID]
	if !ok {
		return ErrNotFound
	}
	old := s.tasks[i]
	if old.ParentID != t.ParentID {
		s.decrement(old.ParentID)
		if t.HasParent() {
			s.children[t.ParentID]++
		}
	}
	s.tasks[i] = t
	return nil
}

// UpdateFields writes the editable fields of a task in place.
// An empty dueString clears the due date. A changed dueString keeps the old
// date until the server confirms the new one.
func (s *Store) UpdateFields(id, content, description, dueString string) error {
	i, ok := s.index[id]
	if !ok {
		return ErrNotFound
	}
	t := &s.tasks[i]
	t.Content = content
	t.Description = description
	switch {
	case dueString == "":
		t.Due = nil
	case t.Due == nil:
		t.Due = &service.Due{String: dueString}
	case t.Due.String != dueString:
		due := *t.Due
		due.String = dueString
		t.Due = &due
	}
	return nil
}

// Remove deletes a task and decrements its parent's child count.
// Children of the removed task are left in place.
func (s *Store) Remove(id string) error {
	i, ok := s.index[id]
	if !ok {
		return ErrNotFound
	}
	parent := s.tasks[i].ParentID
	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	delete(s.index, id)
	for j := i; j < len(s.tasks); j++ {
		s.index[s.tasks[j].ID] = j
	}
	s.decrement(parent)
	return nil
}

func (s *Store) decrement(parent string) {
	if parent == "" {
		return
	}
	if n := s.children[parent] - 1; n > 0 {
		s.children[parent] = n
	} else {
		delete(s.children, parent)
	}
}

// ChildCount returns the number of direct children of id, 0 if none.
func (s *Store) ChildCount(id string) int {
	return s.children[id]
}

// ChildIDs scans the store for direct children of id, in store order.
func (s *Store) ChildIDs(id string) []string {
	var ids []string
	if s.children[id] == 0 {
		return ids
	}
	for _, t := range s.tasks {
		if t.ParentID == id {
			ids = append(ids, t.ID)
		}
	}
	return ids
}

// Len returns the number of tasks.
func (s *Store) Len() int {
	return len(s.tasks)
}

// At returns the task at position i.
func (s *Store) At(i int) (service.Task, bool) {
	if i < 0 || i >= len(s.tasks) {
		return service.Task{}, false
	}
	return s.tasks[i], true
}

// IndexOf returns the position of id.
func (s *Store) IndexOf(id string) (int, bool) {
	i, ok := s.index[id]
	return i, ok
}

// Get returns the task with the given id.
func (s *Store) Get(id string) (service.Task, bool) {
	i, ok := s.index[id]
	if !ok {
		return service.Task{}, false
	}
	return s.tasks[i], true
}

// Tasks returns a copy of the tasks in insertion order.
func (s *Store) Tasks() []service.Task {
	return slices.Clone(s.tasks)
}
