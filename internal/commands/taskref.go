package commands

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// TaskRef is a parsed task reference: the N-th task of the displayed list,
// or the M-th child of it when Child > 0.
type TaskRef struct {
	Num   int // 1-based position in the displayed list
	Child int // 1-based position among the task's children, 0 for the task itself
}

// String formats the reference the way list prints it.
func (r TaskRef) String() string {
	if r.Child > 0 {
		return fmt.Sprintf("%d.%d", r.Num, r.Child)
	}
	return strconv.Itoa(r.Num)
}

// ErrTaskRefRequired indicates no task reference was provided.
var ErrTaskRefRequired = errors.New("task reference required")

// ParseTaskRef parses the first argument as a task reference.
//
// Accepted forms:
//   - N    (e.g. 3)   the N-th task as printed by list
//   - N.M  (e.g. 3.2) the M-th sub-task of task N
func ParseTaskRef(args []string) (TaskRef, error) {
	if len(args) == 0 {
		return TaskRef{}, ErrTaskRefRequired
	}
	raw := args[0]

	head, tail, hasChild := strings.Cut(raw, ".")
	if !isAllDigits(head) || (hasChild && !isAllDigits(tail)) {
		return TaskRef{}, fmt.Errorf("invalid task reference: %s", raw)
	}

	num, err := strconv.Atoi(head)
	if err != nil {
		return TaskRef{}, fmt.Errorf("invalid task reference: %s", raw)
	}
	ref := TaskRef{Num: num}
	if hasChild {
		if ref.Child, err = strconv.Atoi(tail); err != nil {
			return TaskRef{}, fmt.Errorf("invalid task reference: %s", raw)
		}
	}

	if ref.Num < 1 || (hasChild && ref.Child < 1) {
		return TaskRef{}, fmt.Errorf("task number out of range: %s", raw)
	}
	return ref, nil
}

// isAllDigits returns true if s consists only of ASCII digits and is non-empty.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r > unicode.MaxASCII || !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
