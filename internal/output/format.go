// Package output provides formatters for task lines shared by the CLI and
// the TUI.
package output

import (
	"fmt"
	"io"
	"strings"

	"tdui/internal/service"
)

const (
	// ListSeparator is the separator line for project sections.
	ListSeparator = "------------"

	dueDayLayout  = "02 Jan, 2006"
	dueTimeLayout = "15:04"
)

// TaskLine renders one task: completion box, child marker, content, due
// text and priority label.
//
//	[ ] ⤷ Buy milk (due: 10 Jun, 2024 at 09:30) - P1
func TaskLine(task service.Task, child bool) string {
	var b strings.Builder
	if task.IsCompleted {
		b.WriteString("[✓] ")
	} else {
		b.WriteString("[ ] ")
	}
	if child {
		b.WriteString("⤷ ")
	}
	b.WriteString(normalizeTitle(task.Content))
	if due := DueText(task.Due); due != "" {
		b.WriteString(" (due: ")
		b.WriteString(due)
		b.WriteString(")")
	}
	b.WriteString(" - ")
	b.WriteString(PriorityLabel(task.Priority))
	return b.String()
}

// PriorityLabel maps API priority (4 = urgent) to the label users see
// (P1 = urgent).
func PriorityLabel(priority int) string {
	if priority < 1 || priority > 4 {
		priority = 1
	}
	return fmt.Sprintf("P%d", 5-priority)
}

// DueText formats a due date for display, or "" when there is none.
func DueText(d *service.Due) string {
	if t, ok := d.Time(); ok {
		return t.Local().Format(dueDayLayout) + " at " + t.Local().Format(dueTimeLayout)
	}
	if day, ok := d.Day(); ok {
		return day.Format(dueDayLayout)
	}
	if d != nil {
		return d.String
	}
	return ""
}

// FormatTask formats a numbered top-level task line.
// Format: "{N:>4}  {LINE}\n"
func FormatTask(w io.Writer, num int, task service.Task) {
	fmt.Fprintf(w, "%4d  %s\n", num, TaskLine(task, false))
}

// FormatChild formats a sub-task line under its parent, numbered N.M.
func FormatChild(w io.Writer, num, childNum int, task service.Task) {
	ref := fmt.Sprintf("%d.%d", num, childNum)
	fmt.Fprintf(w, "    %6s  %s\n", ref, TaskLine(task, true))
}

// FormatHeader formats a section header.
func FormatHeader(w io.Writer, title string) {
	fmt.Fprintln(w, ListSeparator)
	fmt.Fprintln(w, normalizeListTitle(title))
	fmt.Fprintln(w, ListSeparator)
}

// FormatProjectName formats a project name for the projects command.
func FormatProjectName(w io.Writer, project service.Project) {
	fmt.Fprintln(w, ProjectLabel(project))
}

// ProjectLabel is a project name with an [inbox] marker.
func ProjectLabel(project service.Project) string {
	name := normalizeListTitle(project.Name)
	if project.IsInboxProject {
		name += " [inbox]"
	}
	return name
}

// normalizeTitle normalizes a task title for display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	title = strings.ReplaceAll(title, "\r", " ")
	title = strings.ReplaceAll(title, "\n", " ")

	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}

// normalizeListTitle normalizes a project name for display.
func normalizeListTitle(title string) string {
	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}
