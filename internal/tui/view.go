package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"

	"tdui/internal/app"
	"tdui/internal/display"
	"tdui/internal/output"
	"tdui/internal/session"
)

func (m Model) View() string {
	snap := m.app.Snapshot()

	switch {
	case snap.Err != "":
		return m.place(m.errorView(snap.Err))
	case snap.ShowHelp && snap.Editor == nil:
		return m.place(m.helpView())
	}

	bodyHeight := m.height - 2
	if bodyHeight < 5 {
		bodyHeight = 5
	}
	leftWidth := m.width / 4
	rightWidth := m.width - leftWidth

	left := m.projectsPane(snap, leftWidth, bodyHeight)
	var right string
	if snap.Editor != nil {
		right = m.editorPane(snap.Editor, rightWidth, bodyHeight)
	} else {
		right = m.tasksPane(snap, rightWidth, bodyHeight)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.header(snap),
		lipgloss.JoinHorizontal(lipgloss.Top, left, right),
		m.statusLine(snap),
	)
}

func (m Model) place(s string) string {
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, s)
}

func (m Model) header(snap app.Snapshot) string {
	title := snap.Filter.Title()
	if snap.Filter.Kind == display.KindProject {
		for _, p := range snap.Projects {
			if p.ID == snap.Filter.ProjectID {
				title = p.Name
			}
		}
	}
	h := titleStyle.Render("tdui") + dimStyle.Render(" · "+title)
	if snap.ByPriority {
		h += dimStyle.Render(" · by priority")
	}
	return h
}

// pane draws a bordered box whose outer size is width x height.
func pane(content string, width, height int, focused bool) string {
	style := paneStyle
	if focused {
		style = focusedPaneStyle
	}
	return style.
		Width(max(width-2, 1)).
		Height(max(height-2, 1)).
		MaxHeight(height).
		Render(content)
}

func (m Model) projectsPane(snap app.Snapshot, width, height int) string {
	inner := max(width-4, 1)
	var b strings.Builder
	b.WriteString(titleStyle.Render("Projects"))
	for i, p := range snap.Projects {
		b.WriteString("\n")
		line := truncate(output.ProjectLabel(p), inner)
		if i == snap.SelectedProject {
			line = selectedStyle.Render(line)
		}
		b.WriteString(line)
	}
	return pane(b.String(), width, height, snap.Focus == app.FocusProjects)
}

func (m Model) tasksPane(snap app.Snapshot, width, height int) string {
	inner := max(width-4, 1)
	var b strings.Builder
	b.WriteString(titleStyle.Render("Tasks"))

	switch {
	case m.loading && len(snap.Tasks) == 0:
		b.WriteString("\n" + dimStyle.Render("Loading…"))
	case len(snap.Tasks) == 0:
		b.WriteString("\n" + dimStyle.Render("Nothing here. Press n to add a task."))
	}

	for i, row := range snap.Tasks {
		line := output.TaskLine(row.Task, false)
		if row.Children > 0 {
			line += fmt.Sprintf(" [+%d]", row.Children)
		}
		line = truncate(line, inner)
		switch {
		case i == snap.SelectedTask:
			line = selectedStyle.Render(line)
		default:
			if c, ok := priorityColors[row.Task.Priority]; ok {
				line = lipgloss.NewStyle().Foreground(c).Render(line)
			}
		}
		b.WriteString("\n" + line)
	}
	return pane(b.String(), width, height, snap.Focus == app.FocusTasks)
}

func (m Model) editorPane(ed *app.Editor, width, height int) string {
	inner := max(width-4, 1)
	var b strings.Builder

	switch {
	case ed.Mode == session.ModeEdit:
		b.WriteString(titleStyle.Render("Edit task"))
	case ed.ParentContent != "":
		b.WriteString(titleStyle.Render("New subtask of " + truncate(ed.ParentContent, inner-16)))
	default:
		b.WriteString(titleStyle.Render("New task") + dimStyle.Render(" · "+ed.ProjectName))
	}
	b.WriteString("\n\n")

	label := func(f session.Field, text string) string {
		if ed.Field == f {
			return activeLabelStyle.Render("› " + text)
		}
		return labelStyle.Render("  " + text)
	}

	b.WriteString(label(session.EditingContent, "Name") + "\n")
	b.WriteString(m.fields[session.EditingContent].View() + "\n\n")

	b.WriteString(label(session.EditingDescription, "Description") + "\n")
	if ed.Field != session.EditingDescription && strings.TrimSpace(ed.Description) != "" {
		b.WriteString(renderMarkdown(ed.Description, inner))
	} else {
		b.WriteString(m.fields[session.EditingDescription].View())
	}
	b.WriteString("\n\n")

	b.WriteString(label(session.EditingDueString, "Due") + "\n")
	b.WriteString(m.fields[session.EditingDueString].View() + "\n")

	if ed.Mode == session.ModeEdit {
		b.WriteString("\n" + label(session.BrowsingChildren, fmt.Sprintf("Subtasks (%d)", len(ed.Children))))
		for i, row := range ed.Children {
			line := truncate(output.TaskLine(row.Task, true), inner)
			if ed.Field == session.BrowsingChildren && i == ed.SelectedChild {
				line = selectedStyle.Render(line)
			}
			b.WriteString("\n" + line)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n" + m.help.ShortHelpView(m.keys.editorHelp(ed.Field)))
	return pane(b.String(), width, height, true)
}

func (m Model) statusLine(snap app.Snapshot) string {
	w := max(m.width-2, 1)
	var msg string
	switch {
	case m.loadErr != "":
		msg = errorTitleStyle.Render(truncate("Load failed: "+m.loadErr, w))
	case m.loading:
		msg = "Loading…"
	case snap.Status != "":
		msg = truncate(snap.Status, w)
	default:
		msg = m.help.ShortHelpView(m.keys.ShortHelp())
	}
	return statusStyle.Render(msg)
}

func (m Model) helpView() string {
	h := m.help
	h.ShowAll = true
	return popupStyle.Render(titleStyle.Render("Keys") + "\n\n" + h.View(m.keys))
}

func (m Model) errorView(msg string) string {
	body := errorTitleStyle.Render("Error") + "\n\n" +
		lipgloss.NewStyle().Width(min(60, max(m.width-10, 20))).Render(msg) + "\n\n" +
		dimStyle.Render("esc to dismiss")
	return errorPopupStyle.Render(body)
}

// truncate cuts s to width cells, marking the cut with an ellipsis.
func truncate(s string, width int) string {
	if width <= 0 || xansi.StringWidth(s) <= width {
		return s
	}
	return xansi.Truncate(s, width, "…")
}
