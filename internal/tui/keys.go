package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"tdui/internal/app"
	"tdui/internal/session"
)

// keyMap holds every binding. Browse bindings apply to the lists; editor
// bindings apply while an edit session is open.
type keyMap struct {
	Down     key.Binding
	Up       key.Binding
	Switch   key.Binding
	Open     key.Binding
	New      key.Binding
	Close    key.Binding
	Delete   key.Binding
	All      key.Binding
	Today    key.Binding
	Overdue  key.Binding
	Priority key.Binding
	Reload   key.Binding
	Help     key.Binding
	Quit     key.Binding

	NextField key.Binding
	Commit    key.Binding
	Save      key.Binding
	Cancel    key.Binding
	Subtask   key.Binding
	ChildNew  key.Binding

	Dismiss key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Down:     key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "down")),
		Up:       key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "up")),
		Switch:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch pane")),
		Open:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		New:      key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new task")),
		Close:    key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "complete")),
		Delete:   key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		All:      key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "all")),
		Today:    key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "today")),
		Overdue:  key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "overdue")),
		Priority: key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "sort by priority")),
		Reload:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Help:     key.NewBinding(key.WithKeys("h", "?"), key.WithHelp("h", "help")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),

		NextField: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
		Commit:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "save")),
		Save:      key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
		Cancel:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Subtask:   key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("ctrl+n", "new subtask")),
		ChildNew:  key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new subtask")),

		Dismiss: key.NewBinding(key.WithKeys("esc", "enter"), key.WithHelp("esc", "dismiss")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Open, k.New, k.Close, k.Today, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Down, k.Up, k.Switch, k.Open, k.Reload},
		{k.New, k.Close, k.Delete, k.Priority},
		{k.All, k.Today, k.Overdue, k.Help, k.Quit},
		{k.NextField, k.Save, k.Cancel, k.Subtask},
	}
}

// editorHelp is the short help shown under the editor.
func (k keyMap) editorHelp(field session.Field) []key.Binding {
	if field == session.BrowsingChildren {
		return []key.Binding{k.Down, k.Up, k.Open, k.ChildNew, k.NextField, k.Cancel}
	}
	return []key.Binding{k.NextField, k.Save, k.Subtask, k.Cancel}
}

// browseIntent maps a key outside the editor. ok is false for keys that
// carry no intent.
func (k keyMap) browseIntent(msg tea.KeyMsg) (app.Intent, bool) {
	switch {
	case key.Matches(msg, k.Down):
		return app.SelectNext, true
	case key.Matches(msg, k.Up):
		return app.SelectPrevious, true
	case key.Matches(msg, k.Switch):
		return app.SwitchFocus, true
	case key.Matches(msg, k.Open):
		return app.OpenSelected, true
	case key.Matches(msg, k.New):
		return app.NewTask, true
	case key.Matches(msg, k.Close):
		return app.CloseTask, true
	case key.Matches(msg, k.Delete):
		return app.DeleteTask, true
	case key.Matches(msg, k.All):
		return app.FilterAll, true
	case key.Matches(msg, k.Today):
		return app.FilterToday, true
	case key.Matches(msg, k.Overdue):
		return app.FilterOverdue, true
	case key.Matches(msg, k.Priority):
		return app.TogglePrioritySort, true
	case key.Matches(msg, k.Help):
		return app.ToggleHelp, true
	}
	return 0, false
}

// editorIntent maps a key inside the editor. ok is false when the key is
// text for the focused field.
func (k keyMap) editorIntent(msg tea.KeyMsg, field session.Field) (app.Intent, bool) {
	switch {
	case key.Matches(msg, k.Cancel):
		return app.CancelEdit, true
	case key.Matches(msg, k.NextField):
		return app.NextField, true
	case key.Matches(msg, k.Save):
		return app.CommitEdit, true
	case key.Matches(msg, k.Subtask):
		return app.NewSubtask, true
	}

	switch field {
	case session.BrowsingChildren:
		switch {
		case key.Matches(msg, k.Down):
			return app.SelectNext, true
		case key.Matches(msg, k.Up):
			return app.SelectPrevious, true
		case key.Matches(msg, k.Open):
			return app.OpenChild, true
		case key.Matches(msg, k.ChildNew):
			return app.NewSubtask, true
		}
		return 0, false
	case session.EditingDescription:
		// enter is a newline here.
		return 0, false
	}

	if key.Matches(msg, k.Commit) {
		return app.CommitEdit, true
	}
	return 0, false
}
