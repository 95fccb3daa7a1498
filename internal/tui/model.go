// Package tui is the interactive front end: a bubbletea program that turns
// keys into app intents and renders app snapshots.
package tui

import (
	"context"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"tdui/internal/app"
	"tdui/internal/service"
	"tdui/internal/session"
)

// pollInterval paces the mailbox drain.
const pollInterval = 16 * time.Millisecond

type (
	pollMsg   struct{}
	loadedMsg struct {
		projects []service.Project
		tasks    []service.Task
	}
	loadFailedMsg struct{ err error }
)

// Model is the bubbletea model. All task state lives in the App; the model
// only keeps terminal concerns.
type Model struct {
	ctx    context.Context
	app    *app.App
	svc    service.Service
	logger *slog.Logger

	keys keyMap
	help help.Model

	// One text buffer per editable field, indexed by session.Field.
	fields  [3]textarea.Model
	editSeq int
	field   session.Field

	width, height int
	loading       bool
	loadErr       string
}

// New returns a model over a. svc is used only for loading.
func New(ctx context.Context, a *app.App, svc service.Service, logger *slog.Logger) Model {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	m := Model{
		ctx:     ctx,
		app:     a,
		svc:     svc,
		logger:  logger,
		keys:    defaultKeyMap(),
		help:    help.New(),
		width:   80,
		height:  24,
		loading: true,
	}
	for i := range m.fields {
		ta := textarea.New()
		ta.ShowLineNumbers = false
		ta.Prompt = ""
		ta.SetHeight(1)
		// Single-line fields commit on enter.
		ta.KeyMap.InsertNewline.SetEnabled(false)
		m.fields[i] = ta
	}
	m.fields[session.EditingContent].Placeholder = "Task name"
	m.fields[session.EditingDueString].Placeholder = "e.g. tomorrow 9am"
	desc := &m.fields[session.EditingDescription]
	desc.Placeholder = "Description (markdown)"
	desc.SetHeight(5)
	desc.KeyMap.InsertNewline.SetEnabled(true)
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.load(), poll())
}

func poll() tea.Cmd {
	return tea.Tick(pollInterval, func(time.Time) tea.Msg { return pollMsg{} })
}

// load fetches projects and tasks off the event loop.
func (m Model) load() tea.Cmd {
	ctx, svc := m.ctx, m.svc
	return func() tea.Msg {
		projects, err := svc.ListProjects(ctx)
		if err != nil {
			return loadFailedMsg{err: err}
		}
		tasks, err := svc.ListTasks(ctx)
		if err != nil {
			return loadFailedMsg{err: err}
		}
		return loadedMsg{projects: projects, tasks: tasks}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		w := m.editorWidth()
		for i := range m.fields {
			m.fields[i].SetWidth(w)
		}
		return m, nil

	case pollMsg:
		if n := m.app.Poll(); n > 0 {
			m.logger.Debug("applied results", "count", n)
			m.sync()
		}
		return m, poll()

	case loadedMsg:
		m.loading = false
		m.loadErr = ""
		m.app.Load(msg.projects, msg.tasks)
		m.sync()
		return m, nil

	case loadFailedMsg:
		m.loading = false
		m.loadErr = msg.err.Error()
		m.logger.Warn("load failed", "err", msg.err)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	snap := m.app.Snapshot()

	// The error modal swallows everything but dismissal.
	if snap.Err != "" {
		if key.Matches(msg, m.keys.Dismiss) {
			m.app.Handle(app.DismissError)
		}
		return m, nil
	}

	if snap.Editor != nil {
		if in, ok := m.keys.editorIntent(msg, snap.Editor.Field); ok {
			m.app.Handle(in)
			m.sync()
			return m, nil
		}
		return m.typeInto(snap.Editor.Field, msg)
	}

	if snap.ShowHelp {
		if key.Matches(msg, m.keys.Help) || key.Matches(msg, m.keys.Cancel) {
			m.app.Handle(app.ToggleHelp)
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Reload):
		m.loading = true
		return m, m.load()
	}

	if in, ok := m.keys.browseIntent(msg); ok {
		m.app.Handle(in)
		m.sync()
	}
	return m, nil
}

// typeInto forwards a key to the focused text field and copies the result
// into the session.
func (m Model) typeInto(f session.Field, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if f == session.BrowsingChildren {
		return m, nil
	}
	var cmd tea.Cmd
	m.fields[f], cmd = m.fields[f].Update(msg)
	m.app.SetText(f, m.fields[f].Value())
	return m, cmd
}

// sync reloads the text fields when a different session opened and moves
// focus to the active field.
func (m *Model) sync() {
	ed := m.app.Snapshot().Editor
	if ed == nil {
		for i := range m.fields {
			m.fields[i].Blur()
		}
		return
	}
	if ed.Seq != m.editSeq {
		m.editSeq = ed.Seq
		m.fields[session.EditingContent].SetValue(ed.Content)
		m.fields[session.EditingDescription].SetValue(ed.Description)
		m.fields[session.EditingDueString].SetValue(ed.DueString)
	}
	m.field = ed.Field
	for i := range m.fields {
		if session.Field(i) == ed.Field {
			m.fields[i].Focus()
		} else {
			m.fields[i].Blur()
		}
	}
}

func (m Model) editorWidth() int {
	w := m.width - m.width/4 - 8
	if w < 20 {
		w = 20
	}
	return w
}
