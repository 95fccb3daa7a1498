package tui

import (
	"context"
	"errors"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"tdui/internal/app"
	"tdui/internal/reconcile"
	"tdui/internal/service"
)

// Run starts the interactive program and blocks until the user quits.
// Mutations still in flight at exit are abandoned.
func Run(ctx context.Context, svc service.Service, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	applyColorProfile()

	box := reconcile.NewMailbox()
	d := reconcile.NewDispatcher(svc, box, logger)
	a := app.New(d, box, app.WithLogger(logger))

	p := tea.NewProgram(New(ctx, a, svc, logger), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}
