package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"tdui/internal/config"
	"tdui/internal/exitcode"
	"tdui/internal/service"
	"tdui/internal/tui"
)

func init() {
	Register(&UICmd{})
}

// UICmd implements the ui command, the default when no command is given.
type UICmd struct{}

func (c *UICmd) Name() string      { return "ui" }
func (c *UICmd) Aliases() []string { return nil }
func (c *UICmd) Synopsis() string  { return "Open the interactive task manager" }
func (c *UICmd) Usage() string     { return "tdui ui [common flags]" }
func (c *UICmd) NeedsAuth() bool   { return true }

func (c *UICmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *UICmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	logger := slog.New(slog.DiscardHandler)
	if cfg.Debug {
		// The terminal belongs to the UI, so debug output goes to a file.
		if err := cfg.EnsureDir(); err != nil {
			fmt.Fprintf(errOut, "error: failed to create config directory: %v\n", err)
			return exitcode.UserError
		}
		f, err := os.OpenFile(cfg.DebugLogPath(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			fmt.Fprintf(errOut, "error: failed to open debug log: %v\n", err)
			return exitcode.UserError
		}
		defer f.Close()
		logger = slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	logger.Debug("starting ui", "backend", cfg.Backend)
	if err := tui.Run(ctx, svc, logger); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.BackendError
	}
	return exitcode.Success
}
