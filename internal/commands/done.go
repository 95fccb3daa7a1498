package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"tdui/internal/config"
	"tdui/internal/exitcode"
	"tdui/internal/service"
)

func init() {
	Register(&DoneCmd{})
}

// DoneCmd implements the done command.
type DoneCmd struct {
	view viewFlags
}

// SetView sets the filter flags (for testing).
func (c *DoneCmd) SetView(today, overdue bool, project, sort string) {
	c.view = viewFlags{today: today, overdue: overdue, project: project, sort: sort}
}

func (c *DoneCmd) Name() string      { return "done" }
func (c *DoneCmd) Aliases() []string { return []string{"close"} }
func (c *DoneCmd) Synopsis() string  { return "Mark a task completed" }
func (c *DoneCmd) Usage() string {
	return "tdui done [--today|--overdue|--project <name>] [--sort priority] <ref>"
}
func (c *DoneCmd) NeedsAuth() bool { return true }

func (c *DoneCmd) RegisterFlags(fs *flag.FlagSet) {
	c.view.register(fs)
}

func (c *DoneCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	return runOnRef(ctx, cfg, svc, &c.view, args, out, errOut, svc.CloseTask)
}

// runOnRef resolves a task reference against the view and applies op to
// the task it names.
func runOnRef(ctx context.Context, cfg *config.Config, svc service.Service, view *viewFlags, args []string, out, errOut io.Writer, op func(context.Context, string) error) int {
	ref, err := ParseTaskRef(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	v, err := loadView(ctx, svc, view)
	if err != nil {
		return fail(errOut, err)
	}
	task, err := v.lookup(ref)
	if err != nil {
		return fail(errOut, err)
	}

	if err := op(ctx, task.ID); err != nil {
		return fail(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
