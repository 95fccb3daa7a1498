package commands

import (
	"context"
	"flag"
	"io"

	"tdui/internal/config"
	"tdui/internal/service"
)

func init() {
	Register(&RmCmd{})
}

// RmCmd implements the rm command.
type RmCmd struct {
	view viewFlags
}

// SetView sets the filter flags (for testing).
func (c *RmCmd) SetView(today, overdue bool, project, sort string) {
	c.view = viewFlags{today: today, overdue: overdue, project: project, sort: sort}
}

func (c *RmCmd) Name() string      { return "rm" }
func (c *RmCmd) Aliases() []string { return []string{"delete"} }
func (c *RmCmd) Synopsis() string  { return "Delete a task" }
func (c *RmCmd) Usage() string {
	return "tdui rm [--today|--overdue|--project <name>] [--sort priority] <ref>"
}
func (c *RmCmd) NeedsAuth() bool { return true }

func (c *RmCmd) RegisterFlags(fs *flag.FlagSet) {
	c.view.register(fs)
}

func (c *RmCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	return runOnRef(ctx, cfg, svc, &c.view, args, out, errOut, svc.DeleteTask)
}
