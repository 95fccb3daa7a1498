package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"tdui/internal/config"
	"tdui/internal/exitcode"
	"tdui/internal/output"
	"tdui/internal/service"
)

func init() {
	Register(&ListCmd{})
}

// ListCmd implements the list command.
type ListCmd struct {
	view viewFlags
}

// SetView sets the filter flags (for testing).
func (c *ListCmd) SetView(today, overdue bool, project, sort string) {
	c.view = viewFlags{today: today, overdue: overdue, project: project, sort: sort}
}

func (c *ListCmd) Name() string      { return "list" }
func (c *ListCmd) Aliases() []string { return []string{"ls"} }
func (c *ListCmd) Synopsis() string  { return "List open tasks" }
func (c *ListCmd) Usage() string {
	return "tdui list [--today|--overdue|--project <name>] [--sort priority]"
}
func (c *ListCmd) NeedsAuth() bool { return true }

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {
	c.view.register(fs)
}

func (c *ListCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	v, err := loadView(ctx, svc, &c.view)
	if err != nil {
		return fail(errOut, err)
	}

	if len(v.ids) == 0 {
		if !cfg.Quiet {
			fmt.Fprintln(out, "no tasks found")
		}
		return exitcode.Success
	}

	output.FormatHeader(out, v.title)
	for i, id := range v.ids {
		t, _ := v.store.Get(id)
		output.FormatTask(out, i+1, t)
		for j, childID := range v.store.ChildIDs(id) {
			child, _ := v.store.Get(childID)
			output.FormatChild(out, i+1, j+1, child)
		}
	}
	return exitcode.Success
}
