package commands

import (
	"context"
	"flag"
	"io"

	"tdui/internal/config"
	"tdui/internal/exitcode"
	"tdui/internal/output"
	"tdui/internal/service"
)

func init() {
	Register(&ProjectsCmd{})
}

// ProjectsCmd implements the projects command.
type ProjectsCmd struct{}

func (c *ProjectsCmd) Name() string      { return "projects" }
func (c *ProjectsCmd) Aliases() []string { return []string{"lists"} }
func (c *ProjectsCmd) Synopsis() string  { return "Print all projects" }
func (c *ProjectsCmd) Usage() string     { return "tdui projects [common flags]" }
func (c *ProjectsCmd) NeedsAuth() bool   { return true }

func (c *ProjectsCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ProjectsCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	projects, err := svc.ListProjects(ctx)
	if err != nil {
		return fail(errOut, err)
	}

	for _, p := range projects {
		output.FormatProjectName(out, p)
	}
	return exitcode.Success
}
