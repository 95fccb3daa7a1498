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

// Version is the tdui release, overridden with
// -ldflags "-X tdui/internal/commands.Version=...".
var Version = "0.1.0"

func init() {
	Register(&VersionCmd{})
}

// VersionCmd prints the release. It needs no backend or login.
type VersionCmd struct{}

func (c *VersionCmd) Name() string      { return "version" }
func (c *VersionCmd) Aliases() []string { return nil }
func (c *VersionCmd) Synopsis() string  { return "Print the tdui version" }
func (c *VersionCmd) Usage() string     { return "tdui version" }
func (c *VersionCmd) NeedsAuth() bool   { return false }

func (c *VersionCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *VersionCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	fmt.Fprintf(out, "tdui %s\n", Version)
	return exitcode.Success
}
