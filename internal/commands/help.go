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
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string      { return "help" }
func (c *HelpCmd) Aliases() []string { return nil }
func (c *HelpCmd) Synopsis() string  { return "Print usage" }
func (c *HelpCmd) Usage() string     { return "tdui help" }
func (c *HelpCmd) NeedsAuth() bool   { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	fmt.Fprint(out, helpText)
	return exitcode.Success
}

const helpText = `Usage:
  tdui                                   Open the interactive task manager
  tdui ui [common flags]
  tdui list [common flags] [--today|--overdue|--project <name>] [--sort priority]
  tdui projects [common flags]
  tdui add [common flags] [--project <name>|--parent <ref>] [--due <when>]
           [--description <text>] [--priority 1-4] [--labels a,b] <content...>
  tdui done [common flags] [view flags] <ref>
  tdui rm [common flags] [view flags] <ref>
  tdui login [common flags] [--token <api-token>]
  tdui logout [common flags]
  tdui help
  tdui version

References:
  N     the N-th task printed by list (with the same view flags)
  N.M   the M-th sub-task of task N

Common flags:
  --config <dir>      Override config directory
  --backend <name>    todoist (default) or googletasks; also TDUI_BACKEND
  --quiet             Suppress informational output
  --debug             Print debug logs (to <config>/debug.log in the UI)
`
