package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"tdui/internal/config"
	"tdui/internal/exitcode"
	"tdui/internal/service"
)

func init() {
	Register(&LogoutCmd{})
}

// LogoutCmd deletes token.json for the selected backend. The Google OAuth
// client file stays, and a Todoist token taken from TODOIST_API_TOKEN is the
// shell's to unset.
type LogoutCmd struct{}

func (c *LogoutCmd) Name() string      { return "logout" }
func (c *LogoutCmd) Aliases() []string { return nil }
func (c *LogoutCmd) Synopsis() string  { return "Forget the saved backend token" }
func (c *LogoutCmd) Usage() string     { return "tdui logout [common flags]" }
func (c *LogoutCmd) NeedsAuth() bool   { return false }

func (c *LogoutCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *LogoutCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	_, statErr := os.Stat(cfg.TokenPath())
	saved := statErr == nil

	if saved {
		if err := cfg.RemoveToken(); err != nil {
			fmt.Fprintf(errOut, "error: failed to remove token: %v\n", err)
			return exitcode.AuthError
		}
	}

	if !cfg.Quiet {
		if saved {
			fmt.Fprintln(out, "ok")
		} else {
			fmt.Fprintln(out, "not logged in")
		}
	}
	if cfg.Backend == config.BackendTodoist && os.Getenv(config.TodoistTokenEnv) != "" {
		fmt.Fprintf(errOut, "note: %s is still set; unset it to sign out\n", config.TodoistTokenEnv)
	}
	return exitcode.Success
}
