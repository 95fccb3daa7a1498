package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"tdui/internal/config"
	"tdui/internal/exitcode"
	"tdui/internal/output"
	"tdui/internal/reconcile"
	"tdui/internal/service"
	"tdui/internal/session"
	"tdui/internal/store"
)

func init() {
	Register(&AddCmd{})
}

// AddCmd implements the add command.
type AddCmd struct {
	project     string
	parent      string
	due         string
	description string
	labels      string
	priority    int
}

// SetOptions sets the flag values (for testing).
func (c *AddCmd) SetOptions(project, parent, due, description string, priority int) {
	c.project = project
	c.parent = parent
	c.due = due
	c.description = description
	c.priority = priority
}

func (c *AddCmd) Name() string      { return "add" }
func (c *AddCmd) Aliases() []string { return []string{"create"} }
func (c *AddCmd) Synopsis() string  { return "Create a task" }
func (c *AddCmd) Usage() string {
	return "tdui add [--project <name>|--parent <ref>] [--due <when>] [--description <text>] [--priority 1-4] [--labels a,b] <content...>"
}
func (c *AddCmd) NeedsAuth() bool { return true }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.project, "project", "", "")
	fs.StringVar(&c.project, "p", "", "")
	fs.StringVar(&c.parent, "parent", "", "")
	fs.StringVar(&c.due, "due", "", "")
	fs.StringVar(&c.description, "description", "", "")
	fs.StringVar(&c.description, "d", "", "")
	fs.StringVar(&c.labels, "labels", "", "")
	fs.IntVar(&c.priority, "priority", 0, "")
}

func (c *AddCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	content := strings.TrimSpace(strings.Join(args, " "))
	if content == "" {
		fmt.Fprintln(errOut, "error: title required")
		return exitcode.UserError
	}
	if c.project != "" && c.parent != "" {
		fmt.Fprintln(errOut, "error: cannot use both --project and --parent")
		return exitcode.UserError
	}
	if c.priority < 0 || c.priority > 4 {
		fmt.Fprintf(errOut, "error: invalid priority: %d (want 1-4)\n", c.priority)
		return exitcode.UserError
	}

	st := store.New()
	projectID, parentID, err := c.target(ctx, svc, st)
	if err != nil {
		return fail(errOut, err)
	}

	draft := session.NewDraft(projectID, parentID)
	draft.SetText(session.EditingContent, content)
	draft.SetText(session.EditingDescription, c.description)
	draft.SetText(session.EditingDueString, c.due)
	draft.SetMeta(splitLabels(c.labels), apiPriority(c.priority))

	req, err := draft.Draft()
	if err != nil {
		return fail(errOut, err)
	}

	// The same path the interactive editor takes: submit, then merge the
	// result from the mailbox.
	box := reconcile.NewMailbox()
	d := reconcile.NewDispatcher(svc, box, slog.Default())
	d.Create(req)
	d.Wait()

	r, ok := box.TryReceive()
	if !ok {
		return fail(errOut, errors.New("no result from backend"))
	}
	if err := reconcile.Apply(st, r); err != nil {
		return fail(errOut, err)
	}

	if !cfg.Quiet {
		t, _ := st.Get(r.Task.ID)
		fmt.Fprintf(out, "created: %s\n", output.TaskLine(t, t.HasParent()))
	}
	return exitcode.Success
}

// target picks the project and parent for the new task. st receives the
// loaded tasks when a parent reference has to be resolved.
func (c *AddCmd) target(ctx context.Context, svc service.Service, st *store.Store) (projectID, parentID string, err error) {
	switch {
	case c.parent != "":
		ref, err := ParseTaskRef([]string{c.parent})
		if err != nil {
			return "", "", userErrorf("%v", err)
		}
		v, err := loadView(ctx, svc, &viewFlags{})
		if err != nil {
			return "", "", err
		}
		parent, err := v.lookup(ref)
		if err != nil {
			return "", "", err
		}
		st.Load(v.store.Tasks())
		return parent.ProjectID, parent.ID, nil

	case c.project != "":
		p, err := svc.ResolveProject(ctx, c.project)
		if err != nil {
			return "", "", classifyResolveError(err, c.project)
		}
		return p.ID, "", nil
	}

	projects, err := svc.ListProjects(ctx)
	if err != nil {
		return "", "", err
	}
	for _, p := range projects {
		if p.IsInboxProject {
			return p.ID, "", nil
		}
	}
	if len(projects) > 0 {
		return projects[0].ID, "", nil
	}
	return "", "", nil
}

// apiPriority converts a P1..P4 level to the API's 4..1 scale. 0 leaves the
// backend default.
func apiPriority(level int) int {
	if level == 0 {
		return 0
	}
	return 5 - level
}

func splitLabels(s string) []string {
	var labels []string
	for _, l := range strings.Split(s, ",") {
		if l = strings.TrimSpace(l); l != "" {
			labels = append(labels, l)
		}
	}
	return labels
}
