package commands_test

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"slices"
	"strings"
	"testing"
	"time"

	"tdui/internal/commands"
	"tdui/internal/config"
	"tdui/internal/exitcode"
	"tdui/internal/service"
	"tdui/internal/testutil"
)

var june10 = time.Date(2024, 6, 10, 12, 0, 0, 0, time.Local)

func fixedClock(t *testing.T) {
	t.Helper()
	commands.Now = func() time.Time { return june10 }
	t.Cleanup(func() { commands.Now = time.Now })
}

// runCommand is a helper to run a command with FakeService.
func runCommand(t *testing.T, cmd commands.Command, svc *testutil.FakeService, args []string, quiet bool) (stdout, stderr string, code int) {
	t.Helper()

	var outBuf, errBuf bytes.Buffer

	cfg := &config.Config{
		Dir:     t.TempDir(),
		Backend: config.BackendTodoist,
		Quiet:   quiet,
	}

	var s service.Service
	if svc != nil {
		s = svc
	}
	code = cmd.Run(context.Background(), cfg, s, args, &outBuf, &errBuf)
	return outBuf.String(), errBuf.String(), code
}

func newFlagSet(cmd commands.Command) *flag.FlagSet {
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	cmd.RegisterFlags(fs)
	return fs
}

// seeded returns a service holding:
//
//	a  Pay rent       inbox  P1  due 2024-06-10
//	a1 Find checkbook child of a
//	b  Write report   work   P3  due 2024-06-01
//	c  Someday        inbox  P2
func seeded(t *testing.T) *testutil.FakeService {
	t.Helper()
	fixedClock(t)

	svc := testutil.NewFakeService()
	svc.AddProject("work", "Work")
	svc.AddTask(service.Task{ID: "a", ProjectID: "inbox", Content: "Pay rent", Priority: 4, Due: &service.Due{Date: "2024-06-10"}})
	svc.AddTask(service.Task{ID: "a1", ProjectID: "inbox", ParentID: "a", Content: "Find checkbook", Priority: 1})
	svc.AddTask(service.Task{ID: "b", ProjectID: "work", Content: "Write report", Priority: 2, Due: &service.Due{Date: "2024-06-01"}})
	svc.AddTask(service.Task{ID: "c", ProjectID: "inbox", Content: "Someday", Priority: 3})
	return svc
}

func TestVersionCommand(t *testing.T) {
	stdout, stderr, code := runCommand(t, &commands.VersionCmd{}, nil, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "tdui 0.1.0\n" {
		t.Errorf("expected version output, got %q", stdout)
	}
}

func TestHelpCommand(t *testing.T) {
	stdout, stderr, code := runCommand(t, &commands.HelpCmd{}, nil, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	for _, want := range []string{"Usage:", "ui", "list", "projects", "add", "done", "rm", "login", "--backend"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("help output should contain %q", want)
		}
	}
}

func TestProjectsCommand(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddProject("work", "Work")
	svc.AddProject("blank", "  ")

	stdout, stderr, code := runCommand(t, &commands.ProjectsCmd{}, svc, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if want := "Inbox [inbox]\nWork\n(untitled)\n"; stdout != want {
		t.Errorf("expected %q, got %q", want, stdout)
	}
}

func TestProjectsCommand_BackendError(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.ListProjectsErr = errors.New("todoist unavailable (503)")

	_, stderr, code := runCommand(t, &commands.ProjectsCmd{}, svc, nil, false)

	if code != exitcode.BackendError {
		t.Errorf("expected exit code %d, got %d", exitcode.BackendError, code)
	}
	if want := "error: backend error: todoist unavailable (503)\n"; stderr != want {
		t.Errorf("expected %q, got %q", want, stderr)
	}
}

func TestListCommand_All(t *testing.T) {
	svc := seeded(t)

	stdout, stderr, code := runCommand(t, &commands.ListCmd{}, svc, nil, false)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}
	want := "------------\n" +
		"All\n" +
		"------------\n" +
		"   1  [ ] Pay rent (due: 10 Jun, 2024) - P1\n" +
		"       1.1  [ ] ⤷ Find checkbook - P4\n" +
		"   2  [ ] Write report (due: 01 Jun, 2024) - P3\n" +
		"   3  [ ] Someday - P2\n"
	if stdout != want {
		t.Errorf("unexpected listing:\ngot:\n%s\nwant:\n%s", stdout, want)
	}
}

func TestListCommand_Filters(t *testing.T) {
	tests := []struct {
		name    string
		today   bool
		overdue bool
		project string
		sort    string
		title   string
		order   []string
	}{
		{name: "today", today: true, title: "Today", order: []string{"Pay rent"}},
		{name: "overdue", overdue: true, title: "Overdue", order: []string{"Write report"}},
		{name: "project", project: "work", title: "Work", order: []string{"Write report"}},
		{name: "inbox", project: "Inbox", title: "Inbox", order: []string{"Pay rent", "Someday"}},
		{name: "priority", sort: "priority", title: "All", order: []string{"Pay rent", "Someday", "Write report"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := seeded(t)
			cmd := &commands.ListCmd{}
			cmd.SetView(tt.today, tt.overdue, tt.project, tt.sort)

			stdout, stderr, code := runCommand(t, cmd, svc, nil, false)
			if code != exitcode.Success {
				t.Fatalf("exit code %d, stderr %q", code, stderr)
			}

			lines := strings.Split(strings.TrimSuffix(stdout, "\n"), "\n")
			if lines[1] != tt.title {
				t.Errorf("expected title %q, got %q", tt.title, lines[1])
			}
			var got []string
			for _, l := range lines[3:] {
				if strings.Contains(l, "⤷") {
					continue
				}
				for _, name := range []string{"Pay rent", "Write report", "Someday"} {
					if strings.Contains(l, name) {
						got = append(got, name)
					}
				}
			}
			if !slices.Equal(got, tt.order) {
				t.Errorf("expected %v, got %v", tt.order, got)
			}
		})
	}
}

func TestListCommand_Empty(t *testing.T) {
	for _, quiet := range []bool{false, true} {
		svc := testutil.NewFakeService()

		stdout, stderr, code := runCommand(t, &commands.ListCmd{}, svc, nil, quiet)

		if code != exitcode.Success {
			t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
		}
		if stderr != "" {
			t.Errorf("expected no stderr, got %q", stderr)
		}
		want := "no tasks found\n"
		if quiet {
			want = ""
		}
		if stdout != want {
			t.Errorf("quiet=%v: expected %q, got %q", quiet, want, stdout)
		}
	}
}

func TestListCommand_UserErrors(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(*commands.ListCmd)
		args    []string
		wantErr string
	}{
		{
			name:    "two filters",
			setup:   func(c *commands.ListCmd) { c.SetView(true, true, "", "") },
			wantErr: "error: use only one of --today, --overdue, --project\n",
		},
		{
			name:    "unknown project",
			setup:   func(c *commands.ListCmd) { c.SetView(false, false, "Nope", "") },
			wantErr: "error: project not found: Nope\n",
		},
		{
			name:    "bad sort",
			setup:   func(c *commands.ListCmd) { c.SetView(false, false, "", "due") },
			wantErr: "error: invalid sort: due (want priority or order)\n",
		},
		{
			name:    "positional",
			setup:   func(c *commands.ListCmd) {},
			args:    []string{"extra"},
			wantErr: "error: unexpected argument: extra\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := seeded(t)
			cmd := &commands.ListCmd{}
			tt.setup(cmd)

			stdout, stderr, code := runCommand(t, cmd, svc, tt.args, false)

			if code != exitcode.UserError {
				t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
			}
			if stdout != "" {
				t.Errorf("expected no stdout, got %q", stdout)
			}
			if stderr != tt.wantErr {
				t.Errorf("expected %q, got %q", tt.wantErr, stderr)
			}
		})
	}
}

func TestListCommand_BackendError(t *testing.T) {
	svc := seeded(t)
	svc.ListTasksErr = errors.New("request timed out")

	_, stderr, code := runCommand(t, &commands.ListCmd{}, svc, nil, false)

	if code != exitcode.BackendError {
		t.Errorf("expected exit code %d, got %d", exitcode.BackendError, code)
	}
	if want := "error: backend error: request timed out\n"; stderr != want {
		t.Errorf("expected %q, got %q", want, stderr)
	}
}

func TestAddCommand_DefaultsToInbox(t *testing.T) {
	svc := seeded(t)

	stdout, stderr, code := runCommand(t, &commands.AddCmd{}, svc, []string{"Call", "mom"}, false)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}
	if want := "created: [ ] Call mom - P4\n"; stdout != want {
		t.Errorf("expected %q, got %q", want, stdout)
	}

	task, ok := svc.Task("new-1")
	if !ok {
		t.Fatal("task was not created")
	}
	if task.ProjectID != "inbox" || task.ParentID != "" {
		t.Errorf("expected inbox top-level task, got project %q parent %q", task.ProjectID, task.ParentID)
	}
}

func TestAddCommand_Flags(t *testing.T) {
	svc := seeded(t)
	cmd := &commands.AddCmd{}
	fs := newFlagSet(cmd)
	err := fs.Parse([]string{
		"--project", "work",
		"--due", "tomorrow",
		"-d", "bring slides",
		"--labels", "office, ,q3",
		"--priority", "1",
		"Prepare", "demo",
	})
	if err != nil {
		t.Fatal(err)
	}

	stdout, stderr, code := runCommand(t, cmd, svc, fs.Args(), false)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}
	if want := "created: [ ] Prepare demo (due: tomorrow) - P1\n"; stdout != want {
		t.Errorf("expected %q, got %q", want, stdout)
	}

	task, _ := svc.Task("new-1")
	if task.ProjectID != "work" {
		t.Errorf("expected project work, got %q", task.ProjectID)
	}
	if task.Description != "bring slides" {
		t.Errorf("expected description, got %q", task.Description)
	}
	if !slices.Equal(task.Labels, []string{"office", "q3"}) {
		t.Errorf("expected labels [office q3], got %v", task.Labels)
	}
	if task.Priority != 4 {
		t.Errorf("expected API priority 4, got %d", task.Priority)
	}
}

func TestAddCommand_Subtask(t *testing.T) {
	svc := seeded(t)
	cmd := &commands.AddCmd{}
	cmd.SetOptions("", "1", "", "", 0)

	stdout, stderr, code := runCommand(t, cmd, svc, []string{"Check balance"}, false)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}
	if want := "created: [ ] ⤷ Check balance - P4\n"; stdout != want {
		t.Errorf("expected %q, got %q", want, stdout)
	}

	task, _ := svc.Task("new-1")
	if task.ParentID != "a" || task.ProjectID != "inbox" {
		t.Errorf("expected child of a in inbox, got parent %q project %q", task.ParentID, task.ProjectID)
	}
}

func TestAddCommand_Quiet(t *testing.T) {
	svc := seeded(t)

	stdout, stderr, code := runCommand(t, &commands.AddCmd{}, svc, []string{"Silent"}, true)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "" || stderr != "" {
		t.Errorf("expected no output, got %q / %q", stdout, stderr)
	}
	if _, ok := svc.Task("new-1"); !ok {
		t.Error("task was not created")
	}
}

func TestAddCommand_UserErrors(t *testing.T) {
	tests := []struct {
		name    string
		opts    func(*commands.AddCmd)
		args    []string
		wantErr string
	}{
		{
			name:    "no title",
			opts:    func(c *commands.AddCmd) {},
			args:    []string{"  "},
			wantErr: "error: title required\n",
		},
		{
			name:    "project and parent",
			opts:    func(c *commands.AddCmd) { c.SetOptions("work", "1", "", "", 0) },
			args:    []string{"x"},
			wantErr: "error: cannot use both --project and --parent\n",
		},
		{
			name:    "priority",
			opts:    func(c *commands.AddCmd) { c.SetOptions("", "", "", "", 7) },
			args:    []string{"x"},
			wantErr: "error: invalid priority: 7 (want 1-4)\n",
		},
		{
			name:    "unknown project",
			opts:    func(c *commands.AddCmd) { c.SetOptions("Nope", "", "", "", 0) },
			args:    []string{"x"},
			wantErr: "error: project not found: Nope\n",
		},
		{
			name:    "parent out of range",
			opts:    func(c *commands.AddCmd) { c.SetOptions("", "9", "", "", 0) },
			args:    []string{"x"},
			wantErr: "error: task number out of range: 9\n",
		},
		{
			name:    "bad parent ref",
			opts:    func(c *commands.AddCmd) { c.SetOptions("", "a1", "", "", 0) },
			args:    []string{"x"},
			wantErr: "error: invalid task reference: a1\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := seeded(t)
			cmd := &commands.AddCmd{}
			tt.opts(cmd)

			stdout, stderr, code := runCommand(t, cmd, svc, tt.args, false)

			if code != exitcode.UserError {
				t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
			}
			if stdout != "" {
				t.Errorf("expected no stdout, got %q", stdout)
			}
			if stderr != tt.wantErr {
				t.Errorf("expected %q, got %q", tt.wantErr, stderr)
			}
			if _, ok := svc.Task("new-1"); ok {
				t.Error("no task should have been created")
			}
		})
	}
}

func TestAddCommand_BackendFailure(t *testing.T) {
	svc := seeded(t)
	svc.CreateTaskErr = errors.New("todoist unavailable (502)")

	stdout, stderr, code := runCommand(t, &commands.AddCmd{}, svc, []string{"Call mom"}, false)

	if code != exitcode.BackendError {
		t.Errorf("expected exit code %d, got %d", exitcode.BackendError, code)
	}
	if stdout != "" {
		t.Errorf("expected no stdout, got %q", stdout)
	}
	if want := "error: backend error: create failed: todoist unavailable (502)\n"; stderr != want {
		t.Errorf("expected %q, got %q", want, stderr)
	}
}

func TestDoneCommand_Success(t *testing.T) {
	tests := []struct {
		ref  string
		view func(*commands.DoneCmd)
		want string
	}{
		{ref: "1", view: func(c *commands.DoneCmd) {}, want: "a"},
		{ref: "1.1", view: func(c *commands.DoneCmd) {}, want: "a1"},
		{ref: "3", view: func(c *commands.DoneCmd) {}, want: "c"},
		{ref: "2", view: func(c *commands.DoneCmd) { c.SetView(false, false, "", "priority") }, want: "c"},
		{ref: "1", view: func(c *commands.DoneCmd) { c.SetView(false, true, "", "") }, want: "b"},
	}

	for _, tt := range tests {
		svc := seeded(t)
		cmd := &commands.DoneCmd{}
		tt.view(cmd)

		stdout, stderr, code := runCommand(t, cmd, svc, []string{tt.ref}, false)

		if code != exitcode.Success {
			t.Errorf("ref %s: expected exit code %d, got %d (stderr %q)", tt.ref, exitcode.Success, code, stderr)
			continue
		}
		if stdout != "ok\n" {
			t.Errorf("ref %s: expected 'ok\\n', got %q", tt.ref, stdout)
		}
		if got := svc.ClosedIDs(); !slices.Equal(got, []string{tt.want}) {
			t.Errorf("ref %s: expected %s closed, got %v", tt.ref, tt.want, got)
		}
	}
}

func TestDoneCommand_UserErrors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		today   bool
		wantErr string
	}{
		{name: "no ref", wantErr: "error: task reference required\n"},
		{name: "invalid", args: []string{"x"}, wantErr: "error: invalid task reference: x\n"},
		{name: "zero", args: []string{"0"}, wantErr: "error: task number out of range: 0\n"},
		{name: "beyond list", args: []string{"4"}, wantErr: "error: task number out of range: 4\n"},
		{name: "beyond view", args: []string{"2"}, today: true, wantErr: "error: task number out of range: 2\n"},
		{name: "no such child", args: []string{"2.1"}, wantErr: "error: task number out of range: 2.1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := seeded(t)
			cmd := &commands.DoneCmd{}
			cmd.SetView(tt.today, false, "", "")

			stdout, stderr, code := runCommand(t, cmd, svc, tt.args, false)

			if code != exitcode.UserError {
				t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
			}
			if stdout != "" {
				t.Errorf("expected no stdout, got %q", stdout)
			}
			if stderr != tt.wantErr {
				t.Errorf("expected %q, got %q", tt.wantErr, stderr)
			}
			if len(svc.ClosedIDs()) != 0 {
				t.Errorf("nothing should be closed, got %v", svc.ClosedIDs())
			}
		})
	}
}

func TestDoneCommand_BackendError(t *testing.T) {
	svc := seeded(t)
	svc.CloseTaskErr = errors.New("not found")

	_, stderr, code := runCommand(t, &commands.DoneCmd{}, svc, []string{"1"}, false)

	if code != exitcode.BackendError {
		t.Errorf("expected exit code %d, got %d", exitcode.BackendError, code)
	}
	if want := "error: backend error: not found\n"; stderr != want {
		t.Errorf("expected %q, got %q", want, stderr)
	}
}

func TestRmCommand_Success(t *testing.T) {
	svc := seeded(t)

	stdout, stderr, code := runCommand(t, &commands.RmCmd{}, svc, []string{"3"}, true)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}
	if stdout != "" {
		t.Errorf("expected no stdout in quiet mode, got %q", stdout)
	}
	if got := svc.DeletedIDs(); !slices.Equal(got, []string{"c"}) {
		t.Errorf("expected c deleted, got %v", got)
	}
	if _, ok := svc.Task("c"); ok {
		t.Error("task c should be gone")
	}
}

func TestRmCommand_NoRef(t *testing.T) {
	svc := seeded(t)

	_, stderr, code := runCommand(t, &commands.RmCmd{}, svc, nil, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if want := "error: task reference required\n"; stderr != want {
		t.Errorf("expected %q, got %q", want, stderr)
	}
	if len(svc.DeletedIDs()) != 0 {
		t.Errorf("nothing should be deleted, got %v", svc.DeletedIDs())
	}
}

func TestRegistry(t *testing.T) {
	r := commands.NewRegistry()
	if err := r.Register(&commands.VersionCmd{}); err != nil {
		t.Fatal(err)
	}
	if err := r.Register(&commands.ListCmd{}); err != nil {
		t.Fatal(err)
	}

	if cmd, ok := r.Find("ls"); !ok || cmd.Name() != "list" {
		t.Error("expected alias ls to find list")
	}
	if _, ok := r.Find("nope"); ok {
		t.Error("unexpected command found")
	}

	var names []string
	for _, c := range r.All() {
		names = append(names, c.Name())
	}
	if !slices.Equal(names, []string{"list", "version"}) {
		t.Errorf("expected sorted names, got %v", names)
	}

	err := r.Register(&commands.VersionCmd{})
	if err == nil || err.Error() != "command name already registered: version" {
		t.Errorf("expected duplicate error, got %v", err)
	}
}
