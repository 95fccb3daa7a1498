package output_test

import (
	"bytes"
	"testing"

	"tdui/internal/output"
	"tdui/internal/service"
	"tdui/internal/testutil"
)

func TestTaskLine(t *testing.T) {
	tests := []struct {
		name  string
		task  service.Task
		child bool
		want  string
	}{
		{
			name: "plain",
			task: service.Task{Content: "Buy milk", Priority: 1},
			want: "[ ] Buy milk - P4",
		},
		{
			name: "urgent with date",
			task: service.Task{Content: "Pay rent", Priority: 4, Due: &service.Due{Date: "2024-06-10", String: "today"}},
			want: "[ ] Pay rent (due: 10 Jun, 2024) - P1",
		},
		{
			name: "floating time",
			task: service.Task{Content: "Call", Priority: 3, Due: &service.Due{Date: "2024-06-10", Datetime: "2024-06-10T09:30:00"}},
			want: "[ ] Call (due: 10 Jun, 2024 at 09:30) - P2",
		},
		{
			name:  "completed child",
			task:  service.Task{Content: "Oat", Priority: 2, IsCompleted: true},
			child: true,
			want:  "[✓] ⤷ Oat - P3",
		},
		{
			name: "unparseable date keeps string",
			task: service.Task{Content: "x", Due: &service.Due{Date: "junk", String: "someday"}},
			want: "[ ] x (due: someday) - P4",
		},
		{
			name: "untitled",
			task: service.Task{Content: " \n"},
			want: "[ ] (untitled) - P4",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := output.TaskLine(tt.task, tt.child); got != tt.want {
				t.Errorf("TaskLine() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPriorityLabel(t *testing.T) {
	want := map[int]string{0: "P4", 1: "P4", 2: "P3", 3: "P2", 4: "P1", 9: "P4"}
	for p, label := range want {
		if got := output.PriorityLabel(p); got != label {
			t.Errorf("PriorityLabel(%d) = %q, want %q", p, got, label)
		}
	}
}

func TestFormatListing(t *testing.T) {
	var buf bytes.Buffer

	output.FormatHeader(&buf, "Today")
	output.FormatTask(&buf, 1, service.Task{Content: "Buy milk", Priority: 4, Due: &service.Due{Date: "2024-06-10"}})
	output.FormatChild(&buf, 1, 1, service.Task{Content: "Oat", Priority: 1})
	output.FormatChild(&buf, 1, 2, service.Task{Content: "Soy", Priority: 1})
	output.FormatTask(&buf, 2, service.Task{Content: "Line one\nline two", Priority: 2})
	output.FormatProjectName(&buf, service.Project{Name: "Inbox", IsInboxProject: true})
	output.FormatProjectName(&buf, service.Project{Name: ""})

	testutil.Golden(t, "listing", buf.Bytes())
}
