package app

// Intent is a high-level user action produced by the input dispatcher.
type Intent int

const (
	SelectNext Intent = iota
	SelectPrevious
	SwitchFocus
	OpenSelected
	NewTask
	CloseTask
	DeleteTask
	FilterAll
	FilterToday
	FilterOverdue
	TogglePrioritySort
	ToggleHelp
	DismissError

	// Editor intents.
	NextField
	CommitEdit
	CancelEdit
	OpenChild
	NewSubtask
)

var intentNames = map[Intent]string{
	SelectNext:         "select-next",
	SelectPrevious:     "select-previous",
	SwitchFocus:        "switch-focus",
	OpenSelected:       "open-selected",
	NewTask:            "new-task",
	CloseTask:          "close-task",
	DeleteTask:         "delete-task",
	FilterAll:          "filter-all",
	FilterToday:        "filter-today",
	FilterOverdue:      "filter-overdue",
	TogglePrioritySort: "toggle-priority-sort",
	ToggleHelp:         "toggle-help",
	DismissError:       "dismiss-error",
	NextField:          "next-field",
	CommitEdit:         "commit-edit",
	CancelEdit:         "cancel-edit",
	OpenChild:          "open-child",
	NewSubtask:         "new-subtask",
}

func (i Intent) String() string {
	if s, ok := intentNames[i]; ok {
		return s
	}
	return "unknown"
}

// Focus is the pane that receives list navigation.
type Focus int

const (
	FocusProjects Focus = iota
	FocusTasks
)
