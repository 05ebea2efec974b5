package schedule

// TaskStatus mirrors the tracker's board columns. The scheduler never
// interprets it — it belongs to the downstream Kanban collaborator and is
// carried through scheduling untouched.
type TaskStatus string

const (
	StatusTodo       TaskStatus = "todo"
	StatusInProgress TaskStatus = "in-progress"
	StatusDone       TaskStatus = "done"
)

// Task is a single unit of project work. IDs are assigned upstream (by the
// extraction service) and referenced by other tasks' Dependencies. StartDate
// and EndDate are empty until the scheduler assigns them; ActualStart,
// ActualEnd and Status are owned by the tracker and passed through as-is.
//
// All dates are date-only ISO strings (YYYY-MM-DD).
type Task struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	DurationDays int        `json:"duration_days"`
	Owner        string     `json:"owner,omitempty"`
	Dependencies []string   `json:"dependencies"`
	StartDate    string     `json:"start_date,omitempty"`
	EndDate      string     `json:"end_date,omitempty"`
	ActualStart  string     `json:"actual_start,omitempty"`
	ActualEnd    string     `json:"actual_end,omitempty"`
	Status       TaskStatus `json:"status,omitempty"`
}

// Clone returns a deep copy of the task (the Dependencies slice is copied,
// not shared).
func (t Task) Clone() Task {
	c := t
	if t.Dependencies != nil {
		c.Dependencies = make([]string, len(t.Dependencies))
		copy(c.Dependencies, t.Dependencies)
	}
	return c
}

// CloneTasks deep-copies a task list.
func CloneTasks(tasks []Task) []Task {
	if tasks == nil {
		return nil
	}
	out := make([]Task, len(tasks))
	for i, t := range tasks {
		out[i] = t.Clone()
	}
	return out
}

// OwnerOrUnassigned returns the owner name, or "Unassigned" when no owner
// was extracted for the task.
func (t Task) OwnerOrUnassigned() string {
	if t.Owner == "" {
		return "Unassigned"
	}
	return t.Owner
}
