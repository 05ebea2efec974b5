package schedule

import (
	"fmt"
	"strconv"
	"strings"
)

// ChangeSet is the edit directive produced upstream when the user revises
// an existing plan: field updates or deletions for tasks already in the
// set, plus brand-new tasks to append. Only the changed fields are present.
type ChangeSet struct {
	Action   string   `json:"action"` // "add", "update", "delete" or "none"
	Changes  []Change `json:"modifications"`
	NewTasks []Task   `json:"new_tasks"`
}

// Change targets one existing task by id.
type Change struct {
	TaskID string       `json:"task_id"`
	Fields ChangeFields `json:"changes"`
}

// ChangeFields holds the fields being changed; nil means "leave as-is".
type ChangeFields struct {
	Title        *string   `json:"title,omitempty"`
	DurationDays *int      `json:"duration_days,omitempty"`
	Owner        *string   `json:"owner,omitempty"`
	Dependencies *[]string `json:"dependencies,omitempty"`
}

// ApplyChanges returns a new task list with the change set applied. Updates
// are matched by task id (unknown ids are skipped, not errors — the revised
// list is re-validated by the scheduler anyway). Deleting a task also
// scrubs it from every other task's dependencies. New tasks get sequential
// task_N ids following the highest existing one.
func ApplyChanges(tasks []Task, cs ChangeSet) []Task {
	out := CloneTasks(tasks)

	if cs.Action == "delete" {
		doomed := make(map[string]bool, len(cs.Changes))
		for _, c := range cs.Changes {
			doomed[c.TaskID] = true
		}
		kept := out[:0]
		for _, t := range out {
			if doomed[t.ID] {
				continue
			}
			deps := t.Dependencies[:0]
			for _, d := range t.Dependencies {
				if !doomed[d] {
					deps = append(deps, d)
				}
			}
			t.Dependencies = deps
			kept = append(kept, t)
		}
		out = kept
	} else {
		for _, c := range cs.Changes {
			for i := range out {
				if out[i].ID != c.TaskID {
					continue
				}
				if c.Fields.Title != nil {
					out[i].Title = *c.Fields.Title
				}
				if c.Fields.DurationDays != nil {
					out[i].DurationDays = *c.Fields.DurationDays
				}
				if c.Fields.Owner != nil {
					out[i].Owner = *c.Fields.Owner
				}
				if c.Fields.Dependencies != nil {
					out[i].Dependencies = append([]string(nil), (*c.Fields.Dependencies)...)
				}
				break
			}
		}
	}

	next := nextTaskNumber(out)
	for _, nt := range cs.NewTasks {
		t := nt.Clone()
		if t.ID == "" {
			t.ID = fmt.Sprintf("task_%d", next)
			next++
		}
		out = append(out, t)
	}
	return out
}

// nextTaskNumber returns one past the highest N among ids of the form
// task_N. Ids in other formats are ignored.
func nextTaskNumber(tasks []Task) int {
	max := 0
	for _, t := range tasks {
		rest, ok := strings.CutPrefix(t.ID, "task_")
		if !ok {
			continue
		}
		if n, err := strconv.Atoi(rest); err == nil && n > max {
			max = n
		}
	}
	return max + 1
}
