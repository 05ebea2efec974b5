package schedule

import "testing"

func baseTasks() []Task {
	return []Task{
		{ID: "task_1", Title: "Design UI", DurationDays: 5, Owner: "Alice"},
		{ID: "task_2", Title: "Develop frontend", DurationDays: 10, Owner: "Bob", Dependencies: []string{"task_1"}},
	}
}

func TestApplyChanges_Update(t *testing.T) {
	duration := 3
	out := ApplyChanges(baseTasks(), ChangeSet{
		Action: "update",
		Changes: []Change{
			{TaskID: "task_1", Fields: ChangeFields{DurationDays: &duration}},
		},
	})

	if out[0].DurationDays != 3 {
		t.Errorf("expected duration 3, got %d", out[0].DurationDays)
	}
	if out[0].Title != "Design UI" || out[0].Owner != "Alice" {
		t.Error("untouched fields must remain unchanged")
	}
}

func TestApplyChanges_AddGeneratesNextID(t *testing.T) {
	out := ApplyChanges(baseTasks(), ChangeSet{
		Action: "add",
		NewTasks: []Task{
			{Title: "Testing phase", DurationDays: 5, Dependencies: []string{"task_2"}},
		},
	})

	if len(out) != 3 {
		t.Fatalf("expected 3 tasks, got %d", len(out))
	}
	if out[2].ID != "task_3" {
		t.Errorf("expected generated id task_3, got %q", out[2].ID)
	}
}

func TestApplyChanges_DeleteScrubsDependencies(t *testing.T) {
	out := ApplyChanges(baseTasks(), ChangeSet{
		Action:  "delete",
		Changes: []Change{{TaskID: "task_1"}},
	})

	if len(out) != 1 {
		t.Fatalf("expected 1 task, got %d", len(out))
	}
	if out[0].ID != "task_2" {
		t.Errorf("expected task_2 to survive, got %q", out[0].ID)
	}
	if len(out[0].Dependencies) != 0 {
		t.Errorf("deleted task must be scrubbed from dependencies, got %v", out[0].Dependencies)
	}
}

func TestApplyChanges_UnknownTargetIgnored(t *testing.T) {
	title := "New title"
	out := ApplyChanges(baseTasks(), ChangeSet{
		Action:  "update",
		Changes: []Change{{TaskID: "task_99", Fields: ChangeFields{Title: &title}}},
	})

	if len(out) != 2 || out[0].Title != "Design UI" {
		t.Error("unknown change target must leave the list untouched")
	}
}

func TestApplyChanges_DoesNotMutateInput(t *testing.T) {
	in := baseTasks()
	owner := "Carol"
	ApplyChanges(in, ChangeSet{
		Action:  "update",
		Changes: []Change{{TaskID: "task_2", Fields: ChangeFields{Owner: &owner}}},
	})

	if in[1].Owner != "Bob" {
		t.Error("ApplyChanges mutated its input")
	}
}

func TestNextTaskNumber(t *testing.T) {
	tasks := []Task{{ID: "task_2"}, {ID: "custom-id"}, {ID: "task_7"}}
	if got := nextTaskNumber(tasks); got != 8 {
		t.Errorf("expected 8, got %d", got)
	}
	if got := nextTaskNumber(nil); got != 1 {
		t.Errorf("expected 1 for empty list, got %d", got)
	}
}
