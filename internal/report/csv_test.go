package report

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/imkarma/pland/internal/schedule"
	"github.com/imkarma/pland/internal/store"
)

func TestExportCSV(t *testing.T) {
	g, s := testGenerator(t)
	seedSession(t, s)

	plan, err := g.Generate("s1", "2025-01-06", nil)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	var buf bytes.Buffer
	if err := g.ExportCSV(plan.ID, &buf); err != nil {
		t.Fatalf("ExportCSV: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got %d lines", len(lines))
	}
	if lines[0] != "Task ID,Title,Duration (days),Owner,Start Date,End Date,Dependencies" {
		t.Errorf("unexpected header: %s", lines[0])
	}
	if lines[2] != `task_2,Build,3,Bob,2025-01-08,2025-01-10,task_1` {
		t.Errorf("unexpected row: %s", lines[2])
	}
}

func TestExportCSV_UnknownPlan(t *testing.T) {
	g, _ := testGenerator(t)

	var buf bytes.Buffer
	if err := g.ExportCSV("nope", &buf); !errors.Is(err, store.ErrPlanNotFound) {
		t.Errorf("expected ErrPlanNotFound, got %v", err)
	}
	if buf.Len() != 0 {
		t.Error("nothing should be written for a missing plan")
	}
}

func TestCSV_RoundTrip(t *testing.T) {
	plan := &store.Plan{
		ID:          "p1",
		ProjectName: "Demo",
		Tasks: []schedule.Task{
			{ID: "task_1", Title: "Design, with commas", DurationDays: 2, Owner: "Alice",
				StartDate: "2025-01-06", EndDate: "2025-01-07"},
			{ID: "task_2", Title: "Build", DurationDays: 3, Owner: "Bob",
				Dependencies: []string{"task_1"}, StartDate: "2025-01-08", EndDate: "2025-01-10"},
			{ID: "task_3", Title: "Test", DurationDays: 1,
				Dependencies: []string{"task_1", "task_2"}, StartDate: "2025-01-13", EndDate: "2025-01-13"},
		},
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, plan); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	got, err := ReadCSV(&buf)
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if len(got) != len(plan.Tasks) {
		t.Fatalf("expected %d tasks, got %d", len(plan.Tasks), len(got))
	}
	for i, want := range plan.Tasks {
		if got[i].ID != want.ID || got[i].Title != want.Title ||
			got[i].DurationDays != want.DurationDays || got[i].Owner != want.Owner {
			t.Errorf("task %d differs: got %+v, want %+v", i, got[i], want)
		}
		if strings.Join(got[i].Dependencies, ",") != strings.Join(want.Dependencies, ",") {
			t.Errorf("task %d dependencies differ: got %v, want %v", i, got[i].Dependencies, want.Dependencies)
		}
	}
}

func TestCSV_RescheduleReproducesDates(t *testing.T) {
	g, s := testGenerator(t)
	seedSession(t, s)

	plan, err := g.Generate("s1", "2025-01-06", nil)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	var buf bytes.Buffer
	if err := g.ExportCSV(plan.ID, &buf); err != nil {
		t.Fatalf("ExportCSV: %v", err)
	}
	imported, err := ReadCSV(&buf)
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}

	again, err := g.Generate("", "2025-01-06", imported)
	if err != nil {
		t.Fatalf("Generate (reimported): %v", err)
	}
	for i := range plan.Tasks {
		if again.Tasks[i].StartDate != plan.Tasks[i].StartDate ||
			again.Tasks[i].EndDate != plan.Tasks[i].EndDate {
			t.Errorf("task %s rescheduled differently: %s — %s vs %s — %s",
				plan.Tasks[i].ID,
				again.Tasks[i].StartDate, again.Tasks[i].EndDate,
				plan.Tasks[i].StartDate, plan.Tasks[i].EndDate)
		}
	}
}

func TestReadCSV_BadDuration(t *testing.T) {
	in := "Task ID,Title,Duration (days),Owner,Start Date,End Date,Dependencies\n" +
		"task_1,A,lots,Alice,,,\n"
	if _, err := ReadCSV(strings.NewReader(in)); err == nil {
		t.Error("expected error for non-numeric duration")
	}
}
