package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/imkarma/pland/internal/schedule"
	"github.com/imkarma/pland/internal/store"
)

// csvHeader is the fixed column layout for plan exports. Kept stable so
// exported files can be re-imported elsewhere.
var csvHeader = []string{"Task ID", "Title", "Duration (days)", "Owner", "Start Date", "End Date", "Dependencies"}

// ExportCSV writes the plan identified by planID to w, one row per task.
func (g *Generator) ExportCSV(planID string, w io.Writer) error {
	plan, err := g.store.GetPlan(planID)
	if err != nil {
		return err
	}
	return WriteCSV(w, plan)
}

// WriteCSV serializes a plan's tasks as CSV. Dependencies are joined with
// ", " in a single column.
func WriteCSV(w io.Writer, plan *store.Plan) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, t := range plan.Tasks {
		row := []string{
			t.ID,
			t.Title,
			strconv.Itoa(t.DurationDays),
			t.Owner,
			t.StartDate,
			t.EndDate,
			strings.Join(t.Dependencies, ", "),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV parses tasks back out of the export format, so a downloaded plan
// can be re-scheduled. A header row is skipped when present. Dates are
// carried through as-is; re-scheduling overwrites them anyway.
func ReadCSV(r io.Reader) ([]schedule.Task, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(csvHeader)

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(records) > 0 && records[0][0] == csvHeader[0] {
		records = records[1:]
	}

	var tasks []schedule.Task
	for i, rec := range records {
		duration, err := strconv.Atoi(strings.TrimSpace(rec[2]))
		if err != nil {
			return nil, fmt.Errorf("row %d: bad duration %q: %w", i+1, rec[2], err)
		}
		var deps []string
		if s := strings.TrimSpace(rec[6]); s != "" {
			for _, d := range strings.Split(s, ",") {
				deps = append(deps, strings.TrimSpace(d))
			}
		}
		tasks = append(tasks, schedule.Task{
			ID:           rec[0],
			Title:        rec[1],
			DurationDays: duration,
			Owner:        rec[3],
			StartDate:    rec[4],
			EndDate:      rec[5],
			Dependencies: deps,
		})
	}
	return tasks, nil
}
