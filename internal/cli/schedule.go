package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/imkarma/pland/internal/report"
	"github.com/imkarma/pland/internal/schedule"
)

var scheduleStart string

var scheduleCmd = &cobra.Command{
	Use:   "schedule [tasks.json|tasks.csv]",
	Short: "Schedule a task file and print the dated timeline",
	Long:  "Runs the scheduler offline on a task list (JSON array or a pland CSV\nexport) without touching the plan store.",
	Args:  cobra.ExactArgs(1),
	RunE:  runSchedule,
}

func init() {
	scheduleCmd.Flags().StringVar(&scheduleStart, "start", "", "project start date (YYYY-MM-DD, default: next business day)")
}

func runSchedule(cmd *cobra.Command, args []string) error {
	tasks, err := readTaskFile(args[0])
	if err != nil {
		return err
	}

	start := time.Now()
	if scheduleStart != "" {
		start, err = schedule.ParseDate(scheduleStart)
		if err != nil {
			return err
		}
	}

	result, err := schedule.Schedule(tasks, start)
	if err != nil {
		return err
	}

	fmt.Printf("Project: %s — %s\n\n", result.StartDate, result.EndDate)
	fmt.Printf("%-10s %-32s %4s  %-14s %-10s  %-10s  %s\n",
		"ID", "TITLE", "DAYS", "OWNER", "START", "END", "DEPENDS ON")
	for _, t := range result.Tasks {
		fmt.Printf("%-10s %-32s %4d  %-14s %-10s  %-10s  %s\n",
			t.ID, truncate(t.Title, 32), t.DurationDays, t.OwnerOrUnassigned(),
			t.StartDate, t.EndDate, strings.Join(t.Dependencies, ", "))
	}
	return nil
}

// readTaskFile loads a task list from a JSON array or a pland CSV export,
// chosen by file extension.
func readTaskFile(path string) ([]schedule.Task, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if strings.HasSuffix(path, ".csv") {
		return report.ReadCSV(f)
	}

	var tasks []schedule.Task
	if err := json.NewDecoder(f).Decode(&tasks); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return tasks, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}
