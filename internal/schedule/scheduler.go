// Package schedule turns a validated task list into a business-day-aware
// project timeline. Scheduling is a pure function of the task set and the
// project start date: it performs no I/O, holds no state, and produces
// identical output for identical input, so reports can be regenerated after
// every manual edit without drift.
package schedule

import (
	"time"
)

// Result is a fully dated schedule: every task has start_date and end_date
// assigned, and the project bounds span the earliest start and latest end.
type Result struct {
	Tasks     []Task `json:"tasks"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// Schedule assigns start and end dates to every task, honoring dependency
// order and skipping weekends.
//
// The effective project start is startDate advanced to the next business
// day. Tasks are processed in topological order (ties broken by input
// order): a task with no dependencies starts at the project start; a
// dependent task starts on the business day after its last dependency ends.
// A task's end date is its start advanced by duration-1 business days, so a
// one-day task starts and ends the same day. Weekends never consume
// duration and are never start or end dates.
//
// Input tasks are not mutated; any start_date/end_date already present on
// them is ignored and overwritten in the result. status, actual_start and
// actual_end are carried through untouched.
func Schedule(tasks []Task, startDate time.Time) (*Result, error) {
	if len(tasks) == 0 {
		return nil, ErrEmptyTaskSet
	}

	index := make(map[string]int, len(tasks))
	for i, t := range tasks {
		if _, dup := index[t.ID]; dup {
			return nil, &DuplicateIDError{TaskID: t.ID}
		}
		if t.DurationDays < 1 {
			return nil, &DurationError{TaskID: t.ID, Duration: t.DurationDays}
		}
		index[t.ID] = i
	}

	// Edges run dependency -> dependent for the in-degree walk.
	indegree := make([]int, len(tasks))
	dependents := make([][]int, len(tasks))
	for i, t := range tasks {
		for _, dep := range t.Dependencies {
			j, ok := index[dep]
			if !ok {
				return nil, &DanglingDependencyError{TaskID: t.ID, DependencyID: dep}
			}
			indegree[i]++
			dependents[j] = append(dependents[j], i)
		}
	}

	order, err := topoOrder(tasks, indegree, dependents)
	if err != nil {
		return nil, err
	}

	projectStart := NextBusinessDay(Midnight(startDate))

	out := CloneTasks(tasks)
	ends := make([]time.Time, len(tasks))
	starts := make([]time.Time, len(tasks))
	for _, i := range order {
		start := projectStart
		for _, dep := range out[i].Dependencies {
			j := index[dep]
			// Strict precedence: the dependent begins on the business
			// day after its dependency finishes.
			candidate := NextBusinessDay(ends[j].AddDate(0, 0, 1))
			if candidate.After(start) {
				start = candidate
			}
		}
		start = NextBusinessDay(start)
		end := AddBusinessDays(start, out[i].DurationDays-1)

		starts[i] = start
		ends[i] = end
		out[i].StartDate = FormatDate(start)
		out[i].EndDate = FormatDate(end)
	}

	minStart, maxEnd := starts[0], ends[0]
	for i := 1; i < len(out); i++ {
		if starts[i].Before(minStart) {
			minStart = starts[i]
		}
		if ends[i].After(maxEnd) {
			maxEnd = ends[i]
		}
	}

	return &Result{
		Tasks:     out,
		StartDate: FormatDate(minStart),
		EndDate:   FormatDate(maxEnd),
	}, nil
}

// topoOrder runs Kahn's algorithm, always picking the ready task with the
// smallest input index so that scheduling is deterministic and stable
// across re-runs. Task sets are small (a project plan, not a build graph),
// so the repeated scan is fine.
func topoOrder(tasks []Task, indegree []int, dependents [][]int) ([]int, error) {
	n := len(tasks)
	order := make([]int, 0, n)
	placed := make([]bool, n)

	for len(order) < n {
		next := -1
		for i := 0; i < n; i++ {
			if !placed[i] && indegree[i] == 0 {
				next = i
				break
			}
		}
		if next == -1 {
			return nil, &CycleError{TaskID: cycleMember(tasks, placed)}
		}
		placed[next] = true
		order = append(order, next)
		for _, d := range dependents[next] {
			indegree[d]--
		}
	}
	return order, nil
}

// cycleMember finds a task that is actually on a cycle among the unplaced
// tasks: walk dependency edges through unplaced tasks until one repeats.
// Tasks merely downstream of a cycle are skipped over by the walk.
func cycleMember(tasks []Task, placed []bool) string {
	index := make(map[string]int, len(tasks))
	for i, t := range tasks {
		index[t.ID] = i
	}

	start := -1
	for i := range tasks {
		if !placed[i] {
			start = i
			break
		}
	}

	seen := make(map[int]bool)
	cur := start
	for !seen[cur] {
		seen[cur] = true
		for _, dep := range tasks[cur].Dependencies {
			if j, ok := index[dep]; ok && !placed[j] {
				cur = j
				break
			}
		}
	}
	return tasks[cur].ID
}
