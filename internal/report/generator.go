// Package report glues the pure scheduler to the plan store: it resolves
// the task source (session list or caller override), runs a scheduling
// pass, and persists the result as an immutable plan under a fresh id.
package report

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/imkarma/pland/internal/schedule"
	"github.com/imkarma/pland/internal/store"
)

// ErrInvalidStartDate wraps a malformed start_date in a request.
var ErrInvalidStartDate = errors.New("report: invalid start date")

// ErrNoTasks is returned when the resolved session has no tasks to
// schedule.
var ErrNoTasks = errors.New("report: session has no tasks")

// DefaultProjectName is used when neither the session nor the caller
// supplies one.
const DefaultProjectName = "Untitled Project"

// Generator produces and stores plans.
type Generator struct {
	store *store.Store
	now   func() time.Time
}

// Option customizes generator construction.
type Option func(*Generator)

// WithClock lets tests control "today" for the default start date.
func WithClock(clock func() time.Time) Option {
	return func(g *Generator) {
		if clock != nil {
			g.now = clock
		}
	}
}

// NewGenerator creates a generator backed by the given store.
func NewGenerator(s *store.Store, opts ...Option) *Generator {
	g := &Generator{
		store: s,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate schedules a task set and persists the result as a new plan.
//
// When override is non-nil, those tasks — and only those — are scheduled:
// the user's manual table edits take precedence over whatever the session
// last extracted. Otherwise the session's task list is used, and an
// unknown session is an error.
//
// An empty startDate defaults to the next business day on or after today.
// Every call mints a fresh plan id, even for identical input; prior plans
// are never touched.
func (g *Generator) Generate(sessionID, startDate string, override []schedule.Task) (*store.Plan, error) {
	tasks := override
	projectName := DefaultProjectName

	sess, err := g.store.GetSession(sessionID)
	switch {
	case err == nil:
		if sess.ProjectName != "" {
			projectName = sess.ProjectName
		}
		if tasks == nil {
			tasks = sess.Tasks
		}
	case errors.Is(err, store.ErrSessionNotFound) && override != nil:
		// Override path works without a tracked session.
	default:
		return nil, err
	}

	if len(tasks) == 0 {
		return nil, ErrNoTasks
	}

	start := g.now()
	if startDate != "" {
		start, err = schedule.ParseDate(startDate)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidStartDate, err)
		}
	}

	result, err := schedule.Schedule(tasks, start)
	if err != nil {
		return nil, err
	}

	plan := &store.Plan{
		ID:          uuid.NewString(),
		ProjectName: projectName,
		Tasks:       result.Tasks,
		StartDate:   result.StartDate,
		EndDate:     result.EndDate,
		CreatedAt:   g.now().UTC(),
	}

	err = g.store.SavePlan(plan)
	if errors.Is(err, store.ErrPlanExists) {
		// One retry on id collision before failing fatally.
		plan.ID = uuid.NewString()
		err = g.store.SavePlan(plan)
	}
	if err != nil {
		return nil, err
	}
	return plan, nil
}

// Plan returns a stored plan by id.
func (g *Generator) Plan(planID string) (*store.Plan, error) {
	return g.store.GetPlan(planID)
}
