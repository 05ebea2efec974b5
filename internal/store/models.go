package store

import (
	"time"

	"github.com/imkarma/pland/internal/schedule"
)

// Plan is the persisted result of one scheduling run: a dated snapshot of a
// task set plus the overall project bounds. Plans are immutable once
// stored — regenerating a report mints a new plan rather than mutating an
// old one.
type Plan struct {
	ID          string          `json:"plan_id"`
	ProjectName string          `json:"project_name"`
	Tasks       []schedule.Task `json:"tasks"`
	StartDate   string          `json:"start_date"`
	EndDate     string          `json:"end_date"`
	CreatedAt   time.Time       `json:"created_at"`
}

// PlanSummary is a plan row without its tasks, for listings.
type PlanSummary struct {
	ID          string    `json:"plan_id"`
	ProjectName string    `json:"project_name"`
	StartDate   string    `json:"start_date"`
	EndDate     string    `json:"end_date"`
	TaskCount   int       `json:"task_count"`
	CreatedAt   time.Time `json:"created_at"`
}

// Session holds the task list the upstream extraction service has gathered
// for one conversation. Unlike plans, sessions are mutable: each round of
// extraction or editing replaces the task list wholesale.
type Session struct {
	ID          string          `json:"session_id"`
	ProjectName string          `json:"project_name"`
	Tasks       []schedule.Task `json:"tasks"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
