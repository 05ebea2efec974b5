package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/imkarma/pland/internal/schedule"
)

// ErrPlanNotFound is returned when a plan id is unknown. Readers must see
// this rather than an empty plan.
var ErrPlanNotFound = errors.New("store: plan not found")

// ErrSessionNotFound is returned when a session id is unknown.
var ErrSessionNotFound = errors.New("store: session not found")

// ErrPlanExists is returned when inserting a plan whose id is already
// taken. The generator retries once with a fresh id before giving up.
var ErrPlanExists = errors.New("store: plan id already exists")

// Store provides access to the pland database.
type Store struct {
	db *sql.DB
}

// New opens (or creates) the SQLite database at the given path.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Enable WAL mode for better concurrent access.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS plans (
		plan_id       TEXT PRIMARY KEY,
		project_name  TEXT NOT NULL,
		start_date    TEXT NOT NULL,
		end_date      TEXT NOT NULL,
		created_at    DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS plan_tasks (
		plan_id        TEXT NOT NULL REFERENCES plans(plan_id),
		position       INTEGER NOT NULL,
		task_id        TEXT NOT NULL,
		title          TEXT NOT NULL,
		duration_days  INTEGER NOT NULL,
		owner          TEXT DEFAULT '',
		dependencies   TEXT NOT NULL DEFAULT '[]',
		start_date     TEXT NOT NULL,
		end_date       TEXT NOT NULL,
		actual_start   TEXT DEFAULT '',
		actual_end     TEXT DEFAULT '',
		status         TEXT DEFAULT '',
		PRIMARY KEY (plan_id, position)
	);

	CREATE TABLE IF NOT EXISTS sessions (
		session_id    TEXT PRIMARY KEY,
		project_name  TEXT NOT NULL DEFAULT '',
		tasks         TEXT NOT NULL DEFAULT '[]',
		created_at    DATETIME NOT NULL,
		updated_at    DATETIME NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// SavePlan inserts a plan and all its tasks in a single transaction. A plan
// is either stored whole or not at all; there are no partial plans, and no
// code path ever updates a stored plan.
func (s *Store) SavePlan(p *Plan) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRow(`SELECT COUNT(*) FROM plans WHERE plan_id = ?`, p.ID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check plan id: %w", err)
	}
	if exists > 0 {
		return ErrPlanExists
	}

	_, err = tx.Exec(
		`INSERT INTO plans (plan_id, project_name, start_date, end_date, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		p.ID, p.ProjectName, p.StartDate, p.EndDate, p.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert plan: %w", err)
	}

	for i, t := range p.Tasks {
		deps, err := json.Marshal(t.Dependencies)
		if err != nil {
			return fmt.Errorf("marshal dependencies: %w", err)
		}
		_, err = tx.Exec(
			`INSERT INTO plan_tasks (plan_id, position, task_id, title, duration_days, owner,
			                         dependencies, start_date, end_date, actual_start, actual_end, status)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			p.ID, i, t.ID, t.Title, t.DurationDays, t.Owner,
			string(deps), t.StartDate, t.EndDate, t.ActualStart, t.ActualEnd, string(t.Status),
		)
		if err != nil {
			return fmt.Errorf("insert plan task: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// GetPlan returns a stored plan with its tasks in original order.
func (s *Store) GetPlan(planID string) (*Plan, error) {
	var p Plan
	row := s.db.QueryRow(
		`SELECT plan_id, project_name, start_date, end_date, created_at FROM plans WHERE plan_id = ?`,
		planID,
	)
	err := row.Scan(&p.ID, &p.ProjectName, &p.StartDate, &p.EndDate, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrPlanNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan plan: %w", err)
	}

	rows, err := s.db.Query(
		`SELECT task_id, title, duration_days, owner, dependencies,
		        start_date, end_date, actual_start, actual_end, status
		 FROM plan_tasks WHERE plan_id = ? ORDER BY position`,
		planID,
	)
	if err != nil {
		return nil, fmt.Errorf("query plan tasks: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		t, err := scanPlanTask(rows)
		if err != nil {
			return nil, err
		}
		p.Tasks = append(p.Tasks, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &p, nil
}

// ListPlans returns summaries of all stored plans, newest first.
func (s *Store) ListPlans() ([]PlanSummary, error) {
	rows, err := s.db.Query(
		`SELECT p.plan_id, p.project_name, p.start_date, p.end_date, p.created_at,
		        (SELECT COUNT(*) FROM plan_tasks t WHERE t.plan_id = p.plan_id)
		 FROM plans p ORDER BY p.created_at DESC, p.plan_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("query plans: %w", err)
	}
	defer rows.Close()

	var plans []PlanSummary
	for rows.Next() {
		var ps PlanSummary
		if err := rows.Scan(&ps.ID, &ps.ProjectName, &ps.StartDate, &ps.EndDate, &ps.CreatedAt, &ps.TaskCount); err != nil {
			return nil, fmt.Errorf("scan plan summary: %w", err)
		}
		plans = append(plans, ps)
	}
	return plans, rows.Err()
}

// UpsertSession creates or replaces the task list tracked for a session.
func (s *Store) UpsertSession(sessionID, projectName string, tasks []schedule.Task) (*Session, error) {
	if tasks == nil {
		tasks = []schedule.Task{}
	}
	blob, err := json.Marshal(tasks)
	if err != nil {
		return nil, fmt.Errorf("marshal session tasks: %w", err)
	}

	now := time.Now().UTC()
	_, err = s.db.Exec(
		`INSERT INTO sessions (session_id, project_name, tasks, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(session_id) DO UPDATE SET
		   project_name = excluded.project_name,
		   tasks        = excluded.tasks,
		   updated_at   = excluded.updated_at`,
		sessionID, projectName, string(blob), now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("upsert session: %w", err)
	}
	return s.GetSession(sessionID)
}

// GetSession returns a session by id.
func (s *Store) GetSession(sessionID string) (*Session, error) {
	var sess Session
	var blob string
	row := s.db.QueryRow(
		`SELECT session_id, project_name, tasks, created_at, updated_at FROM sessions WHERE session_id = ?`,
		sessionID,
	)
	err := row.Scan(&sess.ID, &sess.ProjectName, &blob, &sess.CreatedAt, &sess.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan session: %w", err)
	}
	if err := json.Unmarshal([]byte(blob), &sess.Tasks); err != nil {
		return nil, fmt.Errorf("unmarshal session tasks: %w", err)
	}
	return &sess, nil
}

// ListSessions returns all session ids, oldest first.
func (s *Store) ListSessions() ([]string, error) {
	rows, err := s.db.Query(`SELECT session_id FROM sessions ORDER BY created_at, session_id`)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan session id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// scanPlanTask scans a single task from the plan_tasks rows.
func scanPlanTask(rows *sql.Rows) (*schedule.Task, error) {
	var t schedule.Task
	var deps, status string
	err := rows.Scan(
		&t.ID, &t.Title, &t.DurationDays, &t.Owner, &deps,
		&t.StartDate, &t.EndDate, &t.ActualStart, &t.ActualEnd, &status,
	)
	if err != nil {
		return nil, fmt.Errorf("scan plan task: %w", err)
	}
	if err := json.Unmarshal([]byte(deps), &t.Dependencies); err != nil {
		return nil, fmt.Errorf("unmarshal dependencies: %w", err)
	}
	t.Status = schedule.TaskStatus(status)
	return &t, nil
}
