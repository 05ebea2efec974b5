package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/imkarma/pland/internal/config"
	"github.com/imkarma/pland/internal/schedule"
	"github.com/imkarma/pland/internal/store"
)

func testServer(t *testing.T) (*Server, *store.Store) {
	t.Helper()
	st, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	cfg := config.DefaultConfig()
	cfg.CORSOrigins = []string{"http://localhost:3000"}

	clock := func() time.Time {
		return time.Date(2025, 1, 2, 9, 0, 0, 0, time.UTC)
	}
	return New(cfg, st, WithClock(clock)), st
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return v
}

func seedSession(t *testing.T, h http.Handler) {
	t.Helper()
	rec := doJSON(t, h, http.MethodPost, "/api/sessions", map[string]any{
		"session_id":   "s1",
		"project_name": "Website Launch",
		"tasks": []schedule.Task{
			{ID: "task_1", Title: "Design", DurationDays: 2, Owner: "Alice"},
			{ID: "task_2", Title: "Build", DurationDays: 3, Owner: "Bob", Dependencies: []string{"task_1"}},
		},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("seed session: status %d: %s", rec.Code, rec.Body.String())
	}
}

func generate(t *testing.T, h http.Handler) *store.Plan {
	t.Helper()
	rec := doJSON(t, h, http.MethodPost, "/api/generate_report", map[string]any{
		"session_id": "s1",
		"start_date": "2025-01-06",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("generate_report: status %d: %s", rec.Code, rec.Body.String())
	}
	plan := decode[*store.Plan](t, rec)
	return plan
}

func TestGenerateReport(t *testing.T) {
	s, _ := testServer(t)
	h := s.Handler()
	seedSession(t, h)

	plan := generate(t, h)
	if plan.ID == "" {
		t.Error("expected a plan id")
	}
	if plan.ProjectName != "Website Launch" {
		t.Errorf("expected project name from session, got %q", plan.ProjectName)
	}
	if plan.StartDate != "2025-01-06" || plan.EndDate != "2025-01-10" {
		t.Errorf("bad bounds: %s — %s", plan.StartDate, plan.EndDate)
	}
	if len(plan.Tasks) != 2 || plan.Tasks[1].StartDate != "2025-01-08" {
		t.Errorf("unexpected tasks: %+v", plan.Tasks)
	}
}

func TestGenerateReport_OverrideTasks(t *testing.T) {
	s, _ := testServer(t)
	h := s.Handler()
	seedSession(t, h)

	rec := doJSON(t, h, http.MethodPost, "/api/generate_report", map[string]any{
		"session_id": "s1",
		"start_date": "2025-01-06",
		"tasks": []schedule.Task{
			{ID: "task_9", Title: "Edited by hand", DurationDays: 1},
		},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	plan := decode[*store.Plan](t, rec)
	if len(plan.Tasks) != 1 || plan.Tasks[0].ID != "task_9" {
		t.Errorf("override ignored: %+v", plan.Tasks)
	}
}

func TestGenerateReport_ValidationErrors(t *testing.T) {
	s, _ := testServer(t)
	h := s.Handler()

	cases := []struct {
		name  string
		tasks []schedule.Task
		want  string
	}{
		{
			name: "dangling dependency",
			tasks: []schedule.Task{
				{ID: "task_1", Title: "B", DurationDays: 1, Dependencies: []string{"X"}},
			},
			want: `"X"`,
		},
		{
			name: "cycle",
			tasks: []schedule.Task{
				{ID: "a", Title: "A", DurationDays: 1, Dependencies: []string{"b"}},
				{ID: "b", Title: "B", DurationDays: 1, Dependencies: []string{"a"}},
			},
			want: "cycle",
		},
		{
			name: "bad duration",
			tasks: []schedule.Task{
				{ID: "task_1", Title: "A", DurationDays: -2},
			},
			want: `"task_1"`,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doJSON(t, h, http.MethodPost, "/api/generate_report", map[string]any{
				"start_date": "2025-01-06",
				"tasks":      tc.tasks,
			})
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
			}
			detail := decode[map[string]string](t, rec)["detail"]
			if !strings.Contains(detail, tc.want) {
				t.Errorf("detail %q does not name %q", detail, tc.want)
			}
		})
	}
}

func TestGenerateReport_UnknownSession(t *testing.T) {
	s, _ := testServer(t)
	h := s.Handler()

	rec := doJSON(t, h, http.MethodPost, "/api/generate_report", map[string]any{
		"session_id": "ghost",
	})
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestGanttData(t *testing.T) {
	s, _ := testServer(t)
	h := s.Handler()
	seedSession(t, h)
	plan := generate(t, h)

	rec := doJSON(t, h, http.MethodGet, "/api/gantt_data/"+plan.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}

	items := decode[[]map[string]string](t, rec)
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0]["content"] != "Design" || items[0]["group"] != "Alice" {
		t.Errorf("unexpected item: %v", items[0])
	}
	if items[0]["start"] != "2025-01-06" || items[0]["end"] != "2025-01-07" {
		t.Errorf("unexpected dates: %v", items[0])
	}
}

func TestGanttData_UnknownPlan(t *testing.T) {
	s, _ := testServer(t)
	h := s.Handler()

	rec := doJSON(t, h, http.MethodGet, "/api/gantt_data/nope", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if detail := decode[map[string]string](t, rec)["detail"]; detail != "Plan not found" {
		t.Errorf("unexpected detail %q", detail)
	}
}

func TestReport_FullPlan(t *testing.T) {
	s, _ := testServer(t)
	h := s.Handler()
	seedSession(t, h)
	plan := generate(t, h)

	rec := doJSON(t, h, http.MethodGet, "/api/report/"+plan.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	got := decode[*store.Plan](t, rec)
	if got.ID != plan.ID || len(got.Tasks) != 2 {
		t.Errorf("unexpected plan: %+v", got)
	}
}

func TestReportCSV(t *testing.T) {
	s, _ := testServer(t)
	h := s.Handler()
	seedSession(t, h)
	plan := generate(t, h)

	rec := doJSON(t, h, http.MethodGet, "/api/report/"+plan.ID+"/csv", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/csv" {
		t.Errorf("expected text/csv, got %q", ct)
	}
	want := fmt.Sprintf("attachment; filename=plan_%s.csv", plan.ID)
	if cd := rec.Header().Get("Content-Disposition"); cd != want {
		t.Errorf("expected %q, got %q", want, cd)
	}
	if !strings.HasPrefix(rec.Body.String(), "Task ID,Title,") {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}

func TestReportCSV_UnknownPlan(t *testing.T) {
	s, _ := testServer(t)
	h := s.Handler()

	rec := doJSON(t, h, http.MethodGet, "/api/report/nope/csv", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestUpsertSession_MintsID(t *testing.T) {
	s, _ := testServer(t)
	h := s.Handler()

	rec := doJSON(t, h, http.MethodPost, "/api/sessions", map[string]any{
		"project_name": "Anonymous",
		"tasks":        []schedule.Task{{ID: "task_1", Title: "A", DurationDays: 1}},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	sess := decode[*store.Session](t, rec)
	if sess.ID == "" {
		t.Error("expected a minted session id")
	}
}

func TestSessionChanges(t *testing.T) {
	s, _ := testServer(t)
	h := s.Handler()
	seedSession(t, h)

	rec := doJSON(t, h, http.MethodPost, "/api/sessions/s1/changes", map[string]any{
		"action": "update",
		"modifications": []map[string]any{
			{"task_id": "task_1", "changes": map[string]any{"duration_days": 4}},
		},
		"new_tasks": []schedule.Task{
			{Title: "Testing phase", DurationDays: 5, Dependencies: []string{"task_2"}},
		},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}

	sess := decode[*store.Session](t, rec)
	if len(sess.Tasks) != 3 {
		t.Fatalf("expected 3 tasks, got %d", len(sess.Tasks))
	}
	if sess.Tasks[0].DurationDays != 4 {
		t.Errorf("duration change lost: %+v", sess.Tasks[0])
	}
	if sess.Tasks[2].ID != "task_3" {
		t.Errorf("expected generated id task_3, got %q", sess.Tasks[2].ID)
	}
}

func TestSessionChanges_UnknownSession(t *testing.T) {
	s, _ := testServer(t)
	h := s.Handler()

	rec := doJSON(t, h, http.MethodPost, "/api/sessions/ghost/changes", map[string]any{
		"action": "none",
	})
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestInvalidJSONBody(t *testing.T) {
	s, _ := testServer(t)
	h := s.Handler()

	req := httptest.NewRequest(http.MethodPost, "/api/generate_report", strings.NewReader("{nope"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestHealth(t *testing.T) {
	s, _ := testServer(t)
	h := s.Handler()

	rec := doJSON(t, h, http.MethodGet, "/api/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	body := decode[map[string]any](t, rec)
	if body["service"] != "pland" {
		t.Errorf("unexpected body: %v", body)
	}
}

func TestCORS(t *testing.T) {
	s, _ := testServer(t)
	h := s.Handler()

	req := httptest.NewRequest(http.MethodOptions, "/api/generate_report", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("preflight status %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("expected allowed origin echoed, got %q", got)
	}

	// Unlisted origins get no CORS headers.
	req = httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("Origin", "http://evil.example")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("unexpected CORS header for unlisted origin: %q", got)
	}
}

func TestStartShutdown(t *testing.T) {
	s, _ := testServer(t)
	s.cfg.Listen = "127.0.0.1:0"

	if err := s.Start(nil); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if s.CurrentStatus() != StatusReady {
		t.Errorf("expected ready, got %s", s.CurrentStatus())
	}

	resp, err := http.Get("http://" + s.Addr() + "/api/health")
	if err != nil {
		t.Fatalf("GET health: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("health status %d", resp.StatusCode)
	}

	if err := s.Shutdown(nil); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
}
