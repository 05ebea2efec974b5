package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/imkarma/pland/internal/report"
	"github.com/imkarma/pland/internal/schedule"
	"github.com/imkarma/pland/internal/store"
)

// maxBodyBytes caps request bodies; plans are small.
const maxBodyBytes = 1 << 20

type generateReportRequest struct {
	SessionID string          `json:"session_id"`
	StartDate string          `json:"start_date,omitempty"`
	Tasks     []schedule.Task `json:"tasks,omitempty"`
}

type upsertSessionRequest struct {
	SessionID   string          `json:"session_id,omitempty"`
	ProjectName string          `json:"project_name"`
	Tasks       []schedule.Task `json:"tasks"`
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "pland API is running",
		"version": "1.0.0",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":         string(s.CurrentStatus()),
		"service":        "pland",
		"uptime_seconds": s.uptimeSeconds(),
	})
}

func (s *Server) handleGenerateReport(w http.ResponseWriter, r *http.Request) {
	var req generateReportRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	plan, err := s.generator.Generate(req.SessionID, req.StartDate, req.Tasks)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

func (s *Server) handleGanttData(w http.ResponseWriter, r *http.Request) {
	items, err := s.generator.GanttData(r.PathValue("plan_id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	plan, err := s.generator.Plan(r.PathValue("plan_id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

func (s *Server) handleReportCSV(w http.ResponseWriter, r *http.Request) {
	planID := r.PathValue("plan_id")

	// Buffer the CSV so a late store failure never truncates a response
	// already in flight.
	var buf bytes.Buffer
	if err := s.generator.ExportCSV(planID, &buf); err != nil {
		s.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=plan_%s.csv", planID))
	w.Write(buf.Bytes())
}

func (s *Server) handleUpsertSession(w http.ResponseWriter, r *http.Request) {
	var req upsertSessionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.SessionID == "" {
		req.SessionID = uuid.NewString()
	}

	sess, err := s.store.UpsertSession(req.SessionID, req.ProjectName, req.Tasks)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (s *Server) handleSessionChanges(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("session_id")

	var cs schedule.ChangeSet
	if !decodeJSON(w, r, &cs) {
		return
	}

	sess, err := s.store.GetSession(sessionID)
	if err != nil {
		s.writeError(w, err)
		return
	}

	revised := schedule.ApplyChanges(sess.Tasks, cs)
	sess, err = s.store.UpsertSession(sess.ID, sess.ProjectName, revised)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

// decodeJSON reads and unmarshals the request body into v, writing a 400
// and returning false on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		writeDetail(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON body: %v", err))
		return false
	}
	return true
}

// writeError maps domain errors onto HTTP statuses: scheduler validation
// failures and malformed dates are client errors naming the offending
// task; unknown plans and sessions are 404s; anything else is a 500.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	switch {
	case schedule.IsValidationError(err),
		errors.Is(err, report.ErrInvalidStartDate),
		errors.Is(err, report.ErrNoTasks):
		writeDetail(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, store.ErrPlanNotFound):
		writeDetail(w, http.StatusNotFound, "Plan not found")
	case errors.Is(err, store.ErrSessionNotFound):
		writeDetail(w, http.StatusNotFound, "Session not found")
	default:
		s.logger.Error("request failed", "error", err)
		writeDetail(w, http.StatusInternalServerError, "internal error")
	}
}

// writeDetail emits the {"detail": ...} error shape the frontend expects.
func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		// Headers are gone; nothing useful left to do.
		return
	}
}
