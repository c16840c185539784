package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/XpoolX/vitalgym-sub000/internal/models"
	"github.com/XpoolX/vitalgym-sub000/internal/progress"
	"github.com/XpoolX/vitalgym-sub000/internal/storage"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	info, ok := userInfoFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "no resolved user"})
		return
	}
	writeJSON(w, http.StatusOK, info)
}

// currentDayResponse tells the member where they are in the routine's cycle.
type currentDayResponse struct {
	CurrentDay    int    `json:"currentDay"`
	TotalDays     int    `json:"totalDays"`
	AvailableDays []int  `json:"availableDays"`
	RoutineID     int    `json:"routineId"`
	RoutineName   string `json:"routineName"`
}

func (s *Server) handleCurrentDay(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}

	state, err := s.db.GetTrainingState(r.Context(), uid)
	if err != nil {
		s.writeError(w, err, "loading training state")
		return
	}

	routine, err := s.db.GetRoutine(r.Context(), state.RoutineID)
	if err != nil {
		s.writeError(w, err, "loading routine")
		return
	}

	assignments, err := s.db.RoutineAssignments(r.Context(), state.RoutineID)
	if err != nil {
		s.writeError(w, err, "loading assignments")
		return
	}

	days := progress.AvailableDays(assignments)
	current, err := progress.CurrentDay(state.Cursor, days)
	if err != nil {
		s.writeError(w, err, "resolving current day")
		return
	}

	writeJSON(w, http.StatusOK, currentDayResponse{
		CurrentDay:    current,
		TotalDays:     len(days),
		AvailableDays: days,
		RoutineID:     routine.ID,
		RoutineName:   routine.Name,
	})
}

// dayExercise is one assignment prepared for display: plannedSets already
// normalized into tokens, never the raw heterogeneous value.
type dayExercise struct {
	AssignmentID int      `json:"assignmentId"`
	ExerciseName string   `json:"exerciseName"`
	PlannedSets  []string `json:"plannedSets"`
	RestSeconds  int      `json:"restSeconds"`
	Notes        string   `json:"notes"`
}

func (s *Server) handleDayExercises(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}

	day, err := strconv.Atoi(chi.URLParam(r, "day"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid day number"})
		return
	}

	state, err := s.db.GetTrainingState(r.Context(), uid)
	if err != nil {
		s.writeError(w, err, "loading training state")
		return
	}

	assignments, err := s.db.RoutineAssignments(r.Context(), state.RoutineID)
	if err != nil {
		s.writeError(w, err, "loading assignments")
		return
	}

	days := progress.AvailableDays(assignments)
	found := false
	for _, d := range days {
		if d == day {
			found = true
			break
		}
	}
	if !found {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "day not in routine"})
		return
	}

	exercises := make([]dayExercise, 0)
	for _, a := range assignments {
		if a.Day != day {
			continue
		}
		tokens := progress.NormalizeRaw(a.PlannedSets)
		if tokens == nil {
			tokens = []string{}
		}
		exercises = append(exercises, dayExercise{
			AssignmentID: a.ID,
			ExerciseName: a.ExerciseName,
			PlannedSets:  tokens,
			RestSeconds:  a.RestSeconds,
			Notes:        a.Notes,
		})
	}

	writeJSON(w, http.StatusOK, exercises)
}

// submitSessionRequest is a completed workout as sent by the member app.
type submitSessionRequest struct {
	DayNumber int                     `json:"dayNumber"`
	Exercises []progress.SessionEntry `json:"exercises"`
}

func (s *Server) handleSubmitSession(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}

	var req submitSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	result, err := s.db.RecordSession(r.Context(), uid, req.DayNumber, req.Exercises)
	if err != nil {
		s.writeError(w, err, "recording session")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleLastPerformance(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}

	assignmentID, err := strconv.Atoi(chi.URLParam(r, "assignmentID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid assignment ID"})
		return
	}

	last, err := s.db.GetLastPerformance(r.Context(), uid, assignmentID)
	if err != nil {
		s.writeError(w, err, "loading last performance")
		return
	}
	writeJSON(w, http.StatusOK, last)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}

	limit := 20
	if l := r.URL.Query().Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 && parsed <= 200 {
			limit = parsed
		}
	}

	history, err := s.db.SessionHistory(r.Context(), uid, limit)
	if err != nil {
		s.writeError(w, err, "loading session history")
		return
	}
	if history == nil {
		history = []storage.SessionSummary{}
	}
	writeJSON(w, http.StatusOK, history)
}

// importSessionRequest is one historical session pushed by the legacy-system
// importer. sessionKey makes the insert idempotent across re-runs.
type importSessionRequest struct {
	Login       string    `json:"login"`
	SessionKey  string    `json:"sessionKey"`
	RoutineID   int       `json:"routineId"`
	DayNumber   int       `json:"dayNumber"`
	PerformedAt time.Time `json:"performedAt"`
	Exercises   []struct {
		AssignmentID    int                `json:"assignmentId"`
		ExerciseName    string             `json:"exerciseName"`
		PlannedSetsText string             `json:"plannedSetsText"`
		SetResults      []models.SetResult `json:"perSetResults"`
		Notes           string             `json:"notes"`
	} `json:"exercises"`
}

func (s *Server) handleImportSession(w http.ResponseWriter, r *http.Request) {
	var req importSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if req.Login == "" || req.SessionKey == "" || len(req.Exercises) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "login, sessionKey and exercises are required"})
		return
	}

	uid, err := s.db.GetOrCreateUser(r.Context(), req.Login, "")
	if err != nil {
		s.writeError(w, err, "resolving import user")
		return
	}

	session := models.Session{
		ID:          uuid.NewSHA1(uuid.NameSpaceOID, []byte(req.Login+"|"+req.SessionKey)),
		UserID:      uid,
		RoutineID:   req.RoutineID,
		Day:         req.DayNumber,
		PerformedAt: req.PerformedAt,
		Completed:   true,
	}
	exercises := make([]models.SessionExercise, 0, len(req.Exercises))
	for i, e := range req.Exercises {
		exercises = append(exercises, models.SessionExercise{
			SessionID:       session.ID,
			AssignmentID:    e.AssignmentID,
			Position:        i + 1,
			ExerciseName:    e.ExerciseName,
			PlannedSetsText: e.PlannedSetsText,
			SetResults:      e.SetResults,
			Notes:           e.Notes,
		})
	}

	inserted, err := s.db.InsertImportedSession(r.Context(), session, exercises)
	if err != nil {
		s.writeError(w, err, "importing session")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"sessionId": session.ID, "inserted": inserted})
}

// writeError maps engine errors onto the HTTP taxonomy: missing routine or
// empty day set → 404, validation failures → 400, mid-workout routine change →
// 409, everything else → 500.
func (s *Server) writeError(w http.ResponseWriter, err error, doing string) {
	switch {
	case errors.Is(err, progress.ErrNoRoutine), errors.Is(err, progress.ErrNoTrainingDays):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, progress.ErrDayConflict):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	case errors.Is(err, progress.ErrInvalidDay),
		errors.Is(err, progress.ErrEmptySession),
		errors.Is(err, progress.ErrUnknownAssignment),
		errors.Is(err, progress.ErrMalformedSets):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	default:
		s.log.Error(doing, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
