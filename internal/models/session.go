package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Session is one completed workout. Rows are append-only: once written they are
// a historical fact and are never updated.
type Session struct {
	ID          uuid.UUID `json:"id"`
	UserID      int       `json:"userId"`
	RoutineID   int       `json:"routineId"`
	Day         int       `json:"day"`
	PerformedAt time.Time `json:"performedAt"`
	Completed   bool      `json:"completed"`
}

// SessionExercise is one exercise performed within a session. AssignmentID is a
// weak reference — the assignment may be edited or deleted later — so the
// exercise name and planned-sets text are snapshotted at write time.
type SessionExercise struct {
	ID              int         `json:"id"`
	SessionID       uuid.UUID   `json:"sessionId"`
	AssignmentID    int         `json:"assignmentId"`
	Position        int         `json:"position"`
	ExerciseName    string      `json:"exerciseName"`
	PlannedSetsText string      `json:"plannedSetsText"`
	SetResults      []SetResult `json:"setResults"`
	Notes           string      `json:"notes"`
}

// SetResult is the outcome of a single set.
type SetResult struct {
	SetNumber int    `json:"setNumber"`
	Reps      int    `json:"reps"`
	Weight    Weight `json:"weight"`
	Completed bool   `json:"completed"`
}

// Weight is a set weight as entered by the member. Clients send either a JSON
// number or a string ("82.5", "BW+10"), so it decodes from both and always
// serializes back as a string.
type Weight string

func (w *Weight) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*w = Weight(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err == nil {
		*w = Weight(n.String())
		return nil
	}
	return fmt.Errorf("weight must be a string or number, got %s", b)
}

func (w Weight) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(w))
}
