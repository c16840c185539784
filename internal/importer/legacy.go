package importer

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/XpoolX/vitalgym-sub000/internal/models"
	"github.com/XpoolX/vitalgym-sub000/internal/progress"
	"github.com/google/uuid"
)

// legacyLog is one workout session in the old system's export format: one JSON
// file per session. Planned sets come in whatever shape the old system stored
// for that routine, so they stay raw until normalization.
type legacyLog struct {
	User      string           `json:"user"`
	LogID     string           `json:"logId"`
	RoutineID int              `json:"routineId"`
	Day       int              `json:"day"`
	Date      time.Time        `json:"date"`
	Exercises []legacyExercise `json:"exercises"`
}

type legacyExercise struct {
	AssignmentID int             `json:"assignmentId"`
	Name         string          `json:"name"`
	Planned      json.RawMessage `json:"planned"`
	Sets         []legacySet     `json:"sets"`
	Notes        string          `json:"notes"`
}

type legacySet struct {
	Reps      int           `json:"reps"`
	Weight    models.Weight `json:"weight"`
	Completed bool          `json:"completed"`
}

// parseLegacyLog decodes and validates a single legacy export file.
func parseLegacyLog(data []byte) (*legacyLog, error) {
	var l legacyLog
	if err := json.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("decoding legacy log: %w", err)
	}
	if l.User == "" {
		return nil, fmt.Errorf("legacy log missing user")
	}
	if l.LogID == "" {
		return nil, fmt.Errorf("legacy log missing logId")
	}
	if l.Day < 1 {
		return nil, fmt.Errorf("legacy log has invalid day %d", l.Day)
	}
	if len(l.Exercises) == 0 {
		return nil, fmt.Errorf("legacy log has no exercises")
	}
	return &l, nil
}

// sessionID derives a stable session UUID from the member login and the old
// system's log key. The same derivation is used by the import API, so a file
// imported twice (or via both paths) lands on the same row.
func (l *legacyLog) sessionID() uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(l.User+"|"+l.LogID))
}

// buildSession converts a legacy log into a session plus its exercise records.
// Planned sets are normalized here so the snapshot text matches what the live
// recording path would have written.
func buildSession(l *legacyLog, userID int) (models.Session, []models.SessionExercise) {
	session := models.Session{
		ID:          l.sessionID(),
		UserID:      userID,
		RoutineID:   l.RoutineID,
		Day:         l.Day,
		PerformedAt: l.Date.UTC(),
		Completed:   true,
	}

	exercises := make([]models.SessionExercise, 0, len(l.Exercises))
	for i, e := range l.Exercises {
		results := make([]models.SetResult, 0, len(e.Sets))
		for j, s := range e.Sets {
			results = append(results, models.SetResult{
				SetNumber: j + 1,
				Reps:      s.Reps,
				Weight:    s.Weight,
				Completed: s.Completed,
			})
		}
		exercises = append(exercises, models.SessionExercise{
			SessionID:       session.ID,
			AssignmentID:    e.AssignmentID,
			Position:        i + 1,
			ExerciseName:    e.Name,
			PlannedSetsText: strings.Join(progress.NormalizeRaw(e.Planned), ", "),
			SetResults:      results,
			Notes:           e.Notes,
		})
	}
	return session, exercises
}
