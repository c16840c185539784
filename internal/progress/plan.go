package progress

import (
	"fmt"
	"strings"

	"github.com/XpoolX/vitalgym-sub000/internal/models"
)

// SessionEntry is one exercise result as submitted by a member.
type SessionEntry struct {
	AssignmentID int                `json:"assignmentId"`
	Name         string             `json:"name"`
	SetResults   []models.SetResult `json:"perSetResults"`
	Notes        string             `json:"notes"`
}

// PlannedExercise is one validated, snapshot-complete record ready to persist.
type PlannedExercise struct {
	AssignmentID    int
	Position        int
	ExerciseName    string
	PlannedSetsText string
	SetResults      []models.SetResult
	Notes           string
}

// SessionPlan is the validated outcome of a workout submission: everything the
// storage transaction needs to execute without making further decisions.
type SessionPlan struct {
	RoutineID int
	Day       int
	NextDay   int
	Exercises []PlannedExercise
}

// PlanSession validates a submission against the routine's current assignment
// set and produces the records to persist plus the advanced cursor.
//
// The assignment set must be the one read inside the recording transaction,
// not an earlier request-time read: a day that sits inside the routine's day
// range but is no longer a member means the routine changed underneath the
// member mid-workout, which is a conflict rather than bad input.
//
// Exercise display names and planned-sets text are snapshotted here so the
// session stays a stable historical fact when assignments are later edited or
// deleted.
func PlanSession(routineID, day int, assignments []models.ExerciseAssignment, entries []SessionEntry) (*SessionPlan, error) {
	days := AvailableDays(assignments)
	if len(days) == 0 {
		return nil, ErrNoTrainingDays
	}
	if day < days[0] || day > days[len(days)-1] {
		return nil, fmt.Errorf("%w: day %d not in %v", ErrInvalidDay, day, days)
	}
	if !containsDay(days, day) {
		return nil, fmt.Errorf("%w: day %d, routine now has %v", ErrDayConflict, day, days)
	}
	if len(entries) == 0 {
		return nil, ErrEmptySession
	}

	byID := make(map[int]models.ExerciseAssignment, len(assignments))
	for _, a := range assignments {
		byID[a.ID] = a
	}

	plan := &SessionPlan{
		RoutineID: routineID,
		Day:       day,
		NextDay:   Advance(day, days),
		Exercises: make([]PlannedExercise, 0, len(entries)),
	}

	for i, e := range entries {
		a, ok := byID[e.AssignmentID]
		if !ok {
			return nil, fmt.Errorf("%w: id %d", ErrUnknownAssignment, e.AssignmentID)
		}
		if len(e.SetResults) == 0 {
			return nil, fmt.Errorf("%w: assignment %d has no sets", ErrMalformedSets, e.AssignmentID)
		}
		for _, sr := range e.SetResults {
			if sr.SetNumber < 1 || sr.Reps < 0 {
				return nil, fmt.Errorf("%w: assignment %d set %d", ErrMalformedSets, e.AssignmentID, sr.SetNumber)
			}
		}

		name := a.ExerciseName
		if name == "" {
			name = strings.TrimSpace(e.Name)
		}

		plan.Exercises = append(plan.Exercises, PlannedExercise{
			AssignmentID:    a.ID,
			Position:        i + 1,
			ExerciseName:    name,
			PlannedSetsText: strings.Join(NormalizeRaw(a.PlannedSets), ", "),
			SetResults:      e.SetResults,
			Notes:           e.Notes,
		})
	}

	return plan, nil
}

func containsDay(days []int, day int) bool {
	for _, d := range days {
		if d == day {
			return true
		}
	}
	return false
}
