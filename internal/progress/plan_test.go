package progress

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/XpoolX/vitalgym-sub000/internal/models"
)

func benchAssignments() []models.ExerciseAssignment {
	return []models.ExerciseAssignment{
		{ID: 11, RoutineID: 7, ExerciseName: "Back Squat", Day: 1, PlannedSets: json.RawMessage(`"[5,5,5]"`)},
		{ID: 12, RoutineID: 7, ExerciseName: "Bench Press", Day: 1, PlannedSets: json.RawMessage(`"10-10-8"`)},
		{ID: 13, RoutineID: 7, ExerciseName: "Deadlift", Day: 2, PlannedSets: json.RawMessage(`[5,3,1]`)},
		{ID: 14, RoutineID: 7, ExerciseName: "Pull Up", Day: 3, PlannedSets: json.RawMessage(`null`)},
	}
}

func sets(ns ...int) []models.SetResult {
	var out []models.SetResult
	for i, reps := range ns {
		out = append(out, models.SetResult{SetNumber: i + 1, Reps: reps, Weight: "80", Completed: true})
	}
	return out
}

func TestPlanSession(t *testing.T) {
	plan, err := PlanSession(7, 1, benchAssignments(), []SessionEntry{
		{AssignmentID: 12, SetResults: sets(10, 10, 8), Notes: "felt heavy"},
		{AssignmentID: 11, SetResults: sets(5, 5, 5)},
	})
	if err != nil {
		t.Fatalf("PlanSession error: %v", err)
	}

	if plan.Day != 1 || plan.NextDay != 2 {
		t.Errorf("day/next = %d/%d, want 1/2", plan.Day, plan.NextDay)
	}
	if plan.RoutineID != 7 {
		t.Errorf("routine = %d, want 7", plan.RoutineID)
	}
	if len(plan.Exercises) != 2 {
		t.Fatalf("exercises = %d, want 2", len(plan.Exercises))
	}

	// Input order preserved, positions assigned in order.
	first := plan.Exercises[0]
	if first.AssignmentID != 12 || first.Position != 1 {
		t.Errorf("first = assignment %d pos %d, want 12 pos 1", first.AssignmentID, first.Position)
	}
	if first.ExerciseName != "Bench Press" {
		t.Errorf("name = %q, want snapshot from assignment", first.ExerciseName)
	}
	if first.PlannedSetsText != "10, 10, 8" {
		t.Errorf("planned sets text = %q, want %q", first.PlannedSetsText, "10, 10, 8")
	}
	if first.Notes != "felt heavy" {
		t.Errorf("notes = %q, want %q", first.Notes, "felt heavy")
	}
	if plan.Exercises[1].Position != 2 {
		t.Errorf("second position = %d, want 2", plan.Exercises[1].Position)
	}
}

func TestPlanSessionWrapsLastDay(t *testing.T) {
	plan, err := PlanSession(7, 3, benchAssignments(), []SessionEntry{
		{AssignmentID: 14, SetResults: sets(8)},
	})
	if err != nil {
		t.Fatalf("PlanSession error: %v", err)
	}
	if plan.NextDay != 1 {
		t.Errorf("NextDay = %d, want wrap to 1", plan.NextDay)
	}
}

func TestPlanSessionErrors(t *testing.T) {
	asgs := benchAssignments()
	tests := []struct {
		name    string
		day     int
		asgs    []models.ExerciseAssignment
		entries []SessionEntry
		want    error
	}{
		{"no days", 1, nil, []SessionEntry{{AssignmentID: 11, SetResults: sets(5)}}, ErrNoTrainingDays},
		{"day below range", 0, asgs, []SessionEntry{{AssignmentID: 11, SetResults: sets(5)}}, ErrInvalidDay},
		{"day above range", 9, asgs, []SessionEntry{{AssignmentID: 11, SetResults: sets(5)}}, ErrInvalidDay},
		{"empty entries", 1, asgs, nil, ErrEmptySession},
		{"unknown assignment", 1, asgs, []SessionEntry{{AssignmentID: 999, SetResults: sets(5)}}, ErrUnknownAssignment},
		{"no sets", 1, asgs, []SessionEntry{{AssignmentID: 11}}, ErrMalformedSets},
		{"bad set number", 1, asgs, []SessionEntry{{AssignmentID: 11, SetResults: []models.SetResult{{SetNumber: 0, Reps: 5}}}}, ErrMalformedSets},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := PlanSession(7, tt.day, tt.asgs, tt.entries)
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

// A day inside the routine's range that is no longer a member means the
// routine changed between read and commit: a conflict, not bad input.
func TestPlanSessionDayConflict(t *testing.T) {
	asgs := []models.ExerciseAssignment{
		{ID: 11, RoutineID: 7, ExerciseName: "Squat", Day: 1},
		{ID: 13, RoutineID: 7, ExerciseName: "Deadlift", Day: 3},
	}
	_, err := PlanSession(7, 2, asgs, []SessionEntry{{AssignmentID: 11, SetResults: sets(5)}})
	if !errors.Is(err, ErrDayConflict) {
		t.Errorf("err = %v, want ErrDayConflict", err)
	}
}
