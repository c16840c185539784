package models

import "encoding/json"

// Routine is a named multi-day training plan authored by the admin console.
type Routine struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// ExerciseAssignment places one exercise on one day of a routine.
//
// PlannedSets carries whatever the authoring side stored: a JSON array, a bare
// number, free text, or JSON that was string-encoded one or more times. It is
// kept raw here and normalized at the read boundary (progress.NormalizeRaw).
type ExerciseAssignment struct {
	ID           int             `json:"id"`
	RoutineID    int             `json:"routineId"`
	ExerciseName string          `json:"exerciseName"`
	Day          int             `json:"day"`
	PlannedSets  json.RawMessage `json:"plannedSets"`
	RestSeconds  int             `json:"restSeconds"`
	Notes        string          `json:"notes"`
}
