package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/XpoolX/vitalgym-sub000/internal/models"
	"github.com/XpoolX/vitalgym-sub000/internal/progress"
	"github.com/jackc/pgx/v5"
)

// GetRoutine retrieves a routine by ID.
func (db *DB) GetRoutine(ctx context.Context, id int) (*models.Routine, error) {
	var r models.Routine
	err := db.Pool.QueryRow(ctx,
		`SELECT id, name FROM routines WHERE id = $1`, id).Scan(&r.ID, &r.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("routine %d: %w", id, progress.ErrNoRoutine)
	}
	if err != nil {
		return nil, fmt.Errorf("querying routine: %w", err)
	}
	return &r, nil
}

// RoutineAssignments retrieves a routine's exercise assignments ordered by day
// then by id, which is the display order the authoring flow produces.
func (db *DB) RoutineAssignments(ctx context.Context, routineID int) ([]models.ExerciseAssignment, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, routine_id, exercise_name, day, planned_sets, rest_seconds, notes
		 FROM exercise_assignments
		 WHERE routine_id = $1
		 ORDER BY day ASC, id ASC`,
		routineID)
	if err != nil {
		return nil, fmt.Errorf("querying assignments: %w", err)
	}
	defer rows.Close()

	var result []models.ExerciseAssignment
	for rows.Next() {
		var a models.ExerciseAssignment
		if err := rows.Scan(&a.ID, &a.RoutineID, &a.ExerciseName, &a.Day,
			&a.PlannedSets, &a.RestSeconds, &a.Notes); err != nil {
			return nil, fmt.Errorf("scanning assignment: %w", err)
		}
		result = append(result, a)
	}
	return result, rows.Err()
}
