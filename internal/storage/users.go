package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/XpoolX/vitalgym-sub000/internal/progress"
	"github.com/jackc/pgx/v5"
)

// GetOrCreateUser finds or creates a user by login name. Returns the user ID.
// Updates last_seen and display_name on each call. New users start with the
// training-day cursor at 1.
func (db *DB) GetOrCreateUser(ctx context.Context, login, displayName string) (int, error) {
	var id int
	err := db.Pool.QueryRow(ctx, `
		INSERT INTO users (login, display_name)
		VALUES ($1, $2)
		ON CONFLICT (login) DO UPDATE
			SET last_seen = NOW(), display_name = COALESCE(NULLIF($2, ''), users.display_name)
		RETURNING id
	`, login, displayName).Scan(&id)
	return id, err
}

// TrainingState is the per-user slice of state the training engine reads.
type TrainingState struct {
	RoutineID int
	Cursor    int
}

// GetTrainingState reads the user's assigned routine and day cursor. A user
// without an assigned routine (or an unknown user) yields progress.ErrNoRoutine.
func (db *DB) GetTrainingState(ctx context.Context, userID int) (*TrainingState, error) {
	var routineID *int
	var cursor int
	err := db.Pool.QueryRow(ctx,
		`SELECT routine_id, current_training_day FROM users WHERE id = $1`,
		userID).Scan(&routineID, &cursor)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("user %d: %w", userID, progress.ErrNoRoutine)
	}
	if err != nil {
		return nil, fmt.Errorf("querying training state: %w", err)
	}
	if routineID == nil {
		return nil, fmt.Errorf("user %d: %w", userID, progress.ErrNoRoutine)
	}
	return &TrainingState{RoutineID: *routineID, Cursor: cursor}, nil
}

// AssignRoutine points a user at a routine. This is the write hook used by the
// (external) admin authoring flow; it deliberately does not touch the cursor,
// which self-heals against the new routine's day set on the next read.
func (db *DB) AssignRoutine(ctx context.Context, userID, routineID int) error {
	tag, err := db.Pool.Exec(ctx,
		`UPDATE users SET routine_id = $1 WHERE id = $2`, routineID, userID)
	if err != nil {
		return fmt.Errorf("assigning routine: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user %d: %w", userID, progress.ErrNoRoutine)
	}
	return nil
}
