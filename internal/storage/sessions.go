package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/XpoolX/vitalgym-sub000/internal/models"
	"github.com/XpoolX/vitalgym-sub000/internal/progress"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// SessionResult is what a successful workout submission returns.
type SessionResult struct {
	SessionID uuid.UUID `json:"sessionId"`
	NextDay   int       `json:"nextDay"`
}

// RecordSession persists a completed workout and advances the user's training
// day cursor, all inside one serializable transaction.
//
// The user row is locked FOR UPDATE so concurrent submissions for the same
// user serialize instead of both reading the same stale cursor. Assignments
// are re-read inside the transaction and the day number is revalidated against
// that commit-time set; a routine restructured mid-workout surfaces as
// progress.ErrDayConflict. Any failure rolls back everything: no session
// without its records, no cursor advance without a session.
func (db *DB) RecordSession(ctx context.Context, userID, day int, entries []progress.SessionEntry) (*SessionResult, error) {
	tx, err := db.Pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var routineID *int
	err = tx.QueryRow(ctx,
		`SELECT routine_id FROM users WHERE id = $1 FOR UPDATE`,
		userID).Scan(&routineID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("user %d: %w", userID, progress.ErrNoRoutine)
	}
	if err != nil {
		return nil, fmt.Errorf("locking user: %w", err)
	}
	if routineID == nil {
		return nil, fmt.Errorf("user %d: %w", userID, progress.ErrNoRoutine)
	}

	assignments, err := assignmentsInTx(ctx, tx, *routineID)
	if err != nil {
		return nil, err
	}

	plan, err := progress.PlanSession(*routineID, day, assignments, entries)
	if err != nil {
		return nil, err
	}

	sessionID := uuid.New()
	_, err = tx.Exec(ctx,
		`INSERT INTO sessions (id, user_id, routine_id, day, performed_at, completed)
		 VALUES ($1, $2, $3, $4, $5, TRUE)`,
		sessionID, userID, plan.RoutineID, plan.Day, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("inserting session: %w", err)
	}

	if err := insertSessionExercises(ctx, tx, sessionID, plan.Exercises); err != nil {
		return nil, err
	}

	_, err = tx.Exec(ctx,
		`UPDATE users SET current_training_day = $1 WHERE id = $2`,
		plan.NextDay, userID)
	if err != nil {
		return nil, fmt.Errorf("advancing cursor: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing session: %w", err)
	}

	return &SessionResult{SessionID: sessionID, NextDay: plan.NextDay}, nil
}

func assignmentsInTx(ctx context.Context, tx pgx.Tx, routineID int) ([]models.ExerciseAssignment, error) {
	rows, err := tx.Query(ctx,
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

// insertSessionExercises batch-inserts the per-exercise records of a session,
// preserving submission order via the position column.
func insertSessionExercises(ctx context.Context, tx pgx.Tx, sessionID uuid.UUID, exercises []progress.PlannedExercise) error {
	if len(exercises) == 0 {
		return nil
	}

	query := `INSERT INTO session_exercises (session_id, assignment_id, position,
		exercise_name, planned_sets_text, set_results, notes) VALUES `
	args := make([]any, 0, len(exercises)*7)
	valueStrings := make([]string, 0, len(exercises))

	for i, e := range exercises {
		setJSON, err := json.Marshal(e.SetResults)
		if err != nil {
			return fmt.Errorf("encoding set results: %w", err)
		}
		base := i * 7
		valueStrings = append(valueStrings, fmt.Sprintf(
			"($%d,$%d,$%d,$%d,$%d,$%d,$%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7,
		))
		args = append(args, sessionID, e.AssignmentID, e.Position,
			e.ExerciseName, e.PlannedSetsText, setJSON, e.Notes)
	}

	query += strings.Join(valueStrings, ",")

	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("inserting session exercises: %w", err)
	}
	return nil
}

// LastPerformance is the most recent recorded outcome for one assignment.
type LastPerformance struct {
	Found       bool               `json:"found"`
	SetResults  []models.SetResult `json:"perSetResults,omitempty"`
	Notes       string             `json:"notes,omitempty"`
	PerformedAt *time.Time         `json:"when,omitempty"`
}

// GetLastPerformance finds the user's most recent record for an assignment,
// scoped to sessions recorded under the user's currently assigned routine.
// Records from a previously assigned routine are ignored. No prior record is
// a found=false result, not an error.
func (db *DB) GetLastPerformance(ctx context.Context, userID, assignmentID int) (*LastPerformance, error) {
	var setJSON []byte
	var notes string
	var performedAt time.Time
	err := db.Pool.QueryRow(ctx,
		`SELECT se.set_results, se.notes, s.performed_at
		 FROM session_exercises se
		 JOIN sessions s ON s.id = se.session_id
		 JOIN users u ON u.id = s.user_id
		 WHERE s.user_id = $1
		   AND se.assignment_id = $2
		   AND s.routine_id = u.routine_id
		 ORDER BY s.performed_at DESC
		 LIMIT 1`,
		userID, assignmentID).Scan(&setJSON, &notes, &performedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return &LastPerformance{Found: false}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying last performance: %w", err)
	}

	var sets []models.SetResult
	if err := json.Unmarshal(setJSON, &sets); err != nil {
		return nil, fmt.Errorf("decoding set results: %w", err)
	}
	return &LastPerformance{Found: true, SetResults: sets, Notes: notes, PerformedAt: &performedAt}, nil
}

// SessionSummary is one row of a user's recent session history.
type SessionSummary struct {
	ID            uuid.UUID `json:"id"`
	RoutineID     int       `json:"routineId"`
	Day           int       `json:"day"`
	PerformedAt   time.Time `json:"performedAt"`
	ExerciseCount int       `json:"exerciseCount"`
}

// SessionHistory retrieves the user's most recent sessions, newest first.
func (db *DB) SessionHistory(ctx context.Context, userID, limit int) ([]SessionSummary, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT s.id, s.routine_id, s.day, s.performed_at,
		        (SELECT COUNT(*) FROM session_exercises se WHERE se.session_id = s.id)
		 FROM sessions s
		 WHERE s.user_id = $1
		 ORDER BY s.performed_at DESC
		 LIMIT $2`,
		userID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying session history: %w", err)
	}
	defer rows.Close()

	var result []SessionSummary
	for rows.Next() {
		var s SessionSummary
		if err := rows.Scan(&s.ID, &s.RoutineID, &s.Day, &s.PerformedAt, &s.ExerciseCount); err != nil {
			return nil, fmt.Errorf("scanning session summary: %w", err)
		}
		result = append(result, s)
	}
	return result, rows.Err()
}

// InsertImportedSession inserts a historical session with its records without
// touching the user's cursor. The caller supplies a deterministic session ID
// so re-running an import is idempotent. Returns true if inserted, false if
// the session already existed.
func (db *DB) InsertImportedSession(ctx context.Context, session models.Session, exercises []models.SessionExercise) (bool, error) {
	tx, err := db.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return false, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`INSERT INTO sessions (id, user_id, routine_id, day, performed_at, completed)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (id) DO NOTHING`,
		session.ID, session.UserID, session.RoutineID, session.Day,
		session.PerformedAt, session.Completed)
	if err != nil {
		return false, fmt.Errorf("inserting imported session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}

	planned := make([]progress.PlannedExercise, 0, len(exercises))
	for _, e := range exercises {
		planned = append(planned, progress.PlannedExercise{
			AssignmentID:    e.AssignmentID,
			Position:        e.Position,
			ExerciseName:    e.ExerciseName,
			PlannedSetsText: e.PlannedSetsText,
			SetResults:      e.SetResults,
			Notes:           e.Notes,
		})
	}
	if err := insertSessionExercises(ctx, tx, session.ID, planned); err != nil {
		return false, err
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("committing imported session: %w", err)
	}
	return true, nil
}
