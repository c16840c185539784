package mcp

import (
	"context"

	"github.com/XpoolX/vitalgym-sub000/internal/progress"
	"github.com/XpoolX/vitalgym-sub000/internal/storage"
)

// CurrentDayInfo mirrors the REST current-day response.
type CurrentDayInfo struct {
	CurrentDay    int    `json:"currentDay"`
	TotalDays     int    `json:"totalDays"`
	AvailableDays []int  `json:"availableDays"`
	RoutineID     int    `json:"routineId"`
	RoutineName   string `json:"routineName"`
}

// DayExercise mirrors the REST day-plan entry: planned sets are already
// normalized tokens.
type DayExercise struct {
	AssignmentID int      `json:"assignmentId"`
	ExerciseName string   `json:"exerciseName"`
	PlannedSets  []string `json:"plannedSets"`
	RestSeconds  int      `json:"restSeconds"`
	Notes        string   `json:"notes"`
}

// DataSource abstracts the data layer for MCP tools. LocalSource (direct DB)
// and HTTPClient (remote via REST API) both satisfy it.
type DataSource interface {
	CurrentDay(ctx context.Context, userID int) (*CurrentDayInfo, error)
	DayPlan(ctx context.Context, userID, day int) ([]DayExercise, error)
	LastPerformance(ctx context.Context, userID, assignmentID int) (*storage.LastPerformance, error)
	History(ctx context.Context, userID, limit int) ([]storage.SessionSummary, error)
}

// LocalSource serves MCP tools straight from the database.
type LocalSource struct {
	db *storage.DB
}

// Compile-time check: *LocalSource satisfies DataSource.
var _ DataSource = (*LocalSource)(nil)

// NewLocalSource wraps a storage.DB as a DataSource.
func NewLocalSource(db *storage.DB) *LocalSource {
	return &LocalSource{db: db}
}

func (l *LocalSource) CurrentDay(ctx context.Context, userID int) (*CurrentDayInfo, error) {
	state, err := l.db.GetTrainingState(ctx, userID)
	if err != nil {
		return nil, err
	}
	routine, err := l.db.GetRoutine(ctx, state.RoutineID)
	if err != nil {
		return nil, err
	}
	assignments, err := l.db.RoutineAssignments(ctx, state.RoutineID)
	if err != nil {
		return nil, err
	}
	days := progress.AvailableDays(assignments)
	current, err := progress.CurrentDay(state.Cursor, days)
	if err != nil {
		return nil, err
	}
	return &CurrentDayInfo{
		CurrentDay:    current,
		TotalDays:     len(days),
		AvailableDays: days,
		RoutineID:     routine.ID,
		RoutineName:   routine.Name,
	}, nil
}

func (l *LocalSource) DayPlan(ctx context.Context, userID, day int) ([]DayExercise, error) {
	state, err := l.db.GetTrainingState(ctx, userID)
	if err != nil {
		return nil, err
	}
	assignments, err := l.db.RoutineAssignments(ctx, state.RoutineID)
	if err != nil {
		return nil, err
	}
	plan := make([]DayExercise, 0)
	for _, a := range assignments {
		if a.Day != day {
			continue
		}
		tokens := progress.NormalizeRaw(a.PlannedSets)
		if tokens == nil {
			tokens = []string{}
		}
		plan = append(plan, DayExercise{
			AssignmentID: a.ID,
			ExerciseName: a.ExerciseName,
			PlannedSets:  tokens,
			RestSeconds:  a.RestSeconds,
			Notes:        a.Notes,
		})
	}
	return plan, nil
}

func (l *LocalSource) LastPerformance(ctx context.Context, userID, assignmentID int) (*storage.LastPerformance, error) {
	return l.db.GetLastPerformance(ctx, userID, assignmentID)
}

func (l *LocalSource) History(ctx context.Context, userID, limit int) ([]storage.SessionSummary, error) {
	return l.db.SessionHistory(ctx, userID, limit)
}
