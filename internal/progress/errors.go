package progress

import "errors"

// Sentinel errors for the training engine. The HTTP layer maps these onto
// status codes; everything else is treated as an internal storage failure.
var (
	// ErrNoRoutine means the user has no assigned routine.
	ErrNoRoutine = errors.New("no routine assigned")

	// ErrNoTrainingDays means the assigned routine has no exercise
	// assignments, so there is no day to train.
	ErrNoTrainingDays = errors.New("routine has no training days")

	// ErrInvalidDay means the submitted day number is outside the routine's
	// day range and can never have been valid.
	ErrInvalidDay = errors.New("invalid training day")

	// ErrDayConflict means the submitted day falls inside the routine's day
	// range but is no longer part of it — the routine's structure changed
	// between read and commit.
	ErrDayConflict = errors.New("training day no longer in routine")

	// ErrEmptySession means a submission carried no exercise results.
	ErrEmptySession = errors.New("session has no exercises")

	// ErrUnknownAssignment means a submitted result references an exercise
	// assignment that does not belong to the user's routine.
	ErrUnknownAssignment = errors.New("unknown exercise assignment")

	// ErrMalformedSets means a per-set result list failed validation.
	ErrMalformedSets = errors.New("malformed set results")
)
