package models

// User is the subset of the member record the training core reads and writes.
// CurrentTrainingDay is the per-user cursor into the routine's day cycle; it is
// initialized to 1 and only ever advanced inside a session-recording transaction.
type User struct {
	ID                 int    `json:"id"`
	Login              string `json:"login"`
	DisplayName        string `json:"displayName"`
	RoutineID          *int   `json:"routineId"`
	CurrentTrainingDay int    `json:"currentTrainingDay"`
}
