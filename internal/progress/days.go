package progress

import (
	"sort"

	"github.com/XpoolX/vitalgym-sub000/internal/models"
)

// AvailableDays returns the sorted distinct day numbers covered by a routine's
// exercise assignments. Empty input yields an empty result.
func AvailableDays(assignments []models.ExerciseAssignment) []int {
	seen := make(map[int]bool, len(assignments))
	var days []int
	for _, a := range assignments {
		if !seen[a.Day] {
			seen[a.Day] = true
			days = append(days, a.Day)
		}
	}
	sort.Ints(days)
	return days
}

// CurrentDay resolves a stored cursor against the routine's current day set.
// A cursor pointing at a day that no longer exists (the day was deleted, or
// the user was just created with the default of 1) self-heals to the lowest
// available day. The healed value is not persisted here; only a successful
// session recording moves the stored cursor.
func CurrentDay(stored int, days []int) (int, error) {
	if len(days) == 0 {
		return 0, ErrNoTrainingDays
	}
	for _, d := range days {
		if d == stored {
			return stored, nil
		}
	}
	return days[0], nil
}

// Advance returns the next training day after day, wrapping past the maximum
// back to the minimum. The cycle has no terminal day; a single-day routine
// always advances to that same day. days must be sorted and non-empty.
func Advance(day int, days []int) int {
	for _, d := range days {
		if d > day {
			return d
		}
	}
	return days[0]
}
