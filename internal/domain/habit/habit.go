package habit

import "time"

// Habit is a user-defined recurring task tracked by daily completion marks.
type Habit struct {
	ID          string // assigned by the repository on create
	UserID      string
	Name        string
	Description string
	CreatedAt   time.Time
	// Completions maps a calendar-day key to a completion marker. A key is
	// present with value true when the habit was completed on that day; an
	// absent key and an explicit false are equivalent.
	Completions map[DayKey]bool
}

// CompletedOn reports whether the habit was marked complete on the given day.
func (h *Habit) CompletedOn(day DayKey) bool {
	return h.Completions[day]
}
