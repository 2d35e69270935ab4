package habit

import "context"

// Repository defines the data-store collaborator's operations for Habit
// records. Implementations fold per-day completion rows into the entity's
// Completions map.
type Repository interface {
	Create(ctx context.Context, h *Habit) error
	GetByID(ctx context.Context, userID, habitID string) (*Habit, error)
	ListByUser(ctx context.Context, userID string) ([]*Habit, error)
	Delete(ctx context.Context, userID, habitID string) error
	// SetCompletion writes or clears a single day's completion marker.
	SetCompletion(ctx context.Context, userID, habitID string, day DayKey, completed bool) error
}
