// internal/domain/notification/repository.go
package notification

import (
	"context"
	"time"
)

// Repository defines the data-store collaborator's operations for reminder
// Settings.
type Repository interface {
	// Get performs a one-shot read of the user's current record. The
	// reminder loop depends on this bypassing any cached snapshot so a
	// concurrent settings save is never missed.
	Get(ctx context.Context, userID string) (*Settings, error)
	// Save overwrites the user's record wholesale.
	Save(ctx context.Context, s *Settings) error
	// UpdateLastSent patches the lastSent field only.
	UpdateLastSent(ctx context.Context, userID string, sentAt time.Time) error
	// ListEnabled returns the settings of every user with reminders enabled.
	ListEnabled(ctx context.Context) ([]*Settings, error)
}
