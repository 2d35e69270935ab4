// internal/domain/notification/settings.go
package notification

import (
	"database/sql"
	"time"
)

// Settings holds one user's daily reminder configuration. The record is
// overwritten wholesale on save; LastSent is the only field ever patched
// independently, and only by the reminder flow after a successful send.
type Settings struct {
	UserID    string
	Email     string // destination address
	Time      string // local wall-clock "HH:MM", 24-hour
	Timezone  string // IANA zone name used to interpret Time
	Enabled   bool   // when false the scheduler must never send
	UpdatedAt time.Time
	LastSent  sql.NullTime // invalid when no reminder was ever sent
}
