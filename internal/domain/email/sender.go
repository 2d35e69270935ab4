package email

import "context"

// IncompleteHabit is one entry of a reminder's habit list.
type IncompleteHabit struct {
	Name        string
	Description string
}

// Reminder is the structured payload handed to the email-sending
// collaborator. Content formatting beyond this structure is the template's
// concern, not ours.
type Reminder struct {
	ToEmail string
	ToName  string
	Count   int
	Plural  bool
	Habits  []IncompleteHabit
	AppURL  string
}

// Sender defines an interface for dispatching reminder emails.
// This helps in decoupling the application logic from the specific delivery API.
type Sender interface {
	Send(ctx context.Context, r *Reminder) error
}
