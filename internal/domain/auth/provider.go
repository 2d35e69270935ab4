package auth

// Event describes a sign-in or sign-out transition for one user.
type Event struct {
	UserID   string
	SignedIn bool
}

// Provider defines the authentication collaborator: it supplies the current
// identity (or none) and notifies subscribers on auth state transitions. The
// session lifecycle is driven entirely by these transitions.
type Provider interface {
	CurrentUser() (userID string, ok bool)
	// Subscribe registers cb for auth transitions and returns an
	// unsubscribe function.
	Subscribe(cb func(Event)) (unsubscribe func())
}
