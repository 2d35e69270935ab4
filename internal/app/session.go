// internal/app/session.go
package app

import (
	"fmt"
	"sync"

	"habit_reminder_service/internal/domain/auth"
	"habit_reminder_service/internal/domain/habit"

	"github.com/sirupsen/logrus"
)

// ReminderLoop is a cancellable recurring tick source driving the reminder
// due-check for one session. The cron-backed implementation lives in
// internal/infra/scheduler.
type ReminderLoop interface {
	Start() error
	// Stop halts the loop and waits for an in-flight tick to finish.
	Stop()
}

// ReminderLoopFactory builds a loop bound to one user's session.
type ReminderLoopFactory func(userID string) ReminderLoop

// Session is the per-user context for one authenticated session: its
// reminder loop and the in-memory habit snapshot pushed by the data-store
// collaborator.
type Session struct {
	userID string
	loop   ReminderLoop

	mu       sync.RWMutex
	snapshot []*habit.Habit
}

func (s *Session) UserID() string { return s.userID }

// ApplySnapshot replaces the habit snapshot wholesale (last write wins).
// Readers never observe a partially applied snapshot.
func (s *Session) ApplySnapshot(habits []*habit.Habit) {
	s.mu.Lock()
	s.snapshot = habits
	s.mu.Unlock()
}

// Snapshot returns the most recently applied habit snapshot.
func (s *Session) Snapshot() []*habit.Habit {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// SessionManager owns the lifecycle of all active sessions. Each session's
// reminder loop lives exactly as long as the session; repeated sign-ins of
// the same user must not accumulate loops.
type SessionManager struct {
	newLoop ReminderLoopFactory
	logger  *logrus.Logger

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewSessionManager(newLoop ReminderLoopFactory, logger *logrus.Logger) *SessionManager {
	return &SessionManager{
		newLoop:  newLoop,
		logger:   logger,
		sessions: make(map[string]*Session),
	}
}

// Begin arms a reminder loop for the user. Any loop left over from a prior
// sign-in of the same user is stopped first.
func (m *SessionManager) Begin(userID string) (*Session, error) {
	if userID == "" {
		return nil, ErrNotAuthenticated
	}

	m.mu.Lock()
	prev := m.sessions[userID]
	delete(m.sessions, userID)
	m.mu.Unlock()
	if prev != nil {
		prev.loop.Stop()
		m.logger.WithField("user_id", userID).Info("Stopped leftover reminder loop from prior sign-in")
	}

	sess := &Session{userID: userID, loop: m.newLoop(userID)}
	if err := sess.loop.Start(); err != nil {
		return nil, fmt.Errorf("failed to start reminder loop for user %s: %w", userID, err)
	}

	m.mu.Lock()
	m.sessions[userID] = sess
	m.mu.Unlock()

	m.logger.WithField("user_id", userID).Info("Session armed")
	return sess, nil
}

// End stops the user's reminder loop. Unknown users are a no-op.
func (m *SessionManager) End(userID string) {
	m.mu.Lock()
	sess := m.sessions[userID]
	delete(m.sessions, userID)
	m.mu.Unlock()
	if sess == nil {
		return
	}
	sess.loop.Stop()
	m.logger.WithField("user_id", userID).Info("Session closed")
}

// Get returns the active session for the user, if any.
func (m *SessionManager) Get(userID string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[userID]
	return sess, ok
}

// Attach ties the session lifecycle to the authentication collaborator's
// sign-in/sign-out transitions.
func (m *SessionManager) Attach(p auth.Provider) (unsubscribe func()) {
	return p.Subscribe(func(ev auth.Event) {
		if ev.SignedIn {
			if _, err := m.Begin(ev.UserID); err != nil {
				m.logger.WithError(err).WithField("user_id", ev.UserID).Error("Failed to arm session on sign-in")
			}
			return
		}
		m.End(ev.UserID)
	})
}

// CloseAll stops every active session's loop. Used on shutdown.
func (m *SessionManager) CloseAll() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	for _, sess := range sessions {
		sess.loop.Stop()
	}
	if len(sessions) > 0 {
		m.logger.Infof("Closed %d active sessions", len(sessions))
	}
}
