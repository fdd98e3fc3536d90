package session

import (
	"sync"

	"github.com/spendwise-dev/spendwise/internal/model"
)

// Session wraps a Store with live state: the current token, an optional
// cached user profile, and change notification for dependent views. Token
// validity is never checked here; it is discovered when an API call fails
// with 401.
type Session struct {
	store *Store

	mu        sync.Mutex
	token     string
	user      *model.User
	listeners []func()
}

// New creates a Session, restoring any persisted token.
func New(store *Store) (*Session, error) {
	token, err := store.Token()
	if err != nil {
		return nil, err
	}
	return &Session{store: store, token: token}, nil
}

// Token returns the current token, or "" when logged out.
func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// LoggedIn reports whether a token is present.
func (s *Session) LoggedIn() bool {
	return s.Token() != ""
}

// Login persists the token and updates live state.
func (s *Session) Login(token string) error {
	if err := s.store.Save(token); err != nil {
		return err
	}
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
	s.notify()
	return nil
}

// Logout clears the persisted token, the live token, and any cached user
// profile.
func (s *Session) Logout() error {
	if err := s.store.Remove(); err != nil {
		return err
	}
	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.mu.Unlock()
	s.notify()
	return nil
}

// User returns the cached user profile, if any.
func (s *Session) User() *model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// SetUser caches the user profile for the current session.
func (s *Session) SetUser(user *model.User) {
	s.mu.Lock()
	s.user = user
	s.mu.Unlock()
}

// Subscribe registers a listener called after every login or logout.
func (s *Session) Subscribe(fn func()) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

func (s *Session) notify() {
	s.mu.Lock()
	listeners := make([]func(), len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()
	for _, fn := range listeners {
		fn()
	}
}
