package services

import (
	"sync"

	"github.com/zatekoja/bizdirectory/internal/domain/entities"
)

// AuthState holds the current user of one client session. It is created once
// per session and owns the session's single auth-change subscription.
type AuthState struct {
	mu          sync.RWMutex
	user        *entities.User
	loading     bool
	closed      bool
	changes     chan *entities.User
	unsubscribe func()
}

// NewAuthState subscribes to auth changes. Changes carries the latest user
// and drops values a slow reader has not consumed.
func NewAuthState(auth *AuthService) *AuthState {
	s := &AuthState{
		loading: true,
		changes: make(chan *entities.User, 1),
	}
	s.unsubscribe = auth.OnAuthChange(s.update)
	return s
}

func (s *AuthState) update(user *entities.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.user = user
	s.loading = false

	select {
	case <-s.changes:
	default:
	}
	s.changes <- user
}

// User returns the current user, or nil when signed out
func (s *AuthState) User() *entities.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// Loading reports whether the initial identity is still unknown
func (s *AuthState) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Changes delivers the user after each sign-in and sign-out
func (s *AuthState) Changes() <-chan *entities.User {
	return s.changes
}

// Close ends the subscription and closes Changes
func (s *AuthState) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	close(s.changes)
	s.mu.Unlock()

	s.unsubscribe()
}
