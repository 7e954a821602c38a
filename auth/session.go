package auth

import (
	"sync"

	"github.com/s4m/pharmacy/models"
)

// Session is the single signed-in slot of a running instance.
// It lives until Clear or process exit; there is no expiry.
type Session struct {
	mu   sync.RWMutex
	user *models.User
}

func NewSession() *Session {
	return &Session{}
}

// Set replaces the current user.
func (s *Session) Set(user *models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := *user
	s.user = &u
}

func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
}

// Current returns a copy of the signed-in user, if any.
func (s *Session) Current() (*models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil, false
	}
	u := *s.user
	return &u, true
}
