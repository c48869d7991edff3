package cloudsync

import (
	"context"
	"sync"
)

// StaticSession is a process-local session holder fed by the auth
// collaborator: set when a login succeeds, cleared on logout.
type StaticSession struct {
	mu   sync.RWMutex
	user *User
}

func (s *StaticSession) SetUser(user User) {
	s.mu.Lock()
	s.user = &user
	s.mu.Unlock()
}

func (s *StaticSession) Clear() {
	s.mu.Lock()
	s.user = nil
	s.mu.Unlock()
}

func (s *StaticSession) Current(ctx context.Context) (User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return User{}, false
	}
	return *s.user, true
}
