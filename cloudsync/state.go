package cloudsync

import (
	"sync"
	"sync/atomic"
	"time"
)

// syncState holds the process-local single-flight flag and the last
// successful pass timestamp. The flag is advisory and per process: two
// processes sharing one database file can still race, which mirrors the
// multi-tab behavior of the original client and stays that way.
type syncState struct {
	inFlight   atomic.Bool
	mu         sync.Mutex
	lastSynced time.Time
}

// begin claims the in-flight flag. A false return means another pass is
// running and the caller must give up, not queue.
func (s *syncState) begin() bool {
	return s.inFlight.CompareAndSwap(false, true)
}

func (s *syncState) end() {
	s.inFlight.Store(false)
}

func (s *syncState) markSynced(at time.Time) {
	s.mu.Lock()
	s.lastSynced = at
	s.mu.Unlock()
}

func (s *syncState) snapshot() (bool, time.Time) {
	s.mu.Lock()
	last := s.lastSynced
	s.mu.Unlock()
	return s.inFlight.Load(), last
}

func (s *syncState) reset() {
	s.mu.Lock()
	s.lastSynced = time.Time{}
	s.mu.Unlock()
}
