package timer

import (
	"sync"
	"time"
)

// Scheduler runs continuations on the wall clock.
type Scheduler struct {
	mu      sync.Mutex
	pending map[*time.Timer]struct{}
}

func NewScheduler() *Scheduler {
	return &Scheduler{pending: make(map[*time.Timer]struct{})}
}

// After runs fn once d has elapsed. The returned cancel func is safe to
// call any number of times, including after fn has run.
func (s *Scheduler) After(d time.Duration, fn func()) (cancel func()) {
	var t *time.Timer
	s.mu.Lock()
	t = time.AfterFunc(d, func() {
		s.mu.Lock()
		delete(s.pending, t)
		s.mu.Unlock()
		fn()
	})
	s.pending[t] = struct{}{}
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		t.Stop()
		delete(s.pending, t)
		s.mu.Unlock()
	}
}

// Stop cancels every timer that has not fired yet.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for t := range s.pending {
		t.Stop()
	}
	clear(s.pending)
}

// Pending returns the number of timers still waiting to fire.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}
