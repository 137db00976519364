package timer

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestScheduler_Fires(t *testing.T) {
	s := NewScheduler()
	done := make(chan struct{})

	s.After(5*time.Millisecond, func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("continuation did not fire")
	}
	deadline := time.Now().Add(time.Second)
	for s.Pending() != 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if s.Pending() != 0 {
		t.Errorf("expected no pending timers, got %d", s.Pending())
	}
}

func TestScheduler_Cancel(t *testing.T) {
	s := NewScheduler()
	var fired atomic.Bool

	cancel := s.After(20*time.Millisecond, func() { fired.Store(true) })
	cancel()
	cancel()

	time.Sleep(50 * time.Millisecond)
	if fired.Load() {
		t.Error("cancelled continuation fired")
	}
	if s.Pending() != 0 {
		t.Errorf("expected no pending timers, got %d", s.Pending())
	}
}

func TestScheduler_Stop(t *testing.T) {
	s := NewScheduler()
	var fired atomic.Int32

	for i := 0; i < 3; i++ {
		s.After(20*time.Millisecond, func() { fired.Add(1) })
	}
	if s.Pending() != 3 {
		t.Fatalf("expected 3 pending timers, got %d", s.Pending())
	}
	s.Stop()

	time.Sleep(50 * time.Millisecond)
	if n := fired.Load(); n != 0 {
		t.Errorf("expected no continuations after Stop, got %d", n)
	}
}
