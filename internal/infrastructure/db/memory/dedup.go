package memory

import (
	"context"
	"sync"
	"time"
)

// DedupChecker is the in-process counterpart of the Redis checker.
type DedupChecker struct {
	mu   sync.Mutex
	seen map[string]time.Time
	ttl  time.Duration
	now  func() time.Time
}

func NewDedupChecker(ttl time.Duration) *DedupChecker {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &DedupChecker{seen: make(map[string]time.Time), ttl: ttl, now: time.Now}
}

func (d *DedupChecker) IsDuplicate(_ context.Context, sessionID, commandID string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	exp, ok := d.seen[sessionID+":"+commandID]
	return ok && d.now().Before(exp), nil
}

func (d *DedupChecker) Mark(_ context.Context, sessionID, commandID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	for k, exp := range d.seen {
		if !now.Before(exp) {
			delete(d.seen, k)
		}
	}
	d.seen[sessionID+":"+commandID] = now.Add(d.ttl)
	return nil
}
