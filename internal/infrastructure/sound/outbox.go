package sound

import (
	"fmt"
	"sync"

	"github.com/richschool/compound-school/internal/core/domain"
)

const defaultCapacity = 32

// Outbox queues cues per session until the client drains them with the
// next view. When a queue is full the oldest cue is dropped.
type Outbox struct {
	mu       sync.Mutex
	queues   map[string][]domain.Cue
	capacity int
}

func NewOutbox(capacity int) *Outbox {
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	return &Outbox{
		queues:   make(map[string][]domain.Cue),
		capacity: capacity,
	}
}

func (o *Outbox) Play(sessionID string, cue domain.Cue) error {
	switch cue {
	case domain.CueCoin, domain.CueSpend, domain.CuePopup, domain.CueCertificate, domain.CueFail:
	default:
		return fmt.Errorf("unknown cue %q", cue)
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	q := o.queues[sessionID]
	if len(q) >= o.capacity {
		q = q[1:]
	}
	o.queues[sessionID] = append(q, cue)
	return nil
}

// Drain returns and clears the queued cues of a session in play order.
func (o *Outbox) Drain(sessionID string) []domain.Cue {
	o.mu.Lock()
	defer o.mu.Unlock()
	q := o.queues[sessionID]
	delete(o.queues, sessionID)
	if q == nil {
		return []domain.Cue{}
	}
	return q
}

func (o *Outbox) Forget(sessionID string) {
	o.mu.Lock()
	delete(o.queues, sessionID)
	o.mu.Unlock()
}
