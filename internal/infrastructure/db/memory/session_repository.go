// Package memory is an in-process SessionRepository for development and
// tests. Snapshots do not survive a restart.
package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/richschool/compound-school/internal/core/domain"
	"github.com/richschool/compound-school/internal/core/ports"
)

type entry struct {
	data      []byte
	updatedAt time.Time
}

// SessionRepository keeps snapshots in a map.
type SessionRepository struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time
}

func NewSessionRepository() *SessionRepository {
	return &SessionRepository{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

func (r *SessionRepository) Load(_ context.Context, id string) ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[id]
	if !ok {
		return nil, domain.ErrSnapshotNotFound
	}
	return slices.Clone(e.data), nil
}

func (r *SessionRepository) Save(_ context.Context, id string, data []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries[id] = entry{data: slices.Clone(data), updatedAt: r.now()}
	return nil
}

func (r *SessionRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.entries, id)
	return nil
}

func (r *SessionRepository) List(_ context.Context, limit int) ([]ports.SnapshotRecord, error) {
	r.mu.RLock()
	out := make([]ports.SnapshotRecord, 0, len(r.entries))
	for id, e := range r.entries {
		out = append(out, ports.SnapshotRecord{ID: id, Data: slices.Clone(e.data), UpdatedAt: e.updatedAt})
	}
	r.mu.RUnlock()

	slices.SortFunc(out, func(a, b ports.SnapshotRecord) int {
		return b.UpdatedAt.Compare(a.UpdatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
