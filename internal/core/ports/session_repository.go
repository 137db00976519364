package ports

import (
	"context"
	"time"

	"github.com/richschool/compound-school/internal/core/domain"
)

// SnapshotRecord is one stored snapshot as returned by List.
type SnapshotRecord struct {
	ID        string
	Data      []byte
	UpdatedAt time.Time
}

// SessionRepository stores encoded session snapshots keyed by session id.
// Load returns domain.ErrSnapshotNotFound when no snapshot exists.
type SessionRepository interface {
	Load(ctx context.Context, id string) ([]byte, error)
	Save(ctx context.Context, id string, data []byte) error
	Delete(ctx context.Context, id string) error
	// List returns up to limit snapshots, most recently updated first.
	List(ctx context.Context, limit int) ([]SnapshotRecord, error)
}

// SnapshotCodec converts sessions to and from their persisted form.
type SnapshotCodec interface {
	Encode(s domain.Session) ([]byte, error)
	// Decode never fails outright: fields that cannot be parsed keep their
	// defaults and are reported in the returned slice. A snapshot that is
	// not a JSON object at all yields ok=false.
	Decode(id string, data []byte) (s domain.Session, skipped []string, ok bool)
}
