package ports

import (
	"context"
	"time"

	"github.com/richschool/compound-school/internal/core/domain"
	"github.com/richschool/compound-school/internal/core/engine"
)

// SessionSummary is one row of the classroom overview.
type SessionSummary struct {
	ID        string          `json:"id"`
	UserName  string          `json:"user_name"`
	Avatar    domain.Avatar   `json:"avatar"`
	Screen    domain.Screen   `json:"screen"`
	Money     int             `json:"money"`
	Choices   int             `json:"choices"`
	Dominant  domain.Category `json:"dominant"`
	Completed bool            `json:"completed"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Certificate is an exported certificate image.
type Certificate struct {
	FileName    string
	ContentType string
	Data        []byte
}

// GameService drives sessions through the engine.
type GameService interface {
	Create(ctx context.Context) (engine.View, error)
	View(ctx context.Context, id string) (engine.View, error)
	// Dispatch applies a user event. commandID is optional; a repeated id
	// is acknowledged without being applied again.
	Dispatch(ctx context.Context, id string, ev engine.Event, commandID string) (engine.View, error)
	// Roll draws a die and applies it.
	Roll(ctx context.Context, id string, commandID string) (engine.View, error)
	Reset(ctx context.Context, id string) (engine.View, error)
	Certificate(ctx context.Context, id string) (Certificate, error)
	Classroom(ctx context.Context, limit int) ([]SessionSummary, error)
	Journal(ctx context.Context, id string, limit int) ([]JournalEntry, error)
	// EvictIdle drops live sessions untouched for longer than idle. Their
	// snapshots stay in the repository.
	EvictIdle(ctx context.Context, idle time.Duration) int
}
