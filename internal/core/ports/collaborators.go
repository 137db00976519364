package ports

import (
	"context"
	"time"

	"github.com/richschool/compound-school/internal/core/domain"
)

// SoundPlayer receives cues. Playback happens client side, so an
// implementation queues cues until the client drains them.
type SoundPlayer interface {
	Play(sessionID string, cue domain.Cue) error
	Drain(sessionID string) []domain.Cue
	Forget(sessionID string)
}

// CertificateInput is what the exporter draws on the certificate.
type CertificateInput struct {
	SessionID    string
	UserName     string
	Avatar       domain.AvatarProfile
	Persona      domain.Persona
	Money        int
	TotalIncome  int
	TotalExpense int
	IssuedAt     time.Time
}

// ImageExporter renders the certificate screen to an image.
type ImageExporter interface {
	ExportCertificate(ctx context.Context, in CertificateInput) ([]byte, error)
	ContentType() string
}

// Dice supplies uniform integers in [1, 6].
type Dice interface {
	Roll() int
}

// Scheduler runs fn once after d. The returned func cancels a pending run.
type Scheduler interface {
	After(d time.Duration, fn func()) (cancel func())
}

// Executor runs fn so that calls sharing a key never overlap and run in
// submission order. Do blocks until fn has returned or ctx is done.
type Executor interface {
	Do(ctx context.Context, key string, fn func()) error
}

// JournalEntry is one line of a session's play journal.
type JournalEntry struct {
	SessionID string    `json:"session_id"`
	Event     string    `json:"event"`
	Screen    string    `json:"screen"`
	Money     int       `json:"money"`
	Detail    string    `json:"detail,omitempty"`
	At        time.Time `json:"at"`
}

// Journal is an append-only audit trail of accepted events.
type Journal interface {
	Record(ctx context.Context, e JournalEntry) error
	History(ctx context.Context, sessionID string, limit int) ([]JournalEntry, error)
}

// CommandDeduper remembers client command ids so retried requests are
// applied once.
type CommandDeduper interface {
	IsDuplicate(ctx context.Context, sessionID, commandID string) (bool, error)
	Mark(ctx context.Context, sessionID, commandID string) error
}

// GameObserver is notified of game activity for metrics.
type GameObserver interface {
	EventAccepted(event string, screen domain.Screen)
	EventRejected(event string, reason string)
	Transition(from, to domain.Screen)
	CuePlayed(cue domain.Cue)
	SnapshotSkipped(fields []string, discarded bool)
	DedupChecked(hit bool)
	CertificateExported(ok bool)
	LiveSessions(n int)
}
