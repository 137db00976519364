package journal

import (
	"context"

	"github.com/richschool/compound-school/internal/core/ports"
)

// NoopJournal is used when no journal backend is configured.
type NoopJournal struct{}

func NewNoopJournal() *NoopJournal { return &NoopJournal{} }

func (n *NoopJournal) Record(_ context.Context, _ ports.JournalEntry) error { return nil }
func (n *NoopJournal) Close() error                                        { return nil }

func (n *NoopJournal) History(_ context.Context, _ string, _ int) ([]ports.JournalEntry, error) {
	return []ports.JournalEntry{}, nil
}
