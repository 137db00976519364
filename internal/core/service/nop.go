package service

import (
	"context"

	"github.com/richschool/compound-school/internal/core/domain"
	"github.com/richschool/compound-school/internal/core/ports"
)

type nopJournal struct{}

func (nopJournal) Record(context.Context, ports.JournalEntry) error { return nil }

func (nopJournal) History(context.Context, string, int) ([]ports.JournalEntry, error) {
	return []ports.JournalEntry{}, nil
}

type nopDedup struct{}

func (nopDedup) IsDuplicate(context.Context, string, string) (bool, error) { return false, nil }
func (nopDedup) Mark(context.Context, string, string) error                { return nil }

type nopObserver struct{}

func (nopObserver) EventAccepted(string, domain.Screen)     {}
func (nopObserver) EventRejected(string, string)            {}
func (nopObserver) Transition(domain.Screen, domain.Screen) {}
func (nopObserver) CuePlayed(domain.Cue)                    {}
func (nopObserver) SnapshotSkipped([]string, bool)          {}
func (nopObserver) DedupChecked(bool)                       {}
func (nopObserver) CertificateExported(bool)                {}
func (nopObserver) LiveSessions(int)                        {}
