package journal

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"github.com/richschool/compound-school/internal/core/ports"
)

// SQLiteJournal persists the play journal to a SQLite database.
type SQLiteJournal struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteJournal opens (or creates) the database at path and runs migrations.
func NewSQLiteJournal(path string, log zerolog.Logger) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL lets the classroom read while sessions write.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	j := &SQLiteJournal{db: db}
	if err := j.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Info().Str("path", path).Msg("sqlite journal opened")
	return j, nil
}

func (j *SQLiteJournal) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS session_events (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT    NOT NULL,
			event      TEXT    NOT NULL,
			screen     TEXT    NOT NULL,
			money      INTEGER NOT NULL,
			detail     TEXT,
			at         INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_session_events_session ON session_events(session_id, at)`,
	}

	for _, s := range stmts {
		if _, err := j.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (j *SQLiteJournal) Record(ctx context.Context, e ports.JournalEntry) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	_, err := j.db.ExecContext(ctx, `INSERT INTO session_events
		(session_id, event, screen, money, detail, at)
		VALUES (?,?,?,?,?,?)`,
		e.SessionID, e.Event, e.Screen, e.Money, e.Detail, e.At.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("insert journal entry: %w", err)
	}
	return nil
}

// History returns up to limit of the latest entries for sessionID, oldest first.
func (j *SQLiteJournal) History(ctx context.Context, sessionID string, limit int) ([]ports.JournalEntry, error) {
	rows, err := j.db.QueryContext(ctx, `SELECT session_id, event, screen, money, detail, at
		FROM (
			SELECT id, session_id, event, screen, money, detail, at
			FROM session_events
			WHERE session_id = ?
			ORDER BY at DESC, id DESC
			LIMIT ?
		)
		ORDER BY at ASC, id ASC`, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("query journal: %w", err)
	}
	defer rows.Close()

	entries := make([]ports.JournalEntry, 0, limit)
	for rows.Next() {
		var (
			e      ports.JournalEntry
			detail sql.NullString
			at     int64
		)
		if err := rows.Scan(&e.SessionID, &e.Event, &e.Screen, &e.Money, &detail, &at); err != nil {
			return nil, fmt.Errorf("scan journal entry: %w", err)
		}
		e.Detail = detail.String
		e.At = time.UnixMilli(at).UTC()
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate journal: %w", err)
	}
	return entries, nil
}

// Close closes the underlying database.
func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}

// Ping verifies the database is reachable.
func (j *SQLiteJournal) Ping(ctx context.Context) error {
	return j.db.PingContext(ctx)
}
