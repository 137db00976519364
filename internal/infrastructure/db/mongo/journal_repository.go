package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/richschool/compound-school/internal/core/ports"
)

const collectionJournal = "session_events"

type journalDoc struct {
	SessionID  string    `bson:"session_id"`
	Event      string    `bson:"event"`
	Screen     string    `bson:"screen"`
	Money      int       `bson:"money"`
	Detail     string    `bson:"detail,omitempty"`
	At         time.Time `bson:"at"`
	RecordedAt time.Time `bson:"recorded_at"`
}

// JournalRepository implements ports.Journal on the session_events
// collection.
type JournalRepository struct {
	col *mongo.Collection
}

func NewJournalRepository(db *mongo.Database) *JournalRepository {
	return &JournalRepository{col: db.Collection(collectionJournal)}
}

// Record appends an entry to the journal.
func (r *JournalRepository) Record(ctx context.Context, e ports.JournalEntry) error {
	doc := journalDoc{
		SessionID:  e.SessionID,
		Event:      e.Event,
		Screen:     e.Screen,
		Money:      e.Money,
		Detail:     e.Detail,
		At:         e.At.UTC(),
		RecordedAt: time.Now().UTC(),
	}
	_, err := r.col.InsertOne(ctx, doc)
	return err
}

// History returns the latest entries of a session, oldest first.
func (r *JournalRepository) History(ctx context.Context, sessionID string, limit int) ([]ports.JournalEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "at", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.col.Find(ctx, bson.M{"session_id": sessionID}, opts)
	if err != nil {
		return nil, fmt.Errorf("journal history: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []journalDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("journal history: %w", err)
	}

	out := make([]ports.JournalEntry, len(docs))
	for i, d := range docs {
		out[len(docs)-1-i] = ports.JournalEntry{
			SessionID: d.SessionID,
			Event:     d.Event,
			Screen:    d.Screen,
			Money:     d.Money,
			Detail:    d.Detail,
			At:        d.At,
		}
	}
	return out, nil
}

// EnsureIndexes creates the per-session lookup index.
func (r *JournalRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "session_id", Value: 1}, {Key: "at", Value: -1}},
	})
	return err
}
