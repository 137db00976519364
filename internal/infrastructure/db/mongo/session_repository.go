package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/richschool/compound-school/internal/core/domain"
	"github.com/richschool/compound-school/internal/core/ports"
)

const collectionSessions = "sessions"

type sessionDoc struct {
	ID        string    `bson:"_id"`
	Snapshot  string    `bson:"snapshot"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// SessionRepository implements ports.SessionRepository using MongoDB. A TTL
// index on updated_at expires abandoned playthroughs.
type SessionRepository struct {
	col *mongo.Collection
	ttl time.Duration
}

func NewSessionRepository(db *mongo.Database, ttl time.Duration) *SessionRepository {
	return &SessionRepository{col: db.Collection(collectionSessions), ttl: ttl}
}

func (r *SessionRepository) Load(ctx context.Context, id string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc sessionDoc
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("load session: %w", err)
	}
	return []byte(doc.Snapshot), nil
}

// Save upserts the snapshot.
func (r *SessionRepository) Save(ctx context.Context, id string, data []byte) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"snapshot":   string(data),
		"updated_at": time.Now().UTC(),
	}}
	_, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// List returns the most recently updated snapshots.
func (r *SessionRepository) List(ctx context.Context, limit int) ([]ports.SnapshotRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "updated_at", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []sessionDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	out := make([]ports.SnapshotRecord, 0, len(docs))
	for _, d := range docs {
		out = append(out, ports.SnapshotRecord{ID: d.ID, Data: []byte(d.Snapshot), UpdatedAt: d.UpdatedAt})
	}
	return out, nil
}

// EnsureIndexes creates the listing index and, when a TTL is configured,
// the expiry index on the sessions collection.
func (r *SessionRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	index := mongo.IndexModel{Keys: bson.D{{Key: "updated_at", Value: -1}}}
	if r.ttl > 0 {
		index.Options = options.Index().SetExpireAfterSeconds(int32(r.ttl.Seconds()))
	}

	_, err := r.col.Indexes().CreateOne(ctx, index)
	return err
}
