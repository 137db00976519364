package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/richschool/compound-school/internal/core/domain"
	"github.com/richschool/compound-school/internal/core/ports"
)

const (
	// keyPrefix is the per-session snapshot key, one record per device.
	keyPrefix = "rich_school_data:"
	// indexKey is a sorted set of session ids scored by last update (unix ms).
	indexKey = "rich_school_sessions"
)

// SessionRepository stores snapshots as plain string values with a TTL.
type SessionRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionRepository returns a repository. A zero ttl keeps snapshots
// forever.
func NewSessionRepository(client *redis.Client, ttl time.Duration) *SessionRepository {
	return &SessionRepository{client: client, ttl: ttl}
}

func (r *SessionRepository) Load(ctx context.Context, id string) ([]byte, error) {
	data, err := r.client.Get(ctx, r.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	return data, nil
}

func (r *SessionRepository) Save(ctx context.Context, id string, data []byte) error {
	now := time.Now()
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, r.key(id), data, r.ttl)
		pipe.ZAdd(ctx, indexKey, redis.Z{Score: float64(now.UnixMilli()), Member: id})
		return nil
	})
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, r.key(id))
		pipe.ZRem(ctx, indexKey, id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// List walks the index newest first. Ids whose snapshot has expired are
// pruned from the index as they are found.
func (r *SessionRepository) List(ctx context.Context, limit int) ([]ports.SnapshotRecord, error) {
	zs, err := r.client.ZRevRangeWithScores(ctx, indexKey, 0, int64(limit)-1).Result()
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	if len(zs) == 0 {
		return []ports.SnapshotRecord{}, nil
	}

	keys := make([]string, len(zs))
	for i, z := range zs {
		keys[i] = r.key(z.Member.(string))
	}
	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	out := make([]ports.SnapshotRecord, 0, len(zs))
	var expired []any
	for i, v := range values {
		id := zs[i].Member.(string)
		s, ok := v.(string)
		if !ok {
			expired = append(expired, id)
			continue
		}
		out = append(out, ports.SnapshotRecord{
			ID:        id,
			Data:      []byte(s),
			UpdatedAt: time.UnixMilli(int64(zs[i].Score)).UTC(),
		})
	}
	if len(expired) > 0 {
		_ = r.client.ZRem(ctx, indexKey, expired...).Err()
	}
	return out, nil
}

func (r *SessionRepository) key(id string) string {
	return keyPrefix + id
}
