package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const dedupTTL = time.Hour

// DedupChecker remembers client command ids (the Idempotency-Key header)
// so a retried request is applied once.
// Key format: dedup:<session_id>:<command_id>
type DedupChecker struct {
	client *redis.Client
}

// NewDedupChecker creates a DedupChecker wrapping the given Redis client.
func NewDedupChecker(client *redis.Client) *DedupChecker {
	return &DedupChecker{client: client}
}

// IsDuplicate reports whether this command has already been applied.
func (d *DedupChecker) IsDuplicate(ctx context.Context, sessionID, commandID string) (bool, error) {
	n, err := d.client.Exists(ctx, d.key(sessionID, commandID)).Result()
	if err != nil {
		return false, fmt.Errorf("dedup check: %w", err)
	}
	return n > 0, nil
}

// Mark records that this command has been applied (expires after dedupTTL).
func (d *DedupChecker) Mark(ctx context.Context, sessionID, commandID string) error {
	return d.client.SetNX(ctx, d.key(sessionID, commandID), "1", dedupTTL).Err()
}

func (d *DedupChecker) key(sessionID, commandID string) string {
	return fmt.Sprintf("dedup:%s:%s", sessionID, commandID)
}
