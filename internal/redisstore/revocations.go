package redisstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Revocations is a blacklist of session token ids. Entries expire together
// with the token they revoke.
type Revocations struct {
	rdb *redis.Client
	now func() time.Time
}

func NewRevocations(rdb *redis.Client) *Revocations {
	return &Revocations{rdb: rdb, now: time.Now}
}

func key(id string) string {
	return fmt.Sprintf("revoked:%s", id)
}

// Revoke blacklists id until the given time. Ids already past until are
// not stored.
func (r *Revocations) Revoke(ctx context.Context, id string, until time.Time) error {
	ttl := until.Sub(r.now())
	if ttl <= 0 {
		return nil
	}
	if err := r.rdb.Set(ctx, key(id), 1, ttl).Err(); err != nil {
		return fmt.Errorf("redisstore.Revocations.Revoke: %w", err)
	}
	return nil
}

func (r *Revocations) IsRevoked(ctx context.Context, id string) (bool, error) {
	err := r.rdb.Get(ctx, key(id)).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redisstore.Revocations.IsRevoked: %w", err)
	}
	return true, nil
}
