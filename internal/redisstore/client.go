// Package redisstore holds the short-lived state kept in Redis: login
// attempt counters and revoked session ids.
package redisstore

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// NewClient connects to the Redis server at url (redis://host:port/db) and
// verifies the connection with PING.
func NewClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redisstore.NewClient: parse url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redisstore.NewClient: ping: %w", err)
	}
	return client, nil
}
