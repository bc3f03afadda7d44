package store

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// sessionTTL matches the client-side session lifetime.
const sessionTTL = 7 * 24 * time.Hour

// SessionCache maps session keys to user IDs in Redis so the hot
// session-resolution path skips Firestore. Firestore remains the source of
// truth; a cache miss falls back to a user query.
type SessionCache struct {
	rdb *redis.Client
}

func NewSessionCache(addr, password string, db int) *SessionCache {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &SessionCache{rdb: rdb}
}

func (c *SessionCache) Ping(ctx context.Context) error {
	if err := c.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

func (c *SessionCache) Close() error {
	return c.rdb.Close()
}

func (c *SessionCache) Set(ctx context.Context, sessionKey, userID string) error {
	if err := c.rdb.Set(ctx, sessionCacheKey(sessionKey), userID, sessionTTL).Err(); err != nil {
		return fmt.Errorf("failed to cache session: %w", err)
	}
	return nil
}

// Get resolves a session key to a user ID. A miss returns ErrNotFound.
func (c *SessionCache) Get(ctx context.Context, sessionKey string) (string, error) {
	userID, err := c.rdb.Get(ctx, sessionCacheKey(sessionKey)).Result()
	if err == redis.Nil {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to read session cache: %w", err)
	}
	return userID, nil
}

func (c *SessionCache) Delete(ctx context.Context, sessionKey string) error {
	if err := c.rdb.Del(ctx, sessionCacheKey(sessionKey)).Err(); err != nil {
		return fmt.Errorf("failed to evict session: %w", err)
	}
	return nil
}

func sessionCacheKey(sessionKey string) string {
	return "session:" + sessionKey
}
