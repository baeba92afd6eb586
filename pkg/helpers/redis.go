package helpers

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient initializes a redis client.
func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

const sessionTTL = 24 * time.Hour

// SessionKey is the hash key holding a logged-in user's session state.
func SessionKey(userID string) string {
	return "user:session:" + userID
}

// SessionWrite replaces fields on the session hash and refreshes its TTL.
func SessionWrite(ctx context.Context, rdb *redis.Client, userID string, fields map[string]any) error {
	key := SessionKey(userID)
	pipe := rdb.Pipeline()
	pipe.HSet(ctx, key, fields)
	pipe.Expire(ctx, key, sessionTTL)
	_, err := pipe.Exec(ctx)
	return err
}

// SessionRead returns the session hash, or an empty map when none exists.
func SessionRead(ctx context.Context, rdb *redis.Client, userID string) (map[string]string, error) {
	return rdb.HGetAll(ctx, SessionKey(userID)).Result()
}

func SessionDelete(ctx context.Context, rdb *redis.Client, userID string) error {
	return rdb.Del(ctx, SessionKey(userID)).Err()
}
