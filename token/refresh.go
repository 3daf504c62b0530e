package token

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisRefreshStore keeps issued refresh tokens in Redis so all instances
// agree on which tokens are still redeemable. Entries expire together with
// the token itself.
type RedisRefreshStore struct {
	client *redis.Client
}

// NewRedisRefreshStore creates a store using the provided Redis client.
func NewRedisRefreshStore(client *redis.Client) *RedisRefreshStore {
	return &RedisRefreshStore{client: client}
}

func (r *RedisRefreshStore) key(userID, jti string) string {
	return fmt.Sprintf("refresh:%s:%s", userID, jti)
}

// Save records the refresh token's jti with the token lifetime as TTL.
func (r *RedisRefreshStore) Save(ctx context.Context, userID, jti string, ttl time.Duration) error {
	return r.client.Set(ctx, r.key(userID, jti), 1, ttl).Err()
}

// Consume deletes the jti and reports whether it was still present. The
// delete is atomic, so concurrent redemptions of the same token race to a
// single winner.
func (r *RedisRefreshStore) Consume(ctx context.Context, userID, jti string) (bool, error) {
	n, err := r.client.Del(ctx, r.key(userID, jti)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
