package settlement

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisDeduper implements Deduper on a shared Redis instance, so a
// redelivered gateway event is dropped no matter which process sees it.
type RedisDeduper struct {
	client *redis.Client
}

func NewRedisDeduper(client *redis.Client) *RedisDeduper {
	return &RedisDeduper{client: client}
}

// Seen marks the key with SetNX. A failed set means another delivery got
// there first.
func (d *RedisDeduper) Seen(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	set, err := d.client.SetNX(ctx, key, 1, ttl).Result()
	if err != nil {
		return false, err
	}
	return !set, nil
}

// Forget drops the key so the next delivery of the event is treated as
// the first.
func (d *RedisDeduper) Forget(ctx context.Context, key string) error {
	return d.client.Del(ctx, key).Err()
}
