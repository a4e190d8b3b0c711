package cartid

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"storefront/internal/domain"
)

const keyNamespace = "storefront:cart_id"

type RedisRepo struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis returns a Repository storing ids under storefront:cart_id:<key>.
// Each save refreshes the TTL; a zero TTL keeps ids forever.
func NewRedis(client *redis.Client, ttl time.Duration) *RedisRepo {
	return &RedisRepo{client: client, ttl: ttl}
}

func redisKey(key string) string {
	return keyNamespace + ":" + key
}

func (r *RedisRepo) Load(ctx context.Context, key string) (string, error) {
	if err := checkKey(key); err != nil {
		return "", err
	}
	id, err := r.client.Get(ctx, redisKey(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", domain.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("redis get failed: %w", err)
	}
	return id, nil
}

func (r *RedisRepo) Save(ctx context.Context, key, cartID string) error {
	if err := checkSave(key, cartID); err != nil {
		return err
	}
	if err := r.client.Set(ctx, redisKey(key), cartID, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *RedisRepo) Clear(ctx context.Context, key string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	if err := r.client.Del(ctx, redisKey(key)).Err(); err != nil {
		return fmt.Errorf("redis del failed: %w", err)
	}
	return nil
}

func (r *RedisRepo) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
