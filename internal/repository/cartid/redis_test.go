package cartid

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T, ttl time.Duration) (*RedisRepo, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedis(client, ttl), mr
}

func TestRedisRepository(t *testing.T) {
	repo, _ := setupTestRedis(t, 0)
	exerciseRepository(t, repo)
}

func TestRedisRepository_KeyLayoutAndTTL(t *testing.T) {
	repo, mr := setupTestRedis(t, time.Hour)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, "abc", "c1"))

	stored, err := mr.Get("storefront:cart_id:abc")
	require.NoError(t, err)
	assert.Equal(t, "c1", stored)
	assert.Equal(t, time.Hour, mr.TTL("storefront:cart_id:abc"))

	mr.FastForward(2 * time.Hour)
	_, err = repo.Load(ctx, "abc")
	assert.Error(t, err)
}

func TestRedisRepository_PingAndFailure(t *testing.T) {
	repo, mr := setupTestRedis(t, 0)
	ctx := context.Background()
	require.NoError(t, repo.Ping(ctx))

	mr.Close()
	assert.Error(t, repo.Ping(ctx))
	_, err := repo.Load(ctx, "abc")
	assert.Error(t, err)
}
