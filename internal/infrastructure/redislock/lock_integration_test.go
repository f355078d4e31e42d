//go:build integration

package redislock_test

// Ejecutar con: go test -tags integration ./internal/infrastructure/redislock/... -v

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"

	"github.com/jhoicas/Lubricantes-api/internal/infrastructure/redislock"
)

func setupRedis(t *testing.T) *redis.Client {
	t.Helper()
	ctx := context.Background()

	rdC, err := tcRedis.RunContainer(ctx,
		testcontainers.WithImage("redis:7-alpine"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })

	url, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	rdb, err := redislock.NewClient(ctx, url)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func TestLock_ExclusionYLiberacion(t *testing.T) {
	rdb := setupRedis(t)
	ctx := context.Background()
	first := redislock.New(rdb, "", time.Minute, nil)
	second := redislock.New(rdb, "", time.Minute, nil)

	release, ok, err := first.TryAcquire(ctx)
	require.NoError(t, err)
	require.True(t, ok)

	_, ok, err = second.TryAcquire(ctx)
	require.NoError(t, err)
	assert.False(t, ok, "el candado ya está tomado")

	release()

	release2, ok, err := second.TryAcquire(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	release2()

	n, err := rdb.Exists(ctx, redislock.DefaultKey).Result()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestLock_ExpiraPorTTL(t *testing.T) {
	rdb := setupRedis(t)
	ctx := context.Background()
	lock := redislock.New(rdb, "test:ttl", 200*time.Millisecond, nil)

	_, ok, err := lock.TryAcquire(ctx)
	require.NoError(t, err)
	require.True(t, ok)

	require.Eventually(t, func() bool {
		_, ok, err := lock.TryAcquire(ctx)
		return err == nil && ok
	}, 5*time.Second, 50*time.Millisecond)
}

func TestLock_LiberarNoBorraCandadoAjeno(t *testing.T) {
	rdb := setupRedis(t)
	ctx := context.Background()
	lock := redislock.New(rdb, "test:owner", time.Minute, nil)

	release, ok, err := lock.TryAcquire(ctx)
	require.NoError(t, err)
	require.True(t, ok)

	// Otro proceso se quedó con la clave tras una expiración.
	require.NoError(t, rdb.Set(ctx, "test:owner", "otro-token", time.Minute).Err())
	release()

	val, err := rdb.Get(ctx, "test:owner").Result()
	require.NoError(t, err)
	assert.Equal(t, "otro-token", val)
}
