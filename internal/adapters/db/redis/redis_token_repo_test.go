package redis

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redisv9 "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newRepo(t *testing.T) (*RedisTokenRepo, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)

	client := redisv9.NewClient(&redisv9.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisTokenRepo(client), mr
}

func TestRedisTokenRepo_Store(t *testing.T) {
	repo, mr := newRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Store(ctx, "jti1", time.Now().Add(10*time.Minute)))

	val, err := mr.Get("refresh:jti1")
	require.NoError(t, err)
	require.Equal(t, active, val, "token must be active right after Store")
	require.Greater(t, mr.TTL("refresh:jti1"), 9*time.Minute)
}

func TestRedisTokenRepo_Store_PastExpiry(t *testing.T) {
	repo, mr := newRepo(t)

	require.NoError(t, repo.Store(context.Background(), "old", time.Now().Add(-time.Hour)))
	require.Equal(t, time.Minute, mr.TTL("refresh:old"))
}

func TestRedisTokenRepo_Consume(t *testing.T) {
	repo, mr := newRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Store(ctx, "jti3", time.Now().Add(time.Hour)))

	ok, err := repo.Consume(ctx, "jti3")
	require.NoError(t, err)
	require.True(t, ok)

	// второй раз тот же jti не проходит
	ok, err = repo.Consume(ctx, "jti3")
	require.NoError(t, err)
	require.False(t, ok)

	val, err := mr.Get("refresh:jti3")
	require.NoError(t, err)
	require.Equal(t, revoked, val)
	require.Greater(t, mr.TTL("refresh:jti3"), time.Duration(0))

	ok, err = repo.Consume(ctx, "never-stored")
	require.NoError(t, err)
	require.False(t, ok)
	require.False(t, mr.Exists("refresh:never-stored"))
}

func TestRedisTokenRepo_ConsumeConcurrent(t *testing.T) {
	repo, _ := newRepo(t)
	ctx := context.Background()
	require.NoError(t, repo.Store(ctx, "jti4", time.Now().Add(time.Hour)))

	var wins int32
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, err := repo.Consume(ctx, "jti4"); err == nil && ok {
				atomic.AddInt32(&wins, 1)
			}
		}()
	}
	wg.Wait()
	require.EqualValues(t, 1, wins)
}

func TestRedisTokenRepo_TTLExpires(t *testing.T) {
	repo, mr := newRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Store(ctx, "jti5", time.Now().Add(time.Minute)))
	mr.FastForward(2 * time.Minute)

	ok, err := repo.Consume(ctx, "jti5")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestRedisTokenRepo_Ping(t *testing.T) {
	repo, mr := newRepo(t)
	require.NoError(t, repo.Ping(context.Background()))

	mr.Close()
	require.Error(t, repo.Ping(context.Background()))
}
