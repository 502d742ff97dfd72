package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "refresh:"

const (
	active  = "0"
	revoked = "1"
)

// ARGV[1] = active, ARGV[2] = revoked
var consumeScript = redis.NewScript(`
if redis.call('GET', KEYS[1]) == ARGV[1] then
  redis.call('SET', KEYS[1], ARGV[2], 'KEEPTTL')
  return 1
end
return 0
`)

type RedisTokenRepo struct {
	client *redis.Client
}

func NewRedisTokenRepo(client *redis.Client) *RedisTokenRepo {
	return &RedisTokenRepo{
		client: client,
	}
}

func key(jti string) string { return keyPrefix + jti }

func (r *RedisTokenRepo) Store(ctx context.Context, jti string, exp time.Time) error {
	return r.client.Set(ctx, key(jti), active, safeTTL(exp)).Err()
}

func (r *RedisTokenRepo) Consume(ctx context.Context, jti string) (bool, error) {
	n, err := consumeScript.Run(ctx, r.client, []string{key(jti)}, active, revoked).Int()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// Ping нужен health-проверке.
func (r *RedisTokenRepo) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func safeTTL(exp time.Time) time.Duration {
	ttl := time.Until(exp)
	if ttl <= 0 {
		// задаём минимальный TTL, чтобы ключ всё-таки исчез
		return time.Minute
	}
	return ttl
}
