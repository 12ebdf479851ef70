package uniqueness

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig configures the Redis backend.
type RedisConfig struct {
	ConnectionURL  string        `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"` // ConnectionURL is the URL of the server, e.g. "redis://:password@localhost:6379/0".
	KeyPrefix      string        `env:"REDIS_KEY_PREFIX" envDefault:"formguard:taken:"`  // KeyPrefix is prepended to the namespace to build the set key.
	RetryAttempts  int           `env:"REDIS_RETRY_ATTEMPTS" envDefault:"3"`             // RetryAttempts is the number of connection attempts.
	RetryInterval  time.Duration `env:"REDIS_RETRY_INTERVAL" envDefault:"5s"`            // RetryInterval is the pause between connection attempts.
	ConnectTimeout time.Duration `env:"REDIS_CONNECT_TIMEOUT" envDefault:"30s"`          // ConnectTimeout bounds all connection attempts together.
}

// ConnectRedis connects to Redis, retrying until the server answers a ping.
func ConnectRedis(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	opts, err := redis.ParseURL(cfg.ConnectionURL)
	if err != nil {
		return nil, errors.Join(ErrInvalidConnString, err)
	}

	for range max(cfg.RetryAttempts, 1) {
		client := redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err == nil {
			return client, nil
		}
		_ = client.Close()

		select {
		case <-ctx.Done():
			return nil, errors.Join(ErrBackendUnavailable, ctx.Err())
		case <-time.After(cfg.RetryInterval):
		}
	}

	return nil, ErrBackendUnavailable
}

// redisClient is the subset of the go-redis API the backend uses.
type redisClient interface {
	SIsMember(ctx context.Context, key string, member any) *redis.BoolCmd
	SAdd(ctx context.Context, key string, members ...any) *redis.IntCmd
	Ping(ctx context.Context) *redis.StatusCmd
}

// Redis keeps each namespace in a Redis set.
type Redis struct {
	client redisClient
	prefix string
}

// NewRedis creates a Redis backend. The client is closed by Close when it
// implements io.Closer.
func NewRedis(client redisClient, prefix string) *Redis {
	return &Redis{client: client, prefix: prefix}
}

func (r *Redis) key(namespace string) string {
	return r.prefix + namespace
}

func (r *Redis) Taken(ctx context.Context, namespace, value string) (bool, error) {
	return r.client.SIsMember(ctx, r.key(namespace), value).Result()
}

func (r *Redis) Reserve(ctx context.Context, namespace, value string) error {
	added, err := r.client.SAdd(ctx, r.key(namespace), value).Result()
	if err != nil {
		return err
	}
	if added == 0 {
		return ErrTaken
	}
	return nil
}

func (r *Redis) Healthcheck(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return errors.Join(ErrHealthcheckFailed, err)
	}
	return nil
}

func (r *Redis) Close(context.Context) error {
	if c, ok := r.client.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
