package uniqueness

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dmitrymomot/formguard/pkg/logger"
)

// Backend names accepted by Config.Backend.
const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendMongo    = "mongo"
)

// Config selects and configures a backend.
type Config struct {
	Backend  string        `env:"UNIQUENESS_BACKEND" envDefault:"memory"`
	CacheTTL time.Duration `env:"UNIQUENESS_CACHE_TTL" envDefault:"10s"` // CacheTTL bounds how long lookups are reused; zero disables caching.
	Redis    RedisConfig
	Postgres PostgresConfig
	Mongo    MongoConfig
}

// Open connects the backend named by cfg.Backend. The PostgreSQL backend is
// migrated and the MongoDB backend indexed before use.
func Open(ctx context.Context, cfg Config, log *slog.Logger) (Backend, error) {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	log = log.With(logger.Backend(cfg.Backend))

	switch cfg.Backend {
	case BackendMemory, "":
		return NewMemory(), nil

	case BackendRedis:
		client, err := ConnectRedis(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		log.InfoContext(ctx, "uniqueness backend connected")
		return NewRedis(client, cfg.Redis.KeyPrefix), nil

	case BackendPostgres:
		pool, err := ConnectPostgres(ctx, cfg.Postgres)
		if err != nil {
			return nil, err
		}
		if err := MigratePostgres(ctx, pool, cfg.Postgres, log); err != nil {
			pool.Close()
			return nil, err
		}
		log.InfoContext(ctx, "uniqueness backend connected")
		return NewPostgres(pool), nil

	case BackendMongo:
		client, err := ConnectMongo(ctx, cfg.Mongo)
		if err != nil {
			return nil, err
		}
		coll := client.Database(cfg.Mongo.Database).Collection(cfg.Mongo.Collection)
		if err := EnsureMongoIndex(ctx, coll); err != nil {
			_ = client.Disconnect(ctx)
			return nil, fmt.Errorf("uniqueness: create index: %w", err)
		}
		log.InfoContext(ctx, "uniqueness backend connected")
		return NewMongo(coll, client), nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}
