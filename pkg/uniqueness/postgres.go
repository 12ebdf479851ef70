package uniqueness

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresConfig configures the PostgreSQL backend.
type PostgresConfig struct {
	ConnectionString  string        `env:"PG_CONN_URL"`                            // ConnectionString is the connection string to the database.
	MaxOpenConns      int32         `env:"PG_MAX_OPEN_CONNS" envDefault:"10"`      // MaxOpenConns is the maximum number of open connections.
	MaxIdleConns      int32         `env:"PG_MAX_IDLE_CONNS" envDefault:"2"`       // MaxIdleConns is the number of connections kept open.
	HealthCheckPeriod time.Duration `env:"PG_HEALTHCHECK_PERIOD" envDefault:"1m"`  // HealthCheckPeriod is the period between pool health checks.
	MaxConnIdleTime   time.Duration `env:"PG_MAX_CONN_IDLE_TIME" envDefault:"10m"` // MaxConnIdleTime is how long a connection may stay idle.
	MaxConnLifetime   time.Duration `env:"PG_MAX_CONN_LIFETIME" envDefault:"30m"`  // MaxConnLifetime is how long a connection may be reused.

	RetryAttempts int           `env:"PG_RETRY_ATTEMPTS" envDefault:"3"`  // RetryAttempts is the number of connection attempts.
	RetryInterval time.Duration `env:"PG_RETRY_INTERVAL" envDefault:"5s"` // RetryInterval is the base pause between attempts.

	MigrationsTable string `env:"PG_MIGRATIONS_TABLE" envDefault:"schema_migrations"` // MigrationsTable stores the applied migration version.
}

// ConnectPostgres opens a pool, retrying with a growing pause until the
// database answers a ping.
func ConnectPostgres(ctx context.Context, cfg PostgresConfig) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.ConnectionString)
	if err != nil {
		return nil, errors.Join(ErrInvalidConnString, err)
	}
	poolCfg.MaxConns = cfg.MaxOpenConns
	poolCfg.MinConns = cfg.MaxIdleConns
	poolCfg.HealthCheckPeriod = cfg.HealthCheckPeriod
	poolCfg.MaxConnIdleTime = cfg.MaxConnIdleTime
	poolCfg.MaxConnLifetime = cfg.MaxConnLifetime

	for i := range max(cfg.RetryAttempts, 1) {
		pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
		if err == nil {
			if err = pool.Ping(ctx); err == nil {
				return pool, nil
			}
			pool.Close()
		}

		select {
		case <-ctx.Done():
			return nil, errors.Join(ErrBackendUnavailable, ctx.Err())
		case <-time.After(time.Duration(i+1) * cfg.RetryInterval):
		}
	}

	return nil, ErrBackendUnavailable
}

const (
	takenQuery   = `SELECT EXISTS (SELECT 1 FROM taken_values WHERE namespace = $1 AND value = $2)`
	reserveQuery = `INSERT INTO taken_values (namespace, value) VALUES ($1, $2) ON CONFLICT DO NOTHING`
)

// pgQuerier is the subset of pgxpool.Pool the backend uses.
type pgQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Postgres keeps taken values in the taken_values table created by
// MigratePostgres.
type Postgres struct {
	db   pgQuerier
	ping func(context.Context) error
	done func()
}

// NewPostgres creates a backend on an open pool.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{db: pool, ping: pool.Ping, done: pool.Close}
}

func (p *Postgres) Taken(ctx context.Context, namespace, value string) (bool, error) {
	var taken bool
	if err := p.db.QueryRow(ctx, takenQuery, namespace, value).Scan(&taken); err != nil {
		return false, err
	}
	return taken, nil
}

func (p *Postgres) Reserve(ctx context.Context, namespace, value string) error {
	tag, err := p.db.Exec(ctx, reserveQuery, namespace, value)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrTaken
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrTaken
	}
	return nil
}

func (p *Postgres) Healthcheck(ctx context.Context) error {
	if p.ping == nil {
		return nil
	}
	if err := p.ping(ctx); err != nil {
		return errors.Join(ErrHealthcheckFailed, err)
	}
	return nil
}

func (p *Postgres) Close(context.Context) error {
	if p.done != nil {
		p.done()
	}
	return nil
}

// isDuplicateKey detects unique constraint violations (SQLSTATE 23505).
func isDuplicateKey(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
