package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/colcmp/internal/dataset"
	"github.com/sells-group/colcmp/internal/model"
)

// Pool is the subset of pgxpool.Pool the store uses. Satisfied by
// pgxmock.PgxPoolIface in tests.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool Pool
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// preparedStatements lists queries to prepare on each new connection.
var preparedStatements = map[string]string{
	"get_cached_location": `SELECT name, families FROM location_cache WHERE kind = $1 AND code = $2 AND expires_at > now()`,
	"set_cached_location": `INSERT INTO location_cache (id, kind, code, name, families, cached_at, expires_at) VALUES ($1, $2, $3, $4, $5, $6, $7) ON CONFLICT (kind, code) DO UPDATE SET name = $4, families = $5, cached_at = $6, expires_at = $7`,
	"delete_expired":      `DELETE FROM location_cache WHERE expires_at <= now()`,
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(4)
	minConns := int32(1)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pgxCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		for name, sql := range preparedStatements {
			if _, err := conn.Prepare(ctx, name, sql); err != nil {
				return eris.Wrapf(err, "postgres: prepare %s", name)
			}
		}
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

// NewPostgresWithPool wraps an existing pool; used by tests.
func NewPostgresWithPool(pool Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS location_cache (
	id         TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	kind       TEXT NOT NULL,
	code       TEXT NOT NULL,
	name       TEXT NOT NULL,
	families   JSONB NOT NULL,
	cached_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	expires_at TIMESTAMPTZ NOT NULL,
	UNIQUE(kind, code)
);

CREATE INDEX IF NOT EXISTS idx_location_cache_expires_at ON location_cache(expires_at);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) GetCachedLocation(ctx context.Context, id model.ID) (*dataset.RawLocation, error) {
	var name string
	var familiesJSON []byte

	err := s.pool.QueryRow(ctx,
		`SELECT name, families FROM location_cache
		 WHERE kind = $1 AND code = $2 AND expires_at > now()`,
		string(id.Kind), id.Code,
	).Scan(&name, &familiesJSON)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, eris.Wrapf(err, "postgres: get cached location %s", id)
	}

	raw := &dataset.RawLocation{ID: id, Name: name}
	if err := json.Unmarshal(familiesJSON, &raw.Families); err != nil {
		return nil, eris.Wrapf(err, "postgres: unmarshal cached figures %s", id)
	}
	return raw, nil
}

func (s *PostgresStore) SetCachedLocation(ctx context.Context, raw dataset.RawLocation, ttl time.Duration) error {
	now := time.Now().UTC()
	expiresAt := now.Add(ttl)

	familiesJSON, err := json.Marshal(raw.Families)
	if err != nil {
		return eris.Wrapf(err, "postgres: marshal figures %s", raw.ID)
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO location_cache (id, kind, code, name, families, cached_at, expires_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (kind, code) DO UPDATE SET name = $4, families = $5, cached_at = $6, expires_at = $7`,
		uuid.New().String(), string(raw.ID.Kind), raw.ID.Code, raw.Name, familiesJSON, now, expiresAt,
	)
	return eris.Wrapf(err, "postgres: set cached location %s", raw.ID)
}

func (s *PostgresStore) DeleteExpired(ctx context.Context) (int, error) {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM location_cache WHERE expires_at <= now()`,
	)
	if err != nil {
		return 0, eris.Wrap(err, "postgres: delete expired")
	}
	return int(tag.RowsAffected()), nil
}
