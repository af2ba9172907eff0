package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/colcmp/internal/dataset"
	"github.com/sells-group/colcmp/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS location_cache (
	id         TEXT PRIMARY KEY,
	kind       TEXT NOT NULL,
	code       TEXT NOT NULL,
	name       TEXT NOT NULL,
	families   TEXT NOT NULL,
	cached_at  DATETIME NOT NULL DEFAULT (datetime('now')),
	expires_at DATETIME NOT NULL,
	UNIQUE(kind, code)
);

CREATE INDEX IF NOT EXISTS idx_location_cache_expires_at ON location_cache(expires_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) GetCachedLocation(ctx context.Context, id model.ID) (*dataset.RawLocation, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT name, families FROM location_cache
		 WHERE kind = ? AND code = ? AND expires_at > datetime('now')`,
		string(id.Kind), id.Code,
	)

	var name, familiesJSON string
	err := row.Scan(&name, &familiesJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get cached location %s", id)
	}

	raw := &dataset.RawLocation{ID: id, Name: name}
	if err := json.Unmarshal([]byte(familiesJSON), &raw.Families); err != nil {
		return nil, eris.Wrapf(err, "sqlite: unmarshal cached figures %s", id)
	}
	return raw, nil
}

// sqliteTimeFormat matches datetime('now') so TTL comparisons stay textual.
const sqliteTimeFormat = "2006-01-02 15:04:05"

func (s *SQLiteStore) SetCachedLocation(ctx context.Context, raw dataset.RawLocation, ttl time.Duration) error {
	now := time.Now().UTC().Format(sqliteTimeFormat)
	expiresAt := time.Now().UTC().Add(ttl).Format(sqliteTimeFormat)

	familiesJSON, err := json.Marshal(raw.Families)
	if err != nil {
		return eris.Wrapf(err, "sqlite: marshal figures %s", raw.ID)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO location_cache (id, kind, code, name, families, cached_at, expires_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(kind, code) DO UPDATE SET name = ?, families = ?, cached_at = ?, expires_at = ?`,
		uuid.New().String(), string(raw.ID.Kind), raw.ID.Code, raw.Name, string(familiesJSON), now, expiresAt,
		raw.Name, string(familiesJSON), now, expiresAt,
	)
	return eris.Wrapf(err, "sqlite: set cached location %s", raw.ID)
}

func (s *SQLiteStore) DeleteExpired(ctx context.Context) (int, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM location_cache WHERE expires_at <= datetime('now')`,
	)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: delete expired")
	}
	n, err := res.RowsAffected()
	return int(n), eris.Wrap(err, "sqlite: rows affected")
}
