package store

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/colcmp/internal/model"
)

// newMockPostgresStore creates a PostgresStore backed by pgxmock for unit testing.
func newMockPostgresStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	return NewPostgresWithPool(mock), mock
}

func TestPostgresStore_GetCachedLocation_Miss(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT name, families FROM location_cache`).
		WithArgs("metro", "99999").
		WillReturnError(pgx.ErrNoRows)

	got, err := s.GetCachedLocation(context.Background(), model.ID{Kind: model.KindMetro, Code: "99999"})
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetCachedLocation_Hit(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	raw := testRawLocation()
	familiesJSON, err := json.Marshal(raw.Families)
	require.NoError(t, err)

	mock.ExpectQuery(`SELECT name, families FROM location_cache`).
		WithArgs("metro", "35620").
		WillReturnRows(pgxmock.NewRows([]string{"name", "families"}).
			AddRow(raw.Name, familiesJSON))

	got, err := s.GetCachedLocation(context.Background(), raw.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, raw.Name, got.Name)
	assert.InDelta(t, 60000, got.Families["1a0c"].BeforeTax, 1e-9)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_SetCachedLocation_Upsert(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`ON CONFLICT`).
		WithArgs(pgxmock.AnyArg(), "metro", "35620", pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := s.SetCachedLocation(context.Background(), testRawLocation(), 24*time.Hour)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_DeleteExpired(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`DELETE FROM location_cache`).
		WillReturnResult(pgxmock.NewResult("DELETE", 3))

	n, err := s.DeleteExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
