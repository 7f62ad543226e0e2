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

	"github.com/webgap/leadscout/internal/leads"
)

// newMockPostgresStore creates a PostgresStore backed by pgxmock for unit testing.
func newMockPostgresStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	s := &PostgresStore{pool: mock}
	return s, mock
}

func TestPostgresStore_CreateLead(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`INSERT INTO pipeline_leads`).
		WithArgs(pgxmock.AnyArg(), "ChIJ-1", pgxmock.AnyArg(), "New", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	rec, err := s.CreateLead(context.Background(), testLead("ChIJ-1"))
	require.NoError(t, err)
	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, leads.StatusNew, rec.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetLead(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	leadJSON, err := json.Marshal(testLead("ChIJ-1"))
	require.NoError(t, err)
	now := time.Now().UTC()

	mock.ExpectQuery(`SELECT id, lead, status, notes, email, website, created_at, updated_at FROM pipeline_leads WHERE id = \$1`).
		WithArgs("rec-1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "lead", "status", "notes", "email", "website", "created_at", "updated_at"}).
			AddRow("rec-1", leadJSON, "Contacted", "left a message", "", "", now, now))

	rec, err := s.GetLead(context.Background(), "rec-1")
	require.NoError(t, err)
	assert.Equal(t, "ChIJ-1", rec.Lead.PlaceID)
	assert.Equal(t, leads.StatusContacted, rec.Status)
	assert.Equal(t, "left a message", rec.Notes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetLead_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT id, lead, status, notes, email, website, created_at, updated_at FROM pipeline_leads WHERE id = \$1`).
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	_, err := s.GetLead(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_UpdateStatus_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`UPDATE pipeline_leads SET status = \$1, updated_at = \$2 WHERE id = \$3`).
		WithArgs("Closed", pgxmock.AnyArg(), "missing").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := s.UpdateStatus(context.Background(), "missing", leads.StatusClosed)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_HasPlace(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT 1 FROM pipeline_leads WHERE place_id = \$1`).
		WithArgs("ChIJ-1").
		WillReturnRows(pgxmock.NewRows([]string{"?column?"}).AddRow(1))

	has, err := s.HasPlace(context.Background(), "ChIJ-1")
	require.NoError(t, err)
	assert.True(t, has)

	mock.ExpectQuery(`SELECT 1 FROM pipeline_leads WHERE place_id = \$1`).
		WithArgs("ChIJ-2").
		WillReturnError(pgx.ErrNoRows)

	has, err = s.HasPlace(context.Background(), "ChIJ-2")
	require.NoError(t, err)
	assert.False(t, has)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_DeleteLead(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`DELETE FROM pipeline_leads WHERE id = \$1`).
		WithArgs("rec-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	assert.NoError(t, s.DeleteLead(context.Background(), "rec-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
