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

	"github.com/webgap/leadscout/internal/leads"
)

// Pool is the subset of pgxpool.Pool the store uses, satisfied by pgxmock.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool Pool
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	pgxCfg.MaxConns = 10
	pgxCfg.MinConns = 2
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

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

const postgresMigration = `
CREATE TABLE IF NOT EXISTS pipeline_leads (
	id         UUID PRIMARY KEY,
	place_id   TEXT NOT NULL UNIQUE,
	lead       JSONB NOT NULL,
	status     TEXT NOT NULL DEFAULT 'New',
	notes      TEXT NOT NULL DEFAULT '',
	email      TEXT NOT NULL DEFAULT '',
	website    TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_pipeline_leads_status ON pipeline_leads(status);
CREATE INDEX IF NOT EXISTS idx_pipeline_leads_place_id ON pipeline_leads(place_id);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) CreateLead(ctx context.Context, lead leads.QualifiedLead) (*Record, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	leadJSON, err := json.Marshal(lead)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: marshal lead")
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO pipeline_leads (id, place_id, lead, status, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		id, lead.PlaceID, leadJSON, string(leads.StatusNew), now, now,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: insert lead %s", lead.PlaceID)
	}

	return &Record{
		ID:        id,
		Lead:      lead,
		Status:    leads.StatusNew,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (s *PostgresStore) GetLead(ctx context.Context, id string) (*Record, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, lead, status, notes, email, website, created_at, updated_at FROM pipeline_leads WHERE id = $1`,
		id,
	)
	rec, err := scanPgRecord(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get lead %s", id)
	}
	return rec, nil
}

func (s *PostgresStore) ListLeads(ctx context.Context, filter ListFilter) ([]Record, error) {
	query := `SELECT id, lead, status, notes, email, website, created_at, updated_at FROM pipeline_leads`
	var args []any
	if filter.Status != "" {
		query += ` WHERE status = $1`
		args = append(args, string(filter.Status))
	}
	query += ` ORDER BY created_at DESC`
	if filter.Limit > 0 {
		if len(args) > 0 {
			query += ` LIMIT $2`
		} else {
			query += ` LIMIT $1`
		}
		args = append(args, filter.Limit)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list leads")
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		rec, err := scanPgRecord(rows)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: scan lead")
		}
		records = append(records, *rec)
	}
	return records, eris.Wrap(rows.Err(), "postgres: iterate leads")
}

func (s *PostgresStore) UpdateStatus(ctx context.Context, id string, status leads.Status) error {
	if !status.Valid() {
		return eris.Errorf("postgres: invalid status %q", status)
	}
	tag, err := s.pool.Exec(ctx,
		`UPDATE pipeline_leads SET status = $1, updated_at = $2 WHERE id = $3`,
		string(status), time.Now().UTC(), id,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: update status %s", id)
	}
	return checkTag(tag)
}

func (s *PostgresStore) UpdateNotes(ctx context.Context, id, notes string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE pipeline_leads SET notes = $1, updated_at = $2 WHERE id = $3`,
		notes, time.Now().UTC(), id,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: update notes %s", id)
	}
	return checkTag(tag)
}

func (s *PostgresStore) UpdateContact(ctx context.Context, id, email, website string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE pipeline_leads SET email = $1, website = $2, updated_at = $3 WHERE id = $4`,
		email, website, time.Now().UTC(), id,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: update contact %s", id)
	}
	return checkTag(tag)
}

func (s *PostgresStore) DeleteLead(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM pipeline_leads WHERE id = $1`, id)
	if err != nil {
		return eris.Wrapf(err, "postgres: delete lead %s", id)
	}
	return checkTag(tag)
}

func (s *PostgresStore) HasPlace(ctx context.Context, placeID string) (bool, error) {
	var one int
	err := s.pool.QueryRow(ctx,
		`SELECT 1 FROM pipeline_leads WHERE place_id = $1`, placeID,
	).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, eris.Wrapf(err, "postgres: has place %s", placeID)
	}
	return true, nil
}

func scanPgRecord(row pgx.Row) (*Record, error) {
	var (
		rec      Record
		leadJSON []byte
		status   string
	)
	if err := row.Scan(&rec.ID, &leadJSON, &status, &rec.Notes, &rec.Email, &rec.Website, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(leadJSON, &rec.Lead); err != nil {
		return nil, eris.Wrap(err, "unmarshal lead")
	}
	rec.Status = leads.Status(status)
	return &rec, nil
}

func checkTag(tag pgconn.CommandTag) error {
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
