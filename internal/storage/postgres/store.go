// Package postgres provides a PostgreSQL implementation of core.SubmissionStore
// on a pgx connection pool.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JonMunkholm/aitools/internal/core"
)

// SchemaSQL creates the submissions table. seq keeps insertion order.
const SchemaSQL = `
CREATE TABLE IF NOT EXISTS submissions (
	seq            BIGSERIAL PRIMARY KEY,
	id             UUID NOT NULL UNIQUE,
	name           TEXT NOT NULL,
	description    TEXT NOT NULL,
	url            TEXT NOT NULL,
	category       TEXT NOT NULL,
	logo_url       TEXT NOT NULL DEFAULT '',
	tags           TEXT NOT NULL DEFAULT '',
	contact_email  TEXT NOT NULL DEFAULT '',
	submitted_by   TEXT NOT NULL DEFAULT '',
	submitter_name TEXT NOT NULL DEFAULT '',
	status         TEXT NOT NULL CHECK (status IN ('pending', 'approved', 'rejected')),
	submitted_at   TIMESTAMPTZ NOT NULL,
	reviewed_at    TIMESTAMPTZ,
	reviewed_by    TEXT NOT NULL DEFAULT '',
	review_notes   TEXT NOT NULL DEFAULT '',
	version        INTEGER NOT NULL DEFAULT 1
);
CREATE INDEX IF NOT EXISTS idx_submissions_status ON submissions (status, seq);
`

const selectColumns = "id::text, name, description, url, category, logo_url, tags, contact_email, submitted_by, submitter_name, status, submitted_at, reviewed_at, reviewed_by, review_notes, version"

// pgUniqueViolation is the SQLSTATE for a unique constraint violation.
const pgUniqueViolation = "23505"

// pgInvalidText is the SQLSTATE raised when an id is not a valid UUID.
const pgInvalidText = "22P02"

// PoolConfig holds connection pool settings.
type PoolConfig struct {
	URL      string
	MaxConns int32
	MinConns int32
}

// Store implements core.SubmissionStore with PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
}

var _ core.SubmissionStore = (*Store)(nil)

// Connect opens a pool, verifies it with a ping and applies the schema.
func Connect(ctx context.Context, cfg PoolConfig) (*Store, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolConfig.MinConns = cfg.MinConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := New(pool)
	if err := s.Migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

// New wraps an existing pool. Call Migrate before use.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Migrate creates the schema if it does not exist.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, SchemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Close releases the pool.
func (s *Store) Close() {
	s.pool.Close()
}

// Append persists a new submission.
func (s *Store) Append(ctx context.Context, sub core.Submission) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO submissions (id, name, description, url, category, logo_url, tags, contact_email,
			submitted_by, submitter_name, status, submitted_at, reviewed_at, reviewed_by, review_notes, version)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		sub.ID, sub.Name, sub.Description, sub.URL, sub.Category, sub.LogoURL, sub.Tags, sub.ContactEmail,
		sub.SubmittedBy, sub.SubmitterName, string(sub.Status), sub.SubmittedAt,
		timestamptz(sub), sub.ReviewedBy, sub.ReviewNotes, sub.Version,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return fmt.Errorf("append submission %s: duplicate key: %w", sub.ID, err)
		}
		return fmt.Errorf("append submission: %w", err)
	}
	return nil
}

// Get retrieves a submission by its ID.
func (s *Store) Get(ctx context.Context, id string) (core.Submission, error) {
	rows, err := s.pool.Query(ctx, "SELECT "+selectColumns+" FROM submissions WHERE id = $1", id)
	if err != nil {
		return core.Submission{}, s.lookupError(id, err)
	}
	sub, err := pgx.CollectExactlyOneRow(rows, scanSubmission)
	if err != nil {
		return core.Submission{}, s.lookupError(id, err)
	}
	return sub, nil
}

// QueryByStatus lists submissions in insertion order.
func (s *Store) QueryByStatus(ctx context.Context, status *core.Status) ([]core.Submission, error) {
	query := "SELECT " + selectColumns + " FROM submissions"
	var args []any
	if status != nil {
		query += " WHERE status = $1"
		args = append(args, string(*status))
	}
	query += " ORDER BY seq"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	subs, err := pgx.CollectRows(rows, scanSubmission)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	if subs == nil {
		subs = []core.Submission{}
	}
	return subs, nil
}

// UpdateByID replaces the review fields if the stored version matches.
// submitted_at is never rewritten.
func (s *Store) UpdateByID(ctx context.Context, id string, expectedVersion int, sub core.Submission) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE submissions
		    SET name = $1, description = $2, url = $3, category = $4, logo_url = $5, tags = $6,
		        contact_email = $7, status = $8, reviewed_at = $9, reviewed_by = $10,
		        review_notes = $11, version = $12
		  WHERE id = $13 AND version = $14`,
		sub.Name, sub.Description, sub.URL, sub.Category, sub.LogoURL, sub.Tags, sub.ContactEmail,
		string(sub.Status), timestamptz(sub), sub.ReviewedBy, sub.ReviewNotes, sub.Version,
		id, expectedVersion,
	)
	if err != nil {
		return s.lookupError(id, err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	var current int
	err = s.pool.QueryRow(ctx, "SELECT version FROM submissions WHERE id = $1", id).Scan(&current)
	if err != nil {
		return s.lookupError(id, err)
	}
	return &core.ConflictError{
		ID:     id,
		Reason: fmt.Sprintf("version mismatch: expected %d, found %d", expectedVersion, current),
	}
}

// lookupError maps "no row" and malformed UUIDs to *core.NotFoundError.
func (s *Store) lookupError(id string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return &core.NotFoundError{Kind: "submission", ID: id}
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgInvalidText {
		return &core.NotFoundError{Kind: "submission", ID: id}
	}
	return fmt.Errorf("submission %s: %w", id, err)
}

func scanSubmission(row pgx.CollectableRow) (core.Submission, error) {
	var (
		sub        core.Submission
		status     string
		reviewedAt pgtype.Timestamptz
	)
	err := row.Scan(&sub.ID, &sub.Name, &sub.Description, &sub.URL, &sub.Category, &sub.LogoURL, &sub.Tags,
		&sub.ContactEmail, &sub.SubmittedBy, &sub.SubmitterName, &status, &sub.SubmittedAt, &reviewedAt,
		&sub.ReviewedBy, &sub.ReviewNotes, &sub.Version)
	if err != nil {
		return core.Submission{}, err
	}

	sub.Status = core.Status(status)
	sub.SubmittedAt = sub.SubmittedAt.UTC()
	if reviewedAt.Valid {
		t := reviewedAt.Time.UTC()
		sub.ReviewedAt = &t
	}
	return sub, nil
}

func timestamptz(sub core.Submission) pgtype.Timestamptz {
	if sub.ReviewedAt == nil {
		return pgtype.Timestamptz{}
	}
	return pgtype.Timestamptz{Time: *sub.ReviewedAt, Valid: true}
}
