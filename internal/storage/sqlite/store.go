// Package sqlite contains a SQLite implementation of core.SubmissionStore.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/JonMunkholm/aitools/internal/core"
)

// schemaSQL creates the submissions table. seq keeps insertion order.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS submissions (
	seq            INTEGER PRIMARY KEY AUTOINCREMENT,
	id             TEXT NOT NULL UNIQUE,
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
	submitted_at   TEXT NOT NULL,
	reviewed_at    TEXT,
	reviewed_by    TEXT NOT NULL DEFAULT '',
	review_notes   TEXT NOT NULL DEFAULT '',
	version        INTEGER NOT NULL DEFAULT 1
);
CREATE INDEX IF NOT EXISTS idx_submissions_status ON submissions (status, seq);
`

const selectColumns = "id, name, description, url, category, logo_url, tags, contact_email, submitted_by, submitter_name, status, submitted_at, reviewed_at, reviewed_by, review_notes, version"

// Store implements core.SubmissionStore with SQLite.
type Store struct {
	db *sql.DB
}

var _ core.SubmissionStore = (*Store)(nil)

// Open opens (creating if needed) the database at path and applies the schema.
// Use ":memory:" for a throwaway database.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}
	// One connection keeps ":memory:" databases shared and serializes writers.
	db.SetMaxOpenConns(1)

	s := New(db)
	if err := s.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// New wraps an existing database handle. Call Migrate before use.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Migrate creates the schema if it does not exist.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Append persists a new submission.
func (s *Store) Append(ctx context.Context, sub core.Submission) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO submissions (id, name, description, url, category, logo_url, tags, contact_email, submitted_by, submitter_name, status, submitted_at, reviewed_at, reviewed_by, review_notes, version) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		sub.ID, sub.Name, sub.Description, sub.URL, sub.Category, sub.LogoURL, sub.Tags, sub.ContactEmail,
		sub.SubmittedBy, sub.SubmitterName, string(sub.Status), formatTime(sub.SubmittedAt),
		nullTime(sub.ReviewedAt), sub.ReviewedBy, sub.ReviewNotes, sub.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to append submission: %w", err)
	}
	return nil
}

// Get retrieves a submission by its ID.
func (s *Store) Get(ctx context.Context, id string) (core.Submission, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+selectColumns+" FROM submissions WHERE id = ?", id)
	sub, err := scanSubmission(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Submission{}, &core.NotFoundError{Kind: "submission", ID: id}
	}
	if err != nil {
		return core.Submission{}, fmt.Errorf("failed to get submission: %w", err)
	}
	return sub, nil
}

// QueryByStatus lists submissions in insertion order.
func (s *Store) QueryByStatus(ctx context.Context, status *core.Status) ([]core.Submission, error) {
	query := "SELECT " + selectColumns + " FROM submissions"
	args := []any{}
	if status != nil {
		query += " WHERE status = ?"
		args = append(args, string(*status))
	}
	query += " ORDER BY seq"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	defer rows.Close()

	subs := []core.Submission{}
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan submission: %w", err)
		}
		subs = append(subs, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	return subs, nil
}

// UpdateByID replaces the review fields if the stored version matches.
// submitted_at is never rewritten.
func (s *Store) UpdateByID(ctx context.Context, id string, expectedVersion int, sub core.Submission) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE submissions SET name = ?, description = ?, url = ?, category = ?, logo_url = ?, tags = ?, contact_email = ?, status = ?, reviewed_at = ?, reviewed_by = ?, review_notes = ?, version = ? WHERE id = ? AND version = ?",
		sub.Name, sub.Description, sub.URL, sub.Category, sub.LogoURL, sub.Tags, sub.ContactEmail,
		string(sub.Status), nullTime(sub.ReviewedAt), sub.ReviewedBy, sub.ReviewNotes, sub.Version,
		id, expectedVersion,
	)
	if err != nil {
		return fmt.Errorf("failed to update submission: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update submission: %w", err)
	}
	if n == 1 {
		return nil
	}

	var current int
	err = s.db.QueryRowContext(ctx, "SELECT version FROM submissions WHERE id = ?", id).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return &core.NotFoundError{Kind: "submission", ID: id}
	}
	if err != nil {
		return fmt.Errorf("failed to update submission: %w", err)
	}
	return &core.ConflictError{
		ID:     id,
		Reason: fmt.Sprintf("version mismatch: expected %d, found %d", expectedVersion, current),
	}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSubmission(row scanner) (core.Submission, error) {
	var (
		sub         core.Submission
		status      string
		submittedAt string
		reviewedAt  sql.NullString
	)
	err := row.Scan(&sub.ID, &sub.Name, &sub.Description, &sub.URL, &sub.Category, &sub.LogoURL, &sub.Tags,
		&sub.ContactEmail, &sub.SubmittedBy, &sub.SubmitterName, &status, &submittedAt, &reviewedAt,
		&sub.ReviewedBy, &sub.ReviewNotes, &sub.Version)
	if err != nil {
		return core.Submission{}, err
	}

	sub.Status = core.Status(status)
	if sub.SubmittedAt, err = time.Parse(time.RFC3339Nano, submittedAt); err != nil {
		return core.Submission{}, fmt.Errorf("parse submitted_at: %w", err)
	}
	if reviewedAt.Valid {
		t, err := time.Parse(time.RFC3339Nano, reviewedAt.String)
		if err != nil {
			return core.Submission{}, fmt.Errorf("parse reviewed_at: %w", err)
		}
		sub.ReviewedAt = &t
	}
	return sub, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func nullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: formatTime(*t), Valid: true}
}
