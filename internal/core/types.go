package core

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Status is the review state of a submission.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Statuses lists every status in lifecycle order.
var Statuses = []Status{StatusPending, StatusApproved, StatusRejected}

// ParseStatus converts a string to a Status.
// Matching is case-insensitive; unknown values return an error.
func ParseStatus(s string) (Status, error) {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case StatusPending:
		return StatusPending, nil
	case StatusApproved:
		return StatusApproved, nil
	case StatusRejected:
		return StatusRejected, nil
	}
	return "", fmt.Errorf("unknown status %q", s)
}

// IsTerminal reports whether no transition leaves this status.
func (s Status) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// Submission is a user-proposed tool awaiting (or past) admin review.
type Submission struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Description   string     `json:"description"`
	URL           string     `json:"url"`
	Category      string     `json:"category"`
	LogoURL       string     `json:"logoUrl,omitempty"`
	Tags          string     `json:"tags,omitempty"`
	ContactEmail  string     `json:"contactEmail,omitempty"`
	SubmittedBy   string     `json:"submittedBy,omitempty"`
	SubmitterName string     `json:"submitterName,omitempty"`
	Status        Status     `json:"status"`
	SubmittedAt   time.Time  `json:"submittedAt"`
	ReviewedAt    *time.Time `json:"reviewedAt,omitempty"`
	ReviewedBy    string     `json:"reviewedBy,omitempty"`
	ReviewNotes   string     `json:"reviewNotes,omitempty"`
	Version       int        `json:"version"`
}

// SubmitRequest carries the caller-supplied fields of a new submission.
// Any status the caller sends is ignored; new submissions are always pending.
type SubmitRequest struct {
	Name          string `json:"name"`
	Description   string `json:"description"`
	URL           string `json:"url"`
	Category      string `json:"category"`
	LogoURL       string `json:"logoUrl"`
	Tags          string `json:"tags"`
	ContactEmail  string `json:"contactEmail"`
	SubmittedBy   string `json:"submittedBy"`
	SubmitterName string `json:"submitterName"`
}

// ReviewRequest is an admin decision on a pending submission.
type ReviewRequest struct {
	ID       string
	Decision Status
	Notes    string
	Reviewer string
}

// Format selects the bulk import input format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// ParseFormat converts a string to a Format.
// "delimited" and "structured" are accepted as aliases.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv", "delimited", "text/csv":
		return FormatCSV, nil
	case "json", "structured", "application/json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("unknown import format %q (use csv or json)", s)
}

// Candidate is one parsed row of a bulk import payload.
type Candidate struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	Category    string `json:"category" yaml:"category"`
	URL         string `json:"url" yaml:"url"`
	LogoURL     string `json:"logoUrl,omitempty" yaml:"logoUrl,omitempty"`
	Tags        string `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// Valid reports whether every required field is non-empty.
func (c Candidate) Valid() bool {
	return c.Name != "" && c.Description != "" && c.Category != "" && c.URL != ""
}

// ImportResult summarizes a bulk import.
// Total counts attempted rows; blank CSV lines are not attempted.
type ImportResult struct {
	ImportID string   `json:"importId,omitempty"`
	Format   Format   `json:"format,omitempty"`
	Total    int      `json:"total"`
	Success  int      `json:"success"`
	Failed   int      `json:"failed"`
	Errors   []string `json:"errors"`
	Added    int      `json:"added"`
}

// ImportPreview is the dry-run outcome of an import.
type ImportPreview struct {
	Result     ImportResult `json:"result"`
	Candidates []Candidate  `json:"candidates"`
}

// Tool is a published directory entry.
type Tool struct {
	ID          string    `json:"id" yaml:"id"`
	Name        string    `json:"name" yaml:"name"`
	Description string    `json:"description" yaml:"description"`
	Category    string    `json:"category" yaml:"category"`
	URL         string    `json:"url" yaml:"url"`
	LogoURL     string    `json:"logoUrl,omitempty" yaml:"logoUrl,omitempty"`
	Tags        []string  `json:"tags,omitempty" yaml:"tags,omitempty"`
	Source      string    `json:"source,omitempty" yaml:"source,omitempty"`
	AddedAt     time.Time `json:"addedAt" yaml:"addedAt,omitempty"`
}

// SplitTags turns a comma-delimited tag string into trimmed, non-empty tags.
func SplitTags(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			tags = append(tags, p)
		}
	}
	return tags
}

// SubmissionStore is the persistence backend for submissions.
// Implementations must return copies so callers cannot mutate stored records.
type SubmissionStore interface {
	// Append stores a new submission. The ID must be unique.
	Append(ctx context.Context, sub Submission) error

	// Get returns the submission with the given ID or a *NotFoundError.
	Get(ctx context.Context, id string) (Submission, error)

	// QueryByStatus returns submissions in insertion order.
	// A nil status returns every submission.
	QueryByStatus(ctx context.Context, status *Status) ([]Submission, error)

	// UpdateByID replaces the stored record if its version still equals
	// expectedVersion. Returns *NotFoundError or *ConflictError otherwise.
	UpdateByID(ctx context.Context, id string, expectedVersion int, sub Submission) error
}

// Catalog receives tools that pass review or import.
type Catalog interface {
	// Add publishes tools and returns how many were new.
	Add(ctx context.Context, tools ...Tool) (int, error)
}

// Invalidator is told which cached views are stale after a mutation.
type Invalidator interface {
	Invalidate(ctx context.Context, keys ...string)
}

// Cache keys passed to an Invalidator.
const (
	CacheKeySubmissions = "submissions"
	CacheKeyCatalog     = "catalog"
)

// Notifier is told about new submissions, e.g. to email the admins.
type Notifier interface {
	SubmissionReceived(ctx context.Context, sub Submission) error
}
