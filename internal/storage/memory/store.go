// Package memory provides an in-process SubmissionStore.
//
// It is the default backend: fast, dependency-free, and lost on restart.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/JonMunkholm/aitools/internal/core"
)

// Store keeps submissions in insertion order behind a mutex.
type Store struct {
	mu    sync.RWMutex
	subs  []core.Submission
	index map[string]int
}

// New creates an empty Store.
func New() *Store {
	return &Store{index: make(map[string]int)}
}

var _ core.SubmissionStore = (*Store)(nil)

// Append stores a new submission.
func (s *Store) Append(_ context.Context, sub core.Submission) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.index[sub.ID]; exists {
		return fmt.Errorf("append submission %s: duplicate key", sub.ID)
	}
	s.index[sub.ID] = len(s.subs)
	s.subs = append(s.subs, clone(sub))
	return nil
}

// Get returns a copy of the submission with the given ID.
func (s *Store) Get(_ context.Context, id string) (core.Submission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.index[id]
	if !ok {
		return core.Submission{}, &core.NotFoundError{Kind: "submission", ID: id}
	}
	return clone(s.subs[i]), nil
}

// QueryByStatus returns copies in insertion order; nil status matches all.
func (s *Store) QueryByStatus(_ context.Context, status *core.Status) ([]core.Submission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]core.Submission, 0, len(s.subs))
	for _, sub := range s.subs {
		if status != nil && sub.Status != *status {
			continue
		}
		out = append(out, clone(sub))
	}
	return out, nil
}

// UpdateByID replaces a submission if its stored version matches.
// The submitter fields and SubmittedAt are kept from the stored record.
func (s *Store) UpdateByID(_ context.Context, id string, expectedVersion int, sub core.Submission) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		return &core.NotFoundError{Kind: "submission", ID: id}
	}
	if current := s.subs[i].Version; current != expectedVersion {
		return &core.ConflictError{
			ID:     id,
			Reason: fmt.Sprintf("version mismatch: expected %d, found %d", expectedVersion, current),
		}
	}
	stored := s.subs[i]
	sub.ID = id
	sub.SubmittedAt = stored.SubmittedAt
	sub.SubmittedBy = stored.SubmittedBy
	sub.SubmitterName = stored.SubmitterName
	s.subs[i] = clone(sub)
	return nil
}

// Len returns the number of stored submissions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subs)
}

// clone detaches the ReviewedAt pointer from the caller's copy.
func clone(sub core.Submission) core.Submission {
	if sub.ReviewedAt != nil {
		t := *sub.ReviewedAt
		sub.ReviewedAt = &t
	}
	return sub
}
