package core

import (
	"context"
	"fmt"

	"github.com/JonMunkholm/aitools/internal/logging"
)

// Submit validates and stores a new submission.
// The stored record is always pending with SubmittedAt set to now,
// whatever the caller sent.
func (s *Service) Submit(ctx context.Context, req SubmitRequest) (*Submission, error) {
	req, err := ValidateSubmission(req)
	if err != nil {
		return nil, err
	}

	sub := Submission{
		ID:            s.newID(),
		Name:          req.Name,
		Description:   req.Description,
		URL:           req.URL,
		Category:      req.Category,
		LogoURL:       req.LogoURL,
		Tags:          req.Tags,
		ContactEmail:  req.ContactEmail,
		SubmittedBy:   req.SubmittedBy,
		SubmitterName: req.SubmitterName,
		Status:        StatusPending,
		SubmittedAt:   s.now().UTC(),
		Version:       1,
	}

	if err := s.store.Append(ctx, sub); err != nil {
		return nil, fmt.Errorf("append submission: %w", err)
	}

	logger := logging.WithFields(ctx, "submission_id", sub.ID)
	logger.Info("submission received", "name", sub.Name, "category", sub.Category)

	s.audit.Record(ctx, AuditLogParams{
		Action:   ActionSubmit,
		TargetID: sub.ID,
		Detail:   sub.Name,
	})
	s.invalidate(ctx, CacheKeySubmissions)
	s.notify(ctx, sub)

	return &sub, nil
}

// notify tells the notifier about a new submission.
// Failures are logged; the submission itself has already succeeded.
func (s *Service) notify(ctx context.Context, sub Submission) {
	if s.notifier == nil {
		return
	}
	notifyCtx, cancel := context.WithTimeout(ctx, s.notifyTimeout)
	defer cancel()

	if err := s.notifier.SubmissionReceived(notifyCtx, sub); err != nil {
		logging.FromContext(ctx).Warn("admin notification failed",
			"submission_id", sub.ID,
			"error", err,
		)
	}
}

// ListSubmissions returns submissions with the given status in insertion
// order, or every submission when status is nil.
func (s *Service) ListSubmissions(ctx context.Context, status *Status) ([]Submission, error) {
	subs, err := s.store.QueryByStatus(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	return subs, nil
}

// GetSubmission returns one submission by ID.
func (s *Service) GetSubmission(ctx context.Context, id string) (*Submission, error) {
	sub, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// ReviewSubmission applies an admin decision to a pending submission.
//
// Errors:
//   - *NotFoundError if the ID resolves to nothing
//   - *ValidationError if the decision is not approved or rejected
//   - *ConflictError if the submission was already reviewed, or another
//     review updated it first
//
// Approved submissions are published to the catalog.
func (s *Service) ReviewSubmission(ctx context.Context, req ReviewRequest) (*Submission, error) {
	current, err := s.store.Get(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	guard := CanReview(ReviewContext{
		SubmissionID: current.ID,
		Current:      current.Status,
		Decision:     req.Decision,
	})
	if !guard.Allowed {
		if req.Decision != StatusApproved && req.Decision != StatusRejected {
			return nil, &ValidationError{Invalid: map[string]string{"decision": guard.Reason}}
		}
		return nil, &ConflictError{ID: current.ID, Reason: guard.Reason}
	}

	reviewedAt := s.now().UTC()
	updated := current
	updated.Status = req.Decision
	updated.ReviewedAt = &reviewedAt
	updated.ReviewedBy = req.Reviewer
	if updated.ReviewedBy == "" {
		updated.ReviewedBy = GetActorFromContext(ctx)
	}
	updated.ReviewNotes = req.Notes
	updated.Version = current.Version + 1

	if err := s.store.UpdateByID(ctx, current.ID, current.Version, updated); err != nil {
		return nil, err
	}

	logger := logging.WithFields(ctx, "submission_id", updated.ID)
	logger.Info("submission reviewed", "decision", updated.Status, "reviewer", updated.ReviewedBy)

	action := ActionReject
	keys := []string{CacheKeySubmissions}
	if updated.Status == StatusApproved {
		action = ActionApprove
		if s.publish(ctx, toolFromSubmission(updated)) > 0 {
			keys = append(keys, CacheKeyCatalog)
		}
	}

	s.audit.Record(ctx, AuditLogParams{
		Action:   action,
		TargetID: updated.ID,
		Detail:   updated.ReviewNotes,
	})
	s.invalidate(ctx, keys...)

	return &updated, nil
}

// publish adds tools to the catalog and returns how many were new.
// Catalog failures are logged; the calling operation has already committed.
func (s *Service) publish(ctx context.Context, tools ...Tool) int {
	if s.catalog == nil || len(tools) == 0 {
		return 0
	}
	added, err := s.catalog.Add(ctx, tools...)
	if err != nil {
		logging.FromContext(ctx).Warn("catalog publish failed", "tools", len(tools), "error", err)
	}
	return added
}

func toolFromSubmission(sub Submission) Tool {
	return Tool{
		ID:          sub.ID,
		Name:        sub.Name,
		Description: sub.Description,
		Category:    sub.Category,
		URL:         sub.URL,
		LogoURL:     sub.LogoURL,
		Tags:        SplitTags(sub.Tags),
		Source:      "submission",
	}
}
