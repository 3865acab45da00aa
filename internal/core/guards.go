package core

import "fmt"

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string
}

// ReviewContext provides context for review transition guards.
type ReviewContext struct {
	SubmissionID string
	Current      Status
	Decision     Status
}

// CanReview evaluates whether a review decision may be applied.
// Rules:
// - Decision must be "approved" or "rejected"
// - Current status must be "pending"; approved and rejected are terminal
func CanReview(ctx ReviewContext) GuardResult {
	if ctx.Decision != StatusApproved && ctx.Decision != StatusRejected {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("decision must be approved or rejected (got %q)", ctx.Decision),
		}
	}

	if ctx.Current != StatusPending {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("can only review pending submissions (current status: %s)", ctx.Current),
		}
	}

	return GuardResult{Allowed: true}
}
