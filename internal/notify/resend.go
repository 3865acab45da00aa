// Package notify emails administrators when a tool is submitted for review.
package notify

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/resend/resend-go/v2"

	"github.com/JonMunkholm/aitools/internal/core"
	"github.com/JonMunkholm/aitools/internal/logging"
)

// emailSender is the slice of the Resend client the notifier uses.
type emailSender interface {
	SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

// Options configures a ResendNotifier.
type Options struct {
	APIKey     string
	From       string
	Recipients []string
	// ReviewURL is the admin queue link included in the email, if set.
	ReviewURL string
}

// ResendNotifier implements core.Notifier with the Resend email API.
type ResendNotifier struct {
	emails     emailSender
	from       string
	recipients []string
	reviewURL  string
}

var _ core.Notifier = (*ResendNotifier)(nil)

// NewResendNotifier creates a notifier. It returns nil when no API key or no
// recipients are configured; callers treat a nil notifier as disabled.
func NewResendNotifier(opts Options) *ResendNotifier {
	if opts.APIKey == "" || len(opts.Recipients) == 0 {
		return nil
	}
	client := resend.NewClient(opts.APIKey)
	return &ResendNotifier{
		emails:     client.Emails,
		from:       opts.From,
		recipients: opts.Recipients,
		reviewURL:  opts.ReviewURL,
	}
}

// SubmissionReceived emails the admins about a new pending submission.
func (n *ResendNotifier) SubmissionReceived(ctx context.Context, sub core.Submission) error {
	params := n.compose(sub)

	res, err := n.emails.SendWithContext(ctx, params)
	if err != nil {
		return fmt.Errorf("send submission email: %w", err)
	}

	logging.WithFields(ctx, "submission_id", sub.ID).Info("admin notification sent",
		"recipients", len(n.recipients),
		"message_id", res.Id,
	)
	return nil
}

func (n *ResendNotifier) compose(sub core.Submission) *resend.SendEmailRequest {
	submitter := sub.SubmitterName
	if submitter == "" {
		submitter = sub.SubmittedBy
	}
	if submitter == "" {
		submitter = "anonymous"
	}

	lines := []string{
		"A new tool is waiting for review.",
		"",
		"Name:        " + sub.Name,
		"Category:    " + sub.Category,
		"URL:         " + sub.URL,
		"Submitted by: " + submitter,
		"",
		sub.Description,
	}
	if n.reviewURL != "" {
		lines = append(lines, "", "Review it at "+n.reviewURL)
	}

	var b strings.Builder
	b.WriteString("<h2>New tool submission</h2>")
	fmt.Fprintf(&b, "<p><strong>%s</strong> (%s)</p>", html.EscapeString(sub.Name), html.EscapeString(sub.Category))
	fmt.Fprintf(&b, `<p><a href="%s">%s</a></p>`, html.EscapeString(sub.URL), html.EscapeString(sub.URL))
	fmt.Fprintf(&b, "<p>%s</p>", html.EscapeString(sub.Description))
	fmt.Fprintf(&b, "<p>Submitted by %s</p>", html.EscapeString(submitter))
	if n.reviewURL != "" {
		fmt.Fprintf(&b, `<p><a href="%s">Open the review queue</a></p>`, html.EscapeString(n.reviewURL))
	}

	return &resend.SendEmailRequest{
		From:    n.from,
		To:      n.recipients,
		Subject: "New AI tool submission: " + sub.Name,
		Html:    b.String(),
		Text:    strings.Join(lines, "\n"),
		ReplyTo: sub.ContactEmail,
	}
}
