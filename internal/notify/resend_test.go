package notify

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/resend/resend-go/v2"

	"github.com/JonMunkholm/aitools/internal/core"
)

type fakeSender struct {
	sent []*resend.SendEmailRequest
	err  error
}

func (f *fakeSender) SendWithContext(_ context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.sent = append(f.sent, params)
	return &resend.SendEmailResponse{Id: "msg-1"}, nil
}

func testNotifier(sender emailSender) *ResendNotifier {
	return &ResendNotifier{
		emails:     sender,
		from:       "AI Tools <noreply@example.com>",
		recipients: []string{"admin@example.com"},
		reviewURL:  "https://tools.example.com/admin/submissions",
	}
}

func TestNewResendNotifier_DisabledWithoutConfig(t *testing.T) {
	if n := NewResendNotifier(Options{Recipients: []string{"a@b.c"}}); n != nil {
		t.Error("expected nil notifier without API key")
	}
	if n := NewResendNotifier(Options{APIKey: "re_test"}); n != nil {
		t.Error("expected nil notifier without recipients")
	}
	if n := NewResendNotifier(Options{APIKey: "re_test", Recipients: []string{"a@b.c"}}); n == nil {
		t.Error("expected notifier with key and recipients")
	}
}

func TestSubmissionReceived_ComposesEmail(t *testing.T) {
	sender := &fakeSender{}
	n := testNotifier(sender)

	sub := core.Submission{
		ID:            "s1",
		Name:          "Tool <script>",
		Description:   "Does things",
		URL:           "https://tool.example.com",
		Category:      "Chatbots",
		ContactEmail:  "maker@example.com",
		SubmitterName: "Sam",
	}
	if err := n.SubmissionReceived(context.Background(), sub); err != nil {
		t.Fatalf("SubmissionReceived() error = %v", err)
	}
	if len(sender.sent) != 1 {
		t.Fatalf("sent %d emails, want 1", len(sender.sent))
	}

	msg := sender.sent[0]
	if msg.Subject != "New AI tool submission: Tool <script>" {
		t.Errorf("Subject = %q", msg.Subject)
	}
	if msg.ReplyTo != "maker@example.com" {
		t.Errorf("ReplyTo = %q", msg.ReplyTo)
	}
	if strings.Contains(msg.Html, "<script>") {
		t.Error("HTML body should escape the tool name")
	}
	if !strings.Contains(msg.Text, "Submitted by: Sam") {
		t.Errorf("Text missing submitter: %q", msg.Text)
	}
	if !strings.Contains(msg.Text, "https://tools.example.com/admin/submissions") {
		t.Error("Text missing review link")
	}
}

func TestSubmissionReceived_AnonymousSubmitter(t *testing.T) {
	sender := &fakeSender{}
	n := testNotifier(sender)

	_ = n.SubmissionReceived(context.Background(), core.Submission{Name: "X"})
	if !strings.Contains(sender.sent[0].Text, "Submitted by: anonymous") {
		t.Errorf("Text = %q", sender.sent[0].Text)
	}
}

func TestSubmissionReceived_SendError(t *testing.T) {
	n := testNotifier(&fakeSender{err: errors.New("401 unauthorized")})

	err := n.SubmissionReceived(context.Background(), core.Submission{Name: "X"})
	if err == nil || !strings.Contains(err.Error(), "send submission email") {
		t.Errorf("error = %v, want wrapped send error", err)
	}
}
