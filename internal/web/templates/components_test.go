package templates

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/JonMunkholm/aitools/internal/core"
)

func TestSubmissionRow_EscapesAndOffersReview(t *testing.T) {
	var b strings.Builder
	sub := core.Submission{
		ID:          "abc",
		Name:        `<img src=x onerror=alert(1)>`,
		Category:    "Chatbots",
		URL:         "https://tool.example.com",
		Status:      core.StatusPending,
		SubmittedAt: time.Date(2024, 1, 2, 3, 4, 0, 0, time.UTC),
	}
	if err := SubmissionRow(sub).Render(context.Background(), &b); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	out := b.String()

	if strings.Contains(out, "<img") {
		t.Error("name was not escaped")
	}
	if !strings.Contains(out, `/api/admin/submissions/abc/review`) {
		t.Error("pending row should offer review buttons")
	}
	if !strings.Contains(out, "2024-01-02 03:04") {
		t.Error("missing submitted timestamp")
	}
}

func TestSubmissionRow_ReviewedHasNoButtons(t *testing.T) {
	var b strings.Builder
	sub := core.Submission{ID: "abc", Name: "X", Status: core.StatusApproved, ReviewNotes: "ok"}
	if err := SubmissionRow(sub).Render(context.Background(), &b); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if strings.Contains(b.String(), "<button") {
		t.Error("approved row should not offer review buttons")
	}
}

func TestSubmissionsPage(t *testing.T) {
	tests := []struct {
		name   string
		params SubmissionsPageParams
		want   []string
	}{
		{
			name:   "empty queue",
			params: SubmissionsPageParams{Status: "pending", Counts: map[core.Status]int{}},
			want:   []string{"No submissions.", "Pending (0)", "<!DOCTYPE html>"},
		},
		{
			name: "rows and counts",
			params: SubmissionsPageParams{
				Submissions: []core.Submission{{ID: "1", Name: "One", Status: core.StatusPending}},
				Counts:      map[core.Status]int{core.StatusPending: 1, core.StatusApproved: 2},
			},
			want: []string{"All (3)", "Approved (2)", `id="submission-1"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var b strings.Builder
			if err := SubmissionsPage(tt.params).Render(context.Background(), &b); err != nil {
				t.Fatalf("Render() error = %v", err)
			}
			for _, w := range tt.want {
				if !strings.Contains(b.String(), w) {
					t.Errorf("output missing %q", w)
				}
			}
		})
	}
}

func TestImportResultPartial(t *testing.T) {
	var b strings.Builder
	res := core.ImportResult{Total: 3, Success: 2, Failed: 1, Added: 2, Errors: []string{"Line 3: Missing required fields"}}
	if err := ImportResultPartial(res).Render(context.Background(), &b); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	out := b.String()
	if !strings.Contains(out, "Imported 2 of 3 rows") || !strings.Contains(out, "Line 3: Missing required fields") {
		t.Errorf("unexpected output: %s", out)
	}
	if !strings.Contains(out, "alert-warning") {
		t.Error("failed rows should render a warning")
	}
}

func TestErrorAlert(t *testing.T) {
	var b strings.Builder
	if err := ErrorAlert("Bad <thing>", "Try again", "IMP001").Render(context.Background(), &b); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	out := b.String()
	if strings.Contains(out, "<thing>") || !strings.Contains(out, "Code: IMP001") {
		t.Errorf("unexpected output: %s", out)
	}
}
