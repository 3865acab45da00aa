package core

import (
	"errors"
	"reflect"
	"testing"
)

func validRequest() SubmitRequest {
	return SubmitRequest{
		Name:        "Notion AI",
		Description: "Writing assistant inside Notion",
		URL:         "https://notion.so",
		Category:    "productivity",
	}
}

func TestValidateSubmission(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*SubmitRequest)
		wantMissing []string
		wantInvalid []string
	}{
		{
			name:   "valid request",
			mutate: func(r *SubmitRequest) {},
		},
		{
			name:        "all required fields missing",
			mutate:      func(r *SubmitRequest) { *r = SubmitRequest{} },
			wantMissing: []string{"name", "description", "url", "category"},
		},
		{
			name:        "whitespace counts as missing",
			mutate:      func(r *SubmitRequest) { r.Name = "   " },
			wantMissing: []string{"name"},
		},
		{
			name:        "relative url",
			mutate:      func(r *SubmitRequest) { r.URL = "notion.so" },
			wantInvalid: []string{"url"},
		},
		{
			name:        "non-http scheme",
			mutate:      func(r *SubmitRequest) { r.URL = "ftp://notion.so" },
			wantInvalid: []string{"url"},
		},
		{
			name:        "bad logo url",
			mutate:      func(r *SubmitRequest) { r.LogoURL = "/logo.png" },
			wantInvalid: []string{"logoUrl"},
		},
		{
			name:        "bad email",
			mutate:      func(r *SubmitRequest) { r.ContactEmail = "not-an-email" },
			wantInvalid: []string{"contactEmail"},
		},
		{
			name:        "display-name email rejected",
			mutate:      func(r *SubmitRequest) { r.ContactEmail = "Jo <jo@example.com>" },
			wantInvalid: []string{"contactEmail"},
		},
		{
			name:        "unknown category",
			mutate:      func(r *SubmitRequest) { r.Category = "Gardening" },
			wantInvalid: []string{"category"},
		},
		{
			name: "missing and invalid reported together",
			mutate: func(r *SubmitRequest) {
				r.Description = ""
				r.URL = "nope"
			},
			wantMissing: []string{"description"},
			wantInvalid: []string{"url"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(&req)

			_, err := ValidateSubmission(req)
			if tt.wantMissing == nil && tt.wantInvalid == nil {
				if err != nil {
					t.Fatalf("ValidateSubmission() error = %v", err)
				}
				return
			}

			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected *ValidationError, got %v", err)
			}
			if !reflect.DeepEqual(verr.Missing, tt.wantMissing) {
				t.Errorf("Missing = %v, want %v", verr.Missing, tt.wantMissing)
			}
			var gotInvalid []string
			if len(verr.Invalid) > 0 {
				gotInvalid = sortedKeys(verr.Invalid)
			}
			if !reflect.DeepEqual(gotInvalid, tt.wantInvalid) {
				t.Errorf("Invalid keys = %v, want %v", gotInvalid, tt.wantInvalid)
			}
		})
	}
}

func TestValidateSubmission_Normalizes(t *testing.T) {
	req := validRequest()
	req.Name = "  Notion AI  "
	req.Category = "image-generation"
	req.ContactEmail = " team@notion.so "

	got, err := ValidateSubmission(req)
	if err != nil {
		t.Fatalf("ValidateSubmission() error = %v", err)
	}
	if got.Name != "Notion AI" {
		t.Errorf("Name = %q, want trimmed", got.Name)
	}
	if got.Category != "Image Generation" {
		t.Errorf("Category = %q, want canonical label", got.Category)
	}
	if got.ContactEmail != "team@notion.so" {
		t.Errorf("ContactEmail = %q, want trimmed", got.ContactEmail)
	}
}

func TestValidateHeaders(t *testing.T) {
	idx, missing := ValidateHeaders([]string{" url ", "name", "name", "description", "category"})
	if len(missing) != 0 {
		t.Fatalf("missing = %v, want none", missing)
	}
	if idx["url"] != 0 {
		t.Errorf("idx[url] = %d, want 0", idx["url"])
	}
	if idx["name"] != 1 {
		t.Errorf("idx[name] = %d, want first occurrence 1", idx["name"])
	}

	_, missing = ValidateHeaders([]string{"Name", "Description"})
	want := []string{"name", "description", "category", "url"}
	if !reflect.DeepEqual(missing, want) {
		t.Errorf("missing = %v, want %v (headers are case-sensitive)", missing, want)
	}
}

func TestValidationError_Message(t *testing.T) {
	err := &ValidationError{
		Missing: []string{"name", "url"},
		Invalid: map[string]string{"logoUrl": "must be an absolute URL", "contactEmail": "is not a valid email address"},
	}
	want := "missing required fields: name, url; invalid fields: contactEmail is not a valid email address; logoUrl must be an absolute URL"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestLookupCategory(t *testing.T) {
	tests := []struct {
		in        string
		wantLabel string
		wantOK    bool
	}{
		{in: "chatbots", wantLabel: "Chatbots", wantOK: true},
		{in: "CHATBOTS", wantLabel: "Chatbots", wantOK: true},
		{in: "Image Generation", wantLabel: "Image Generation", wantOK: true},
		{in: "image_generation", wantLabel: "Image Generation", wantOK: true},
		{in: " image-generation ", wantLabel: "Image Generation", wantOK: true},
		{in: "", wantOK: false},
		{in: "robots", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			cat, ok := LookupCategory(tt.in)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if cat.Label != tt.wantLabel {
				t.Errorf("Label = %q, want %q", cat.Label, tt.wantLabel)
			}
		})
	}
}

func TestParseStatusAndFormat(t *testing.T) {
	if s, err := ParseStatus(" Approved "); err != nil || s != StatusApproved {
		t.Errorf("ParseStatus(Approved) = %q, %v", s, err)
	}
	if _, err := ParseStatus("archived"); err == nil {
		t.Error("ParseStatus(archived) should fail")
	}
	if f, err := ParseFormat("structured"); err != nil || f != FormatJSON {
		t.Errorf("ParseFormat(structured) = %q, %v", f, err)
	}
	if f, err := ParseFormat("text/csv"); err != nil || f != FormatCSV {
		t.Errorf("ParseFormat(text/csv) = %q, %v", f, err)
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Error("ParseFormat(xml) should fail")
	}
}

func TestSplitTags(t *testing.T) {
	got := SplitTags(" ai, chat ,,nlp ")
	want := []string{"ai", "chat", "nlp"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SplitTags() = %v, want %v", got, want)
	}
	if SplitTags("  ") != nil {
		t.Error("SplitTags(blank) should be nil")
	}
}
