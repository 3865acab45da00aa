package core

// validation.go provides field validation for submissions and import headers.
//
// Validation happens at two levels:
//  1. Header validation: Ensures the required import columns are present
//  2. Submission validation: Checks required fields, then URL, email and
//     category formats, collecting every problem into one ValidationError

import (
	"fmt"
	"net/mail"
	"net/url"
	"strings"
)

// RequiredFields lists the fields every submission and import row must carry,
// in the order they are reported.
var RequiredFields = []string{"name", "description", "url", "category"}

// RequiredHeaders lists the columns a delimited import must declare,
// in the order they are reported when missing.
var RequiredHeaders = []string{"name", "description", "category", "url"}

// HeaderIndex maps column names to their position in a delimited row.
type HeaderIndex map[string]int

// MakeHeaderIndex builds a HeaderIndex from a header row.
// Names are trimmed; on duplicates the first column wins.
func MakeHeaderIndex(headers []string) HeaderIndex {
	idx := make(HeaderIndex, len(headers))
	for i, h := range headers {
		h = strings.TrimSpace(h)
		if _, seen := idx[h]; !seen {
			idx[h] = i
		}
	}
	return idx
}

// ValidateHeaders checks that all required columns exist in the header row.
// Returns the header index, or the list of missing columns in reporting order.
func ValidateHeaders(headers []string) (HeaderIndex, []string) {
	idx := MakeHeaderIndex(headers)
	var missing []string
	for _, name := range RequiredHeaders {
		if _, ok := idx[name]; !ok {
			missing = append(missing, name)
		}
	}
	return idx, missing
}

// ValidateSubmission trims the request and checks it.
// Missing required fields and malformed values are reported together.
// On success the returned request carries the canonical category label.
func ValidateSubmission(req SubmitRequest) (SubmitRequest, error) {
	req = trimRequest(req)
	verr := &ValidationError{}

	values := map[string]string{
		"name":        req.Name,
		"description": req.Description,
		"url":         req.URL,
		"category":    req.Category,
	}
	for _, f := range RequiredFields {
		if values[f] == "" {
			verr.Missing = append(verr.Missing, f)
		}
	}

	invalid := make(map[string]string)
	if req.URL != "" {
		if err := ValidateAbsoluteURL(req.URL); err != nil {
			invalid["url"] = err.Error()
		}
	}
	if req.LogoURL != "" {
		if err := ValidateAbsoluteURL(req.LogoURL); err != nil {
			invalid["logoUrl"] = err.Error()
		}
	}
	if req.ContactEmail != "" {
		if err := ValidateEmail(req.ContactEmail); err != nil {
			invalid["contactEmail"] = err.Error()
		}
	}
	if req.Category != "" {
		if cat, ok := LookupCategory(req.Category); ok {
			req.Category = cat.Label
		} else {
			invalid["category"] = fmt.Sprintf("must be one of: %s", strings.Join(CategoryLabels(), ", "))
		}
	}
	if len(invalid) > 0 {
		verr.Invalid = invalid
	}

	if verr.HasProblems() {
		return req, verr
	}
	return req, nil
}

// ValidateAbsoluteURL checks that s parses as a URL with a scheme and host.
func ValidateAbsoluteURL(s string) error {
	u, err := url.Parse(s)
	if err != nil {
		return fmt.Errorf("is not a valid URL")
	}
	if !u.IsAbs() || u.Host == "" {
		return fmt.Errorf("must be an absolute URL")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("must use http or https")
	}
	return nil
}

// ValidateEmail checks that s is a bare email address.
func ValidateEmail(s string) error {
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return fmt.Errorf("is not a valid email address")
	}
	return nil
}

func trimRequest(req SubmitRequest) SubmitRequest {
	req.Name = strings.TrimSpace(req.Name)
	req.Description = strings.TrimSpace(req.Description)
	req.URL = strings.TrimSpace(req.URL)
	req.Category = strings.TrimSpace(req.Category)
	req.LogoURL = strings.TrimSpace(req.LogoURL)
	req.Tags = strings.TrimSpace(req.Tags)
	req.ContactEmail = strings.TrimSpace(req.ContactEmail)
	req.SubmittedBy = strings.TrimSpace(req.SubmittedBy)
	req.SubmitterName = strings.TrimSpace(req.SubmitterName)
	return req
}
