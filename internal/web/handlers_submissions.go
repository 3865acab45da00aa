package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/aitools/internal/core"
	"github.com/JonMunkholm/aitools/internal/web/templates"
)

// handleSubmit stores a public tool submission.
// Submitter identity comes from X-User-ID / X-User-Name when the body omits it.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxSubmitBody)

	var req core.SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, badRequest(fmt.Errorf("invalid submission body: %w", err)))
		return
	}
	if req.SubmittedBy == "" {
		req.SubmittedBy = strings.TrimSpace(r.Header.Get("X-User-ID"))
	}
	if req.SubmitterName == "" {
		req.SubmitterName = strings.TrimSpace(r.Header.Get("X-User-Name"))
	}

	ctx := WithRequestMetadata(r.Context(), r)
	sub, err := s.service.Submit(ctx, req)
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "id": sub.ID})
}

// handleListSubmissions returns submissions filtered by ?status=.
// An empty status or "all" lists everything.
func (s *Server) handleListSubmissions(w http.ResponseWriter, r *http.Request) {
	status, err := parseStatusParam(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	subs, err := s.service.ListSubmissions(r.Context(), status)
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"submissions": subs, "count": len(subs)})
}

// handleGetSubmission returns a single submission.
func (s *Server) handleGetSubmission(w http.ResponseWriter, r *http.Request) {
	sub, err := s.service.GetSubmission(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sub)
}

// reviewBody is the review decision payload.
type reviewBody struct {
	Decision string `json:"decision"`
	Notes    string `json:"notes"`
}

// handleReview approves or rejects a pending submission.
// Accepts JSON or a form post; HTMX callers get the re-rendered queue row.
func (s *Server) handleReview(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxSubmitBody)

	var body reviewBody
	if strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			respondError(w, r, badRequest(fmt.Errorf("invalid review body: %w", err)))
			return
		}
	} else {
		body.Decision = r.FormValue("decision")
		body.Notes = r.FormValue("notes")
	}

	ctx := WithRequestMetadata(r.Context(), r)
	updated, err := s.service.ReviewSubmission(ctx, core.ReviewRequest{
		ID:       chi.URLParam(r, "id"),
		Decision: core.Status(strings.ToLower(strings.TrimSpace(body.Decision))),
		Notes:    strings.TrimSpace(body.Notes),
		Reviewer: core.GetActorFromContext(ctx),
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	if isHTMX(r) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_ = templates.SubmissionRow(*updated).Render(r.Context(), w)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "submission": updated})
}

// handleSubmissionsPage renders the admin review queue.
func (s *Server) handleSubmissionsPage(w http.ResponseWriter, r *http.Request) {
	status := core.StatusPending
	filter := &status
	if r.URL.Query().Has("status") {
		var err error
		if filter, err = parseStatusParam(r); err != nil {
			respondError(w, r, err)
			return
		}
	}

	all, err := s.service.ListSubmissions(r.Context(), nil)
	if err != nil {
		respondError(w, r, err)
		return
	}

	params := templates.SubmissionsPageParams{
		Counts:      make(map[core.Status]int, len(core.Statuses)),
		Submissions: make([]core.Submission, 0, len(all)),
	}
	if filter != nil {
		params.Status = string(*filter)
	}
	for _, sub := range all {
		params.Counts[sub.Status]++
		if filter == nil || sub.Status == *filter {
			params.Submissions = append(params.Submissions, sub)
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.SubmissionsPage(params).Render(r.Context(), w); err != nil {
		respondError(w, r, err)
	}
}

// parseStatusParam reads ?status=; nil means every status.
func parseStatusParam(r *http.Request) (*core.Status, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("status"))
	if raw == "" || strings.EqualFold(raw, "all") {
		return nil, nil
	}
	status, err := core.ParseStatus(raw)
	if err != nil {
		return nil, &core.ValidationError{Invalid: map[string]string{"status": err.Error()}}
	}
	return &status, nil
}
