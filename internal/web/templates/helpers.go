// Package templates renders the admin HTML views with templ components.
//
// Components are written in the .templ files; the *_templ.go files are
// produced by `templ generate` and committed.
package templates

import (
	"strconv"

	"github.com/JonMunkholm/aitools/internal/core"
)

const htmxSrc = "https://unpkg.com/htmx.org@1.9.12"

// SubmissionsPageParams holds the data for the review queue page.
type SubmissionsPageParams struct {
	Status      string // "" lists every status
	Submissions []core.Submission
	Counts      map[core.Status]int
}

type statusTab struct {
	Href   string
	Label  string
	Count  int
	Active bool
}

// tabs returns the "All" tab followed by one tab per status.
func (p SubmissionsPageParams) tabs() []statusTab {
	tabs := []statusTab{{
		Href:   "/admin/submissions",
		Label:  "All",
		Count:  total(p.Counts),
		Active: p.Status == "",
	}}
	for _, st := range core.Statuses {
		tabs = append(tabs, statusTab{
			Href:   "/admin/submissions?status=" + string(st),
			Label:  statusLabel(st),
			Count:  p.Counts[st],
			Active: p.Status == string(st),
		})
	}
	return tabs
}

func tabClass(active bool) string {
	if active {
		return "active"
	}
	return ""
}

func total(counts map[core.Status]int) int {
	n := 0
	for _, c := range counts {
		n += c
	}
	return n
}

func statusLabel(s core.Status) string {
	switch s {
	case core.StatusPending:
		return "Pending"
	case core.StatusApproved:
		return "Approved"
	case core.StatusRejected:
		return "Rejected"
	}
	return string(s)
}

func reviewVerb(s core.Status) string {
	if s == core.StatusApproved {
		return "Approve"
	}
	return "Reject"
}

var reviewDecisions = []core.Status{core.StatusApproved, core.StatusRejected}

func rowID(sub core.Submission) string {
	return "submission-" + sub.ID
}

func reviewPath(sub core.Submission) string {
	return "/api/admin/submissions/" + sub.ID + "/review"
}

func reviewVals(d core.Status) string {
	return `{"decision":"` + string(d) + `"}`
}

func importResultClass(r core.ImportResult) string {
	if r.Failed > 0 {
		return "alert alert-warning"
	}
	return "alert alert-success"
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
