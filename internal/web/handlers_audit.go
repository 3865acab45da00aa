package web

import (
	"net/http"
	"strconv"

	"github.com/JonMunkholm/aitools/internal/core"
)

// defaultAuditLimit caps audit responses when ?limit= is absent.
const defaultAuditLimit = 100

// handleAuditLog returns audit entries, newest first, filtered by ?action=.
func (s *Server) handleAuditLog(w http.ResponseWriter, r *http.Request) {
	filter := core.AuditLogFilter{
		Action: core.AuditAction(r.URL.Query().Get("action")),
		Limit:  parseIntParam(r, "limit", defaultAuditLimit),
	}

	entries := s.service.AuditLog().Entries(filter)
	if entries == nil {
		entries = []core.AuditEntry{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"entries": entries, "count": len(entries)})
}

// parseIntParam parses a positive integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil || i < 1 {
		return defaultVal
	}
	return i
}
