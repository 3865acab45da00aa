package web

import (
	"net/http"
	"strings"
)

// handleListTools returns catalog tools filtered by ?category= and ?q=.
func (s *Server) handleListTools(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	tools := s.catalog.Filter(strings.TrimSpace(q.Get("category")), q.Get("q"))
	writeJSON(w, http.StatusOK, map[string]any{"tools": tools, "count": len(tools)})
}

// handleListCategories returns the categories with tool counts.
func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"categories": s.catalog.Categories()})
}

// handleHealth reports liveness plus catalog size and import slot usage.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"tools":   s.catalog.Len(),
		"imports": s.service.ImportLimiterStatus(),
	})
}
