package web

import (
	"bytes"
	"net/http"
	"sync"
)

// responseCache holds rendered GET responses grouped by invalidation key.
type responseCache struct {
	mu     sync.RWMutex
	groups map[string]map[string]cachedResponse
	gens   map[string]uint64
}

type cachedResponse struct {
	contentType string
	body        []byte
}

func newResponseCache() *responseCache {
	return &responseCache{
		groups: make(map[string]map[string]cachedResponse),
		gens:   make(map[string]uint64),
	}
}

// generation changes every time the group is invalidated.
func (c *responseCache) generation(group string) uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.gens[group]
}

func (c *responseCache) get(group, key string) (cachedResponse, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	resp, ok := c.groups[group][key]
	return resp, ok
}

// put stores resp unless the group was invalidated after gen was read.
func (c *responseCache) put(group, key string, gen uint64, resp cachedResponse) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gens[group] != gen {
		return
	}
	if c.groups[group] == nil {
		c.groups[group] = make(map[string]cachedResponse)
	}
	c.groups[group][key] = resp
}

// invalidate drops every entry in the named groups and returns how many went.
func (c *responseCache) invalidate(groups ...string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, g := range groups {
		n += len(c.groups[g])
		delete(c.groups, g)
		c.gens[g]++
	}
	return n
}

// cached serves GET responses from the cache group, storing 200 responses.
// HTMX requests are keyed separately since they may render fragments.
func (s *Server) cached(group string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.URL.RequestURI()
			if isHTMX(r) {
				key = "hx:" + key
			}

			if resp, ok := s.cache.get(group, key); ok {
				w.Header().Set("Content-Type", resp.contentType)
				w.Header().Set("X-Cache", "HIT")
				_, _ = w.Write(resp.body)
				return
			}

			gen := s.cache.generation(group)
			rec := &recordingWriter{ResponseWriter: w, status: http.StatusOK}
			w.Header().Set("X-Cache", "MISS")
			next.ServeHTTP(rec, r)

			if rec.status == http.StatusOK {
				s.cache.put(group, key, gen, cachedResponse{
					contentType: w.Header().Get("Content-Type"),
					body:        rec.buf.Bytes(),
				})
			}
		})
	}
}

// recordingWriter tees the body into a buffer.
type recordingWriter struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
}

func (w *recordingWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (w *recordingWriter) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}
