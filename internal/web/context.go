package web

import (
	"context"
	"net/http"
	"strings"

	"github.com/JonMunkholm/aitools/internal/core"
)

// WithRequestMetadata adds IP, User-Agent and actor to context for audit logging.
// RemoteAddr has already been resolved by middleware.TrustedRealIP.
func WithRequestMetadata(ctx context.Context, r *http.Request) context.Context {
	ctx = core.ContextWithIPAddress(ctx, r.RemoteAddr)
	ctx = core.ContextWithUserAgent(ctx, r.Header.Get("User-Agent"))
	if actor := requestActor(r); actor != "" {
		ctx = core.ContextWithActor(ctx, actor)
	}
	return ctx
}

// requestActor identifies the caller from the identity headers set by the
// fronting auth proxy, falling back to "admin" on admin routes.
func requestActor(r *http.Request) string {
	if id := strings.TrimSpace(r.Header.Get("X-User-ID")); id != "" {
		return id
	}
	if strings.HasPrefix(r.URL.Path, "/api/admin/") || strings.HasPrefix(r.URL.Path, "/admin/") {
		return "admin"
	}
	return ""
}
