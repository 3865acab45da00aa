package web

// errors.go turns errors into responses.
//
// The technical error is logged with the request ID; the client gets the
// core.MapError message, or the error itself for validation and format
// errors, rendered as JSON for /api routes, an HTMX fragment
// for hx requests, or plain text otherwise.

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/JonMunkholm/aitools/internal/core"
	"github.com/JonMunkholm/aitools/internal/web/templates"
)

// ErrorResponse represents the JSON structure for API error responses.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

// requestError carries a transport-level failure with an explicit status.
type requestError struct {
	status int
	err    error
}

func (e *requestError) Error() string { return e.err.Error() }
func (e *requestError) Unwrap() error { return e.err }

func badRequest(err error) error {
	return &requestError{status: http.StatusBadRequest, err: err}
}

// statusFor maps an error to its HTTP status.
func statusFor(err error) int {
	var reqErr *requestError
	switch {
	case errors.As(err, &reqErr):
		return reqErr.status
	case core.IsValidation(err):
		return http.StatusBadRequest
	case core.IsFormat(err):
		return http.StatusUnprocessableEntity
	case core.IsNotFound(err):
		return http.StatusNotFound
	case core.IsConflict(err):
		return http.StatusConflict
	case errors.Is(err, core.ErrTooManyImports):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondError logs err and writes the user-facing message.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := core.MapError(err)

	level := slog.LevelWarn
	if status >= http.StatusInternalServerError && status != http.StatusServiceUnavailable {
		level = slog.LevelError
	}
	slog.Log(r.Context(), level, "request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"error", err.Error(),
		"code", msg.Code,
		"request_id", middleware.GetReqID(r.Context()),
	)

	switch {
	case isHTMX(r):
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		// htmx ignores non-2xx bodies unless told to swap them.
		w.Header().Set("HX-Reswap", "innerHTML")
		w.WriteHeader(status)
		_ = templates.ErrorAlert(errorText(err, msg), msg.Action, msg.Code).Render(r.Context(), w)
	case wantsJSON(r):
		writeJSON(w, status, ErrorResponse{
			Error:  errorText(err, msg),
			Action: msg.Action,
			Code:   msg.Code,
		})
	default:
		http.Error(w, errorText(err, msg)+" ("+msg.Code+")", status)
	}
}

// errorText returns the detail of validation and format errors, which the
// caller can act on, and the mapped user message for everything else.
func errorText(err error, msg core.UserMessage) string {
	var ve *core.ValidationError
	if errors.As(err, &ve) {
		return ve.Error()
	}
	var fe *core.FormatError
	if errors.As(err, &fe) {
		return fe.Error()
	}
	return msg.Message
}

// isHTMX checks if the request is an HTMX request.
func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// wantsJSON checks if the client prefers a JSON response.
func wantsJSON(r *http.Request) bool {
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		return true
	}
	if strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		return true
	}
	return strings.HasPrefix(r.URL.Path, "/api/")
}
