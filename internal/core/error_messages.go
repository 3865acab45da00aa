package core

// error_messages.go maps errors to user-facing messages with support codes.
//
// Typed errors are matched first with errors.As / errors.Is. Anything else
// falls back to case-insensitive substring patterns on the error text, which
// catches driver errors from the storage backends. The first match wins, so
// specific patterns come before general ones.
//
// When a user reports ERR000, check the application logs for the original
// technical error.

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

var (
	msgNotFound = UserMessage{
		Message: "Submission not found",
		Action:  "Refresh the list; it may have been removed",
		Code:    "SUB001",
	}
	msgAlreadyReviewed = UserMessage{
		Message: "This submission has already been reviewed",
		Action:  "Refresh the queue to see its current status",
		Code:    "SUB002",
	}
	msgVersionConflict = UserMessage{
		Message: "Another reviewer updated this submission first",
		Action:  "Refresh and review again if needed",
		Code:    "SUB003",
	}
	msgMissingFields = UserMessage{
		Message: "Required fields are missing",
		Action:  "Fill in name, description, URL and category",
		Code:    "VAL001",
	}
	msgInvalidFields = UserMessage{
		Message: "Some fields have invalid values",
		Action:  "Check the URL, email and category fields",
		Code:    "VAL002",
	}
	msgMissingHeaders = UserMessage{
		Message: "Required CSV headers are missing",
		Action:  "Download the import template and match its header row",
		Code:    "IMP002",
	}
	msgInvalidFormat = UserMessage{
		Message: "The import file could not be read",
		Action:  "Check that the file is valid CSV or a JSON array",
		Code:    "IMP001",
	}
	msgBusy = UserMessage{
		Message: "System is busy processing other imports",
		Action:  "Please wait a moment and try again",
		Code:    "IMP003",
	}
	msgTimeout = UserMessage{
		Message: "Request timed out",
		Action:  "Try importing a smaller file",
		Code:    "IMP004",
	}
	msgCancelled = UserMessage{
		Message: "Request was cancelled",
		Action:  "Please try again",
		Code:    "IMP005",
	}
)

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps untyped error text (case-insensitive) to user messages.
var errorPatterns = []errorPattern{
	{
		pattern: "duplicate key",
		msg: UserMessage{
			Message: "A record with this ID already exists",
			Action:  "Please try again",
			Code:    "DB001",
		},
	},
	{
		pattern: "unique constraint",
		msg: UserMessage{
			Message: "A record with this ID already exists",
			Action:  "Please try again",
			Code:    "DB001",
		},
	},
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Unable to connect to database",
			Action:  "Please try again in a few moments",
			Code:    "DB002",
		},
	},
	{
		pattern: "database is locked",
		msg: UserMessage{
			Message: "Database was busy with conflicting operations",
			Action:  "Please try again",
			Code:    "DB003",
		},
	},
	{
		pattern: "file too large",
		msg: UserMessage{
			Message: "Import file exceeds the size limit",
			Action:  "Split the file into smaller chunks",
			Code:    "VAL003",
		},
	},
	{
		pattern: "unknown import format",
		msg: UserMessage{
			Message: "Unknown import format",
			Action:  "Use csv or json",
			Code:    "VAL004",
		},
	},
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
}

// defaultMessage is returned when nothing matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts an error to a user-friendly message.
//
// Example:
//
//	msg := MapError(&ConflictError{ID: id, Reason: "already approved"})
//	// msg.Code == "SUB002"
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	if msg, ok := mapTyped(err); ok {
		return msg
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

func mapTyped(err error) (UserMessage, bool) {
	var (
		notFound   *NotFoundError
		conflict   *ConflictError
		validation *ValidationError
		format     *FormatError
	)

	switch {
	case errors.As(err, &notFound):
		return msgNotFound, true
	case errors.As(err, &conflict):
		if strings.Contains(conflict.Reason, "version") {
			return msgVersionConflict, true
		}
		return msgAlreadyReviewed, true
	case errors.As(err, &validation):
		if len(validation.Missing) > 0 {
			return msgMissingFields, true
		}
		return msgInvalidFields, true
	case errors.As(err, &format):
		if strings.HasPrefix(format.Message, "missing required headers") {
			return msgMissingHeaders, true
		}
		return msgInvalidFormat, true
	case errors.Is(err, ErrTooManyImports):
		return msgBusy, true
	case errors.Is(err, context.DeadlineExceeded):
		return msgTimeout, true
	case errors.Is(err, context.Canceled):
		return msgCancelled, true
	}
	return UserMessage{}, false
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to something more specific than ERR000.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
