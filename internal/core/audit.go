package core

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// AuditAction represents the type of action being audited.
type AuditAction string

const (
	ActionSubmit      AuditAction = "submit"
	ActionApprove     AuditAction = "approve"
	ActionReject      AuditAction = "reject"
	ActionImport      AuditAction = "import"
	ActionImportFail  AuditAction = "import_failed"
	ActionCatalogSeed AuditAction = "catalog_seed"
)

// AuditSeverity represents the severity level of an audit entry.
type AuditSeverity string

const (
	SeverityLow    AuditSeverity = "low"
	SeverityMedium AuditSeverity = "medium"
	SeverityHigh   AuditSeverity = "high"
)

// DefaultAuditCapacity is how many entries the in-memory audit log keeps.
const DefaultAuditCapacity = 1000

// AuditEntry represents a single audit log entry.
type AuditEntry struct {
	ID           string        `json:"id"`
	Action       AuditAction   `json:"action"`
	Severity     AuditSeverity `json:"severity"`
	Actor        string        `json:"actor,omitempty"`
	IPAddress    string        `json:"ipAddress,omitempty"`
	UserAgent    string        `json:"userAgent,omitempty"`
	TargetID     string        `json:"targetId,omitempty"`
	Detail       string        `json:"detail,omitempty"`
	RowsAffected int           `json:"rowsAffected,omitempty"`
	CreatedAt    time.Time     `json:"createdAt"`
}

// AuditLogParams contains parameters for creating an audit log entry.
type AuditLogParams struct {
	Action       AuditAction
	TargetID     string
	Detail       string
	RowsAffected int
}

// AuditLogFilter contains filtering options for querying audit logs.
type AuditLogFilter struct {
	Action AuditAction
	Limit  int
}

// determineSeverity returns the appropriate severity for an action.
func determineSeverity(action AuditAction) AuditSeverity {
	switch action {
	case ActionImport, ActionImportFail:
		return SeverityHigh
	case ActionApprove, ActionReject:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// AuditLog is a bounded, in-memory record of submission and import activity.
// When full, the oldest entries are dropped.
type AuditLog struct {
	mu       sync.RWMutex
	entries  []AuditEntry
	capacity int
	now      func() time.Time
}

// NewAuditLog creates an audit log holding at most capacity entries.
func NewAuditLog(capacity int) *AuditLog {
	if capacity <= 0 {
		capacity = DefaultAuditCapacity
	}
	return &AuditLog{capacity: capacity, now: time.Now}
}

// Record appends an entry. Actor, IP and user agent come from ctx.
func (a *AuditLog) Record(ctx context.Context, params AuditLogParams) AuditEntry {
	entry := AuditEntry{
		ID:           uuid.New().String(),
		Action:       params.Action,
		Severity:     determineSeverity(params.Action),
		Actor:        GetActorFromContext(ctx),
		IPAddress:    GetIPAddressFromContext(ctx),
		UserAgent:    GetUserAgentFromContext(ctx),
		TargetID:     params.TargetID,
		Detail:       params.Detail,
		RowsAffected: params.RowsAffected,
		CreatedAt:    a.now().UTC(),
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.entries = append(a.entries, entry)
	if over := len(a.entries) - a.capacity; over > 0 {
		a.entries = append([]AuditEntry(nil), a.entries[over:]...)
	}
	return entry
}

// Entries returns matching entries, newest first.
func (a *AuditLog) Entries(filter AuditLogFilter) []AuditEntry {
	a.mu.RLock()
	defer a.mu.RUnlock()

	var out []AuditEntry
	for i := len(a.entries) - 1; i >= 0; i-- {
		e := a.entries[i]
		if filter.Action != "" && e.Action != filter.Action {
			continue
		}
		out = append(out, e)
		if filter.Limit > 0 && len(out) >= filter.Limit {
			break
		}
	}
	return out
}

// Len returns the number of stored entries.
func (a *AuditLog) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.entries)
}
