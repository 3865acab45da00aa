package core

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DefaultImportTimeout is the maximum duration for a single import.
const DefaultImportTimeout = 45 * time.Second

// DefaultNotifyTimeout bounds the admin notification sent after a submit.
const DefaultNotifyTimeout = 10 * time.Second

// ServiceOptions configures a Service. Zero values pick the defaults;
// nil collaborators are skipped.
type ServiceOptions struct {
	Catalog     Catalog
	Invalidator Invalidator
	Notifier    Notifier

	MaxConcurrentImports int
	MaxImportWait        time.Duration
	ImportTimeout        time.Duration
	NotifyTimeout        time.Duration
	AuditCapacity        int
}

// Service provides the submission workflow and the bulk import pipeline.
// It is constructed once per process and passed explicitly to transports.
type Service struct {
	store       SubmissionStore
	catalog     Catalog
	invalidator Invalidator
	notifier    Notifier

	limiter       *ImportLimiter
	audit         *AuditLog
	importTimeout time.Duration
	notifyTimeout time.Duration

	now   func() time.Time
	newID func() string
}

// NewService creates a Service over the given store.
func NewService(store SubmissionStore, opts ServiceOptions) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("new service: submission store is required")
	}

	importTimeout := opts.ImportTimeout
	if importTimeout <= 0 {
		importTimeout = DefaultImportTimeout
	}
	notifyTimeout := opts.NotifyTimeout
	if notifyTimeout <= 0 {
		notifyTimeout = DefaultNotifyTimeout
	}

	return &Service{
		store:         store,
		catalog:       opts.Catalog,
		invalidator:   opts.Invalidator,
		notifier:      opts.Notifier,
		limiter:       NewImportLimiter(opts.MaxConcurrentImports, opts.MaxImportWait),
		audit:         NewAuditLog(opts.AuditCapacity),
		importTimeout: importTimeout,
		notifyTimeout: notifyTimeout,
		now:           time.Now,
		newID:         func() string { return uuid.New().String() },
	}, nil
}

// SetInvalidator replaces the cache invalidation target.
// The web server registers itself here once it has been constructed.
func (s *Service) SetInvalidator(inv Invalidator) {
	s.invalidator = inv
}

// AuditLog returns the service's audit trail.
func (s *Service) AuditLog() *AuditLog {
	return s.audit
}

// ImportLimiterStatus returns the current import concurrency snapshot.
func (s *Service) ImportLimiterStatus() ImportLimiterStatus {
	return s.limiter.Status()
}

// WaitForImports blocks until active imports finish or ctx is done.
func (s *Service) WaitForImports(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}

// invalidate signals stale views to the registered invalidator, if any.
func (s *Service) invalidate(ctx context.Context, keys ...string) {
	if s.invalidator != nil {
		s.invalidator.Invalidate(ctx, keys...)
	}
}
