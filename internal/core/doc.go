// Package core provides the business logic for tool submissions and bulk imports.
//
// This package holds all domain logic independent of any UI or transport
// layer. It is used by the web server, the toolctl CLI, and tests without
// modification.
//
// # Submission Workflow
//
// A submission is created pending by [Service.Submit] and moves exactly once
// to approved or rejected through [Service.ReviewSubmission]:
//
//	pending --approve--> approved
//	pending --reject---> rejected
//
// Reviewing a submission that is no longer pending fails with a
// [ConflictError]. Stores compare a version counter on update, so two admins
// racing on the same record cannot both win.
//
// # Bulk Import
//
// [ParseImport] turns a CSV or JSON payload into candidates and an
// [ImportResult]. Structural problems (missing headers, malformed JSON, a
// non-array document) fail the whole call with a [FormatError]. Row problems
// never do; they are collected as messages:
//
//	Line 3: Missing required fields   (CSV, physical line, header is line 1)
//	Item 2: Missing required fields   (JSON, 1-based array index)
//
// [Service.ImportTools] wraps the parser with payload cleanup, a concurrency
// limiter, catalog publishing, and audit logging.
//
// # Error Handling
//
// Typed errors ([ValidationError], [NotFoundError], [ConflictError],
// [FormatError], [ImportError]) carry enough structure for transports to pick
// a status code. [MapError] turns any of them into a user-facing message with
// a support code:
//
//   - SUB001-SUB003: Submission errors (not found, already reviewed, conflict)
//   - VAL001-VAL004: Validation errors (missing fields, bad URL, bad category)
//   - IMP001-IMP005: Import errors (format, headers, busy, timeout)
//   - DB001-DB003: Storage errors
//
// # Audit Logging
//
// Submissions, reviews and imports are recorded in a bounded in-memory
// [AuditLog] with severity levels:
//
//   - Low: New submissions, catalog seeding
//   - Medium: Approvals and rejections
//   - High: Imports, successful or not
package core
