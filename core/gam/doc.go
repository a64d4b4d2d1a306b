// Package gam wraps the Google Ad Manager remote API behind small service
// interfaces so that the rest of the application never talks HTTP directly.
//
// # Components
//
//   - Session: exchanges a service-account credential for an authenticated
//     HTTP client scoped to a single network code. The credential is parsed
//     in memory; nothing is written to disk.
//   - TargetingService: custom targeting keys and values (point lookup by
//     name, paginated value listing, batch creation, bulk deactivation).
//   - ReportService: saved query lookup plus the report job
//     submit/poll/download cycle.
//
// Both services have REST implementations bound to a Session and testify
// mocks under gam/mocks for tests.
//
// # Errors
//
// Expected absence (a key or saved query that does not exist) is reported as
// ErrNotFound. Credential problems surface as *AuthError at session
// construction. Every other rejected request becomes a *RequestError carrying
// the HTTP status and the platform's message.
package gam
