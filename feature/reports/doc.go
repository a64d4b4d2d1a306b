// Package reports runs platform reports end to end: submit (or resolve a
// saved query into) a report job, poll it to completion, download the
// gzip-compressed CSV dump and parse it into a table.
//
// Finished reports can optionally be archived to object storage before
// parsing; an archive failure is logged but never fails the report.
//
// # HTTP Endpoints
//
//   - POST /reports/saved/:id/run : Run a saved query, with optional
//     overrides and filter in the body.
//   - POST /reports/run : Run an ad-hoc report query.
package reports
