// Package sync reconciles custom targeting value sets against Ad Manager.
//
// The remote network is the single source of truth: every operation
// re-derives the existing value set from the platform and never relies on
// local knowledge of prior uploads.
//
// # Upload flow
//
//  1. Resolve the key by name (optionally auto-creating it).
//  2. Fetch the complete existing value set, page by page.
//  3. Plan: candidates minus existing, exact case-sensitive match,
//     duplicates collapsed.
//  4. Chunk the plan into batches (default 200) and submit sequentially.
//
// Already-existing values are never resubmitted. There is no atomicity
// across chunks: a caller observing an error must assume a prefix of the
// chunks succeeded. With a batch size of exactly 1, a rejected singleton is
// logged and skipped instead of aborting; callers use this to retry a failed
// bulk upload at single-value granularity.
//
// # Deactivation flow
//
// Resolves the key, pages through the values matching the requested names,
// and issues one bulk deactivate action per page. Names absent from the
// remote set do not fail the operation; they are reported back in the
// result's NotFound list.
package sync
