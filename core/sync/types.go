package sync

import "admanager-sync/core/gam"

const (
	// DefaultBatchSize is the number of values submitted per creation
	// request when the caller does not choose one.
	DefaultBatchSize = 200

	// pageStep is the fixed offset increment used while paging through the
	// remote value set, regardless of how many rows a page actually holds.
	pageStep = 500
)

// Attribute selects which field of a remote value is projected during
// retrieval.
type Attribute string

const (
	// AttributeName projects the display name (the default).
	AttributeName Attribute = "name"
	// AttributeID projects the numeric identifier.
	AttributeID Attribute = "id"
)

// ProgressFunc receives retrieval/upload progress. done and total are counts
// of processed and expected items. Purely observational; errors in callers'
// handlers cannot affect the operation.
type ProgressFunc func(done, total int)

// UploadOptions controls an UploadValues run.
type UploadOptions struct {
	// CreateKey allows the key to be auto-created when it does not exist.
	CreateKey bool

	// BatchSize caps how many values go into one creation request.
	// Zero means DefaultBatchSize. A batch size of exactly 1 switches the
	// failure policy from abort to skip-and-continue.
	BatchSize int

	// Progress, when set, is invoked as retrieval and submission advance.
	Progress ProgressFunc
}

// UploadResult summarises an UploadValues run. On a mid-run abort it still
// describes the prefix of chunks that was submitted.
type UploadResult struct {
	// Key is the resolved (or created) targeting key.
	Key gam.Key `json:"key"`

	// Planned is the number of new values after diffing and deduplication.
	Planned int `json:"planned"`

	// Uploaded is the number of values actually submitted.
	Uploaded int `json:"uploaded"`

	// Skipped lists values dropped by the batch-size-1 skip policy.
	Skipped []string `json:"skipped,omitempty"`
}

// DeactivateResult summarises a DeactivateValues run.
type DeactivateResult struct {
	// Key is the resolved targeting key.
	Key gam.Key `json:"key"`

	// Deactivated is the number of remote values the platform reported
	// as affected.
	Deactivated int `json:"deactivated"`

	// NotFound lists requested names that were absent from the remote set,
	// in first-occurrence order. Their absence does not fail the run.
	NotFound []string `json:"not_found,omitempty"`
}
