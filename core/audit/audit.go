// Package audit records sync runs in the optional MySQL database.
//
// The trail is write-only observability: recorded runs are never read back
// to influence reconciliation, so the remote network stays the single source
// of truth for targeting state.
package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Run outcome values.
const (
	StatusSuccess = "success"
	StatusPartial = "partial"
	StatusFailed  = "failed"
)

// Operation values.
const (
	OperationUpload     = "upload"
	OperationDeactivate = "deactivate"
)

// Run is one recorded sync invocation.
type Run struct {
	ID uint `gorm:"primaryKey"`
	// RunID is a unique identifier for correlating with logs.
	RunID string `gorm:"size:36;index"`
	// Operation is upload or deactivate.
	Operation string `gorm:"size:16"`
	// KeyName is the targeting key the run touched.
	KeyName string `gorm:"size:255"`
	// Requested is the number of candidate values supplied.
	Requested int
	// Applied is the number of values created or deactivated.
	Applied int
	// Skipped is the number of values dropped by the singleton skip policy
	// or absent from the remote set.
	Skipped int
	// Status is success, partial or failed.
	Status string `gorm:"size:16"`
	// Error holds the failure message for failed runs.
	Error string `gorm:"size:1024"`
	// DurationMs is the wall-clock duration of the run.
	DurationMs int64
	CreatedAt  time.Time
}

// TableName pins the table name regardless of gorm naming strategy.
func (Run) TableName() string {
	return "sync_runs"
}

// Recorder writes runs to the database.
type Recorder struct {
	db *gorm.DB
}

// NewRecorder creates a recorder and ensures the sync_runs table exists.
func NewRecorder(db *gorm.DB) (*Recorder, error) {
	if err := db.AutoMigrate(&Run{}); err != nil {
		return nil, fmt.Errorf("migrating sync_runs: %w", err)
	}
	return &Recorder{db: db}, nil
}

// Record persists one run. The RunID is assigned here when empty.
func (r *Recorder) Record(ctx context.Context, run *Run) error {
	if run.RunID == "" {
		run.RunID = uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Create(run).Error; err != nil {
		return fmt.Errorf("recording sync run: %w", err)
	}
	return nil
}
