package targeting

import (
	"context"
	"time"

	"admanager-sync/core/audit"
	"admanager-sync/core/gam"
	"admanager-sync/core/sync"

	"go.uber.org/zap"
)

// Service handles targeting key and value operations.
type Service struct {
	targeting gam.TargetingService
	engine    *sync.Engine
	recorder  *audit.Recorder
	logger    *zap.Logger
}

// NewService creates a new targeting service. The recorder is optional; when
// nil, runs are not persisted.
func NewService(targeting gam.TargetingService, recorder *audit.Recorder, logger *zap.Logger) *Service {
	return &Service{
		targeting: targeting,
		engine:    sync.NewEngine(targeting, logger),
		recorder:  recorder,
		logger:    logger,
	}
}

// CreateKey creates a freeform targeting key.
func (s *Service) CreateKey(ctx context.Context, name string) (*gam.Key, error) {
	return s.targeting.CreateKey(ctx, name)
}

// ListValues returns the key's current values projected to the attribute.
func (s *Service) ListValues(ctx context.Context, keyName string, attr sync.Attribute) ([]string, error) {
	return s.engine.ValuesByName(ctx, keyName, attr)
}

// Upload reconciles candidate values onto the key and records the run.
func (s *Service) Upload(ctx context.Context, keyName string, values []string, opts sync.UploadOptions) (*sync.UploadResult, error) {
	start := time.Now()
	result, err := s.engine.UploadValues(ctx, keyName, values, opts)

	run := &audit.Run{
		Operation:  audit.OperationUpload,
		KeyName:    keyName,
		Requested:  len(values),
		DurationMs: time.Since(start).Milliseconds(),
	}
	if result != nil {
		run.Applied = result.Uploaded
		run.Skipped = len(result.Skipped)
	}
	switch {
	case err != nil:
		run.Status = audit.StatusFailed
		run.Error = err.Error()
	case run.Skipped > 0:
		run.Status = audit.StatusPartial
	default:
		run.Status = audit.StatusSuccess
	}
	s.record(ctx, run)

	return result, err
}

// Deactivate soft-removes the named values from the key and records the run.
func (s *Service) Deactivate(ctx context.Context, keyName string, values []string) (*sync.DeactivateResult, error) {
	start := time.Now()
	result, err := s.engine.DeactivateValues(ctx, keyName, values)

	run := &audit.Run{
		Operation:  audit.OperationDeactivate,
		KeyName:    keyName,
		Requested:  len(values),
		DurationMs: time.Since(start).Milliseconds(),
	}
	if result != nil {
		run.Applied = result.Deactivated
		run.Skipped = len(result.NotFound)
	}
	switch {
	case err != nil:
		run.Status = audit.StatusFailed
		run.Error = err.Error()
	case run.Skipped > 0:
		run.Status = audit.StatusPartial
	default:
		run.Status = audit.StatusSuccess
	}
	s.record(ctx, run)

	return result, err
}

func (s *Service) record(ctx context.Context, run *audit.Run) {
	if s.recorder == nil {
		return
	}
	if err := s.recorder.Record(ctx, run); err != nil {
		s.logger.Warn("Recording sync run failed", zap.Error(err))
	}
}
