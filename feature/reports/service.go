package reports

import (
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"time"

	"admanager-sync/core/gam"
	"admanager-sync/core/storage"
	"admanager-sync/core/table"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// defaultPollInterval is the wait between report job status checks.
const defaultPollInterval = 10 * time.Second

// ReportError reports a job that finished in a terminal non-success state.
type ReportError struct {
	JobID  string
	Status gam.ReportJobStatus
}

func (e *ReportError) Error() string {
	return fmt.Sprintf("report job %s finished with status %s", e.JobID, e.Status)
}

// Overrides are optional replacements applied to a saved query's definition
// before it runs. Zero-valued fields leave the saved definition untouched.
type Overrides struct {
	DateRangeType string   `json:"date_range_type"`
	StartDate     string   `json:"start_date"`
	EndDate       string   `json:"end_date"`
	Dimensions    []string `json:"dimensions"`
	Columns       []string `json:"columns"`
}

func (o *Overrides) apply(q *gam.ReportQuery) {
	if o == nil {
		return
	}
	if o.DateRangeType != "" {
		q.DateRangeType = o.DateRangeType
	}
	if o.StartDate != "" {
		q.StartDate = o.StartDate
	}
	if o.EndDate != "" {
		q.EndDate = o.EndDate
	}
	if len(o.Dimensions) > 0 {
		q.Dimensions = o.Dimensions
	}
	if len(o.Columns) > 0 {
		q.Columns = o.Columns
	}
}

// Service handles report operations.
type Service struct {
	reports      gam.ReportService
	store        storage.Client
	bucket       string
	logger       *zap.Logger
	pollInterval time.Duration
}

// NewService creates a new report service. The storage client is optional;
// when nil, finished reports are not archived.
func NewService(reports gam.ReportService, store storage.Client, bucket string, logger *zap.Logger) *Service {
	return &Service{
		reports:      reports,
		store:        store,
		bucket:       bucket,
		logger:       logger,
		pollInterval: defaultPollInterval,
	}
}

// SetPollInterval overrides the wait between job status checks.
func (s *Service) SetPollInterval(d time.Duration) {
	if d > 0 {
		s.pollInterval = d
	}
}

// RunSaved resolves a saved query, applies the overrides and filter, runs
// the resulting report and returns it as a table.
func (s *Service) RunSaved(ctx context.Context, id int64, overrides *Overrides, filter *gam.Filter) (*table.Table, error) {
	saved, err := s.reports.GetSavedQuery(ctx, id)
	if err != nil {
		return nil, err
	}
	if !saved.IsCompatible {
		return nil, fmt.Errorf("saved query %d (%q) is not compatible with this API version", id, saved.Name)
	}

	query := saved.ReportQuery
	overrides.apply(&query)
	return s.RunQuery(ctx, query, filter)
}

// RunQuery submits the report job, polls it to completion, downloads the
// result and parses it into a table with type prefixes stripped from the
// column names.
//
// A job that ends FAILED yields a *ReportError. A completed report with no
// rows at all yields an error wrapping table.ErrEmpty.
func (s *Service) RunQuery(ctx context.Context, query gam.ReportQuery, filter *gam.Filter) (*table.Table, error) {
	if filter != nil {
		query.Statement = filter
	}

	jobID, err := s.reports.RunReportJob(ctx, query)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Report job submitted", zap.String("job_id", jobID))

	if err := s.waitForJob(ctx, jobID); err != nil {
		return nil, err
	}

	raw, err := s.download(ctx, jobID)
	if err != nil {
		return nil, err
	}

	s.archive(ctx, jobID, raw)

	result, err := table.ReadCSV(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("report job %s: %w", jobID, err)
	}
	result.StripColumnPrefixes()

	s.logger.Info("Report fetched",
		zap.String("job_id", jobID),
		zap.Int("columns", len(result.Columns)),
		zap.Int("rows", len(result.Rows)),
	)
	return result, nil
}

// waitForJob polls the job until it reaches a terminal status.
func (s *Service) waitForJob(ctx context.Context, jobID string) error {
	for {
		status, err := s.reports.JobStatus(ctx, jobID)
		if err != nil {
			return err
		}

		switch status {
		case gam.ReportJobCompleted:
			return nil
		case gam.ReportJobFailed:
			return &ReportError{JobID: jobID, Status: status}
		}

		s.logger.Debug("Report job still running",
			zap.String("job_id", jobID),
			zap.String("status", string(status)),
		)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(s.pollInterval):
		}
	}
}

// download fetches and decompresses the finished report.
func (s *Service) download(ctx context.Context, jobID string) ([]byte, error) {
	body, err := s.reports.Download(ctx, jobID)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	gz, err := gzip.NewReader(body)
	if err != nil {
		return nil, fmt.Errorf("decompressing report job %s: %w", jobID, err)
	}
	defer gz.Close()

	raw, err := io.ReadAll(gz)
	if err != nil {
		return nil, fmt.Errorf("reading report job %s: %w", jobID, err)
	}
	return raw, nil
}

// archive stores the decompressed CSV in object storage when configured.
func (s *Service) archive(ctx context.Context, jobID string, raw []byte) {
	if s.store == nil {
		return
	}

	objectName := fmt.Sprintf("reports/%s-%s.csv", jobID, time.Now().UTC().Format("20060102T150405Z"))
	_, err := s.store.PutObject(ctx, s.bucket, objectName, bytes.NewReader(raw), int64(len(raw)), minio.PutObjectOptions{
		ContentType: "text/csv",
	})
	if err != nil {
		s.logger.Warn("Report archive failed",
			zap.String("job_id", jobID),
			zap.String("object", objectName),
			zap.Error(err),
		)
		return
	}
	s.logger.Info("Report archived", zap.String("object", objectName))
}
