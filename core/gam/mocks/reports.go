package mocks

import (
	"context"
	"io"

	"admanager-sync/core/gam"

	"github.com/stretchr/testify/mock"
)

// ReportService is a mock implementation of gam.ReportService
type ReportService struct {
	mock.Mock
}

func (m *ReportService) GetSavedQuery(ctx context.Context, id int64) (*gam.SavedQuery, error) {
	args := m.Called(ctx, id)
	if query, ok := args.Get(0).(*gam.SavedQuery); ok {
		return query, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ReportService) RunReportJob(ctx context.Context, query gam.ReportQuery) (string, error) {
	args := m.Called(ctx, query)
	return args.String(0), args.Error(1)
}

func (m *ReportService) JobStatus(ctx context.Context, jobID string) (gam.ReportJobStatus, error) {
	args := m.Called(ctx, jobID)
	if status, ok := args.Get(0).(gam.ReportJobStatus); ok {
		return status, args.Error(1)
	}
	return "", args.Error(1)
}

func (m *ReportService) Download(ctx context.Context, jobID string) (io.ReadCloser, error) {
	args := m.Called(ctx, jobID)
	if rc, ok := args.Get(0).(io.ReadCloser); ok {
		return rc, args.Error(1)
	}
	return nil, args.Error(1)
}
