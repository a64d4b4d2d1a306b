package gam

import (
	"context"
	"fmt"
	"io"
	"net/url"
)

// Filter is the platform's PQL-style filter expression attached to a report
// query: a query string plus positional values.
type Filter struct {
	Query  string `json:"query"`
	Values []any  `json:"values,omitempty"`
}

// ReportQuery describes an ad-hoc report.
type ReportQuery struct {
	// Dimensions are the row grouping columns.
	Dimensions []string `json:"dimensions"`
	// Columns are the metric columns.
	Columns []string `json:"columns"`
	// DateRangeType selects a predefined range, e.g. "LAST_WEEK", or
	// "CUSTOM_DATE" to use StartDate/EndDate.
	DateRangeType string `json:"dateRangeType,omitempty"`
	// StartDate and EndDate bound a CUSTOM_DATE range, formatted YYYY-MM-DD.
	StartDate string `json:"startDate,omitempty"`
	EndDate   string `json:"endDate,omitempty"`
	// Statement is an optional filter applied to the report rows.
	Statement *Filter `json:"statement,omitempty"`
}

// SavedQuery is a server-side report template.
type SavedQuery struct {
	ID   int64  `json:"id,string"`
	Name string `json:"name"`
	// IsCompatible reports whether the saved query can run against the API
	// version this client speaks.
	IsCompatible bool `json:"isCompatibleWithApiVersion"`
	// ReportQuery is the underlying query definition.
	ReportQuery ReportQuery `json:"reportQuery"`
}

// ReportJobStatus is the lifecycle state of an asynchronous report job.
type ReportJobStatus string

const (
	ReportJobInProgress ReportJobStatus = "IN_PROGRESS"
	ReportJobCompleted  ReportJobStatus = "COMPLETED"
	ReportJobFailed     ReportJobStatus = "FAILED"
)

// ReportService is the reporting surface of the platform.
type ReportService interface {
	// GetSavedQuery returns the saved query with the given ID, or
	// ErrNotFound.
	GetSavedQuery(ctx context.Context, id int64) (*SavedQuery, error)

	// RunReportJob submits a report job and returns its ID.
	RunReportJob(ctx context.Context, query ReportQuery) (string, error)

	// JobStatus returns the current status of a report job.
	JobStatus(ctx context.Context, jobID string) (ReportJobStatus, error)

	// Download streams the finished report as a gzip-compressed CSV dump.
	// The caller owns closing the reader.
	Download(ctx context.Context, jobID string) (io.ReadCloser, error)
}

type restReportService struct {
	session *Session
}

type savedQueryPage struct {
	Queries            []SavedQuery `json:"results"`
	TotalResultSetSize int          `json:"totalResultSetSize"`
}

func (r *restReportService) GetSavedQuery(ctx context.Context, id int64) (*SavedQuery, error) {
	stmt := Statement{
		Query:    "id = :id",
		IDParams: map[string]int64{"id": id},
		Limit:    1,
	}

	var page savedQueryPage
	path := r.session.networkPath("savedQueries")
	if err := r.session.getJSON(ctx, "getSavedQueriesByStatement", path, stmt.Values(), &page); err != nil {
		return nil, err
	}
	if len(page.Queries) == 0 {
		return nil, fmt.Errorf("saved query %d: %w", id, ErrNotFound)
	}
	return &page.Queries[0], nil
}

func (r *restReportService) RunReportJob(ctx context.Context, query ReportQuery) (string, error) {
	request := struct {
		ReportQuery ReportQuery `json:"reportQuery"`
	}{ReportQuery: query}

	var response struct {
		ID string `json:"id"`
	}
	path := r.session.networkPath("reports:run")
	if err := r.session.postJSON(ctx, "runReportJob", path, request, &response); err != nil {
		return "", err
	}
	return response.ID, nil
}

func (r *restReportService) JobStatus(ctx context.Context, jobID string) (ReportJobStatus, error) {
	var response struct {
		Status ReportJobStatus `json:"status"`
	}
	path := r.session.networkPath("reportJobs/" + url.PathEscape(jobID))
	if err := r.session.getJSON(ctx, "getReportJobStatus", path, nil, &response); err != nil {
		return "", err
	}
	return response.Status, nil
}

func (r *restReportService) Download(ctx context.Context, jobID string) (io.ReadCloser, error) {
	// exportFormat CSV_DUMP yields gzip-compressed CSV.
	path := r.session.networkPath("reportJobs/" + url.PathEscape(jobID) + ":download?exportFormat=CSV_DUMP")
	return r.session.getRaw(ctx, "downloadReport", path)
}
