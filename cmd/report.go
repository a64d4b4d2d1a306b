package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"admanager-sync/core/gam"
	"admanager-sync/core/storage"
	"admanager-sync/core/table"
	"admanager-sync/feature/reports"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags for report run command
	reportSavedID      int64
	reportQueryFile    string
	reportFilter       string
	reportFilterValues []string
	reportDateRange    string
	reportStartDate    string
	reportEndDate      string
	reportOut          string
	reportPollSeconds  int
)

// reportCmd is the parent command for report operations.
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Fetch reports from the network",
}

var runReportCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a saved query or an ad-hoc report and write it as CSV",
	Long: `Run a report and write the result as CSV.

Examples:
  # Run a saved query and print to stdout
  report run --saved-id 12345

  # Run a saved query for a custom date range, filtered to one order
  report run --saved-id 12345 \
    --date-range CUSTOM_DATE --start 2026-08-01 --end 2026-08-07 \
    --filter "ORDER_ID = :orderId" --filter-value 67890

  # Run an ad-hoc query from a JSON definition and write to a file
  report run --query-file query.json --out report.csv`,
	RunE: runReport,
}

func init() {
	runReportCmd.Flags().Int64Var(&reportSavedID, "saved-id", 0, "Saved query ID to run")
	runReportCmd.Flags().StringVar(&reportQueryFile, "query-file", "", "JSON file holding an ad-hoc report query")
	runReportCmd.Flags().StringVar(&reportFilter, "filter", "", "PQL-style filter expression")
	runReportCmd.Flags().StringSliceVar(&reportFilterValues, "filter-value", nil, "Positional values bound to the filter")
	runReportCmd.Flags().StringVar(&reportDateRange, "date-range", "", "Date range type override, e.g. LAST_WEEK or CUSTOM_DATE")
	runReportCmd.Flags().StringVar(&reportStartDate, "start", "", "Custom range start date (YYYY-MM-DD)")
	runReportCmd.Flags().StringVar(&reportEndDate, "end", "", "Custom range end date (YYYY-MM-DD)")
	runReportCmd.Flags().StringVar(&reportOut, "out", "", "Output CSV path (default stdout)")
	runReportCmd.Flags().IntVar(&reportPollSeconds, "poll-interval", 0, "Seconds between job status checks")

	reportCmd.AddCommand(runReportCmd)
	RootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	if reportSavedID == 0 && reportQueryFile == "" {
		return fmt.Errorf("either --saved-id or --query-file is required")
	}

	cfg, l, session, err := bootstrap(ctx)
	if err != nil {
		return err
	}

	// Optional report archive
	var store storage.Client
	if cfg.Storage.Enabled {
		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			l.Warn("Optional report archive unavailable", zap.Error(err))
		} else if err := storage.EnsureBucket(ctx, client, cfg.Storage.Bucket); err != nil {
			l.Warn("Optional report archive unavailable", zap.Error(err))
		} else {
			store = client
		}
	}

	svc := reports.NewService(session.Reports(), store, cfg.Storage.Bucket, l)
	if reportPollSeconds > 0 {
		svc.SetPollInterval(time.Duration(reportPollSeconds) * time.Second)
	}

	var filter *gam.Filter
	if reportFilter != "" {
		values := make([]any, 0, len(reportFilterValues))
		for _, value := range reportFilterValues {
			values = append(values, value)
		}
		filter = &gam.Filter{Query: reportFilter, Values: values}
	}

	result, err := runReportQuery(ctx, svc, filter)
	if err != nil {
		return err
	}

	out := os.Stdout
	if reportOut != "" {
		file, err := os.Create(reportOut)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer file.Close()
		out = file
	}
	return result.WriteCSV(out)
}

func runReportQuery(ctx context.Context, svc *reports.Service, filter *gam.Filter) (*table.Table, error) {
	if reportSavedID != 0 {
		overrides := &reports.Overrides{
			DateRangeType: reportDateRange,
			StartDate:     reportStartDate,
			EndDate:       reportEndDate,
		}
		return svc.RunSaved(ctx, reportSavedID, overrides, filter)
	}

	raw, err := os.ReadFile(reportQueryFile)
	if err != nil {
		return nil, fmt.Errorf("reading query file: %w", err)
	}
	var query gam.ReportQuery
	if err := json.Unmarshal(raw, &query); err != nil {
		return nil, fmt.Errorf("parsing query file: %w", err)
	}

	if reportDateRange != "" {
		query.DateRangeType = reportDateRange
	}
	if reportStartDate != "" {
		query.StartDate = reportStartDate
	}
	if reportEndDate != "" {
		query.EndDate = reportEndDate
	}
	return svc.RunQuery(ctx, query, filter)
}
