package cmd

import (
	"context"
	"fmt"

	"admanager-sync/core/importer"
	"admanager-sync/core/sync"
	"admanager-sync/feature/targeting"

	"github.com/spf13/cobra"
)

var (
	// Flags for values subcommands
	valuesKey        string
	valuesFile       string
	valuesColumn     int
	valuesSkipHeader bool
	valuesList       []string
	valuesCreateKey  bool
	valuesBatchSize  int
	valuesProgress   bool
	valuesAttribute  string
)

// valuesCmd is the parent command for custom targeting value operations.
var valuesCmd = &cobra.Command{
	Use:   "values",
	Short: "Manage custom targeting values",
	Long: `Upload, list or deactivate custom targeting values on a key.

Candidate values come either from --values or from a CSV file column
(--file/--column). Values already present on the key are never resubmitted.`,
}

var uploadValuesCmd = &cobra.Command{
	Use:   "upload",
	Short: "Upload candidate values to a key (only new ones are created)",
	Long: `Upload candidate values to a targeting key.

Examples:
  # Upload inline values
  values upload --key geo --values US,CA,MX

  # Upload the first column of a CSV file, skipping its header
  values upload --key geo --file postal_codes.csv --skip-header

  # Auto-create the key and submit one value per request
  values upload --key geo --values US --create-key --batch-size 1`,
	RunE: runUploadValues,
}

var listValuesCmd = &cobra.Command{
	Use:   "list",
	Short: "List the current values of a key",
	RunE:  runListValues,
}

var deactivateValuesCmd = &cobra.Command{
	Use:   "deactivate",
	Short: "Bulk-deactivate values on a key",
	RunE:  runDeactivateValues,
}

func init() {
	valuesCmd.PersistentFlags().StringVar(&valuesKey, "key", "", "Targeting key name (required)")
	_ = valuesCmd.MarkPersistentFlagRequired("key")

	uploadValuesCmd.Flags().StringVar(&valuesFile, "file", "", "CSV file to read candidate values from")
	uploadValuesCmd.Flags().IntVar(&valuesColumn, "column", 0, "Zero-based CSV column holding the values")
	uploadValuesCmd.Flags().BoolVar(&valuesSkipHeader, "skip-header", false, "Skip the first CSV row")
	uploadValuesCmd.Flags().StringSliceVar(&valuesList, "values", nil, "Inline candidate values")
	uploadValuesCmd.Flags().BoolVar(&valuesCreateKey, "create-key", false, "Create the key when it does not exist")
	uploadValuesCmd.Flags().IntVar(&valuesBatchSize, "batch-size", 0, "Values per creation request (1 switches failures to skip-and-continue)")
	uploadValuesCmd.Flags().BoolVar(&valuesProgress, "progress", false, "Print progress while fetching and uploading")

	listValuesCmd.Flags().StringVar(&valuesAttribute, "attribute", "name", "Attribute to print (name or id)")

	deactivateValuesCmd.Flags().StringVar(&valuesFile, "file", "", "CSV file to read values from")
	deactivateValuesCmd.Flags().IntVar(&valuesColumn, "column", 0, "Zero-based CSV column holding the values")
	deactivateValuesCmd.Flags().BoolVar(&valuesSkipHeader, "skip-header", false, "Skip the first CSV row")
	deactivateValuesCmd.Flags().StringSliceVar(&valuesList, "values", nil, "Inline values to deactivate")

	valuesCmd.AddCommand(uploadValuesCmd)
	valuesCmd.AddCommand(listValuesCmd)
	valuesCmd.AddCommand(deactivateValuesCmd)
	RootCmd.AddCommand(valuesCmd)
}

// collectValues resolves the candidate values from flags.
func collectValues() ([]string, error) {
	if valuesFile != "" && len(valuesList) > 0 {
		return nil, fmt.Errorf("--values and --file are mutually exclusive")
	}
	if valuesFile != "" {
		return importer.FromCSVFile(valuesFile, valuesColumn, valuesSkipHeader, true)
	}
	if len(valuesList) > 0 {
		return importer.Unique(valuesList), nil
	}
	return nil, fmt.Errorf("no values given: use --values or --file")
}

func runUploadValues(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, l, session, err := bootstrap(ctx)
	if err != nil {
		return err
	}

	candidates, err := collectValues()
	if err != nil {
		return err
	}

	opts := sync.UploadOptions{
		CreateKey: valuesCreateKey,
		BatchSize: valuesBatchSize,
	}
	if valuesProgress {
		opts.Progress = func(done, total int) {
			fmt.Printf("\r%d/%d", done, total)
		}
	}

	svc := targeting.NewService(session.Targeting(), openRecorder(cfg, l), l)
	result, err := svc.Upload(ctx, valuesKey, candidates, opts)
	if valuesProgress {
		fmt.Println()
	}
	if err != nil {
		return err
	}

	fmt.Printf("Key %q: %d candidates, %d new, %d uploaded\n",
		result.Key.Name, len(candidates), result.Planned, result.Uploaded)
	for _, skipped := range result.Skipped {
		fmt.Printf("Skipped: %s\n", skipped)
	}
	return nil
}

func runListValues(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, l, session, err := bootstrap(ctx)
	if err != nil {
		return err
	}

	attr := sync.AttributeName
	if valuesAttribute == "id" {
		attr = sync.AttributeID
	}

	svc := targeting.NewService(session.Targeting(), openRecorder(cfg, l), l)
	values, err := svc.ListValues(ctx, valuesKey, attr)
	if err != nil {
		return err
	}

	for _, value := range values {
		fmt.Println(value)
	}
	return nil
}

func runDeactivateValues(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, l, session, err := bootstrap(ctx)
	if err != nil {
		return err
	}

	names, err := collectValues()
	if err != nil {
		return err
	}

	svc := targeting.NewService(session.Targeting(), openRecorder(cfg, l), l)
	result, err := svc.Deactivate(ctx, valuesKey, names)
	if err != nil {
		return err
	}

	fmt.Printf("Key %q: %d deactivated\n", result.Key.Name, result.Deactivated)
	for _, missing := range result.NotFound {
		fmt.Printf("Not found: %s\n", missing)
	}
	return nil
}
