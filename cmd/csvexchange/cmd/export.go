package cmd

import (
	"context"
	"fmt"

	"golang-csv-exchange-service/cmd/csvexchange/config"
	"golang-csv-exchange-service/internal/exporter"

	"github.com/spf13/cobra"
)

// Flags for the export command
var (
	exportFormat string
	dateRange    string
	startDate    string
	endDate      string
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored transactions to a CSV file",
	Long: `Export serializes stored transactions for a bounded date range to an
escaped CSV file and prints the file's location.

When no transaction falls inside the range, the file contains the header
and a single "No Data" row.

Examples:
  # Export the last month of transactions
  csvexchange export --date-range month --database-url postgres://localhost/finance

  # Export an explicit window
  csvexchange export --date-range custom --start-date 2024-01-01 --end-date 2024-01-31 \
    --database-url postgres://localhost/finance`,

	PreRunE: validateExportFlags,
	RunE:    runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "csv", "export format: csv, json, pdf (only csv has a serializer)")
	exportCmd.Flags().StringVar(&dateRange, "date-range", "all", "date range preset: week, month, quarter, year, all, custom")
	exportCmd.Flags().StringVar(&startDate, "start-date", "", "custom range start date (YYYY-MM-DD)")
	exportCmd.Flags().StringVar(&endDate, "end-date", "", "custom range end date (YYYY-MM-DD)")
	exportCmd.Flags().StringVar(&storeKind, "store", "postgres", "persistence backend: memory, postgres")
	exportCmd.Flags().StringVar(&databaseURL, "database-url", "", "postgres connection URL")
}

func validateExportFlags(cmd *cobra.Command, args []string) error {
	exportFormat = stringFlagOrViper(cmd, "format", exportFormat)
	dateRange = stringFlagOrViper(cmd, "date-range", dateRange)
	startDate = stringFlagOrViper(cmd, "start-date", startDate)
	endDate = stringFlagOrViper(cmd, "end-date", endDate)
	storeKind = stringFlagOrViper(cmd, "store", storeKind)
	databaseURL = stringFlagOrViper(cmd, "database-url", databaseURL)

	_, err := config.CreateExportSettings(exportFormat, dateRange, startDate, endDate)
	return err
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	settings, err := config.CreateExportSettings(exportFormat, dateRange, startDate, endDate)
	if err != nil {
		return err
	}

	st, cleanup, err := config.CreateStore(ctx, storeKind, databaseURL)
	if err != nil {
		return err
	}
	defer cleanup()

	pipeline := exporter.New(st)

	path, err := pipeline.Export(ctx, settings)
	if err != nil {
		return err
	}

	fmt.Printf("Exported transactions to %s\n", path)
	return nil
}
