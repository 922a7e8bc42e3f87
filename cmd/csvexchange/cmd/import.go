package cmd

import (
	"context"
	"fmt"
	"os"

	"golang-csv-exchange-service/cmd/csvexchange/config"
	"golang-csv-exchange-service/internal/importer"
	appErrors "golang-csv-exchange-service/pkg/errors"

	"github.com/spf13/cobra"
)

// Flags for the import command
var (
	importFile  string
	headerMode  string
	storeKind   string
	databaseURL string
)

// importCmd represents the import command
var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import transactions from a CSV file",
	Long: `Import ingests a CSV file of financial transactions into the store.

Each row is validated independently: bad rows are reported with their line
number and skipped, so one malformed row never aborts the file. The command
reports the full outcome in one pass.

Examples:
  # Import with header auto-detection into postgres
  csvexchange import --file transactions.csv --database-url postgres://localhost/finance

  # Assert the file has no header (columns: date, title, amount)
  csvexchange import --file bare.csv --header absent --database-url postgres://localhost/finance

  # Dry-run validation against an in-memory store
  csvexchange import --file transactions.csv --store memory`,

	PreRunE: validateImportFlags,
	RunE:    runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringVarP(&importFile, "file", "f", "", "path to transaction CSV file (required)")
	importCmd.Flags().StringVar(&headerMode, "header", "auto", "header handling: auto, present, absent")
	importCmd.Flags().StringVar(&storeKind, "store", "postgres", "persistence backend: memory, postgres")
	importCmd.Flags().StringVar(&databaseURL, "database-url", "", "postgres connection URL")

	importCmd.MarkFlagRequired("file")
}

func validateImportFlags(cmd *cobra.Command, args []string) error {
	importFile = stringFlagOrViper(cmd, "file", importFile)
	headerMode = stringFlagOrViper(cmd, "header", headerMode)
	storeKind = stringFlagOrViper(cmd, "store", storeKind)
	databaseURL = stringFlagOrViper(cmd, "database-url", databaseURL)

	if importFile == "" {
		return fmt.Errorf("file is required")
	}

	if _, err := config.CreateImporterConfig(headerMode); err != nil {
		return err
	}

	return nil
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	text, err := readImportFile(importFile)
	if err != nil {
		return err
	}

	importerConfig, err := config.CreateImporterConfig(headerMode)
	if err != nil {
		return err
	}

	st, cleanup, err := config.CreateStore(ctx, storeKind, databaseURL)
	if err != nil {
		return err
	}
	defer cleanup()

	pipeline, err := importer.New(st, importerConfig)
	if err != nil {
		return err
	}

	result := pipeline.Import(ctx, text)

	fmt.Printf("Imported %d transactions from %s\n", result.ItemsImported, importFile)
	for _, warning := range result.Warnings {
		fmt.Printf("Warning: %s\n", warning)
	}
	for _, message := range result.Errors {
		fmt.Fprintf(os.Stderr, "Error: %s\n", message)
	}

	if !result.Succeeded {
		return appErrors.New(appErrors.CategoryParse, appErrors.CodeParsingError,
			fmt.Sprintf("import finished with %d errors (%d rows imported)",
				len(result.Errors), result.ItemsImported))
	}

	return nil
}

func readImportFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", appErrors.FileError(appErrors.CodeFileNotFound, path, err)
		}
		if os.IsPermission(err) {
			return "", appErrors.FileError(appErrors.CodeFileAccessDenied, path, err)
		}
		return "", appErrors.FileError(appErrors.CodeParsingError, path, err)
	}
	return string(data), nil
}
