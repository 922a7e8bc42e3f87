// Package importer implements the CSV import pipeline: it tokenizes input
// lines, resolves a column mapping from the header, coerces raw fields into
// typed values and hands each validated transaction to the persistence
// collaborator, accumulating per-row errors into a single ImportResult.
//
// Row-level failures are recovered locally: a bad row is recorded and
// skipped, never aborting the file. Only a structurally empty input is a
// pipeline-level failure.
package importer

import (
	"context"
	"fmt"
	"strings"

	"golang-csv-exchange-service/internal/models"
	"golang-csv-exchange-service/internal/parsers"
	"golang-csv-exchange-service/internal/store"
	"golang-csv-exchange-service/pkg/errors"
	"golang-csv-exchange-service/pkg/logger"
)

// HeaderMode controls how the first line of the input is interpreted
type HeaderMode string

const (
	// HeaderAuto treats the first line as a header iff its lowercased
	// text contains "date". The heuristic misclassifies data rows whose
	// title mentions a date; prefer the explicit modes when the caller
	// knows the file shape.
	HeaderAuto HeaderMode = "auto"

	// HeaderPresent asserts the first line is a header row
	HeaderPresent HeaderMode = "present"

	// HeaderAbsent asserts there is no header; columns are assumed to be
	// date, title, amount in that order
	HeaderAbsent HeaderMode = "absent"
)

// IsValid checks if the header mode is known
func (m HeaderMode) IsValid() bool {
	switch m {
	case HeaderAuto, HeaderPresent, HeaderAbsent:
		return true
	default:
		return false
	}
}

// Config holds configuration for the import pipeline
type Config struct {
	HeaderMode HeaderMode
}

// DefaultConfig returns a configuration with header auto-detection
func DefaultConfig() *Config {
	return &Config{HeaderMode: HeaderAuto}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if !c.HeaderMode.IsValid() {
		return fmt.Errorf("invalid header mode: %s", c.HeaderMode)
	}
	return nil
}

// Importer is the CSV import pipeline. The persistence handle is an
// explicit constructor dependency so test runs can use isolated stores.
type Importer struct {
	store  store.Store
	config *Config
	logger logger.Logger
}

// New creates an Importer backed by the given store
func New(st store.Store, config *Config) (*Importer, error) {
	if config == nil {
		config = DefaultConfig()
	}

	if err := config.Validate(); err != nil {
		return nil, errors.InternalError(errors.CodeUnexpectedError, "importer configuration", err).
			WithSuggestion("use header mode auto, present or absent")
	}

	return &Importer{
		store:  st,
		config: config,
		logger: logger.GetGlobalLogger().WithComponent("importer"),
	}, nil
}

// Import runs the pipeline over the full input text and returns a single
// ImportResult summarizing every row outcome. Error messages are tagged
// with 1-based line numbers counted over the raw input, header included.
func (im *Importer) Import(ctx context.Context, text string) *models.ImportResult {
	result := models.NewImportResult()

	lines := splitLines(text)
	if countNonEmpty(lines) == 0 {
		im.logger.Warn("Import received an empty file")
		result.AddError(errors.FileError(errors.CodeEmptyFile, "", nil).Message)
		return result.Finalize()
	}

	im.logger.WithFields(logger.Fields{
		"line_count":  len(lines),
		"header_mode": im.config.HeaderMode,
	}).Info("Starting import")

	mapping, dataStart := im.resolveMapping(lines, result)

	for i := dataStart; i < len(lines); i++ {
		line := lines[i]
		if strings.TrimSpace(line) == "" {
			continue
		}

		lineNumber := i + 1
		if rowErr := im.importRow(ctx, line, lineNumber, mapping, result); rowErr != nil {
			im.logger.WithFields(logger.Fields{
				"line_number": lineNumber,
				"code":        rowErr.Code,
			}).Debug("Skipping row")
			result.AddError(rowErr.Message)
		}
	}

	im.logger.WithFields(logger.Fields{
		"items_imported": result.ItemsImported,
		"error_count":    len(result.Errors),
		"warning_count":  len(result.Warnings),
	}).Info("Import completed")

	return result.Finalize()
}

// resolveMapping decides header handling and returns the column mapping
// plus the index of the first data line
func (im *Importer) resolveMapping(lines []string, result *models.ImportResult) (parsers.ColumnMapping, int) {
	first := firstNonEmpty(lines)

	hasHeader := false
	switch im.config.HeaderMode {
	case HeaderPresent:
		hasHeader = true
	case HeaderAbsent:
		hasHeader = false
	default:
		hasHeader = parsers.LooksLikeHeader(lines[first])
	}

	if !hasHeader {
		im.logger.Debug("No header; assuming date, title, amount column order")
		return parsers.DefaultColumnMapping(), first
	}

	mapping, duplicates := parsers.MapColumns(parsers.TokenizeRow(lines[first]))
	for _, field := range duplicates {
		result.AddWarning(fmt.Sprintf("Multiple columns match field '%s'; the later column is used.", field))
	}

	im.logger.WithField("minimum_fields", mapping.MinimumFields()).Debug("Mapped header columns")
	return mapping, first + 1
}

// importRow processes one data line. It returns a typed row error when the
// row must be skipped; the caller records it and continues.
func (im *Importer) importRow(ctx context.Context, line string, lineNumber int, mapping parsers.ColumnMapping, result *models.ImportResult) *errors.ExchangeError {
	fields := parsers.TokenizeRow(line)

	if missing := mapping.MissingRequired(); len(missing) > 0 {
		return errors.RowError(errors.CodeMissingRequiredField, lineNumber, missing[0], "", nil)
	}

	if len(fields) < mapping.MinimumFields() {
		field := parsers.FieldDate
		if *mapping.Date < len(fields) {
			field = parsers.FieldAmount
		}
		return errors.RowError(errors.CodeMissingRequiredField, lineNumber, field, "", nil)
	}

	dateRaw, _ := parsers.Field(fields, mapping.Date)
	if strings.TrimSpace(dateRaw) == "" {
		return errors.RowError(errors.CodeEmptyRequiredField, lineNumber, parsers.FieldDate, "", nil)
	}

	date, err := models.ParseDate(dateRaw)
	if err != nil {
		return errors.RowError(errors.CodeInvalidDateFormat, lineNumber, parsers.FieldDate, dateRaw, err)
	}

	amountRaw, _ := parsers.Field(fields, mapping.Amount)
	if strings.TrimSpace(amountRaw) == "" {
		return errors.RowError(errors.CodeEmptyRequiredField, lineNumber, parsers.FieldAmount, "", nil)
	}

	amount, err := models.ParseAmount(amountRaw)
	if err != nil {
		return errors.RowError(errors.CodeInvalidAmountFormat, lineNumber, parsers.FieldAmount, amountRaw, err)
	}

	title, _ := parsers.Field(fields, mapping.Title)
	kindRaw, _ := parsers.Field(fields, mapping.Kind)

	tx := models.NewTransaction(title, amount, date, models.ClassifyKind(kindRaw, amount))
	if notes, ok := parsers.Field(fields, mapping.Notes); ok && notes != "" {
		tx.Notes = &notes
	}
	if category, ok := parsers.Field(fields, mapping.Category); ok && category != "" {
		tx.Category = &models.Reference{Name: category}
	}
	if account, ok := parsers.Field(fields, mapping.Account); ok && account != "" {
		tx.Account = &models.Reference{Name: account}
	}

	if err := im.store.Insert(ctx, tx); err != nil {
		if errors.HasCode(err, errors.CodeDuplicateTransaction) {
			return errors.RowError(errors.CodeDuplicateTransaction, lineNumber, "", "", err)
		}
		return errors.RowError(errors.CodeInvalidData, lineNumber, "", "", err)
	}

	if err := im.store.Commit(ctx); err != nil {
		return errors.RowError(errors.CodeInvalidData, lineNumber, "", "", err)
	}

	result.ItemsImported++
	return nil
}

func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.Split(text, "\n")
}

func countNonEmpty(lines []string) int {
	count := 0
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			count++
		}
	}
	return count
}

func firstNonEmpty(lines []string) int {
	for i, line := range lines {
		if strings.TrimSpace(line) != "" {
			return i
		}
	}
	return 0
}
