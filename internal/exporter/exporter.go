// Package exporter implements the CSV export pipeline: it reads stored
// transactions, filters them to the requested date range and serializes
// them to escaped CSV text in a temporary file.
//
// The exporter depends only on the persistence read contract; it shares no
// code with the import components.
package exporter

import (
	"context"
	"os"
	"sort"
	"strings"
	"time"

	"golang-csv-exchange-service/internal/models"
	"golang-csv-exchange-service/internal/store"
	"golang-csv-exchange-service/pkg/errors"
	"golang-csv-exchange-service/pkg/logger"
)

// ExportHeader is the fixed header line of exported transaction files
const ExportHeader = "date,title,amount,type,notes,category,account"

// SentinelRow is emitted in place of data rows when no transaction matches
// the filter, so the file always has at least two lines.
const SentinelRow = "No Data"

// Exporter is the CSV export pipeline. The persistence handle is an
// explicit constructor dependency.
type Exporter struct {
	store  store.Store
	logger logger.Logger
	now    func() time.Time
}

// New creates an Exporter backed by the given store
func New(st store.Store) *Exporter {
	return &Exporter{
		store:  st,
		logger: logger.GetGlobalLogger().WithComponent("exporter"),
		now:    time.Now,
	}
}

// Export serializes the stored transactions selected by the settings and
// writes them to a temporary file named with the format's extension. It
// returns the file's location. An empty result set is not an error; the
// sentinel row is written instead.
func (e *Exporter) Export(ctx context.Context, settings models.ExportSettings) (string, error) {
	if !settings.Format.IsValid() {
		return "", errors.ExportError(errors.CodeUnsupportedFormat, string(settings.Format), nil)
	}
	if settings.Format != models.FormatCSV {
		// json and pdf are accepted by the settings type but have no
		// serializer yet.
		return "", errors.ExportError(errors.CodeUnsupportedFormat, string(settings.Format), nil)
	}

	start, end := settings.ResolveRange(e.now())
	e.logger.WithFields(logger.Fields{
		"format":     settings.Format,
		"date_range": settings.DateRange,
		"start_date": start.Format(models.DateLayout),
		"end_date":   end.Format(models.DateLayout),
	}).Info("Starting export")

	transactions, err := e.store.FetchAll(ctx)
	if err != nil {
		e.logger.WithError(err).Error("Failed to fetch transactions from store")
		return "", err
	}

	retained := filterByDate(transactions, start, end)
	sort.SliceStable(retained, func(i, j int) bool {
		return retained[i].Date.Before(retained[j].Date)
	})

	text := Serialize(retained)

	path, err := writeTempFile(text, settings.Format.Extension())
	if err != nil {
		return "", err
	}

	e.logger.WithFields(logger.Fields{
		"file_path": path,
		"row_count": len(retained),
	}).Info("Export completed")

	return path, nil
}

// Serialize renders transactions as CSV text: the fixed header followed by
// one row per transaction, or the sentinel row when there are none.
func Serialize(transactions []*models.Transaction) string {
	lines := make([]string, 0, len(transactions)+1)
	lines = append(lines, ExportHeader)

	if len(transactions) == 0 {
		lines = append(lines, SentinelRow)
		return strings.Join(lines, "\n")
	}

	for _, tx := range transactions {
		lines = append(lines, serializeRow(tx))
	}

	return strings.Join(lines, "\n")
}

func serializeRow(tx *models.Transaction) string {
	notes := ""
	if tx.Notes != nil {
		notes = *tx.Notes
	}
	category := ""
	if tx.Category != nil {
		category = tx.Category.Name
	}
	account := ""
	if tx.Account != nil {
		account = tx.Account.Name
	}

	return strings.Join([]string{
		tx.Date.Format(models.DateLayout),
		EscapeField(tx.Title),
		tx.Amount.String(),
		tx.Kind.String(),
		EscapeField(notes),
		EscapeField(category),
		EscapeField(account),
	}, ",")
}

// EscapeField replaces commas with semicolons so a field never splits the
// row. The substitution is lossy: a semicolon already present in the source
// text is indistinguishable from an escaped comma.
func EscapeField(s string) string {
	return strings.ReplaceAll(s, ",", ";")
}

// filterByDate retains transactions inside the inclusive [start, end]
// window, comparing calendar days only
func filterByDate(transactions []*models.Transaction, start, end time.Time) []*models.Transaction {
	startDay := truncateToDay(start)
	endDay := truncateToDay(end)

	var retained []*models.Transaction
	for _, tx := range transactions {
		day := truncateToDay(tx.Date)
		if day.Before(startDay) || day.After(endDay) {
			continue
		}
		retained = append(retained, tx)
	}
	return retained
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func writeTempFile(text, extension string) (string, error) {
	file, err := os.CreateTemp("", "transactions_export_*"+extension)
	if err != nil {
		return "", errors.ExportError(errors.CodeWriteFailed, err.Error(), err)
	}

	if _, err := file.WriteString(text); err != nil {
		file.Close()
		os.Remove(file.Name())
		return "", errors.ExportError(errors.CodeWriteFailed, err.Error(), err)
	}

	if err := file.Close(); err != nil {
		os.Remove(file.Name())
		return "", errors.ExportError(errors.CodeWriteFailed, err.Error(), err)
	}

	return file.Name(), nil
}
