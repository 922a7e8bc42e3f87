package models

import (
	"fmt"
	"strings"
	"time"
)

// ImportResult summarizes every row outcome of a single import pass.
// Invariant: Succeeded is true exactly when Errors is empty; ItemsImported
// counts only rows that produced a persisted Transaction.
type ImportResult struct {
	Succeeded     bool     `json:"succeeded"`
	ItemsImported int      `json:"items_imported"`
	Errors        []string `json:"errors"`
	Warnings      []string `json:"warnings"`
}

// NewImportResult creates an empty ImportResult
func NewImportResult() *ImportResult {
	return &ImportResult{
		Errors:   []string{},
		Warnings: []string{},
	}
}

// AddError appends a row or pipeline error message
func (r *ImportResult) AddError(msg string) {
	r.Errors = append(r.Errors, msg)
}

// AddWarning appends a non-fatal warning message
func (r *ImportResult) AddWarning(msg string) {
	r.Warnings = append(r.Warnings, msg)
}

// Finalize settles the Succeeded flag from the accumulated errors
func (r *ImportResult) Finalize() *ImportResult {
	r.Succeeded = len(r.Errors) == 0
	return r
}

// String returns a human-readable summary of the import outcome
func (r *ImportResult) String() string {
	return fmt.Sprintf("imported %d items, %d errors, %d warnings",
		r.ItemsImported, len(r.Errors), len(r.Warnings))
}

// ExportFormat represents the requested export artifact format. Settings
// accept all three formats; only CSV has a serializer.
type ExportFormat string

const (
	FormatCSV  ExportFormat = "csv"
	FormatJSON ExportFormat = "json"
	FormatPDF  ExportFormat = "pdf"
)

// IsValid checks if the export format is accepted by the settings type
func (f ExportFormat) IsValid() bool {
	switch f {
	case FormatCSV, FormatJSON, FormatPDF:
		return true
	default:
		return false
	}
}

// Extension returns the file extension for the format, including the dot
func (f ExportFormat) Extension() string {
	return "." + string(f)
}

// ParseExportFormat parses an export format name
func ParseExportFormat(s string) (ExportFormat, error) {
	f := ExportFormat(strings.ToLower(strings.TrimSpace(s)))
	if !f.IsValid() {
		return "", fmt.Errorf("invalid export format '%s'", s)
	}
	return f, nil
}

// DateRangePreset selects the exported date window
type DateRangePreset string

const (
	RangeWeek    DateRangePreset = "week"
	RangeMonth   DateRangePreset = "month"
	RangeQuarter DateRangePreset = "quarter"
	RangeYear    DateRangePreset = "year"
	RangeAll     DateRangePreset = "all"
	RangeCustom  DateRangePreset = "custom"
)

// IsValid checks if the preset is known
func (p DateRangePreset) IsValid() bool {
	switch p {
	case RangeWeek, RangeMonth, RangeQuarter, RangeYear, RangeAll, RangeCustom:
		return true
	default:
		return false
	}
}

// ParseDateRangePreset parses a date range preset name
func ParseDateRangePreset(s string) (DateRangePreset, error) {
	p := DateRangePreset(strings.ToLower(strings.TrimSpace(s)))
	if !p.IsValid() {
		return "", fmt.Errorf("invalid date range preset '%s'", s)
	}
	return p, nil
}

// ExportSettings is the request contract for an export call. Only the
// transaction inclusion path is implemented; the remaining flags are
// accepted for forward compatibility.
type ExportSettings struct {
	Format    ExportFormat    `json:"format"`
	DateRange DateRangePreset `json:"date_range"`
	StartDate time.Time       `json:"start_date"`
	EndDate   time.Time       `json:"end_date"`

	IncludeTransactions  bool `json:"include_transactions"`
	IncludeAccounts      bool `json:"include_accounts"`
	IncludeBudgets       bool `json:"include_budgets"`
	IncludeSubscriptions bool `json:"include_subscriptions"`
	IncludeGoals         bool `json:"include_goals"`
}

// DefaultExportSettings returns settings for a full CSV transaction export
func DefaultExportSettings() ExportSettings {
	return ExportSettings{
		Format:              FormatCSV,
		DateRange:           RangeAll,
		IncludeTransactions: true,
	}
}

// ResolveRange returns the effective inclusive [start, end] window for the
// configured preset, evaluated against the given reference time. Custom
// ranges use the explicit start and end dates as-is.
func (s ExportSettings) ResolveRange(now time.Time) (time.Time, time.Time) {
	end := now
	switch s.DateRange {
	case RangeWeek:
		return now.AddDate(0, 0, -7), end
	case RangeMonth:
		return now.AddDate(0, -1, 0), end
	case RangeQuarter:
		return now.AddDate(0, -3, 0), end
	case RangeYear:
		return now.AddDate(-1, 0, 0), end
	case RangeCustom:
		return s.StartDate, s.EndDate
	default: // RangeAll
		return time.Time{}, now.AddDate(100, 0, 0)
	}
}
