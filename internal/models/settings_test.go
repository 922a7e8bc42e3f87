package models

import (
	"testing"
	"time"
)

func TestImportResultFinalize(t *testing.T) {
	clean := NewImportResult()
	clean.ItemsImported = 3
	clean.Finalize()
	if !clean.Succeeded {
		t.Error("expected result without errors to succeed")
	}

	partial := NewImportResult()
	partial.ItemsImported = 2
	partial.AddError("Line 3: invalid date format '2024/13/40'")
	partial.Finalize()
	if partial.Succeeded {
		t.Error("expected result with errors to be reported as failed")
	}
	if partial.ItemsImported != 2 {
		t.Errorf("expected partial success to keep imported count, got %d", partial.ItemsImported)
	}

	warned := NewImportResult()
	warned.AddWarning("Multiple columns match field 'date'; the later column is used.")
	warned.Finalize()
	if !warned.Succeeded {
		t.Error("warnings alone must not fail the import")
	}
}

func TestExportFormat(t *testing.T) {
	tests := []struct {
		input     string
		expected  ExportFormat
		extension string
		wantError bool
	}{
		{input: "csv", expected: FormatCSV, extension: ".csv"},
		{input: "CSV", expected: FormatCSV, extension: ".csv"},
		{input: "json", expected: FormatJSON, extension: ".json"},
		{input: "pdf", expected: FormatPDF, extension: ".pdf"},
		{input: "xlsx", wantError: true},
		{input: "", wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			format, err := ParseExportFormat(tt.input)
			if tt.wantError {
				if err == nil {
					t.Errorf("expected error for input %q, got %s", tt.input, format)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error for input %q: %v", tt.input, err)
			}
			if format != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, format)
			}
			if format.Extension() != tt.extension {
				t.Errorf("expected extension %s, got %s", tt.extension, format.Extension())
			}
		})
	}
}

func TestResolveRange(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name          string
		settings      ExportSettings
		expectedStart string
	}{
		{
			name:          "week",
			settings:      ExportSettings{DateRange: RangeWeek},
			expectedStart: "2024-06-08",
		},
		{
			name:          "month",
			settings:      ExportSettings{DateRange: RangeMonth},
			expectedStart: "2024-05-15",
		},
		{
			name:          "quarter",
			settings:      ExportSettings{DateRange: RangeQuarter},
			expectedStart: "2024-03-15",
		},
		{
			name:          "year",
			settings:      ExportSettings{DateRange: RangeYear},
			expectedStart: "2023-06-15",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := tt.settings.ResolveRange(now)
			if got := start.Format(DateLayout); got != tt.expectedStart {
				t.Errorf("expected start %s, got %s", tt.expectedStart, got)
			}
			if !end.Equal(now) {
				t.Errorf("expected end %s, got %s", now, end)
			}
		})
	}

	t.Run("custom", func(t *testing.T) {
		settings := ExportSettings{
			DateRange: RangeCustom,
			StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			EndDate:   time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
		}
		start, end := settings.ResolveRange(now)
		if !start.Equal(settings.StartDate) || !end.Equal(settings.EndDate) {
			t.Errorf("expected custom range to be used verbatim, got [%s, %s]", start, end)
		}
	})

	t.Run("all", func(t *testing.T) {
		settings := ExportSettings{DateRange: RangeAll}
		start, end := settings.ResolveRange(now)
		if !start.IsZero() {
			t.Errorf("expected zero start for all, got %s", start)
		}
		if !end.After(now) {
			t.Errorf("expected far-future end for all, got %s", end)
		}
	})
}
