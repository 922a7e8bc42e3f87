package exporter

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"golang-csv-exchange-service/internal/importer"
	"golang-csv-exchange-service/internal/models"
	"golang-csv-exchange-service/internal/store"
)

func mustDate(t *testing.T, value string) time.Time {
	t.Helper()
	date, err := models.ParseDate(value)
	if err != nil {
		t.Fatalf("failed to parse test date %q: %v", value, err)
	}
	return date
}

func testTransaction(t *testing.T, date, title, amount string, kind models.TransactionKind) *models.Transaction {
	t.Helper()
	return models.NewTransaction(title, decimal.RequireFromString(amount), mustDate(t, date), kind)
}

func TestSerialize(t *testing.T) {
	notes := "with milk"
	tx := testTransaction(t, "2024-01-05", "Coffee", "-4.50", models.KindExpense)
	tx.Notes = &notes
	tx.Category = &models.Reference{Name: "Food"}
	tx.Account = &models.Reference{Name: "Checking"}

	text := Serialize([]*models.Transaction{tx})
	lines := strings.Split(text, "\n")

	if len(lines) != 2 {
		t.Fatalf("expected header plus one row, got %d lines", len(lines))
	}
	if lines[0] != ExportHeader {
		t.Errorf("expected fixed header, got %q", lines[0])
	}
	if lines[1] != "2024-01-05,Coffee,-4.5,expense,with milk,Food,Checking" {
		t.Errorf("unexpected serialized row: %q", lines[1])
	}
}

func TestSerializeEmptyOptionalFields(t *testing.T) {
	tx := testTransaction(t, "2024-01-05", "Coffee", "-4.50", models.KindExpense)

	text := Serialize([]*models.Transaction{tx})
	row := strings.Split(text, "\n")[1]

	if row != "2024-01-05,Coffee,-4.5,expense,,," {
		t.Errorf("expected empty cells for unset optional fields, got %q", row)
	}
}

func TestSerializeNoData(t *testing.T) {
	text := Serialize(nil)
	lines := strings.Split(text, "\n")

	if len(lines) != 2 {
		t.Fatalf("expected exactly two lines, got %d", len(lines))
	}
	if lines[0] != ExportHeader || lines[1] != SentinelRow {
		t.Errorf("expected header and sentinel, got %v", lines)
	}
}

func TestEscapeField(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Coffee", "Coffee"},
		{"Coffee, extra shot", "Coffee; extra shot"},
		{"a,b,c", "a;b;c"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := EscapeField(tt.input); got != tt.expected {
			t.Errorf("EscapeField(%q) = %q, expected %q", tt.input, got, tt.expected)
		}
	}
}

func TestExportWritesTempFile(t *testing.T) {
	st := store.NewMemoryStore()
	ctx := context.Background()

	if err := st.Insert(ctx, testTransaction(t, "2024-01-05", "Coffee", "-4.50", models.KindExpense)); err != nil {
		t.Fatalf("failed to seed store: %v", err)
	}

	e := New(st)
	path, err := e.Export(ctx, models.DefaultExportSettings())
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	t.Cleanup(func() { os.Remove(path) })

	if filepath.Ext(path) != ".csv" {
		t.Errorf("expected .csv extension, got %q", path)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read export file: %v", err)
	}

	lines := strings.Split(string(content), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected two lines, got %d", len(lines))
	}
	if lines[0] != ExportHeader {
		t.Errorf("expected header line, got %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "2024-01-05,Coffee,") {
		t.Errorf("unexpected data row: %q", lines[1])
	}
}

func TestExportEmptyStoreWritesSentinel(t *testing.T) {
	e := New(store.NewMemoryStore())

	path, err := e.Export(context.Background(), models.DefaultExportSettings())
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	t.Cleanup(func() { os.Remove(path) })

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read export file: %v", err)
	}
	if string(content) != ExportHeader+"\n"+SentinelRow {
		t.Errorf("expected sentinel file, got %q", string(content))
	}
}

func TestExportUnsupportedFormat(t *testing.T) {
	e := New(store.NewMemoryStore())

	for _, format := range []models.ExportFormat{models.FormatJSON, models.FormatPDF, "xml"} {
		settings := models.DefaultExportSettings()
		settings.Format = format

		if _, err := e.Export(context.Background(), settings); err == nil {
			t.Errorf("expected format %q to be rejected", format)
		}
	}
}

func TestExportSortsByDate(t *testing.T) {
	st := store.NewMemoryStore()
	ctx := context.Background()

	for _, tx := range []*models.Transaction{
		testTransaction(t, "2024-03-01", "Later", "10.00", models.KindIncome),
		testTransaction(t, "2024-01-01", "Earlier", "20.00", models.KindIncome),
		testTransaction(t, "2024-02-01", "Middle", "30.00", models.KindIncome),
	} {
		if err := st.Insert(ctx, tx); err != nil {
			t.Fatalf("failed to seed store: %v", err)
		}
	}

	e := New(st)
	path, err := e.Export(ctx, models.DefaultExportSettings())
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	t.Cleanup(func() { os.Remove(path) })

	content, _ := os.ReadFile(path)
	lines := strings.Split(string(content), "\n")
	titles := make([]string, 0, 3)
	for _, line := range lines[1:] {
		titles = append(titles, strings.Split(line, ",")[1])
	}

	expected := []string{"Earlier", "Middle", "Later"}
	for i, title := range expected {
		if titles[i] != title {
			t.Errorf("expected row %d to be %q, got %q", i, title, titles[i])
			break
		}
	}
}

func TestExportDateRangeFilter(t *testing.T) {
	st := store.NewMemoryStore()
	ctx := context.Background()

	for _, tx := range []*models.Transaction{
		testTransaction(t, "2024-01-01", "Too early", "1.00", models.KindIncome),
		testTransaction(t, "2024-06-10", "Boundary start", "2.00", models.KindIncome),
		testTransaction(t, "2024-06-15", "Inside", "3.00", models.KindIncome),
		testTransaction(t, "2024-06-20", "Boundary end", "4.00", models.KindIncome),
		testTransaction(t, "2024-07-01", "Too late", "5.00", models.KindIncome),
	} {
		if err := st.Insert(ctx, tx); err != nil {
			t.Fatalf("failed to seed store: %v", err)
		}
	}

	e := New(st)
	settings := models.DefaultExportSettings()
	settings.DateRange = models.RangeCustom
	settings.StartDate = mustDate(t, "2024-06-10")
	settings.EndDate = mustDate(t, "2024-06-20")

	path, err := e.Export(ctx, settings)
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	t.Cleanup(func() { os.Remove(path) })

	content, _ := os.ReadFile(path)
	text := string(content)

	for _, title := range []string{"Boundary start", "Inside", "Boundary end"} {
		if !strings.Contains(text, title) {
			t.Errorf("expected export to contain %q", title)
		}
	}
	for _, title := range []string{"Too early", "Too late"} {
		if strings.Contains(text, title) {
			t.Errorf("expected export to exclude %q", title)
		}
	}
}

func TestExportPresetRangeUsesClock(t *testing.T) {
	st := store.NewMemoryStore()
	ctx := context.Background()

	if err := st.Insert(ctx, testTransaction(t, "2024-06-12", "Recent", "10.00", models.KindIncome)); err != nil {
		t.Fatalf("failed to seed store: %v", err)
	}
	if err := st.Insert(ctx, testTransaction(t, "2024-05-01", "Old", "20.00", models.KindIncome)); err != nil {
		t.Fatalf("failed to seed store: %v", err)
	}

	e := New(st)
	e.now = func() time.Time { return mustDate(t, "2024-06-15") }

	settings := models.DefaultExportSettings()
	settings.DateRange = models.RangeWeek

	path, err := e.Export(ctx, settings)
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	t.Cleanup(func() { os.Remove(path) })

	content, _ := os.ReadFile(path)
	if !strings.Contains(string(content), "Recent") {
		t.Error("expected transaction inside the week window to be exported")
	}
	if strings.Contains(string(content), "Old") {
		t.Error("expected transaction outside the week window to be excluded")
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	source := store.NewMemoryStore()
	ctx := context.Background()

	notes := "team lunch, offsite"
	tx := testTransaction(t, "2024-01-05", "Lunch, downtown", "-42.00", models.KindExpense)
	tx.Notes = &notes
	tx.Category = &models.Reference{Name: "Food"}
	if err := source.Insert(ctx, tx); err != nil {
		t.Fatalf("failed to seed store: %v", err)
	}

	text := Serialize(mustFetch(t, source))

	target := store.NewMemoryStore()
	im, err := importer.New(target, nil)
	if err != nil {
		t.Fatalf("failed to create importer: %v", err)
	}

	result := im.Import(ctx, text)
	if !result.Succeeded {
		t.Fatalf("round-trip import failed: %v", result.Errors)
	}
	if result.ItemsImported != 1 {
		t.Fatalf("expected 1 imported item, got %d", result.ItemsImported)
	}

	imported := mustFetch(t, target)[0]
	if imported.Title != "Lunch; downtown" {
		t.Errorf("expected escaped title to survive the round trip, got %q", imported.Title)
	}
	if !imported.Amount.Equal(tx.Amount) {
		t.Errorf("expected amount %s, got %s", tx.Amount, imported.Amount)
	}
	if imported.Kind != models.KindExpense {
		t.Errorf("expected expense kind, got %s", imported.Kind)
	}
	if imported.Notes == nil || *imported.Notes != "team lunch; offsite" {
		t.Errorf("expected escaped notes, got %v", imported.Notes)
	}
	if imported.Category == nil || imported.Category.Name != "Food" {
		t.Errorf("expected category 'Food', got %v", imported.Category)
	}
}

func mustFetch(t *testing.T, st store.Store) []*models.Transaction {
	t.Helper()
	transactions, err := st.FetchAll(context.Background())
	if err != nil {
		t.Fatalf("failed to fetch transactions: %v", err)
	}
	return transactions
}
