// Package config builds component configurations for the csvexchange CLI
// from flag and environment values.
package config

import (
	"context"
	"fmt"
	"time"

	"golang-csv-exchange-service/internal/importer"
	"golang-csv-exchange-service/internal/models"
	"golang-csv-exchange-service/internal/store"
)

// StoreKind selects the persistence backend
type StoreKind string

const (
	StoreMemory   StoreKind = "memory"
	StorePostgres StoreKind = "postgres"
)

// CreateImporterConfig builds an importer configuration from the header
// mode flag value
func CreateImporterConfig(headerMode string) (*importer.Config, error) {
	mode := importer.HeaderMode(headerMode)
	if !mode.IsValid() {
		return nil, fmt.Errorf("invalid header mode '%s'. Valid modes: auto, present, absent", headerMode)
	}
	return &importer.Config{HeaderMode: mode}, nil
}

// CreateStore builds the selected persistence backend. The returned cleanup
// function releases any held connections.
func CreateStore(ctx context.Context, kind, databaseURL string) (store.Store, func(), error) {
	switch StoreKind(kind) {
	case StoreMemory:
		return store.NewMemoryStore(), func() {}, nil
	case StorePostgres:
		if databaseURL == "" {
			return nil, nil, fmt.Errorf("database-url is required for the postgres store")
		}
		pg, err := store.NewPostgresStore(ctx, databaseURL)
		if err != nil {
			return nil, nil, err
		}
		return pg, pg.Close, nil
	default:
		return nil, nil, fmt.Errorf("invalid store '%s'. Valid stores: memory, postgres", kind)
	}
}

// CreateExportSettings builds export settings from flag values. Custom
// ranges require explicit start and end dates; presets ignore them.
func CreateExportSettings(format, rangePreset, startDate, endDate string) (models.ExportSettings, error) {
	settings := models.DefaultExportSettings()

	parsedFormat, err := models.ParseExportFormat(format)
	if err != nil {
		return settings, fmt.Errorf("%w. Valid formats: csv, json, pdf", err)
	}
	settings.Format = parsedFormat

	preset, err := models.ParseDateRangePreset(rangePreset)
	if err != nil {
		return settings, fmt.Errorf("%w. Valid presets: week, month, quarter, year, all, custom", err)
	}
	settings.DateRange = preset

	if preset == models.RangeCustom {
		if startDate == "" || endDate == "" {
			return settings, fmt.Errorf("custom date range requires both start-date and end-date")
		}

		settings.StartDate, err = time.Parse(models.DateLayout, startDate)
		if err != nil {
			return settings, fmt.Errorf("invalid start date format. Use YYYY-MM-DD: %w", err)
		}
		settings.EndDate, err = time.Parse(models.DateLayout, endDate)
		if err != nil {
			return settings, fmt.Errorf("invalid end date format. Use YYYY-MM-DD: %w", err)
		}
		if settings.StartDate.After(settings.EndDate) {
			return settings, fmt.Errorf("start date cannot be after end date")
		}
	}

	return settings, nil
}
