// Package store defines the persistence contract consumed by the import
// and export pipelines, with an in-memory implementation for tests and
// single-process use and a PostgreSQL implementation for shared storage.
package store

import (
	"context"

	"golang-csv-exchange-service/internal/models"
)

// Store is the persistence collaborator contract. The import pipeline
// hands each successfully coerced transaction to Insert followed by
// Commit, one row at a time with no batching or rollback; the export
// pipeline reads through FetchAll only.
type Store interface {
	// Insert persists a single transaction. Implementations reject an
	// exact content duplicate with a duplicate_transaction error.
	Insert(ctx context.Context, tx *models.Transaction) error

	// FetchAll returns every stored transaction in insertion order.
	FetchAll(ctx context.Context) ([]*models.Transaction, error)

	// Commit makes prior inserts durable. Implementations with immediate
	// writes treat this as a no-op.
	Commit(ctx context.Context) error
}
