package store

import (
	"context"

	"golang-csv-exchange-service/internal/models"
	"golang-csv-exchange-service/pkg/errors"
	"golang-csv-exchange-service/pkg/logger"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const createTransactionsTable = `
CREATE TABLE IF NOT EXISTS transactions (
	seq      BIGSERIAL PRIMARY KEY,
	id       UUID NOT NULL,
	title    TEXT NOT NULL,
	amount   NUMERIC(20, 4) NOT NULL,
	date     DATE NOT NULL,
	kind     TEXT NOT NULL,
	notes    TEXT,
	category TEXT,
	account  TEXT,
	UNIQUE (date, title, amount, kind)
)`

const pgUniqueViolation = "23505"

// PostgresStore is a pgx-backed Store. Inserts are immediate; Commit is a
// no-op, matching the one-row-at-a-time contract of the import pipeline.
type PostgresStore struct {
	pool   *pgxpool.Pool
	logger logger.Logger
}

// NewPostgresStore connects to the given database and ensures the
// transactions table exists
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, errors.StoreError(errors.CodeUnexpectedError, "connect", err).
			WithSuggestion("check the database URL and that the server is reachable")
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, errors.StoreError(errors.CodeUnexpectedError, "ping", err).
			WithSuggestion("check the database URL and that the server is reachable")
	}

	s := &PostgresStore{
		pool:   pool,
		logger: logger.GetGlobalLogger().WithComponent("postgres_store"),
	}

	if _, err := pool.Exec(ctx, createTransactionsTable); err != nil {
		pool.Close()
		return nil, errors.StoreError(errors.CodeUnexpectedError, "ensure schema", err)
	}

	s.logger.Debug("Connected to postgres store")
	return s, nil
}

// Insert persists a single transaction, mapping a unique violation to a
// duplicate_transaction error
func (s *PostgresStore) Insert(ctx context.Context, tx *models.Transaction) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO transactions (id, title, amount, date, kind, notes, category, account)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		tx.ID, tx.Title, tx.Amount.String(), tx.Date, tx.Kind.String(),
		tx.Notes, referenceName(tx.Category), referenceName(tx.Account))
	if err != nil {
		if pgErr, ok := err.(*pgconn.PgError); ok && pgErr.Code == pgUniqueViolation {
			return errors.StoreError(errors.CodeDuplicateTransaction, "insert", err).
				WithContext("title", tx.Title).
				WithContext("date", tx.Date.Format(models.DateLayout))
		}
		return errors.StoreError(errors.CodeUnexpectedError, "insert", err)
	}
	return nil
}

// FetchAll returns every stored transaction in insertion order
func (s *PostgresStore) FetchAll(ctx context.Context) ([]*models.Transaction, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, title, amount::text, date, kind, notes, category, account
		 FROM transactions ORDER BY seq`)
	if err != nil {
		return nil, errors.StoreError(errors.CodeUnexpectedError, "fetch", err)
	}
	defer rows.Close()

	var transactions []*models.Transaction
	for rows.Next() {
		tx := &models.Transaction{}
		var amountStr, kindStr string
		var category, account *string

		if err := rows.Scan(&tx.ID, &tx.Title, &amountStr, &tx.Date, &kindStr,
			&tx.Notes, &category, &account); err != nil {
			return nil, errors.StoreError(errors.CodeDecodingFailed, "fetch", err)
		}

		tx.Amount, err = decimal.NewFromString(amountStr)
		if err != nil {
			return nil, errors.StoreError(errors.CodeDecodingFailed, "fetch", err).
				WithContext("amount", amountStr)
		}

		tx.Kind, err = models.ParseTransactionKind(kindStr)
		if err != nil {
			return nil, errors.StoreError(errors.CodeDecodingFailed, "fetch", err).
				WithContext("kind", kindStr)
		}

		if category != nil {
			tx.Category = &models.Reference{Name: *category}
		}
		if account != nil {
			tx.Account = &models.Reference{Name: *account}
		}

		transactions = append(transactions, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.StoreError(errors.CodeUnexpectedError, "fetch", err)
	}

	return transactions, nil
}

// Commit is a no-op; inserts are executed immediately
func (s *PostgresStore) Commit(ctx context.Context) error {
	return nil
}

// Close releases the connection pool
func (s *PostgresStore) Close() {
	s.pool.Close()
}

func referenceName(ref *models.Reference) *string {
	if ref == nil {
		return nil
	}
	return &ref.Name
}

var _ Store = (*PostgresStore)(nil)
var _ Store = (*MemoryStore)(nil)
