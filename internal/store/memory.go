package store

import (
	"context"
	"sync"

	"golang-csv-exchange-service/internal/models"
	"golang-csv-exchange-service/pkg/errors"
)

// MemoryStore is a mutex-guarded in-memory Store. Each pipeline invocation
// is expected to own its store; no cross-invocation locking discipline is
// provided beyond basic thread safety.
type MemoryStore struct {
	mu           sync.RWMutex
	transactions []*models.Transaction
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Insert adds a transaction, rejecting exact content duplicates
func (s *MemoryStore) Insert(ctx context.Context, tx *models.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.transactions {
		if existing.ContentEquals(tx) {
			return errors.StoreError(errors.CodeDuplicateTransaction, "insert", nil).
				WithContext("title", tx.Title).
				WithContext("date", tx.Date.Format(models.DateLayout))
		}
	}

	s.transactions = append(s.transactions, tx)
	return nil
}

// FetchAll returns all stored transactions in insertion order
func (s *MemoryStore) FetchAll(ctx context.Context) ([]*models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*models.Transaction, len(s.transactions))
	copy(result, s.transactions)
	return result, nil
}

// Commit is a no-op; inserts are immediately visible
func (s *MemoryStore) Commit(ctx context.Context) error {
	return nil
}

// Len returns the number of stored transactions
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.transactions)
}
