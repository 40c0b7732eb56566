// Package memstore keeps transactions in process memory. It backs the API
// when no database is configured and serves as a fake in handler tests.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/pennywise/internal/transaction"
)

type Store struct {
	mu    sync.Mutex
	items map[uuid.UUID]transaction.Transaction
	now   func() time.Time
}

func New() *Store {
	return &Store{items: map[uuid.UUID]transaction.Transaction{}, now: time.Now}
}

func (s *Store) CreateTransaction(_ context.Context, tx *transaction.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.insert(tx)

	return nil
}

// CreateTransactions stores the whole batch under one lock so readers never
// observe a partial import.
func (s *Store) CreateTransactions(_ context.Context, txs []*transaction.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, tx := range txs {
		s.insert(tx)
	}

	return nil
}

func (s *Store) insert(tx *transaction.Transaction) {
	tx.ID = uuid.New()
	tx.CreatedAt = s.now()
	tx.UpdatedAt = nil
	s.items[tx.ID] = *tx
}

func (s *Store) GetTransaction(_ context.Context, id uuid.UUID) (*transaction.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, ok := s.items[id]
	if !ok {
		return nil, transaction.ErrNotFound
	}

	return &tx, nil
}

func (s *Store) ListTransactions(_ context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	txs := []*transaction.Transaction{}

	for _, tx := range s.items {
		if filter.Matches(&tx) {
			txs = append(txs, &tx)
		}
	}

	transaction.SortNewestFirst(txs)

	return txs, nil
}

func (s *Store) UpdateTransaction(_ context.Context, tx *transaction.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.items[tx.ID]
	if !ok {
		return transaction.ErrNotFound
	}

	updatedAt := s.now()
	tx.CreatedAt = stored.CreatedAt
	tx.UpdatedAt = &updatedAt
	s.items[tx.ID] = *tx

	return nil
}

func (s *Store) DeleteTransaction(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; !ok {
		return transaction.ErrNotFound
	}

	delete(s.items, id)

	return nil
}

// Categories returns the distinct categories in use, alphabetically.
func (s *Store) Categories(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := map[string]struct{}{}
	categories := []string{}

	for _, tx := range s.items {
		if _, ok := seen[tx.Category]; ok {
			continue
		}

		seen[tx.Category] = struct{}{}
		categories = append(categories, tx.Category)
	}

	sort.Strings(categories)

	return categories, nil
}
