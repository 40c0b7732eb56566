// Package snapshot holds the dashboard's local, non-authoritative copy of the
// transaction list and keeps it reconciled with the API.
package snapshot

import (
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/pennywise/internal/transaction"
)

// Result tells the caller whether a local splice found its target.
type Result int

const (
	Applied Result = iota
	NotFound
)

func (r Result) String() string {
	if r == Applied {
		return "applied"
	}

	return "not found"
}

// Snapshot is safe for concurrent use. Version increases on every change.
type Snapshot struct {
	mu      sync.RWMutex
	items   []*transaction.Transaction
	version uint64
}

func New() *Snapshot {
	return &Snapshot{items: []*transaction.Transaction{}}
}

// Items returns the current transactions in snapshot order. The slice is a
// copy; the transactions are shared and must not be modified.
func (s *Snapshot) Items() []*transaction.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.items)
}

func (s *Snapshot) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.version
}

func (s *Snapshot) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.items)
}

// Set replaces the whole snapshot with an authoritative listing.
func (s *Snapshot) Set(txs []*transaction.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = slices.Clone(txs)
	if s.items == nil {
		s.items = []*transaction.Transaction{}
	}

	s.version++
}

// Prepend puts tx first without re-sorting.
func (s *Snapshot) Prepend(tx *transaction.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = append([]*transaction.Transaction{tx}, s.items...)
	s.version++
}

// Replace swaps the record with the same ID in place.
func (s *Snapshot) Replace(tx *transaction.Transaction) Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.items, func(t *transaction.Transaction) bool { return t.ID == tx.ID })
	if i < 0 {
		return NotFound
	}

	s.items = slices.Clone(s.items)
	s.items[i] = tx
	s.version++

	return Applied
}

// Remove drops the record with the given ID.
func (s *Snapshot) Remove(id uuid.UUID) Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.items, func(t *transaction.Transaction) bool { return t.ID == id })
	if i < 0 {
		return NotFound
	}

	s.items = slices.Delete(slices.Clone(s.items), i, i+1)
	s.version++

	return Applied
}
