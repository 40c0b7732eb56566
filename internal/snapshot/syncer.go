package snapshot

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/pennywise/internal/transaction"
)

// ErrRefresh marks a mutation that was stored but whose follow-up listing
// failed. The snapshot then holds the local splice only.
var ErrRefresh = errors.New("refresh after mutation failed")

//go:generate mockgen -source=syncer.go -destination=api_mock.go -package=snapshot
type API interface {
	List(ctx context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, error)
	Create(ctx context.Context, params transaction.CreateParams) (*transaction.Transaction, error)
	Update(ctx context.Context, id uuid.UUID, params transaction.CreateParams) (*transaction.Transaction, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Syncer applies mutations through the API and reconciles the snapshot.
// API failures are returned unchanged and leave the snapshot untouched.
type Syncer struct {
	api  API
	snap *Snapshot

	mu     sync.Mutex
	filter transaction.ListFilter
}

func NewSyncer(api API, snap *Snapshot) *Syncer {
	return &Syncer{api: api, snap: snap}
}

func (s *Syncer) Snapshot() *Snapshot {
	return s.snap
}

// Filter returns the server-side filter of the last refresh.
func (s *Syncer) Filter() transaction.ListFilter {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.filter
}

// Refresh replaces the snapshot with the authoritative listing for filter.
func (s *Syncer) Refresh(ctx context.Context, filter transaction.ListFilter) error {
	txs, err := s.api.List(ctx, filter)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.filter = filter
	s.mu.Unlock()

	s.snap.Set(txs)

	return nil
}

func (s *Syncer) reconcile(ctx context.Context) error {
	if err := s.Refresh(ctx, s.Filter()); err != nil {
		return fmt.Errorf("%w: %w", ErrRefresh, err)
	}

	return nil
}

// Create stores a new transaction, puts it first locally and then refreshes.
func (s *Syncer) Create(ctx context.Context, params transaction.CreateParams) (*transaction.Transaction, error) {
	tx, err := s.api.Create(ctx, params)
	if err != nil {
		return nil, err
	}

	s.snap.Prepend(tx)

	return tx, s.reconcile(ctx)
}

// Update replaces a transaction, splices the stored version in place and
// then refreshes. The Result reports whether the local splice found it.
func (s *Syncer) Update(ctx context.Context, id uuid.UUID, params transaction.CreateParams) (*transaction.Transaction, Result, error) {
	tx, err := s.api.Update(ctx, id, params)
	if err != nil {
		return nil, NotFound, err
	}

	res := s.snap.Replace(tx)

	return tx, res, s.reconcile(ctx)
}

// Delete removes a transaction and drops it locally. It does not refresh.
func (s *Syncer) Delete(ctx context.Context, id uuid.UUID) (Result, error) {
	if err := s.api.Delete(ctx, id); err != nil {
		return NotFound, err
	}

	return s.snap.Remove(id), nil
}
