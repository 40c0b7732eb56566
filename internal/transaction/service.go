package transaction

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=transaction
type Repository interface {
	CreateTransaction(ctx context.Context, tx *Transaction) error
	CreateTransactions(ctx context.Context, txs []*Transaction) error
	GetTransaction(ctx context.Context, id uuid.UUID) (*Transaction, error)
	ListTransactions(ctx context.Context, filter ListFilter) ([]*Transaction, error)
	UpdateTransaction(ctx context.Context, tx *Transaction) error
	DeleteTransaction(ctx context.Context, id uuid.UUID) error
}

// Event names a committed change to a transaction.
type Event string

const (
	EventCreated Event = "created"
	EventUpdated Event = "updated"
	EventDeleted Event = "deleted"
)

// EventPublisher is notified after a mutation has been stored.
type EventPublisher interface {
	Publish(ctx context.Context, event Event, tx *Transaction) error
}

type Service struct {
	repo   Repository
	events EventPublisher
	now    func() time.Time
}

type Option func(*Service)

// WithPublisher makes the service announce every committed mutation.
func WithPublisher(p EventPublisher) Option {
	return func(s *Service) {
		s.events = p
	}
}

// WithClock overrides the clock used to stamp transactions without a date.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func NewService(repo Repository, opts ...Option) *Service {
	s := &Service{repo: repo, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Transaction, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	tx := s.newTransaction(params)
	if err := s.repo.CreateTransaction(ctx, tx); err != nil {
		return nil, err
	}

	s.publish(ctx, EventCreated, tx)

	return tx, nil
}

// CreateBatch validates every entry before storing any of them; the
// repository stores the batch atomically.
func (s *Service) CreateBatch(ctx context.Context, params []CreateParams) ([]*Transaction, error) {
	if len(params) == 0 {
		return nil, nil
	}

	txs := make([]*Transaction, len(params))

	for i, p := range params {
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("entry %d: %w", i+1, err)
		}

		txs[i] = s.newTransaction(p)
	}

	if err := s.repo.CreateTransactions(ctx, txs); err != nil {
		return nil, fmt.Errorf("create transactions: %w", err)
	}

	for _, tx := range txs {
		s.publish(ctx, EventCreated, tx)
	}

	return txs, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Transaction, error) {
	return s.repo.GetTransaction(ctx, id)
}

// List returns the transactions matching filter, newest first.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Transaction, error) {
	return s.repo.ListTransactions(ctx, filter)
}

// Summary aggregates the transactions matching filter.
func (s *Service) Summary(ctx context.Context, filter ListFilter) (Summary, error) {
	txs, err := s.repo.ListTransactions(ctx, filter)
	if err != nil {
		return Summary{}, err
	}

	return Summarize(txs), nil
}

// Update replaces every caller-owned field of the transaction identified by id.
// A zero Date keeps the stored date.
func (s *Service) Update(ctx context.Context, id uuid.UUID, params CreateParams) (*Transaction, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	tx, err := s.repo.GetTransaction(ctx, id)
	if err != nil {
		return nil, err
	}

	tx.Type = params.Type
	tx.Amount = params.Amount
	tx.Category = params.Category
	tx.Description = params.Description

	if !params.Date.IsZero() {
		tx.Date = params.Date
	}

	if err := s.repo.UpdateTransaction(ctx, tx); err != nil {
		return nil, err
	}

	s.publish(ctx, EventUpdated, tx)

	return tx, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteTransaction(ctx, id); err != nil {
		return err
	}

	s.publish(ctx, EventDeleted, &Transaction{ID: id})

	return nil
}

func (s *Service) newTransaction(p CreateParams) *Transaction {
	date := p.Date
	if date.IsZero() {
		date = s.now()
	}

	return &Transaction{
		Type:        p.Type,
		Amount:      p.Amount,
		Category:    p.Category,
		Description: p.Description,
		Date:        date,
	}
}

// publish never fails the caller: the mutation is already stored.
func (s *Service) publish(ctx context.Context, event Event, tx *Transaction) {
	if s.events == nil {
		return
	}

	if err := s.events.Publish(ctx, event, tx); err != nil {
		slog.WarnContext(ctx, "failed to publish transaction event", "event", event, "id", tx.ID, "error", err)
	}
}
