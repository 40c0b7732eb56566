package categorize

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/MrJamesThe3rd/pennywise/internal/transaction"
)

//go:generate mockgen -source=service.go -destination=store_mock.go -package=categorize
type Store interface {
	ListTransactions(ctx context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, error)
	Categories(ctx context.Context) ([]string, error)
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Categories returns the distinct categories already in use.
func (s *Service) Categories(ctx context.Context) ([]string, error) {
	return s.store.Categories(ctx)
}

// Suggest returns the category learned from past transactions for the given
// description. Returns empty string if no match found.
func (s *Service) Suggest(ctx context.Context, description string) (string, error) {
	m, err := s.Matcher(ctx)
	if err != nil {
		return "", err
	}

	return m.Suggest(description), nil
}

// Matcher snapshots the stored descriptions so many lookups can be answered
// without going back to the store.
func (s *Service) Matcher(ctx context.Context) (*Matcher, error) {
	txs, err := s.store.ListTransactions(ctx, transaction.ListFilter{})
	if err != nil {
		return nil, fmt.Errorf("loading descriptions: %w", err)
	}

	return NewMatcher(txs), nil
}

type pattern struct {
	needle   string
	category string
}

type Matcher struct {
	patterns []pattern
}

// NewMatcher expects txs newest first, as every store lists them. Patterns
// are ordered by length, ties keep the newest.
func NewMatcher(txs []*transaction.Transaction) *Matcher {
	patterns := make([]pattern, 0, len(txs))

	for _, tx := range txs {
		needle := strings.ToLower(strings.TrimSpace(tx.Description))
		if needle == "" || strings.TrimSpace(tx.Category) == "" {
			continue
		}

		patterns = append(patterns, pattern{needle: needle, category: tx.Category})
	}

	sort.SliceStable(patterns, func(i, j int) bool {
		return len(patterns[i].needle) > len(patterns[j].needle)
	})

	return &Matcher{patterns: patterns}
}

func (m *Matcher) Suggest(description string) string {
	haystack := strings.ToLower(strings.TrimSpace(description))
	if haystack == "" {
		return ""
	}

	for _, p := range m.patterns {
		if strings.Contains(haystack, p.needle) {
			return p.category
		}
	}

	return ""
}
