package snapshot

import (
	"strings"

	"github.com/MrJamesThe3rd/pennywise/internal/transaction"
)

// All is the wildcard value of the type and category criteria.
const All = "all"

// Criteria narrows a snapshot for display. Empty Type or Category behave as All.
type Criteria struct {
	Type     string
	Category string
	Search   string
}

func (c Criteria) IsZero() bool {
	return isAll(c.Type) && isAll(c.Category) && strings.TrimSpace(c.Search) == ""
}

func isAll(s string) bool {
	return s == "" || s == All
}

// Apply returns the transactions that satisfy every criterion, keeping their
// order. Search is a case-insensitive substring match against description
// or category.
func Apply(txs []*transaction.Transaction, c Criteria) []*transaction.Transaction {
	search := strings.ToLower(strings.TrimSpace(c.Search))
	out := make([]*transaction.Transaction, 0, len(txs))

	for _, tx := range txs {
		if !isAll(c.Type) && string(tx.Type) != c.Type {
			continue
		}

		if !isAll(c.Category) && tx.Category != c.Category {
			continue
		}

		if search != "" &&
			!strings.Contains(strings.ToLower(tx.Description), search) &&
			!strings.Contains(strings.ToLower(tx.Category), search) {
			continue
		}

		out = append(out, tx)
	}

	return out
}

// Categories returns All followed by the distinct categories of txs in
// first-seen order.
func Categories(txs []*transaction.Transaction) []string {
	seen := make(map[string]struct{}, len(txs))
	out := []string{All}

	for _, tx := range txs {
		if _, ok := seen[tx.Category]; ok {
			continue
		}

		seen[tx.Category] = struct{}{}
		out = append(out, tx.Category)
	}

	return out
}
