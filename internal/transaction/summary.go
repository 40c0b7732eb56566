package transaction

import (
	"cmp"
	"slices"

	"github.com/shopspring/decimal"
)

// Summary holds the derived totals over a set of transactions.
type Summary struct {
	TotalIncome  decimal.Decimal
	TotalExpense decimal.Decimal
	Count        int
	Categories   []CategoryTotal
}

// CategoryTotal aggregates the transactions of one type within one category.
type CategoryTotal struct {
	Category string
	Type     Type
	Total    decimal.Decimal
	Count    int
}

// Balance is income minus expense.
func (s Summary) Balance() decimal.Decimal {
	return s.TotalIncome.Sub(s.TotalExpense)
}

// Summarize computes income and expense totals. Transactions whose type is
// neither income nor expense are counted but fall into neither bucket.
func Summarize(txs []*Transaction) Summary {
	type key struct {
		category string
		typ      Type
	}

	sum := Summary{
		TotalIncome:  decimal.Zero,
		TotalExpense: decimal.Zero,
		Count:        len(txs),
	}
	byCategory := make(map[key]*CategoryTotal)

	for _, tx := range txs {
		switch tx.Type {
		case TypeIncome:
			sum.TotalIncome = sum.TotalIncome.Add(tx.Amount)
		case TypeExpense:
			sum.TotalExpense = sum.TotalExpense.Add(tx.Amount)
		default:
			continue
		}

		k := key{category: tx.Category, typ: tx.Type}

		ct, ok := byCategory[k]
		if !ok {
			ct = &CategoryTotal{Category: tx.Category, Type: tx.Type, Total: decimal.Zero}
			byCategory[k] = ct
		}

		ct.Total = ct.Total.Add(tx.Amount)
		ct.Count++
	}

	sum.Categories = make([]CategoryTotal, 0, len(byCategory))
	for _, ct := range byCategory {
		sum.Categories = append(sum.Categories, *ct)
	}

	slices.SortFunc(sum.Categories, func(a, b CategoryTotal) int {
		if c := b.Total.Cmp(a.Total); c != 0 {
			return c
		}

		if c := cmp.Compare(a.Category, b.Category); c != 0 {
			return c
		}

		return cmp.Compare(a.Type, b.Type)
	})

	return sum
}

// MoneyPlaces is the number of decimal places an amount may carry. It matches
// the scale of the amount column.
const MoneyPlaces = 2

// FormatMoney renders an amount with exactly two decimal places.
func FormatMoney(d decimal.Decimal) string {
	return d.StringFixed(MoneyPlaces)
}

// WholeCents reports whether d fits in MoneyPlaces decimal places. Trailing
// zeros beyond the scale are accepted.
func WholeCents(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(MoneyPlaces))
}

// SortNewestFirst orders txs by date descending. Ties fall back to creation
// time and then ID so the order is stable across calls.
func SortNewestFirst(txs []*Transaction) {
	slices.SortStableFunc(txs, func(a, b *Transaction) int {
		if c := b.Date.Compare(a.Date); c != 0 {
			return c
		}

		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}

		return cmp.Compare(b.ID.String(), a.ID.String())
	})
}
