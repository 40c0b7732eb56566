package transaction_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/pennywise/internal/transaction"
)

func tx(typ transaction.Type, amount, category string) *transaction.Transaction {
	return &transaction.Transaction{
		ID:       uuid.New(),
		Type:     typ,
		Amount:   decimal.RequireFromString(amount),
		Category: category,
	}
}

func TestSummarize_Totals(t *testing.T) {
	sum := transaction.Summarize([]*transaction.Transaction{
		tx(transaction.TypeExpense, "40", "Food"),
		tx(transaction.TypeIncome, "60", "Gift"),
	})

	assert.Equal(t, "60.00", transaction.FormatMoney(sum.TotalIncome))
	assert.Equal(t, "40.00", transaction.FormatMoney(sum.TotalExpense))
	assert.Equal(t, "20.00", transaction.FormatMoney(sum.Balance()))
	assert.Equal(t, 2, sum.Count)
}

func TestSummarize_Empty(t *testing.T) {
	sum := transaction.Summarize(nil)

	assert.Equal(t, "0.00", transaction.FormatMoney(sum.TotalIncome))
	assert.Equal(t, "0.00", transaction.FormatMoney(sum.TotalExpense))
	assert.Empty(t, sum.Categories)
}

func TestSummarize_UnknownTypeFallsIntoNeitherBucket(t *testing.T) {
	tests := []struct {
		name      string
		txs       []*transaction.Transaction
		wantEqual bool
	}{
		{
			name: "AllKnown",
			txs: []*transaction.Transaction{
				tx(transaction.TypeIncome, "10.25", "Salary"),
				tx(transaction.TypeExpense, "3.10", "Food"),
				tx(transaction.TypeExpense, "0.01", "Food"),
			},
			wantEqual: true,
		},
		{
			name: "OneUnknown",
			txs: []*transaction.Transaction{
				tx(transaction.TypeIncome, "10.25", "Salary"),
				tx(transaction.Type("transfer"), "7", "Savings"),
				tx(transaction.TypeExpense, "3.10", "Food"),
			},
			wantEqual: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			all := decimal.Zero
			for _, tx := range tt.txs {
				all = all.Add(tx.Amount)
			}

			sum := transaction.Summarize(tt.txs)
			buckets := sum.TotalIncome.Add(sum.TotalExpense)

			assert.True(t, buckets.LessThanOrEqual(all))
			assert.Equal(t, tt.wantEqual, buckets.Equal(all))
		})
	}
}

func TestSummarize_OrderIndependent(t *testing.T) {
	a := tx(transaction.TypeIncome, "1.10", "Salary")
	b := tx(transaction.TypeExpense, "2.20", "Food")
	c := tx(transaction.TypeExpense, "3.30", "Rent")

	first := transaction.Summarize([]*transaction.Transaction{a, b, c})
	second := transaction.Summarize([]*transaction.Transaction{c, a, b})

	assert.True(t, first.TotalIncome.Equal(second.TotalIncome))
	assert.True(t, first.TotalExpense.Equal(second.TotalExpense))
	assert.Equal(t, first.Categories, second.Categories)
}

func TestSummarize_Categories(t *testing.T) {
	sum := transaction.Summarize([]*transaction.Transaction{
		tx(transaction.TypeExpense, "5", "Food"),
		tx(transaction.TypeExpense, "15", "Food"),
		tx(transaction.TypeExpense, "30", "Rent"),
		tx(transaction.TypeIncome, "20", "Food"),
	})

	require.Len(t, sum.Categories, 3)
	assert.Equal(t, "Rent", sum.Categories[0].Category)
	assert.Equal(t, "30.00", transaction.FormatMoney(sum.Categories[0].Total))

	// Equal totals fall back to category then type.
	assert.Equal(t, "Food", sum.Categories[1].Category)
	assert.Equal(t, transaction.TypeExpense, sum.Categories[1].Type)
	assert.Equal(t, 2, sum.Categories[1].Count)
	assert.Equal(t, transaction.TypeIncome, sum.Categories[2].Type)
}

func TestSortNewestFirst(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC) }

	old := &transaction.Transaction{ID: uuid.New(), Date: day(1)}
	mid := &transaction.Transaction{ID: uuid.New(), Date: day(5)}
	recent := &transaction.Transaction{ID: uuid.New(), Date: day(9)}

	txs := []*transaction.Transaction{mid, old, recent}
	transaction.SortNewestFirst(txs)

	assert.Equal(t, []*transaction.Transaction{recent, mid, old}, txs)
}

func TestSortNewestFirst_Ties(t *testing.T) {
	day := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)

	first := &transaction.Transaction{ID: uuid.New(), Date: day, CreatedAt: day.Add(time.Hour)}
	second := &transaction.Transaction{ID: uuid.New(), Date: day, CreatedAt: day.Add(2 * time.Hour)}

	txs := []*transaction.Transaction{first, second}
	transaction.SortNewestFirst(txs)

	assert.Equal(t, []*transaction.Transaction{second, first}, txs)
}

func TestWholeCents(t *testing.T) {
	tests := []struct {
		amount string
		want   bool
	}{
		{amount: "12", want: true},
		{amount: "12.5", want: true},
		{amount: "12.50", want: true},
		{amount: "12.500", want: true},
		{amount: "0.01", want: true},
		{amount: "0.001", want: false},
		{amount: "12.345", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			assert.Equal(t, tt.want, transaction.WholeCents(decimal.RequireFromString(tt.amount)))
		})
	}
}
