package export

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/pennywise/internal/transaction"
)

type mockLister struct {
	listFunc func(ctx context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, error)
}

func (m *mockLister) List(ctx context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, error) {
	return m.listFunc(ctx, filter)
}

func sampleTransactions() []*transaction.Transaction {
	return []*transaction.Transaction{
		{
			Type:        transaction.TypeIncome,
			Amount:      decimal.NewFromInt(100),
			Category:    "Salary",
			Description: "March pay",
			Date:        time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC),
		},
		{
			Type:        transaction.TypeExpense,
			Amount:      decimal.RequireFromString("40.5"),
			Category:    "Food",
			Description: `Dinner, "La Piazza"`,
			Date:        time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		},
	}
}

func TestService_WriteCSV(t *testing.T) {
	var gotFilter transaction.ListFilter

	lister := &mockLister{
		listFunc: func(_ context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, error) {
			gotFilter = filter
			return sampleTransactions(), nil
		},
	}

	expense := transaction.TypeExpense

	var buf bytes.Buffer

	n, err := NewService(lister).WriteCSV(context.Background(), transaction.ListFilter{Type: &expense}, &buf)
	require.NoError(t, err)

	assert.Equal(t, 2, n)
	assert.Equal(t, &expense, gotFilter.Type)
	assert.Equal(t, "Date,Type,Amount,Category,Description\n"+
		"2024-03-02,income,100.00,Salary,March pay\n"+
		"2024-03-01,expense,40.50,Food,\"Dinner, \"\"La Piazza\"\"\"\n", buf.String())
}

func TestService_WriteCSV_ListError(t *testing.T) {
	lister := &mockLister{
		listFunc: func(context.Context, transaction.ListFilter) ([]*transaction.Transaction, error) {
			return nil, errors.New("db down")
		},
	}

	var buf bytes.Buffer

	_, err := NewService(lister).WriteCSV(context.Background(), transaction.ListFilter{}, &buf)
	assert.ErrorContains(t, err, "listing transactions")
	assert.Empty(t, buf.String())
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "pennywise_20240315.csv", Filename(time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)))
}

func TestStatement(t *testing.T) {
	txs := sampleTransactions()
	txs[0].Description = ""

	got := Statement(txs)

	assert.Equal(t, "* 2024-03-02 | Salary | +100.00 | -\n"+
		"* 2024-03-01 | Food | -40.50 | Dinner, \"La Piazza\"\n"+
		"Income 100.00 | Expense 40.50 | Balance 59.50\n", got)
}
