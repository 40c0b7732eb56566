package draft

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/pennywise/internal/transaction"
)

func TestDraft_Validate(t *testing.T) {
	valid := Draft{Type: ChoiceExpense, Amount: "12.50", Category: "Food", Description: "Lunch"}

	type args struct {
		mutate func(d *Draft)
	}

	type testCase struct {
		name    string
		args    args
		wantErr error
	}

	tests := []testCase{
		{
			name: "valid",
			args: args{mutate: func(*Draft) {}},
		},
		{
			name: "smallest positive amount",
			args: args{mutate: func(d *Draft) { d.Amount = "0.01" }},
		},
		{
			name:    "zero amount",
			args:    args{mutate: func(d *Draft) { d.Amount = "0" }},
			wantErr: ErrInvalidAmount,
		},
		{
			name:    "negative amount",
			args:    args{mutate: func(d *Draft) { d.Amount = "-5" }},
			wantErr: ErrInvalidAmount,
		},
		{
			name:    "empty amount",
			args:    args{mutate: func(d *Draft) { d.Amount = "" }},
			wantErr: ErrInvalidAmount,
		},
		{
			name:    "unparseable amount",
			args:    args{mutate: func(d *Draft) { d.Amount = "12,50" }},
			wantErr: ErrInvalidAmount,
		},
		{
			name: "trailing zeros",
			args: args{mutate: func(d *Draft) { d.Amount = "12.500" }},
		},
		{
			name:    "sub-cent amount",
			args:    args{mutate: func(d *Draft) { d.Amount = "0.001" }},
			wantErr: ErrInvalidAmount,
		},
		{
			name:    "three decimal places",
			args:    args{mutate: func(d *Draft) { d.Amount = "12.345" }},
			wantErr: ErrInvalidAmount,
		},
		{
			name:    "empty category",
			args:    args{mutate: func(d *Draft) { d.Category = "" }},
			wantErr: ErrMissingCategory,
		},
		{
			name:    "whitespace category",
			args:    args{mutate: func(d *Draft) { d.Category = "   " }},
			wantErr: ErrMissingCategory,
		},
		{
			name:    "no type selected",
			args:    args{mutate: func(d *Draft) { d.Type = ChoiceNone }},
			wantErr: ErrMissingType,
		},
		{
			name: "amount is checked before category and type",
			args: args{mutate: func(d *Draft) {
				d.Amount = "0"
				d.Category = ""
				d.Type = ChoiceNone
			}},
			wantErr: ErrInvalidAmount,
		},
		{
			name: "category is checked before type",
			args: args{mutate: func(d *Draft) {
				d.Category = " "
				d.Type = ChoiceNone
			}},
			wantErr: ErrMissingCategory,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := valid
			tt.args.mutate(&d)

			params, err := d.Validate()
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			require.NoError(t, params.Validate())
		})
	}
}

func TestDraft_ValidateTrims(t *testing.T) {
	params, err := Draft{Type: ChoiceIncome, Amount: " 100 ", Category: " Salary ", Description: " March "}.Validate()
	require.NoError(t, err)

	assert.Equal(t, transaction.TypeIncome, params.Type)
	assert.True(t, params.Amount.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, "Salary", params.Category)
	assert.Equal(t, "March", params.Description)
	assert.True(t, params.Date.IsZero())
}

func TestFromTransaction(t *testing.T) {
	tx := &transaction.Transaction{
		Type:        transaction.TypeExpense,
		Amount:      decimal.RequireFromString("7.5"),
		Category:    "Transport",
		Description: "Uber",
		Date:        time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC),
	}

	assert.Equal(t, Draft{Type: ChoiceExpense, Amount: "7.50", Category: "Transport", Description: "Uber"}, FromTransaction(tx))
}

func TestFromTransaction_ResavesSameAmount(t *testing.T) {
	for _, amount := range []string{"0.01", "7.5", "12.34", "1000"} {
		t.Run(amount, func(t *testing.T) {
			tx := &transaction.Transaction{
				Type:     transaction.TypeIncome,
				Amount:   decimal.RequireFromString(amount),
				Category: "Salary",
			}
			require.NoError(t, transaction.CreateParams{Type: tx.Type, Amount: tx.Amount, Category: tx.Category}.Validate())

			params, err := FromTransaction(tx).Validate()
			require.NoError(t, err)
			assert.True(t, params.Amount.Equal(tx.Amount))
		})
	}
}

func TestProblem_Error(t *testing.T) {
	var err error = ErrMissingCategory

	assert.Equal(t, "Please enter a category", err.Error())
}
