package categorize_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/pennywise/internal/categorize"
	"github.com/MrJamesThe3rd/pennywise/internal/transaction"
)

func described(description, category string) *transaction.Transaction {
	return &transaction.Transaction{Description: description, Category: category}
}

func TestMatcher_Suggest(t *testing.T) {
	// newest first, as the stores return them
	history := []*transaction.Transaction{
		described("Continente", "Groceries"),
		described("Uber Eats", "Takeaway"),
		described("Uber", "Transport"),
		described("continente", "Household"),
		described("", "Misc"),
		described("Pingo Doce", ""),
	}

	m := categorize.NewMatcher(history)

	tests := []struct {
		name        string
		description string
		want        string
	}{
		{name: "ExactCaseInsensitive", description: "UBER", want: "Transport"},
		{name: "LongestPatternWins", description: "COMPRA UBER EATS LISBOA", want: "Takeaway"},
		{name: "TieGoesToNewest", description: "compra continente matosinhos", want: "Groceries"},
		{name: "NoMatch", description: "Netflix", want: ""},
		{name: "BlankQuery", description: "   ", want: ""},
		{name: "UncategorizedHistoryIgnored", description: "Pingo Doce Porto", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, m.Suggest(tt.description))
		})
	}
}

func TestService_Suggest(t *testing.T) {
	type testCase struct {
		name      string
		setupMock func(m *categorize.MockStore)
		want      string
		wantErr   bool
	}

	tests := []testCase{
		{
			name: "Success",
			setupMock: func(m *categorize.MockStore) {
				m.EXPECT().
					ListTransactions(gomock.Any(), transaction.ListFilter{}).
					Return([]*transaction.Transaction{described("Rent", "Housing")}, nil)
			},
			want: "Housing",
		},
		{
			name: "StoreError",
			setupMock: func(m *categorize.MockStore) {
				m.EXPECT().
					ListTransactions(gomock.Any(), gomock.Any()).
					Return(nil, errors.New("db down"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			mockStore := categorize.NewMockStore(ctrl)
			tt.setupMock(mockStore)

			got, err := categorize.NewService(mockStore).Suggest(context.Background(), "March rent")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestService_Categories(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockStore := categorize.NewMockStore(ctrl)
	mockStore.EXPECT().Categories(gomock.Any()).Return([]string{"Food", "Rent"}, nil)

	got, err := categorize.NewService(mockStore).Categories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Food", "Rent"}, got)
}
