package transaction_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/pennywise/internal/transaction"
)

var fixedNow = time.Date(2024, 3, 10, 9, 30, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func TestService_Create(t *testing.T) {
	type args struct {
		params transaction.CreateParams
	}

	type testCase struct {
		name      string
		args      args
		setupMock func(m *transaction.MockRepository)
		wantDate  time.Time
		wantErr   error
	}

	tests := []testCase{
		{
			name: "Success",
			args: args{
				params: transaction.CreateParams{
					Type:        transaction.TypeExpense,
					Amount:      decimal.RequireFromString("10.50"),
					Category:    "Food",
					Description: "Lunch",
					Date:        time.Date(2023, 10, 27, 0, 0, 0, 0, time.UTC),
				},
			},
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().
					CreateTransaction(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, tx *transaction.Transaction) error {
						tx.ID = uuid.New()
						tx.CreatedAt = time.Now()
						return nil
					})
			},
			wantDate: time.Date(2023, 10, 27, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "DefaultsDateToNow",
			args: args{
				params: transaction.CreateParams{
					Type:     transaction.TypeIncome,
					Amount:   decimal.NewFromInt(100),
					Category: "Salary",
				},
			},
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().
					CreateTransaction(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, tx *transaction.Transaction) error {
						tx.ID = uuid.New()
						return nil
					})
			},
			wantDate: fixedNow,
		},
		{
			name: "InvalidAmountNeverReachesStore",
			args: args{
				params: transaction.CreateParams{
					Type:     transaction.TypeIncome,
					Amount:   decimal.Zero,
					Category: "Salary",
				},
			},
			wantErr: transaction.ErrInvalid,
		},
		{
			name: "RepoError",
			args: args{
				params: transaction.CreateParams{
					Type:     transaction.TypeExpense,
					Amount:   decimal.NewFromInt(5),
					Category: "Food",
				},
			},
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().
					CreateTransaction(gomock.Any(), gomock.Any()).
					Return(errors.New("db error"))
			},
			wantErr: errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := transaction.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			svc := transaction.NewService(repo, transaction.WithClock(clock))
			got, err := svc.Create(context.Background(), tt.args.params)

			if tt.wantErr != nil {
				assert.Error(t, err)
				assert.Nil(t, got)

				if errors.Is(tt.wantErr, transaction.ErrInvalid) {
					assert.ErrorIs(t, err, transaction.ErrInvalid)
				}

				return
			}

			require.NoError(t, err)
			assert.NotEqual(t, uuid.Nil, got.ID)
			assert.Equal(t, tt.wantDate, got.Date)
			assert.True(t, tt.args.params.Amount.Equal(got.Amount))
		})
	}
}

func TestService_List(t *testing.T) {
	income := transaction.TypeIncome

	type args struct {
		filter transaction.ListFilter
	}

	type testCase struct {
		name      string
		args      args
		setupMock func(m *transaction.MockRepository)
		wantLen   int
		wantErr   bool
	}

	tests := []testCase{
		{
			name: "Success",
			args: args{filter: transaction.ListFilter{}},
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().
					ListTransactions(gomock.Any(), transaction.ListFilter{}).
					Return([]*transaction.Transaction{
						{ID: uuid.New()},
						{ID: uuid.New()},
					}, nil)
			},
			wantLen: 2,
		},
		{
			name: "PassesFilterThrough",
			args: args{filter: transaction.ListFilter{Type: &income}},
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().
					ListTransactions(gomock.Any(), transaction.ListFilter{Type: &income}).
					Return([]*transaction.Transaction{}, nil)
			},
			wantLen: 0,
		},
		{
			name: "Error",
			args: args{filter: transaction.ListFilter{}},
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().
					ListTransactions(gomock.Any(), transaction.ListFilter{}).
					Return(nil, errors.New("list error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := transaction.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			svc := transaction.NewService(repo)
			got, err := svc.List(context.Background(), tt.args.filter)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			assert.NoError(t, err)
			assert.Len(t, got, tt.wantLen)
		})
	}
}

func TestService_Update_ReplacesFields(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	svc := transaction.NewService(repo)

	id := uuid.New()
	stored := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	existing := &transaction.Transaction{
		ID:          id,
		Type:        transaction.TypeExpense,
		Amount:      decimal.NewFromInt(40),
		Category:    "Food",
		Description: "Groceries",
		Date:        stored,
	}

	repo.EXPECT().GetTransaction(gomock.Any(), id).Return(existing, nil)
	repo.EXPECT().UpdateTransaction(gomock.Any(), gomock.Any()).Return(nil)

	got, err := svc.Update(context.Background(), id, transaction.CreateParams{
		Type:     transaction.TypeIncome,
		Amount:   decimal.NewFromInt(60),
		Category: "Gift",
	})
	require.NoError(t, err)

	assert.Equal(t, id, got.ID)
	assert.Equal(t, transaction.TypeIncome, got.Type)
	assert.True(t, decimal.NewFromInt(60).Equal(got.Amount))
	assert.Equal(t, "Gift", got.Category)
	assert.Empty(t, got.Description, "update replaces the whole record")
	assert.Equal(t, stored, got.Date, "zero date keeps the stored one")
}

func TestService_Update_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	svc := transaction.NewService(repo)

	id := uuid.New()
	repo.EXPECT().GetTransaction(gomock.Any(), id).Return(nil, transaction.ErrNotFound)

	_, err := svc.Update(context.Background(), id, transaction.CreateParams{
		Type:     transaction.TypeIncome,
		Amount:   decimal.NewFromInt(1),
		Category: "Gift",
	})
	assert.ErrorIs(t, err, transaction.ErrNotFound)
}

func TestService_Update_Invalid(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	svc := transaction.NewService(repo)

	_, err := svc.Update(context.Background(), uuid.New(), transaction.CreateParams{
		Type:     transaction.TypeIncome,
		Amount:   decimal.NewFromInt(1),
		Category: "   ",
	})
	assert.ErrorIs(t, err, transaction.ErrInvalid)
}

func TestService_Delete_PublishesEvent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	events := transaction.NewMockEventPublisher(ctrl)
	svc := transaction.NewService(repo, transaction.WithPublisher(events))

	id := uuid.New()
	repo.EXPECT().DeleteTransaction(gomock.Any(), id).Return(nil)
	events.EXPECT().
		Publish(gomock.Any(), transaction.EventDeleted, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ transaction.Event, tx *transaction.Transaction) error {
			assert.Equal(t, id, tx.ID)
			return nil
		})

	require.NoError(t, svc.Delete(context.Background(), id))
}

func TestService_Create_PublishFailureIsNotFatal(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	events := transaction.NewMockEventPublisher(ctrl)
	svc := transaction.NewService(repo, transaction.WithPublisher(events))

	repo.EXPECT().CreateTransaction(gomock.Any(), gomock.Any()).Return(nil)
	events.EXPECT().
		Publish(gomock.Any(), transaction.EventCreated, gomock.Any()).
		Return(errors.New("broker down"))

	got, err := svc.Create(context.Background(), transaction.CreateParams{
		Type:     transaction.TypeExpense,
		Amount:   decimal.NewFromInt(3),
		Category: "Coffee",
	})
	require.NoError(t, err)
	assert.NotNil(t, got)
}

func TestService_CreateBatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	svc := transaction.NewService(repo, transaction.WithClock(clock))

	params := []transaction.CreateParams{
		{Type: transaction.TypeExpense, Amount: decimal.NewFromInt(10), Category: "Food"},
		{Type: transaction.TypeIncome, Amount: decimal.NewFromInt(20), Category: "Gift", Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
	}

	repo.EXPECT().CreateTransactions(gomock.Any(), gomock.Len(2)).Return(nil)

	txs, err := svc.CreateBatch(context.Background(), params)
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.Equal(t, fixedNow, txs[0].Date)
	assert.Equal(t, "Gift", txs[1].Category)
}

func TestService_CreateBatch_RejectsWholeBatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	svc := transaction.NewService(repo)

	_, err := svc.CreateBatch(context.Background(), []transaction.CreateParams{
		{Type: transaction.TypeExpense, Amount: decimal.NewFromInt(10), Category: "Food"},
		{Type: transaction.TypeExpense, Amount: decimal.NewFromInt(-5), Category: "Food"},
	})
	assert.ErrorIs(t, err, transaction.ErrInvalid)
	assert.Contains(t, err.Error(), "entry 2")
}

func TestService_CreateBatch_Empty(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := transaction.NewService(transaction.NewMockRepository(ctrl))

	txs, err := svc.CreateBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, txs)
}

func TestService_Summary(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	svc := transaction.NewService(repo)

	repo.EXPECT().ListTransactions(gomock.Any(), transaction.ListFilter{}).Return([]*transaction.Transaction{
		{Type: transaction.TypeExpense, Amount: decimal.NewFromInt(40), Category: "Food"},
		{Type: transaction.TypeIncome, Amount: decimal.NewFromInt(60), Category: "Gift"},
	}, nil)

	sum, err := svc.Summary(context.Background(), transaction.ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, "60.00", transaction.FormatMoney(sum.TotalIncome))
	assert.Equal(t, "40.00", transaction.FormatMoney(sum.TotalExpense))
}
