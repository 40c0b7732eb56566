package mongostore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/MrJamesThe3rd/pennywise/internal/transaction"
)

// mockCollection records calls and serves canned results.
type mockCollection struct {
	insertOneFunc  func(ctx context.Context, document interface{}) (*mongo.InsertOneResult, error)
	insertManyFunc func(ctx context.Context, documents []interface{}) (*mongo.InsertManyResult, error)
	findOneFunc    func(ctx context.Context, filter interface{}) *mongo.SingleResult
	findFunc       func(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (*mongo.Cursor, error)
	replaceOneFunc func(ctx context.Context, filter, replacement interface{}) (*mongo.UpdateResult, error)
	deleteOneFunc  func(ctx context.Context, filter interface{}) (*mongo.DeleteResult, error)
	deleteManyFunc func(ctx context.Context, filter interface{}) (*mongo.DeleteResult, error)
	distinctFunc   func(ctx context.Context, field string, filter interface{}) ([]interface{}, error)
}

func (m *mockCollection) InsertOne(ctx context.Context, document interface{}, _ ...*options.InsertOneOptions) (*mongo.InsertOneResult, error) {
	return m.insertOneFunc(ctx, document)
}

func (m *mockCollection) InsertMany(ctx context.Context, documents []interface{}, _ ...*options.InsertManyOptions) (*mongo.InsertManyResult, error) {
	return m.insertManyFunc(ctx, documents)
}

func (m *mockCollection) FindOne(ctx context.Context, filter interface{}, _ ...*options.FindOneOptions) *mongo.SingleResult {
	return m.findOneFunc(ctx, filter)
}

func (m *mockCollection) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (*mongo.Cursor, error) {
	return m.findFunc(ctx, filter, opts...)
}

func (m *mockCollection) ReplaceOne(ctx context.Context, filter interface{}, replacement interface{}, _ ...*options.ReplaceOptions) (*mongo.UpdateResult, error) {
	return m.replaceOneFunc(ctx, filter, replacement)
}

func (m *mockCollection) DeleteOne(ctx context.Context, filter interface{}, _ ...*options.DeleteOptions) (*mongo.DeleteResult, error) {
	return m.deleteOneFunc(ctx, filter)
}

func (m *mockCollection) DeleteMany(ctx context.Context, filter interface{}, _ ...*options.DeleteOptions) (*mongo.DeleteResult, error) {
	return m.deleteManyFunc(ctx, filter)
}

func (m *mockCollection) Distinct(ctx context.Context, field string, filter interface{}, _ ...*options.DistinctOptions) ([]interface{}, error) {
	return m.distinctFunc(ctx, field, filter)
}

func TestBuildFilter(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	income := transaction.TypeIncome
	salary := "Salary"

	tests := []struct {
		name   string
		filter transaction.ListFilter
		want   bson.M
	}{
		{name: "Empty", filter: transaction.ListFilter{}, want: bson.M{}},
		{
			name:   "AllCriteria",
			filter: transaction.ListFilter{Type: &income, Category: &salary, StartDate: &start, EndDate: &end},
			want: bson.M{
				"type":     "income",
				"category": "Salary",
				"date":     bson.M{"$gte": start, "$lte": end},
			},
		},
		{
			name:   "HalfRangeIgnored",
			filter: transaction.ListFilter{Category: &salary, EndDate: &end},
			want:   bson.M{"category": "Salary"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, buildFilter(tt.filter))
		})
	}
}

func TestDocumentRoundTrip(t *testing.T) {
	tx := &transaction.Transaction{
		ID:          uuid.New(),
		Type:        transaction.TypeExpense,
		Amount:      decimal.RequireFromString("12.34"),
		Category:    "Food",
		Description: "Dinner",
		Date:        time.Date(2024, 2, 1, 19, 0, 0, 0, time.UTC),
		CreatedAt:   time.Date(2024, 2, 1, 19, 5, 0, 0, time.UTC),
	}

	doc, err := toDocument(tx)
	require.NoError(t, err)

	got, err := fromDocument(doc)
	require.NoError(t, err)

	assert.Equal(t, tx.ID, got.ID)
	assert.True(t, tx.Amount.Equal(got.Amount))
	assert.Equal(t, tx.Category, got.Category)
	assert.Equal(t, tx.Date, got.Date)
}

func TestStore_CreateTransaction(t *testing.T) {
	var inserted document

	coll := &mockCollection{
		insertOneFunc: func(_ context.Context, d interface{}) (*mongo.InsertOneResult, error) {
			inserted = d.(document)
			return &mongo.InsertOneResult{InsertedID: inserted.ID}, nil
		},
	}

	s := New(coll)
	s.now = func() time.Time { return time.Date(2024, 5, 1, 8, 0, 0, 123456789, time.UTC) }

	tx := &transaction.Transaction{
		Type:     transaction.TypeIncome,
		Amount:   decimal.NewFromInt(100),
		Category: "Salary",
		Date:     time.Date(2024, 5, 1, 7, 0, 0, 0, time.UTC),
	}

	require.NoError(t, s.CreateTransaction(context.Background(), tx))

	assert.NotEqual(t, uuid.Nil, tx.ID)
	assert.Equal(t, tx.ID.String(), inserted.ID)
	assert.Equal(t, "income", inserted.Type)
	assert.Equal(t, "100", inserted.Amount.String())
	assert.Equal(t, time.Date(2024, 5, 1, 8, 0, 0, 123000000, time.UTC), tx.CreatedAt)
}

func TestStore_CreateTransactions_RollsBackOnFailure(t *testing.T) {
	var deleted interface{}

	coll := &mockCollection{
		insertManyFunc: func(context.Context, []interface{}) (*mongo.InsertManyResult, error) {
			return nil, errors.New("duplicate key")
		},
		deleteManyFunc: func(_ context.Context, filter interface{}) (*mongo.DeleteResult, error) {
			deleted = filter
			return &mongo.DeleteResult{DeletedCount: 1}, nil
		},
	}

	txs := []*transaction.Transaction{
		{Type: transaction.TypeExpense, Amount: decimal.NewFromInt(1), Category: "A"},
		{Type: transaction.TypeExpense, Amount: decimal.NewFromInt(2), Category: "B"},
	}

	err := New(coll).CreateTransactions(context.Background(), txs)
	require.Error(t, err)

	assert.Equal(t, bson.M{"_id": bson.M{"$in": []string{txs[0].ID.String(), txs[1].ID.String()}}}, deleted)
}

func TestStore_ListTransactions(t *testing.T) {
	newer := document{
		ID: uuid.NewString(), Type: "income", Category: "Salary",
		Date: time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC),
	}
	older := document{
		ID: uuid.NewString(), Type: "expense", Category: "Food",
		Date: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	}

	var err error
	newer.Amount, err = primitive.ParseDecimal128("100")
	require.NoError(t, err)
	older.Amount, err = primitive.ParseDecimal128("40.5")
	require.NoError(t, err)

	var gotFilter interface{}

	var gotSort interface{}

	coll := &mockCollection{
		findFunc: func(_ context.Context, filter interface{}, opts ...*options.FindOptions) (*mongo.Cursor, error) {
			gotFilter = filter
			gotSort = opts[0].Sort

			return mongo.NewCursorFromDocuments([]interface{}{newer, older}, nil, nil)
		},
	}

	income := transaction.TypeIncome

	txs, err := New(coll).ListTransactions(context.Background(), transaction.ListFilter{Type: &income})
	require.NoError(t, err)
	require.Len(t, txs, 2)

	assert.Equal(t, bson.M{"type": "income"}, gotFilter)
	assert.Equal(t, newestFirst, gotSort)
	assert.Equal(t, "100", txs[0].Amount.String())
	assert.Equal(t, "40.5", txs[1].Amount.String())
	assert.Equal(t, newer.Date, txs[0].Date)
}

func TestStore_GetTransaction_NotFound(t *testing.T) {
	coll := &mockCollection{
		findOneFunc: func(context.Context, interface{}) *mongo.SingleResult {
			return mongo.NewSingleResultFromDocument(document{}, mongo.ErrNoDocuments, nil)
		},
	}

	_, err := New(coll).GetTransaction(context.Background(), uuid.New())
	assert.ErrorIs(t, err, transaction.ErrNotFound)
}

func TestStore_UpdateTransaction_NotFound(t *testing.T) {
	coll := &mockCollection{
		replaceOneFunc: func(context.Context, interface{}, interface{}) (*mongo.UpdateResult, error) {
			return &mongo.UpdateResult{MatchedCount: 0}, nil
		},
	}

	err := New(coll).UpdateTransaction(context.Background(), &transaction.Transaction{
		ID:     uuid.New(),
		Amount: decimal.NewFromInt(1),
	})
	assert.ErrorIs(t, err, transaction.ErrNotFound)
}

func TestStore_DeleteTransaction(t *testing.T) {
	tests := []struct {
		name    string
		deleted int64
		wantErr error
	}{
		{name: "Deleted", deleted: 1},
		{name: "Missing", deleted: 0, wantErr: transaction.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := uuid.New()

			coll := &mockCollection{
				deleteOneFunc: func(_ context.Context, filter interface{}) (*mongo.DeleteResult, error) {
					assert.Equal(t, bson.M{"_id": id.String()}, filter)
					return &mongo.DeleteResult{DeletedCount: tt.deleted}, nil
				},
			}

			err := New(coll).DeleteTransaction(context.Background(), id)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestStore_Categories(t *testing.T) {
	coll := &mockCollection{
		distinctFunc: func(_ context.Context, field string, _ interface{}) ([]interface{}, error) {
			assert.Equal(t, "category", field)
			return []interface{}{"Rent", "Food", "Salary"}, nil
		},
	}

	got, err := New(coll).Categories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Food", "Rent", "Salary"}, got)
}
