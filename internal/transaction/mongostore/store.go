package mongostore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/MrJamesThe3rd/pennywise/internal/transaction"
)

const CollectionName = "transactions"

// Collection is the subset of *mongo.Collection the store relies on.
type Collection interface {
	InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error)
	InsertMany(ctx context.Context, documents []interface{}, opts ...*options.InsertManyOptions) (*mongo.InsertManyResult, error)
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) *mongo.SingleResult
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (*mongo.Cursor, error)
	ReplaceOne(ctx context.Context, filter interface{}, replacement interface{}, opts ...*options.ReplaceOptions) (*mongo.UpdateResult, error)
	DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (*mongo.DeleteResult, error)
	DeleteMany(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (*mongo.DeleteResult, error)
	Distinct(ctx context.Context, fieldName string, filter interface{}, opts ...*options.DistinctOptions) ([]interface{}, error)
}

type Store struct {
	coll Collection
	now  func() time.Time
}

func New(coll Collection) *Store {
	return &Store{coll: coll, now: time.Now}
}

// EnsureIndexes creates the indexes backing the list query.
func EnsureIndexes(ctx context.Context, coll *mongo.Collection) error {
	_, err := coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "date", Value: -1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "type", Value: 1}, {Key: "category", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("creating indexes: %w", err)
	}

	return nil
}

type document struct {
	ID          string               `bson:"_id"`
	Type        string               `bson:"type"`
	Amount      primitive.Decimal128 `bson:"amount"`
	Category    string               `bson:"category"`
	Description string               `bson:"description"`
	Date        time.Time            `bson:"date"`
	CreatedAt   time.Time            `bson:"createdAt"`
	UpdatedAt   *time.Time           `bson:"updatedAt,omitempty"`
}

func toDocument(tx *transaction.Transaction) (document, error) {
	amount, err := primitive.ParseDecimal128(tx.Amount.String())
	if err != nil {
		return document{}, fmt.Errorf("encoding amount %s: %w", tx.Amount, err)
	}

	return document{
		ID:          tx.ID.String(),
		Type:        string(tx.Type),
		Amount:      amount,
		Category:    tx.Category,
		Description: tx.Description,
		Date:        tx.Date,
		CreatedAt:   tx.CreatedAt,
		UpdatedAt:   tx.UpdatedAt,
	}, nil
}

func fromDocument(doc document) (*transaction.Transaction, error) {
	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, fmt.Errorf("decoding id %q: %w", doc.ID, err)
	}

	amount, err := decimal.NewFromString(doc.Amount.String())
	if err != nil {
		return nil, fmt.Errorf("decoding amount for %s: %w", doc.ID, err)
	}

	return &transaction.Transaction{
		ID:          id,
		Type:        transaction.Type(doc.Type),
		Amount:      amount,
		Category:    doc.Category,
		Description: doc.Description,
		Date:        doc.Date,
		CreatedAt:   doc.CreatedAt,
		UpdatedAt:   doc.UpdatedAt,
	}, nil
}

// buildFilter translates the list criteria into a query document. The date
// predicate is only added when both bounds are present.
func buildFilter(f transaction.ListFilter) bson.M {
	filter := bson.M{}

	if f.Type != nil {
		filter["type"] = string(*f.Type)
	}

	if f.Category != nil {
		filter["category"] = *f.Category
	}

	if start, end, ok := f.DateRange(); ok {
		filter["date"] = bson.M{"$gte": start, "$lte": end}
	}

	return filter
}

var newestFirst = bson.D{
	{Key: "date", Value: -1},
	{Key: "createdAt", Value: -1},
	{Key: "_id", Value: -1},
}

// stamp assigns store-owned fields. BSON dates carry millisecond precision.
func (s *Store) stamp(tx *transaction.Transaction) {
	tx.ID = uuid.New()
	tx.CreatedAt = s.now().UTC().Truncate(time.Millisecond)
	tx.Date = tx.Date.UTC().Truncate(time.Millisecond)
}

func (s *Store) CreateTransaction(ctx context.Context, tx *transaction.Transaction) error {
	s.stamp(tx)

	doc, err := toDocument(tx)
	if err != nil {
		return err
	}

	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("creating transaction: %w", err)
	}

	return nil
}

// CreateTransactions inserts the batch and removes whatever was written if
// the insert fails part way.
func (s *Store) CreateTransactions(ctx context.Context, txs []*transaction.Transaction) error {
	docs := make([]interface{}, len(txs))
	ids := make([]string, len(txs))

	for i, tx := range txs {
		s.stamp(tx)

		doc, err := toDocument(tx)
		if err != nil {
			return err
		}

		docs[i] = doc
		ids[i] = doc.ID
	}

	if _, err := s.coll.InsertMany(ctx, docs); err != nil {
		if _, delErr := s.coll.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}}); delErr != nil {
			return fmt.Errorf("creating transactions: %w (rollback failed: %v)", err, delErr)
		}

		return fmt.Errorf("creating transactions: %w", err)
	}

	return nil
}

func (s *Store) GetTransaction(ctx context.Context, id uuid.UUID) (*transaction.Transaction, error) {
	var doc document

	err := s.coll.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, transaction.ErrNotFound
		}

		return nil, fmt.Errorf("getting transaction: %w", err)
	}

	return fromDocument(doc)
}

func (s *Store) ListTransactions(ctx context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, error) {
	cur, err := s.coll.Find(ctx, buildFilter(filter), options.Find().SetSort(newestFirst))
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}

	var docs []document
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decoding transactions: %w", err)
	}

	txs := make([]*transaction.Transaction, 0, len(docs))

	for _, doc := range docs {
		tx, err := fromDocument(doc)
		if err != nil {
			return nil, err
		}

		txs = append(txs, tx)
	}

	return txs, nil
}

func (s *Store) UpdateTransaction(ctx context.Context, tx *transaction.Transaction) error {
	updatedAt := s.now().UTC().Truncate(time.Millisecond)
	tx.UpdatedAt = &updatedAt
	tx.Date = tx.Date.UTC().Truncate(time.Millisecond)

	doc, err := toDocument(tx)
	if err != nil {
		return err
	}

	res, err := s.coll.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc)
	if err != nil {
		return fmt.Errorf("updating transaction: %w", err)
	}

	if res.MatchedCount == 0 {
		return transaction.ErrNotFound
	}

	return nil
}

func (s *Store) DeleteTransaction(ctx context.Context, id uuid.UUID) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id.String()})
	if err != nil {
		return fmt.Errorf("deleting transaction: %w", err)
	}

	if res.DeletedCount == 0 {
		return transaction.ErrNotFound
	}

	return nil
}

// Categories returns the distinct categories in use, alphabetically.
func (s *Store) Categories(ctx context.Context) ([]string, error) {
	values, err := s.coll.Distinct(ctx, "category", bson.M{})
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}

	categories := make([]string, 0, len(values))

	for _, v := range values {
		if c, ok := v.(string); ok {
			categories = append(categories, c)
		}
	}

	sort.Strings(categories)

	return categories, nil
}
