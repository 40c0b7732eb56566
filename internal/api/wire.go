// Package api defines the JSON wire format shared by the HTTP handlers and
// the HTTP client.
package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/pennywise/internal/transaction"
)

const BasePath = "/api/v1"

// DeletedMessage is the body acknowledging a delete.
const DeletedMessage = "Transaction deleted"

type Transaction struct {
	ID          uuid.UUID        `json:"id"`
	Type        transaction.Type `json:"type"`
	Amount      decimal.Decimal  `json:"amount"`
	Category    string           `json:"category"`
	Description string           `json:"description"`
	Date        time.Time        `json:"date"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   *time.Time       `json:"updatedAt,omitempty"`
}

func FromTransaction(tx *transaction.Transaction) Transaction {
	return Transaction{
		ID:          tx.ID,
		Type:        tx.Type,
		Amount:      tx.Amount,
		Category:    tx.Category,
		Description: tx.Description,
		Date:        tx.Date,
		CreatedAt:   tx.CreatedAt,
		UpdatedAt:   tx.UpdatedAt,
	}
}

func FromTransactions(txs []*transaction.Transaction) []Transaction {
	resp := make([]Transaction, len(txs))
	for i, tx := range txs {
		resp[i] = FromTransaction(tx)
	}

	return resp
}

func (t Transaction) ToTransaction() *transaction.Transaction {
	return &transaction.Transaction{
		ID:          t.ID,
		Type:        t.Type,
		Amount:      t.Amount,
		Category:    t.Category,
		Description: t.Description,
		Date:        t.Date,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func ToTransactions(in []Transaction) []*transaction.Transaction {
	txs := make([]*transaction.Transaction, len(in))
	for i, t := range in {
		txs[i] = t.ToTransaction()
	}

	return txs
}

// TransactionRequest is the body of both create and full-replace update.
type TransactionRequest struct {
	Type        transaction.Type `json:"type"`
	Amount      decimal.Decimal  `json:"amount"`
	Category    string           `json:"category"`
	Description string           `json:"description,omitempty"`
	Date        *time.Time       `json:"date,omitempty"`
}

func NewTransactionRequest(p transaction.CreateParams) TransactionRequest {
	req := TransactionRequest{
		Type:        p.Type,
		Amount:      p.Amount,
		Category:    p.Category,
		Description: p.Description,
	}

	if !p.Date.IsZero() {
		req.Date = &p.Date
	}

	return req
}

func (r TransactionRequest) Params() transaction.CreateParams {
	p := transaction.CreateParams{
		Type:        r.Type,
		Amount:      r.Amount,
		Category:    r.Category,
		Description: r.Description,
	}

	if r.Date != nil {
		p.Date = *r.Date
	}

	return p
}

type CategoryTotal struct {
	Category string           `json:"category"`
	Type     transaction.Type `json:"type"`
	Total    decimal.Decimal  `json:"total"`
	Count    int              `json:"count"`
}

type Summary struct {
	TotalIncome  decimal.Decimal `json:"totalIncome"`
	TotalExpense decimal.Decimal `json:"totalExpense"`
	Balance      decimal.Decimal `json:"balance"`
	Count        int             `json:"count"`
	Categories   []CategoryTotal `json:"categories"`
}

func FromSummary(s transaction.Summary) Summary {
	resp := Summary{
		TotalIncome:  s.TotalIncome,
		TotalExpense: s.TotalExpense,
		Balance:      s.Balance(),
		Count:        s.Count,
		Categories:   make([]CategoryTotal, len(s.Categories)),
	}

	for i, c := range s.Categories {
		resp.Categories[i] = CategoryTotal(c)
	}

	return resp
}

func (s Summary) ToSummary() transaction.Summary {
	sum := transaction.Summary{
		TotalIncome:  s.TotalIncome,
		TotalExpense: s.TotalExpense,
		Count:        s.Count,
		Categories:   make([]transaction.CategoryTotal, len(s.Categories)),
	}

	for i, c := range s.Categories {
		sum.Categories[i] = transaction.CategoryTotal(c)
	}

	return sum
}

type Suggestion struct {
	Description string `json:"description"`
	Category    string `json:"category"`
}

type ImportResult struct {
	Imported     int           `json:"imported"`
	Profile      string        `json:"profile"`
	Charset      string        `json:"charset"`
	Transactions []Transaction `json:"transactions"`
}

type Message struct {
	Message string `json:"message"`
}
