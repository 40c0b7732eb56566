// Package draft holds the unsubmitted state of the add/edit form and its
// pre-submission checks.
package draft

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/pennywise/internal/transaction"
)

// Problem is a failed form check. Its text is shown to the user unchanged.
type Problem string

func (p Problem) Error() string { return string(p) }

const (
	ErrInvalidAmount   Problem = "Please enter a valid amount"
	ErrMissingCategory Problem = "Please enter a category"
	ErrMissingType     Problem = "Please select a transaction type"
)

// SaveFailedMessage is shown when the API rejects or cannot take a submission.
const SaveFailedMessage = "Failed to save transaction. Please try again."

// TypeChoice is the form's type selector. Unlike transaction.Type it has an
// explicit empty state.
type TypeChoice string

const (
	ChoiceNone    TypeChoice = ""
	ChoiceIncome  TypeChoice = TypeChoice(transaction.TypeIncome)
	ChoiceExpense TypeChoice = TypeChoice(transaction.TypeExpense)
)

type Draft struct {
	Type        TypeChoice
	Amount      string
	Category    string
	Description string
}

// FromTransaction pre-fills a draft for editing.
func FromTransaction(tx *transaction.Transaction) Draft {
	return Draft{
		Type:        TypeChoice(tx.Type),
		Amount:      transaction.FormatMoney(tx.Amount),
		Category:    tx.Category,
		Description: tx.Description,
	}
}

// Validate returns the first failing check, or the params to submit.
func (d Draft) Validate() (transaction.CreateParams, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(d.Amount))
	if err != nil || !amount.IsPositive() || !transaction.WholeCents(amount) {
		return transaction.CreateParams{}, ErrInvalidAmount
	}

	category := strings.TrimSpace(d.Category)
	if category == "" {
		return transaction.CreateParams{}, ErrMissingCategory
	}

	typ := transaction.Type(d.Type)
	if d.Type == ChoiceNone || !typ.Valid() {
		return transaction.CreateParams{}, ErrMissingType
	}

	return transaction.CreateParams{
		Type:        typ,
		Amount:      amount,
		Category:    category,
		Description: strings.TrimSpace(d.Description),
	}, nil
}
