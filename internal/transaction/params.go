package transaction

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// CreateParams carries the caller-supplied fields of a transaction. It is used
// both for creation and as the full replacement set on update.
type CreateParams struct {
	Type        Type
	Amount      decimal.Decimal
	Category    string
	Description string
	Date        time.Time
}

// Validate enforces the record invariants at the service boundary.
func (p CreateParams) Validate() error {
	if !p.Amount.IsPositive() {
		return fmt.Errorf("%w: amount must be greater than zero", ErrInvalid)
	}

	if !WholeCents(p.Amount) {
		return fmt.Errorf("%w: amount must have at most %d decimal places", ErrInvalid, MoneyPlaces)
	}

	if strings.TrimSpace(p.Category) == "" {
		return fmt.Errorf("%w: category is required", ErrInvalid)
	}

	if !p.Type.Valid() {
		return fmt.Errorf("%w: type must be %q or %q", ErrInvalid, TypeIncome, TypeExpense)
	}

	return nil
}

// ListFilter holds the optional server-side selection criteria. Criteria
// combine with AND; nil fields do not filter.
type ListFilter struct {
	Type      *Type
	Category  *string
	StartDate *time.Time
	EndDate   *time.Time
}

// DateRange returns the inclusive bounds of the date criterion. A range is
// only in effect when both bounds are present.
func (f ListFilter) DateRange() (time.Time, time.Time, bool) {
	if f.StartDate == nil || f.EndDate == nil {
		return time.Time{}, time.Time{}, false
	}

	return *f.StartDate, *f.EndDate, true
}

// Matches reports whether tx satisfies every criterion of the filter.
func (f ListFilter) Matches(tx *Transaction) bool {
	if f.Type != nil && tx.Type != *f.Type {
		return false
	}

	if f.Category != nil && tx.Category != *f.Category {
		return false
	}

	if start, end, ok := f.DateRange(); ok {
		if tx.Date.Before(start) || tx.Date.After(end) {
			return false
		}
	}

	return true
}
