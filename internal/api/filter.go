package api

import (
	"fmt"
	"net/url"
	"time"

	"github.com/MrJamesThe3rd/pennywise/internal/transaction"
)

// Query parameter names of the list, summary and export endpoints.
const (
	ParamType      = "type"
	ParamCategory  = "category"
	ParamStartDate = "startDate"
	ParamEndDate   = "endDate"
)

// ParseListFilter reads the server-side selection criteria from a query
// string. Empty parameters are ignored. Dates are RFC 3339 or YYYY-MM-DD; a
// date-only end covers the whole day. Malformed values wrap
// transaction.ErrInvalid.
func ParseListFilter(q url.Values) (transaction.ListFilter, error) {
	var filter transaction.ListFilter

	if s := q.Get(ParamType); s != "" {
		t, err := transaction.ParseType(s)
		if err != nil {
			return filter, err
		}

		filter.Type = &t
	}

	if s := q.Get(ParamCategory); s != "" {
		filter.Category = new(s)
	}

	if s := q.Get(ParamStartDate); s != "" {
		t, _, err := parseDate(s)
		if err != nil {
			return filter, fmt.Errorf("%w: %s: %v", transaction.ErrInvalid, ParamStartDate, err)
		}

		filter.StartDate = &t
	}

	if s := q.Get(ParamEndDate); s != "" {
		t, dateOnly, err := parseDate(s)
		if err != nil {
			return filter, fmt.Errorf("%w: %s: %v", transaction.ErrInvalid, ParamEndDate, err)
		}

		if dateOnly {
			t = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
		}

		filter.EndDate = &t
	}

	return filter, nil
}

func parseDate(s string) (time.Time, bool, error) {
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, true, nil
	}

	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("expected RFC 3339 or YYYY-MM-DD, got %q", s)
	}

	return t, false, nil
}

// ListFilterQuery is the inverse of ParseListFilter.
func ListFilterQuery(f transaction.ListFilter) url.Values {
	q := url.Values{}

	if f.Type != nil {
		q.Set(ParamType, string(*f.Type))
	}

	if f.Category != nil {
		q.Set(ParamCategory, *f.Category)
	}

	if f.StartDate != nil {
		q.Set(ParamStartDate, f.StartDate.Format(time.RFC3339Nano))
	}

	if f.EndDate != nil {
		q.Set(ParamEndDate, f.EndDate.Format(time.RFC3339Nano))
	}

	return q
}
