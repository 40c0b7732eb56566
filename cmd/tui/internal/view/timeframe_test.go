package view

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/pennywise/internal/transaction"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestRangeFor(t *testing.T) {
	// A Wednesday.
	now := time.Date(2024, 3, 13, 15, 4, 5, 0, time.UTC)

	type testCase struct {
		name      string
		frame     Timeframe
		wantStart time.Time
		wantEnd   time.Time
	}

	tests := []testCase{
		{name: "this week starts on monday", frame: TimeframeThisWeek, wantStart: date(2024, 3, 11), wantEnd: date(2024, 3, 13)},
		{name: "last week", frame: TimeframeLastWeek, wantStart: date(2024, 3, 4), wantEnd: date(2024, 3, 10)},
		{name: "this month", frame: TimeframeThisMonth, wantStart: date(2024, 3, 1), wantEnd: date(2024, 3, 13)},
		{name: "last month ends on leap day", frame: TimeframeLastMonth, wantStart: date(2024, 2, 1), wantEnd: date(2024, 2, 29)},
		{name: "this year", frame: TimeframeThisYear, wantStart: date(2024, 1, 1), wantEnd: date(2024, 3, 13)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := rangeFor(tt.frame, now)
			assert.Equal(t, tt.wantStart, start)
			assert.Equal(t, tt.wantEnd, end)
		})
	}
}

func TestRangeFor_Sunday(t *testing.T) {
	start, end := rangeFor(TimeframeThisWeek, time.Date(2024, 3, 17, 10, 0, 0, 0, time.UTC))
	assert.Equal(t, date(2024, 3, 11), start)
	assert.Equal(t, date(2024, 3, 17), end)
}

func TestTimeframeSelectedMsg_Apply(t *testing.T) {
	income := transaction.TypeIncome
	base := transaction.ListFilter{Type: &income}

	all := TimeframeSelectedMsg{Frame: TimeframeAll}.Apply(base)
	assert.Nil(t, all.StartDate)
	assert.Nil(t, all.EndDate)
	assert.Equal(t, &income, all.Type)

	start, end := dayBounds(date(2024, 3, 1), date(2024, 3, 31))
	ranged := TimeframeSelectedMsg{Frame: TimeframeCustom, Start: start, End: end}.Apply(base)
	require.NotNil(t, ranged.StartDate)
	require.NotNil(t, ranged.EndDate)
	assert.Equal(t, date(2024, 3, 1), *ranged.StartDate)
	assert.Equal(t, date(2024, 4, 1).Add(-time.Nanosecond), *ranged.EndDate)

	lastMoment := &transaction.Transaction{Type: income, Date: date(2024, 3, 31).Add(23 * time.Hour)}
	assert.True(t, ranged.Matches(lastMoment))
}

func TestParseCustomRange(t *testing.T) {
	start, end, err := parseCustomRange("2024-03-01", "2024-03-31")
	require.NoError(t, err)
	assert.Equal(t, date(2024, 3, 1), start)
	assert.Equal(t, date(2024, 3, 31), end)

	_, _, err = parseCustomRange("03/01/2024", "2024-03-31")
	assert.EqualError(t, err, "invalid start date (YYYY-MM-DD)")

	_, _, err = parseCustomRange("2024-03-01", "")
	assert.EqualError(t, err, "invalid end date (YYYY-MM-DD)")

	_, _, err = parseCustomRange("2024-03-31", "2024-03-01")
	assert.EqualError(t, err, "end date is before start date")
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "5-MAR-2024", FormatDate(date(2024, 3, 5)))
	assert.Equal(t, "-", orDash("  "))
}
