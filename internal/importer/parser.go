package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	enc "github.com/MrJamesThe3rd/pennywise/internal/encoding"
	"github.com/MrJamesThe3rd/pennywise/internal/transaction"
)

// Parsed is the outcome of reading one CSV upload.
type Parsed struct {
	Profile string
	Charset enc.Charset
	Params  []transaction.CreateParams
}

// Parse reads a CSV export of the given format. The concrete layout is
// auto-detected by matching column headers against the known profiles.
// Errors caused by the input wrap transaction.ErrInvalid.
func Parse(format Format, r io.Reader) (*Parsed, error) {
	comma, ok := format.separator()
	if !ok {
		return nil, fmt.Errorf("%w: unknown format %q", transaction.ErrInvalid, format)
	}

	utf8r, charset, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	reader := csv.NewReader(utf8r)
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: read csv: %v", transaction.ErrInvalid, err)
	}

	profile, cols, headerIdx := detectProfile(format, rows)
	if profile == nil {
		return nil, fmt.Errorf("%w: no matching %s layout found", transaction.ErrInvalid, format)
	}

	params, err := parseRows(profile, cols, rows[headerIdx+1:], headerIdx+1)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", transaction.ErrInvalid, err)
	}

	return &Parsed{Profile: profile.Name, Charset: charset, Params: params}, nil
}

// colIndex maps column names to their index in the row.
type colIndex map[string]int

// detectProfile scans rows for a header that matches a known profile of the format.
// Returns the matched profile, column index map, and header row index.
func detectProfile(format Format, rows [][]string) (*Profile, colIndex, int) {
	for rowIdx, row := range rows {
		cols := make(colIndex)

		for i, cell := range row {
			name := strings.TrimSpace(cell)
			if name != "" {
				cols[name] = i
			}
		}

		for i := range profiles {
			if profiles[i].Format == format && matchesProfile(&profiles[i], cols) {
				return &profiles[i], cols, rowIdx
			}
		}
	}

	return nil, nil, 0
}

// matchesProfile checks if all required columns of a profile are present.
func matchesProfile(p *Profile, cols colIndex) bool {
	for _, name := range p.requiredCols() {
		if _, ok := cols[name]; !ok {
			return false
		}
	}

	return true
}

// parseRows extracts transactions from data rows using the matched profile.
// headerRowNum is the 0-based index of the header in the original file (for error messages).
func parseRows(p *Profile, cols colIndex, rows [][]string, headerRowNum int) ([]transaction.CreateParams, error) {
	dateIdx := cols[p.DateCol]
	descIdx := cols[p.DescCol]

	categoryIdx := -1
	if p.CategoryCol != "" {
		categoryIdx = cols[p.CategoryCol]
	}

	txs := []transaction.CreateParams{}

	for i, row := range rows {
		rowNum := headerRowNum + i + 1 // 1-based line number

		if isBlank(row) {
			continue
		}

		date, ok := parseDate(row, dateIdx, p.DateLayouts)
		if !ok {
			if p.Strict {
				return nil, fmt.Errorf("row %d: invalid date %q", rowNum, cellValue(row, dateIdx))
			}

			continue
		}

		desc := cellValue(row, descIdx)
		if desc == "" && !p.Strict {
			return nil, fmt.Errorf("row %d: missing description", rowNum)
		}

		amount, txType, ok := parseAmount(p, cols, row)
		if !ok {
			if p.Strict {
				return nil, fmt.Errorf("row %d: invalid amount or type", rowNum)
			}

			continue
		}

		txs = append(txs, transaction.CreateParams{
			Amount:      amount,
			Type:        txType,
			Category:    cellValue(row, categoryIdx),
			Description: desc,
			Date:        date,
		})
	}

	return txs, nil
}

// parseDate tries every layout of the profile against the given cell.
// Returns false for empty cells or unparseable values (footer rows, etc).
func parseDate(row []string, idx int, layouts []string) (time.Time, bool) {
	s := cellValue(row, idx)
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

// parseAmount extracts the amount and transaction type from a row based on the profile's amount mode.
func parseAmount(p *Profile, cols colIndex, row []string) (decimal.Decimal, transaction.Type, bool) {
	switch p.AmountMode {
	case amountTyped:
		return parseTypedAmount(p.Numbers, row, cols[p.AmountCol], cols[p.TypeCol])
	case amountSigned:
		return parseSignedAmount(p.Numbers, row, cols[p.AmountCol])
	case amountSplit:
		return parseSplitAmount(p.Numbers, row, cols[p.DebitCol], cols[p.CreditCol])
	}

	return decimal.Zero, "", false
}

// parseTypedAmount handles an unsigned amount next to an explicit type column.
func parseTypedAmount(style numberStyle, row []string, amountIdx, typeIdx int) (decimal.Decimal, transaction.Type, bool) {
	txType, err := transaction.ParseType(strings.ToLower(cellValue(row, typeIdx)))
	if err != nil {
		return decimal.Zero, "", false
	}

	amount, err := parseNumber(style, cellValue(row, amountIdx))
	if err != nil || !amount.IsPositive() {
		return decimal.Zero, "", false
	}

	return amount, txType, true
}

// parseSignedAmount handles a single signed amount column.
func parseSignedAmount(style numberStyle, row []string, idx int) (decimal.Decimal, transaction.Type, bool) {
	s := cellValue(row, idx)
	if s == "" {
		return decimal.Zero, "", false
	}

	amount, err := parseNumber(style, s)
	if err != nil || amount.IsZero() {
		return decimal.Zero, "", false
	}

	if amount.IsNegative() {
		return amount.Neg(), transaction.TypeExpense, true
	}

	return amount, transaction.TypeIncome, true
}

// parseSplitAmount handles separate debit/credit columns.
func parseSplitAmount(style numberStyle, row []string, debitIdx, creditIdx int) (decimal.Decimal, transaction.Type, bool) {
	if s := cellValue(row, debitIdx); s != "" {
		amount, err := parseNumber(style, s)
		if err == nil && !amount.IsZero() {
			return amount.Abs(), transaction.TypeExpense, true
		}
	}

	if s := cellValue(row, creditIdx); s != "" {
		amount, err := parseNumber(style, s)
		if err == nil && !amount.IsZero() {
			return amount.Abs(), transaction.TypeIncome, true
		}
	}

	return decimal.Zero, "", false
}

// cellValue safely gets a trimmed cell value from a row.
func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}

	return true
}
