package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/pennywise/internal/transaction"
)

// Header is the native CSV layout. The importer reads it back unchanged.
var Header = []string{"Date", "Type", "Amount", "Category", "Description"}

const dateLayout = "2006-01-02"

type Lister interface {
	List(ctx context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, error)
}

// Service handles the export of transactions.
type Service struct {
	transactions Lister
}

func NewService(transactions Lister) *Service {
	return &Service{transactions: transactions}
}

// WriteCSV writes the transactions matching the filter, newest first, and
// returns how many rows were written.
func (s *Service) WriteCSV(ctx context.Context, filter transaction.ListFilter, w io.Writer) (int, error) {
	txs, err := s.transactions.List(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("listing transactions: %w", err)
	}

	if err := WriteCSV(w, txs); err != nil {
		return 0, err
	}

	return len(txs), nil
}

// WriteCSV encodes txs in the native layout.
func WriteCSV(w io.Writer, txs []*transaction.Transaction) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, tx := range txs {
		record := []string{
			tx.Date.Format(dateLayout),
			string(tx.Type),
			transaction.FormatMoney(tx.Amount),
			tx.Category,
			tx.Description,
		}

		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing transaction %s: %w", tx.ID, err)
		}
	}

	cw.Flush()

	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing csv: %w", err)
	}

	return nil
}

// Filename returns the attachment name for an export taken at now.
func Filename(now time.Time) string {
	return fmt.Sprintf("pennywise_%s.csv", now.Format("20060102"))
}

// Statement renders a plain-text listing followed by the totals.
func Statement(txs []*transaction.Transaction) string {
	var sb strings.Builder

	for _, tx := range txs {
		sign := "-"
		if tx.Type == transaction.TypeIncome {
			sign = "+"
		}

		desc := tx.Description
		if desc == "" {
			desc = "-"
		}

		fmt.Fprintf(&sb, "* %s | %s | %s%s | %s\n",
			tx.Date.Format(dateLayout), tx.Category, sign, transaction.FormatMoney(tx.Amount), desc)
	}

	sum := transaction.Summarize(txs)
	fmt.Fprintf(&sb, "Income %s | Expense %s | Balance %s\n",
		transaction.FormatMoney(sum.TotalIncome),
		transaction.FormatMoney(sum.TotalExpense),
		transaction.FormatMoney(sum.Balance()))

	return sb.String()
}
