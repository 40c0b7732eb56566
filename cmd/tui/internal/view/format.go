package view

import (
	"strings"
	"time"

	"github.com/MrJamesThe3rd/pennywise/internal/transaction"
)

const dateLayout = "2-Jan-2006"

// FormatAmount renders an amount with two decimals, signed by type.
func FormatAmount(tx *transaction.Transaction) string {
	sign := "+"
	if tx.Type == transaction.TypeExpense {
		sign = "-"
	}

	return sign + transaction.FormatMoney(tx.Amount)
}

// FormatDate renders dates as "5-MAR-2024".
func FormatDate(t time.Time) string {
	return strings.ToUpper(t.Format(dateLayout))
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}

	return s
}
