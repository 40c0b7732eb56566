package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/pennywise/internal/transaction"
)

const barWidth = 30

var (
	incomeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	expenseStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// barSplit divides width cells between income and expense in proportion to
// their totals. Both are zero when there is nothing to show.
func barSplit(income, expense decimal.Decimal, width int) (int, int) {
	total := income.Add(expense)
	if !total.IsPositive() {
		return 0, 0
	}

	incomeCells := int(income.Div(total).Mul(decimal.NewFromInt(int64(width))).Round(0).IntPart())

	return incomeCells, width - incomeCells
}

func balanceBar(income, expense decimal.Decimal) string {
	in, out := barSplit(income, expense, barWidth)
	if in == 0 && out == 0 {
		return faintStyle.Render(strings.Repeat("░", barWidth))
	}

	return incomeStyle.Render(strings.Repeat("█", in)) + expenseStyle.Render(strings.Repeat("█", out))
}

func summaryView(s transaction.Summary) string {
	balance := s.Balance()

	balanceStyle := incomeStyle
	if balance.IsNegative() {
		balanceStyle = expenseStyle
	}

	lines := []string{
		lipgloss.NewStyle().Bold(true).Render("Summary"),
		"",
		fmt.Sprintf("Income   %s", incomeStyle.Render("+"+transaction.FormatMoney(s.TotalIncome))),
		fmt.Sprintf("Expenses %s", expenseStyle.Render("-"+transaction.FormatMoney(s.TotalExpense))),
		fmt.Sprintf("Balance  %s", balanceStyle.Render(transaction.FormatMoney(balance))),
		fmt.Sprintf("Count    %d", s.Count),
		"",
		balanceBar(s.TotalIncome, s.TotalExpense),
	}

	if len(s.Categories) > 0 {
		lines = append(lines, "", "By category:")

		for _, c := range s.Categories {
			lines = append(lines, fmt.Sprintf("  %-14s %s %s", c.Category, c.Type, transaction.FormatMoney(c.Total)))
		}
	}

	return panelStyle.Render(strings.Join(lines, "\n"))
}
