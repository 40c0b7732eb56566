package view

import (
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/MrJamesThe3rd/pennywise/internal/draft"
	"github.com/MrJamesThe3rd/pennywise/internal/transaction"
)

// txForm is the add/edit form. Field values live in d so that copies of the
// owning model keep writing to the same draft.
type txForm struct {
	form    *huh.Form
	d       *draft.Draft
	editing *transaction.Transaction
	err     error
}

// suggestFunc returns a category for a description, or "" when there is none.
type suggestFunc func(description string) string

func newTxForm(d draft.Draft, editing *transaction.Transaction, categories []string, suggest suggestFunc) *txForm {
	f := &txForm{d: &d, editing: editing}

	f.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[draft.TypeChoice]().
				Key("type").
				Title("Type").
				Options(
					huh.NewOption("Select a type", draft.ChoiceNone),
					huh.NewOption("Income", draft.ChoiceIncome),
					huh.NewOption("Expense", draft.ChoiceExpense),
				).
				Value(&f.d.Type),

			huh.NewInput().
				Key("amount").
				Title("Amount").
				Placeholder("0.00").
				Value(&f.d.Amount),

			huh.NewInput().
				Key("description").
				Title("Description (optional)").
				Value(&f.d.Description),

			huh.NewInput().
				Key("category").
				Title("Category").
				Description("Tab accepts a suggestion").
				SuggestionsFunc(func() []string {
					return categorySuggestions(suggest(f.d.Description), categories)
				}, &f.d.Description).
				Value(&f.d.Category),
		),
	).WithWidth(45).WithShowHelp(false)

	return f
}

// categorySuggestions puts the suggested category first, followed by the
// known ones.
func categorySuggestions(suggested string, known []string) []string {
	out := make([]string, 0, len(known)+1)
	if suggested != "" {
		out = append(out, suggested)
	}

	for _, c := range known {
		if c != suggested {
			out = append(out, c)
		}
	}

	return out
}

func (f *txForm) title() string {
	if f.editing != nil {
		return "Edit Transaction"
	}

	return "Add Transaction"
}

func (f *txForm) View() string {
	body := fmt.Sprintf("%s\n\n%s", f.title(), f.form.View())
	if f.err != nil {
		body += "\n" + errorStyle.Render(f.err.Error())
	}

	return panelStyle.Width(50).Render(body)
}
