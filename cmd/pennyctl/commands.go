package main

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/pennywise/internal/api"
	"github.com/MrJamesThe3rd/pennywise/internal/client"
	"github.com/MrJamesThe3rd/pennywise/internal/draft"
	"github.com/MrJamesThe3rd/pennywise/internal/export"
	"github.com/MrJamesThe3rd/pennywise/internal/importer"
	"github.com/MrJamesThe3rd/pennywise/internal/transaction"
)

type clientFunc func() *client.Client

// filterFlags holds the server-side filter shared by list, summary and export.
type filterFlags struct {
	typ      string
	category string
	from     string
	to       string
}

func (f *filterFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.typ, "type", "", "Only income or expense")
	fs.StringVar(&f.category, "category", "", "Only this category")
	fs.StringVar(&f.from, "from", "", "Start date (YYYY-MM-DD or RFC 3339)")
	fs.StringVar(&f.to, "to", "", "End date, inclusive (YYYY-MM-DD or RFC 3339)")
}

func (f filterFlags) filter() (transaction.ListFilter, error) {
	q := url.Values{}

	for key, v := range map[string]string{
		api.ParamType:      f.typ,
		api.ParamCategory:  f.category,
		api.ParamStartDate: f.from,
		api.ParamEndDate:   f.to,
	} {
		if v != "" {
			q.Set(key, v)
		}
	}

	filter, err := api.ParseListFilter(q)
	if err != nil {
		return filter, codeError(exitUsage, "invalid filter: %s", err)
	}

	return filter, nil
}

func newListCmd(newClient clientFunc) *cobra.Command {
	var flags filterFlags

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter, err := flags.filter()
			if err != nil {
				return err
			}

			txs, err := newClient().List(cmd.Context(), filter)
			if err != nil {
				return apiError(err)
			}

			if len(txs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No transactions.")
				return nil
			}

			fmt.Fprint(cmd.OutOrStdout(), export.Statement(txs))

			return nil
		},
	}

	flags.register(cmd)

	return cmd
}

func newSummaryCmd(newClient clientFunc) *cobra.Command {
	var flags filterFlags

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show totals per type and category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter, err := flags.filter()
			if err != nil {
				return err
			}

			sum, err := newClient().Summary(cmd.Context(), filter)
			if err != nil {
				return apiError(err)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(tw, "Income\t%s\n", transaction.FormatMoney(sum.TotalIncome))
			fmt.Fprintf(tw, "Expense\t%s\n", transaction.FormatMoney(sum.TotalExpense))
			fmt.Fprintf(tw, "Balance\t%s\n", transaction.FormatMoney(sum.Balance()))
			fmt.Fprintf(tw, "Count\t%d\n", sum.Count)

			if len(sum.Categories) > 0 {
				fmt.Fprintln(tw)
				fmt.Fprintln(tw, "CATEGORY\tTYPE\tTOTAL\tCOUNT")

				for _, c := range sum.Categories {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", c.Category, c.Type, transaction.FormatMoney(c.Total), c.Count)
				}
			}

			return tw.Flush()
		},
	}

	flags.register(cmd)

	return cmd
}

func newAddCmd(newClient clientFunc) *cobra.Command {
	var (
		d    draft.Draft
		typ  string
		date string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a transaction",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d.Type = draft.TypeChoice(typ)

			params, err := d.Validate()
			if err != nil {
				return codeError(exitUsage, "%s", err)
			}

			if date != "" {
				params.Date, err = time.Parse(time.DateOnly, date)
				if err != nil {
					return codeError(exitUsage, "invalid date %q (YYYY-MM-DD)", date)
				}
			}

			tx, err := newClient().Create(cmd.Context(), params)
			if err != nil {
				return apiError(err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), tx.ID)

			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&typ, "type", "", "income or expense")
	f.StringVar(&d.Amount, "amount", "", "Positive amount, e.g. 12.50")
	f.StringVar(&d.Category, "category", "", "Category")
	f.StringVar(&d.Description, "description", "", "Optional description")
	f.StringVar(&date, "date", "", "Date (YYYY-MM-DD), defaults to today")

	return cmd
}

func newDeleteCmd(newClient clientFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return codeError(exitUsage, "invalid id %q", args[0])
			}

			if err := newClient().Delete(cmd.Context(), id); err != nil {
				return apiError(err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), api.DeletedMessage)

			return nil
		},
	}
}

func newImportCmd(newClient clientFunc) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Import transactions from a CSV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return codeError(exitUsage, "opening %s: %s", args[0], err)
			}
			defer f.Close()

			res, err := newClient().Import(cmd.Context(), format, filepath.Base(args[0]), f)
			if err != nil {
				return apiError(err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d transactions (%s, %s)\n", res.Imported, res.Profile, res.Charset)

			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", string(importer.FormatNative),
		fmt.Sprintf("CSV format: %s or %s", importer.FormatNative, importer.FormatCGD))

	return cmd
}

func newExportCmd(newClient clientFunc) *cobra.Command {
	var (
		flags filterFlags
		out   string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export transactions as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter, err := flags.filter()
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()

			if out != "" {
				f, err := os.Create(out)
				if err != nil {
					return codeError(exitFailure, "creating %s: %s", out, err)
				}
				defer f.Close()

				w = f
			}

			if _, err := newClient().Export(cmd.Context(), filter, w); err != nil {
				return apiError(err)
			}

			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&out, "out", "o", "", "Write to this file instead of stdout")

	return cmd
}
