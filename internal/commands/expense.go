package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/spendwise-dev/spendwise/internal/api"
	"github.com/spendwise-dev/spendwise/internal/export"
	"github.com/spendwise-dev/spendwise/internal/model"
	"github.com/spendwise-dev/spendwise/internal/views"
)

func newExpenseCommand() *cobra.Command {
	expenseCmd := &cobra.Command{
		Use:   "expense",
		Short: "Manage transactions",
	}
	expenseCmd.AddCommand(
		newExpenseListCommand(),
		newExpenseAddCommand(),
		newExpenseEditCommand(),
		newExpenseRemoveCommand(),
		newExpenseExportCommand(),
		newExpenseImportCommand(),
	)
	return expenseCmd
}

func newExpenseListCommand() *cobra.Command {
	var skip int
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newAppEnv()
			if err != nil {
				return err
			}
			token := env.sess.Token()
			if token == "" {
				return fmt.Errorf("not logged in: run 'spendwise login'")
			}
			expenses, err := env.client.ListExpenses(cmd.Context(), token, skip, limit)
			if err != nil {
				return env.authFail(cmd.OutOrStdout(), err)
			}
			renderExpenseTable(cmd.OutOrStdout(), expenses)
			return nil
		},
	}

	cmd.Flags().IntVar(&skip, "skip", 0, "number of transactions to skip")
	cmd.Flags().IntVar(&limit, "limit", api.DefaultExpenseLimit, "page size")

	return cmd
}

func expenseFormFlags(cmd *cobra.Command, form *views.ExpenseForm) {
	cmd.Flags().StringVar(&form.Amount, "amount", "", "amount, e.g. 12.50 (required)")
	cmd.Flags().StringVar(&form.Description, "description", "", "description (required)")
	cmd.Flags().StringVar(&form.Category, "category", "", "category id or name (required)")
	cmd.Flags().StringVar(&form.Date, "date", "", "date as YYYY-MM-DD (default today)")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("description")
	_ = cmd.MarkFlagRequired("category")
}

func newExpenseAddCommand() *cobra.Command {
	var form views.ExpenseForm

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a transaction",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newAppEnv()
			if err != nil {
				return err
			}
			view := views.NewDashboard(env.client, env.sess, cmd.OutOrStdout(), env.log)
			view.RedirectDelay = env.redirectDelay()
			if err := view.AddExpense(cmd.Context(), form); err != nil {
				return loginHint(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Expense added.")
			return nil
		},
	}

	expenseFormFlags(cmd, &form)

	return cmd
}

func newExpenseEditCommand() *cobra.Command {
	var form views.ExpenseForm

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Replace a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid expense id %q", args[0])
			}
			env, err := newAppEnv()
			if err != nil {
				return err
			}
			view := views.NewDashboard(env.client, env.sess, cmd.OutOrStdout(), env.log)
			view.RedirectDelay = env.redirectDelay()
			if err := view.UpdateExpense(cmd.Context(), id, form); err != nil {
				return loginHint(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Expense updated.")
			return nil
		},
	}

	expenseFormFlags(cmd, &form)

	return cmd
}

func newExpenseRemoveCommand() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid expense id %q", args[0])
			}
			if !yes {
				ok, err := promptConfirm(os.Stdin, cmd.OutOrStdout(),
					"Are you sure you want to delete this expense?")
				if err != nil {
					return err
				}
				if !ok {
					return nil
				}
			}

			env, err := newAppEnv()
			if err != nil {
				return err
			}
			view := views.NewDashboard(env.client, env.sess, cmd.OutOrStdout(), env.log)
			view.RedirectDelay = env.redirectDelay()
			if err := view.DeleteExpense(cmd.Context(), id); err != nil {
				return loginHint(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Expense deleted.")
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "skip the confirmation prompt")

	return cmd
}

func newExpenseExportCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write all transactions as CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newAppEnv()
			if err != nil {
				return err
			}
			token := env.sess.Token()
			if token == "" {
				return fmt.Errorf("not logged in: run 'spendwise login'")
			}

			expenses, err := fetchAllExpenses(cmd.Context(), env, token)
			if err != nil {
				return env.authFail(cmd.OutOrStdout(), err)
			}

			out := cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("creating export file: %w", err)
				}
				defer f.Close()
				out = f
			}
			if err := export.WriteExpenses(out, expenses); err != nil {
				return err
			}
			if output != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %d transactions to %s\n", len(expenses), output)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&output, "output", "", "output file (default stdout)")

	return cmd
}

func newExpenseImportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Bulk-create transactions from a CSV file",
		Long: `Bulk-create transactions from a CSV file with columns
date,description,amount,category (header row required). Categories are
matched by name against the existing category list.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newAppEnv()
			if err != nil {
				return err
			}
			token := env.sess.Token()
			if token == "" {
				return fmt.Errorf("not logged in: run 'spendwise login'")
			}

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening import file: %w", err)
			}
			defer f.Close()

			rows, err := export.ReadRows(f)
			if err != nil {
				return err
			}

			categories, err := env.client.ListCategories(cmd.Context(), token)
			if err != nil {
				return env.authFail(cmd.OutOrStdout(), err)
			}
			set := model.NewCategorySet(categories)

			for i, row := range rows {
				category, ok := set.GetByName(row.Category)
				if !ok {
					return fmt.Errorf("row %d: unknown category %q", i+2, row.Category)
				}
				_, err := env.client.CreateExpense(cmd.Context(), token, api.ExpenseRequest{
					Amount:      row.Amount,
					Description: row.Description,
					CategoryID:  category.ID,
					Date:        row.Date,
				})
				if err != nil {
					if uerr := env.authFail(cmd.OutOrStdout(), err); uerr != err {
						return uerr
					}
					return fmt.Errorf("row %d: %w", i+2, err)
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d transactions.\n", len(rows))
			return nil
		},
	}

	return cmd
}

// fetchAllExpenses pages through the expense list until a short page.
func fetchAllExpenses(ctx context.Context, env *appEnv, token string) ([]model.Expense, error) {
	var all []model.Expense
	skip := 0
	for {
		page, err := env.client.ListExpenses(ctx, token, skip, api.DefaultExpenseLimit)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if len(page) < api.DefaultExpenseLimit {
			return all, nil
		}
		skip += len(page)
	}
}

func renderExpenseTable(out io.Writer, expenses []model.Expense) {
	if len(expenses) == 0 {
		fmt.Fprintln(out, "No expenses yet. Start tracking your expenses!")
		return
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tDESCRIPTION\tCATEGORY\tAMOUNT")
	for _, e := range expenses {
		sign := "-"
		if e.IsIncome() {
			sign = "+"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s%s\n",
			e.ID, e.Date, e.Description, e.CategoryName(), sign, e.Amount.StringFixed(2))
	}
	tw.Flush()
}
