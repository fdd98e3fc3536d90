package views

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/spendwise-dev/spendwise/internal/api"
	"github.com/spendwise-dev/spendwise/internal/logging"
	"github.com/spendwise-dev/spendwise/internal/model"
	"github.com/spendwise-dev/spendwise/internal/session"
)

// Dashboard shows the analytics summary and the transaction list, and
// handles expense mutations.
type Dashboard struct {
	API           Backend
	Session       *session.Session
	Out           io.Writer
	Log           *logging.Logger
	RedirectDelay time.Duration

	Summary    *model.DashboardSummary
	Expenses   []model.Expense
	Categories *model.CategorySet
}

// NewDashboard creates a Dashboard view.
func NewDashboard(backend Backend, sess *session.Session, out io.Writer, log *logging.Logger) *Dashboard {
	return &Dashboard{
		API:           backend,
		Session:       sess,
		Out:           out,
		Log:           log.WithComponent(logging.ComponentViews),
		RedirectDelay: DefaultRedirectDelay,
	}
}

// Load fetches the analytics summary, expenses, and categories
// concurrently. The load is all-or-nothing: any failure leaves the view
// unchanged.
func (d *Dashboard) Load(ctx context.Context) error {
	token := d.Session.Token()
	if token == "" {
		return ErrLoginRequired
	}

	var (
		summary    *model.DashboardSummary
		expenses   []model.Expense
		categories []model.Category
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		summary, err = d.API.Dashboard(gctx, token)
		return err
	})
	g.Go(func() error {
		var err error
		expenses, err = d.API.ListExpenses(gctx, token, 0, 0)
		return err
	})
	g.Go(func() error {
		var err error
		categories, err = d.API.ListCategories(gctx, token)
		return err
	})
	if err := g.Wait(); err != nil {
		if api.IsUnauthorized(err) {
			return expireSession(d.Session, d.Out, d.Log, d.RedirectDelay)
		}
		fmt.Fprintln(d.Out, "Failed to load data. Please try again.")
		return err
	}

	d.Summary = summary
	d.Expenses = expenses
	d.Categories = model.NewCategorySet(categories)
	return nil
}

// ExpenseForm carries raw user input for an expense create or update.
type ExpenseForm struct {
	Amount      string
	Description string
	Category    string // category id or name
	Date        string // YYYY-MM-DD; timestamps are truncated
}

// Build normalizes the form into an API request: the amount is coerced to a
// decimal, the category reference to an integer id (names are resolved via
// the category set), and the date to a calendar-date string.
func (f ExpenseForm) Build(categories *model.CategorySet) (api.ExpenseRequest, error) {
	amount, err := decimal.NewFromString(f.Amount)
	if err != nil {
		return api.ExpenseRequest{}, fmt.Errorf("invalid amount %q", f.Amount)
	}
	if !amount.IsPositive() {
		return api.ExpenseRequest{}, fmt.Errorf("amount must be positive, got %s", amount)
	}

	categoryID, err := strconv.Atoi(f.Category)
	if err != nil {
		category, ok := categories.GetByName(f.Category)
		if !ok {
			return api.ExpenseRequest{}, fmt.Errorf("unknown category %q", f.Category)
		}
		categoryID = category.ID
	}

	date := model.Today()
	if f.Date != "" {
		date, err = model.ParseDate(f.Date)
		if err != nil {
			return api.ExpenseRequest{}, err
		}
	}

	return api.ExpenseRequest{
		Amount:      amount,
		Description: f.Description,
		CategoryID:  categoryID,
		Date:        date,
	}, nil
}

// AddExpense creates a transaction from the form and refetches the
// authoritative data.
func (d *Dashboard) AddExpense(ctx context.Context, form ExpenseForm) error {
	return d.mutate(ctx, func(token string, req api.ExpenseRequest) error {
		_, err := d.API.CreateExpense(ctx, token, req)
		return err
	}, form)
}

// UpdateExpense replaces a transaction by id and refetches.
func (d *Dashboard) UpdateExpense(ctx context.Context, id int, form ExpenseForm) error {
	return d.mutate(ctx, func(token string, req api.ExpenseRequest) error {
		_, err := d.API.UpdateExpense(ctx, token, id, req)
		return err
	}, form)
}

func (d *Dashboard) mutate(ctx context.Context, op func(token string, req api.ExpenseRequest) error, form ExpenseForm) error {
	token := d.Session.Token()
	if token == "" {
		return ErrLoginRequired
	}
	if err := d.ensureCategories(ctx, token); err != nil {
		return err
	}

	req, err := form.Build(d.Categories)
	if err != nil {
		return err
	}
	if err := op(token, req); err != nil {
		if api.IsUnauthorized(err) {
			return expireSession(d.Session, d.Out, d.Log, d.RedirectDelay)
		}
		if detail := api.Detail(err); detail != "" {
			return fmt.Errorf("failed to save expense: %s", detail)
		}
		return fmt.Errorf("failed to save expense: %w", err)
	}
	return d.Load(ctx)
}

// DeleteExpense removes a transaction by id and refetches. Confirmation is
// the caller's responsibility.
func (d *Dashboard) DeleteExpense(ctx context.Context, id int) error {
	token := d.Session.Token()
	if token == "" {
		return ErrLoginRequired
	}
	if err := d.API.DeleteExpense(ctx, token, id); err != nil {
		if api.IsUnauthorized(err) {
			return expireSession(d.Session, d.Out, d.Log, d.RedirectDelay)
		}
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	return d.Load(ctx)
}

// ensureCategories fetches the category list when the view has not loaded
// yet, so mutations can resolve category names without a full load.
func (d *Dashboard) ensureCategories(ctx context.Context, token string) error {
	if d.Categories != nil {
		return nil
	}
	categories, err := d.API.ListCategories(ctx, token)
	if err != nil {
		if api.IsUnauthorized(err) {
			return expireSession(d.Session, d.Out, d.Log, d.RedirectDelay)
		}
		return err
	}
	d.Categories = model.NewCategorySet(categories)
	return nil
}

// Render writes the analytics cards and the transaction table.
func (d *Dashboard) Render() {
	if d.Summary != nil {
		fmt.Fprintf(d.Out, "Total Income:   %s\n", d.Summary.TotalIncome.StringFixed(2))
		fmt.Fprintf(d.Out, "Total Expenses: %s\n", d.Summary.TotalExpenses.StringFixed(2))
		fmt.Fprintf(d.Out, "Net Balance:    %s\n", d.Summary.NetBalance.StringFixed(2))
		fmt.Fprintln(d.Out)
	}

	if len(d.Expenses) == 0 {
		fmt.Fprintln(d.Out, "No expenses yet. Start tracking your expenses!")
		return
	}

	tw := tabwriter.NewWriter(d.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tDESCRIPTION\tCATEGORY\tAMOUNT")
	for _, e := range d.Expenses {
		sign := "-"
		if e.IsIncome() {
			sign = "+"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s%s\n",
			e.ID, e.Date, e.Description, e.CategoryName(), sign, e.Amount.StringFixed(2))
	}
	tw.Flush()
}
