package views

import (
	"context"
	"fmt"
	"io"

	"github.com/spendwise-dev/spendwise/internal/api"
	"github.com/spendwise-dev/spendwise/internal/logging"
	"github.com/spendwise-dev/spendwise/internal/report"
	"github.com/spendwise-dev/spendwise/internal/session"
)

// Monthly groups the full transaction list into per-month summaries,
// computed client-side on every load.
type Monthly struct {
	API     Backend
	Session *session.Session
	Out     io.Writer
	Log     *logging.Logger

	Groups []report.MonthGroup
}

// NewMonthly creates a Monthly view.
func NewMonthly(backend Backend, sess *session.Session, out io.Writer, log *logging.Logger) *Monthly {
	return &Monthly{
		API:     backend,
		Session: sess,
		Out:     out,
		Log:     log.WithComponent(logging.ComponentViews),
	}
}

// Load fetches all expenses and aggregates them by month. Unlike the other
// views, an expired session here logs out immediately, without the grace
// delay.
func (m *Monthly) Load(ctx context.Context) error {
	token := m.Session.Token()
	if token == "" {
		return ErrLoginRequired
	}
	expenses, err := m.API.ListExpenses(ctx, token, 0, 0)
	if err != nil {
		if api.IsUnauthorized(err) {
			if lerr := m.Session.Logout(); lerr != nil {
				m.Log.Error("clearing session failed", logging.FieldError, lerr)
			}
			return ErrSessionExpired
		}
		fmt.Fprintln(m.Out, "Failed to load monthly data")
		return err
	}
	m.Groups = report.GroupByMonth(expenses)
	return nil
}

// Render writes the per-month summaries, most recent first.
func (m *Monthly) Render() {
	if len(m.Groups) == 0 {
		fmt.Fprintln(m.Out, "No expenses yet. Start tracking your expenses!")
		return
	}
	for _, g := range m.Groups {
		fmt.Fprintf(m.Out, "%s\n", formatMonth(g.Year, g.Month))
		fmt.Fprintf(m.Out, "  Income:      %s\n", g.TotalIncome.StringFixed(2))
		fmt.Fprintf(m.Out, "  Expenses:    %s\n", g.TotalExpenses.StringFixed(2))
		fmt.Fprintf(m.Out, "  Net Balance: %s\n", g.NetBalance.StringFixed(2))
		fmt.Fprintf(m.Out, "  %s\n", transactionCount(len(g.Expenses)))
		for _, e := range g.Expenses {
			sign := "-"
			if e.IsIncome() {
				sign = "+"
			}
			fmt.Fprintf(m.Out, "    %s  %-24s %-12s %s%s\n",
				e.Date, e.Description, e.CategoryName(), sign, e.Amount.StringFixed(2))
		}
		fmt.Fprintln(m.Out)
	}
}

func transactionCount(n int) string {
	if n == 1 {
		return "1 transaction"
	}
	return fmt.Sprintf("%d transactions", n)
}
