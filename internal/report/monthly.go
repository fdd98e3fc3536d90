// Package report contains the client-side aggregation over fetched
// transaction lists.
package report

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/spendwise-dev/spendwise/internal/model"
)

// MonthGroup is one calendar month's worth of transactions with computed
// totals. Year and Month are both zero for the bucket holding transactions
// without a usable date.
type MonthGroup struct {
	Year          int
	Month         int // 1-12
	Expenses      []model.Expense
	TotalIncome   decimal.Decimal
	TotalExpenses decimal.Decimal
	NetBalance    decimal.Decimal
}

// GroupByMonth groups a flat transaction list into per-month summaries,
// most recent month first. Within a group, transactions keep their input
// order. Income-typed categories add to TotalIncome; everything else,
// including transactions without a category, adds to TotalExpenses. The
// function is pure: same input, same output.
func GroupByMonth(expenses []model.Expense) []MonthGroup {
	type monthKey struct {
		year  int
		month int
	}

	groups := make(map[monthKey]*MonthGroup)
	for _, e := range expenses {
		var k monthKey
		if !e.Date.IsZero() {
			k = monthKey{year: e.Date.Year(), month: e.Date.Month()}
		}

		g, ok := groups[k]
		if !ok {
			g = &MonthGroup{
				Year:          k.year,
				Month:         k.month,
				TotalIncome:   decimal.Zero,
				TotalExpenses: decimal.Zero,
			}
			groups[k] = g
		}

		g.Expenses = append(g.Expenses, e)
		if e.IsIncome() {
			g.TotalIncome = g.TotalIncome.Add(e.Amount)
		} else {
			g.TotalExpenses = g.TotalExpenses.Add(e.Amount)
		}
	}

	result := make([]MonthGroup, 0, len(groups))
	for _, g := range groups {
		g.NetBalance = g.TotalIncome.Sub(g.TotalExpenses)
		result = append(result, *g)
	}

	// Most recent first; the (0, 0) no-date bucket naturally sorts last.
	sort.Slice(result, func(i, j int) bool {
		if result[i].Year != result[j].Year {
			return result[i].Year > result[j].Year
		}
		return result[i].Month > result[j].Month
	})
	return result
}
