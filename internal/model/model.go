package model

import "github.com/shopspring/decimal"

func init() {
	// The backend speaks bare JSON numbers for monetary amounts.
	decimal.MarshalJSONWithoutQuotes = true
}

// CategoryType fixes the polarity of a category.
type CategoryType string

const (
	CategoryTypeIncome  CategoryType = "income"
	CategoryTypeExpense CategoryType = "expense"
)

// Valid reports whether t is one of the two known category types.
func (t CategoryType) Valid() bool {
	return t == CategoryTypeIncome || t == CategoryTypeExpense
}

// User is the identity behind a session.
type User struct {
	ID    int    `json:"id"`
	Email string `json:"email"`
}

// Category is a named grouping for transactions.
type Category struct {
	ID   int          `json:"id"`
	Name string       `json:"name"`
	Type CategoryType `json:"type"`
}

// Expense is a single transaction record. Despite the name it covers both
// income and expenses; the polarity comes from the category's type.
type Expense struct {
	ID          int             `json:"id"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Date        Date            `json:"date"`
	CategoryID  int             `json:"category_id,omitempty"`
	Category    *Category       `json:"category,omitempty"`
}

// IsIncome reports whether the expense counts toward income. An expense
// without a category counts toward expenses.
func (e Expense) IsIncome() bool {
	return e.Category != nil && e.Category.Type == CategoryTypeIncome
}

// CategoryName returns the category name, or "N/A" when no category is set.
func (e Expense) CategoryName() string {
	if e.Category == nil {
		return "N/A"
	}
	return e.Category.Name
}

// DashboardSummary is the backend's overall analytics payload.
type DashboardSummary struct {
	TotalIncome   decimal.Decimal `json:"total_income"`
	TotalExpenses decimal.Decimal `json:"total_expenses"`
	NetBalance    decimal.Decimal `json:"net_balance"`
	ExpenseCount  int             `json:"expense_count"`
}

// CategoryTotal is one row of the per-category breakdown.
type CategoryTotal struct {
	CategoryID   int             `json:"category_id"`
	CategoryName string          `json:"category_name"`
	Type         CategoryType    `json:"type"`
	Total        decimal.Decimal `json:"total"`
}

// MonthlyPoint is one month of the backend-computed monthly summary.
type MonthlyPoint struct {
	Year          int             `json:"year"`
	Month         int             `json:"month"`
	TotalIncome   decimal.Decimal `json:"total_income"`
	TotalExpenses decimal.Decimal `json:"total_expenses"`
	NetBalance    decimal.Decimal `json:"net_balance"`
}
