// Package views implements the terminal views: each one fetches its data
// through the API client, renders to an io.Writer, and refetches the
// authoritative lists after every mutation instead of patching local state.
package views

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spendwise-dev/spendwise/internal/api"
	"github.com/spendwise-dev/spendwise/internal/logging"
	"github.com/spendwise-dev/spendwise/internal/model"
	"github.com/spendwise-dev/spendwise/internal/session"
)

var (
	// ErrLoginRequired means no token is present; no request was issued.
	ErrLoginRequired = errors.New("not logged in")
	// ErrSessionExpired means the backend rejected the token and the
	// session has been cleared.
	ErrSessionExpired = errors.New("session expired")
)

// DefaultRedirectDelay is the pause between showing the session-expired
// message and tearing the session down, so the message is visible first.
const DefaultRedirectDelay = 2 * time.Second

// Backend is the slice of the API client the views consume.
type Backend interface {
	Dashboard(ctx context.Context, token string) (*model.DashboardSummary, error)
	ListExpenses(ctx context.Context, token string, skip, limit int) ([]model.Expense, error)
	CreateExpense(ctx context.Context, token string, req api.ExpenseRequest) (*model.Expense, error)
	UpdateExpense(ctx context.Context, token string, id int, req api.ExpenseRequest) (*model.Expense, error)
	DeleteExpense(ctx context.Context, token string, id int) error
	ListCategories(ctx context.Context, token string) ([]model.Category, error)
	CreateCategory(ctx context.Context, token string, req api.CategoryRequest) (*model.Category, error)
	DeleteCategory(ctx context.Context, token string, id int) error
}

var monthNames = [...]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// formatMonth renders "January 2024". The no-date bucket renders as
// "Undated".
func formatMonth(year, month int) string {
	if month < 1 || month > 12 {
		return "Undated"
	}
	return fmt.Sprintf("%s %d", monthNames[month-1], year)
}

// expireSession surfaces the expiry, waits out the delay, and clears the
// session. Always returns ErrSessionExpired.
func expireSession(sess *session.Session, out io.Writer, log *logging.Logger, delay time.Duration) error {
	fmt.Fprintln(out, "Session expired. Please login again.")
	if delay > 0 {
		time.Sleep(delay)
	}
	if err := sess.Logout(); err != nil {
		log.Error("clearing session failed", logging.FieldError, err)
	}
	return ErrSessionExpired
}
