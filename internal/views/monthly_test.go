package views_test

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spendwise-dev/spendwise/internal/api"
	"github.com/spendwise-dev/spendwise/internal/views"
)

func newMonthlyView(t *testing.T, srvURL, token string) (*views.Monthly, *bytes.Buffer) {
	t.Helper()
	sess := newTestSession(t, token)
	out := &bytes.Buffer{}
	view := views.NewMonthly(api.NewClient(srvURL, api.WithLogger(quietLogger())), sess, out, quietLogger())
	return view, out
}

func TestMonthly_GroupsByMonth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/expenses/", r.URL.Path)
		io.WriteString(w, `[
			{"id": 1, "amount": 50, "description": "food", "date": "2024-01-15",
				"category": {"id": 2, "name": "Groceries", "type": "expense"}},
			{"id": 2, "amount": 200, "description": "pay", "date": "2024-01-20",
				"category": {"id": 1, "name": "Salary", "type": "income"}},
			{"id": 3, "amount": 30, "description": "gas", "date": "2024-02-01",
				"category": {"id": 2, "name": "Groceries", "type": "expense"}}
		]`)
	}))
	defer srv.Close()

	view, _ := newMonthlyView(t, srv.URL, "tok")
	require.NoError(t, view.Load(context.Background()))

	require.Len(t, view.Groups, 2)
	assert.Equal(t, 2, view.Groups[0].Month)
	assert.Equal(t, 1, view.Groups[1].Month)
	assert.Equal(t, "150", view.Groups[1].NetBalance.String())
}

func TestMonthly_UnauthorizedLogsOutImmediately(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, `{"detail": "expired"}`)
	}))
	defer srv.Close()

	view, out := newMonthlyView(t, srv.URL, "stale")
	err := view.Load(context.Background())
	assert.ErrorIs(t, err, views.ErrSessionExpired)
	assert.False(t, view.Session.LoggedIn())
	assert.Empty(t, out.String(), "no grace message on this view")
}

func TestMonthly_NoToken(t *testing.T) {
	view, _ := newMonthlyView(t, "http://unused.invalid", "")
	err := view.Load(context.Background())
	assert.ErrorIs(t, err, views.ErrLoginRequired)
}

func TestMonthly_RenderEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "[]")
	}))
	defer srv.Close()

	view, out := newMonthlyView(t, srv.URL, "tok")
	require.NoError(t, view.Load(context.Background()))
	view.Render()

	assert.Contains(t, out.String(), "No expenses yet")
}

func TestMonthly_RenderGroups(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[
			{"id": 1, "amount": 50, "description": "food", "date": "2024-01-15",
				"category": {"id": 2, "name": "Groceries", "type": "expense"}},
			{"id": 2, "amount": 200, "description": "pay", "date": "2024-01-20",
				"category": {"id": 1, "name": "Salary", "type": "income"}}
		]`)
	}))
	defer srv.Close()

	view, out := newMonthlyView(t, srv.URL, "tok")
	require.NoError(t, view.Load(context.Background()))
	view.Render()

	rendered := out.String()
	assert.Contains(t, rendered, "January 2024")
	assert.Contains(t, rendered, "Income:      200.00")
	assert.Contains(t, rendered, "Expenses:    50.00")
	assert.Contains(t, rendered, "Net Balance: 150.00")
	assert.Contains(t, rendered, "2 transactions")
	assert.Contains(t, rendered, "+200.00")
	assert.Contains(t, rendered, "-50.00")
}
