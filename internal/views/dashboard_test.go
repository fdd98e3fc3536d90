package views_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spendwise-dev/spendwise/internal/api"
	"github.com/spendwise-dev/spendwise/internal/views"
)

// fakeBackend serves the dashboard's three endpoints and records mutations.
type fakeBackend struct {
	mu       sync.Mutex
	requests []string
	expenses string
	created  map[string]any
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{expenses: "[]"}
}

func (f *fakeBackend) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.requests = append(f.requests, r.Method+" "+r.URL.Path)
		f.mu.Unlock()

		switch {
		case r.URL.Path == "/analytics/dashboard":
			io.WriteString(w, `{"total_income": 200, "total_expenses": 50, "net_balance": 150}`)
		case r.URL.Path == "/expenses/" && r.Method == http.MethodGet:
			f.mu.Lock()
			body := f.expenses
			f.mu.Unlock()
			io.WriteString(w, body)
		case r.URL.Path == "/expenses/" && r.Method == http.MethodPost:
			var payload map[string]any
			json.NewDecoder(r.Body).Decode(&payload)
			f.mu.Lock()
			f.created = payload
			f.expenses = `[{"id": 1, "amount": 12.5, "description": "lunch", "date": "2024-01-15",
				"category": {"id": 3, "name": "Food", "type": "expense"}}]`
			f.mu.Unlock()
			w.WriteHeader(http.StatusCreated)
			io.WriteString(w, `{"id": 1}`)
		case r.URL.Path == "/categories/":
			io.WriteString(w, `[{"id": 3, "name": "Food", "type": "expense"}]`)
		default:
			http.NotFound(w, r)
		}
	})
}

func newDashboardView(t *testing.T, srvURL, token string) (*views.Dashboard, *bytes.Buffer) {
	t.Helper()
	sess := newTestSession(t, token)
	out := &bytes.Buffer{}
	view := views.NewDashboard(api.NewClient(srvURL, api.WithLogger(quietLogger())), sess, out, quietLogger())
	view.RedirectDelay = 0
	return view, out
}

func TestDashboard_LoadFetchesAllThree(t *testing.T) {
	backend := newFakeBackend()
	srv := httptest.NewServer(backend.handler())
	defer srv.Close()

	view, _ := newDashboardView(t, srv.URL, "tok")
	require.NoError(t, view.Load(context.Background()))

	require.NotNil(t, view.Summary)
	assert.Equal(t, "150", view.Summary.NetBalance.String())
	assert.Empty(t, view.Expenses)
	_, ok := view.Categories.Get(3)
	assert.True(t, ok)
	assert.Len(t, backend.requests, 3)
}

func TestDashboard_NoTokenMeansNoRequest(t *testing.T) {
	backend := newFakeBackend()
	srv := httptest.NewServer(backend.handler())
	defer srv.Close()

	view, _ := newDashboardView(t, srv.URL, "")
	err := view.Load(context.Background())
	assert.ErrorIs(t, err, views.ErrLoginRequired)
	assert.Empty(t, backend.requests)
}

func TestDashboard_UnauthorizedExpiresSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, `{"detail": "expired"}`)
	}))
	defer srv.Close()

	view, out := newDashboardView(t, srv.URL, "stale")
	err := view.Load(context.Background())
	assert.ErrorIs(t, err, views.ErrSessionExpired)
	assert.Contains(t, out.String(), "Session expired")
	assert.False(t, view.Session.LoggedIn())
}

func TestDashboard_AddExpenseNormalizesAndRefetches(t *testing.T) {
	backend := newFakeBackend()
	srv := httptest.NewServer(backend.handler())
	defer srv.Close()

	view, _ := newDashboardView(t, srv.URL, "tok")
	require.NoError(t, view.Load(context.Background()))

	err := view.AddExpense(context.Background(), views.ExpenseForm{
		Amount:      "12.50",
		Description: "lunch",
		Category:    "food", // resolved by name, case-insensitively
		Date:        "2024-01-15T10:30:00Z",
	})
	require.NoError(t, err)

	require.NotNil(t, backend.created)
	assert.Equal(t, 12.5, backend.created["amount"])
	assert.Equal(t, float64(3), backend.created["category_id"])
	assert.Equal(t, "2024-01-15", backend.created["date"], "timestamp must be truncated to the date")

	// The view reloaded the authoritative list instead of patching locally.
	require.Len(t, view.Expenses, 1)
	assert.Equal(t, "lunch", view.Expenses[0].Description)
}

func TestDashboard_AddExpenseRejectsBadInput(t *testing.T) {
	backend := newFakeBackend()
	srv := httptest.NewServer(backend.handler())
	defer srv.Close()

	view, _ := newDashboardView(t, srv.URL, "tok")

	err := view.AddExpense(context.Background(), views.ExpenseForm{
		Amount: "abc", Description: "x", Category: "3",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "amount")

	err = view.AddExpense(context.Background(), views.ExpenseForm{
		Amount: "-5", Description: "x", Category: "3",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "positive")

	err = view.AddExpense(context.Background(), views.ExpenseForm{
		Amount: "5", Description: "x", Category: "unknown-cat",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown category")
}

func TestDashboard_Render(t *testing.T) {
	backend := newFakeBackend()
	backend.expenses = `[{"id": 1, "amount": 9.99, "description": "coffee", "date": "2024-03-01"}]`
	srv := httptest.NewServer(backend.handler())
	defer srv.Close()

	view, out := newDashboardView(t, srv.URL, "tok")
	require.NoError(t, view.Load(context.Background()))
	view.Render()

	rendered := out.String()
	assert.Contains(t, rendered, "Total Income:   200.00")
	assert.Contains(t, rendered, "Net Balance:    150.00")
	assert.Contains(t, rendered, "coffee")
	assert.Contains(t, rendered, "N/A", "uncategorized expenses render as N/A")
	assert.Contains(t, rendered, "-9.99")
}
