package commands_test

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spendwise-dev/spendwise/internal/commands"
)

// runCommand executes the CLI in-process and returns its combined output.
func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := commands.NewRootCommand()
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

// pointAtBackend routes the CLI at a fake backend and isolates its config
// dir.
func pointAtBackend(t *testing.T, url string) {
	t.Helper()
	t.Setenv("SPENDWISE_CONFIG_DIR", t.TempDir())
	t.Setenv("SPENDWISE_BASE_URL", url)
}

func TestRoot_HasSubcommands(t *testing.T) {
	cmd := commands.NewRootCommand()

	var names []string
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	for _, expected := range []string{
		"login", "register", "logout", "whoami",
		"dashboard", "monthly", "expense", "category", "stats",
	} {
		assert.Contains(t, names, expected)
	}
}

func TestLoginWhoamiLogoutFlow(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/login":
			require.NoError(t, r.ParseForm())
			if r.PostFormValue("password") != "hunter2" {
				w.WriteHeader(http.StatusUnauthorized)
				io.WriteString(w, `{"detail": "bad credentials"}`)
				return
			}
			io.WriteString(w, `{"access_token": "tok-123", "token_type": "bearer"}`)
		case "/auth/me":
			if r.Header.Get("Authorization") != "Bearer tok-123" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			io.WriteString(w, `{"id": 7, "email": "a@b.com"}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()
	pointAtBackend(t, srv.URL)

	out, err := runCommand(t, "login", "--email", "a@b.com", "--password", "hunter2")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged in as a@b.com")

	out, err = runCommand(t, "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "a@b.com (id 7)")

	out, err = runCommand(t, "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged out.")

	_, err = runCommand(t, "whoami")
	require.Error(t, err, "whoami after logout must fail without a token")
}

func TestLogin_BadCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, `{"detail": "bad credentials"}`)
	}))
	defer srv.Close()
	pointAtBackend(t, srv.URL)

	_, err := runCommand(t, "login", "--email", "a@b.com", "--password", "wrong")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "check your email and password")
}

func TestLogin_RequiresEmail(t *testing.T) {
	pointAtBackend(t, "http://unused.invalid")

	_, err := runCommand(t, "login", "--password", "x")
	require.Error(t, err)
}

func TestMonthly_EndToEnd(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/login":
			io.WriteString(w, `{"access_token": "tok", "token_type": "bearer"}`)
		case "/auth/me":
			io.WriteString(w, `{"id": 1, "email": "a@b.com"}`)
		case "/expenses/":
			io.WriteString(w, `[
				{"id": 1, "amount": 50, "description": "food", "date": "2024-01-15",
					"category": {"id": 2, "name": "Groceries", "type": "expense"}},
				{"id": 2, "amount": 200, "description": "pay", "date": "2024-01-20",
					"category": {"id": 1, "name": "Salary", "type": "income"}}
			]`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()
	pointAtBackend(t, srv.URL)

	_, err := runCommand(t, "login", "--email", "a@b.com", "--password", "pw")
	require.NoError(t, err)

	out, err := runCommand(t, "monthly")
	require.NoError(t, err)
	assert.Contains(t, out, "January 2024")
	assert.Contains(t, out, "Net Balance: 150.00")
}

func TestMonthly_NotLoggedIn(t *testing.T) {
	pointAtBackend(t, "http://unused.invalid")

	_, err := runCommand(t, "monthly")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "spendwise login")
}

func TestCategoryAdd_EndToEnd(t *testing.T) {
	var categories []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/login":
			io.WriteString(w, `{"access_token": "tok", "token_type": "bearer"}`)
		case "/auth/me":
			io.WriteString(w, `{"id": 1, "email": "a@b.com"}`)
		case "/categories/":
			if r.Method == http.MethodPost {
				categories = append(categories, `{"id": 1, "name": "Groceries", "type": "expense"}`)
				w.WriteHeader(http.StatusCreated)
				io.WriteString(w, categories[0])
				return
			}
			io.WriteString(w, "["+strings.Join(categories, ",")+"]")
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()
	pointAtBackend(t, srv.URL)

	_, err := runCommand(t, "login", "--email", "a@b.com", "--password", "pw")
	require.NoError(t, err)

	out, err := runCommand(t, "category", "add", "Groceries", "--type", "expense")
	require.NoError(t, err)
	assert.Contains(t, out, `Category "Groceries" added.`)
	assert.Contains(t, out, "Groceries")
}
