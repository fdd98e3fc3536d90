// Package api is the HTTP client for the SpendWise backend: one method per
// backend operation, bearer-token auth, no retries, no caching.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/spendwise-dev/spendwise/internal/logging"
	"github.com/spendwise-dev/spendwise/internal/model"
)

const (
	// DefaultExpenseLimit is the page size used when the caller does not
	// specify one.
	DefaultExpenseLimit = 100
	// DefaultMonths is the window for the backend monthly summary.
	DefaultMonths = 6
)

// Client talks to the SpendWise backend.
type Client struct {
	baseURL string
	http    *http.Client
	log     *logging.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithTimeout bounds each request.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithLogger sets the diagnostics logger.
func WithLogger(l *logging.Logger) Option {
	return func(c *Client) { c.log = l.WithComponent(logging.ComponentAPI) }
}

// NewClient creates a Client for the given base URL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		log:     logging.New(logging.Config{Component: logging.ComponentAPI}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RegisterRequest is the payload for creating an account.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse is the login response.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// ExpenseRequest is the payload for creating or updating an expense.
type ExpenseRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	CategoryID  int             `json:"category_id"`
	Date        model.Date      `json:"date"`
}

// CategoryRequest is the payload for creating a category.
type CategoryRequest struct {
	Name string             `json:"name"`
	Type model.CategoryType `json:"type"`
}

// Register creates a new account. No auth required.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*model.User, error) {
	var user model.User
	if err := c.do(ctx, http.MethodPost, "/auth/register", "", req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Login exchanges credentials for a bearer token. The backend expects a
// form-encoded body with "username" and "password" fields.
func (c *Client) Login(ctx context.Context, email, password string) (*TokenResponse, error) {
	form := url.Values{}
	form.Set("username", email)
	form.Set("password", password)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/login", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("building login request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var token TokenResponse
	if err := c.send(httpReq, &token); err != nil {
		return nil, err
	}
	return &token, nil
}

// CurrentUser looks up the user behind the token.
func (c *Client) CurrentUser(ctx context.Context, token string) (*model.User, error) {
	var user model.User
	if err := c.do(ctx, http.MethodGet, "/auth/me", token, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ListExpenses fetches a page of expenses. skip defaults to 0 and limit to
// DefaultExpenseLimit when non-positive.
func (c *Client) ListExpenses(ctx context.Context, token string, skip, limit int) ([]model.Expense, error) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = DefaultExpenseLimit
	}
	var expenses []model.Expense
	path := fmt.Sprintf("/expenses/?skip=%d&limit=%d", skip, limit)
	if err := c.do(ctx, http.MethodGet, path, token, nil, &expenses); err != nil {
		return nil, err
	}
	return expenses, nil
}

// CreateExpense records a new transaction.
func (c *Client) CreateExpense(ctx context.Context, token string, req ExpenseRequest) (*model.Expense, error) {
	var expense model.Expense
	if err := c.do(ctx, http.MethodPost, "/expenses/", token, req, &expense); err != nil {
		return nil, err
	}
	return &expense, nil
}

// UpdateExpense replaces an expense by id.
func (c *Client) UpdateExpense(ctx context.Context, token string, id int, req ExpenseRequest) (*model.Expense, error) {
	var expense model.Expense
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/expenses/%d", id), token, req, &expense); err != nil {
		return nil, err
	}
	return &expense, nil
}

// DeleteExpense removes an expense by id.
func (c *Client) DeleteExpense(ctx context.Context, token string, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/expenses/%d", id), token, nil, nil)
}

// ListCategories fetches all categories.
func (c *Client) ListCategories(ctx context.Context, token string) ([]model.Category, error) {
	var categories []model.Category
	if err := c.do(ctx, http.MethodGet, "/categories/", token, nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// CreateCategory creates a category.
func (c *Client) CreateCategory(ctx context.Context, token string, req CategoryRequest) (*model.Category, error) {
	var category model.Category
	if err := c.do(ctx, http.MethodPost, "/categories/", token, req, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

// DeleteCategory removes a category by id. The backend rejects the delete
// when the category is referenced by existing expenses.
func (c *Client) DeleteCategory(ctx context.Context, token string, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/categories/%d", id), token, nil, nil)
}

// Dashboard fetches the overall analytics summary.
func (c *Client) Dashboard(ctx context.Context, token string) (*model.DashboardSummary, error) {
	var summary model.DashboardSummary
	if err := c.do(ctx, http.MethodGet, "/analytics/dashboard", token, nil, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

// CategoryBreakdown fetches per-category totals.
func (c *Client) CategoryBreakdown(ctx context.Context, token string) ([]model.CategoryTotal, error) {
	var breakdown []model.CategoryTotal
	if err := c.do(ctx, http.MethodGet, "/analytics/by-category", token, nil, &breakdown); err != nil {
		return nil, err
	}
	return breakdown, nil
}

// MonthlySummary fetches the backend-computed summary for the last months
// months, defaulting to DefaultMonths when non-positive.
func (c *Client) MonthlySummary(ctx context.Context, token string, months int) ([]model.MonthlyPoint, error) {
	if months <= 0 {
		months = DefaultMonths
	}
	var points []model.MonthlyPoint
	path := fmt.Sprintf("/analytics/monthly?months=%d", months)
	if err := c.do(ctx, http.MethodGet, path, token, nil, &points); err != nil {
		return nil, err
	}
	return points, nil
}

// do builds a JSON request and decodes the JSON response into out. A
// non-empty token becomes an Authorization: Bearer header.
func (c *Client) do(ctx context.Context, method, path, token string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return c.send(req, out)
}

// send executes the request and decodes the response. Non-2xx responses
// become *Error; transport failures are returned as-is. Every request gets
// an X-Request-ID for log correlation.
func (c *Client) send(req *http.Request, out any) error {
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Error("request failed",
			logging.FieldMethod, req.Method,
			logging.FieldPath, req.URL.Path,
			logging.FieldRequestID, requestID,
			logging.FieldError, err)
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &Error{
			StatusCode: resp.StatusCode,
			Detail:     errorDetail(data),
			RequestID:  requestID,
		}
		c.log.Error("request rejected",
			logging.FieldMethod, req.Method,
			logging.FieldPath, req.URL.Path,
			logging.FieldStatusCode, resp.StatusCode,
			logging.FieldRequestID, requestID)
		return apiErr
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decoding response body: %w", err)
	}
	return nil
}
