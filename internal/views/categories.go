package views

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spendwise-dev/spendwise/internal/api"
	"github.com/spendwise-dev/spendwise/internal/logging"
	"github.com/spendwise-dev/spendwise/internal/model"
	"github.com/spendwise-dev/spendwise/internal/session"
)

// Categories manages the category list, shown partitioned into income and
// expense subsets.
type Categories struct {
	API           Backend
	Session       *session.Session
	Out           io.Writer
	Log           *logging.Logger
	RedirectDelay time.Duration

	Categories []model.Category
}

// NewCategories creates a Categories view.
func NewCategories(backend Backend, sess *session.Session, out io.Writer, log *logging.Logger) *Categories {
	return &Categories{
		API:           backend,
		Session:       sess,
		Out:           out,
		Log:           log.WithComponent(logging.ComponentViews),
		RedirectDelay: DefaultRedirectDelay,
	}
}

// Load fetches the category list.
func (c *Categories) Load(ctx context.Context) error {
	token := c.Session.Token()
	if token == "" {
		return ErrLoginRequired
	}
	categories, err := c.API.ListCategories(ctx, token)
	if err != nil {
		if api.IsUnauthorized(err) {
			return expireSession(c.Session, c.Out, c.Log, c.RedirectDelay)
		}
		fmt.Fprintln(c.Out, "Failed to load categories")
		return err
	}
	c.Categories = categories
	return nil
}

// Income returns the income subset, recomputed from the fetched list.
func (c *Categories) Income() []model.Category {
	return filterByType(c.Categories, model.CategoryTypeIncome)
}

// Expense returns the expense subset, recomputed from the fetched list.
func (c *Categories) Expense() []model.Category {
	return filterByType(c.Categories, model.CategoryTypeExpense)
}

func filterByType(categories []model.Category, t model.CategoryType) []model.Category {
	var result []model.Category
	for _, cat := range categories {
		if cat.Type == t {
			result = append(result, cat)
		}
	}
	return result
}

// Create adds a category and refetches the list.
func (c *Categories) Create(ctx context.Context, name string, categoryType model.CategoryType) error {
	token := c.Session.Token()
	if token == "" {
		return ErrLoginRequired
	}
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("category name must not be empty")
	}
	if !categoryType.Valid() {
		return fmt.Errorf("invalid category type %q: must be %q or %q",
			categoryType, model.CategoryTypeIncome, model.CategoryTypeExpense)
	}

	_, err := c.API.CreateCategory(ctx, token, api.CategoryRequest{Name: name, Type: categoryType})
	if err != nil {
		if api.IsUnauthorized(err) {
			return expireSession(c.Session, c.Out, c.Log, c.RedirectDelay)
		}
		if detail := api.Detail(err); detail != "" {
			return fmt.Errorf("failed to add category: %s", detail)
		}
		return fmt.Errorf("failed to add category: %w", err)
	}
	return c.Load(ctx)
}

// Delete removes a category by id and refetches the list. On failure the
// fetched list is left untouched; the backend rejects deletes of categories
// referenced by existing expenses.
func (c *Categories) Delete(ctx context.Context, id int) error {
	token := c.Session.Token()
	if token == "" {
		return ErrLoginRequired
	}
	if err := c.API.DeleteCategory(ctx, token, id); err != nil {
		if api.IsUnauthorized(err) {
			return expireSession(c.Session, c.Out, c.Log, c.RedirectDelay)
		}
		return fmt.Errorf("failed to delete category: %w (it may be in use by existing expenses)", err)
	}
	return c.Load(ctx)
}

// Render writes the two category sections.
func (c *Categories) Render() {
	fmt.Fprintln(c.Out, "Income Categories")
	renderCategoryList(c.Out, c.Income())
	fmt.Fprintln(c.Out)
	fmt.Fprintln(c.Out, "Expense Categories")
	renderCategoryList(c.Out, c.Expense())
}

func renderCategoryList(out io.Writer, categories []model.Category) {
	if len(categories) == 0 {
		fmt.Fprintln(out, "  (none)")
		return
	}
	for _, cat := range categories {
		fmt.Fprintf(out, "  %d\t%s\n", cat.ID, cat.Name)
	}
}
