// Package export reads and writes expense lists as CSV, for getting data
// out of (and bulk-loading it into) the backend.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/spendwise-dev/spendwise/internal/model"
)

const (
	numFields      = 6
	colID          = 0
	colDate        = 1
	colDescription = 2
	colAmount      = 3
	colCategory    = 4
	colType        = 5
)

var header = []string{"id", "date", "description", "amount", "category", "type"}

// WriteExpenses writes the expense list as CSV.
func WriteExpenses(w io.Writer, expenses []model.Expense) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, e := range expenses {
		if err := cw.Write(MarshalExpense(e)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// MarshalExpense converts an Expense to a CSV row.
func MarshalExpense(e model.Expense) []string {
	row := make([]string, numFields)
	row[colID] = strconv.Itoa(e.ID)
	row[colDate] = e.Date.String()
	row[colDescription] = e.Description
	row[colAmount] = e.Amount.StringFixed(2)
	if e.Category != nil {
		row[colCategory] = e.Category.Name
		row[colType] = string(e.Category.Type)
	}
	return row
}

// Row is one parsed import row. The category is kept as written; resolving
// it to an id happens against the fetched category list.
type Row struct {
	Date        model.Date
	Description string
	Amount      decimal.Decimal
	Category    string
}

// ReadRows reads an import CSV with columns date,description,amount,category
// (header row required).
func ReadRows(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 4

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading import CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	var rows []Row
	for i, rec := range records[1:] {
		row, err := unmarshalRow(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func unmarshalRow(record []string) (Row, error) {
	date, err := model.ParseDate(record[0])
	if err != nil {
		return Row{}, err
	}
	amount, err := decimal.NewFromString(record[2])
	if err != nil {
		return Row{}, fmt.Errorf("parsing amount %q: %w", record[2], err)
	}
	return Row{
		Date:        date,
		Description: record[1],
		Amount:      amount,
		Category:    record[3],
	}, nil
}
