// Package table holds the in-memory tabular structure report results are
// converted into: named columns over rows of strings.
package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrEmpty reports that the source contained no rows at all, not even a
// header.
var ErrEmpty = errors.New("table: empty input")

// Table is a rows-by-named-columns result set.
type Table struct {
	// Columns are the column names, in source order.
	Columns []string
	// Rows hold one string cell per column.
	Rows [][]string
}

// ReadCSV parses CSV input into a Table. The first record is the header.
func ReadCSV(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading csv: %w", err)
	}
	if len(records) == 0 {
		return nil, ErrEmpty
	}

	return &Table{
		Columns: records[0],
		Rows:    records[1:],
	}, nil
}

// WriteCSV writes the table back out as CSV, header first.
func (t *Table) WriteCSV(w io.Writer) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(t.Columns); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	for _, row := range t.Rows {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("writing csv row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// Column returns the cells of the named column, in row order. Rows shorter
// than the column index contribute an empty string.
func (t *Table) Column(name string) ([]string, error) {
	index := -1
	for i, column := range t.Columns {
		if column == name {
			index = i
			break
		}
	}
	if index < 0 {
		return nil, fmt.Errorf("table: no column %q", name)
	}

	cells := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		if index < len(row) {
			cells[i] = row[index]
		}
	}
	return cells, nil
}

// StripColumnPrefixes removes the type prefix from column names like
// "Dimension.COUNTRY_NAME" or "Column.TOTAL_IMPRESSIONS": the name is split
// on the first dot and the suffix kept. Names without a dot are untouched.
func (t *Table) StripColumnPrefixes() {
	for i, column := range t.Columns {
		if _, suffix, found := strings.Cut(column, "."); found {
			t.Columns[i] = suffix
		}
	}
}
