// Package importer extracts candidate value lists from the sources callers
// typically hold: delimited text files, report tables, or loosely typed JSON
// payloads. Every helper normalises to a flat []string before the sync
// engine sees the data.
package importer

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"admanager-sync/core/table"
	"admanager-sync/core/utils"
)

// FromCSVFile extracts one column of values from a delimited text file.
// Each line is split on whitespace and the cell at column taken; lines with
// too few cells are skipped. When skipHeader is set the first extracted
// value is dropped, and when uniquesOnly is set duplicates are removed
// preserving first-occurrence order.
func FromCSVFile(path string, column int, skipHeader, uniquesOnly bool) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening values file: %w", err)
	}
	defer f.Close()

	var values []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		cells := strings.Fields(scanner.Text())
		if column < len(cells) {
			values = append(values, cells[column])
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading values file: %w", err)
	}

	if uniquesOnly {
		values = Unique(values)
	}
	if skipHeader && len(values) > 0 {
		values = values[1:]
	}
	return values, nil
}

// FromTable extracts a column of values from a report table. An empty
// columnName selects the first column.
func FromTable(t *table.Table, columnName string, uniquesOnly bool) ([]string, error) {
	if columnName == "" {
		if len(t.Columns) == 0 {
			return nil, fmt.Errorf("table has no columns")
		}
		columnName = t.Columns[0]
	}

	values, err := t.Column(columnName)
	if err != nil {
		return nil, err
	}
	if uniquesOnly {
		values = Unique(values)
	}
	return values, nil
}

// FromAny stringifies a loosely typed value list, e.g. a decoded JSON array
// mixing numbers and strings.
func FromAny(values []any) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		out = append(out, utils.ToString(value))
	}
	return out
}

// Unique removes duplicates preserving first-occurrence order.
func Unique(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, value := range values {
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		out = append(out, value)
	}
	return out
}
