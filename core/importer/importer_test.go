package importer

import (
	"os"
	"path/filepath"
	"testing"

	"admanager-sync/core/table"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeValuesFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "values.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestFromCSVFile(t *testing.T) {
	path := writeValuesFile(t, "country code\nUS 1\nCA 2\nUS 3\n")

	values, err := FromCSVFile(path, 0, true, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"US", "CA"}, values)
}

func TestFromCSVFile_SecondColumnWithDuplicates(t *testing.T) {
	path := writeValuesFile(t, "US 1\nCA 1\nMX 2\n")

	values, err := FromCSVFile(path, 1, false, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "1", "2"}, values)
}

func TestFromCSVFile_MissingFile(t *testing.T) {
	_, err := FromCSVFile(filepath.Join(t.TempDir(), "nope.csv"), 0, false, true)
	assert.Error(t, err)
}

func TestFromTable(t *testing.T) {
	tbl := &table.Table{
		Columns: []string{"country", "impressions"},
		Rows: [][]string{
			{"US", "100"},
			{"CA", "50"},
			{"US", "25"},
		},
	}

	// Named column, deduplicated.
	values, err := FromTable(tbl, "country", true)
	require.NoError(t, err)
	assert.Equal(t, []string{"US", "CA"}, values)

	// First column is the default.
	values, err = FromTable(tbl, "", false)
	require.NoError(t, err)
	assert.Equal(t, []string{"US", "CA", "US"}, values)
}

func TestFromAny(t *testing.T) {
	values := FromAny([]any{"US", float64(90210), true})
	assert.Equal(t, []string{"US", "90210", "true"}, values)
}

func TestUnique_PreservesFirstOccurrenceOrder(t *testing.T) {
	assert.Equal(t, []string{"b", "a", "c"}, Unique([]string{"b", "a", "b", "c", "a"}))
	assert.Empty(t, Unique(nil))
}
