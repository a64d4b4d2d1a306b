package gam

import (
	"net/url"
	"strconv"
	"strings"
)

// Statement expresses the platform's filter language plus a paging window.
// Bind parameters referenced as ":name" in Query are substituted client-side
// before the filter is sent.
type Statement struct {
	// Query is the filter expression, e.g. "customTargetingKeyId = :keyId".
	Query string
	// Params maps bind parameter names to string values. They are always
	// rendered quoted, numeric-looking names included, since the compared
	// fields are strings.
	Params map[string]string
	// IDParams maps bind parameter names to numeric identifiers. They are
	// rendered unquoted.
	IDParams map[string]int64
	// Offset is the zero-based index of the first row to return.
	Offset int
	// Limit caps the number of rows returned. Zero means platform default.
	Limit int
}

// Filter returns the query with all bind parameters substituted.
func (st Statement) Filter() string {
	filter := st.Query
	for name, value := range st.Params {
		filter = strings.ReplaceAll(filter, ":"+name, quoteString(value))
	}
	for name, id := range st.IDParams {
		filter = strings.ReplaceAll(filter, ":"+name, strconv.FormatInt(id, 10))
	}
	return filter
}

// Values encodes the statement as URL query parameters.
func (st Statement) Values() url.Values {
	v := url.Values{}
	if filter := st.Filter(); filter != "" {
		v.Set("filter", filter)
	}
	if st.Offset > 0 {
		v.Set("offset", strconv.Itoa(st.Offset))
	}
	if st.Limit > 0 {
		v.Set("limit", strconv.Itoa(st.Limit))
	}
	return v
}

// QuoteStringList renders items as a parenthesised, quoted list suitable for
// an IN clause, e.g. ('a','b').
func QuoteStringList(items []string) string {
	quoted := make([]string, 0, len(items))
	for _, item := range items {
		quoted = append(quoted, quoteString(item))
	}
	return "(" + strings.Join(quoted, ",") + ")"
}

// QuoteIDList renders numeric IDs as a parenthesised list, e.g. (1,2,3).
func QuoteIDList(ids []int64) string {
	rendered := make([]string, 0, len(ids))
	for _, id := range ids {
		rendered = append(rendered, strconv.FormatInt(id, 10))
	}
	return "(" + strings.Join(rendered, ",") + ")"
}

// quoteString wraps a value in single quotes, escaping embedded quotes.
func quoteString(value string) string {
	return "'" + strings.ReplaceAll(value, "'", "''") + "'"
}

// KeyFilter builds the statement matching all values of one key.
func KeyFilter(keyID int64) Statement {
	return Statement{
		Query:    "customTargetingKeyId = :keyId",
		IDParams: map[string]int64{"keyId": keyID},
	}
}
