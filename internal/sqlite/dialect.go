package sqlite

import (
	"strconv"
	"strings"
)

// dialect captures the few places where SQLite and PostgreSQL differ.
type dialect int

const (
	dialectSQLite dialect = iota
	dialectPostgres
)

func (d dialect) String() string {
	if d == dialectPostgres {
		return "postgres"
	}
	return "sqlite"
}

// listTablesQuery returns the catalog query that names existing tables.
func (d dialect) listTablesQuery() string {
	if d == dialectPostgres {
		return "SELECT table_name FROM information_schema.tables WHERE table_schema = current_schema()"
	}
	return "SELECT name FROM sqlite_master WHERE type = 'table'"
}

// newestFirst orders col descending with NULLs last. SQLite already
// ranks NULL below every value; PostgreSQL ranks it above.
func (d dialect) newestFirst(col string) string {
	if d == dialectPostgres {
		return col + " DESC NULLS LAST"
	}
	return col + " DESC"
}

// rebind rewrites ? placeholders as $1, $2, ... for PostgreSQL. Queries
// here never carry a literal question mark.
func (d dialect) rebind(query string) string {
	if d != dialectPostgres || !strings.Contains(query, "?") {
		return query
	}
	var sb strings.Builder
	sb.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			sb.WriteByte('$')
			sb.WriteString(strconv.Itoa(n))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
