package db

import (
	"database/sql"
	"strconv"
	"strings"
)

// Dialect identifies the SQL flavour spoken by a Database.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

type Database interface {
	Connect() error
	Close() error
	DB() *sql.DB
	Dialect() Dialect
}

// Rebind rewrites '?' placeholders into the form expected by the dialect.
// Queries in this repository are written with '?' and passed through Rebind
// before execution.
func Rebind(dialect Dialect, query string) string {
	if dialect != DialectPostgres {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}
