package sqlstore

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver
	"github.com/pressly/goose/v3"
	"modernc.org/sqlite" // also registers the "sqlite" database/sql driver
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/sakif/todo-api/internal/config"
)

// pgUniqueViolation is the SQLSTATE for unique_violation.
const pgUniqueViolation = "23505"

// dialect captures what differs between the two backends.
type dialect struct {
	name          string
	driverName    string
	goose         goose.Dialect
	migrationsDir string
}

func dialectFor(driver string) (dialect, error) {
	switch driver {
	case config.DriverSQLite:
		return dialect{
			name:          config.DriverSQLite,
			driverName:    "sqlite",
			goose:         goose.DialectSQLite3,
			migrationsDir: "migrations/sqlite",
		}, nil
	case config.DriverPostgres:
		return dialect{
			name:          config.DriverPostgres,
			driverName:    "pgx",
			goose:         goose.DialectPostgres,
			migrationsDir: "migrations/postgres",
		}, nil
	default:
		return dialect{}, fmt.Errorf("sqlstore: unsupported driver %q", driver)
	}
}

// dataSource adds the per-connection pragmas SQLite needs. Foreign keys are
// off by default in SQLite and have to be enabled on every connection.
func (d dialect) dataSource(dsn string) string {
	if d.name != config.DriverSQLite {
		return dsn
	}
	sep := "?"
	if strings.ContainsRune(dsn, '?') {
		sep = "&"
	}
	return dsn + sep + strings.Join([]string{
		"_pragma=foreign_keys(1)",
		"_pragma=busy_timeout(5000)",
		"_pragma=journal_mode(WAL)",
	}, "&")
}

func (d dialect) configurePool(conn *sql.DB) {
	switch d.name {
	case config.DriverSQLite:
		// One connection serializes writes and keeps ":memory:" databases
		// from splitting into one database per pooled connection.
		conn.SetMaxOpenConns(1)
	case config.DriverPostgres:
		conn.SetMaxOpenConns(postgresMaxOpenConns)
		conn.SetMaxIdleConns(postgresMaxIdleConns)
		conn.SetConnMaxLifetime(postgresConnMaxLifetime)
	}
}

// rebind rewrites ? placeholders to $1, $2, ... for Postgres. The queries in
// this package never contain a literal '?', so no quoting rules apply.
func (d dialect) rebind(query string) string {
	if d.name != config.DriverPostgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// isUniqueViolation reports whether err came from a UNIQUE or PRIMARY KEY
// constraint.
func (d dialect) isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}

	var sqErr *sqlite.Error
	if errors.As(err, &sqErr) {
		switch sqErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return true
		case sqlite3.SQLITE_CONSTRAINT:
			// Extended result codes disabled: fall back to the message.
			return strings.Contains(sqErr.Error(), "UNIQUE constraint failed")
		}
	}
	return false
}
