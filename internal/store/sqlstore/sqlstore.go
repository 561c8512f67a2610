// Package sqlstore implements the store repositories on a SQL database through
// sqlx. MySQL, PostgreSQL and SQLite are supported; queries are written with
// '?' placeholders and rebound for the connected driver.
package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/01moynul/reboot-golang/internal/database"
	"github.com/01moynul/reboot-golang/internal/store"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id         VARCHAR(36)   NOT NULL PRIMARY KEY,
		email      VARCHAR(255)  NOT NULL UNIQUE,
		name       VARCHAR(255)  NOT NULL DEFAULT '',
		role       VARCHAR(16)   NOT NULL,
		photo_url  VARCHAR(1024) NOT NULL DEFAULT '',
		verified   BOOLEAN       NOT NULL DEFAULT FALSE,
		created_at {{timestamp}} NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS categories (
		id         VARCHAR(36)  NOT NULL PRIMARY KEY,
		name       VARCHAR(255) NOT NULL,
		slug       VARCHAR(255) NOT NULL UNIQUE,
		created_at {{timestamp}} NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		id             VARCHAR(36)      NOT NULL PRIMARY KEY,
		name           VARCHAR(255)     NOT NULL,
		image          VARCHAR(1024)    NOT NULL DEFAULT '',
		location       VARCHAR(255)     NOT NULL DEFAULT '',
		item_condition VARCHAR(64)      NOT NULL DEFAULT '',
		description    TEXT             NOT NULL,
		phone          VARCHAR(64)      NOT NULL DEFAULT '',
		years_of_use   DOUBLE PRECISION NOT NULL DEFAULT 0,
		original_price DOUBLE PRECISION NOT NULL DEFAULT 0,
		resale_price   DOUBLE PRECISION NOT NULL DEFAULT 0,
		seller_name    VARCHAR(255)     NOT NULL DEFAULT '',
		seller_email   VARCHAR(255)     NOT NULL,
		category       VARCHAR(255)     NOT NULL,
		status         VARCHAR(32)      NOT NULL,
		sponsored      BOOLEAN          NOT NULL DEFAULT FALSE,
		posting_date   {{timestamp}}    NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id               VARCHAR(36)      NOT NULL PRIMARY KEY,
		buyer_email      VARCHAR(255)     NOT NULL,
		buyer_name       VARCHAR(255)     NOT NULL DEFAULT '',
		product_id       VARCHAR(36)      NOT NULL,
		product_name     VARCHAR(255)     NOT NULL DEFAULT '',
		price            DOUBLE PRECISION NOT NULL DEFAULT 0,
		phone            VARCHAR(64)      NOT NULL DEFAULT '',
		meeting_location VARCHAR(255)     NOT NULL DEFAULT '',
		order_date       {{timestamp}}    NOT NULL
	)`,
}

// timestampType is the column type for server timestamps. MySQL's bare
// TIMESTAMP keeps whole seconds and may auto-update on UPDATE; SQLite only
// scans the exact type name TIMESTAMP back into time.Time.
func timestampType(driver string) string {
	if driver == database.DriverMySQL {
		return "DATETIME(3)"
	}
	return "TIMESTAMP"
}

// schemaFor returns the DDL for driver.
func schemaFor(driver string) []string {
	out := make([]string, len(schema))
	for i, ddl := range schema {
		out[i] = strings.ReplaceAll(ddl, "{{timestamp}}", timestampType(driver))
	}
	return out
}

// EnsureSchema creates the four tables if they do not exist yet.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	for _, ddl := range schemaFor(db.DriverName()) {
		if _, err := db.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// New returns a store.Store backed by db. Closing the store closes db.
func New(db *sqlx.DB) *store.Store {
	return store.New(
		&userRepo{db: db},
		&categoryRepo{db: db},
		&productRepo{db: db},
		&orderRepo{db: db},
		func(context.Context) error { return db.Close() },
	)
}

// isUniqueViolation recognizes duplicate-key errors from each supported driver.
func isUniqueViolation(err error) bool {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == 1062
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		return liteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
	}
	return false
}

// where accumulates AND-ed predicates and their arguments.
type where struct {
	clauses []string
	args    []interface{}
}

func (w *where) add(clause string, arg interface{}) {
	w.clauses = append(w.clauses, clause)
	w.args = append(w.args, arg)
}

func (w *where) String() string {
	if len(w.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.clauses, " AND ")
}

// limit appends a LIMIT clause when n is positive.
func limit(query string, args []interface{}, n int64) (string, []interface{}) {
	if n <= 0 {
		return query, args
	}
	return query + " LIMIT ?", append(args, n)
}
