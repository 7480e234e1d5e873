package sql

import (
	"context"
	"fmt"
	"regexp"

	"github.com/authkit-go/sqlstore/dialect"
)

// validIdentifierRe validates SQL identifiers (alphanumeric, underscores, dots for schema.name)
var validIdentifierRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_.]*$`)

// isValidIdentifier checks if the string is a valid SQL identifier.
func isValidIdentifier(s string) bool {
	return s != "" && len(s) <= 128 && validIdentifierRe.MatchString(s)
}

// TableExists reports whether the physical table exists in the live
// catalog of the connected database.
func TableExists(ctx context.Context, conn dialect.ExecQuerier, dialectName, table string) (bool, error) {
	var (
		query string
		args  []any
	)
	switch dialectName {
	case dialect.SQLite:
		query = "SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?"
		args = []any{table}
	case dialect.MySQL:
		query = "SELECT table_name FROM information_schema.tables WHERE table_schema = DATABASE() AND table_name = ?"
		args = []any{table}
	case dialect.Postgres:
		query = "SELECT table_name FROM information_schema.tables WHERE table_schema = CURRENT_SCHEMA() AND table_name = $1"
		args = []any{table}
	default:
		return false, fmt.Errorf("dialect/sql: unsupported dialect %q", dialectName)
	}
	var rows Rows
	if err := conn.Query(ctx, query, args, &rows); err != nil {
		return false, err
	}
	defer rows.Close()
	return rows.Next(), rows.Err()
}

// TableColumns returns the physical column names of the table in
// definition order.
func TableColumns(ctx context.Context, conn dialect.ExecQuerier, dialectName, table string) ([]string, error) {
	var (
		query string
		args  []any
	)
	switch dialectName {
	case dialect.SQLite:
		// PRAGMA does not take bind parameters; the table name is an
		// identifier from the registry, validated before interpolation.
		if !isValidIdentifier(table) {
			return nil, fmt.Errorf("dialect/sql: invalid table name %q", table)
		}
		query = fmt.Sprintf("SELECT name FROM pragma_table_info('%s') ORDER BY cid", table)
	case dialect.MySQL:
		query = "SELECT column_name FROM information_schema.columns WHERE table_schema = DATABASE() AND table_name = ? ORDER BY ordinal_position"
		args = []any{table}
	case dialect.Postgres:
		query = "SELECT column_name FROM information_schema.columns WHERE table_schema = CURRENT_SCHEMA() AND table_name = $1 ORDER BY ordinal_position"
		args = []any{table}
	default:
		return nil, fmt.Errorf("dialect/sql: unsupported dialect %q", dialectName)
	}
	if args == nil {
		args = []any{}
	}
	var rows Rows
	if err := conn.Query(ctx, query, args, &rows); err != nil {
		return nil, err
	}
	defer rows.Close()
	var columns []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		columns = append(columns, name)
	}
	return columns, rows.Err()
}
