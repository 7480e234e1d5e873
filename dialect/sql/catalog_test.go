package sql

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/authkit-go/sqlstore/dialect"
)

func sqliteDriver(t *testing.T, name string) *Driver {
	t.Helper()
	drv, err := Open(dialect.SQLite, "file:"+name+"?mode=memory")
	require.NoError(t, err)
	// A private in-memory database lives and dies with its connection.
	drv.DB().SetMaxOpenConns(1)
	t.Cleanup(func() { _ = drv.Close() })
	return drv
}

func TestTableExists(t *testing.T) {
	ctx := context.Background()
	drv := sqliteDriver(t, "catalog_exists")
	_, err := drv.DB().ExecContext(ctx, "CREATE TABLE users (id text NOT NULL PRIMARY KEY, email text)")
	require.NoError(t, err)

	ok, err := TableExists(ctx, drv, dialect.SQLite, "users")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = TableExists(ctx, drv, dialect.SQLite, "sessions")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestTableColumns(t *testing.T) {
	ctx := context.Background()
	drv := sqliteDriver(t, "catalog_columns")
	_, err := drv.DB().ExecContext(ctx, "CREATE TABLE users (id text NOT NULL PRIMARY KEY, email text, display_name text)")
	require.NoError(t, err)

	columns, err := TableColumns(ctx, drv, dialect.SQLite, "users")
	require.NoError(t, err)
	require.Equal(t, []string{"id", "email", "display_name"}, columns)

	_, err = TableColumns(ctx, drv, dialect.SQLite, "users; DROP TABLE users")
	require.Error(t, err)
}

func TestUnsupportedDialect(t *testing.T) {
	drv := sqliteDriver(t, "catalog_dialect")
	_, err := TableExists(context.Background(), drv, "oracle", "users")
	require.Error(t, err)
	_, err = TableColumns(context.Background(), drv, "oracle", "users")
	require.Error(t, err)
}
