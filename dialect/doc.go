// Package dialect provides the database dialect abstraction used by the
// storage adapter.
//
// It defines the interfaces and constants shared by the SQL backends,
// allowing the adapter to run unchanged against PostgreSQL, MySQL, and
// SQLite.
//
// # Dialect Constants
//
// Each dialect is identified by a constant string:
//
//	dialect.Postgres = "postgres"
//	dialect.MySQL    = "mysql"
//	dialect.SQLite   = "sqlite"
//
// # Driver Interface
//
// The Driver interface is the adapter's view of a database connection:
//
//	type Driver interface {
//	    Exec(ctx context.Context, query string, args, v any) error
//	    Query(ctx context.Context, query string, args, v any) error
//	    Tx(ctx context.Context) (Tx, error)
//	    Close() error
//	    Dialect() string
//	}
//
// The Tx interface extends ExecQuerier with Commit and Rollback, and is
// what a transaction scope operates on.
//
// The dialect/sql sub-package provides the database/sql backed
// implementation together with the statement builder, the table-bound
// repository primitives, and catalog introspection.
package dialect
