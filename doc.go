// Package sqlstore translates a storage-agnostic query model — logical
// model names, logical field names, and a small filter-clause language —
// into SQL operations against PostgreSQL, MySQL, or SQLite.
//
// The Adapter implements the seven logical operations (create, findOne,
// findMany, update, updateMany, delete/deleteMany, count) by resolving
// names through a schema.Registry, compiling where clauses with the
// predicate package, and executing repository primitives from
// dialect/sql. The migrate package diffs the registry against the live
// catalog and emits additive migration and entity artifacts.
//
//	drv, err := sql.Open(dialect.SQLite, "file:auth.db")
//	if err != nil { ... }
//	store := sqlstore.New(drv, reg)
//	user, err := store.Create(ctx, "user", sqlstore.Record{
//	    "email": "a@x.com",
//	    "name":  "A",
//	})
//
// Transactional work runs through Transaction, which hands the callback
// an adapter bound to the transaction scope:
//
//	err := store.Transaction(ctx, func(tx *sqlstore.Adapter) error {
//	    if _, err := tx.Create(ctx, "user", data); err != nil {
//	        return err
//	    }
//	    _, err := tx.Create(ctx, "account", account)
//	    return err
//	})
//
// The adapter holds no global state and takes no locks; concurrency is
// whatever the connection pool permits. A transaction scope owns its
// connection exclusively for its lifetime.
package sqlstore
