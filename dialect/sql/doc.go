// Package sql provides the database/sql backed implementation of the
// dialect contracts: the driver and transaction wrappers, a per-dialect
// statement builder, the table-bound repository primitives, and catalog
// introspection.
package sql
