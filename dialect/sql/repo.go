package sql

import (
	"context"

	"github.com/authkit-go/sqlstore/dialect"
	"github.com/authkit-go/sqlstore/predicate"
)

// Repository executes the repository primitives for one physical table.
// It is bound to a connection scope: constructing it over a transaction's
// ExecQuerier yields a transactional repository.
type Repository struct {
	conn    dialect.ExecQuerier
	builder Builder
	table   string
}

// NewRepository returns a repository for the given table, bound to conn.
func NewRepository(conn dialect.ExecQuerier, dialect, table string) *Repository {
	return &Repository{conn: conn, builder: NewBuilder(dialect), table: table}
}

// Table returns the physical table the repository operates on.
func (r *Repository) Table() string { return r.table }

// Insert persists one row with the given column values.
func (r *Repository) Insert(ctx context.Context, columns []string, values []any) error {
	query, args := r.builder.Insert(r.table, columns, values)
	return r.conn.Exec(ctx, query, args, nil)
}

// FindOne returns the first row matching the predicate, restricted to the
// given columns when non-empty. It returns nil without error when no row
// matches.
func (r *Repository) FindOne(ctx context.Context, p predicate.Predicate, columns []string) (map[string]any, error) {
	rows, err := r.FindMany(ctx, p, SelectOptions{Columns: columns, Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

// FindMany returns all rows matching the predicate, shaped by opts.
func (r *Repository) FindMany(ctx context.Context, p predicate.Predicate, opts SelectOptions) ([]map[string]any, error) {
	query, args := r.builder.Select(r.table, p, opts)
	var rows Rows
	if err := r.conn.Query(ctx, query, args, &rows); err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMaps(rows)
}

// Count returns the number of rows matching the predicate.
func (r *Repository) Count(ctx context.Context, p predicate.Predicate) (int64, error) {
	query, args := r.builder.Count(r.table, p)
	var rows Rows
	if err := r.conn.Query(ctx, query, args, &rows); err != nil {
		return 0, err
	}
	defer rows.Close()
	var n int64
	if rows.Next() {
		if err := rows.Scan(&n); err != nil {
			return 0, err
		}
	}
	return n, rows.Err()
}

// Update sets the given column values on all rows matching the predicate
// and returns the number of affected rows.
func (r *Repository) Update(ctx context.Context, columns []string, values []any, p predicate.Predicate) (int64, error) {
	query, args := r.builder.Update(r.table, columns, values, p)
	return r.exec(ctx, query, args)
}

// Delete removes all rows matching the predicate and returns the number
// of affected rows.
func (r *Repository) Delete(ctx context.Context, p predicate.Predicate) (int64, error) {
	query, args := r.builder.Delete(r.table, p)
	return r.exec(ctx, query, args)
}

func (r *Repository) exec(ctx context.Context, query string, args []any) (int64, error) {
	var res Result
	if err := r.conn.Exec(ctx, query, args, &res); err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// scanMaps drains the rows into column-keyed maps. Byte slices are
// normalized to strings, as drivers disagree on text column
// representation.
func scanMaps(rows Rows) ([]map[string]any, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	var out []map[string]any
	for rows.Next() {
		values := make([]any, len(columns))
		dest := make([]any, len(columns))
		for i := range values {
			dest[i] = &values[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		row := make(map[string]any, len(columns))
		for i, c := range columns {
			if b, ok := values[i].([]byte); ok {
				row[c] = string(b)
			} else {
				row[c] = values[i]
			}
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
