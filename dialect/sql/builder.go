package sql

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/authkit-go/sqlstore/dialect"
	"github.com/authkit-go/sqlstore/predicate"
)

// Builder renders statements for a single dialect. It covers exactly the
// statement shapes the repository needs: insert, select, count, update
// and delete over one table, with a compiled predicate as the filter.
type Builder struct {
	dialect string
}

// NewBuilder returns a statement builder for the given dialect.
func NewBuilder(dialect string) Builder {
	return Builder{dialect: dialect}
}

// Dialect returns the dialect the builder renders for.
func (b Builder) Dialect() string { return b.dialect }

// Quote quotes an identifier with the dialect quote character.
func (b Builder) Quote(ident string) string {
	if b.dialect == dialect.MySQL {
		return "`" + ident + "`"
	}
	return `"` + ident + `"`
}

// arg appends v and returns its placeholder.
func (b Builder) arg(args *[]any, v any) string {
	*args = append(*args, v)
	if b.dialect == dialect.Postgres {
		return "$" + strconv.Itoa(len(*args))
	}
	return "?"
}

// Insert renders an INSERT statement for the given columns. Values are
// appended to args in column order.
func (b Builder) Insert(table string, columns []string, values []any) (string, []any) {
	var (
		sb   strings.Builder
		args []any
	)
	sb.WriteString("INSERT INTO ")
	sb.WriteString(b.Quote(table))
	sb.WriteString(" (")
	for i, c := range columns {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(b.Quote(c))
	}
	sb.WriteString(") VALUES (")
	for i, v := range values {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(b.arg(&args, v))
	}
	sb.WriteString(")")
	return sb.String(), args
}

// SelectOptions controls the row-set shape of a Select statement.
type SelectOptions struct {
	// Columns restricts the selected columns. Empty selects all columns.
	Columns []string
	// OrderBy names the physical sort column. Empty means no ordering.
	OrderBy string
	// Desc reverses the sort direction.
	Desc bool
	// Limit caps the row count when positive.
	Limit int
	// Offset skips leading rows when positive.
	Offset int
}

// Select renders a SELECT statement filtered by the compiled predicate.
func (b Builder) Select(table string, p predicate.Predicate, opts SelectOptions) (string, []any) {
	var (
		sb   strings.Builder
		args []any
	)
	sb.WriteString("SELECT ")
	if len(opts.Columns) == 0 {
		sb.WriteString("*")
	} else {
		for i, c := range opts.Columns {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(b.Quote(c))
		}
	}
	sb.WriteString(" FROM ")
	sb.WriteString(b.Quote(table))
	b.writeWhere(&sb, &args, p)
	if opts.OrderBy != "" {
		sb.WriteString(" ORDER BY ")
		sb.WriteString(b.Quote(opts.OrderBy))
		if opts.Desc {
			sb.WriteString(" DESC")
		} else {
			sb.WriteString(" ASC")
		}
	}
	if opts.Limit > 0 {
		sb.WriteString(" LIMIT ")
		sb.WriteString(strconv.Itoa(opts.Limit))
	}
	if opts.Offset > 0 {
		sb.WriteString(" OFFSET ")
		sb.WriteString(strconv.Itoa(opts.Offset))
	}
	return sb.String(), args
}

// Count renders a COUNT statement filtered by the compiled predicate.
func (b Builder) Count(table string, p predicate.Predicate) (string, []any) {
	var (
		sb   strings.Builder
		args []any
	)
	sb.WriteString("SELECT COUNT(*) FROM ")
	sb.WriteString(b.Quote(table))
	b.writeWhere(&sb, &args, p)
	return sb.String(), args
}

// Update renders an UPDATE statement setting the given columns on all
// rows matching the compiled predicate.
func (b Builder) Update(table string, columns []string, values []any, p predicate.Predicate) (string, []any) {
	var (
		sb   strings.Builder
		args []any
	)
	sb.WriteString("UPDATE ")
	sb.WriteString(b.Quote(table))
	sb.WriteString(" SET ")
	for i, c := range columns {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(b.Quote(c))
		sb.WriteString(" = ")
		sb.WriteString(b.arg(&args, values[i]))
	}
	b.writeWhere(&sb, &args, p)
	return sb.String(), args
}

// Delete renders a DELETE statement for all rows matching the compiled
// predicate.
func (b Builder) Delete(table string, p predicate.Predicate) (string, []any) {
	var (
		sb   strings.Builder
		args []any
	)
	sb.WriteString("DELETE FROM ")
	sb.WriteString(b.Quote(table))
	b.writeWhere(&sb, &args, p)
	return sb.String(), args
}

// writeWhere renders the WHERE clause of a compiled predicate: groups are
// joined with OR, conditions within a group with AND. The match-all
// predicate renders nothing.
func (b Builder) writeWhere(sb *strings.Builder, args *[]any, p predicate.Predicate) {
	if p.MatchAll() {
		return
	}
	sb.WriteString(" WHERE ")
	multi := len(p) > 1
	for i, group := range p {
		if i > 0 {
			sb.WriteString(" OR ")
		}
		if multi {
			sb.WriteString("(")
		}
		for j, c := range group {
			if j > 0 {
				sb.WriteString(" AND ")
			}
			b.writeCond(sb, args, c)
		}
		if multi {
			sb.WriteString(")")
		}
	}
}

// writeCond renders a single condition.
func (b Builder) writeCond(sb *strings.Builder, args *[]any, c predicate.Cond) {
	col := b.Quote(c.Column)
	switch c.Op {
	case predicate.OpEQ:
		fmt.Fprintf(sb, "%s = %s", col, b.arg(args, c.Value))
	case predicate.OpNEQ:
		fmt.Fprintf(sb, "%s <> %s", col, b.arg(args, c.Value))
	case predicate.OpLT:
		fmt.Fprintf(sb, "%s < %s", col, b.arg(args, c.Value))
	case predicate.OpLTE:
		fmt.Fprintf(sb, "%s <= %s", col, b.arg(args, c.Value))
	case predicate.OpGT:
		fmt.Fprintf(sb, "%s > %s", col, b.arg(args, c.Value))
	case predicate.OpGTE:
		fmt.Fprintf(sb, "%s >= %s", col, b.arg(args, c.Value))
	case predicate.OpIn, predicate.OpNotIn:
		b.writeIn(sb, args, c)
	case predicate.OpContains:
		fmt.Fprintf(sb, "%s LIKE %s", col, b.arg(args, "%"+toString(c.Value)+"%"))
	case predicate.OpStartsWith:
		fmt.Fprintf(sb, "%s LIKE %s", col, b.arg(args, toString(c.Value)+"%"))
	case predicate.OpEndsWith:
		fmt.Fprintf(sb, "%s LIKE %s", col, b.arg(args, "%"+toString(c.Value)))
	case predicate.OpIsNull:
		fmt.Fprintf(sb, "%s IS NULL", col)
	}
}

// writeIn renders membership conditions. An empty value list can match no
// row (IN) or every row (NOT IN), so it degenerates to a constant.
func (b Builder) writeIn(sb *strings.Builder, args *[]any, c predicate.Cond) {
	values := toSlice(c.Value)
	if len(values) == 0 {
		if c.Op == predicate.OpIn {
			sb.WriteString("1 = 0")
		} else {
			sb.WriteString("1 = 1")
		}
		return
	}
	sb.WriteString(b.Quote(c.Column))
	if c.Op == predicate.OpNotIn {
		sb.WriteString(" NOT IN (")
	} else {
		sb.WriteString(" IN (")
	}
	for i, v := range values {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(b.arg(args, v))
	}
	sb.WriteString(")")
}

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

func toSlice(v any) []any {
	switch vs := v.(type) {
	case []any:
		return vs
	case []string:
		out := make([]any, len(vs))
		for i := range vs {
			out[i] = vs[i]
		}
		return out
	case nil:
		return nil
	default:
		return []any{v}
	}
}
