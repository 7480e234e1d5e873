package sql

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/authkit-go/sqlstore/dialect"
	"github.com/authkit-go/sqlstore/predicate"
)

func TestBuilderQuote(t *testing.T) {
	require.Equal(t, "`users`", NewBuilder(dialect.MySQL).Quote("users"))
	require.Equal(t, `"users"`, NewBuilder(dialect.Postgres).Quote("users"))
	require.Equal(t, `"users"`, NewBuilder(dialect.SQLite).Quote("users"))
}

func TestBuilderInsert(t *testing.T) {
	query, args := NewBuilder(dialect.SQLite).Insert("users", []string{"id", "email"}, []any{"u1", "a@x.com"})
	require.Equal(t, `INSERT INTO "users" ("id", "email") VALUES (?, ?)`, query)
	require.Equal(t, []any{"u1", "a@x.com"}, args)

	query, _ = NewBuilder(dialect.Postgres).Insert("users", []string{"id", "email"}, []any{"u1", "a@x.com"})
	require.Equal(t, `INSERT INTO "users" ("id", "email") VALUES ($1, $2)`, query)
}

func TestBuilderSelect(t *testing.T) {
	b := NewBuilder(dialect.SQLite)
	p := predicate.Predicate{{{Column: "email", Op: predicate.OpEQ, Value: "a@x.com"}}}

	query, args := b.Select("users", p, SelectOptions{})
	require.Equal(t, `SELECT * FROM "users" WHERE "email" = ?`, query)
	require.Equal(t, []any{"a@x.com"}, args)

	query, _ = b.Select("users", nil, SelectOptions{
		Columns: []string{"id", "name"},
		OrderBy: "name",
		Limit:   2,
		Offset:  4,
	})
	require.Equal(t, `SELECT "id", "name" FROM "users" ORDER BY "name" ASC LIMIT 2 OFFSET 4`, query)

	query, _ = b.Select("users", nil, SelectOptions{OrderBy: "name", Desc: true})
	require.Equal(t, `SELECT * FROM "users" ORDER BY "name" DESC`, query)
}

func TestBuilderDisjunction(t *testing.T) {
	b := NewBuilder(dialect.Postgres)
	p := predicate.Predicate{
		{
			{Column: "email", Op: predicate.OpEQ, Value: "a@x.com"},
			{Column: "age", Op: predicate.OpGT, Value: 18},
		},
		{
			{Column: "name", Op: predicate.OpEQ, Value: "A"},
		},
	}
	query, args := b.Select("users", p, SelectOptions{})
	require.Equal(t, `SELECT * FROM "users" WHERE ("email" = $1 AND "age" > $2) OR ("name" = $3)`, query)
	require.Equal(t, []any{"a@x.com", 18, "A"}, args)
}

func TestBuilderOperators(t *testing.T) {
	b := NewBuilder(dialect.SQLite)
	for _, tt := range []struct {
		op    predicate.Op
		want  string
		value any
		arg   any
	}{
		{predicate.OpNEQ, `"c" <> ?`, 1, 1},
		{predicate.OpLT, `"c" < ?`, 1, 1},
		{predicate.OpLTE, `"c" <= ?`, 1, 1},
		{predicate.OpGT, `"c" > ?`, 1, 1},
		{predicate.OpGTE, `"c" >= ?`, 1, 1},
		{predicate.OpContains, `"c" LIKE ?`, "abc", "%abc%"},
		{predicate.OpStartsWith, `"c" LIKE ?`, "abc", "abc%"},
		{predicate.OpEndsWith, `"c" LIKE ?`, "abc", "%abc"},
	} {
		query, args := b.Select("t", predicate.Predicate{{{Column: "c", Op: tt.op, Value: tt.value}}}, SelectOptions{})
		require.Equal(t, `SELECT * FROM "t" WHERE `+tt.want, query, tt.op.String())
		require.Equal(t, []any{tt.arg}, args, tt.op.String())
	}

	query, args := b.Select("t", predicate.Predicate{{{Column: "c", Op: predicate.OpIsNull}}}, SelectOptions{})
	require.Equal(t, `SELECT * FROM "t" WHERE "c" IS NULL`, query)
	require.Empty(t, args)
}

func TestBuilderIn(t *testing.T) {
	b := NewBuilder(dialect.SQLite)

	query, args := b.Select("t", predicate.Predicate{{{Column: "c", Op: predicate.OpIn, Value: []any{1, 2, 3}}}}, SelectOptions{})
	require.Equal(t, `SELECT * FROM "t" WHERE "c" IN (?, ?, ?)`, query)
	require.Equal(t, []any{1, 2, 3}, args)

	query, args = b.Select("t", predicate.Predicate{{{Column: "c", Op: predicate.OpNotIn, Value: []string{"a"}}}}, SelectOptions{})
	require.Equal(t, `SELECT * FROM "t" WHERE "c" NOT IN (?)`, query)
	require.Equal(t, []any{"a"}, args)

	// Empty lists degenerate to constants.
	query, args = b.Select("t", predicate.Predicate{{{Column: "c", Op: predicate.OpIn, Value: []any{}}}}, SelectOptions{})
	require.Equal(t, `SELECT * FROM "t" WHERE 1 = 0`, query)
	require.Empty(t, args)

	query, _ = b.Select("t", predicate.Predicate{{{Column: "c", Op: predicate.OpNotIn, Value: []any{}}}}, SelectOptions{})
	require.Equal(t, `SELECT * FROM "t" WHERE 1 = 1`, query)
}

func TestBuilderUpdateDelete(t *testing.T) {
	b := NewBuilder(dialect.Postgres)
	p := predicate.Predicate{{{Column: "id", Op: predicate.OpEQ, Value: "u1"}}}

	query, args := b.Update("users", []string{"name", "email"}, []any{"B", "b@x.com"}, p)
	require.Equal(t, `UPDATE "users" SET "name" = $1, "email" = $2 WHERE "id" = $3`, query)
	require.Equal(t, []any{"B", "b@x.com", "u1"}, args)

	query, args = b.Delete("users", p)
	require.Equal(t, `DELETE FROM "users" WHERE "id" = $1`, query)
	require.Equal(t, []any{"u1"}, args)

	query, args = b.Delete("users", nil)
	require.Equal(t, `DELETE FROM "users"`, query)
	require.Empty(t, args)

	query, _ = b.Count("users", nil)
	require.Equal(t, `SELECT COUNT(*) FROM "users"`, query)
}
