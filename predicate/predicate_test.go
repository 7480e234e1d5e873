package predicate

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/authkit-go/sqlstore/schema"
)

func testRegistry() *schema.Registry {
	return schema.NewRegistry(schema.Model{
		Name: "user",
		Fields: []schema.Field{
			{Name: "email", Type: schema.TypeString},
			{Name: "displayName", Column: "display_name", Type: schema.TypeString},
			{Name: "age", Type: schema.TypeNumber},
		},
	})
}

func TestParseOp(t *testing.T) {
	for _, tt := range []struct {
		in   string
		want Op
	}{
		{"", OpEQ},
		{"eq", OpEQ},
		{"ne", OpNEQ},
		{"lt", OpLT},
		{"lte", OpLTE},
		{"gt", OpGT},
		{"gte", OpGTE},
		{"in", OpIn},
		{"not_in", OpNotIn},
		{"contains", OpContains},
		{"starts_with", OpStartsWith},
		{"ends_with", OpEndsWith},
	} {
		op, err := ParseOp(tt.in)
		require.NoError(t, err, tt.in)
		require.Equal(t, tt.want, op, tt.in)
	}

	_, err := ParseOp("like")
	require.Error(t, err)
	// The soft-delete marker operator is not part of the clause language.
	_, err = ParseOp("is_null")
	require.Error(t, err)
}

func TestCompileEmpty(t *testing.T) {
	p, err := Compile(testRegistry(), "user", nil)
	require.NoError(t, err)
	require.True(t, p.MatchAll())
}

func TestCompileConjunction(t *testing.T) {
	p, err := Compile(testRegistry(), "user", []Clause{
		Eq("email", "a@x.com"),
		Gt("age", 18),
	})
	require.NoError(t, err)
	require.Len(t, p, 1)
	require.Equal(t, Conj{
		{Column: "email", Op: OpEQ, Value: "a@x.com"},
		{Column: "age", Op: OpGT, Value: 18},
	}, p[0])
}

func TestCompileColumnResolution(t *testing.T) {
	p, err := Compile(testRegistry(), "user", []Clause{
		Eq("displayName", "A"),
		Eq("id", "u1"),
	})
	require.NoError(t, err)
	require.Len(t, p, 1)
	require.Equal(t, "display_name", p[0][0].Column)
	require.Equal(t, "id", p[0][1].Column)
}

func TestCompileDisjunction(t *testing.T) {
	p, err := Compile(testRegistry(), "user", []Clause{
		Eq("email", "a@x.com"),
		Gt("age", 18),
		WithOr(Eq("displayName", "A")),
		Lt("age", 10),
	})
	require.NoError(t, err)
	require.Len(t, p, 2)
	require.Len(t, p[0], 2)
	require.Equal(t, Conj{
		{Column: "display_name", Op: OpEQ, Value: "A"},
		{Column: "age", Op: OpLT, Value: 10},
	}, p[1])
}

// A later clause on the same column replaces the earlier one within a
// group. Documented behavior of the clause language, pinned here.
func TestCompileOverwrite(t *testing.T) {
	p, err := Compile(testRegistry(), "user", []Clause{
		Gt("age", 18),
		Lt("age", 65),
	})
	require.NoError(t, err)
	require.Len(t, p, 1)
	require.Equal(t, Conj{{Column: "age", Op: OpLT, Value: 65}}, p[0])

	// Groups are independent: the same column may appear in each.
	p, err = Compile(testRegistry(), "user", []Clause{
		Gt("age", 18),
		WithOr(Lt("age", 10)),
	})
	require.NoError(t, err)
	require.Len(t, p, 2)
}

func TestCompileUnknownModel(t *testing.T) {
	_, err := Compile(testRegistry(), "account", []Clause{Eq("id", "1")})
	require.Error(t, err)
	var serr *schema.Error
	require.ErrorAs(t, err, &serr)
}
