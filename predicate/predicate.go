package predicate

import (
	"fmt"

	"github.com/authkit-go/sqlstore/schema"
)

// An Op is a comparison operator of the where-clause language.
type Op int

// Where-clause operators.
const (
	OpEQ Op = iota // =
	OpNEQ
	OpLT
	OpLTE
	OpGT
	OpGTE
	OpIn
	OpNotIn
	// OpContains, OpStartsWith and OpEndsWith translate to pattern
	// matches. The raw value is wrapped in wildcards at render time
	// (%value%, value% and %value respectively); wildcard characters
	// inside the value are not escaped.
	OpContains
	OpStartsWith
	OpEndsWith
	// OpIsNull has no public clause constructor. It is added by the
	// adapter to filter soft-deleted rows.
	OpIsNull
)

var opNames = [...]string{
	OpEQ:         "eq",
	OpNEQ:        "ne",
	OpLT:         "lt",
	OpLTE:        "lte",
	OpGT:         "gt",
	OpGTE:        "gte",
	OpIn:         "in",
	OpNotIn:      "not_in",
	OpContains:   "contains",
	OpStartsWith: "starts_with",
	OpEndsWith:   "ends_with",
	OpIsNull:     "is_null",
}

func (o Op) String() string {
	if o < 0 || int(o) >= len(opNames) {
		return fmt.Sprintf("Op(%d)", int(o))
	}
	return opNames[o]
}

// ParseOp returns the operator named by s. The empty string parses as
// OpEQ, matching the clause language default.
func ParseOp(s string) (Op, error) {
	if s == "" {
		return OpEQ, nil
	}
	for op, name := range opNames {
		if name == s && Op(op) != OpIsNull {
			return Op(op), nil
		}
	}
	return 0, fmt.Errorf("predicate: unknown operator %q", s)
}

// A Connector joins a clause to the clauses before it.
type Connector int

// Clause connectors. And is the zero value and the clause-language
// default.
const (
	And Connector = iota
	Or
)

func (c Connector) String() string {
	if c == Or {
		return "OR"
	}
	return "AND"
}

// A Clause is one filter of an ordered where sequence, expressed in
// logical field names.
type Clause struct {
	Field     string
	Op        Op
	Value     any
	Connector Connector
}

// Eq filters rows whose field equals value.
func Eq(field string, value any) Clause {
	return Clause{Field: field, Op: OpEQ, Value: value}
}

// Neq filters rows whose field does not equal value.
func Neq(field string, value any) Clause {
	return Clause{Field: field, Op: OpNEQ, Value: value}
}

// Lt filters rows whose field is less than value.
func Lt(field string, value any) Clause {
	return Clause{Field: field, Op: OpLT, Value: value}
}

// Lte filters rows whose field is less than or equal to value.
func Lte(field string, value any) Clause {
	return Clause{Field: field, Op: OpLTE, Value: value}
}

// Gt filters rows whose field is greater than value.
func Gt(field string, value any) Clause {
	return Clause{Field: field, Op: OpGT, Value: value}
}

// Gte filters rows whose field is greater than or equal to value.
func Gte(field string, value any) Clause {
	return Clause{Field: field, Op: OpGTE, Value: value}
}

// In filters rows whose field value is in the given list.
func In(field string, values ...any) Clause {
	return Clause{Field: field, Op: OpIn, Value: values}
}

// NotIn filters rows whose field value is not in the given list.
func NotIn(field string, values ...any) Clause {
	return Clause{Field: field, Op: OpNotIn, Value: values}
}

// Contains filters rows whose field contains the substring value.
func Contains(field string, value string) Clause {
	return Clause{Field: field, Op: OpContains, Value: value}
}

// StartsWith filters rows whose field starts with value.
func StartsWith(field string, value string) Clause {
	return Clause{Field: field, Op: OpStartsWith, Value: value}
}

// EndsWith filters rows whose field ends with value.
func EndsWith(field string, value string) Clause {
	return Clause{Field: field, Op: OpEndsWith, Value: value}
}

// WithOr returns the clause joined to the preceding clauses with OR,
// starting a new conjunction group.
func WithOr(c Clause) Clause {
	c.Connector = Or
	return c
}

// A Cond is one compiled condition over a physical column.
type Cond struct {
	Column string
	Op     Op
	Value  any
}

// A Conj is a conjunction of conditions (implicit AND).
type Conj []Cond

// A Predicate is the compiled native form of a where sequence: a
// disjunction of conjunctions. A single group is a plain conjunction;
// an empty predicate matches all rows.
type Predicate []Conj

// MatchAll reports whether the predicate places no restriction on rows.
func (p Predicate) MatchAll() bool {
	if len(p) == 0 {
		return true
	}
	for _, g := range p {
		if len(g) > 0 {
			return false
		}
	}
	return true
}

// Compile translates an ordered where sequence into its native predicate
// form, resolving each logical field to its physical column through the
// registry. An empty sequence compiles to the match-all predicate.
//
// A clause connected with OR starts a new conjunction group; clauses
// before the next OR accumulate into the current group. Within one group
// a later clause on the same column replaces the earlier one instead of
// intersecting with it. That mirrors the source query language and is
// documented behavior, not a guarantee.
func Compile(reg *schema.Registry, model string, where []Clause) (Predicate, error) {
	if len(where) == 0 {
		return nil, nil
	}
	var (
		pred  Predicate
		group Conj
	)
	for _, c := range where {
		column, err := reg.Column(model, c.Field)
		if err != nil {
			return nil, err
		}
		if c.Connector == Or && len(group) > 0 {
			pred = append(pred, group)
			group = nil
		}
		group = assign(group, Cond{Column: column, Op: c.Op, Value: c.Value})
	}
	pred = append(pred, group)
	return pred, nil
}

// assign appends the condition to the group, replacing an existing
// condition on the same column. Last assignment per column wins.
func assign(group Conj, c Cond) Conj {
	for i := range group {
		if group[i].Column == c.Column {
			group[i] = c
			return group
		}
	}
	return append(group, c)
}
