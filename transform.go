package sqlstore

import (
	"github.com/authkit-go/sqlstore/schema"
)

// A Record is a logical record: a mapping from logical field names to
// values. Materialized records always carry the "id" key unless a select
// list excludes it.
type Record map[string]any

// action distinguishes the two write paths of the transformer.
type action int

const (
	actionCreate action = iota
	actionUpdate
)

// toPhysical converts a logical record into physical column/value pairs
// in schema order. Fields not declared in the model are dropped.
//
// On create, absent fields with a declared default are resolved (invoking
// DefaultFunc once per call) and the identifier column is seeded first.
// On update, absent fields are skipped entirely and present values pass
// through unchanged; defaults never apply.
func toPhysical(m schema.Model, data Record, act action, idgen func() string) (columns []string, values []any) {
	if act == actionCreate {
		id, ok := data[schema.ID]
		if !ok || id == "" {
			id = idgen()
		}
		columns = append(columns, schema.ID)
		values = append(values, id)
	}
	for _, f := range m.Fields {
		v, ok := data[f.Name]
		if !ok {
			if act != actionCreate || !f.HasDefault() {
				continue
			}
			v = f.DefaultValue()
		}
		columns = append(columns, f.ColumnName())
		values = append(values, v)
	}
	return columns, values
}

// toLogical converts a physical row back into a logical record. A nil row
// maps to a nil record. A non-empty select list acts as an allowlist of
// logical field names; the identifier is included unless such a list
// excludes it.
func toLogical(m schema.Model, row map[string]any, selectList []string) Record {
	if row == nil {
		return nil
	}
	rec := make(Record, len(m.Fields)+1)
	if included(selectList, schema.ID) {
		if v, ok := row[schema.ID]; ok {
			rec[schema.ID] = v
		}
	}
	for _, f := range m.Fields {
		if !included(selectList, f.Name) {
			continue
		}
		if v, ok := row[f.ColumnName()]; ok {
			rec[f.Name] = v
		}
	}
	return rec
}

// included reports whether the field passes the select allowlist. An
// empty list passes everything.
func included(selectList []string, field string) bool {
	if len(selectList) == 0 {
		return true
	}
	for _, s := range selectList {
		if s == field {
			return true
		}
	}
	return false
}

// selectColumns resolves a logical select list to physical columns.
func selectColumns(m schema.Model, selectList []string) []string {
	if len(selectList) == 0 {
		return nil
	}
	columns := make([]string, 0, len(selectList))
	for _, s := range selectList {
		if s == schema.ID {
			columns = append(columns, schema.ID)
			continue
		}
		if f, ok := m.Field(s); ok {
			columns = append(columns, f.ColumnName())
			continue
		}
		columns = append(columns, s)
	}
	return columns
}
