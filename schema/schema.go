package schema

import (
	"fmt"
)

// ID is the logical name of the identifier field. Every model carries it
// implicitly; it is always a string-typed primary column.
const ID = "id"

// SoftDeleteField is the logical name of the marker field a soft-delete
// model must declare.
const SoftDeleteField = "deletedAt"

// A Type is the logical type tag of a field.
type Type int

// Logical field types.
const (
	TypeString Type = iota
	TypeNumber
	TypeBool
	TypeDate
)

func (t Type) String() string {
	switch t {
	case TypeString:
		return "string"
	case TypeNumber:
		return "number"
	case TypeBool:
		return "bool"
	case TypeDate:
		return "date"
	default:
		return fmt.Sprintf("Type(%d)", int(t))
	}
}

// A Field describes one logical field of a model and how it maps to a
// physical column.
type Field struct {
	// Name is the logical field name callers use in records, where-clauses
	// and select lists.
	Name string
	// Column is the physical column name. Empty means the logical name is
	// used as-is.
	Column string
	// Type is the logical type tag.
	Type Type
	// Required marks the column NOT NULL.
	Required bool
	// Unique marks the column for a unique index.
	Unique bool
	// Default is a literal default value applied on create when the field
	// is absent from the input.
	Default any
	// DefaultFunc produces a default value per create call. It takes
	// precedence over Default and must be a pure function.
	DefaultFunc func() any
}

// ColumnName returns the physical column name of the field.
func (f Field) ColumnName() string {
	if f.Column != "" {
		return f.Column
	}
	return f.Name
}

// HasDefault reports whether the field declares a default value.
func (f Field) HasDefault() bool {
	return f.Default != nil || f.DefaultFunc != nil
}

// DefaultValue resolves the field default, invoking DefaultFunc when set.
func (f Field) DefaultValue() any {
	if f.DefaultFunc != nil {
		return f.DefaultFunc()
	}
	return f.Default
}

// A Model maps a logical model name to a physical table and its ordered
// field descriptors. The identifier field is implicit and not listed in
// Fields.
type Model struct {
	// Name is the logical model name.
	Name string
	// Table is the physical table name. Empty means the logical name is
	// used as-is.
	Table string
	// Fields holds the declared fields in order.
	Fields []Field
	// SoftDelete marks the model for marker-column deletion. The model
	// must declare the SoftDeleteField field.
	SoftDelete bool
}

// TableName returns the physical table name of the model.
func (m Model) TableName() string {
	if m.Table != "" {
		return m.Table
	}
	return m.Name
}

// Field returns the descriptor of the named logical field.
func (m Model) Field(name string) (Field, bool) {
	for _, f := range m.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Error is returned when a referenced model is not declared in the
// registry. It indicates a caller or configuration bug and is never
// retried.
type Error struct {
	Model string
}

func (e *Error) Error() string {
	return fmt.Sprintf("schema: model %q is not declared", e.Model)
}

// A Registry holds the model schemas the adapter translates for. It is
// read-only after construction.
type Registry struct {
	models map[string]Model
	order  []string
}

// NewRegistry returns a registry over the given models, preserving their
// declaration order.
func NewRegistry(models ...Model) *Registry {
	r := &Registry{models: make(map[string]Model, len(models))}
	for _, m := range models {
		if _, ok := r.models[m.Name]; !ok {
			r.order = append(r.order, m.Name)
		}
		r.models[m.Name] = m
	}
	return r
}

// Model returns the schema of the named model.
func (r *Registry) Model(name string) (Model, error) {
	m, ok := r.models[name]
	if !ok {
		return Model{}, &Error{Model: name}
	}
	return m, nil
}

// Models returns all registered models in declaration order.
func (r *Registry) Models() []Model {
	ms := make([]Model, 0, len(r.order))
	for _, name := range r.order {
		ms = append(ms, r.models[name])
	}
	return ms
}

// Table resolves the physical table name of the named model.
func (r *Registry) Table(model string) (string, error) {
	m, err := r.Model(model)
	if err != nil {
		return "", err
	}
	return m.TableName(), nil
}

// Column resolves the physical column name of a logical field. The
// identifier field maps to itself, and undeclared fields fall back to
// their logical name unchanged.
func (r *Registry) Column(model, field string) (string, error) {
	m, err := r.Model(model)
	if err != nil {
		return "", err
	}
	if field == ID {
		return ID, nil
	}
	if f, ok := m.Field(field); ok {
		return f.ColumnName(), nil
	}
	return field, nil
}
