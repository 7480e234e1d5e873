// Package schema declares the model registry the storage adapter
// translates for.
//
// A Registry maps logical model names to physical tables and each logical
// field to a Field descriptor carrying its column override, type tag,
// required/unique flags, and optional default. The registry is supplied by
// the calling framework and is read-only to the adapter.
//
// # Quick Start
//
//	reg := schema.NewRegistry(schema.Model{
//	    Name: "user",
//	    Fields: []schema.Field{
//	        {Name: "email", Type: schema.TypeString, Required: true, Unique: true},
//	        {Name: "name", Type: schema.TypeString, Required: true},
//	        {Name: "createdAt", Type: schema.TypeDate, DefaultFunc: func() any { return time.Now() }},
//	    },
//	})
//
// The identifier field is implicit: every model carries a string-typed
// primary column named "id" that is never listed in Fields.
//
// Name resolution is a pure lookup. Table and Column fall back to the
// logical name when no physical override is declared, and referencing an
// unknown model fails with *schema.Error.
package schema
