package migrate

import (
	"fmt"
	"strings"

	atlas "ariga.io/atlas/sql/migrate"

	"github.com/authkit-go/sqlstore/dialect"
	sqldialect "github.com/authkit-go/sqlstore/dialect/sql"
	"github.com/authkit-go/sqlstore/schema"
)

// plan renders a table diff as an atlas migration plan. Create plans
// reverse to a table drop. Alter plans reverse by dropping added columns
// and re-adding dropped ones — as nullable text, since the original type
// is not preserved across the round trip.
func (s *Synchronizer) plan(d TableDiff) (*atlas.Plan, Action) {
	b := sqldialect.NewBuilder(s.drv.Dialect())
	table := d.Model.TableName()
	if !d.Exists {
		plan := &atlas.Plan{Name: "create_" + table}
		plan.Changes = append(plan.Changes, &atlas.Change{
			Cmd:     s.createTable(b, d.Model),
			Reverse: fmt.Sprintf("DROP TABLE %s", b.Quote(table)),
			Comment: fmt.Sprintf("create %q table", table),
		})
		for _, f := range d.Model.Fields {
			if !uniqueIndexed(f) {
				continue
			}
			plan.Changes = append(plan.Changes, &atlas.Change{
				Cmd:     s.createUniqueIndex(b, table, f),
				Reverse: fmt.Sprintf("DROP INDEX %s", b.Quote(indexName(table, f))),
				Comment: fmt.Sprintf("create unique index on %q.%q", table, f.ColumnName()),
			})
		}
		return plan, Action{Table: table, Action: ActionCreate, AddColumns: columnNames(d.Model.Fields)}
	}
	plan := &atlas.Plan{Name: "alter_" + table}
	for _, f := range d.AddColumns {
		plan.Changes = append(plan.Changes, &atlas.Change{
			Cmd:     fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s", b.Quote(table), s.columnDef(b, f)),
			Reverse: fmt.Sprintf("ALTER TABLE %s DROP COLUMN %s", b.Quote(table), b.Quote(f.ColumnName())),
			Comment: fmt.Sprintf("add column %q to %q table", f.ColumnName(), table),
		})
		if uniqueIndexed(f) {
			plan.Changes = append(plan.Changes, &atlas.Change{
				Cmd:     s.createUniqueIndex(b, table, f),
				Reverse: fmt.Sprintf("DROP INDEX %s", b.Quote(indexName(table, f))),
				Comment: fmt.Sprintf("create unique index on %q.%q", table, f.ColumnName()),
			})
		}
	}
	for _, c := range d.DropColumns {
		plan.Changes = append(plan.Changes, &atlas.Change{
			Cmd: fmt.Sprintf("ALTER TABLE %s DROP COLUMN %s", b.Quote(table), b.Quote(c)),
			// Type information is lost: the column comes back as
			// nullable text.
			Reverse: fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s text NULL", b.Quote(table), b.Quote(c)),
			Comment: fmt.Sprintf("drop column %q from %q table", c, table),
		})
	}
	return plan, Action{
		Table:       table,
		Action:      ActionAlter,
		AddColumns:  columnNames(d.AddColumns),
		DropColumns: d.DropColumns,
	}
}

// createTable renders the full CREATE TABLE statement for a model.
func (s *Synchronizer) createTable(b sqldialect.Builder, m schema.Model) string {
	var sb strings.Builder
	sb.WriteString("CREATE TABLE ")
	sb.WriteString(b.Quote(m.TableName()))
	sb.WriteString(" (")
	sb.WriteString(b.Quote(schema.ID))
	sb.WriteString(" ")
	sb.WriteString(s.idType())
	sb.WriteString(" NOT NULL PRIMARY KEY")
	for _, f := range m.Fields {
		sb.WriteString(", ")
		sb.WriteString(s.columnDef(b, f))
	}
	sb.WriteString(")")
	return sb.String()
}

// columnDef renders one column definition.
func (s *Synchronizer) columnDef(b sqldialect.Builder, f schema.Field) string {
	def := b.Quote(f.ColumnName()) + " " + s.columnType(f)
	if f.Required {
		def += " NOT NULL"
	} else {
		def += " NULL"
	}
	return def
}

func (s *Synchronizer) createUniqueIndex(b sqldialect.Builder, table string, f schema.Field) string {
	return fmt.Sprintf("CREATE UNIQUE INDEX %s ON %s (%s)",
		b.Quote(indexName(table, f)), b.Quote(table), b.Quote(f.ColumnName()))
}

// idType returns the physical type of the identifier column.
func (s *Synchronizer) idType() string {
	if s.drv.Dialect() == dialect.SQLite {
		return "text"
	}
	return "varchar(36)"
}

// columnType maps a logical type tag to the dialect's physical type.
func (s *Synchronizer) columnType(f schema.Field) string {
	switch f.Type {
	case schema.TypeNumber:
		return "integer"
	case schema.TypeBool:
		return "boolean"
	case schema.TypeDate:
		if s.drv.Dialect() == dialect.Postgres {
			return "timestamp"
		}
		return "datetime"
	default:
		switch s.drv.Dialect() {
		case dialect.SQLite:
			return "text"
		default:
			return "varchar(255)"
		}
	}
}

// uniqueIndexed reports whether the field gets a unique index: fields
// marked unique, and email fields regardless of the flag.
func uniqueIndexed(f schema.Field) bool {
	return f.Unique || f.Name == "email"
}

func indexName(table string, f schema.Field) string {
	return table + "_" + f.ColumnName() + "_key"
}

func columnNames(fields []schema.Field) []string {
	if len(fields) == 0 {
		return nil
	}
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.ColumnName()
	}
	return names
}
