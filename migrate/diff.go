package migrate

import (
	"context"

	sqldialect "github.com/authkit-go/sqlstore/dialect/sql"
	"github.com/authkit-go/sqlstore/schema"
)

// A TableDiff is the work needed to align one physical table with its
// model. Rename and type-change detection are out of scope: a renamed
// column diffs as one add and one drop.
type TableDiff struct {
	Model schema.Model
	// Exists reports whether the physical table is present in the live
	// catalog. When false, the whole table must be created.
	Exists bool
	// AddColumns holds expected fields whose physical column is absent.
	AddColumns []schema.Field
	// DropColumns holds live columns (identifier excluded) that no
	// expected field maps to.
	DropColumns []string
}

// Empty reports whether the table is already synchronized.
func (d TableDiff) Empty() bool {
	return d.Exists && len(d.AddColumns) == 0 && len(d.DropColumns) == 0
}

// diff introspects the live catalog for the model's table.
func (s *Synchronizer) diff(ctx context.Context, m schema.Model) (TableDiff, error) {
	d := TableDiff{Model: m}
	table := m.TableName()
	exists, err := sqldialect.TableExists(ctx, s.drv, s.drv.Dialect(), table)
	if err != nil {
		return d, err
	}
	d.Exists = exists
	if !exists {
		return d, nil
	}
	live, err := sqldialect.TableColumns(ctx, s.drv, s.drv.Dialect(), table)
	if err != nil {
		return d, err
	}
	present := make(map[string]bool, len(live))
	for _, c := range live {
		present[c] = true
	}
	expected := map[string]bool{schema.ID: true}
	for _, f := range m.Fields {
		expected[f.ColumnName()] = true
		if !present[f.ColumnName()] {
			d.AddColumns = append(d.AddColumns, f)
		}
	}
	for _, c := range live {
		if c != schema.ID && !expected[c] {
			d.DropColumns = append(d.DropColumns, c)
		}
	}
	return d, nil
}
