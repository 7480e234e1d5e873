package migrate

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"

	"github.com/dave/jennifer/jen"
	"github.com/go-openapi/inflect"

	"github.com/authkit-go/sqlstore/schema"
)

// writeEntity renders the entity definition of the model and writes it to
// the entity directory when its text differs from the file on disk. This
// keeps generated entities current when a descriptor changes (a toggled
// unique flag, a column override) without touching migration history.
func (s *Synchronizer) writeEntity(entDir string, m schema.Model) (bool, error) {
	src, err := renderEntity(m)
	if err != nil {
		return false, err
	}
	path := filepath.Join(entDir, m.TableName()+".go")
	existing, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return false, err
	}
	if bytes.Equal(existing, src) {
		return false, nil
	}
	if err := os.WriteFile(path, src, 0o644); err != nil {
		return false, err
	}
	return true, nil
}

// renderEntity generates the Go entity definition mirroring the model's
// physical table.
func renderEntity(m schema.Model) ([]byte, error) {
	table := m.TableName()
	typeName := inflect.Camelize(inflect.Singularize(table))
	f := jen.NewFile(entitiesSubdir)
	f.HeaderComment("Code generated by sqlstore migrate. DO NOT EDIT.")
	f.Commentf("%s mirrors one row of the %q table.", typeName, table)
	f.Type().Id(typeName).StructFunc(func(g *jen.Group) {
		g.Id("ID").String().Tag(map[string]string{"db": schema.ID})
		for _, fd := range m.Fields {
			stmt := g.Id(fieldName(fd))
			if !fd.Required {
				stmt = stmt.Op("*")
			}
			switch fd.Type {
			case schema.TypeNumber:
				stmt = stmt.Int64()
			case schema.TypeBool:
				stmt = stmt.Bool()
			case schema.TypeDate:
				stmt = stmt.Qual("time", "Time")
			default:
				stmt = stmt.String()
			}
			stmt.Tag(map[string]string{"db": fd.ColumnName()})
		}
	})
	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func fieldName(f schema.Field) string {
	if f.Name == schema.ID {
		return "ID"
	}
	return inflect.Camelize(f.Name)
}
