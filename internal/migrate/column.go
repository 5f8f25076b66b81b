package migrate

import (
	"github.com/iancoleman/strcase"

	"github.com/aidanlsb/modeler/internal/schema"
)

// TableName returns the storage name of an entity.
func TableName(entity string) string {
	return strcase.ToSnake(entity)
}

// ColumnName returns the storage name of a field.
func ColumnName(field string) string {
	return strcase.ToSnake(field)
}

// ColumnFor describes field f as a storage column, resolving entity
// references against s.
func ColumnFor(s *schema.Schema, f *schema.Field) Column {
	c := Column{
		Name:    ColumnName(f.Name),
		Type:    columnType(s, f, map[string]bool{}),
		NotNull: !f.Nullable,
		Primary: f.Primary,
	}
	if c.Type == ColUUID && f.Primary && f.PrimaryAuto {
		c.Default = DefaultUUID
	}
	return c
}

// TableFor describes an entity as a table.
func TableFor(s *schema.Schema, e *schema.Entity) CreateTable {
	t := CreateTable{Table: TableName(e.Name), Columns: make([]Column, 0, len(e.Fields))}
	for _, f := range e.Fields {
		t.Columns = append(t.Columns, ColumnFor(s, f))
	}
	return t
}

// columnType derives the storage type of f. Arrays are always serialized.
// A reference takes the primary key type of the referenced entity, or
// serialized storage when it has none or the chain of references loops.
func columnType(s *schema.Schema, f *schema.Field, visiting map[string]bool) string {
	if f.Array {
		return ColJSON
	}
	if f.Primary && f.PrimaryAuto {
		switch {
		case schema.IsNumeric(f.Type):
			return ColIncrements
		case f.Type == schema.TypeString:
			return ColUUID
		}
	}
	if schema.IsPrimitive(f.Type) {
		return f.Type
	}

	e, err := s.FindEntity(f.Type)
	if err != nil || visiting[e.Name] {
		return ColJSON
	}
	pk := e.PrimaryKey()
	if pk == nil {
		return ColJSON
	}
	visiting[e.Name] = true
	t := columnType(s, pk, visiting)
	if t == ColIncrements {
		// A reference holds the key value; it is not generated itself.
		t = ColInteger
	}
	return t
}
