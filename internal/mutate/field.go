package mutate

import (
	"github.com/aidanlsb/modeler/internal/schema"
)

// RetypedField is the result of SetFieldType.
type RetypedField struct {
	Entity   string
	OldField *schema.Field
	NewField *schema.Field
}

func (RetypedField) Op() Op { return OpSetFieldType }

// SetFieldType replaces the definition of a field (type, array, primary,
// auto and nullable flags) keeping its name and validations.
func SetFieldType(s *schema.Schema, entityID, fieldID string, def *schema.Field) (*RetypedField, error) {
	e, f, err := s.FindField(entityID, fieldID)
	if err != nil {
		return nil, err
	}
	next := f.Clone()
	next.Type = def.Type
	next.Array = def.Array
	next.Primary = def.Primary
	next.PrimaryAuto = def.Primary && def.PrimaryAuto
	next.Nullable = def.Nullable
	if !s.ResolvesType(next.Type) {
		return nil, &ConflictError{Kind: "field", Name: f.Name, Container: e.Name, Reason: "type '" + next.Type + "' does not resolve"}
	}

	res := &RetypedField{Entity: e.Name, OldField: f.Clone(), NewField: next.Clone()}
	*f = *next
	return res, nil
}

// RenamedField is the result of RenameField.
type RenamedField struct {
	Entity   string
	OldField *schema.Field
	NewName  string
}

func (RenamedField) Op() Op { return OpRenameField }

// RenameField renames a field within its entity.
func RenameField(s *schema.Schema, entityID, fieldID, newName string) (*RenamedField, error) {
	e, f, err := s.FindField(entityID, fieldID)
	if err != nil {
		return nil, err
	}
	if err := checkName("field", newName, e.Name); err != nil {
		return nil, err
	}
	if newName != f.Name && e.FieldIndex(newName) >= 0 {
		return nil, &ConflictError{Kind: "field", Name: newName, Container: e.Name, Reason: "already exists"}
	}
	res := &RenamedField{Entity: e.Name, OldField: f.Clone(), NewName: newName}
	f.Name = newName
	return res, nil
}

// DroppedField is the result of DropField.
type DroppedField struct {
	Entity string
	Index  int
	Field  *schema.Field
}

func (DroppedField) Op() Op { return OpDropField }

// DropField removes a field from its entity.
func DropField(s *schema.Schema, entityID, fieldID string) (*DroppedField, error) {
	e, i, err := s.FindFieldIndex(entityID, fieldID)
	if err != nil {
		return nil, err
	}
	res := &DroppedField{Entity: e.Name, Index: i, Field: e.Fields[i].Clone()}
	e.Fields = append(e.Fields[:i:i], e.Fields[i+1:]...)
	return res, nil
}
