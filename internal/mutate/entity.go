package mutate

import (
	"github.com/aidanlsb/modeler/internal/schema"
)

// CreatedEntity is the result of CreateEntity.
type CreatedEntity struct {
	Entity *schema.Entity
}

func (CreatedEntity) Op() Op { return OpCreateEntity }

// CreateEntity appends a new entity with the given fields. Fields may refer
// to the new entity itself.
func CreateEntity(s *schema.Schema, name string, fields []*schema.Field) (*CreatedEntity, error) {
	if err := checkEntityName(s, name); err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, &ConflictError{Kind: "entity", Name: name, Reason: "at least one field is required"}
	}
	e := &schema.Entity{Name: name, Fields: make([]*schema.Field, 0, len(fields))}
	for _, f := range fields {
		e.Fields = append(e.Fields, f.Clone())
	}

	// Resolve types against the document as it will be once e exists.
	probe := &schema.Schema{Entities: append(append([]*schema.Entity{}, s.Entities...), e)}
	for _, f := range e.Fields {
		if err := checkField(probe, "field", name, f, e.Fields); err != nil {
			return nil, err
		}
	}

	s.Entities = append(s.Entities, e)
	return &CreatedEntity{Entity: e.Clone()}, nil
}

// AddedField is the result of AddField.
type AddedField struct {
	Entity string
	Field  *schema.Field
}

func (AddedField) Op() Op { return OpAddField }

// AddField appends a field to an existing entity.
func AddField(s *schema.Schema, entityID string, field *schema.Field) (*AddedField, error) {
	e, err := s.FindEntity(entityID)
	if err != nil {
		return nil, err
	}
	f := field.Clone()
	if err := checkField(s, "field", e.Name, f, append(e.Fields, f)); err != nil {
		return nil, err
	}
	e.Fields = append(e.Fields, f)
	return &AddedField{Entity: e.Name, Field: f.Clone()}, nil
}

// RemovedFields lists the fields one entity lost to a drop cascade.
type RemovedFields struct {
	Entity string
	Fields []*schema.Field
}

// RemovedArguments lists the arguments one action lost to a drop cascade.
type RemovedArguments struct {
	Action    string
	Arguments []*schema.Field
}

// DroppedEntity is the result of DropEntity. Fields and Arguments hold
// exactly the references removed by the cascade, in document order.
type DroppedEntity struct {
	Entity    *schema.Entity
	Index     int
	Fields    []RemovedFields
	Arguments []RemovedArguments
	// VoidedReturns names the actions whose return type was the dropped
	// entity; they now return void.
	VoidedReturns []string
}

func (DroppedEntity) Op() Op { return OpDropEntity }

// DropEntity removes an entity together with every field and argument typed
// by it. Action return types naming it are reset to void.
func DropEntity(s *schema.Schema, entityID string) (*DroppedEntity, error) {
	i, err := s.FindEntityIndex(entityID)
	if err != nil {
		return nil, err
	}
	old := s.Entities[i]
	res := &DroppedEntity{Entity: old.Clone(), Index: i}
	s.Entities = append(s.Entities[:i:i], s.Entities[i+1:]...)

	for _, e := range s.Entities {
		kept, removed := partition(e.Fields, old.Name)
		if len(removed) > 0 {
			e.Fields = kept
			res.Fields = append(res.Fields, RemovedFields{Entity: e.Name, Fields: removed})
		}
	}
	for _, g := range s.Groups() {
		for _, a := range s.Actions[g] {
			kept, removed := partition(a.Arguments, old.Name)
			if len(removed) > 0 {
				a.Arguments = kept
				res.Arguments = append(res.Arguments, RemovedArguments{Action: schema.ActionID(g, a.Name), Arguments: removed})
			}
			if a.Returns == old.Name {
				a.Returns = schema.Void
				a.ReturnsArray = false
				a.ReturnsNullable = false
				res.VoidedReturns = append(res.VoidedReturns, schema.ActionID(g, a.Name))
			}
		}
	}
	return res, nil
}

// RemovedCount returns how many fields and arguments the cascade removed.
func (r *DroppedEntity) RemovedCount() int {
	n := 0
	for _, rf := range r.Fields {
		n += len(rf.Fields)
	}
	for _, ra := range r.Arguments {
		n += len(ra.Arguments)
	}
	return n
}

func partition(fields []*schema.Field, typ string) (kept, removed []*schema.Field) {
	kept = make([]*schema.Field, 0, len(fields))
	for _, f := range fields {
		if f.Type == typ {
			removed = append(removed, f.Clone())
			continue
		}
		kept = append(kept, f)
	}
	return kept, removed
}

// RenamedEntity is the result of RenameEntity. References lists every field
// and argument retyped by the cascade.
type RenamedEntity struct {
	OldName    string
	NewName    string
	References []string
}

func (RenamedEntity) Op() Op { return OpRenameEntity }

// RenameEntity renames an entity and retypes every field, argument and
// return type that referred to the old name.
func RenameEntity(s *schema.Schema, entityID, newName string) (*RenamedEntity, error) {
	e, err := s.FindEntity(entityID)
	if err != nil {
		return nil, err
	}
	if newName == e.Name {
		return &RenamedEntity{OldName: e.Name, NewName: newName}, nil
	}
	if err := checkEntityName(s, newName); err != nil {
		return nil, err
	}

	old := e.Name
	res := &RenamedEntity{OldName: old, NewName: newName, References: s.References(old)}
	e.Name = newName
	for _, other := range s.Entities {
		retype(other.Fields, old, newName)
	}
	for _, actions := range s.Actions {
		for _, a := range actions {
			retype(a.Arguments, old, newName)
			if a.Returns == old {
				a.Returns = newName
			}
		}
	}
	return res, nil
}

func retype(fields []*schema.Field, from, to string) {
	for _, f := range fields {
		if f.Type == from {
			f.Type = to
		}
	}
}
