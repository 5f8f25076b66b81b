package schema

import (
	"errors"
	"fmt"
	"strings"
)

// LookupError reports a command that referenced an entity, field, action or
// argument that does not exist. The command is aborted without mutation.
type LookupError struct {
	Kind      string // entity, field, action, action group, argument
	Name      string
	Container string // owning entity or action, when relevant
}

func (e *LookupError) Error() string {
	name := quote(e.Name)
	if e.Container != "" {
		return fmt.Sprintf("no %s found with name %s in %s", e.Kind, name, quote(e.Container))
	}
	return fmt.Sprintf("no %s found with name %s", e.Kind, name)
}

// IsLookup reports whether err is, or wraps, a LookupError.
func IsLookup(err error) bool {
	var le *LookupError
	return errors.As(err, &le)
}

func quote(name string) string {
	if name == "" {
		return "(no name provided)"
	}
	return "'" + name + "'"
}

func (s *Schema) entity(name string) (int, bool) {
	for i, e := range s.Entities {
		if e.Name == name {
			return i, true
		}
	}
	return -1, false
}

// FindEntity returns the entity called name.
func (s *Schema) FindEntity(name string) (*Entity, error) {
	i, err := s.FindEntityIndex(name)
	if err != nil {
		return nil, err
	}
	return s.Entities[i], nil
}

// FindEntityIndex returns the position of the entity called name.
func (s *Schema) FindEntityIndex(name string) (int, error) {
	i, ok := s.entity(name)
	if !ok {
		return -1, &LookupError{Kind: "entity", Name: name}
	}
	return i, nil
}

// HasEntity reports whether an entity called name exists.
func (s *Schema) HasEntity(name string) bool {
	_, ok := s.entity(name)
	return ok
}

// FindField returns the entity and its field.
func (s *Schema) FindField(entityName, fieldName string) (*Entity, *Field, error) {
	e, i, err := s.FindFieldIndex(entityName, fieldName)
	if err != nil {
		return nil, nil, err
	}
	return e, e.Fields[i], nil
}

// FindFieldIndex returns the entity and the position of its field.
func (s *Schema) FindFieldIndex(entityName, fieldName string) (*Entity, int, error) {
	e, err := s.FindEntity(entityName)
	if err != nil {
		return nil, -1, err
	}
	if i := e.FieldIndex(fieldName); i >= 0 {
		return e, i, nil
	}
	return nil, -1, &LookupError{Kind: "field", Name: fieldName, Container: e.Name}
}

// FieldIndex returns the position of the field called name, or -1.
func (e *Entity) FieldIndex(name string) int {
	return fieldIndex(e.Fields, name)
}

// ArgumentIndex returns the position of the argument called name, or -1.
func (a *Action) ArgumentIndex(name string) int {
	return fieldIndex(a.Arguments, name)
}

func fieldIndex(fields []*Field, name string) int {
	for i, f := range fields {
		if f.Name == name {
			return i
		}
	}
	return -1
}

// ActionID joins a group and an action name into the dotted identity.
func ActionID(group, name string) string {
	return group + "." + name
}

// SplitActionID splits a dotted "group.name" identity. Both parts must be
// non-empty.
func SplitActionID(id string) (group, name string, err error) {
	group, name, ok := strings.Cut(id, ".")
	if !ok || group == "" || name == "" || strings.Contains(name, ".") {
		return "", "", fmt.Errorf("invalid action identifier %s: use group.action notation", quote(id))
	}
	return group, name, nil
}

// FindAction returns the action identified by "group.name".
func (s *Schema) FindAction(id string) (*Action, error) {
	group, i, err := s.FindActionIndex(id)
	if err != nil {
		return nil, err
	}
	return s.Actions[group][i], nil
}

// FindActionIndex returns the group and position of the action identified by
// "group.name". A malformed identifier is reported as a missing action.
func (s *Schema) FindActionIndex(id string) (string, int, error) {
	group, name, err := SplitActionID(id)
	if err != nil {
		return "", -1, &LookupError{Kind: "action", Name: id}
	}
	actions, ok := s.Actions[group]
	if !ok {
		return "", -1, &LookupError{Kind: "action group", Name: group}
	}
	for i, a := range actions {
		if a.Name == name {
			return group, i, nil
		}
	}
	return "", -1, &LookupError{Kind: "action", Name: id}
}
