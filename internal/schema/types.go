// Package schema holds the data-model document that every command edits:
// entities with typed fields, grouped remote actions and output paths.
package schema

import (
	"slices"
	"strings"
)

// Void is the return type of an action that returns nothing. It is always
// stored explicitly; an empty return type is normalized to Void on load.
const Void = "void"

// Primitive field types. Any other field type must name an entity in the
// same document.
const (
	TypeString   = "string"
	TypeNumber   = "number"
	TypeInteger  = "integer"
	TypeBoolean  = "boolean"
	TypeDate     = "date"
	TypeDatetime = "datetime"
)

// Primitives lists the primitive field types in the order they are offered.
var Primitives = []string{TypeString, TypeNumber, TypeInteger, TypeBoolean, TypeDate, TypeDatetime}

// IsPrimitive reports whether t is one of the primitive field types.
func IsPrimitive(t string) bool {
	return slices.Contains(Primitives, t)
}

// IsNumeric reports whether t is a numeric primitive.
func IsNumeric(t string) bool {
	return t == TypeNumber || t == TypeInteger
}

// ActionKind is the CRUD kind of an action.
type ActionKind string

const (
	ActionCreate ActionKind = "create"
	ActionRead   ActionKind = "read"
	ActionUpdate ActionKind = "update"
	ActionDelete ActionKind = "delete"
)

// ActionKinds lists the valid action kinds in the order they are offered.
var ActionKinds = []ActionKind{ActionCreate, ActionRead, ActionUpdate, ActionDelete}

// ParseActionKind returns the action kind named by s.
func ParseActionKind(s string) (ActionKind, bool) {
	for _, k := range ActionKinds {
		if string(k) == s {
			return k, true
		}
	}
	return "", false
}

// Schema is the whole document.
type Schema struct {
	Entities []*Entity            `json:"entities" yaml:"entities"`
	Actions  map[string][]*Action `json:"actions" yaml:"actions"`
	Paths    map[string]string    `json:"paths" yaml:"paths"`
}

// Entity is a named record type.
type Entity struct {
	Name   string   `json:"name" yaml:"name"`
	Fields []*Field `json:"fields" yaml:"fields"`
}

// Field is a typed attribute of an entity, or an argument of an action.
type Field struct {
	Name        string         `json:"name" yaml:"name"`
	Type        string         `json:"type" yaml:"type"`
	Primary     bool           `json:"primary,omitempty" yaml:"primary,omitempty"`
	PrimaryAuto bool           `json:"primaryAuto,omitempty" yaml:"primaryAuto,omitempty"`
	Nullable    bool           `json:"nullable,omitempty" yaml:"nullable,omitempty"`
	Array       bool           `json:"array,omitempty" yaml:"array,omitempty"`
	Validations map[string]any `json:"validations,omitempty" yaml:"validations,omitempty"`
}

// Action is a remote operation inside a group. Its full identity is
// "group.name".
type Action struct {
	Name            string     `json:"name" yaml:"name"`
	Type            ActionKind `json:"type" yaml:"type"`
	Arguments       []*Field   `json:"arguments" yaml:"arguments"`
	Returns         string     `json:"returns" yaml:"returns"`
	ReturnsArray    bool       `json:"returnsArray,omitempty" yaml:"returnsArray,omitempty"`
	ReturnsNullable bool       `json:"returnsNullable,omitempty" yaml:"returnsNullable,omitempty"`
}

// New returns an empty schema with the given output paths.
func New(paths map[string]string) *Schema {
	s := &Schema{
		Entities: []*Entity{},
		Actions:  make(map[string][]*Action),
		Paths:    make(map[string]string),
	}
	for k, v := range paths {
		if strings.TrimSpace(v) != "" {
			s.Paths[k] = v
		}
	}
	return s
}

// normalize fills nil collections and the void marker after decoding.
func (s *Schema) normalize() {
	if s.Entities == nil {
		s.Entities = []*Entity{}
	}
	if s.Actions == nil {
		s.Actions = make(map[string][]*Action)
	}
	if s.Paths == nil {
		s.Paths = make(map[string]string)
	}
	for _, e := range s.Entities {
		if e.Fields == nil {
			e.Fields = []*Field{}
		}
	}
	for _, actions := range s.Actions {
		for _, a := range actions {
			if a.Arguments == nil {
				a.Arguments = []*Field{}
			}
			if strings.TrimSpace(a.Returns) == "" {
				a.Returns = Void
			}
		}
	}
}

// Groups returns the action group names in sorted order.
func (s *Schema) Groups() []string {
	groups := make([]string, 0, len(s.Actions))
	for g := range s.Actions {
		groups = append(groups, g)
	}
	slices.Sort(groups)
	return groups
}

// EntityNames returns the entity names in document order.
func (s *Schema) EntityNames() []string {
	names := make([]string, 0, len(s.Entities))
	for _, e := range s.Entities {
		names = append(names, e.Name)
	}
	return names
}

// ActionIDs returns "group.name" for every action, groups sorted, actions in
// document order.
func (s *Schema) ActionIDs() []string {
	var ids []string
	for _, g := range s.Groups() {
		for _, a := range s.Actions[g] {
			ids = append(ids, ActionID(g, a.Name))
		}
	}
	return ids
}

// ResolvesType reports whether t is a primitive or an entity in s.
func (s *Schema) ResolvesType(t string) bool {
	if IsPrimitive(t) {
		return true
	}
	_, ok := s.entity(t)
	return ok
}

// TypeChoices lists the types a field can take: primitives, then entity
// names. With includeVoid the void marker follows the primitives.
func (s *Schema) TypeChoices(includeVoid bool) []string {
	choices := slices.Clone(Primitives)
	if includeVoid {
		choices = append(choices, Void)
	}
	return append(choices, s.EntityNames()...)
}

// PrimaryKey returns the first primary field of e, or nil.
func (e *Entity) PrimaryKey() *Field {
	for _, f := range e.Fields {
		if f.Primary {
			return f
		}
	}
	return nil
}

// Clone returns a deep copy of s.
func (s *Schema) Clone() *Schema {
	if s == nil {
		return nil
	}
	c := &Schema{
		Entities: make([]*Entity, 0, len(s.Entities)),
		Actions:  make(map[string][]*Action, len(s.Actions)),
		Paths:    make(map[string]string, len(s.Paths)),
	}
	for _, e := range s.Entities {
		c.Entities = append(c.Entities, e.Clone())
	}
	for g, actions := range s.Actions {
		cloned := make([]*Action, 0, len(actions))
		for _, a := range actions {
			cloned = append(cloned, a.Clone())
		}
		c.Actions[g] = cloned
	}
	for k, v := range s.Paths {
		c.Paths[k] = v
	}
	return c
}

// Clone returns a deep copy of e.
func (e *Entity) Clone() *Entity {
	c := &Entity{Name: e.Name, Fields: make([]*Field, 0, len(e.Fields))}
	for _, f := range e.Fields {
		c.Fields = append(c.Fields, f.Clone())
	}
	return c
}

// Clone returns a deep copy of a.
func (a *Action) Clone() *Action {
	c := *a
	c.Arguments = make([]*Field, 0, len(a.Arguments))
	for _, f := range a.Arguments {
		c.Arguments = append(c.Arguments, f.Clone())
	}
	return &c
}

// Clone returns a deep copy of f.
func (f *Field) Clone() *Field {
	c := *f
	if f.Validations != nil {
		c.Validations = make(map[string]any, len(f.Validations))
		for k, v := range f.Validations {
			c.Validations[k] = v
		}
	}
	return &c
}
