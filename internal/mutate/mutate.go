// Package mutate is the catalog of structural edits to a schema. Every
// operation validates its inputs before touching the document, so a failed
// call leaves it unchanged, and returns a typed record holding whatever
// pre-mutation state is needed to invert the edit. No I/O happens here.
package mutate

import (
	"fmt"
	"regexp"

	"github.com/aidanlsb/modeler/internal/schema"
)

// Op identifies a kind of mutation. It is also the command identity recorded
// in the action log.
type Op string

const (
	OpCreateEntity  Op = "create-entity"
	OpCreateAction  Op = "create-action"
	OpDropEntity    Op = "drop-entity"
	OpDropAction    Op = "drop-action"
	OpRenameEntity  Op = "alter-entity-rename"
	OpAddField      Op = "alter-entity-add-field"
	OpSetFieldType  Op = "alter-field-set-type"
	OpRenameField   Op = "alter-field-set-name"
	OpDropField     Op = "alter-field-drop"
	OpRenameAction  Op = "alter-action-rename"
	OpSetActionKind Op = "alter-action-set-type"
	OpDropArgument  Op = "alter-action-drop-argument"
)

// Result is the typed record returned by every mutation.
type Result interface {
	Op() Op
}

// ConflictError reports a mutation rejected because it would break the
// document's integrity: a duplicate or malformed name, or a type that does
// not resolve.
type ConflictError struct {
	Kind      string
	Name      string
	Container string
	Reason    string
}

func (e *ConflictError) Error() string {
	if e.Container != "" {
		return fmt.Sprintf("cannot use %s '%s' in '%s': %s", e.Kind, e.Name, e.Container, e.Reason)
	}
	return fmt.Sprintf("cannot use %s '%s': %s", e.Kind, e.Name, e.Reason)
}

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidName reports whether name can be typed as a single command word.
func ValidName(name string) bool {
	return identPattern.MatchString(name)
}

func checkName(kind, name, container string) error {
	if name == "" {
		return &ConflictError{Kind: kind, Name: name, Container: container, Reason: "a name is required"}
	}
	if !ValidName(name) {
		return &ConflictError{Kind: kind, Name: name, Container: container, Reason: "names may only contain letters, digits and underscores"}
	}
	return nil
}

// CheckEntityName reports whether name can be used for a new entity in s.
func CheckEntityName(s *schema.Schema, name string) error {
	return checkEntityName(s, name)
}

// CheckFieldName reports whether name is a well-formed field or argument
// name.
func CheckFieldName(name, container string) error {
	return checkName("field", name, container)
}

func checkEntityName(s *schema.Schema, name string) error {
	if err := checkName("entity", name, ""); err != nil {
		return err
	}
	if schema.IsPrimitive(name) || name == schema.Void {
		return &ConflictError{Kind: "entity", Name: name, Reason: "shadows a built-in type"}
	}
	if s.HasEntity(name) {
		return &ConflictError{Kind: "entity", Name: name, Reason: "already exists"}
	}
	return nil
}

// checkField validates a field or argument about to join fields. The name
// must be free among fields and the type must resolve in s.
func checkField(s *schema.Schema, kind, container string, f *schema.Field, fields []*schema.Field) error {
	if err := checkName(kind, f.Name, container); err != nil {
		return err
	}
	for _, other := range fields {
		if other != f && other.Name == f.Name {
			return &ConflictError{Kind: kind, Name: f.Name, Container: container, Reason: "already exists"}
		}
	}
	if !s.ResolvesType(f.Type) {
		return &ConflictError{Kind: kind, Name: f.Name, Container: container, Reason: fmt.Sprintf("type '%s' does not resolve", f.Type)}
	}
	return nil
}
