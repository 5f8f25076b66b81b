package schema

import "fmt"

// Issue is one integrity problem found in a document.
type Issue struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: %s", i.Path, i.Message)
}

// Validate checks name uniqueness and that every field, argument and return
// type resolves. It does no semantic validation beyond that.
func Validate(s *Schema) []Issue {
	var issues []Issue
	add := func(path, format string, args ...any) {
		issues = append(issues, Issue{Path: path, Message: fmt.Sprintf(format, args...)})
	}

	seenEntities := make(map[string]bool, len(s.Entities))
	for _, e := range s.Entities {
		if e.Name == "" {
			add("entities", "entity without a name")
			continue
		}
		if seenEntities[e.Name] {
			add(e.Name, "duplicate entity name")
		}
		seenEntities[e.Name] = true
		if IsPrimitive(e.Name) || e.Name == Void {
			add(e.Name, "entity name shadows a built-in type")
		}
		checkFields(s, e.Name, e.Fields, add)
	}

	for _, g := range s.Groups() {
		seen := make(map[string]bool)
		for _, a := range s.Actions[g] {
			id := ActionID(g, a.Name)
			if seen[a.Name] {
				add(id, "duplicate action name")
			}
			seen[a.Name] = true
			if _, ok := ParseActionKind(string(a.Type)); !ok {
				add(id, "unknown action type %q", a.Type)
			}
			if a.Returns != Void && !s.ResolvesType(a.Returns) {
				add(id, "return type %q does not resolve", a.Returns)
			}
			checkFields(s, id, a.Arguments, add)
		}
	}
	return issues
}

func checkFields(s *Schema, owner string, fields []*Field, add func(path, format string, args ...any)) {
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		path := owner + "." + f.Name
		if seen[f.Name] {
			add(path, "duplicate name")
		}
		seen[f.Name] = true
		if !s.ResolvesType(f.Type) {
			add(path, "type %q does not resolve", f.Type)
		}
	}
}

// References lists every field and argument whose type is the named entity,
// as "Entity.field" and "group.action(argument)" strings.
func (s *Schema) References(entity string) []string {
	var refs []string
	for _, e := range s.Entities {
		for _, f := range e.Fields {
			if f.Type == entity {
				refs = append(refs, e.Name+"."+f.Name)
			}
		}
	}
	for _, g := range s.Groups() {
		for _, a := range s.Actions[g] {
			for _, arg := range a.Arguments {
				if arg.Type == entity {
					refs = append(refs, fmt.Sprintf("%s(%s)", ActionID(g, a.Name), arg.Name))
				}
			}
		}
	}
	return refs
}
