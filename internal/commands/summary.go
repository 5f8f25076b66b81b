package commands

import (
	"fmt"
	"strings"

	"github.com/aidanlsb/modeler/internal/mutate"
)

// Summarize describes a mutation result in one or more lines.
func Summarize(res mutate.Result) string {
	switch r := res.(type) {
	case *mutate.CreatedEntity:
		return fmt.Sprintf("Created entity %s with %s", r.Entity.Name, plural(len(r.Entity.Fields), "field"))
	case *mutate.AddedField:
		return fmt.Sprintf("Added field %s.%s", r.Entity, r.Field.Name)
	case *mutate.RenamedEntity:
		msg := fmt.Sprintf("Renamed entity %s to %s", r.OldName, r.NewName)
		if len(r.References) > 0 {
			msg += fmt.Sprintf(" and updated %s: %s", plural(len(r.References), "reference"), strings.Join(r.References, ", "))
		}
		return msg
	case *mutate.DroppedEntity:
		lines := []string{fmt.Sprintf("Dropped entity %s", r.Entity.Name)}
		for _, rf := range r.Fields {
			for _, f := range rf.Fields {
				lines = append(lines, fmt.Sprintf("  removed field %s.%s", rf.Entity, f.Name))
			}
		}
		for _, ra := range r.Arguments {
			for _, a := range ra.Arguments {
				lines = append(lines, fmt.Sprintf("  removed argument %s(%s)", ra.Action, a.Name))
			}
		}
		for _, id := range r.VoidedReturns {
			lines = append(lines, fmt.Sprintf("  %s now returns void", id))
		}
		return strings.Join(lines, "\n")
	case *mutate.RetypedField:
		return fmt.Sprintf("Changed %s.%s from %s to %s", r.Entity, r.NewField.Name, typeLabel(r.OldField), typeLabel(r.NewField))
	case *mutate.RenamedField:
		return fmt.Sprintf("Renamed field %s.%s to %s", r.Entity, r.OldField.Name, r.NewName)
	case *mutate.DroppedField:
		return fmt.Sprintf("Dropped field %s.%s", r.Entity, r.Field.Name)
	case *mutate.CreatedAction:
		msg := fmt.Sprintf("Created action %s.%s", r.Group, r.Action.Name)
		if r.NewGroup {
			msg += fmt.Sprintf(" in new group %s", r.Group)
		}
		return msg
	case *mutate.RenamedAction:
		return fmt.Sprintf("Renamed action %s.%s to %s.%s", r.Group, r.OldName, r.Group, r.NewName)
	case *mutate.RetypedAction:
		return fmt.Sprintf("Changed %s from %s to %s", r.Action, r.OldKind, r.NewKind)
	case *mutate.DroppedAction:
		return fmt.Sprintf("Dropped action %s.%s", r.Group, r.Action.Name)
	case *mutate.DroppedArgument:
		return fmt.Sprintf("Dropped argument %s(%s)", r.Action, r.Argument.Name)
	case nil:
		return ""
	default:
		return fmt.Sprintf("Applied %s", res.Op())
	}
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
