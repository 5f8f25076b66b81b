package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/aidanlsb/modeler/internal/grammar"
	"github.com/aidanlsb/modeler/internal/schema"
)

// Description is the markdown returned by the describe commands.
type Description struct {
	Title    string
	Markdown string
}

func describeEntity(_ context.Context, s *schema.Schema, params grammar.Params) (any, error) {
	e, err := s.FindEntity(params[ParamEntity])
	if err != nil {
		return nil, err
	}
	return &Description{Title: e.Name, Markdown: EntityMarkdown(s, e)}, nil
}

func describeAction(_ context.Context, s *schema.Schema, params grammar.Params) (any, error) {
	a, err := s.FindAction(params[ParamAction])
	if err != nil {
		return nil, err
	}
	id := params[ParamAction]
	return &Description{Title: id, Markdown: ActionMarkdown(id, a)}, nil
}

func check(b bool) string {
	if b {
		return "yes"
	}
	return ""
}

func typeLabel(f *schema.Field) string {
	t := f.Type
	if f.Array {
		t = "[" + t + "]"
	}
	return t
}

func fieldTable(sb *strings.Builder, fields []*schema.Field, withKeys bool) {
	if withKeys {
		sb.WriteString("| field | type | not null | primary key | auto |\n")
		sb.WriteString("|---|---|---|---|---|\n")
	} else {
		sb.WriteString("| argument | type | not null |\n")
		sb.WriteString("|---|---|---|\n")
	}
	for _, f := range fields {
		fmt.Fprintf(sb, "| %s | %s | %s |", f.Name, typeLabel(f), check(!f.Nullable))
		if withKeys {
			fmt.Fprintf(sb, " %s | %s |", check(f.Primary), check(f.PrimaryAuto))
		}
		sb.WriteString("\n")
	}
}

// EntityMarkdown renders the fields of e and what refers to it.
func EntityMarkdown(s *schema.Schema, e *schema.Entity) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "## %s\n\n", e.Name)
	fieldTable(&sb, e.Fields, true)
	if refs := s.References(e.Name); len(refs) > 0 {
		sb.WriteString("\nReferenced by: ")
		sb.WriteString(strings.Join(refs, ", "))
		sb.WriteString("\n")
	}
	return sb.String()
}

// ActionMarkdown renders the signature of the action identified by id.
func ActionMarkdown(id string, a *schema.Action) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "## %s\n\n", id)
	ret := a.Returns
	if ret != schema.Void {
		if a.ReturnsArray {
			ret = "[" + ret + "]"
		}
		if a.ReturnsNullable {
			ret += " (nullable)"
		}
	}
	fmt.Fprintf(&sb, "Type: **%s**, returns **%s**\n\n", a.Type, ret)
	if len(a.Arguments) == 0 {
		sb.WriteString("No arguments.\n")
		return sb.String()
	}
	fieldTable(&sb, a.Arguments, false)
	return sb.String()
}

// SchemaMarkdown renders the whole document.
func SchemaMarkdown(s *schema.Schema) string {
	var sb strings.Builder
	sb.WriteString("# Entities\n\n")
	if len(s.Entities) == 0 {
		sb.WriteString("No entities yet.\n\n")
	}
	for _, e := range s.Entities {
		sb.WriteString(EntityMarkdown(s, e))
		sb.WriteString("\n")
	}
	sb.WriteString("# Actions\n\n")
	ids := s.ActionIDs()
	if len(ids) == 0 {
		sb.WriteString("No actions yet.\n")
	}
	for _, id := range ids {
		a, err := s.FindAction(id)
		if err != nil {
			continue
		}
		sb.WriteString(ActionMarkdown(id, a))
		sb.WriteString("\n")
	}
	return sb.String()
}

// HelpMarkdown renders the command list.
func HelpMarkdown(h *Help) string {
	var sb strings.Builder
	sb.WriteString("| command | description |\n|---|---|\n")
	for _, c := range h.Commands {
		fmt.Fprintf(&sb, "| `%s` | %s |\n", c.Usage, c.Action.Description)
	}
	sb.WriteString("\nPress tab to complete a command. Names of entities, fields and actions are completed too.\n")
	return sb.String()
}
