// Package commands defines the modeler command grammar: every command path,
// the suggestion providers of its parameters and the dialogues that collect
// the rest of its input before handing off to package mutate.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/aidanlsb/modeler/internal/grammar"
	"github.com/aidanlsb/modeler/internal/mutate"
	"github.com/aidanlsb/modeler/internal/prompt"
	"github.com/aidanlsb/modeler/internal/schema"
)

// Parameter names bound by the grammar.
const (
	ParamEntity   = "entityId"
	ParamField    = "fieldId"
	ParamAction   = "actionId"
	ParamArgument = "argumentName"
	// ParamName records the name answered in a dialogue.
	ParamName = "name"
)

// Read-only command identities.
const (
	CmdDescribeEntity = "describe-entity"
	CmdDescribeAction = "describe-action"
	CmdHelp           = "help"
	CmdExit           = "exit"
)

// Exit is returned by the exit command.
type Exit struct{}

// Help is returned by the help command.
type Help struct {
	Commands []grammar.Command
}

// builder holds what the actions close over.
type builder struct {
	p    prompt.Prompter
	out  io.Writer
	tree *grammar.Tree
}

// NewTree builds the command grammar. Dialogues ask their questions on p;
// informational lines go to out.
func NewTree(p prompt.Prompter, out io.Writer) (*grammar.Tree, error) {
	b := &builder{p: p, out: out}
	tree, err := grammar.NewTree(
		grammar.Literal([]string{"create"}, grammar.WithChildren(
			grammar.Literal([]string{"entity"}, grammar.WithAction(b.mutation(mutate.OpCreateEntity, "Create an entity and define its fields", b.createEntity))),
			grammar.Literal([]string{"action"}, grammar.WithAction(b.mutation(mutate.OpCreateAction, "Create an action in a group", b.createAction))),
		)),
		grammar.Literal([]string{"alter"}, grammar.WithChildren(
			grammar.Parameter([]string{"entity"}, ParamEntity, EntityNames, grammar.WithChildren(
				grammar.Literal([]string{"modify"}, grammar.WithChildren(
					grammar.Literal([]string{"name"}, grammar.WithAction(b.mutation(mutate.OpRenameEntity, "Rename an entity and every reference to it", b.renameEntity))),
					grammar.Parameter([]string{"field"}, ParamField, FieldNames, grammar.WithChildren(
						grammar.Literal([]string{"set"}, grammar.WithChildren(
							grammar.Literal([]string{"name"}, grammar.WithAction(b.mutation(mutate.OpRenameField, "Rename a field", b.renameField))),
							grammar.Literal([]string{"type"}, grammar.WithAction(b.mutation(mutate.OpSetFieldType, "Redefine the type and flags of a field", b.setFieldType))),
						)),
						grammar.Literal([]string{"drop"}, grammar.WithAction(b.mutation(mutate.OpDropField, "Drop a field", b.dropField))),
					)),
				)),
				grammar.Literal([]string{"add"}, grammar.WithChildren(
					grammar.Literal([]string{"field"}, grammar.WithAction(b.mutation(mutate.OpAddField, "Add a field to an entity", b.addField))),
				)),
			)),
			grammar.Parameter([]string{"action"}, ParamAction, ActionIDs, grammar.WithChildren(
				grammar.Literal([]string{"modify"}, grammar.WithChildren(
					grammar.Literal([]string{"name"}, grammar.WithAction(b.mutation(mutate.OpRenameAction, "Rename an action within its group", b.renameAction))),
					grammar.Literal([]string{"type"}, grammar.WithAction(b.mutation(mutate.OpSetActionKind, "Change the kind of an action", b.setActionKind))),
					grammar.Literal([]string{"arguments"}, grammar.WithChildren(
						grammar.Parameter([]string{"drop"}, ParamArgument, ArgumentNames,
							grammar.WithAction(b.mutation(mutate.OpDropArgument, "Drop an argument of an action", b.dropArgument))),
					)),
				)),
			)),
		)),
		grammar.Literal([]string{"drop"}, grammar.WithChildren(
			grammar.Parameter([]string{"entity"}, ParamEntity, EntityNames,
				grammar.WithAction(b.mutation(mutate.OpDropEntity, "Drop an entity and every field or argument typed by it", b.dropEntity))),
			grammar.Parameter([]string{"action"}, ParamAction, ActionIDs,
				grammar.WithAction(b.mutation(mutate.OpDropAction, "Drop an action", b.dropAction))),
		)),
		grammar.Literal([]string{"describe"}, grammar.WithChildren(
			grammar.Parameter([]string{"entity"}, ParamEntity, EntityNames,
				grammar.WithAction(grammar.Action{Name: CmdDescribeEntity, Description: "Show the fields of an entity", Run: describeEntity})),
			grammar.Parameter([]string{"action"}, ParamAction, ActionIDs,
				grammar.WithAction(grammar.Action{Name: CmdDescribeAction, Description: "Show the signature of an action", Run: describeAction})),
		)),
		grammar.Literal([]string{"help"}, grammar.WithAction(grammar.Action{Name: CmdHelp, Description: "List the available commands", Run: b.help})),
		grammar.Literal([]string{"exit", "quit"}, grammar.WithAction(grammar.Action{Name: CmdExit, Description: "Leave the session", Run: exit})),
	)
	if err != nil {
		return nil, fmt.Errorf("invalid command grammar: %w", err)
	}
	b.tree = tree
	return tree, nil
}

type mutationFunc func(ctx context.Context, s *schema.Schema, params grammar.Params) (mutate.Result, error)

func (b *builder) mutation(op mutate.Op, desc string, fn mutationFunc) grammar.Action {
	return grammar.Action{
		Name:        string(op),
		Description: desc,
		Mutates:     true,
		Run: func(ctx context.Context, s *schema.Schema, params grammar.Params) (any, error) {
			res, err := fn(ctx, s, params)
			if err != nil {
				return nil, err
			}
			return res, nil
		},
	}
}

func (b *builder) help(context.Context, *schema.Schema, grammar.Params) (any, error) {
	return &Help{Commands: b.tree.Commands()}, nil
}

func exit(context.Context, *schema.Schema, grammar.Params) (any, error) {
	return Exit{}, nil
}

// EntityNames suggests every entity.
func EntityNames(s *schema.Schema, _ grammar.Params) []string {
	return s.EntityNames()
}

// FieldNames suggests the fields of the bound entity.
func FieldNames(s *schema.Schema, bound grammar.Params) []string {
	e, err := s.FindEntity(bound[ParamEntity])
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		names = append(names, f.Name)
	}
	return names
}

// ActionIDs suggests every action as group.name.
func ActionIDs(s *schema.Schema, _ grammar.Params) []string {
	return s.ActionIDs()
}

// ArgumentNames suggests the arguments of the bound action.
func ArgumentNames(s *schema.Schema, bound grammar.Params) []string {
	a, err := s.FindAction(bound[ParamAction])
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(a.Arguments))
	for _, arg := range a.Arguments {
		names = append(names, arg.Name)
	}
	return names
}
