package commands

import (
	"context"
	"fmt"
	"slices"

	"github.com/aidanlsb/modeler/internal/grammar"
	"github.com/aidanlsb/modeler/internal/mutate"
	"github.com/aidanlsb/modeler/internal/schema"
	"github.com/aidanlsb/modeler/internal/ui"
)

// fieldDialogue collects a field definition. With an existing field its
// name is kept and its flags become the defaults. selfName is offered as an
// extra type while the entity being created does not exist yet.
func (b *builder) fieldDialogue(s *schema.Schema, container string, existing *schema.Field, first bool, selfName string) (*schema.Field, error) {
	f := &schema.Field{Type: schema.TypeString, Primary: first, PrimaryAuto: true}
	if existing != nil {
		f = existing.Clone()
	} else {
		name, err := b.p.Input("What's the name of the new field?", "")
		if err != nil {
			return nil, err
		}
		if err := mutate.CheckFieldName(name, container); err != nil {
			return nil, err
		}
		f.Name = name
	}

	choices := s.TypeChoices(false)
	if selfName != "" && !slices.Contains(choices, selfName) {
		choices = append(choices, selfName)
	}
	typ, err := b.p.Select("What's the type of the new field?", choices, f.Type)
	if err != nil {
		return nil, err
	}
	f.Type = typ

	if f.Array, err = b.p.Confirm("Is this an array?", f.Array); err != nil {
		return nil, err
	}
	if f.Primary, err = b.p.Confirm("Is it a primary key?", f.Primary); err != nil {
		return nil, err
	}
	if f.Primary {
		if f.PrimaryAuto, err = b.p.Confirm("Is it auto generated?", f.PrimaryAuto); err != nil {
			return nil, err
		}
	} else {
		f.PrimaryAuto = false
	}
	if f.Nullable, err = b.p.Confirm("Is it nullable?", f.Nullable); err != nil {
		return nil, err
	}
	return f, nil
}

func (b *builder) createEntity(_ context.Context, s *schema.Schema, params grammar.Params) (mutate.Result, error) {
	name, err := b.p.Input("What's the name of the new entity?", "")
	if err != nil {
		return nil, err
	}
	if err := mutate.CheckEntityName(s, name); err != nil {
		return nil, err
	}
	params[ParamName] = name
	fmt.Fprintln(b.out, ui.Hint("Now we need to add at least one field"))

	var fields []*schema.Field
	for {
		f, err := b.fieldDialogue(s, name, nil, len(fields) == 0, name)
		if err != nil {
			return nil, err
		}
		fields = append(fields, f)
		more, err := b.p.Confirm("Do you want to add another field?", false)
		if err != nil {
			return nil, err
		}
		if !more {
			break
		}
	}
	return mutate.CreateEntity(s, name, fields)
}

func (b *builder) addField(_ context.Context, s *schema.Schema, params grammar.Params) (mutate.Result, error) {
	e, err := s.FindEntity(params[ParamEntity])
	if err != nil {
		return nil, err
	}
	f, err := b.fieldDialogue(s, e.Name, nil, e.PrimaryKey() == nil && len(e.Fields) == 0, "")
	if err != nil {
		return nil, err
	}
	params[ParamName] = f.Name
	return mutate.AddField(s, e.Name, f)
}

func (b *builder) renameEntity(_ context.Context, s *schema.Schema, params grammar.Params) (mutate.Result, error) {
	e, err := s.FindEntity(params[ParamEntity])
	if err != nil {
		return nil, err
	}
	name, err := b.p.Input(fmt.Sprintf("What's the new name of %s?", e.Name), "")
	if err != nil {
		return nil, err
	}
	params[ParamName] = name
	return mutate.RenameEntity(s, e.Name, name)
}

func (b *builder) dropEntity(_ context.Context, s *schema.Schema, params grammar.Params) (mutate.Result, error) {
	return mutate.DropEntity(s, params[ParamEntity])
}

func (b *builder) setFieldType(_ context.Context, s *schema.Schema, params grammar.Params) (mutate.Result, error) {
	e, f, err := s.FindField(params[ParamEntity], params[ParamField])
	if err != nil {
		return nil, err
	}
	def, err := b.fieldDialogue(s, e.Name, f, false, "")
	if err != nil {
		return nil, err
	}
	return mutate.SetFieldType(s, e.Name, f.Name, def)
}

func (b *builder) renameField(_ context.Context, s *schema.Schema, params grammar.Params) (mutate.Result, error) {
	e, f, err := s.FindField(params[ParamEntity], params[ParamField])
	if err != nil {
		return nil, err
	}
	name, err := b.p.Input(fmt.Sprintf("What's the new name of %s.%s?", e.Name, f.Name), "")
	if err != nil {
		return nil, err
	}
	params[ParamName] = name
	return mutate.RenameField(s, e.Name, f.Name, name)
}

func (b *builder) dropField(_ context.Context, s *schema.Schema, params grammar.Params) (mutate.Result, error) {
	return mutate.DropField(s, params[ParamEntity], params[ParamField])
}

func kindChoices() []string {
	out := make([]string, 0, len(schema.ActionKinds))
	for _, k := range schema.ActionKinds {
		out = append(out, string(k))
	}
	return out
}

func (b *builder) createAction(_ context.Context, s *schema.Schema, params grammar.Params) (mutate.Result, error) {
	id, err := b.p.Input("What's the name of the new action? Use group.action notation", "")
	if err != nil {
		return nil, err
	}
	if _, _, err := schema.SplitActionID(id); err != nil {
		return nil, err
	}
	params[ParamAction] = id

	kind, err := b.p.Select("What type of action is it?", kindChoices(), string(schema.ActionRead))
	if err != nil {
		return nil, err
	}
	a := &schema.Action{Type: schema.ActionKind(kind), Arguments: []*schema.Field{}}

	if a.Returns, err = b.p.Select("What does it return?", s.TypeChoices(true), schema.Void); err != nil {
		return nil, err
	}
	if a.Returns != schema.Void {
		if a.ReturnsArray, err = b.p.Confirm("Does it return an array?", false); err != nil {
			return nil, err
		}
		if a.ReturnsNullable, err = b.p.Confirm("Can the return value be null?", false); err != nil {
			return nil, err
		}
	}

	for {
		more, err := b.p.Confirm("Do you want to add an argument?", false)
		if err != nil {
			return nil, err
		}
		if !more {
			break
		}
		arg, err := b.argumentDialogue(s, id)
		if err != nil {
			return nil, err
		}
		a.Arguments = append(a.Arguments, arg)
	}
	return mutate.CreateAction(s, id, a)
}

func (b *builder) argumentDialogue(s *schema.Schema, action string) (*schema.Field, error) {
	name, err := b.p.Input("What's the name of the argument?", "")
	if err != nil {
		return nil, err
	}
	if err := mutate.CheckFieldName(name, action); err != nil {
		return nil, err
	}
	arg := &schema.Field{Name: name}
	if arg.Type, err = b.p.Select("What's the type of the argument?", s.TypeChoices(false), schema.TypeString); err != nil {
		return nil, err
	}
	if arg.Array, err = b.p.Confirm("Is this an array?", false); err != nil {
		return nil, err
	}
	if arg.Nullable, err = b.p.Confirm("Is it nullable?", false); err != nil {
		return nil, err
	}
	return arg, nil
}

func (b *builder) renameAction(_ context.Context, s *schema.Schema, params grammar.Params) (mutate.Result, error) {
	a, err := s.FindAction(params[ParamAction])
	if err != nil {
		return nil, err
	}
	name, err := b.p.Input(fmt.Sprintf("What's the new name of %s?", params[ParamAction]), a.Name)
	if err != nil {
		return nil, err
	}
	params[ParamName] = name
	return mutate.RenameAction(s, params[ParamAction], name)
}

func (b *builder) setActionKind(_ context.Context, s *schema.Schema, params grammar.Params) (mutate.Result, error) {
	a, err := s.FindAction(params[ParamAction])
	if err != nil {
		return nil, err
	}
	kind, err := b.p.Select("What type of action is it?", kindChoices(), string(a.Type))
	if err != nil {
		return nil, err
	}
	params[ParamName] = kind
	return mutate.SetActionKind(s, params[ParamAction], schema.ActionKind(kind))
}

func (b *builder) dropAction(_ context.Context, s *schema.Schema, params grammar.Params) (mutate.Result, error) {
	return mutate.DropAction(s, params[ParamAction])
}

func (b *builder) dropArgument(_ context.Context, s *schema.Schema, params grammar.Params) (mutate.Result, error) {
	return mutate.DropArgument(s, params[ParamAction], params[ParamArgument])
}
