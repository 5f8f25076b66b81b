package mutate

import (
	"fmt"

	"github.com/aidanlsb/modeler/internal/schema"
)

// CreatedAction is the result of CreateAction.
type CreatedAction struct {
	Group  string
	Action *schema.Action
	// NewGroup is set when the group did not exist before.
	NewGroup bool
}

func (CreatedAction) Op() Op { return OpCreateAction }

// CreateAction appends an action to the group named by the "group.name"
// identifier, creating the group when absent. The name part of id overrides
// a.Name.
func CreateAction(s *schema.Schema, id string, a *schema.Action) (*CreatedAction, error) {
	group, name, err := schema.SplitActionID(id)
	if err != nil {
		return nil, &ConflictError{Kind: "action", Name: id, Reason: "use group.action notation"}
	}
	if err := checkName("action group", group, ""); err != nil {
		return nil, err
	}
	if err := checkName("action", name, group); err != nil {
		return nil, err
	}
	for _, other := range s.Actions[group] {
		if other.Name == name {
			return nil, &ConflictError{Kind: "action", Name: id, Reason: "already exists"}
		}
	}
	if _, ok := schema.ParseActionKind(string(a.Type)); !ok {
		return nil, &ConflictError{Kind: "action", Name: id, Reason: fmt.Sprintf("unknown action type '%s'", a.Type)}
	}

	next := a.Clone()
	next.Name = name
	if next.Returns == "" {
		next.Returns = schema.Void
	}
	if next.Returns == schema.Void {
		next.ReturnsArray = false
		next.ReturnsNullable = false
	} else if !s.ResolvesType(next.Returns) {
		return nil, &ConflictError{Kind: "action", Name: id, Reason: fmt.Sprintf("return type '%s' does not resolve", next.Returns)}
	}
	for _, arg := range next.Arguments {
		arg.Primary, arg.PrimaryAuto = false, false
		if err := checkField(s, "argument", id, arg, next.Arguments); err != nil {
			return nil, err
		}
	}

	_, existed := s.Actions[group]
	s.Actions[group] = append(s.Actions[group], next)
	return &CreatedAction{Group: group, Action: next.Clone(), NewGroup: !existed}, nil
}

// DroppedAction is the result of DropAction.
type DroppedAction struct {
	Group  string
	Index  int
	Action *schema.Action
}

func (DroppedAction) Op() Op { return OpDropAction }

// DropAction removes an action from its group. An emptied group is kept.
func DropAction(s *schema.Schema, id string) (*DroppedAction, error) {
	group, i, err := s.FindActionIndex(id)
	if err != nil {
		return nil, err
	}
	actions := s.Actions[group]
	res := &DroppedAction{Group: group, Index: i, Action: actions[i].Clone()}
	s.Actions[group] = append(actions[:i:i], actions[i+1:]...)
	return res, nil
}

// RenamedAction is the result of RenameAction.
type RenamedAction struct {
	Group   string
	OldName string
	NewName string
}

func (RenamedAction) Op() Op { return OpRenameAction }

// RenameAction renames an action within its group.
func RenameAction(s *schema.Schema, id, newName string) (*RenamedAction, error) {
	group, i, err := s.FindActionIndex(id)
	if err != nil {
		return nil, err
	}
	if err := checkName("action", newName, group); err != nil {
		return nil, err
	}
	a := s.Actions[group][i]
	for j, other := range s.Actions[group] {
		if j != i && other.Name == newName {
			return nil, &ConflictError{Kind: "action", Name: schema.ActionID(group, newName), Reason: "already exists"}
		}
	}
	res := &RenamedAction{Group: group, OldName: a.Name, NewName: newName}
	a.Name = newName
	return res, nil
}

// RetypedAction is the result of SetActionKind.
type RetypedAction struct {
	Action  string
	OldKind schema.ActionKind
	NewKind schema.ActionKind
}

func (RetypedAction) Op() Op { return OpSetActionKind }

// SetActionKind changes the CRUD kind of an action.
func SetActionKind(s *schema.Schema, id string, kind schema.ActionKind) (*RetypedAction, error) {
	a, err := s.FindAction(id)
	if err != nil {
		return nil, err
	}
	if _, ok := schema.ParseActionKind(string(kind)); !ok {
		return nil, &ConflictError{Kind: "action", Name: id, Reason: fmt.Sprintf("unknown action type '%s'", kind)}
	}
	res := &RetypedAction{Action: id, OldKind: a.Type, NewKind: kind}
	a.Type = kind
	return res, nil
}

// DroppedArgument is the result of DropArgument.
type DroppedArgument struct {
	Action   string
	Index    int
	Argument *schema.Field
}

func (DroppedArgument) Op() Op { return OpDropArgument }

// DropArgument removes an argument from an action.
func DropArgument(s *schema.Schema, id, argument string) (*DroppedArgument, error) {
	a, err := s.FindAction(id)
	if err != nil {
		return nil, err
	}
	i := a.ArgumentIndex(argument)
	if i < 0 {
		return nil, &schema.LookupError{Kind: "argument", Name: argument, Container: id}
	}
	res := &DroppedArgument{Action: id, Index: i, Argument: a.Arguments[i].Clone()}
	a.Arguments = append(a.Arguments[:i:i], a.Arguments[i+1:]...)
	return res, nil
}
