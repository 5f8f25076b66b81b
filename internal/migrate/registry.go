package migrate

import (
	"fmt"
	"sort"

	"github.com/aidanlsb/modeler/internal/actionlog"
	"github.com/aidanlsb/modeler/internal/mutate"
	"github.com/aidanlsb/modeler/internal/schema"
)

// Generator turns one log entry into statements. Generators read only the
// entry: its typed result and its frozen before and after documents.
type Generator func(e actionlog.Entry) ([]Statement, error)

// Pair holds the forward and inverse generators of one command.
type Pair struct {
	Up   Generator
	Down Generator
}

// Registry maps command identities to generator pairs.
type Registry struct {
	pairs map[string]Pair
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{pairs: make(map[string]Pair)}
}

// Register adds the pair for command, replacing any earlier one.
func (r *Registry) Register(command string, p Pair) {
	r.pairs[command] = p
}

// Lookup returns the pair registered for command.
func (r *Registry) Lookup(command string) (Pair, bool) {
	p, ok := r.pairs[command]
	return p, ok
}

// Commands returns the registered command identities, sorted.
func (r *Registry) Commands() []string {
	out := make([]string, 0, len(r.pairs))
	for c := range r.pairs {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// DefaultRegistry returns the generators for every mutation that changes
// storage. Action edits have no storage impact and are not registered.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(string(mutate.OpCreateEntity), Pair{Up: createEntityUp, Down: createEntityDown})
	r.Register(string(mutate.OpDropEntity), Pair{Up: dropEntityUp, Down: dropEntityDown})
	r.Register(string(mutate.OpAddField), Pair{Up: addFieldUp, Down: addFieldDown})
	r.Register(string(mutate.OpRenameEntity), Pair{Up: renameEntityUp, Down: renameEntityDown})
	r.Register(string(mutate.OpSetFieldType), Pair{Up: setFieldTypeUp, Down: setFieldTypeDown})
	r.Register(string(mutate.OpRenameField), Pair{Up: renameFieldUp, Down: renameFieldDown})
	r.Register(string(mutate.OpDropField), Pair{Up: dropFieldUp, Down: dropFieldDown})
	return r
}

func result[T any](e actionlog.Entry) (T, error) {
	if r, ok := e.Result.(T); ok {
		return r, nil
	}
	var zero T
	return zero, fmt.Errorf("log entry %s (%s) carries %T, not %T", e.ID, e.Command, e.Result, zero)
}

func createEntityUp(e actionlog.Entry) ([]Statement, error) {
	r, err := result[*mutate.CreatedEntity](e)
	if err != nil {
		return nil, err
	}
	return append([]Statement{TableFor(e.After, r.Entity)}, referenceShifts(e.Before, e.After, "", "")...), nil
}

func createEntityDown(e actionlog.Entry) ([]Statement, error) {
	r, err := result[*mutate.CreatedEntity](e)
	if err != nil {
		return nil, err
	}
	out := referenceShifts(e.After, e.Before, "", "")
	return append(out, DropTable{Table: TableName(r.Entity.Name)}), nil
}

// dropEntityUp removes the cascaded reference columns before the table.
func dropEntityUp(e actionlog.Entry) ([]Statement, error) {
	r, err := result[*mutate.DroppedEntity](e)
	if err != nil {
		return nil, err
	}
	var out []Statement
	for _, rf := range r.Fields {
		removed := map[string]bool{}
		for _, f := range rf.Fields {
			removed[f.Name] = true
			st := DropColumn{Table: TableName(rf.Entity), Column: ColumnName(f.Name)}
			if f.Primary {
				st.Target = tableWithout(e.Before, rf.Entity, removed)
			}
			out = append(out, st)
		}
	}
	out = append(out, referenceShifts(e.Before, e.After, "", "")...)
	return append(out, DropTable{Table: TableName(r.Entity.Name)}), nil
}

// dropEntityDown recreates the table, then reattaches every column the
// cascade removed elsewhere.
func dropEntityDown(e actionlog.Entry) ([]Statement, error) {
	r, err := result[*mutate.DroppedEntity](e)
	if err != nil {
		return nil, err
	}
	out := []Statement{TableFor(e.Before, r.Entity)}
	for _, rf := range r.Fields {
		missing := map[string]bool{}
		for _, f := range rf.Fields {
			missing[f.Name] = true
		}
		for _, f := range rf.Fields {
			delete(missing, f.Name)
			st := AddColumn{Table: TableName(rf.Entity), Column: ColumnFor(e.Before, f)}
			if f.Primary {
				st.Target = tableWithout(e.Before, rf.Entity, missing)
			}
			out = append(out, st)
		}
	}
	return append(out, referenceShifts(e.After, e.Before, "", "")...), nil
}

func addFieldUp(e actionlog.Entry) ([]Statement, error) {
	r, err := result[*mutate.AddedField](e)
	if err != nil {
		return nil, err
	}
	st := AddColumn{Table: TableName(r.Entity), Column: ColumnFor(e.After, r.Field)}
	if r.Field.Primary {
		st.Target = tableWithout(e.After, r.Entity, nil)
	}
	return append([]Statement{st}, referenceShifts(e.Before, e.After, r.Entity, r.Field.Name)...), nil
}

func addFieldDown(e actionlog.Entry) ([]Statement, error) {
	r, err := result[*mutate.AddedField](e)
	if err != nil {
		return nil, err
	}
	st := DropColumn{Table: TableName(r.Entity), Column: ColumnName(r.Field.Name)}
	if r.Field.Primary {
		st.Target = tableWithout(e.Before, r.Entity, nil)
	}
	return append([]Statement{st}, referenceShifts(e.After, e.Before, r.Entity, r.Field.Name)...), nil
}

func renameEntityUp(e actionlog.Entry) ([]Statement, error) {
	r, err := result[*mutate.RenamedEntity](e)
	if err != nil {
		return nil, err
	}
	return renameTable(r.OldName, r.NewName), nil
}

func renameEntityDown(e actionlog.Entry) ([]Statement, error) {
	r, err := result[*mutate.RenamedEntity](e)
	if err != nil {
		return nil, err
	}
	return renameTable(r.NewName, r.OldName), nil
}

func renameTable(from, to string) []Statement {
	if TableName(from) == TableName(to) {
		return nil
	}
	return []Statement{RenameTable{From: TableName(from), To: TableName(to)}}
}

func setFieldTypeUp(e actionlog.Entry) ([]Statement, error) {
	r, err := result[*mutate.RetypedField](e)
	if err != nil {
		return nil, err
	}
	st := AlterColumn{Table: TableName(r.Entity), Column: ColumnFor(e.After, r.NewField), Target: tableWithout(e.After, r.Entity, nil)}
	return append([]Statement{st}, referenceShifts(e.Before, e.After, r.Entity, r.NewField.Name)...), nil
}

func setFieldTypeDown(e actionlog.Entry) ([]Statement, error) {
	r, err := result[*mutate.RetypedField](e)
	if err != nil {
		return nil, err
	}
	st := AlterColumn{Table: TableName(r.Entity), Column: ColumnFor(e.Before, r.OldField), Target: tableWithout(e.Before, r.Entity, nil)}
	return append([]Statement{st}, referenceShifts(e.After, e.Before, r.Entity, r.OldField.Name)...), nil
}

func renameFieldUp(e actionlog.Entry) ([]Statement, error) {
	r, err := result[*mutate.RenamedField](e)
	if err != nil {
		return nil, err
	}
	return renameColumn(r.Entity, r.OldField.Name, r.NewName), nil
}

func renameFieldDown(e actionlog.Entry) ([]Statement, error) {
	r, err := result[*mutate.RenamedField](e)
	if err != nil {
		return nil, err
	}
	return renameColumn(r.Entity, r.NewName, r.OldField.Name), nil
}

func renameColumn(entity, from, to string) []Statement {
	if ColumnName(from) == ColumnName(to) {
		return nil
	}
	return []Statement{RenameColumn{Table: TableName(entity), From: ColumnName(from), To: ColumnName(to)}}
}

func dropFieldUp(e actionlog.Entry) ([]Statement, error) {
	r, err := result[*mutate.DroppedField](e)
	if err != nil {
		return nil, err
	}
	st := DropColumn{Table: TableName(r.Entity), Column: ColumnName(r.Field.Name)}
	if r.Field.Primary {
		st.Target = tableWithout(e.After, r.Entity, nil)
	}
	return append([]Statement{st}, referenceShifts(e.Before, e.After, r.Entity, r.Field.Name)...), nil
}

func dropFieldDown(e actionlog.Entry) ([]Statement, error) {
	r, err := result[*mutate.DroppedField](e)
	if err != nil {
		return nil, err
	}
	st := AddColumn{Table: TableName(r.Entity), Column: ColumnFor(e.Before, r.Field)}
	if r.Field.Primary {
		st.Target = tableWithout(e.Before, r.Entity, nil)
	}
	return append([]Statement{st}, referenceShifts(e.After, e.Before, r.Entity, r.Field.Name)...), nil
}

// tableWithout describes entity in s, leaving out the fields in skip.
func tableWithout(s *schema.Schema, entity string, skip map[string]bool) *CreateTable {
	e, err := s.FindEntity(entity)
	if err != nil {
		return nil
	}
	t := CreateTable{Table: TableName(e.Name), Columns: make([]Column, 0, len(e.Fields))}
	for _, f := range e.Fields {
		if !skip[f.Name] {
			t.Columns = append(t.Columns, ColumnFor(s, f))
		}
	}
	return &t
}

// referenceShifts realigns the columns whose derived definition differs
// between from and to, such as references to a key that was retyped, added
// or dropped. The field editField of editEntity is the edited one and is
// left out.
func referenceShifts(from, to *schema.Schema, editEntity, editField string) []Statement {
	var out []Statement
	for _, e := range to.Entities {
		prev, err := from.FindEntity(e.Name)
		if err != nil {
			continue
		}
		for _, f := range e.Fields {
			if e.Name == editEntity && f.Name == editField {
				continue
			}
			i := prev.FieldIndex(f.Name)
			if i < 0 {
				continue
			}
			col := ColumnFor(to, f)
			if col == ColumnFor(from, prev.Fields[i]) {
				continue
			}
			out = append(out, AlterColumn{Table: TableName(e.Name), Column: col, Target: tableWithout(to, e.Name, nil)})
		}
	}
	return out
}
