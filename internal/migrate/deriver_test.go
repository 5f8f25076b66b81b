package migrate

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/aidanlsb/modeler/internal/actionlog"
	"github.com/aidanlsb/modeler/internal/mutate"
	"github.com/aidanlsb/modeler/internal/schema"
)

func TestDeriveVisitsInversesInReverse(t *testing.T) {
	r := newRecorder(t, schema.New(nil))
	r.do(func(s *schema.Schema) (mutate.Result, error) {
		return mutate.CreateEntity(s, "Foo", []*schema.Field{{Name: "id", Type: schema.TypeNumber, Primary: true, PrimaryAuto: true}})
	})
	r.do(func(s *schema.Schema) (mutate.Result, error) {
		return mutate.DropEntity(s, "Foo")
	})

	script, err := NewDeriver(DefaultRegistry(), nil).Derive(r.log.Entries())
	require.NoError(t, err)

	foo := CreateTable{Table: "foo", Columns: []Column{{Name: "id", Type: ColIncrements, NotNull: true, Primary: true}}}
	wantUp := []Statement{foo, DropTable{Table: "foo"}}
	wantDown := []Statement{foo, DropTable{Table: "foo"}}
	if diff := cmp.Diff(wantUp, script.Up); diff != "" {
		t.Errorf("forward script mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(wantDown, script.Down); diff != "" {
		t.Errorf("backward script mismatch (-want +got):\n%s", diff)
	}
}

func TestDeriveDropEntityCascade(t *testing.T) {
	r := newRecorder(t, bookstore())
	r.do(func(s *schema.Schema) (mutate.Result, error) {
		return mutate.DropEntity(s, "Author")
	})

	script, err := NewDeriver(DefaultRegistry(), nil).Derive(r.log.Entries())
	require.NoError(t, err)

	wantUp := []Statement{
		DropColumn{Table: "book", Column: "author"},
		DropTable{Table: "author"},
	}
	wantDown := []Statement{
		CreateTable{Table: "author", Columns: []Column{
			{Name: "id", Type: ColIncrements, NotNull: true, Primary: true},
			{Name: "name", Type: ColString, NotNull: true},
		}},
		AddColumn{Table: "book", Column: Column{Name: "author", Type: ColInteger, NotNull: true}},
	}
	if diff := cmp.Diff(wantUp, script.Up); diff != "" {
		t.Errorf("forward script mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(wantDown, script.Down); diff != "" {
		t.Errorf("backward script mismatch (-want +got):\n%s", diff)
	}
}

func TestDeriveRealignsReferencesToEditedKey(t *testing.T) {
	r := newRecorder(t, bookstore())
	r.do(func(s *schema.Schema) (mutate.Result, error) {
		return mutate.SetFieldType(s, "Author", "id", &schema.Field{Type: schema.TypeString, Primary: true, PrimaryAuto: true})
	})
	r.do(func(s *schema.Schema) (mutate.Result, error) {
		return mutate.DropField(s, "Author", "id")
	})

	script, err := NewDeriver(DefaultRegistry(), nil).Derive(r.log.Entries())
	require.NoError(t, err)

	var refs []string
	for _, st := range script.Up {
		if a, ok := st.(AlterColumn); ok && a.Table == "book" {
			assert.Equal(t, "author", a.Column.Name)
			require.NotNil(t, a.Target)
			refs = append(refs, a.Column.Type)
		}
	}
	assert.Equal(t, []string{ColUUID, ColJSON}, refs)

	refs = nil
	for _, st := range script.Down {
		if a, ok := st.(AlterColumn); ok && a.Table == "book" {
			refs = append(refs, a.Column.Type)
		}
	}
	assert.Equal(t, []string{ColUUID, ColInteger}, refs)

	drop, ok := script.Up[2].(DropColumn)
	require.True(t, ok, "%T", script.Up[2])
	require.NotNil(t, drop.Target)
	assert.Equal(t, []Column{{Name: "name", Type: ColString, NotNull: true}}, drop.Target.Columns)
}

func TestDeriveUsesFrozenSnapshots(t *testing.T) {
	r := newRecorder(t, bookstore())
	r.do(func(s *schema.Schema) (mutate.Result, error) {
		return mutate.AddField(s, "Book", &schema.Field{Name: "pages", Type: schema.TypeInteger})
	})
	r.do(func(s *schema.Schema) (mutate.Result, error) {
		return mutate.RenameEntity(s, "Book", "Volume")
	})
	r.do(func(s *schema.Schema) (mutate.Result, error) {
		return mutate.DropEntity(s, "Volume")
	})

	script, err := NewDeriver(DefaultRegistry(), nil).Derive(r.log.Entries())
	require.NoError(t, err)

	want := []Statement{
		AddColumn{Table: "book", Column: Column{Name: "pages", Type: ColInteger, NotNull: true}},
		RenameTable{From: "book", To: "volume"},
		DropTable{Table: "volume"},
	}
	if diff := cmp.Diff(want, script.Up); diff != "" {
		t.Errorf("forward script mismatch (-want +got):\n%s", diff)
	}
	require.Len(t, script.Down, 3)
	assert.Equal(t, "volume", script.Down[0].(CreateTable).Table)
	assert.Equal(t, RenameTable{From: "volume", To: "book"}, script.Down[1])
	assert.Equal(t, DropColumn{Table: "book", Column: "pages"}, script.Down[2])
}

func TestDeriveWarnsOnUnregisteredCommands(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	r := fullSession(t)

	script, err := NewDeriver(DefaultRegistry(), zap.New(core)).Derive(r.log.Entries())
	require.NoError(t, err)
	assert.NotEmpty(t, script.Up)

	warnings := logs.FilterMessage("no migration generator for command").All()
	require.Len(t, warnings, 2)
	for _, w := range warnings {
		assert.Equal(t, string(mutate.OpCreateAction), w.ContextMap()["command"])
	}
	assert.Equal(t, "up", warnings[0].ContextMap()["half"])
	assert.Equal(t, "down", warnings[1].ContextMap()["half"])
}

func TestDeriveRejectsMismatchedResult(t *testing.T) {
	l := actionlog.New()
	s := schema.New(nil)
	l.Append(string(mutate.OpDropField), nil, "not a result", s, s)

	_, err := NewDeriver(DefaultRegistry(), nil).Derive(l.Entries())
	assert.ErrorContains(t, err, "alter-field-drop")
}

func TestDefaultRegistryCoversStorageMutations(t *testing.T) {
	assert.Equal(t, []string{
		"alter-entity-add-field",
		"alter-entity-rename",
		"alter-field-drop",
		"alter-field-set-name",
		"alter-field-set-type",
		"create-entity",
		"drop-entity",
	}, DefaultRegistry().Commands())
}
