package migrate

import (
	"fmt"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/aidanlsb/modeler/internal/schema"
)

// catalog is a minimal in-memory storage structure that statements apply to.
type catalog map[string]map[string]Column

func seedCatalog(s *schema.Schema) catalog {
	c := catalog{}
	for _, e := range s.Entities {
		_ = c.apply(TableFor(s, e))
	}
	return c
}

func (c catalog) apply(st Statement) error {
	switch v := st.(type) {
	case CreateTable:
		if _, ok := c[v.Table]; ok {
			return fmt.Errorf("table %s exists", v.Table)
		}
		cols := map[string]Column{}
		for _, col := range v.Columns {
			cols[col.Name] = col
		}
		c[v.Table] = cols
	case DropTable:
		if _, ok := c[v.Table]; !ok {
			return fmt.Errorf("no table %s", v.Table)
		}
		delete(c, v.Table)
	case RenameTable:
		cols, ok := c[v.From]
		if !ok {
			return fmt.Errorf("no table %s", v.From)
		}
		delete(c, v.From)
		c[v.To] = cols
	case AddColumn:
		cols, ok := c[v.Table]
		if !ok {
			return fmt.Errorf("no table %s", v.Table)
		}
		if _, ok := cols[v.Column.Name]; ok {
			return fmt.Errorf("column %s.%s exists", v.Table, v.Column.Name)
		}
		cols[v.Column.Name] = v.Column
	case DropColumn:
		if _, ok := c[v.Table][v.Column]; !ok {
			return fmt.Errorf("no column %s.%s", v.Table, v.Column)
		}
		delete(c[v.Table], v.Column)
	case RenameColumn:
		col, ok := c[v.Table][v.From]
		if !ok {
			return fmt.Errorf("no column %s.%s", v.Table, v.From)
		}
		delete(c[v.Table], v.From)
		col.Name = v.To
		c[v.Table][v.To] = col
	case AlterColumn:
		if _, ok := c[v.Table][v.Column.Name]; !ok {
			return fmt.Errorf("no column %s.%s", v.Table, v.Column.Name)
		}
		c[v.Table][v.Column.Name] = v.Column
	default:
		return fmt.Errorf("unexpected statement %T", st)
	}
	return nil
}

func (c catalog) applyAll(stmts []Statement) error {
	for _, st := range stmts {
		if err := c.apply(st); err != nil {
			return err
		}
	}
	return nil
}

func (c catalog) tables() []string {
	var names []string
	for n := range c {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// TestRoundTripLaw applies each logged mutation's forward statements and
// then its inverse, and expects the pre-mutation structure back.
func TestRoundTripLaw(t *testing.T) {
	r := fullSession(t)
	reg := DefaultRegistry()

	for _, e := range r.log.Entries() {
		pair, ok := reg.Lookup(e.Command)
		if !ok {
			continue
		}
		t.Run(e.Command, func(t *testing.T) {
			c := seedCatalog(e.Before)
			want := seedCatalog(e.Before)

			up, err := pair.Up(e)
			require.NoError(t, err)
			require.NoError(t, c.applyAll(up))

			after := seedCatalog(e.After)
			if diff := cmp.Diff(after, c); diff != "" {
				t.Fatalf("forward statements do not reach the new structure (-want +got):\n%s", diff)
			}

			down, err := pair.Down(e)
			require.NoError(t, err)
			require.NoError(t, c.applyAll(down))
			if diff := cmp.Diff(want, c); diff != "" {
				t.Errorf("inverse does not restore the structure (-want +got):\n%s", diff)
			}
		})
	}
}

func TestWholeSessionRoundTrip(t *testing.T) {
	r := fullSession(t)
	entries := r.log.Entries()
	script, err := NewDeriver(DefaultRegistry(), nil).Derive(entries)
	require.NoError(t, err)

	c := seedCatalog(entries[0].Before)
	require.NoError(t, c.applyAll(script.Up))
	if diff := cmp.Diff(seedCatalog(r.doc), c); diff != "" {
		t.Fatalf("forward script does not reach the final document (-want +got):\n%s", diff)
	}
	require.NoError(t, c.applyAll(script.Down))
	if diff := cmp.Diff(seedCatalog(entries[0].Before), c); diff != "" {
		t.Errorf("backward script does not restore the initial document (-want +got):\n%s", diff)
	}
	require.Equal(t, []string{"author", "book"}, c.tables())
}
