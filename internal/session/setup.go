package session

import (
	"errors"
	"fmt"
	"slices"

	"github.com/aidanlsb/modeler/internal/config"
	"github.com/aidanlsb/modeler/internal/migrate"
	"github.com/aidanlsb/modeler/internal/schema"
	"github.com/aidanlsb/modeler/internal/ui"
)

// ErrDeclined is returned by Open when the user chose not to create a
// document.
var ErrDeclined = errors.New("no data model to edit")

// Dialects lists the migration dialects offered by the setup dialogue.
var Dialects = []string{"postgres", "sqlite"}

// setup creates and saves an empty document after asking where migrations
// go and in which dialect.
func (s *Session) setup() (*schema.Schema, error) {
	p := s.opts.Prompter
	ok, err := p.Confirm(fmt.Sprintf("No data model found at %s. Create one?", s.schemaPath), true)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrDeclined
	}

	dir, err := p.Input("Where should migration scripts be written? Enter - for none", "migrations")
	if err != nil {
		return nil, err
	}
	if dir == "-" {
		dir = ""
	}
	doc := schema.New(map[string]string{"migrations": dir})

	if _, ok := doc.Paths["migrations"]; ok {
		def := s.cfg.Dialect()
		if !slices.Contains(Dialects, def) {
			def = Dialects[0]
		}
		dialect, err := p.Select("Which SQL dialect should migrations use?", Dialects, def)
		if err != nil {
			return nil, err
		}
		if dialect != s.cfg.Dialect() {
			s.cfg.Migrations.Dialect = dialect
			if err := config.SaveTo(s.opts.ConfigPath, s.cfg); err != nil {
				return nil, err
			}
			if s.dialect, err = migrate.LookupDialect(dialect); err != nil {
				return nil, err
			}
		} else if created, err := config.CreateDefault(s.opts.ConfigPath); err != nil {
			return nil, err
		} else if created {
			fmt.Fprintln(s.out, ui.Hint("Wrote "+s.opts.ConfigPath+" with the default settings"))
		}
	}

	if err := schema.Save(s.schemaPath, doc); err != nil {
		return nil, err
	}
	fmt.Fprintln(s.out, ui.Success("Created "+s.schemaPath))
	return doc, nil
}
