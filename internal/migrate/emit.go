package migrate

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gosimple/slug"

	"github.com/aidanlsb/modeler/internal/actionlog"
	"github.com/aidanlsb/modeler/internal/atomicfile"
)

// DefaultName is the migration name used when none is configured.
const DefaultName = "datamodel"

const timestampLayout = "20060102150405"

// Emitter writes the up and down script files of a session.
type Emitter struct {
	Dir     string
	Name    string
	Dialect Dialect
	Deriver *Deriver
}

// Files names the scripts written by Emit.
type Files struct {
	Up   string
	Down string
}

// FileNames returns the script paths for a session whose log starts with
// first. The timestamp is that of the first entry, so every regeneration in
// one session rewrites the same pair.
func (m *Emitter) FileNames(first actionlog.Entry) Files {
	name := slug.Make(m.Name)
	if name == "" {
		name = DefaultName
	}
	base := filepath.Join(m.Dir, first.Time.UTC().Format(timestampLayout)+"_"+name)
	return Files{Up: base + ".up.sql", Down: base + ".down.sql"}
}

// Emit derives the scripts for entries and writes both files. An empty log
// writes nothing and returns nil.
func (m *Emitter) Emit(entries []actionlog.Entry) (*Files, *Script, error) {
	if len(entries) == 0 {
		return nil, nil, nil
	}
	script, err := m.Deriver.Derive(entries)
	if err != nil {
		return nil, nil, err
	}
	files := m.FileNames(entries[0])
	header := func(direction string) string {
		return fmt.Sprintf("-- %s migration derived from %d command(s), dialect %s", direction, len(entries), m.Dialect.Name())
	}

	if err := atomicfile.WriteFileAll(files.Up, render(header("forward"), m.Dialect, script.Up), 0o644); err != nil {
		return nil, nil, fmt.Errorf("failed to write %s: %w", files.Up, err)
	}
	if err := atomicfile.WriteFileAll(files.Down, render(header("backward"), m.Dialect, script.Down), 0o644); err != nil {
		return nil, nil, fmt.Errorf("failed to write %s: %w", files.Down, err)
	}
	return &files, script, nil
}

func render(header string, d Dialect, stmts []Statement) []byte {
	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n")
	for _, sql := range RenderAll(d, stmts) {
		b.WriteString("\n")
		b.WriteString(sql)
		b.WriteString("\n")
	}
	return []byte(b.String())
}
