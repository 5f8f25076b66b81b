package migrate

import (
	"fmt"
	"strings"
)

// Dialect renders statements as SQL. A statement may render as several SQL
// statements, or as a single comment line when the dialect cannot express it.
type Dialect interface {
	Name() string
	Render(s Statement) []string
}

// LookupDialect returns the dialect called name.
func LookupDialect(name string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "postgres", "postgresql":
		return Postgres{}, nil
	case "sqlite", "sqlite3":
		return SQLite{}, nil
	default:
		return nil, fmt.Errorf("unknown migration dialect %q (supported: postgres, sqlite)", name)
	}
}

func ident(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func isComment(sql string) bool {
	return strings.HasPrefix(sql, "--")
}

type typeMapper func(c Column) string

// createTable renders CREATE TABLE with a table level primary key, shared by
// both dialects.
func createTable(t CreateTable, colType typeMapper, def func(Column) string) string {
	var cols, keys []string
	for _, c := range t.Columns {
		cols = append(cols, columnDef(c, colType, def))
		if c.Primary {
			keys = append(keys, ident(c.Name))
		}
	}
	if len(keys) > 0 {
		cols = append(cols, "PRIMARY KEY ("+strings.Join(keys, ", ")+")")
	}
	return fmt.Sprintf("CREATE TABLE %s (\n  %s\n);", ident(t.Table), strings.Join(cols, ",\n  "))
}

func columnDef(c Column, colType typeMapper, def func(Column) string) string {
	var b strings.Builder
	b.WriteString(ident(c.Name))
	b.WriteString(" ")
	b.WriteString(colType(c))
	if c.NotNull {
		b.WriteString(" NOT NULL")
	}
	if d := def(c); d != "" {
		b.WriteString(" DEFAULT ")
		b.WriteString(d)
	}
	return b.String()
}

// Postgres renders statements for PostgreSQL.
type Postgres struct{}

func (Postgres) Name() string { return "postgres" }

func (Postgres) columnType(c Column) string {
	switch c.Type {
	case ColString:
		return "text"
	case ColNumber:
		return "double precision"
	case ColInteger:
		return "integer"
	case ColBoolean:
		return "boolean"
	case ColDate:
		return "date"
	case ColDatetime:
		return "timestamp with time zone"
	case ColIncrements:
		return "serial"
	case ColUUID:
		return "uuid"
	default:
		return "jsonb"
	}
}

func (Postgres) defaultExpr(c Column) string {
	return c.Default
}

func (p Postgres) Render(s Statement) []string {
	switch st := s.(type) {
	case CreateTable:
		return []string{createTable(st, p.columnType, p.defaultExpr)}
	case DropTable:
		return []string{fmt.Sprintf("DROP TABLE %s;", ident(st.Table))}
	case RenameTable:
		return []string{fmt.Sprintf("ALTER TABLE %s RENAME TO %s;", ident(st.From), ident(st.To))}
	case AddColumn:
		def := columnDef(st.Column, p.columnType, p.defaultExpr)
		if st.Column.Primary {
			def += " PRIMARY KEY"
		}
		return []string{fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s;", ident(st.Table), def)}
	case DropColumn:
		return []string{fmt.Sprintf("ALTER TABLE %s DROP COLUMN %s;", ident(st.Table), ident(st.Column))}
	case RenameColumn:
		return []string{fmt.Sprintf("ALTER TABLE %s RENAME COLUMN %s TO %s;", ident(st.Table), ident(st.From), ident(st.To))}
	case AlterColumn:
		return p.alterColumn(st)
	default:
		return []string{fmt.Sprintf("-- unsupported statement %T", s)}
	}
}

func (p Postgres) alterColumn(st AlterColumn) []string {
	c := st.Column
	typ := p.columnType(c)
	if c.Type == ColIncrements {
		// serial is a creation shorthand, not a type.
		typ = "integer"
	}
	table, col := ident(st.Table), ident(c.Name)
	out := []string{fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s TYPE %s USING %s::%s;", table, col, typ, col, typ)}
	if c.NotNull {
		out = append(out, fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s SET NOT NULL;", table, col))
	} else {
		out = append(out, fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s DROP NOT NULL;", table, col))
	}
	if c.Default != "" {
		out = append(out, fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s SET DEFAULT %s;", table, col, c.Default))
	} else {
		out = append(out, fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s DROP DEFAULT;", table, col))
	}
	return out
}

// SQLite renders statements for SQLite. It cannot change a column's type in
// place nor add or drop a key column, so those statements rebuild the table
// from their target. An AlterColumn without a target renders as a comment.
type SQLite struct{}

func (SQLite) Name() string { return "sqlite" }

func (SQLite) columnType(c Column) string {
	switch c.Type {
	case ColString, ColUUID:
		return "TEXT"
	case ColNumber:
		return "REAL"
	case ColInteger, ColIncrements:
		return "INTEGER"
	case ColBoolean:
		return "BOOLEAN"
	case ColDate:
		return "DATE"
	case ColDatetime:
		return "DATETIME"
	default:
		return "JSON"
	}
}

// defaultExpr drops function defaults SQLite does not provide.
func (SQLite) defaultExpr(c Column) string {
	if c.Default == DefaultUUID {
		return ""
	}
	return c.Default
}

// addDefault supplies the constant SQLite requires when adding a NOT NULL
// column to an existing table.
func (s SQLite) addDefault(c Column) string {
	if d := s.defaultExpr(c); d != "" || !c.NotNull {
		return d
	}
	switch c.Type {
	case ColNumber, ColInteger, ColIncrements, ColBoolean:
		return "0"
	case ColJSON:
		return "'null'"
	default:
		return "''"
	}
}

func (s SQLite) Render(st Statement) []string {
	switch v := st.(type) {
	case CreateTable:
		return []string{createTable(v, s.columnType, s.defaultExpr)}
	case DropTable:
		return []string{fmt.Sprintf("DROP TABLE %s;", ident(v.Table))}
	case RenameTable:
		return []string{fmt.Sprintf("ALTER TABLE %s RENAME TO %s;", ident(v.From), ident(v.To))}
	case AddColumn:
		if v.Target != nil {
			return s.rebuild(*v.Target, v.Column.Name)
		}
		return []string{fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s;", ident(v.Table), columnDef(v.Column, s.columnType, s.addDefault))}
	case DropColumn:
		if v.Target != nil {
			return s.rebuild(*v.Target, "")
		}
		return []string{fmt.Sprintf("ALTER TABLE %s DROP COLUMN %s;", ident(v.Table), ident(v.Column))}
	case RenameColumn:
		return []string{fmt.Sprintf("ALTER TABLE %s RENAME COLUMN %s TO %s;", ident(v.Table), ident(v.From), ident(v.To))}
	case AlterColumn:
		if v.Target != nil {
			return s.rebuild(*v.Target, "")
		}
		return []string{fmt.Sprintf("-- sqlite cannot alter %s.%s to %s in place", v.Table, v.Column.Name, s.columnType(v.Column))}
	default:
		return []string{fmt.Sprintf("-- unsupported statement %T", st)}
	}
}

// rebuild replaces t.Table with a table defined by t, copying the rows of
// every column except fresh, which is new and takes its fill value.
func (s SQLite) rebuild(t CreateTable, fresh string) []string {
	tmp := t
	tmp.Table = t.Table + "__rebuild"
	def := func(c Column) string {
		if c.Name != fresh || c.Type == ColIncrements {
			return s.defaultExpr(c)
		}
		return s.addDefault(c)
	}
	out := []string{createTable(tmp, s.columnType, def)}

	var cols []string
	for _, c := range t.Columns {
		if c.Name != fresh {
			cols = append(cols, ident(c.Name))
		}
	}
	if len(cols) > 0 {
		list := strings.Join(cols, ", ")
		out = append(out, fmt.Sprintf("INSERT INTO %s (%s) SELECT %s FROM %s;", ident(tmp.Table), list, list, ident(t.Table)))
	}
	return append(out,
		fmt.Sprintf("DROP TABLE %s;", ident(t.Table)),
		fmt.Sprintf("ALTER TABLE %s RENAME TO %s;", ident(tmp.Table), ident(t.Table)),
	)
}

// RenderAll renders stmts in order.
func RenderAll(d Dialect, stmts []Statement) []string {
	var out []string
	for _, s := range stmts {
		out = append(out, d.Render(s)...)
	}
	return out
}
