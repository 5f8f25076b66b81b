package migrate

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"github.com/google/go-cmp/cmp"
	_ "modernc.org/sqlite"

	"github.com/aidanlsb/modeler/internal/schema"
)

// ColumnShape is the part of a column the round trip must preserve.
type ColumnShape struct {
	Name    string
	Type    string
	NotNull bool
	Primary bool
}

// Shape maps table names to their columns sorted by name.
type Shape map[string][]ColumnShape

// Verify dry-runs script on an in-memory SQLite database seeded with the
// tables of seed. It fails when a statement is rejected or when the backward
// half does not restore the seeded shape.
func Verify(ctx context.Context, seed *schema.Schema, script *Script) error {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return fmt.Errorf("failed to open verification database: %w", err)
	}
	defer db.Close()
	// Each connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)

	d := SQLite{}
	var create []Statement
	for _, e := range seed.Entities {
		create = append(create, TableFor(seed, e))
	}
	if err := apply(ctx, db, d, create); err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	before, err := ReadShape(ctx, db)
	if err != nil {
		return err
	}

	if err := apply(ctx, db, d, script.Up); err != nil {
		return fmt.Errorf("forward script: %w", err)
	}
	if err := apply(ctx, db, d, script.Down); err != nil {
		return fmt.Errorf("backward script: %w", err)
	}
	after, err := ReadShape(ctx, db)
	if err != nil {
		return err
	}
	if diff := cmp.Diff(before, after); diff != "" {
		return fmt.Errorf("backward script does not restore the original tables (-want +got):\n%s", diff)
	}
	return nil
}

func apply(ctx context.Context, db *sql.DB, d Dialect, stmts []Statement) error {
	for _, q := range RenderAll(d, stmts) {
		if isComment(q) {
			continue
		}
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("%s: %w", q, err)
		}
	}
	return nil
}

// ReadShape reads the user tables of a SQLite database.
func ReadShape(ctx context.Context, db *sql.DB) (Shape, error) {
	rows, err := db.QueryContext(ctx, `SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			rows.Close()
			return nil, err
		}
		tables = append(tables, name)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	shape := make(Shape, len(tables))
	for _, t := range tables {
		cols, err := tableInfo(ctx, db, t)
		if err != nil {
			return nil, err
		}
		shape[t] = cols
	}
	return shape, nil
}

func tableInfo(ctx context.Context, db *sql.DB, table string) ([]ColumnShape, error) {
	rows, err := db.QueryContext(ctx, "PRAGMA table_info("+ident(table)+")")
	if err != nil {
		return nil, fmt.Errorf("failed to read columns of %s: %w", table, err)
	}
	defer rows.Close()

	var cols []ColumnShape
	for rows.Next() {
		var (
			cid     int
			name    string
			typ     string
			notNull int
			dflt    sql.NullString
			pk      int
		)
		if err := rows.Scan(&cid, &name, &typ, &notNull, &dflt, &pk); err != nil {
			return nil, err
		}
		cols = append(cols, ColumnShape{Name: name, Type: typ, NotNull: notNull != 0, Primary: pk > 0})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	sort.Slice(cols, func(i, j int) bool { return cols[i].Name < cols[j].Name })
	return cols, nil
}
