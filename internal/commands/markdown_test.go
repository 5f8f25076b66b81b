package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// countTables parses md as GitHub-flavored markdown and counts its tables
// and table rows.
func countTables(t *testing.T, md string) (tables, rows int) {
	t.Helper()
	src := []byte(md)
	doc := goldmark.New(goldmark.WithExtensions(extension.Table)).Parser().Parse(text.NewReader(src))
	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n.Kind() {
		case extast.KindTable:
			tables++
		case extast.KindTableRow:
			rows++
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		t.Fatalf("walk markdown: %v", err)
	}
	return tables, rows
}

func TestDescriptionsAreWellFormedTables(t *testing.T) {
	s := shop()

	tables, rows := countTables(t, SchemaMarkdown(s))
	// One table per entity plus one for the action arguments.
	assert.Equal(t, 3, tables)
	// Body rows only: 2 Customer fields, 2 Order fields, 2 arguments.
	assert.Equal(t, 6, rows)

	tree, err := NewTree(nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	tables, rows = countTables(t, HelpMarkdown(&Help{Commands: tree.Commands()}))
	assert.Equal(t, 1, tables)
	assert.Equal(t, len(tree.Commands()), rows)
}
