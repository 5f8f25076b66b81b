package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Table aligns rows of cells into left-justified, borderless columns. Widths
// are measured with lipgloss so styled cells line up.
type Table struct {
	cols int
	gap  int
	rows [][]string
}

// NewTable returns a table with cols columns separated by two spaces.
func NewTable(cols int) *Table {
	return &Table{cols: cols, gap: 2}
}

// AddRow appends a row. Missing cells are blank; extra cells are dropped.
func (t *Table) AddRow(cells ...string) {
	row := make([]string, t.cols)
	copy(row, cells)
	t.rows = append(t.rows, row)
}

func (t *Table) String() string {
	if len(t.rows) == 0 {
		return ""
	}
	widths := make([]int, t.cols)
	for _, row := range t.rows {
		for i, cell := range row {
			widths[i] = max(widths[i], lipgloss.Width(cell))
		}
	}

	var sb strings.Builder
	for _, row := range t.rows {
		for i, cell := range row {
			sb.WriteString(cell)
			if i < len(row)-1 {
				sb.WriteString(strings.Repeat(" ", widths[i]-lipgloss.Width(cell)+t.gap))
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
