package ui

import (
	"os"

	"github.com/charmbracelet/x/term"
)

// DefaultTermWidth is used when the output is not a terminal or its size is
// unknown.
const DefaultTermWidth = 100

// MinContentWidth keeps rendered tables readable on very narrow terminals.
const MinContentWidth = 40

// Display describes where rendered output goes.
type Display struct {
	Width int
	// Interactive is true when the output is a terminal, so styled markdown
	// is rendered instead of the raw source.
	Interactive bool
}

// DetectDisplay inspects f, usually os.Stdout.
func DetectDisplay(f *os.File) Display {
	fd := f.Fd()
	d := Display{Width: DefaultTermWidth, Interactive: term.IsTerminal(fd)}
	if d.Interactive {
		if w, _, err := term.GetSize(fd); err == nil && w > 0 {
			d.Width = w
		}
	}
	return d
}

// ContentWidth is the width left for markdown after the render margin.
func (d Display) ContentWidth() int {
	w := d.Width - MarkdownRenderMargin
	if w < MinContentWidth {
		return MinContentWidth
	}
	return w
}
