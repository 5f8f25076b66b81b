package ui

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/ansi"
)

// MarkdownRenderMargin is the left margin of rendered descriptions.
const MarkdownRenderMargin = 2

// RenderMarkdown renders a description (headings, paragraphs and tables) for
// the terminal, wrapped at width. The result ends in exactly one newline.
func RenderMarkdown(content string, width int) (string, error) {
	if width <= 0 {
		width = DefaultTermWidth
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStyles(markdownStyle()),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", err
	}
	out, err := r.Render(content)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(out, "\n") + "\n", nil
}

// markdownStyle covers the elements descriptions use. Headings and inline
// code (type names, command usage) take the accent color.
func markdownStyle() ansi.StyleConfig {
	var accent *string
	if color, ok := AccentColor(); ok {
		accent = ptr(color)
	}
	block := func(p ansi.StylePrimitive) ansi.StyleBlock { return ansi.StyleBlock{StylePrimitive: p} }

	return ansi.StyleConfig{
		Document: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{BlockPrefix: "\n", BlockSuffix: "\n"},
			Margin:         ptr(uint(MarkdownRenderMargin)),
		},
		Paragraph: block(ansi.StylePrimitive{}),
		Heading:   block(ansi.StylePrimitive{BlockSuffix: "\n", Color: accent, Bold: ptr(true)}),
		H1:        block(ansi.StylePrimitive{Underline: ptr(true)}),
		H2:        block(ansi.StylePrimitive{Prefix: "» "}),
		Strong:    ansi.StylePrimitive{Bold: ptr(true)},
		Emph:      ansi.StylePrimitive{Italic: ptr(true)},
		Code:      block(ansi.StylePrimitive{Color: accent}),
		Table: ansi.StyleTable{
			StyleBlock:      block(ansi.StylePrimitive{Color: ptr("7")}),
			CenterSeparator: ptr("┼"),
			ColumnSeparator: ptr("│"),
			RowSeparator:    ptr("─"),
		},
	}
}

func ptr[T any](v T) *T { return &v }
