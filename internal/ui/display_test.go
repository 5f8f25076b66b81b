package ui

import "testing"

func TestContentWidth(t *testing.T) {
	tests := []struct {
		width int
		want  int
	}{
		{width: 120, want: 120 - MarkdownRenderMargin},
		{width: MinContentWidth, want: MinContentWidth},
		{width: 0, want: MinContentWidth},
	}
	for _, tt := range tests {
		if got := (Display{Width: tt.width}).ContentWidth(); got != tt.want {
			t.Errorf("width %d: got %d, want %d", tt.width, got, tt.want)
		}
	}
}
