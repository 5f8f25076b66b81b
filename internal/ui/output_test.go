package ui

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusMessages(t *testing.T) {
	assert.Equal(t, "✓ Saved", Success("Saved"))
	assert.Equal(t, "✓ Created 2 entities", Successf("Created %d entities", 2))
	assert.Equal(t, "✗ no entity found", Error("no entity found"))
	assert.Equal(t, "⚠ careful", Warning("careful"))
	assert.Equal(t, "(1 field)", Count(1, "field", "fields"))
	assert.Equal(t, "(0 fields)", Count(0, "field", "fields"))
}

func TestWithSpinnerOffTerminal(t *testing.T) {
	var buf bytes.Buffer
	boom := errors.New("boom")

	called := false
	err := WithSpinner(&buf, "Working...", func() error {
		called = true
		return boom
	})

	assert.True(t, called)
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, buf.String(), "nothing is drawn off a terminal")
}
