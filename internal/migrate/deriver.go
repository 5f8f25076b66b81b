package migrate

import (
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/aidanlsb/modeler/internal/actionlog"
)

// Script is a forward and backward statement list derived from one log.
type Script struct {
	Up   []Statement
	Down []Statement
}

// Empty reports whether neither half has statements.
func (s *Script) Empty() bool {
	return len(s.Up) == 0 && len(s.Down) == 0
}

// Deriver replays an action log through a registry.
type Deriver struct {
	registry *Registry
	logger   *zap.Logger
}

// NewDeriver returns a deriver over registry. A nil logger discards
// warnings.
func NewDeriver(registry *Registry, logger *zap.Logger) *Deriver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Deriver{registry: registry, logger: logger}
}

// Derive builds the forward script from entries in log order and the
// backward script from their inverses in reverse order. Commands without a
// registered pair are skipped with a warning.
func (d *Deriver) Derive(entries []actionlog.Entry) (*Script, error) {
	script := &Script{}
	for _, e := range entries {
		stmts, err := d.generate(e, "up")
		if err != nil {
			return nil, err
		}
		script.Up = append(script.Up, stmts...)
	}
	for _, e := range slices.Backward(entries) {
		stmts, err := d.generate(e, "down")
		if err != nil {
			return nil, err
		}
		script.Down = append(script.Down, stmts...)
	}
	return script, nil
}

func (d *Deriver) generate(e actionlog.Entry, half string) ([]Statement, error) {
	p, ok := d.registry.Lookup(e.Command)
	gen := p.Up
	if half == "down" {
		gen = p.Down
	}
	if !ok || gen == nil {
		d.logger.Warn("no migration generator for command",
			zap.String("command", e.Command),
			zap.String("half", half),
		)
		return nil, nil
	}
	stmts, err := gen(e)
	if err != nil {
		return nil, fmt.Errorf("derive %s migration for %s: %w", half, e.Command, err)
	}
	return stmts, nil
}
