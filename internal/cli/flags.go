package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"github.com/aidanlsb/modeler/internal/migrate"
)

// dialectValue is a flag restricted to the supported SQL dialects.
type dialectValue string

var _ pflag.Value = (*dialectValue)(nil)

func (d *dialectValue) String() string { return string(*d) }

func (d *dialectValue) Set(s string) error {
	dialect, err := migrate.LookupDialect(strings.TrimSpace(s))
	if err != nil {
		return err
	}
	*d = dialectValue(dialect.Name())
	return nil
}

func (d *dialectValue) Type() string { return "dialect" }

// applyFlagOverrides copies explicitly set flags over the loaded config.
func applyFlagOverrides(flags *pflag.FlagSet) error {
	if f := flags.Lookup("dialect"); f != nil && f.Changed {
		cfg.Migrations.Dialect = f.Value.String()
	}
	if f := flags.Lookup("no-verify"); f != nil && f.Changed {
		off, err := flags.GetBool("no-verify")
		if err != nil {
			return fmt.Errorf("invalid --no-verify: %w", err)
		}
		verify := !off
		cfg.Migrations.Verify = &verify
	}
	return nil
}
