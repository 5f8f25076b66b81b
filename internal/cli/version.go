package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/modeler/internal/buildinfo"
	"github.com/aidanlsb/modeler/internal/ui"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show modeler version and build information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		info := buildinfo.Current()
		if isJSONOutput() {
			outputSuccess(info)
			return nil
		}

		fmt.Fprintf(cmd.OutOrStdout(), "modeler %s\n", info.Version)
		tbl := ui.NewTable(2)
		tbl.AddRow("module", info.ModulePath)
		if info.Commit != "" {
			commit := info.Commit
			if info.Modified {
				commit += " (modified)"
			}
			tbl.AddRow("commit", commit)
		}
		if info.CommitTime != "" {
			tbl.AddRow("built", info.CommitTime)
		}
		tbl.AddRow("go", info.GoVersion)
		tbl.AddRow("platform", info.Platform)
		fmt.Fprint(cmd.OutOrStdout(), tbl.String())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
