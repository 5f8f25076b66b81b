package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/modeler/internal/commands"
	"github.com/aidanlsb/modeler/internal/ui"
)

var describeCmd = &cobra.Command{
	Use:   "describe",
	Short: "Print the whole data model",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, _, err := loadSchema()
		if err != nil {
			return err
		}
		if isJSONOutput() {
			outputSuccess(map[string]interface{}{"schema": s})
			return nil
		}

		md := commands.SchemaMarkdown(s)
		display := ui.DetectDisplay(os.Stdout)
		if !display.Interactive {
			fmt.Fprint(cmd.OutOrStdout(), md)
			return nil
		}
		rendered, err := ui.RenderMarkdown(md, display.ContentWidth())
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), rendered)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(describeCmd)
}
