package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/modeler/internal/schema"
	"github.com/aidanlsb/modeler/internal/ui"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check the data model for duplicate names and unresolved types",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, path, err := loadSchema()
		if err != nil {
			return err
		}
		issues := schema.Validate(s)
		if len(issues) > 0 {
			if !isJSONOutput() {
				tbl := ui.NewTable(2)
				for _, issue := range issues {
					tbl.AddRow(ui.Bold.Render(issue.Path), issue.Message)
				}
				fmt.Fprint(cmd.OutOrStdout(), tbl.String())
			}
			return handleErrorWithDetails(ErrSchemaInvalid,
				fmt.Sprintf("%s has %d integrity issue(s)", path, len(issues)),
				"Fix the listed types and names, or drop the offending fields",
				map[string]interface{}{"issues": issues})
		}

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{
				"file":     path,
				"entities": len(s.Entities),
				"actions":  len(s.ActionIDs()),
			})
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.Successf("%s is consistent %s", ui.FilePath(path), ui.Count(len(s.Entities), "entity", "entities")))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
