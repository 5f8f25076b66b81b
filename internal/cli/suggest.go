package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/modeler/internal/commands"
	"github.com/aidanlsb/modeler/internal/grammar"
	"github.com/aidanlsb/modeler/internal/prompt"
)

var suggestCmd = &cobra.Command{
	Use:   "suggest <text>",
	Short: "Print the completions of a partial command",
	Long: `Print the full-line completions the interactive session would offer for
text, best match first. A trailing space asks for the next word.`,
	Example: `  modeler suggest "drop entity "
  modeler suggest "alter entity Cust" --json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, _, err := loadSchema()
		if err != nil {
			return err
		}
		// No command runs, so no question is ever asked.
		tree, err := commands.NewTree(prompt.NewScripted(), io.Discard)
		if err != nil {
			return handleError(ErrInternal, err, "")
		}
		r := grammar.NewResolver(tree, s, nil, grammar.WithLogger(logger))

		input := args[0]
		suggestions := r.Suggest(input)
		if isJSONOutput() {
			outputSuccess(map[string]interface{}{
				"input":       input,
				"suggestions": suggestions,
				"complete":    r.Validate(input),
			})
			return nil
		}
		for _, line := range suggestions {
			fmt.Fprintln(cmd.OutOrStdout(), line)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(suggestCmd)
}
