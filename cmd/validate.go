package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/bazaargen/bazaargen/internal/keyword"
	"github.com/bazaargen/bazaargen/internal/output"
	"github.com/spf13/cobra"
)

// errInvalidText is returned under --strict when any warning was reported
var errInvalidText = errors.New("effect text has unknown shortcuts")

var validateCmd = &cobra.Command{
	Use:   "validate [text...]",
	Short: "Report unknown shortcut tokens in effect text",
	Long: `Checks effect text for /xx tokens that are not shortcuts. Warnings are
advisory; with --strict the command exits non-zero when any is reported.
Reads stdin when no text is given.`,
	GroupID: "text",
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := readTextInput(args, cmd.InOrStdin())
		if err != nil {
			output.Error("failed to read input: %v", err)
			return err
		}

		jsonOut, _ := cmd.Flags().GetBool("json")
		strict, _ := cmd.Flags().GetBool("strict")
		result := keyword.Validate(text)
		if err := writeValidation(cmd.OutOrStdout(), result, jsonOut); err != nil {
			return err
		}
		if strict && len(result.Warnings) > 0 {
			return errInvalidText
		}
		return nil
	},
}

func writeValidation(w io.Writer, result keyword.Validation, jsonOut bool) error {
	if jsonOut {
		return writeJSON(w, result)
	}
	if len(result.Warnings) == 0 {
		fmt.Fprintln(w, "OK")
		return nil
	}
	for _, warning := range result.Warnings {
		fmt.Fprintf(w, "warning: %s\n", warning)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().Bool("json", false, "Output as JSON")
	validateCmd.Flags().Bool("strict", false, "Exit non-zero when warnings are reported")
}
