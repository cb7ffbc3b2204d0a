package cmd

import (
	"fmt"

	"github.com/bazaargen/bazaargen/internal/keyword"
	"github.com/bazaargen/bazaargen/internal/output"
	"github.com/spf13/cobra"
)

var stripCmd = &cobra.Command{
	Use:   "strip [text...]",
	Short: "Remove markup, color directives and shortcuts from text",
	Long: `Produces plain text from raw or processed effect text. Tags are removed,
/cRRGGBB directives are dropped and shortcut tokens are deleted in place.
Reads stdin when no text is given.`,
	Example: `  bazaargen strip "Deal /d 10 damage"
  bazaargen process "Burn 4" | bazaargen strip`,
	GroupID: "text",
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := readTextInput(args, cmd.InOrStdin())
		if err != nil {
			output.Error("failed to read input: %v", err)
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), keyword.Strip(text))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(stripCmd)
}
